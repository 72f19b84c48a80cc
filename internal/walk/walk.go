// Package walk expands CLI path arguments into the list of files to scan.
package walk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"_build": true,
	"deps":   true,
	".git":   true,
}

// Expand turns path arguments into a sorted, deduplicated file list.
// Directories are walked recursively for .ex/.exs files; explicitly named
// files are accepted regardless of extension. A nonexistent path is an
// invocation fault.
func Expand(paths []string, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(p string) {
		p = filepath.Clean(p)
		if seen[p] || excluded(p, exclude) {
			return
		}
		seen[p] = true
		files = append(files, p)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if skipDirs[name] || (strings.HasPrefix(name, ".") && path != p) {
					return filepath.SkipDir
				}
				return nil
			}
			switch filepath.Ext(path) {
			case ".ex", ".exs":
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// excluded reports whether p matches any exclude glob, tried against the
// full slash path and against the base name.
func excluded(p string, globs []string) bool {
	slash := filepath.ToSlash(p)
	for _, g := range globs {
		if ok, _ := filepath.Match(g, slash); ok {
			return true
		}
		if ok, _ := filepath.Match(g, filepath.Base(p)); ok {
			return true
		}
	}
	return false
}
