// Package profile defines the named built-in rule presets.
package profile

import (
	"fmt"

	"github.com/dshills/stylecritic/internal/config"
	"github.com/dshills/stylecritic/internal/rule"
	"github.com/dshills/stylecritic/internal/schema"
)

// Profile selects and re-ranks the built-in rule set.
type Profile struct {
	Name string
	// Rules restricts the selection to these identifiers; nil selects
	// every built-in rule.
	Rules []string
	// Severities overrides per-rule severity.
	Severities map[string]schema.Severity
	// Options replaces the stock rule options.
	Options rule.Options
}

// Get returns the built-in profile for the given name.
func Get(name string) (*Profile, error) {
	switch name {
	case "default", "":
		return defaultProfile(), nil
	case "strict":
		return strict(), nil
	case "minimal":
		return minimal(), nil
	default:
		return nil, fmt.Errorf("unknown profile %q: valid profiles are default, strict, minimal", name)
	}
}

// Build assembles the frozen registry for this profile with cfg's
// overrides applied on top. Config entries naming unknown rules fail
// here, before any file is processed.
func (p *Profile) Build(cfg *config.Config) (*rule.Registry, error) {
	opts := p.Options
	if cfg.Options.MaxLineLength > 0 {
		opts.MaxLineLength = cfg.Options.MaxLineLength
	}
	if cfg.Options.IndentWidth > 0 {
		opts.IndentWidth = cfg.Options.IndentWidth
	}

	defs := rule.Builtin(opts)
	byID := make(map[string]int, len(defs))
	for i, r := range defs {
		byID[r.ID] = i
	}
	for id := range cfg.Rules {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("config references unknown rule %q", id)
		}
	}

	selected := defs
	if p.Rules != nil {
		selected = selected[:0:0]
		for _, id := range p.Rules {
			i, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("profile %s references unknown rule %q", p.Name, id)
			}
			selected = append(selected, defs[i])
		}
	}

	reg := rule.NewRegistry()
	for _, r := range selected {
		if sev, ok := p.Severities[r.ID]; ok {
			r.Severity = sev
		}
		if rc, ok := cfg.Rules[r.ID]; ok {
			if rc.Enabled != nil && !*rc.Enabled {
				continue
			}
			if rc.Severity != "" {
				r.Severity = schema.Severity(rc.Severity)
			}
		}
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}

func defaultProfile() *Profile {
	return &Profile{
		Name:    "default",
		Options: rule.DefaultOptions(),
	}
}

// strict promotes every rule to error severity and tightens the line
// limit to 80 columns.
func strict() *Profile {
	sev := make(map[string]schema.Severity)
	for _, r := range rule.Builtin(rule.DefaultOptions()) {
		sev[r.ID] = schema.SeverityError
	}
	opts := rule.DefaultOptions()
	opts.MaxLineLength = 80
	return &Profile{
		Name:       "strict",
		Severities: sev,
		Options:    opts,
	}
}

// minimal keeps only the layout and syntax rules, for codebases adopting
// the checker incrementally.
func minimal() *Profile {
	return &Profile{
		Name: "minimal",
		Rules: []string{
			"trailing-whitespace",
			"tab-indentation",
			"indent-width",
			"line-length",
			"space-after-comma",
			"bracket-spacing",
		},
		Options: rule.DefaultOptions(),
	}
}
