package rule

import (
	"testing"

	"github.com/dshills/stylecritic/internal/schema"
)

func TestBuiltin_UniqueIDsAndValidMetadata(t *testing.T) {
	reg := NewRegistry()
	for _, r := range Builtin(DefaultOptions()) {
		if err := reg.Register(r); err != nil {
			t.Errorf("Register(%s): %v", r.ID, err)
		}
	}
}

func TestBuiltin_CoversEveryGuideCategory(t *testing.T) {
	want := []schema.Category{
		schema.CategoryLayout, schema.CategorySyntax, schema.CategoryNaming,
		schema.CategoryComments, schema.CategoryModules, schema.CategoryRegex,
		schema.CategoryExceptions,
	}
	have := map[schema.Category]bool{}
	for _, r := range Builtin(DefaultOptions()) {
		have[r.Category] = true
	}
	for _, c := range want {
		if !have[c] {
			t.Errorf("no built-in rule covers category %s", c)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	cases := []struct{ in, want string }{
		{"fileName", "file_name"},
		{"myHTTPServer", "my_http_server"},
		{"already_snake", "already_snake"},
		{"aB", "a_b"},
		{"userID", "user_id"},
		{"x", "x"},
	}
	for _, tc := range cases {
		if got := snakeCase(tc.in); got != tc.want {
			t.Errorf("snakeCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsPascalCase(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"MyApp", true},
		{"Worker", true},
		{"HTTP", true},
		{"my_app", false},
		{"My_App", false},
		{"lower", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isPascalCase(tc.in); got != tc.want {
			t.Errorf("isPascalCase(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
