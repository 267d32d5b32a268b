package decl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitTopLevel(t *testing.T) {
	cases := []struct {
		name string
		text string
		sep  byte
		want []string
	}{
		{"plain", "Int, Text, Bool", ',', []string{"Int", "Text", "Bool"}},
		{"nested parens", "(Int, Int), Text", ',', []string{"(Int, Int)", "Text"}},
		{"nested braces", "{ a: Int, b: Int }, Text", ',', []string{"{ a: Int, b: Int }", "Text"}},
		{"nested brackets", "[Int, Int], Text", ',', []string{"[Int, Int]", "Text"}},
		{"empty middle kept", "a,,b", ',', []string{"a", "", "b"}},
		{"empty tail dropped", "a,", ',', []string{"a"}},
		{"unbalanced closer ignored", ") a, b", ',', []string{") a", "b"}},
		{"pipes", "Deg Float | Rad Float", '|', []string{"Deg Float", "Rad Float"}},
		{"pipe inside parens", "Wrap (A | B) | Plain", '|', []string{"Wrap (A | B)", "Plain"}},
		{"empty input", "", ',', nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitTopLevel(tc.text, tc.sep)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("split mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
