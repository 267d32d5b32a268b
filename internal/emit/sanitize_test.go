package emit

import (
	"reflect"
	"testing"
)

func TestSanitizeSegment(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "origin", "origin"},
		{"case preserved", "Point", "Point"},
		{"hyphen", "foo-bar", "foo_bar"},
		{"space", "domain Geometry", "domain_Geometry"},
		{"trimmed", "  px  ", "px"},
		{"run collapsed", "a--b..c", "a_b_c"},
		{"edge underscores", "_hidden_", "hidden"},
		{"empty", "", "x"},
		{"only junk", "---", "x"},
		{"leading digit", "1px", "n_1px"},
		{"digit after trim", "-1px", "n_1px"},
		{"unicode", "тень", "x"},
		{"mixed", "2h30min!", "n_2h30min"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeSegment(tc.in); got != tc.want {
				t.Fatalf("SanitizeSegment(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestModuleSegments(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"aivi.date.time", []string{"aivi", "date", "time"}},
		{"aivi", []string{"aivi"}},
		{"weird..name", []string{"weird", "x", "name"}},
	}
	for _, tc := range cases {
		if got := ModuleSegments(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ModuleSegments(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
