package emit

import (
	"regexp"
	"strings"
)

var (
	nonIdentRE      = regexp.MustCompile(`[^A-Za-z0-9_]`)
	underscoreRunRE = regexp.MustCompile(`_+`)
)

// SanitizeSegment maps an arbitrary identifier onto a path- and module-safe
// segment. No case folding: generated module names keep the source casing.
func SanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	seg = nonIdentRE.ReplaceAllString(seg, "_")
	seg = underscoreRunRE.ReplaceAllString(seg, "_")
	seg = strings.Trim(seg, "_")
	if seg == "" {
		seg = "x"
	}
	if seg[0] >= '0' && seg[0] <= '9' {
		seg = "n_" + seg
	}
	return seg
}

// ModuleSegments sanitizes every dot-separated part of a module name.
func ModuleSegments(moduleName string) []string {
	parts := strings.Split(moduleName, ".")
	segs := make([]string, len(parts))
	for i, p := range parts {
		segs[i] = SanitizeSegment(p)
	}
	return segs
}
