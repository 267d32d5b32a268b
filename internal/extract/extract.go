package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"aivigen/internal/source"
)

// Structural failures: any of these aborts the whole run (the input tree is
// expected to be well-formed, a miss means the file moved or changed shape).
var (
	ErrMissingModuleName       = errors.New("missing MODULE_NAME")
	ErrMissingSourceMarker     = errors.New("missing SOURCE marker")
	ErrMissingSourceTerminator = errors.New("missing SOURCE terminator")
)

const (
	sourceMarker     = `pub const SOURCE: &str = r#"`
	sourceTerminator = `"#;`
)

var moduleNameRE = regexp.MustCompile(`MODULE_NAME:\s*&str\s*=\s*"([^"]+)"`)

// ModuleDefinition is one embedded DSL module lifted out of a host file.
// Name is the declared module path (e.g. "aivi.geometry"), Source the raw
// DSL text between the marker and its terminator, Path the host file.
type ModuleDefinition struct {
	Name   string
	Source string
	Path   string
}

// Extract pulls the module name and the embedded DSL source out of a host
// definition file. Errors wrap the sentinel with the file path.
func Extract(f *source.File) (ModuleDefinition, error) {
	text := string(f.Content)

	m := moduleNameRE.FindStringSubmatch(text)
	if m == nil {
		return ModuleDefinition{}, fmt.Errorf("%s: %w", f.Path, ErrMissingModuleName)
	}
	name := m[1]

	start := strings.Index(text, sourceMarker)
	if start < 0 {
		return ModuleDefinition{}, fmt.Errorf("%s: %w", f.Path, ErrMissingSourceMarker)
	}
	rest := text[start+len(sourceMarker):]

	end := strings.Index(rest, sourceTerminator)
	if end < 0 {
		return ModuleDefinition{}, fmt.Errorf("%s: %w", f.Path, ErrMissingSourceTerminator)
	}

	return ModuleDefinition{
		Name:   name,
		Source: rest[:end],
		Path:   f.Path,
	}, nil
}
