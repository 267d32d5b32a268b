package driver

import (
	"os"

	"gopkg.in/yaml.v3"

	"aivigen/internal/source"
)

// reportDoc is the YAML shape written for --report. Field order is fixed by
// the struct; modules keep input order, so the document is deterministic.
type reportDoc struct {
	SourceDir string          `yaml:"source_dir"`
	OutputDir string          `yaml:"output_dir"`
	Generated int             `yaml:"generated"`
	Files     int             `yaml:"files"`
	Reused    int             `yaml:"reused,omitempty"`
	Modules   []ModuleOutcome `yaml:"modules"`
	Drift     []string        `yaml:"drift,omitempty"`
	Pruned    []string        `yaml:"pruned,omitempty"`
}

func writeReport(path string, opts Options, res Result) error {
	doc := reportDoc{
		SourceDir: source.NormalizePath(opts.SourceDir),
		OutputDir: source.NormalizePath(opts.OutputDir),
		Generated: res.Generated,
		Files:     res.Files,
		Reused:    res.Reused,
		Modules:   res.Modules,
		Drift:     res.Drift,
		Pruned:    res.Pruned,
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
