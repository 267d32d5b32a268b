// Package driver runs the generation pipeline: collect definition files,
// build every test document in memory, then write (or check) the output tree.
// The two-phase shape keeps structural failures from leaving partial output
// behind.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"aivigen/internal/config"
	"aivigen/internal/decl"
	"aivigen/internal/emit"
	"aivigen/internal/extract"
	"aivigen/internal/observ"
	"aivigen/internal/source"
)

// ErrOutOfDate reports that check mode found the output tree stale.
var ErrOutOfDate = errors.New("generated files out of date")

// Options configures one generation run.
type Options struct {
	SourceDir    string // definition-file directory
	SourceExt    string // definition extension, with the dot
	IndexName    string // aggregator file name to skip; empty skips nothing
	OutputDir    string // output root
	ModulePrefix string // dotted prefix of generated module names
	FileExt      string // generated-file extension, with the dot

	Check       bool   // compare instead of write
	Incremental bool   // reuse manifest-recorded outputs for unchanged inputs
	Prune       bool   // remove previously recorded outputs this run did not produce
	ReportPath  string // when set, write a YAML run report here

	Logger *zap.Logger   // nil disables debug logging
	Timer  *observ.Timer // nil discards phase timings
}

// NewOptions maps a resolved configuration onto run options. Mode flags and
// the logger stay zero; callers layer those on top.
func NewOptions(cfg config.Config) Options {
	return Options{
		SourceDir:    cfg.Source.Dir,
		SourceExt:    cfg.Source.Ext,
		IndexName:    cfg.Source.Index,
		OutputDir:    cfg.Output.Dir,
		ModulePrefix: cfg.Emit.ModulePrefix,
		FileExt:      cfg.Emit.Ext,
	}
}

func (o *Options) validate() error {
	if o.SourceDir == "" || o.OutputDir == "" {
		return errors.New("source and output directories are required")
	}
	if o.SourceExt == "" || o.FileExt == "" {
		return errors.New("file extensions are required")
	}
	if o.ModulePrefix == "" {
		return errors.New("module prefix is required")
	}
	if o.Check && o.Incremental {
		return errors.New("check and incremental modes are mutually exclusive")
	}
	return nil
}

// SkippedExport is one export whose sample synthesis degraded to a
// placeholder or a reference-only test.
type SkippedExport struct {
	Export   string `yaml:"export"`
	TypeExpr string `yaml:"type"`
}

// ModuleOutcome captures one processed definition file.
type ModuleOutcome struct {
	Module  string          `yaml:"module"`
	Input   string          `yaml:"input"`
	Exports int             `yaml:"export_tests"`
	Outputs []string        `yaml:"outputs"`
	Skipped []SkippedExport `yaml:"skipped,omitempty"`
	Reused  bool            `yaml:"reused,omitempty"`
}

// Result aggregates the counts and artifacts of a run. Generated counts plain
// export tests only; domain cases land in Files but never in Generated.
type Result struct {
	Generated int
	Files     int
	Reused    int             // definition files reused from the manifest
	Drift     []string        // check mode: stale output paths
	Pruned    []string        // removed stale outputs
	Modules   []ModuleOutcome // input order
}

type outputFile struct {
	path    string // slash-separated, relative to the output root
	content string
}

type moduleBuild struct {
	input   string // collected path, slash-normalized
	key     string // absolute path, manifest key
	hash    string
	name    string
	exports int
	outputs []outputFile
	skipped []emit.Skip
	reused  bool
}

// Generate runs the pipeline. Phase one builds everything in memory and any
// structural error aborts before a single byte lands on disk; phase two
// writes the tree, or in check mode only compares against it.
func Generate(ctx context.Context, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	scan := timer.Begin("scan")
	inputs, err := collectInputs(opts.SourceDir, opts.SourceExt, opts.IndexName)
	timer.End(scan, fmt.Sprintf("%d definition files", len(inputs)))
	if err != nil {
		return Result{}, err
	}

	var cache *manifestCache
	var previous *manifest
	if !opts.Check {
		cache, err = openManifestCache()
		if err != nil {
			return Result{}, err
		}
		if opts.Incremental || opts.Prune {
			prev, ok, loadErr := cache.load(opts.OutputDir)
			if loadErr != nil {
				log.Debug("manifest unreadable, rebuilding everything", zap.Error(loadErr))
			} else if ok {
				previous = prev
			}
		}
	}

	builds, err := buildAll(ctx, opts, inputs, previous, log, timer)
	if err != nil {
		return Result{}, err
	}
	res := summarize(builds)

	if opts.Check {
		wr := timer.Begin("write")
		for _, mb := range builds {
			for _, of := range mb.outputs {
				existing, readErr := os.ReadFile(outputPath(opts.OutputDir, of.path))
				if readErr != nil || string(existing) != of.content {
					res.Drift = append(res.Drift, of.path)
				}
			}
		}
		timer.End(wr, fmt.Sprintf("check, %d stale", len(res.Drift)))
		if opts.ReportPath != "" {
			if err := writeReport(opts.ReportPath, opts, res); err != nil {
				return res, err
			}
		}
		if len(res.Drift) > 0 {
			return res, fmt.Errorf("%d files out of date: %w", len(res.Drift), ErrOutOfDate)
		}
		return res, nil
	}

	wr := timer.Begin("write")
	written := 0
	live := make(map[string]bool)
	for _, mb := range builds {
		for _, of := range mb.outputs {
			live[of.path] = true
			if mb.reused {
				continue
			}
			abs := outputPath(opts.OutputDir, of.path)
			if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
				return res, err
			}
			if err := os.WriteFile(abs, []byte(of.content), 0o644); err != nil {
				return res, err
			}
			written++
		}
	}
	timer.End(wr, fmt.Sprintf("%d files", written))

	if opts.Prune && previous != nil {
		for _, entry := range previous.Inputs {
			for _, p := range entry.Outputs {
				if live[p] {
					continue
				}
				if err := os.Remove(outputPath(opts.OutputDir, p)); err != nil {
					if errors.Is(err, os.ErrNotExist) {
						continue
					}
					return res, err
				}
				res.Pruned = append(res.Pruned, p)
				log.Debug("pruned stale output", zap.String("path", p))
			}
		}
	}

	man := timer.Begin("manifest")
	next := &manifest{Schema: manifestSchema}
	for _, mb := range builds {
		entry := manifestEntry{
			Path:    mb.key,
			Hash:    mb.hash,
			Module:  mb.name,
			Exports: mb.exports,
			Outputs: make([]string, 0, len(mb.outputs)),
		}
		for _, of := range mb.outputs {
			entry.Outputs = append(entry.Outputs, of.path)
		}
		next.Inputs = append(next.Inputs, entry)
	}
	if err := cache.store(opts.OutputDir, next); err != nil {
		return res, err
	}
	timer.End(man, fmt.Sprintf("%d inputs", len(next.Inputs)))

	if opts.ReportPath != "" {
		if err := writeReport(opts.ReportPath, opts, res); err != nil {
			return res, err
		}
	}
	log.Debug("generation complete",
		zap.Int("generated", res.Generated),
		zap.Int("files", res.Files),
		zap.Int("reused", res.Reused),
		zap.Int("pruned", len(res.Pruned)))
	return res, nil
}

// buildAll loads, extracts, parses and emits every input in memory. The
// context is checked between files only; a single file is never interrupted.
func buildAll(ctx context.Context, opts Options, inputs []string, previous *manifest, log *zap.Logger, timer *observ.Timer) ([]*moduleBuild, error) {
	emitter := &emit.Emitter{ModulePrefix: opts.ModulePrefix, FileExt: opts.FileExt}
	prevEntries := previous.index()

	build := timer.Begin("build")
	builds := make([]*moduleBuild, 0, len(inputs))
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := source.Load(input)
		if err != nil {
			return nil, err
		}
		key, err := source.AbsolutePath(input)
		if err != nil {
			return nil, err
		}
		mb := &moduleBuild{input: source.NormalizePath(input), key: key, hash: f.HashHex()}

		if opts.Incremental {
			if entry, ok := prevEntries[key]; ok && entry.Hash == mb.hash && outputsIntact(opts.OutputDir, entry.Outputs) {
				mb.reused = true
				mb.name = entry.Module
				mb.exports = entry.Exports
				for _, p := range entry.Outputs {
					mb.outputs = append(mb.outputs, outputFile{path: p})
				}
				builds = append(builds, mb)
				log.Debug("definition unchanged, outputs reused",
					zap.String("input", mb.input),
					zap.String("module", mb.name),
					zap.Int("outputs", len(mb.outputs)))
				continue
			}
		}

		def, err := extract.Extract(f)
		if err != nil {
			return nil, err
		}
		mod := decl.Parse(def.Source)
		em := emitter.ModuleFiles(def.Name, mod)

		mb.name = def.Name
		mb.exports = em.ExportTests
		mb.outputs = dedupeFiles(em.Files)
		mb.skipped = em.Skipped
		builds = append(builds, mb)

		log.Debug("module built",
			zap.String("input", mb.input),
			zap.String("module", def.Name),
			zap.Int("exports", len(mod.Exports)),
			zap.Int("records", len(mod.Records)),
			zap.Int("domains", len(mod.Domains)),
			zap.Int("tests", em.ExportTests),
			zap.Int("files", len(mb.outputs)))
		for _, s := range em.Skipped {
			log.Debug("synthesis degraded",
				zap.String("module", def.Name),
				zap.String("export", s.Export),
				zap.String("type", s.TypeExpr))
		}
	}
	timer.End(build, fmt.Sprintf("%d modules", len(builds)))
	return builds, nil
}

// dedupeFiles collapses duplicate output paths, keeping the first position
// and the last content. Duplicate exports and same-name domain blocks land on
// the same path with identical bytes; one write is enough.
func dedupeFiles(files []emit.File) []outputFile {
	seen := make(map[string]int, len(files))
	out := make([]outputFile, 0, len(files))
	for _, f := range files {
		if i, ok := seen[f.Path]; ok {
			out[i].content = f.Content
			continue
		}
		seen[f.Path] = len(out)
		out = append(out, outputFile{path: f.Path, content: f.Content})
	}
	return out
}

// outputsIntact reports whether every recorded output still exists on disk.
func outputsIntact(outRoot string, outputs []string) bool {
	for _, p := range outputs {
		info, err := os.Stat(outputPath(outRoot, p))
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

func outputPath(outRoot, rel string) string {
	return filepath.Join(outRoot, filepath.FromSlash(rel))
}

func summarize(builds []*moduleBuild) Result {
	var res Result
	for _, mb := range builds {
		res.Generated += mb.exports
		res.Files += len(mb.outputs)
		if mb.reused {
			res.Reused++
		}
		oc := ModuleOutcome{
			Module:  mb.name,
			Input:   mb.input,
			Exports: mb.exports,
			Reused:  mb.reused,
			Outputs: make([]string, 0, len(mb.outputs)),
		}
		for _, of := range mb.outputs {
			oc.Outputs = append(oc.Outputs, of.path)
		}
		for _, s := range mb.skipped {
			oc.Skipped = append(oc.Skipped, SkippedExport{Export: s.Export, TypeExpr: s.TypeExpr})
		}
		res.Modules = append(res.Modules, oc)
	}
	return res
}
