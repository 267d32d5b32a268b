package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aivigen/internal/decl"
	"aivigen/internal/extract"
	"aivigen/internal/source"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] file.rs",
	Short: "Dump the declaration model of one definition file",
	Long: `Inspect extracts the embedded module from a definition file and prints
its declaration model: exports with their classification, records, unions,
classes and domain blocks.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	f, err := source.Load(filePath)
	if err != nil {
		return err
	}
	def, err := extract.Extract(f)
	if err != nil {
		return err
	}
	mod := decl.Parse(def.Source)

	switch format {
	case "pretty":
		renderModulePretty(os.Stdout, f, def, mod)
		return nil
	case "json":
		return renderModuleJSON(os.Stdout, f, def, mod)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// classifyExport names the emit path an export will take.
func classifyExport(m *decl.Module, export string) string {
	switch {
	case strings.HasPrefix(export, "domain "):
		return "domain re-export"
	case m.IsClass(export):
		return "class (skipped)"
	case m.IsCtor(export):
		return "constructor"
	case m.Record(export) != nil:
		return "record"
	case m.IsType(export):
		return "type"
	default:
		return "value"
	}
}

func renderModulePretty(out io.Writer, f *source.File, def extract.ModuleDefinition, m *decl.Module) {
	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(out, "module %s\n", def.Name)
	_, _ = fmt.Fprintf(out, "source: %s (sha256 %.12s)\n", def.Path, f.HashHex())

	_, _ = fmt.Fprintf(out, "\nexports (%d):\n", len(m.Exports))
	for _, e := range m.Exports {
		_, _ = fmt.Fprintf(out, "  %-24s %s\n", e, classifyExport(m, e))
	}

	if len(m.Records) > 0 {
		_, _ = fmt.Fprintf(out, "\nrecords (%d):\n", len(m.Records))
		for _, r := range m.Records {
			parts := make([]string, 0, len(r.Fields))
			for _, fld := range r.Fields {
				parts = append(parts, fld.Name+": "+fld.Type)
			}
			_, _ = fmt.Fprintf(out, "  %s = { %s }  (line %d)\n", r.Name, strings.Join(parts, ", "), r.Line)
		}
	}

	if len(m.ADTs) > 0 {
		_, _ = fmt.Fprintf(out, "\nunions (%d):\n", len(m.ADTs))
		for _, a := range m.ADTs {
			_, _ = fmt.Fprintf(out, "  %s = %s  (line %d)\n", a.Name, strings.Join(a.Ctors, " | "), a.Line)
		}
	}

	if len(m.Classes) > 0 {
		_, _ = fmt.Fprintf(out, "\nclasses (%d):\n", len(m.Classes))
		for _, c := range m.Classes {
			_, _ = fmt.Fprintf(out, "  %s  (line %d)\n", c.Name, c.Line)
		}
	}

	for _, d := range m.Domains {
		_, _ = fmt.Fprintf(out, "\ndomain %s over %s  (line %d)\n", d.Name, d.Carrier, d.Line)
		for _, op := range d.Operators {
			_, _ = fmt.Fprintf(out, "  (%s) : %s\n", op.Symbol, op.Signature)
		}
		if len(d.Templates) > 0 {
			_, _ = fmt.Fprintf(out, "  templates: %s\n", strings.Join(d.Templates, ", "))
		}
		if len(d.Literals) > 0 {
			_, _ = fmt.Fprintf(out, "  literals:  %s\n", strings.Join(d.Literals, ", "))
		}
	}
}

type inspectExport struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type inspectRecord struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
	Line   uint32   `json:"line"`
}

type inspectUnion struct {
	Name  string   `json:"name"`
	Ctors []string `json:"ctors"`
	Line  uint32   `json:"line"`
}

type inspectDomain struct {
	Name      string   `json:"name"`
	Carrier   string   `json:"carrier"`
	Line      uint32   `json:"line"`
	Operators []string `json:"operators,omitempty"`
	Templates []string `json:"templates,omitempty"`
	Literals  []string `json:"literals,omitempty"`
}

type inspectPayload struct {
	Module  string          `json:"module"`
	Path    string          `json:"path"`
	Hash    string          `json:"hash"`
	Exports []inspectExport `json:"exports"`
	Records []inspectRecord `json:"records,omitempty"`
	Unions  []inspectUnion  `json:"unions,omitempty"`
	Classes []string        `json:"classes,omitempty"`
	Domains []inspectDomain `json:"domains,omitempty"`
}

func renderModuleJSON(out io.Writer, f *source.File, def extract.ModuleDefinition, m *decl.Module) error {
	payload := inspectPayload{
		Module: def.Name,
		Path:   def.Path,
		Hash:   f.HashHex(),
	}
	for _, e := range m.Exports {
		payload.Exports = append(payload.Exports, inspectExport{Name: e, Kind: classifyExport(m, e)})
	}
	for _, r := range m.Records {
		rec := inspectRecord{Name: r.Name, Line: r.Line}
		for _, fld := range r.Fields {
			rec.Fields = append(rec.Fields, fld.Name+": "+fld.Type)
		}
		payload.Records = append(payload.Records, rec)
	}
	for _, a := range m.ADTs {
		payload.Unions = append(payload.Unions, inspectUnion{Name: a.Name, Ctors: a.Ctors, Line: a.Line})
	}
	for _, c := range m.Classes {
		payload.Classes = append(payload.Classes, c.Name)
	}
	for _, d := range m.Domains {
		dom := inspectDomain{
			Name:      d.Name,
			Carrier:   d.Carrier,
			Line:      d.Line,
			Templates: d.Templates,
			Literals:  d.Literals,
		}
		for _, op := range d.Operators {
			dom.Operators = append(dom.Operators, "("+op.Symbol+") : "+op.Signature)
		}
		payload.Domains = append(payload.Domains, dom)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
