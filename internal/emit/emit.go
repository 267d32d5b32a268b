package emit

import (
	"path"
	"regexp"
	"strings"

	"aivigen/internal/decl"
	"aivigen/internal/synth"
)

var (
	upperNameRE   = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
	suffixShapeRE = regexp.MustCompile(`^[0-9]+[A-Za-z][A-Za-z0-9_]*$`)
)

const (
	useTestlib   = "use aivi.testing (assert)\n"
	smokeSubject = "\n@test\nsmoke = effect {\n  _ <- pure subject\n  _ <- assert True\n}\n"
	smokeTrivial = "\n@test\nsmoke = effect {\n  _ <- assert True\n}\n"
)

// Emitter builds the generated test documents for one module. Pure; callers
// own all I/O.
type Emitter struct {
	ModulePrefix string // dotted prefix of generated module names
	FileExt      string // extension of generated files, with the dot
}

// File is one generated document, addressed relative to the output root.
type File struct {
	Path    string
	Content string
}

// Skip records an export whose sample synthesis degraded: TypeExpr is the
// normalized type text no rule covered.
type Skip struct {
	Export   string
	TypeExpr string
}

// Emitted is the outcome for one module. ExportTests counts plain export
// tests only; domain cases are emitted but never counted.
type Emitted struct {
	Files       []File
	ExportTests int
	Skipped     []Skip
}

// ModuleFiles builds every test document for the named module: one per plain
// export in declared order (duplicates processed independently), then the
// domain cases in block order.
func (e *Emitter) ModuleFiles(name string, m *decl.Module) Emitted {
	segs := ModuleSegments(name)
	syn := synth.New(m, m.FirstDomain())

	var out Emitted
	for _, export := range m.Exports {
		// Exports spelled "domain X" surface through the domain path.
		if strings.HasPrefix(export, "domain ") {
			continue
		}
		// Classes are capability markers, not values.
		if m.IsClass(export) {
			continue
		}
		f, skips := e.exportFile(name, segs, export, m, syn)
		out.Files = append(out.Files, f)
		out.Skipped = append(out.Skipped, skips...)
		out.ExportTests++
	}

	for _, d := range m.Domains {
		out.Files = append(out.Files, e.domainFiles(name, segs, d)...)
	}
	return out
}

func (e *Emitter) exportFile(mod string, segs []string, export string, m *decl.Module, syn *synth.Synthesizer) (File, []Skip) {
	caseName := SanitizeSegment(export)
	testModule := e.ModulePrefix + "." + strings.Join(segs, ".") + "." + caseName

	var skips []Skip
	var b strings.Builder
	b.WriteString(header(testModule))
	b.WriteString("\nuse aivi\n")
	b.WriteString(useTestlib)
	b.WriteString("\n")
	b.WriteString(useAll(mod))

	switch {
	case upperNameRE.MatchString(export) && m.IsCtor(export):
		b.WriteString("\nsubject = " + export + "\n")
		b.WriteString(smokeSubject)

	case upperNameRE.MatchString(export) && m.Record(export) != nil:
		// Рекорд-правило синтезатора тотально: поля без правила вырождаются
		// в Unit, а их типы попадают в список пропусков.
		r := syn.Synthesize(export)
		b.WriteString("\nsubject : " + export + "\n")
		b.WriteString("subject = " + r.Expr() + "\n")
		b.WriteString(smokeSubject)
		for _, p := range r.Placeholders() {
			skips = append(skips, Skip{Export: export, TypeExpr: p})
		}

	case upperNameRE.MatchString(export):
		b.WriteString("\nRef = " + export + "\n")
		b.WriteString(smokeTrivial)

	default:
		subject := export
		if suffixShapeRE.MatchString(export) {
			suffix := strings.TrimLeft(export, "0123456789")
			subject = suffixBase(suffix) + suffix
		}
		b.WriteString("\nsubject = " + subject + "\n")
		b.WriteString(smokeSubject)
	}

	p := path.Join(path.Join(segs...), caseName+e.FileExt)
	return File{Path: p, Content: b.String()}, skips
}

func (e *Emitter) domainFiles(mod string, segs []string, d decl.DomainDecl) []File {
	domDir := "domain_" + SanitizeSegment(d.Name)
	dir := path.Join(path.Join(segs...), domDir)
	moduleBase := e.ModulePrefix + "." + strings.Join(segs, ".") + "." + domDir

	var files []File
	for _, tpl := range d.Templates {
		suffix := strings.TrimLeft(tpl, "0123456789")
		caseName := "suffix_" + SanitizeSegment(suffix)
		subject := suffixBase(suffix) + suffix
		files = append(files, e.domainCase(mod, d.Name, moduleBase, dir, caseName, subject))
	}
	for _, lit := range d.Literals {
		caseName := "literal_" + SanitizeSegment(lit)
		files = append(files, e.domainCase(mod, d.Name, moduleBase, dir, caseName, lit))
	}
	return files
}

func (e *Emitter) domainCase(mod, domainName, moduleBase, dir, caseName, subject string) File {
	var b strings.Builder
	b.WriteString(header(moduleBase + "." + caseName))
	b.WriteString("\nuse aivi\n")
	b.WriteString(useTestlib)
	b.WriteString("\n")
	b.WriteString(useAll(mod))
	b.WriteString("\n")
	b.WriteString(useSelect(mod, "domain "+domainName))
	b.WriteString("\nsubject = " + subject + "\n")
	b.WriteString(smokeSubject)

	return File{Path: path.Join(dir, caseName+e.FileExt), Content: b.String()}
}

// suffixBase picks the literal magnitude for a unit suffix; the decimal
// spelling carries a fractional base so the literal parses as a float.
func suffixBase(suffix string) string {
	if suffix == "dec" {
		return "3.14"
	}
	return "2"
}

func header(testModule string) string {
	return "@no_prelude\nmodule " + testModule + "\n"
}

func useAll(module string) string {
	return "use " + module + "\n"
}

func useSelect(module, item string) string {
	return "use " + module + " (" + item + ")\n"
}
