package decl

import (
	"fmt"
	"regexp"
	"strings"

	"fortio.org/safecast"
)

var (
	typeDeclRE   = regexp.MustCompile(`^\s*([A-Z][A-Za-z0-9_]*)\b.*=`)
	recordRE     = regexp.MustCompile(`^\s*([A-Z][A-Za-z0-9_]*)\b[^=]*=\s*\{(.*)\}\s*$`)
	classRE      = regexp.MustCompile(`^\s*class\s+([A-Z][A-Za-z0-9_]*)\b`)
	adtHeadRE    = regexp.MustCompile(`^([A-Z][A-Za-z0-9_]*)\b`)
	upperNameRE  = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
	domainOpenRE = regexp.MustCompile(`^\s*domain\s+([A-Za-z][A-Za-z0-9_]*)\s+over\s+(.+?)\s*=\s*\{\s*$`)

	operatorRE = regexp.MustCompile(`^\s*\(([^)]+)\)\s*:\s*(.+?)\s*$`)
	templateRE = regexp.MustCompile(`^\s*([0-9]+[A-Za-z][A-Za-z0-9_]*)\s*=\s*.+$`)
	literalRE  = regexp.MustCompile(`^\s*([a-z][A-Za-z0-9_]*)\s*=\s*[A-Z][A-Za-z0-9_]*\b`)
)

// Parse scans the DSL source and returns its declaration model. Pure and
// total: malformed lines are skipped, never reported.
func Parse(src string) *Module {
	m := &Module{}

	var dom *DomainDecl
	depth := 0

	for i, line := range strings.Split(src, "\n") {
		n := lineNumber(i)

		if dom != nil {
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth > 0 {
				scanDomainLine(dom, line)
			} else {
				m.Domains = append(m.Domains, *dom)
				dom = nil
			}
		} else if open := domainOpenRE.FindStringSubmatch(line); open != nil {
			dom = &DomainDecl{Name: open[1], Carrier: strings.TrimSpace(open[2]), Line: n}
			depth = 1
		}

		// Каждая строка проходит через все распознаватели, включая
		// внутренности domain-блоков.
		m.scanExport(line)
		m.scanClass(line, n)
		m.scanTypeAndRecord(line, n)
		m.scanADT(line, n)
	}

	// Незакрытый блок заканчивается вместе с исходником.
	if dom != nil {
		m.Domains = append(m.Domains, *dom)
	}
	return m
}

func (m *Module) scanExport(line string) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "export ") {
		return
	}
	rest := strings.TrimSpace(strings.SplitN(s[len("export "):], "//", 2)[0])
	for _, part := range strings.Split(rest, ",") {
		if name := strings.TrimSpace(part); name != "" {
			m.Exports = append(m.Exports, name)
		}
	}
}

func (m *Module) scanClass(line string, n uint32) {
	if c := classRE.FindStringSubmatch(line); c != nil {
		m.Classes = append(m.Classes, ClassDecl{Name: c[1], Line: n})
	}
}

func (m *Module) scanTypeAndRecord(line string, n uint32) {
	t := typeDeclRE.FindStringSubmatch(line)
	if t == nil {
		return
	}
	rec := recordRE.FindStringSubmatch(line)
	m.Types = append(m.Types, TypeDecl{Name: t[1], Line: n, IsRecord: rec != nil})
	if rec == nil {
		return
	}
	m.Records = append(m.Records, RecordDecl{Name: rec[1], Line: n, Fields: parseFields(rec[2])})
}

func (m *Module) scanADT(line string, n uint32) {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "//") {
		return
	}
	if !strings.Contains(s, "|") || !strings.Contains(s, "=") {
		return
	}
	eq := strings.Index(s, "=")
	head := adtHeadRE.FindStringSubmatch(s[:eq])
	if head == nil {
		return
	}

	var ctors []string
	for _, alt := range SplitTopLevel(s[eq+1:], '|') {
		tok := strings.Fields(alt)
		if len(tok) == 0 {
			continue
		}
		if upperNameRE.MatchString(tok[0]) {
			ctors = append(ctors, tok[0])
		}
	}
	m.ADTs = append(m.ADTs, ADTDecl{Name: head[1], Line: n, Ctors: ctors})
}

func scanDomainLine(d *DomainDecl, line string) {
	if op := operatorRE.FindStringSubmatch(line); op != nil {
		d.Operators = append(d.Operators, Operator{
			Symbol:    strings.TrimSpace(op[1]),
			Signature: strings.TrimSpace(op[2]),
		})
		return
	}
	if tpl := templateRE.FindStringSubmatch(line); tpl != nil {
		d.Templates = append(d.Templates, tpl[1])
		return
	}
	if lit := literalRE.FindStringSubmatch(line); lit != nil {
		d.Literals = append(d.Literals, lit[1])
	}
}

func parseFields(body string) []Field {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	var fields []Field
	for _, part := range SplitTopLevel(body, ',') {
		if part == "" {
			continue
		}
		idx := strings.Index(part, ":")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(part[:idx])
		typ := strings.TrimSpace(part[idx+1:])
		if name == "" {
			continue
		}
		fields = append(fields, Field{Name: name, Type: typ})
	}
	return fields
}

func lineNumber(idx int) uint32 {
	n, err := safecast.Conv[uint32](idx + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return n
}
