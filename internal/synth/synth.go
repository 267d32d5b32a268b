package synth

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"aivigen/internal/decl"
)

const memoEntries = 256

var primitives = map[string]string{
	"Int":   "1",
	"Float": "1.0",
	"Bool":  "True",
	"Text":  `"x"`,
	"Char":  "'x'",
	"Unit":  "Unit",
	"Bytes": "bytes.empty",
}

// Result of a synthesis attempt: either a sample expression, or the
// normalized type text no rule covered.
type Result struct {
	typeExpr     string
	expr         string
	supported    bool
	placeholders []string
}

// Supported reports whether a sample expression was produced.
func (r Result) Supported() bool { return r.supported }

// Expr returns the sample expression; empty for unsupported results.
func (r Result) Expr() string { return r.expr }

// TypeExpr returns the normalized type text the attempt ran against.
func (r Result) TypeExpr() string { return r.typeExpr }

// Placeholders lists the normalized subtype texts that degraded to the Unit
// placeholder inside a successful synthesis, in encounter order.
func (r Result) Placeholders() []string { return r.placeholders }

func synthesized(ty, expr string) Result {
	return Result{typeExpr: ty, expr: expr, supported: true}
}

func unsupported(ty string) Result {
	return Result{typeExpr: ty}
}

// Synthesizer builds sample expressions for the type texts of one module.
// domain supplies the Delta context and may be nil.
type Synthesizer struct {
	mod     *decl.Module
	domain  *decl.DomainDecl
	memo    *lru.Cache[string, Result]
	active  map[string]bool // record names on the current recursion path
	pending []string        // placeholder subtypes of the current top-level call
}

// New returns a synthesizer bound to a declaration model and a delta context.
func New(m *decl.Module, domain *decl.DomainDecl) *Synthesizer {
	memo, err := lru.New[string, Result](memoEntries)
	if err != nil {
		panic(fmt.Errorf("synth memo: %w", err))
	}
	return &Synthesizer{
		mod:    m,
		domain: domain,
		memo:   memo,
		active: make(map[string]bool),
	}
}

// Synthesize produces a sample expression for typeExpr. Pure and total:
// shapes no rule covers come back as unsupported results, never as errors.
// Top-level results are memoized per synthesizer.
func (s *Synthesizer) Synthesize(typeExpr string) Result {
	ty := normalize(typeExpr)
	if r, ok := s.memo.Get(ty); ok {
		return r
	}
	s.pending = nil
	r := s.synth(ty)
	r.placeholders = s.pending
	s.memo.Add(ty, r)
	return r
}

// synth tries the rules in fixed priority order; earlier rules win even when
// a later one would also match. ty is already normalized.
func (s *Synthesizer) synth(ty string) Result {
	// Повторный вход в ту же record-форму означает цикл: правило
	// пропускается, поле получит Unit-заглушку.
	if rec := s.mod.Record(ty); rec != nil && !s.active[ty] {
		s.active[ty] = true
		defer delete(s.active, ty)

		parts := make([]string, 0, len(rec.Fields))
		for _, f := range rec.Fields {
			expr := "Unit"
			if fr := s.synth(normalize(f.Type)); fr.Supported() {
				expr = fr.Expr()
			} else {
				s.pending = append(s.pending, fr.TypeExpr())
			}
			parts = append(parts, f.Name+": "+expr)
		}
		return synthesized(ty, "{ "+strings.Join(parts, ", ")+" }")
	}

	if lit, ok := primitives[ty]; ok {
		return synthesized(ty, lit)
	}

	if strings.HasPrefix(ty, "Option ") {
		return synthesized(ty, "None")
	}
	if strings.HasPrefix(ty, "List ") {
		return synthesized(ty, "[]")
	}

	if strings.HasPrefix(ty, "(") && strings.HasSuffix(ty, ")") {
		inner := strings.TrimSpace(ty[1 : len(ty)-1])
		if items := decl.SplitTopLevel(inner, ','); len(items) >= 2 {
			exprs := make([]string, len(items))
			for i, item := range items {
				exprs[i] = "Unit"
				if r := s.synth(normalize(item)); r.Supported() {
					exprs[i] = r.Expr()
				} else {
					s.pending = append(s.pending, r.TypeExpr())
				}
			}
			return synthesized(ty, "("+strings.Join(exprs, ", ")+")")
		}
	}

	if strings.HasPrefix(ty, "Map ") {
		return synthesized(ty, `Map.insert "a" 1 Map.empty`)
	}
	if strings.HasPrefix(ty, "Set ") {
		return synthesized(ty, "Set.insert 1 Set.empty")
	}

	if ty == "Delta" && s.domain != nil {
		if len(s.domain.Templates) > 0 {
			suffix := strings.TrimLeft(s.domain.Templates[0], "0123456789")
			return synthesized(ty, "2"+suffix)
		}
		if len(s.domain.Literals) > 0 {
			return synthesized(ty, s.domain.Literals[0])
		}
	}

	return unsupported(ty)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
