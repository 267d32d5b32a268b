package decl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const geometrySource = `module aivi.geometry

export Point2, Point3, origin2, 1px // ctor and value exports
export domain Geometry
export Angle

Point2 = { x: Float, y: Float }
Point3 = { x: Float, y: Float, z: Float }
Pair = { pos: (Int, Int), label: Text }

origin2 = { x: 0.0, y: 0.0 }

Angle = Deg Float | Rad Float

class Metric A

Grid =
  { cells: List Int
  }

domain Geometry over Point2 = {
  (+) : Point2 -> Delta -> Point2
  (-) : Point2 -> Point2 -> Delta
  1px = pixels 1
  eom = EndOfMonth
  type Length = Px Float | Em Float
  Inner = { dx: Float }
}

domain Geometry over Point3 = {
  2em = ems 2
}
`

func TestParseGeometryModel(t *testing.T) {
	got := Parse(geometrySource)

	want := &Module{
		Exports: []string{"Point2", "Point3", "origin2", "1px", "domain Geometry", "Angle"},
		Types: []TypeDecl{
			{Name: "Point2", Line: 7, IsRecord: true},
			{Name: "Point3", Line: 8, IsRecord: true},
			{Name: "Pair", Line: 9, IsRecord: true},
			{Name: "Angle", Line: 13},
			{Name: "Grid", Line: 17},
			{Name: "Inner", Line: 27, IsRecord: true},
		},
		Records: []RecordDecl{
			{Name: "Point2", Line: 7, Fields: []Field{{"x", "Float"}, {"y", "Float"}}},
			{Name: "Point3", Line: 8, Fields: []Field{{"x", "Float"}, {"y", "Float"}, {"z", "Float"}}},
			{Name: "Pair", Line: 9, Fields: []Field{{"pos", "(Int, Int)"}, {"label", "Text"}}},
			{Name: "Inner", Line: 27, Fields: []Field{{"dx", "Float"}}},
		},
		Classes: []ClassDecl{{Name: "Metric", Line: 15}},
		ADTs:    []ADTDecl{{Name: "Angle", Line: 13, Ctors: []string{"Deg", "Rad"}}},
		Domains: []DomainDecl{
			{
				Name:    "Geometry",
				Carrier: "Point2",
				Line:    21,
				Operators: []Operator{
					{Symbol: "+", Signature: "Point2 -> Delta -> Point2"},
					{Symbol: "-", Signature: "Point2 -> Point2 -> Delta"},
				},
				Templates: []string{"1px"},
				Literals:  []string{"eom"},
			},
			{
				Name:      "Geometry",
				Carrier:   "Point3",
				Line:      30,
				Templates: []string{"2em"},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("declaration model mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmptySource(t *testing.T) {
	got := Parse("")
	if diff := cmp.Diff(&Module{}, got); diff != "" {
		t.Fatalf("empty source must yield an empty model (-want +got):\n%s", diff)
	}
}

func TestParseMultiLineRecordNotExtracted(t *testing.T) {
	m := Parse("Grid =\n  { cells: List Int\n  }\n")

	if m.Record("Grid") != nil {
		t.Fatalf("multi-line record bodies must not be extracted")
	}
	if !m.IsType("Grid") {
		t.Fatalf("the declaring line still counts as a type")
	}
}

func TestParseUnterminatedDomainClosesAtEOF(t *testing.T) {
	m := Parse("domain Chrono over Instant = {\n  1ms = milliseconds 1\n  eom = EndOfMonth\n")

	if len(m.Domains) != 1 {
		t.Fatalf("expected 1 domain, got %d", len(m.Domains))
	}
	d := m.Domains[0]
	if d.Name != "Chrono" || d.Carrier != "Instant" {
		t.Fatalf("unexpected domain header %q over %q", d.Name, d.Carrier)
	}
	if diff := cmp.Diff([]string{"1ms"}, d.Templates); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"eom"}, d.Literals); diff != "" {
		t.Fatalf("literals mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDomainWithNestedBraces(t *testing.T) {
	src := "domain Sched over Plan = {\n" +
		"  rule = Every {\n" +
		"    hour: 1\n" +
		"  }\n" +
		"  1h = hours 1\n" +
		"}\n" +
		"after = 1\n"

	m := Parse(src)
	if len(m.Domains) != 1 {
		t.Fatalf("expected 1 domain, got %d", len(m.Domains))
	}
	d := m.Domains[0]
	if diff := cmp.Diff([]string{"rule"}, d.Literals); diff != "" {
		t.Fatalf("nested-brace literal mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1h"}, d.Templates); diff != "" {
		t.Fatalf("template after nested block mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalidTemplateIgnored(t *testing.T) {
	m := Parse("domain Dim over Size = {\n  1% = percent 1\n}\n")

	if len(m.Domains) != 1 {
		t.Fatalf("expected 1 domain, got %d", len(m.Domains))
	}
	d := m.Domains[0]
	if len(d.Templates) != 0 || len(d.Literals) != 0 {
		t.Fatalf("1%% must match neither template nor literal, got %+v", d)
	}
}

func TestRecordLastDeclarationWins(t *testing.T) {
	m := Parse("Url = { raw: Text }\nUrl = { scheme: Text, host: Text }\n")

	r := m.Record("Url")
	if r == nil {
		t.Fatalf("expected a record for Url")
	}
	want := []Field{{"scheme", "Text"}, {"host", "Text"}}
	if diff := cmp.Diff(want, r.Fields); diff != "" {
		t.Fatalf("last declaration must win (-want +got):\n%s", diff)
	}
}

func TestModuleLookups(t *testing.T) {
	m := Parse(geometrySource)

	if !m.IsClass("Metric") || m.IsClass("Point2") {
		t.Fatalf("class lookup broken")
	}
	if !m.IsCtor("Deg") || !m.IsCtor("Rad") || m.IsCtor("Angle") {
		t.Fatalf("ctor lookup broken")
	}
	if !m.IsType("Grid") || m.IsType("origin2") {
		t.Fatalf("type lookup broken")
	}
	if m.Record("Grid") != nil {
		t.Fatalf("Grid has no single-line record body")
	}
	if d := m.FirstDomain(); d == nil || d.Carrier != "Point2" {
		t.Fatalf("FirstDomain must return the first declared block")
	}
	if d := Parse("x = 1\n").FirstDomain(); d != nil {
		t.Fatalf("FirstDomain on a domain-less module must be nil")
	}
}
