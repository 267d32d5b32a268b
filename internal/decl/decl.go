// Package decl builds a partial declaration model of an embedded DSL module.
// The scan is line-based and never fails: constructs it cannot read (for
// example multi-line record bodies) are simply absent from the model.
package decl

// Field is one `name: Type` pair of a single-line record body.
type Field struct {
	Name string
	Type string
}

// TypeDecl is any line that declares a Capitalized name with a right-hand side.
type TypeDecl struct {
	Name     string
	Line     uint32
	IsRecord bool
}

// RecordDecl is a record-shape alias declared on a single line.
type RecordDecl struct {
	Name   string
	Line   uint32
	Fields []Field
}

// ClassDecl records a class name; class members are not modeled.
type ClassDecl struct {
	Name string
	Line uint32
}

// ADTDecl is a sum-type line; Ctors keeps the Capitalized head of every
// top-level alternative, in source order.
type ADTDecl struct {
	Name  string
	Line  uint32
	Ctors []string
}

// Operator is one `(sym) : signature` entry of a domain block.
type Operator struct {
	Symbol    string
	Signature string
}

// DomainDecl is one `domain Name over Carrier = { … }` block. The same name
// may recur with different carriers; blocks are kept in source order.
type DomainDecl struct {
	Name      string
	Carrier   string
	Line      uint32
	Operators []Operator
	Templates []string // suffix templates, e.g. 1ms
	Literals  []string // named literals, e.g. eom
}

// Module is the declaration model of one embedded module.
type Module struct {
	Exports []string // export-list entries verbatim, order and duplicates kept
	Types   []TypeDecl
	Records []RecordDecl
	Classes []ClassDecl
	ADTs    []ADTDecl
	Domains []DomainDecl
}

// IsClass reports whether name was declared as a class.
func (m *Module) IsClass(name string) bool {
	for _, c := range m.Classes {
		if c.Name == name {
			return true
		}
	}
	return false
}

// IsCtor reports whether name appears as a constructor of any sum type.
func (m *Module) IsCtor(name string) bool {
	for _, a := range m.ADTs {
		for _, c := range a.Ctors {
			if c == name {
				return true
			}
		}
	}
	return false
}

// Record returns the record-shape declaration for name, or nil.
// При повторном объявлении действует последнее, как и при настоящей загрузке модуля.
func (m *Module) Record(name string) *RecordDecl {
	for i := len(m.Records) - 1; i >= 0; i-- {
		if m.Records[i].Name == name {
			return &m.Records[i]
		}
	}
	return nil
}

// IsType reports whether name was declared with a right-hand side.
func (m *Module) IsType(name string) bool {
	for _, t := range m.Types {
		if t.Name == name {
			return true
		}
	}
	return false
}

// FirstDomain returns the first declared domain block, or nil. It provides
// the delta context for record-field synthesis.
func (m *Module) FirstDomain() *DomainDecl {
	if len(m.Domains) == 0 {
		return nil
	}
	return &m.Domains[0]
}
