package tooling

import (
	"github.com/cal-lang/cal/compiler/lexer"
	"github.com/cal-lang/cal/compiler/parser"
	"github.com/cal-lang/cal/compiler/walker"
)

// SymbolKind classifies a symbol table entry
type SymbolKind int

const (
	SymbolObject SymbolKind = iota
	SymbolProcedure
	SymbolTrigger
	SymbolEvent
	SymbolVariable
	SymbolParameter
	SymbolField
)

// String returns the symbol kind's display name
func (k SymbolKind) String() string {
	switch k {
	case SymbolObject:
		return "object"
	case SymbolProcedure:
		return "procedure"
	case SymbolTrigger:
		return "trigger"
	case SymbolEvent:
		return "event"
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	case SymbolField:
		return "field"
	default:
		return "unknown"
	}
}

// Symbol is one named declaration. Name preserves the original casing;
// lookups are ASCII-case-insensitive.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Decl       parser.Node
	ReturnType string // procedures only
	Scope      *Scope
}

// Scope is a case-insensitive mapping from name to symbols, chained to its
// parent. Shadowed declarations are retained as independent entries
// resolvable by scope; no redefinition error is emitted here.
type Scope struct {
	Parent   *Scope
	Children []*Scope
	Owner    parser.Node

	names map[string][]*Symbol
	order []*Symbol
}

// NewScope creates a scope chained to parent
func NewScope(parent *Scope, owner parser.Node) *Scope {
	s := &Scope{Parent: parent, Owner: owner, names: make(map[string][]*Symbol)}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Declare adds a symbol to the scope
func (s *Scope) Declare(sym *Symbol) {
	sym.Scope = s
	key := lexer.FoldKey(sym.Name)
	s.names[key] = append(s.names[key], sym)
	s.order = append(s.order, sym)
}

// Resolve looks a name up in this scope and then its parents
func (s *Scope) Resolve(name string) *Symbol {
	key := lexer.FoldKey(name)
	for scope := s; scope != nil; scope = scope.Parent {
		if syms := scope.names[key]; len(syms) > 0 {
			return syms[0]
		}
	}
	return nil
}

// Symbols returns the scope's own symbols in declaration order
func (s *Scope) Symbols() []*Symbol {
	return s.order
}

// SymbolTable is the scoped symbol map for one document: a document scope
// contains object scopes, an object scope contains a CODE scope, and the
// CODE scope contains procedure, trigger and event scopes.
type SymbolTable struct {
	Document *Scope
	all      []*Symbol
}

// GetSymbol returns the first symbol with the given name in document order,
// matched ASCII-case-insensitively
func (t *SymbolTable) GetSymbol(name string) *Symbol {
	for _, sym := range t.all {
		if lexer.EqualFold(sym.Name, name) {
			return sym
		}
	}
	return nil
}

// GetAllSymbols returns every symbol in declaration order
func (t *SymbolTable) GetAllSymbols() []*Symbol {
	return t.all
}

// BuildSymbols traverses a parsed document and builds its symbol table.
// The AST is borrowed read-only.
func BuildSymbols(doc *parser.CALDocument) *SymbolTable {
	table := &SymbolTable{Document: NewScope(nil, doc)}
	if doc == nil {
		return table
	}

	declare := func(scope *Scope, sym *Symbol) {
		scope.Declare(sym)
		table.all = append(table.all, sym)
	}

	for _, obj := range doc.Objects {
		objScope := NewScope(table.Document, obj)
		declare(table.Document, &Symbol{Name: obj.ObjectName, Kind: SymbolObject, Decl: obj})

		if obj.Fields != nil {
			for _, f := range obj.Fields.Fields {
				declare(objScope, &Symbol{Name: f.Name, Kind: SymbolField, Decl: f})
			}
		}

		if obj.Code == nil {
			continue
		}
		codeScope := NewScope(objScope, obj.Code)
		for _, v := range obj.Code.Variables {
			declare(codeScope, &Symbol{Name: v.Name, Kind: SymbolVariable, Decl: v})
		}
		for _, proc := range obj.Code.Procedures {
			declare(codeScope, &Symbol{Name: proc.Name, Kind: SymbolProcedure, Decl: proc, ReturnType: proc.ReturnType})
			procScope := NewScope(codeScope, proc)
			for _, param := range proc.Parameters {
				declare(procScope, &Symbol{Name: param.Name, Kind: SymbolParameter, Decl: param})
			}
			for _, v := range proc.Variables {
				declare(procScope, &Symbol{Name: v.Name, Kind: SymbolVariable, Decl: v})
			}
		}
		for _, trig := range obj.Code.Triggers {
			declare(codeScope, &Symbol{Name: trig.Name, Kind: SymbolTrigger, Decl: trig})
			trigScope := NewScope(codeScope, trig)
			for _, v := range trig.Variables {
				declare(trigScope, &Symbol{Name: v.Name, Kind: SymbolVariable, Decl: v})
			}
		}
		for _, ev := range obj.Code.Events {
			declare(codeScope, &Symbol{Name: ev.Name, Kind: SymbolEvent, Decl: ev})
			evScope := NewScope(codeScope, ev)
			for _, param := range ev.Parameters {
				declare(evScope, &Symbol{Name: param.Name, Kind: SymbolParameter, Decl: param})
			}
			for _, v := range ev.Variables {
				declare(evScope, &Symbol{Name: v.Name, Kind: SymbolVariable, Decl: v})
			}
		}
	}

	// Trigger-valued properties declare their VAR blocks too; the walker
	// finds them wherever they nest
	walker.Walk(doc, &walker.Visitor{
		VisitProperty: func(p *parser.Property) bool {
			if p.Trigger == nil {
				return false
			}
			scope := NewScope(table.Document, p.Trigger)
			for _, v := range p.Trigger.Variables {
				declare(scope, &Symbol{Name: v.Name, Kind: SymbolVariable, Decl: v})
			}
			return false
		},
	})

	return table
}
