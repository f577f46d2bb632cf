package semantic

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unitycheck/internal/syntax"
)

// TypeSymbol identifies a declared reference type, either bound from user
// source or supplied by the built-in framework surface. Identity is the
// fully-qualified name; two types with the same short name in different
// namespaces are distinct.
type TypeSymbol struct {
	Name      string
	Namespace string

	base     *TypeSymbol
	rawBases []string

	methods    map[string][]*MethodSymbol
	properties map[string]*PropertySymbol
	fields     map[string]string // field name -> raw declared type text

	// Source context for user-declared types; nil for built-ins.
	decl   *sitter.Node
	unit   *syntax.Unit
	usings []string
}

func (t *TypeSymbol) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Base returns the resolved base class symbol, or nil.
func (t *TypeSymbol) Base() *TypeSymbol {
	return t.base
}

// DerivesFrom reports whether t is, or derives from, the type with the given
// fully-qualified name. It walks the base chain to its root and never
// consults anything but declared-type relationships.
func (t *TypeSymbol) DerivesFrom(fullName string) bool {
	for cur := t; cur != nil; cur = cur.base {
		if cur.FullName() == fullName {
			return true
		}
	}
	return false
}

// Decl returns the class declaration node for user-declared types.
func (t *TypeSymbol) Decl() *sitter.Node {
	return t.decl
}

// Unit returns the source unit a user-declared type was bound from.
func (t *TypeSymbol) Unit() *syntax.Unit {
	return t.unit
}

// MethodSymbol identifies a method declaration and the type that declares it.
type MethodSymbol struct {
	Name           string
	ContainingType *TypeSymbol
	Params         int
	Static         bool
	Generic        bool
	// ReturnType is the raw declared return type text ("void", "Foo",
	// "T" for the generic built-ins); resolved on demand.
	ReturnType string

	decl *sitter.Node
}

// Decl returns the method declaration node for user-declared methods.
func (m *MethodSymbol) Decl() *sitter.Node {
	return m.decl
}

// PropertySymbol identifies a property and the type that declares it.
type PropertySymbol struct {
	Name           string
	ContainingType *TypeSymbol
	Static         bool
	Type           string
}

func (t *TypeSymbol) addMethod(m *MethodSymbol) {
	m.ContainingType = t
	t.methods[m.Name] = append(t.methods[m.Name], m)
}

func (t *TypeSymbol) addProperty(p *PropertySymbol) {
	p.ContainingType = t
	t.properties[p.Name] = p
}

func newTypeSymbol(name, namespace string) *TypeSymbol {
	return &TypeSymbol{
		Name:       name,
		Namespace:  namespace,
		methods:    make(map[string][]*MethodSymbol),
		properties: make(map[string]*PropertySymbol),
		fields:     make(map[string]string),
	}
}

// HasMember reports whether name is already taken by a field, property or
// method on t or any of its bases.
func (t *TypeSymbol) HasMember(name string) bool {
	for cur := t; cur != nil; cur = cur.base {
		if _, ok := cur.fields[name]; ok {
			return true
		}
		if _, ok := cur.properties[name]; ok {
			return true
		}
		if _, ok := cur.methods[name]; ok {
			return true
		}
	}
	return false
}

// lookupMethod finds a method by simple name on t or any of its bases.
func lookupMethod(t *TypeSymbol, name string) *MethodSymbol {
	for cur := t; cur != nil; cur = cur.base {
		if overloads, ok := cur.methods[name]; ok && len(overloads) > 0 {
			return overloads[0]
		}
	}
	return nil
}

// lookupProperty finds a property by name on t or any of its bases.
func lookupProperty(t *TypeSymbol, name string) *PropertySymbol {
	for cur := t; cur != nil; cur = cur.base {
		if p, ok := cur.properties[name]; ok {
			return p
		}
	}
	return nil
}
