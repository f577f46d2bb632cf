package semantic

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"unitycheck/internal/syntax"
)

// Model is the semantic layer over a set of parsed source units. It binds
// class declarations to type symbols, resolves base chains across files and
// answers symbol queries for expressions. A model is immutable once built and
// safe for concurrent reads.
type Model struct {
	types map[string]*TypeSymbol // full name -> symbol

	// Declaration indexes, keyed by unit path and node start offset.
	classAt  map[string]map[int]*TypeSymbol
	methodAt map[string]map[int]*MethodSymbol
}

// NewModel binds all units plus the built-in framework surface and resolves
// base-type references.
func NewModel(units ...*syntax.Unit) *Model {
	m := &Model{
		types:    make(map[string]*TypeSymbol),
		classAt:  make(map[string]map[int]*TypeSymbol),
		methodAt: make(map[string]map[int]*MethodSymbol),
	}
	m.bindUnitySurface()

	for _, unit := range units {
		m.bindUnit(unit)
	}

	// Base references can point at types declared in any unit, so they are
	// resolved only after every declaration is known.
	for _, t := range m.types {
		if t.base != nil || len(t.rawBases) == 0 {
			continue
		}
		// The first base_list entry is the base class; the rest are
		// interfaces (single-inheritance heuristic).
		if resolved := m.resolveName(t.rawBases[0], t); resolved != nil {
			t.base = resolved
		}
	}

	return m
}

// TypeByName returns the type symbol with the given fully-qualified name.
func (m *Model) TypeByName(fullName string) *TypeSymbol {
	return m.types[fullName]
}

// ClassSymbol returns the declared symbol for a class declaration node.
func (m *Model) ClassSymbol(unit *syntax.Unit, decl *sitter.Node) *TypeSymbol {
	return m.classAt[unit.Path][int(decl.StartByte())]
}

// MethodSymbolFor returns the declared symbol for a method declaration node.
func (m *Model) MethodSymbolFor(unit *syntax.Unit, decl *sitter.Node) *MethodSymbol {
	return m.methodAt[unit.Path][int(decl.StartByte())]
}

func (m *Model) bindUnit(unit *syntax.Unit) {
	root := unit.Root()
	usings := collectUsings(unit, root)
	m.bindDecls(unit, root, "", usings)
}

// collectUsings gathers every using directive in the unit, including ones
// nested inside namespace blocks.
func collectUsings(unit *syntax.Unit, root *sitter.Node) []string {
	var usings []string
	syntax.Walk(root, func(n *sitter.Node) bool {
		if n.Kind() != "using_directive" {
			return true
		}
		for _, child := range syntax.NamedChildren(n) {
			if child.Kind() == "qualified_name" || child.Kind() == "identifier" {
				usings = append(usings, unit.Text(child))
				break
			}
		}
		return false
	})
	return usings
}

func (m *Model) bindDecls(unit *syntax.Unit, container *sitter.Node, namespace string, usings []string) {
	if container == nil {
		return
	}
	current := namespace
	for _, child := range syntax.NamedChildren(container) {
		switch child.Kind() {
		case "namespace_declaration":
			name := ""
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				name = unit.Text(nameNode)
			}
			nested := joinNamespace(current, name)
			if body := child.ChildByFieldName("body"); body != nil {
				m.bindDecls(unit, body, nested, usings)
			} else {
				m.bindDecls(unit, child, nested, usings)
			}
		case "file_scoped_namespace_declaration":
			// A file-scoped namespace has no body; it scopes every
			// declaration that follows it in the file.
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				current = joinNamespace(current, unit.Text(nameNode))
			}
			m.bindDecls(unit, child, current, usings)
		case "class_declaration", "struct_declaration":
			m.bindClass(unit, child, current, usings)
		}
	}
}

func (m *Model) bindClass(unit *syntax.Unit, decl *sitter.Node, namespace string, usings []string) {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	t := newTypeSymbol(unit.Text(nameNode), namespace)
	t.decl = decl
	t.unit = unit
	t.usings = usings

	if baseList := syntax.ChildOfKind(decl, "base_list"); baseList != nil {
		for _, base := range syntax.NamedChildren(baseList) {
			switch base.Kind() {
			case "identifier", "qualified_name", "generic_name":
				t.rawBases = append(t.rawBases, unit.Text(base))
			}
		}
	}

	m.types[t.FullName()] = t
	if m.classAt[unit.Path] == nil {
		m.classAt[unit.Path] = make(map[int]*TypeSymbol)
	}
	m.classAt[unit.Path][int(decl.StartByte())] = t

	body := decl.ChildByFieldName("body")
	if body == nil {
		body = syntax.ChildOfKind(decl, "declaration_list")
	}
	if body == nil {
		return
	}

	for _, member := range syntax.NamedChildren(body) {
		switch member.Kind() {
		case "method_declaration":
			m.bindMethod(unit, t, member)
		case "field_declaration":
			bindField(unit, t, member)
		case "property_declaration":
			bindProperty(unit, t, member)
		case "class_declaration", "struct_declaration":
			// Nested types bind under the same namespace.
			m.bindClass(unit, member, namespace, usings)
		}
	}
}

func (m *Model) bindMethod(unit *syntax.Unit, t *TypeSymbol, decl *sitter.Node) {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	method := &MethodSymbol{
		Name:       unit.Text(nameNode),
		Params:     countParameters(decl),
		Static:     hasModifier(unit, decl, "static"),
		ReturnType: returnTypeText(unit, decl, nameNode),
		decl:       decl,
	}
	t.addMethod(method)

	if m.methodAt[unit.Path] == nil {
		m.methodAt[unit.Path] = make(map[int]*MethodSymbol)
	}
	m.methodAt[unit.Path][int(decl.StartByte())] = method
}

func bindField(unit *syntax.Unit, t *TypeSymbol, decl *sitter.Node) {
	varDecl := syntax.ChildOfKind(decl, "variable_declaration")
	if varDecl == nil {
		return
	}
	typeText := declaredTypeText(unit, varDecl)
	if typeText == "" {
		return
	}
	for _, declarator := range syntax.NamedChildren(varDecl) {
		if declarator.Kind() != "variable_declarator" {
			continue
		}
		if name := declaratorName(unit, declarator); name != "" {
			t.fields[name] = typeText
		}
	}
}

func bindProperty(unit *syntax.Unit, t *TypeSymbol, decl *sitter.Node) {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	t.addProperty(&PropertySymbol{
		Name:   unit.Text(nameNode),
		Static: hasModifier(unit, decl, "static"),
		Type:   declaredTypeText(unit, decl),
	})
}

// resolveName maps a type reference written inside ctx to a bound symbol,
// honoring the declaring namespace and the unit's using directives. Generic
// instantiations match their open definition: type arguments are stripped
// before comparison. Returns nil when the reference cannot be resolved.
func (m *Model) resolveName(raw string, ctx *TypeSymbol) *TypeSymbol {
	name := normalizeTypeRef(raw)
	if name == "" {
		return nil
	}

	if strings.Contains(name, ".") {
		return m.types[name]
	}

	if ctx != nil && ctx.Namespace != "" {
		if t, ok := m.types[ctx.Namespace+"."+name]; ok {
			return t
		}
	}
	if t, ok := m.types[name]; ok {
		return t
	}
	if ctx != nil {
		for _, using := range ctx.usings {
			if t, ok := m.types[using+"."+name]; ok {
				return t
			}
		}
	}
	return nil
}

// normalizeTypeRef strips generic arguments, array ranks and nullable marks
// from a type reference so that identity comparison sees the bare name.
func normalizeTypeRef(raw string) string {
	name := strings.TrimSpace(raw)
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, "?")
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}
	return name
}

func joinNamespace(outer, inner string) string {
	if outer == "" {
		return inner
	}
	if inner == "" {
		return outer
	}
	return outer + "." + inner
}

var typeRefKinds = map[string]bool{
	"predefined_type": true,
	"identifier":      true,
	"qualified_name":  true,
	"generic_name":    true,
	"array_type":      true,
	"nullable_type":   true,
}

// declaredTypeText finds the declared type of a variable_declaration or
// property_declaration, preferring the grammar's type field.
func declaredTypeText(unit *syntax.Unit, decl *sitter.Node) string {
	if typeNode := decl.ChildByFieldName("type"); typeNode != nil {
		return unit.Text(typeNode)
	}
	for _, child := range syntax.NamedChildren(decl) {
		if typeRefKinds[child.Kind()] || child.Kind() == "implicit_type" {
			return unit.Text(child)
		}
	}
	return ""
}

func declaratorName(unit *syntax.Unit, declarator *sitter.Node) string {
	if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
		return unit.Text(nameNode)
	}
	if id := syntax.ChildOfKind(declarator, "identifier"); id != nil {
		return unit.Text(id)
	}
	return ""
}

// returnTypeText extracts the declared return type of a method: the last
// type-shaped child before the method name.
func returnTypeText(unit *syntax.Unit, decl *sitter.Node, nameNode *sitter.Node) string {
	text := ""
	for _, child := range syntax.NamedChildren(decl) {
		if child.StartByte() >= nameNode.StartByte() {
			break
		}
		if typeRefKinds[child.Kind()] {
			text = unit.Text(child)
		}
	}
	return text
}

func countParameters(decl *sitter.Node) int {
	params := decl.ChildByFieldName("parameters")
	if params == nil {
		params = syntax.ChildOfKind(decl, "parameter_list")
	}
	if params == nil {
		return 0
	}
	count := 0
	for _, child := range syntax.NamedChildren(params) {
		if child.Kind() == "parameter" {
			count++
		}
	}
	return count
}

func hasModifier(unit *syntax.Unit, decl *sitter.Node, modifier string) bool {
	for i := uint(0); i < decl.ChildCount(); i++ {
		child := decl.Child(i)
		if child.Kind() == "modifier" && unit.Text(child) == modifier {
			return true
		}
	}
	return false
}
