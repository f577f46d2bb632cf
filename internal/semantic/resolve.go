package semantic

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unitycheck/internal/syntax"
)

// Env is the lexical environment of one method body: the enclosing class plus
// the parameters and locals visible at the current point of a scan. Scans own
// their Env; the model itself is never written during resolution.
type Env struct {
	model *Model
	unit  *syntax.Unit

	// Class is the enclosing declared type.
	Class *TypeSymbol

	vars map[string]*TypeSymbol
}

// NewEnv builds the environment for a method declaration: parameters are
// bound eagerly, fields are looked up through the base chain on demand.
func (m *Model) NewEnv(class *TypeSymbol, methodDecl *sitter.Node, unit *syntax.Unit) *Env {
	env := &Env{
		model: m,
		unit:  unit,
		Class: class,
		vars:  make(map[string]*TypeSymbol),
	}

	params := methodDecl.ChildByFieldName("parameters")
	if params == nil {
		params = syntax.ChildOfKind(methodDecl, "parameter_list")
	}
	if params != nil {
		for _, param := range syntax.NamedChildren(params) {
			if param.Kind() != "parameter" {
				continue
			}
			name := parameterName(unit, param)
			typeText := declaredTypeText(unit, param)
			if name == "" || typeText == "" {
				continue
			}
			if t := m.resolveName(typeText, class); t != nil {
				env.vars[name] = t
			}
		}
	}

	return env
}

// Declare records a local variable's resolved type. Unresolvable locals are
// simply not declared; later references to them fail to resolve and are
// skipped by callers.
func (e *Env) Declare(name string, t *TypeSymbol) {
	if name != "" && t != nil {
		e.vars[name] = t
	}
}

// ResolveTypeRef resolves a type reference written in the enclosing class's
// context.
func (e *Env) ResolveTypeRef(raw string) *TypeSymbol {
	return e.model.resolveName(raw, e.Class)
}

// DeclareLocal resolves and records a local variable declaration node
// (local_declaration_statement). 'var' declarations are inferred from the
// initializer expression.
func (e *Env) DeclareLocal(stmt *sitter.Node) {
	varDecl := syntax.ChildOfKind(stmt, "variable_declaration")
	if varDecl == nil {
		return
	}
	typeText := declaredTypeText(e.unit, varDecl)
	for _, declarator := range syntax.NamedChildren(varDecl) {
		if declarator.Kind() != "variable_declarator" {
			continue
		}
		name := declaratorName(e.unit, declarator)
		if name == "" {
			continue
		}
		if typeText != "" && typeText != "var" {
			e.Declare(name, e.model.resolveName(typeText, e.Class))
			continue
		}
		if init := initializerExpr(declarator); init != nil {
			if t, _, ok := e.resolveExpr(init); ok {
				e.Declare(name, t)
			}
		}
	}
}

// initializerExpr returns the expression a variable declarator is initialized
// with, or nil when the declarator carries no initializer.
func initializerExpr(declarator *sitter.Node) *sitter.Node {
	if init := declarator.ChildByFieldName("initializer"); init != nil {
		return init
	}
	afterEquals := false
	for i := uint(0); i < declarator.ChildCount(); i++ {
		child := declarator.Child(i)
		if child.Kind() == "=" {
			afterEquals = true
			continue
		}
		if afterEquals && child.IsNamed() {
			return child
		}
	}
	return nil
}

// ResolveInvocation resolves the target method of an invocation expression.
// The second return is false whenever the target cannot be determined, which
// callers must treat as "produce nothing", never as an error.
func (m *Model) ResolveInvocation(n *sitter.Node, env *Env) (*MethodSymbol, bool) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return nil, false
	}

	switch fn.Kind() {
	case "identifier", "generic_name":
		// Implicit receiver: a member of the enclosing type or one of
		// its bases.
		if env.Class == nil {
			return nil, false
		}
		method := lookupMethod(env.Class, simpleName(env.unit, fn))
		return method, method != nil

	case "member_access_expression":
		nameNode := fn.ChildByFieldName("name")
		exprNode := fn.ChildByFieldName("expression")
		if nameNode == nil || exprNode == nil {
			return nil, false
		}
		receiver, receiverIsType, ok := env.resolveExpr(exprNode)
		if !ok {
			return nil, false
		}
		method := lookupMethod(receiver, simpleName(env.unit, nameNode))
		if method == nil || method.Static != receiverIsType {
			return nil, false
		}
		return method, true
	}

	return nil, false
}

// ResolveMemberAccess resolves a member access expression to a property
// symbol. Accesses naming methods, fields or unresolvable receivers return
// false.
func (m *Model) ResolveMemberAccess(n *sitter.Node, env *Env) (*PropertySymbol, bool) {
	nameNode := n.ChildByFieldName("name")
	exprNode := n.ChildByFieldName("expression")
	if nameNode == nil || exprNode == nil || nameNode.Kind() != "identifier" {
		return nil, false
	}

	receiver, receiverIsType, ok := env.resolveExpr(exprNode)
	if !ok {
		return nil, false
	}

	prop := lookupProperty(receiver, env.unit.Text(nameNode))
	if prop == nil || prop.Static != receiverIsType {
		return nil, false
	}
	return prop, true
}

// HasBareIdentifierTarget reports whether a member access reads through a
// plain identifier ("Camera.main") rather than a computed expression
// ("GetCamera().main", "cameras[0].main").
func HasBareIdentifierTarget(n *sitter.Node) bool {
	expr := n.ChildByFieldName("expression")
	return expr != nil && expr.Kind() == "identifier"
}

// resolveExpr determines the static type of an expression. isType is true
// when the expression names a type itself (the receiver of a static member
// access) rather than a value of that type.
func (e *Env) resolveExpr(n *sitter.Node) (t *TypeSymbol, isType bool, ok bool) {
	switch n.Kind() {
	case "identifier":
		name := e.unit.Text(n)
		if local, found := e.vars[name]; found {
			return local, false, true
		}
		if e.Class != nil {
			if raw, owner, found := fieldType(e.Class, name); found {
				if resolved := e.model.resolveName(raw, owner); resolved != nil {
					return resolved, false, true
				}
				return nil, false, false
			}
			// Bare property reads like gameObject or transform reach
			// inherited members through the implicit receiver.
			if prop := lookupProperty(e.Class, name); prop != nil {
				if resolved := e.model.resolveName(prop.Type, prop.ContainingType); resolved != nil {
					return resolved, false, true
				}
				return nil, false, false
			}
		}
		if named := e.model.resolveName(name, e.Class); named != nil {
			return named, true, true
		}
		return nil, false, false

	case "this":
		return e.Class, false, e.Class != nil

	case "parenthesized_expression":
		if inner := n.NamedChild(0); inner != nil {
			return e.resolveExpr(inner)
		}
		return nil, false, false

	case "member_access_expression":
		return e.resolveMemberType(n)

	case "invocation_expression":
		return e.resolveInvocationType(n)

	case "object_creation_expression":
		if typeNode := n.ChildByFieldName("type"); typeNode != nil {
			if created := e.model.resolveName(e.unit.Text(typeNode), e.Class); created != nil {
				return created, false, true
			}
		}
		return nil, false, false
	}

	return nil, false, false
}

func (e *Env) resolveMemberType(n *sitter.Node) (*TypeSymbol, bool, bool) {
	nameNode := n.ChildByFieldName("name")
	exprNode := n.ChildByFieldName("expression")
	if nameNode == nil || exprNode == nil || nameNode.Kind() != "identifier" {
		return nil, false, false
	}

	receiver, receiverIsType, ok := e.resolveExpr(exprNode)
	if !ok {
		return nil, false, false
	}
	name := e.unit.Text(nameNode)

	if prop := lookupProperty(receiver, name); prop != nil && prop.Static == receiverIsType {
		if t := e.model.resolveName(prop.Type, prop.ContainingType); t != nil {
			return t, false, true
		}
		return nil, false, false
	}

	if !receiverIsType {
		if raw, owner, found := fieldType(receiver, name); found {
			if t := e.model.resolveName(raw, owner); t != nil {
				return t, false, true
			}
		}
	}

	return nil, false, false
}

func (e *Env) resolveInvocationType(n *sitter.Node) (*TypeSymbol, bool, bool) {
	method, ok := e.model.ResolveInvocation(n, e)
	if !ok {
		return nil, false, false
	}

	if method.Generic && method.ReturnType == "T" {
		if arg := typeArgumentText(e.unit, n); arg != "" {
			if t := e.model.resolveName(arg, e.Class); t != nil {
				return t, false, true
			}
		}
		return nil, false, false
	}

	if method.ReturnType == "" || method.ReturnType == "void" {
		return nil, false, false
	}
	if t := e.model.resolveName(method.ReturnType, method.ContainingType); t != nil {
		return t, false, true
	}
	return nil, false, false
}

// typeArgumentText extracts the single type argument of a generic invocation
// like GetComponent<Rigidbody>().
func typeArgumentText(unit *syntax.Unit, invocation *sitter.Node) string {
	fn := invocation.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	generic := fn
	if fn.Kind() == "member_access_expression" {
		generic = fn.ChildByFieldName("name")
	}
	if generic == nil || generic.Kind() != "generic_name" {
		return ""
	}
	args := syntax.ChildOfKind(generic, "type_argument_list")
	if args == nil {
		return ""
	}
	if first := args.NamedChild(0); first != nil {
		return unit.Text(first)
	}
	return ""
}

// simpleName returns the identifier of a possibly generic name node.
func simpleName(unit *syntax.Unit, n *sitter.Node) string {
	if n.Kind() == "generic_name" {
		if id := syntax.ChildOfKind(n, "identifier"); id != nil {
			return unit.Text(id)
		}
		return ""
	}
	return unit.Text(n)
}

// fieldType finds a field's raw declared type text on t or any of its bases,
// returning the declaring type so the text can be resolved in its own
// context.
func fieldType(t *TypeSymbol, name string) (string, *TypeSymbol, bool) {
	for cur := t; cur != nil; cur = cur.base {
		if raw, ok := cur.fields[name]; ok {
			return raw, cur, true
		}
	}
	return "", nil, false
}

func parameterName(unit *syntax.Unit, param *sitter.Node) string {
	if nameNode := param.ChildByFieldName("name"); nameNode != nil {
		return unit.Text(nameNode)
	}
	// Fall back to the last identifier child: "Type name".
	var name string
	for _, child := range syntax.NamedChildren(param) {
		if child.Kind() == "identifier" {
			name = unit.Text(child)
		}
	}
	return name
}
