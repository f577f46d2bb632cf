package codefix

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"unitycheck/internal/config"
	"unitycheck/internal/models"
	"unitycheck/internal/semantic"
	"unitycheck/internal/syntax"
)

// Fixer rewrites expensive per-frame lookups into cached fields: it declares
// a field on the class, populates it once from a lifecycle callback and
// replaces every flagged occurrence with a field read. Findings whose shape
// the fixer does not understand are skipped without error, so a partial fix
// never blocks the rest of a file.
type Fixer struct {
	config *config.Config
}

func NewFixer(cfg *config.Config) *Fixer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Fixer{config: cfg}
}

// cachePlan is one cache field to introduce on a class and the occurrences it
// replaces. Multiple findings that resolve to the same lookup share a plan.
type cachePlan struct {
	key       string
	fieldType string
	fieldName string
	initExpr  string
	spans     []syntax.Span
}

// classPlans groups the cache plans of one class declaration, in the order
// their first occurrences appear.
type classPlans struct {
	decl  *sitter.Node
	class *semantic.TypeSymbol
	plans []*cachePlan
	byKey map[string]*cachePlan
	used  map[string]bool
}

// FixUnit applies the cached-field rewrite for every fixable finding that
// belongs to the unit. It returns the rewritten source and the number of
// occurrences replaced; when nothing is fixable the original source comes
// back unchanged.
func (f *Fixer) FixUnit(unit *syntax.Unit, model *semantic.Model, findings []models.Finding) ([]byte, int, error) {
	classes := f.planFixes(unit, model, findings)
	if len(classes) == 0 {
		return unit.Source, 0, nil
	}

	var edits []Edit
	fixed := 0
	for _, cp := range classes {
		classEdits, n := f.classEdits(unit, cp)
		edits = append(edits, classEdits...)
		fixed += n
	}
	if fixed == 0 {
		return unit.Source, 0, nil
	}

	content, err := ApplyEdits(unit.Source, edits)
	if err != nil {
		return nil, 0, fmt.Errorf("fixing %s: %w", unit.Path, err)
	}
	return content, fixed, nil
}

// planFixes validates each finding against the live syntax tree and groups
// the resulting cache plans per class declaration.
func (f *Fixer) planFixes(unit *syntax.Unit, model *semantic.Model, findings []models.Finding) []*classPlans {
	var ordered []*classPlans
	byDecl := make(map[int]*classPlans)

	for _, finding := range findings {
		if !finding.Fixable || finding.RuleID != models.RuleExpensiveLookup || finding.File != unit.Path {
			continue
		}

		node := syntax.NodeAt(unit.Root(), finding.StartByte, finding.EndByte)
		if node == nil || int(node.StartByte()) != finding.StartByte || int(node.EndByte()) != finding.EndByte {
			continue
		}

		classDecl := enclosingClass(node)
		if classDecl == nil {
			continue
		}
		class := model.ClassSymbol(unit, classDecl)
		if class == nil {
			continue
		}

		var key, fieldType, nameSeed string
		switch node.Kind() {
		case "invocation_expression":
			key, fieldType, nameSeed = planInvocation(unit, node)
		case "member_access_expression":
			key, fieldType, nameSeed = planMemberAccess(unit, node)
		}
		if key == "" {
			continue
		}

		cp := byDecl[int(classDecl.StartByte())]
		if cp == nil {
			cp = &classPlans{
				decl:  classDecl,
				class: class,
				byKey: make(map[string]*cachePlan),
				used:  make(map[string]bool),
			}
			byDecl[int(classDecl.StartByte())] = cp
			ordered = append(ordered, cp)
		}

		plan := cp.byKey[key]
		if plan == nil {
			fieldName := cp.pickFieldName(nameSeed)
			if fieldName == "" {
				continue
			}
			plan = &cachePlan{
				key:       key,
				fieldType: fieldType,
				fieldName: fieldName,
				initExpr:  unit.Text(node),
			}
			cp.byKey[key] = plan
			cp.plans = append(cp.plans, plan)
		}
		plan.spans = append(plan.spans, unit.SpanOf(node))
	}

	return ordered
}

// planInvocation validates a component-lookup call for caching. Only generic
// calls through an implicit, 'this' or 'gameObject' receiver are rewritten;
// anything else returns an empty key.
func planInvocation(unit *syntax.Unit, node *sitter.Node) (key, fieldType, nameSeed string) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return "", "", ""
	}

	var generic *sitter.Node
	receiver := ""
	switch fn.Kind() {
	case "generic_name":
		generic = fn
	case "member_access_expression":
		nameNode := fn.ChildByFieldName("name")
		exprNode := fn.ChildByFieldName("expression")
		if nameNode == nil || exprNode == nil || nameNode.Kind() != "generic_name" {
			return "", "", ""
		}
		switch {
		case exprNode.Kind() == "this":
			// Same receiver as the implicit form; share the cache.
		case exprNode.Kind() == "identifier" && unit.Text(exprNode) == "gameObject":
			receiver = "gameObject."
		default:
			return "", "", ""
		}
		generic = nameNode
	default:
		// Non-generic lookups have no statically known result type.
		return "", "", ""
	}

	typeArg := genericTypeArgument(unit, generic)
	if typeArg == "" {
		return "", "", ""
	}
	methodName := ""
	if id := syntax.ChildOfKind(generic, "identifier"); id != nil {
		methodName = unit.Text(id)
	}
	if methodName == "" {
		return "", "", ""
	}

	key = receiver + methodName + "<" + typeArg + ">"
	return key, typeArg, lowerFirst(simpleTypeName(typeArg))
}

// planMemberAccess validates a singleton accessor read ("Camera.main") for
// caching.
func planMemberAccess(unit *syntax.Unit, node *sitter.Node) (key, fieldType, nameSeed string) {
	nameNode := node.ChildByFieldName("name")
	exprNode := node.ChildByFieldName("expression")
	if nameNode == nil || exprNode == nil {
		return "", "", ""
	}
	if exprNode.Kind() != "identifier" || nameNode.Kind() != "identifier" {
		return "", "", ""
	}

	typeName := unit.Text(exprNode)
	member := unit.Text(nameNode)
	key = typeName + "." + member
	return key, typeName, lowerFirst(member) + simpleTypeName(typeName)
}

// pickFieldName chooses a field name that collides with nothing already on
// the class or already planned in this batch.
func (cp *classPlans) pickFieldName(seed string) string {
	if seed == "" {
		return ""
	}
	candidates := []string{seed, "cached" + upperFirst(seed)}
	for _, candidate := range candidates {
		if !cp.used[candidate] && !cp.class.HasMember(candidate) {
			cp.used[candidate] = true
			return candidate
		}
	}
	for i := 2; i < 10; i++ {
		candidate := fmt.Sprintf("%s%d", seed, i)
		if !cp.used[candidate] && !cp.class.HasMember(candidate) {
			cp.used[candidate] = true
			return candidate
		}
	}
	return ""
}

// classEdits produces the edits for one class: occurrence replacements, field
// declarations and the init assignments, either inside an existing lifecycle
// callback or in a newly generated one.
func (f *Fixer) classEdits(unit *syntax.Unit, cp *classPlans) ([]Edit, int) {
	body := cp.decl.ChildByFieldName("body")
	if body == nil {
		body = syntax.ChildOfKind(cp.decl, "declaration_list")
	}
	if body == nil {
		return nil, 0
	}

	var edits []Edit
	fixed := 0
	for _, plan := range cp.plans {
		for _, span := range plan.spans {
			edits = append(edits, Edit{Start: span.Start, End: span.End, Text: plan.fieldName})
			fixed++
		}
	}
	if fixed == 0 {
		return nil, 0
	}

	memberIndent := memberIndent(unit.Source, body, cp.decl)
	bodyInsert := int(body.StartByte()) + 1

	var decls strings.Builder
	for _, plan := range cp.plans {
		decls.WriteString("\n" + memberIndent + "private " + plan.fieldType + " " + plan.fieldName + ";")
	}

	initCallback := f.config.Fix.InitCallback
	initBody := findInitCallbackBody(unit, body, initCallback)
	if initBody != nil {
		stmtIndent := memberIndent + "    "
		var assigns strings.Builder
		for _, plan := range cp.plans {
			assigns.WriteString("\n" + stmtIndent + plan.fieldName + " = " + plan.initExpr + ";")
		}
		edits = append(edits,
			Edit{Start: bodyInsert, End: bodyInsert, Text: decls.String()},
			Edit{Start: int(initBody.StartByte()) + 1, End: int(initBody.StartByte()) + 1, Text: assigns.String()},
		)
		return edits, fixed
	}

	// No suitable callback declared: generate one holding the assignments.
	var method strings.Builder
	method.WriteString(decls.String())
	method.WriteString("\n\n" + memberIndent + "private void " + initCallback + "()")
	method.WriteString("\n" + memberIndent + "{")
	for _, plan := range cp.plans {
		method.WriteString("\n" + memberIndent + "    " + plan.fieldName + " = " + plan.initExpr + ";")
	}
	method.WriteString("\n" + memberIndent + "}")
	edits = append(edits, Edit{Start: bodyInsert, End: bodyInsert, Text: method.String()})
	return edits, fixed
}

// findInitCallbackBody locates the block of a zero-parameter method with the
// given name inside the class body.
func findInitCallbackBody(unit *syntax.Unit, classBody *sitter.Node, name string) *sitter.Node {
	for _, member := range syntax.NamedChildren(classBody) {
		if member.Kind() != "method_declaration" {
			continue
		}
		nameNode := member.ChildByFieldName("name")
		if nameNode == nil || unit.Text(nameNode) != name {
			continue
		}
		if countParams(member) != 0 {
			continue
		}
		if block := member.ChildByFieldName("body"); block != nil && block.Kind() == "block" {
			return block
		}
		if block := syntax.ChildOfKind(member, "block"); block != nil {
			return block
		}
	}
	return nil
}

func countParams(methodDecl *sitter.Node) int {
	params := methodDecl.ChildByFieldName("parameters")
	if params == nil {
		params = syntax.ChildOfKind(methodDecl, "parameter_list")
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

// enclosingClass walks up to the nearest class or struct declaration.
func enclosingClass(node *sitter.Node) *sitter.Node {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Kind() == "class_declaration" || cur.Kind() == "struct_declaration" {
			return cur
		}
	}
	return nil
}

// memberIndent derives the indentation for new class members from the first
// existing member, falling back to the class's own indent plus one level.
func memberIndent(source []byte, body *sitter.Node, classDecl *sitter.Node) string {
	if first := body.NamedChild(0); first != nil {
		if indent, ok := lineIndent(source, int(first.StartByte())); ok {
			return indent
		}
	}
	if indent, ok := lineIndent(source, int(classDecl.StartByte())); ok {
		return indent + "    "
	}
	return "    "
}

// lineIndent returns the leading whitespace of the line containing offset,
// but only when the offset sits right after that whitespace. A node that
// shares its line with other tokens gives no usable indent.
func lineIndent(source []byte, offset int) (string, bool) {
	lineStart := offset
	for lineStart > 0 && source[lineStart-1] != '\n' {
		lineStart--
	}
	for i := lineStart; i < offset; i++ {
		if source[i] != ' ' && source[i] != '\t' {
			return "", false
		}
	}
	return string(source[lineStart:offset]), true
}

// genericTypeArgument extracts the single type argument of a generic name.
func genericTypeArgument(unit *syntax.Unit, generic *sitter.Node) string {
	args := syntax.ChildOfKind(generic, "type_argument_list")
	if args == nil || args.NamedChildCount() != 1 {
		return ""
	}
	return unit.Text(args.NamedChild(0))
}

// simpleTypeName strips namespace qualifiers from a type reference.
func simpleTypeName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func lowerFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func upperFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
