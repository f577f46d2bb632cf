package rules

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"unitycheck/internal/models"
	"unitycheck/internal/semantic"
	"unitycheck/internal/syntax"
)

// scanMethodBody enumerates every expensive call and member access in the
// body of one lifecycle callback, in document order. Nested lambdas and local
// functions are scanned as part of the enclosing body. Expressions the model
// cannot resolve produce nothing. The scan keeps no state across invocations,
// so repeated scans of an unchanged body yield identical output.
func scanMethodBody(unit *syntax.Unit, model *semantic.Model, class *semantic.TypeSymbol, methodDecl *sitter.Node, methodName string) []models.Finding {
	body := methodDecl.ChildByFieldName("body")
	if body == nil {
		body = syntax.ChildOfKind(methodDecl, "block")
	}
	if body == nil {
		body = syntax.ChildOfKind(methodDecl, "arrow_expression_clause")
	}
	if body == nil {
		return nil
	}

	env := model.NewEnv(class, methodDecl, unit)
	var findings []models.Finding

	syntax.Walk(body, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "local_declaration_statement":
			env.DeclareLocal(n)

		case "foreach_statement":
			declareForeachVariable(unit, env, n)

		case "invocation_expression":
			if method, ok := model.ResolveInvocation(n, env); ok && isExpensiveCall(method) {
				findings = append(findings, newFinding(unit, n, class, methodName, method.Name,
					fmt.Sprintf("Expensive method '%s' is called on every frame", method.Name),
					callSuggestion(method.Name), true))
			}

		case "member_access_expression":
			if prop, ok := model.ResolveMemberAccess(n, env); ok &&
				isExpensiveAccess(prop, semantic.HasBareIdentifierTarget(n)) {
				member := fmt.Sprintf("%s.%s", prop.ContainingType.Name, prop.Name)
				findings = append(findings, newFinding(unit, n, class, methodName, member,
					fmt.Sprintf("Expensive property access '%s' is evaluated on every frame", member),
					accessSuggestion(member), true))
			}
		}
		return true
	})

	return findings
}

func declareForeachVariable(unit *syntax.Unit, env *semantic.Env, stmt *sitter.Node) {
	left := stmt.ChildByFieldName("left")
	typeNode := stmt.ChildByFieldName("type")
	if left == nil || typeNode == nil || left.Kind() != "identifier" {
		return
	}
	typeText := unit.Text(typeNode)
	if typeText == "" || typeText == "var" {
		return
	}
	if resolved := env.ResolveTypeRef(typeText); resolved != nil {
		env.Declare(unit.Text(left), resolved)
	}
}

func newFinding(unit *syntax.Unit, node *sitter.Node, class *semantic.TypeSymbol, methodName, member, message, suggestion string, fixable bool) models.Finding {
	span := unit.SpanOf(node)
	return models.Finding{
		RuleID:     models.RuleExpensiveLookup,
		Severity:   models.SeverityInfo,
		File:       unit.Path,
		Line:       span.Line,
		Column:     span.Column,
		StartByte:  span.Start,
		EndByte:    span.End,
		Class:      class.Name,
		Method:     methodName,
		Member:     member,
		Message:    message,
		Suggestion: suggestion,
		Fixable:    fixable,
	}
}

func callSuggestion(name string) string {
	return fmt.Sprintf(`Cache the result in a field populated once:

private Rigidbody cachedBody;

private void Start()
{
    cachedBody = %s<Rigidbody>();
}

Then reference the field from the per-frame callback.`, name)
}

func accessSuggestion(member string) string {
	return fmt.Sprintf(`Cache the result in a field populated once:

private Camera mainCamera;

private void Start()
{
    mainCamera = %s;
}

Then reference the field from the per-frame callback.`, member)
}
