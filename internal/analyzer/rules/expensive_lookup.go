package rules

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unitycheck/internal/config"
	"unitycheck/internal/models"
	"unitycheck/internal/semantic"
	"unitycheck/internal/syntax"
)

// ExpensiveLookupRule reports component-lookup calls and singleton accessor
// reads performed inside per-frame lifecycle callbacks.
type ExpensiveLookupRule struct {
	config *config.Config
}

func NewExpensiveLookupRule() *ExpensiveLookupRule {
	return &ExpensiveLookupRule{}
}

func NewExpensiveLookupRuleWithConfig(cfg *config.Config) *ExpensiveLookupRule {
	return &ExpensiveLookupRule{config: cfg}
}

func (r *ExpensiveLookupRule) SetConfig(cfg *config.Config) {
	r.config = cfg
}

func (r *ExpensiveLookupRule) Info() models.RuleInfo {
	return models.RuleInfo{
		ID:               models.RuleExpensiveLookup,
		Name:             "ExpensiveLookup",
		Title:            "Expensive operation in per-frame callback",
		MessageFormat:    "'%s' is expensive and runs on every frame; cache the result",
		Description:      "Component lookups and singleton accessors search the scene hierarchy on every call. Calling them from Update or FixedUpdate repeats that search once per frame; cache the result in a field instead.",
		Category:         "Performance",
		DefaultSeverity:  models.SeverityInfo,
		EnabledByDefault: true,
	}
}

// Inspect scans every per-frame lifecycle callback declared in the unit.
// Methods on types outside the tracked family are never scanned, including
// same-named methods on unrelated types.
func (r *ExpensiveLookupRule) Inspect(unit *syntax.Unit, model *semantic.Model) []models.Finding {
	callbacks := r.watchedCallbacks()
	var findings []models.Finding

	forEachClassMethod(unit, model, func(class *semantic.TypeSymbol, method *semantic.MethodSymbol, decl *sitter.Node) {
		for _, name := range callbacks {
			if isLifecycleCallback(method, class, FamilyBehaviour, name) {
				findings = append(findings, scanMethodBody(unit, model, class, decl, method.Name)...)
				return
			}
		}
	})

	return findings
}

func (r *ExpensiveLookupRule) watchedCallbacks() []string {
	if r.config != nil && !r.config.Rules.Performance.ExpensiveLookup.ScanFixedUpdate {
		return perFrameCallbacks[:1]
	}
	return perFrameCallbacks
}

// forEachClassMethod visits every bound (class, method declaration) pair in
// the unit, including classes nested in namespaces.
func forEachClassMethod(unit *syntax.Unit, model *semantic.Model, visit func(*semantic.TypeSymbol, *semantic.MethodSymbol, *sitter.Node)) {
	syntax.Walk(unit.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "class_declaration" && n.Kind() != "struct_declaration" {
			return true
		}
		class := model.ClassSymbol(unit, n)
		if class == nil {
			return true
		}
		body := n.ChildByFieldName("body")
		if body == nil {
			body = syntax.ChildOfKind(n, "declaration_list")
		}
		if body == nil {
			return true
		}
		for _, member := range syntax.NamedChildren(body) {
			if member.Kind() != "method_declaration" {
				continue
			}
			if method := model.MethodSymbolFor(unit, member); method != nil {
				visit(class, method, member)
			}
		}
		// Keep walking for nested class declarations.
		return true
	})
}
