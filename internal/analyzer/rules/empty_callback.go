package rules

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"unitycheck/internal/config"
	"unitycheck/internal/models"
	"unitycheck/internal/semantic"
	"unitycheck/internal/syntax"
)

// EmptyCallbackRule reports lifecycle callbacks with empty bodies. The engine
// still dispatches an empty callback on every cycle, so deleting it is free
// performance.
type EmptyCallbackRule struct {
	config *config.Config
}

func NewEmptyCallbackRule() *EmptyCallbackRule {
	return &EmptyCallbackRule{}
}

func NewEmptyCallbackRuleWithConfig(cfg *config.Config) *EmptyCallbackRule {
	return &EmptyCallbackRule{config: cfg}
}

func (r *EmptyCallbackRule) SetConfig(cfg *config.Config) {
	r.config = cfg
}

func (r *EmptyCallbackRule) Info() models.RuleInfo {
	return models.RuleInfo{
		ID:               models.RuleEmptyCallback,
		Name:             "EmptyCallback",
		Title:            "Empty lifecycle callback",
		MessageFormat:    "Empty lifecycle callback '%s' still costs a dispatch on every cycle",
		Description:      "The framework invokes declared lifecycle callbacks whether or not they do anything. Remove empty callbacks instead of leaving them in place.",
		Category:         "Performance",
		DefaultSeverity:  models.SeverityLow,
		EnabledByDefault: true,
	}
}

func (r *EmptyCallbackRule) Inspect(unit *syntax.Unit, model *semantic.Model) []models.Finding {
	var findings []models.Finding

	forEachClassMethod(unit, model, func(class *semantic.TypeSymbol, method *semantic.MethodSymbol, decl *sitter.Node) {
		family, ok := classFamily(class)
		if !ok {
			return
		}
		if !isLifecycleCallback(method, class, family, method.Name) {
			return
		}
		body := decl.ChildByFieldName("body")
		if body == nil {
			body = syntax.ChildOfKind(decl, "block")
		}
		if body == nil || !bodyIsEmpty(body) {
			return
		}

		span := unit.SpanOf(decl)
		findings = append(findings, models.Finding{
			RuleID:     models.RuleEmptyCallback,
			Severity:   models.SeverityLow,
			File:       unit.Path,
			Line:       span.Line,
			Column:     span.Column,
			StartByte:  span.Start,
			EndByte:    span.End,
			Class:      class.Name,
			Method:     method.Name,
			Member:     method.Name,
			Message:    fmt.Sprintf("Empty lifecycle callback '%s' still costs a dispatch on every cycle", method.Name),
			Suggestion: fmt.Sprintf("Delete the empty '%s' method.", method.Name),
		})
	})

	return findings
}

// bodyIsEmpty reports whether a block contains no statements. Comments do not
// count as content.
func bodyIsEmpty(body *sitter.Node) bool {
	for _, child := range syntax.NamedChildren(body) {
		if child.Kind() != "comment" {
			return false
		}
	}
	return true
}
