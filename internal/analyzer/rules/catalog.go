package rules

import (
	"unitycheck/internal/semantic"
)

// The expensive-operation catalog is a closed set known ahead of time. Both
// tables are package-level constants in spirit: initialized once, read-only,
// safe for concurrent use.

// expensiveCallNames are method names whose implementations search the
// component hierarchy on every call.
var expensiveCallNames = map[string]bool{
	"GetComponent":            true,
	"GetComponents":           true,
	"GetComponentInChildren":  true,
	"GetComponentsInChildren": true,
	"GetComponentInParent":    true,
	"GetComponentsInParent":   true,
}

// expensiveCallRoots are the types the catalog methods must be declared on or
// inherited by.
var expensiveCallRoots = []string{
	semantic.UnityComponent,
	semantic.UnityGameObject,
}

type expensiveAccess struct {
	typeName string
	member   string
	// bareIdentifierOnly restricts the match to the idiomatic short-name
	// access pattern; accesses through computed expressions are not
	// flagged.
	bareIdentifierOnly bool
}

var expensiveAccesses = []expensiveAccess{
	{typeName: semantic.UnityCamera, member: "main", bareIdentifierOnly: true},
}

func isExpensiveCall(method *semantic.MethodSymbol) bool {
	if method == nil || !expensiveCallNames[method.Name] {
		return false
	}
	for _, root := range expensiveCallRoots {
		if method.ContainingType.DerivesFrom(root) {
			return true
		}
	}
	return false
}

func isExpensiveAccess(prop *semantic.PropertySymbol, bareTarget bool) bool {
	if prop == nil {
		return false
	}
	for _, entry := range expensiveAccesses {
		if entry.member != prop.Name {
			continue
		}
		if !prop.ContainingType.DerivesFrom(entry.typeName) {
			continue
		}
		if entry.bareIdentifierOnly && !bareTarget {
			continue
		}
		return true
	}
	return false
}
