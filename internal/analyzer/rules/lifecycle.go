package rules

import (
	"unitycheck/internal/semantic"
)

// Family identifies a base-component family that defines lifecycle callbacks.
type Family int

const (
	FamilyNone Family = iota
	FamilyBehaviour
	FamilyScriptableObject
)

type callbackSignature struct {
	params int
}

type familyMetadata struct {
	base      string
	callbacks map[string]callbackSignature
}

// familyRegistry maps each family to its base type and the callback names the
// engine recognizes, with their known signatures. The tables are fixed at
// process start and never written afterwards. LateUpdate is deliberately not
// registered.
var familyRegistry = map[Family]familyMetadata{
	FamilyBehaviour: {
		base: semantic.UnityMonoBehaviour,
		callbacks: map[string]callbackSignature{
			"Awake":       {params: 0},
			"Start":       {params: 0},
			"OnEnable":    {params: 0},
			"OnDisable":   {params: 0},
			"OnDestroy":   {params: 0},
			"Update":      {params: 0},
			"FixedUpdate": {params: 0},
		},
	},
	FamilyScriptableObject: {
		base: semantic.UnityScriptableObject,
		callbacks: map[string]callbackSignature{
			"Awake":     {params: 0},
			"OnEnable":  {params: 0},
			"OnDisable": {params: 0},
			"OnDestroy": {params: 0},
		},
	},
}

// perFrameCallbacks are the hot entry points the expensive-lookup rule asks
// about.
var perFrameCallbacks = []string{"Update", "FixedUpdate"}

// classFamily determines which callback family a declared type participates
// in, if any.
func classFamily(class *semantic.TypeSymbol) (Family, bool) {
	if class == nil {
		return FamilyNone, false
	}
	if class.DerivesFrom(semantic.UnityMonoBehaviour) {
		return FamilyBehaviour, true
	}
	if class.DerivesFrom(semantic.UnityScriptableObject) {
		return FamilyScriptableObject, true
	}
	return FamilyNone, false
}

// isLifecycleCallback reports whether method is the lifecycle callback of the
// requested family with the requested name. Name matching alone is not
// enough: the method must also match the callback's known signature, so an
// Update(int) overload is not a callback.
func isLifecycleCallback(method *semantic.MethodSymbol, class *semantic.TypeSymbol, family Family, name string) bool {
	if method == nil {
		return false
	}

	fam, ok := classFamily(class)
	if !ok || fam != family {
		return false
	}

	signature, registered := familyRegistry[family].callbacks[method.Name]
	if !registered || method.Name != name {
		return false
	}

	if method.Static || method.Params != signature.params {
		return false
	}
	return method.ReturnType == "void"
}
