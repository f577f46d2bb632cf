package semantic

// Fully-qualified names of the framework types the analyzer reasons about.
const (
	UnityObject           = "UnityEngine.Object"
	UnityComponent        = "UnityEngine.Component"
	UnityBehaviour        = "UnityEngine.Behaviour"
	UnityMonoBehaviour    = "UnityEngine.MonoBehaviour"
	UnityGameObject       = "UnityEngine.GameObject"
	UnityScriptableObject = "UnityEngine.ScriptableObject"
	UnityTransform        = "UnityEngine.Transform"
	UnityCamera           = "UnityEngine.Camera"
)

// componentLookupMethods is the GetComponent family declared on both
// UnityEngine.Component and UnityEngine.GameObject.
var componentLookupMethods = []string{
	"GetComponent",
	"GetComponents",
	"GetComponentInChildren",
	"GetComponentsInChildren",
	"GetComponentInParent",
	"GetComponentsInParent",
}

// bindUnitySurface registers the built-in UnityEngine declarations the
// resolver needs: the inheritance spine, the component lookup methods and the
// handful of properties user scripts reach through. The table is built once
// per model and never written afterwards.
func (m *Model) bindUnitySurface() {
	object := newTypeSymbol("Object", "UnityEngine")

	component := newTypeSymbol("Component", "UnityEngine")
	component.base = object
	component.addProperty(&PropertySymbol{Name: "gameObject", Type: UnityGameObject})
	component.addProperty(&PropertySymbol{Name: "transform", Type: UnityTransform})
	for _, name := range componentLookupMethods {
		component.addMethod(&MethodSymbol{Name: name, Generic: true, ReturnType: "T"})
	}

	behaviour := newTypeSymbol("Behaviour", "UnityEngine")
	behaviour.base = component

	monoBehaviour := newTypeSymbol("MonoBehaviour", "UnityEngine")
	monoBehaviour.base = behaviour

	gameObject := newTypeSymbol("GameObject", "UnityEngine")
	gameObject.base = object
	gameObject.addProperty(&PropertySymbol{Name: "transform", Type: UnityTransform})
	for _, name := range componentLookupMethods {
		gameObject.addMethod(&MethodSymbol{Name: name, Generic: true, ReturnType: "T"})
	}
	gameObject.addMethod(&MethodSymbol{Name: "AddComponent", Generic: true, ReturnType: "T"})

	transform := newTypeSymbol("Transform", "UnityEngine")
	transform.base = component

	camera := newTypeSymbol("Camera", "UnityEngine")
	camera.base = behaviour
	camera.addProperty(&PropertySymbol{Name: "main", Static: true, Type: UnityCamera})

	scriptableObject := newTypeSymbol("ScriptableObject", "UnityEngine")
	scriptableObject.base = object

	for _, t := range []*TypeSymbol{
		object, component, behaviour, monoBehaviour,
		gameObject, transform, camera, scriptableObject,
	} {
		m.types[t.FullName()] = t
	}
}
