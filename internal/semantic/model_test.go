package semantic

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitycheck/internal/syntax"
)

func parseUnit(t *testing.T, path, source string) *syntax.Unit {
	t.Helper()
	unit, err := syntax.Parse(path, []byte(source))
	require.NoError(t, err)
	t.Cleanup(unit.Close)
	return unit
}

func TestBuiltinSurfaceIsAlwaysBound(t *testing.T) {
	model := NewModel()

	camera := model.TypeByName(UnityCamera)
	require.NotNil(t, camera)
	assert.True(t, camera.DerivesFrom(UnityBehaviour))
	assert.True(t, camera.DerivesFrom(UnityComponent))
	assert.False(t, camera.DerivesFrom(UnityGameObject))

	mono := model.TypeByName(UnityMonoBehaviour)
	require.NotNil(t, mono)
	assert.True(t, mono.DerivesFrom(UnityObject))
}

func TestBindsClassWithUsingDirective(t *testing.T) {
	unit := parseUnit(t, "Player.cs", `
using UnityEngine;

public class Player : MonoBehaviour
{
    void Update()
    {
    }
}`)
	model := NewModel(unit)

	player := model.TypeByName("Player")
	require.NotNil(t, player)
	assert.True(t, player.DerivesFrom(UnityMonoBehaviour))
	assert.Equal(t, "Player", player.FullName())
}

func TestBindsNamespaceQualifiedTypes(t *testing.T) {
	unit := parseUnit(t, "Game.cs", `
using UnityEngine;

namespace Game.Actors
{
    public class Goblin : MonoBehaviour
    {
    }
}`)
	model := NewModel(unit)

	goblin := model.TypeByName("Game.Actors.Goblin")
	require.NotNil(t, goblin)
	assert.Equal(t, "Game.Actors", goblin.Namespace)
	assert.True(t, goblin.DerivesFrom(UnityMonoBehaviour))
}

func TestBindsFileScopedNamespace(t *testing.T) {
	unit := parseUnit(t, "Hud.cs", `
using UnityEngine;

namespace Game.UI;

public class Hud : MonoBehaviour
{
}`)
	model := NewModel(unit)

	hud := model.TypeByName("Game.UI.Hud")
	require.NotNil(t, hud)
	assert.True(t, hud.DerivesFrom(UnityMonoBehaviour))
}

func TestFileScopedNamespaceCoversAllFollowingTypes(t *testing.T) {
	unit := parseUnit(t, "Menu.cs", `
using UnityEngine;

namespace Game.UI;

public class Menu : MonoBehaviour
{
}

public class MenuItem : MonoBehaviour
{
}`)
	model := NewModel(unit)

	require.NotNil(t, model.TypeByName("Game.UI.Menu"))
	require.NotNil(t, model.TypeByName("Game.UI.MenuItem"))
	assert.Nil(t, model.TypeByName("Menu"))
	assert.Nil(t, model.TypeByName("MenuItem"))
}

func TestVarLocalInfersTypeFromInitializer(t *testing.T) {
	unit := parseUnit(t, "Infer.cs", `
using UnityEngine;

public class Infer : MonoBehaviour
{
    void Update()
    {
        var cam = Camera.main;
        var go = gameObject;
    }
}`)
	model := NewModel(unit)
	class := model.TypeByName("Infer")
	require.NotNil(t, class)

	methodDecl := findFirst(t, unit, "method_declaration")
	env := model.NewEnv(class, methodDecl, unit)

	syntax.Walk(methodDecl, func(n *sitter.Node) bool {
		if n.Kind() == "local_declaration_statement" {
			env.DeclareLocal(n)
		}
		return true
	})

	cam, ok := env.vars["cam"]
	require.True(t, ok, "cam should be inferred from its initializer")
	assert.Equal(t, UnityCamera, cam.FullName())

	go_, ok := env.vars["go"]
	require.True(t, ok, "go should be inferred through the inherited property")
	assert.Equal(t, UnityGameObject, go_.FullName())
}

func TestImplicitReceiverResolvesInheritedProperty(t *testing.T) {
	unit := parseUnit(t, "Spin.cs", `
using UnityEngine;

public class Spin : MonoBehaviour
{
    void Update()
    {
        transform.GetComponent<Rigidbody>();
    }
}`)
	model := NewModel(unit)
	class := model.TypeByName("Spin")
	require.NotNil(t, class)

	invocation := findFirst(t, unit, "invocation_expression")
	methodDecl := findFirst(t, unit, "method_declaration")

	env := model.NewEnv(class, methodDecl, unit)
	method, ok := model.ResolveInvocation(invocation, env)
	require.True(t, ok, "transform receiver should resolve through the inherited property")
	assert.Equal(t, "GetComponent", method.Name)
}

func TestFullyQualifiedBaseNeedsNoUsing(t *testing.T) {
	unit := parseUnit(t, "Raw.cs", `
public class Raw : UnityEngine.MonoBehaviour
{
}`)
	model := NewModel(unit)

	raw := model.TypeByName("Raw")
	require.NotNil(t, raw)
	assert.True(t, raw.DerivesFrom(UnityMonoBehaviour))
}

func TestUnresolvableBaseBreaksTheChain(t *testing.T) {
	unit := parseUnit(t, "Orphan.cs", `
public class Orphan : SomethingUndeclared
{
}`)
	model := NewModel(unit)

	orphan := model.TypeByName("Orphan")
	require.NotNil(t, orphan)
	assert.Nil(t, orphan.Base())
	assert.False(t, orphan.DerivesFrom(UnityMonoBehaviour))
}

func TestBaseChainSpansUnits(t *testing.T) {
	base := parseUnit(t, "Base.cs", `
using UnityEngine;

namespace Game
{
    public class Actor : MonoBehaviour
    {
    }
}`)
	derived := parseUnit(t, "Derived.cs", `
namespace Game
{
    public class Orc : Actor
    {
    }
}`)
	model := NewModel(base, derived)

	orc := model.TypeByName("Game.Orc")
	require.NotNil(t, orc)
	assert.True(t, orc.DerivesFrom(UnityMonoBehaviour))
}

func TestMethodBindingCapturesSignature(t *testing.T) {
	unit := parseUnit(t, "Sig.cs", `
using UnityEngine;

public class Sig : MonoBehaviour
{
    void Update() { }
    void Update(int frame) { }
    static void Tick() { }
    int Compute(int a, int b) { return a + b; }
}`)
	model := NewModel(unit)

	sig := model.TypeByName("Sig")
	require.NotNil(t, sig)

	decl := sig.Decl()
	require.NotNil(t, decl)

	var methods []*MethodSymbol
	body := decl.ChildByFieldName("body")
	require.NotNil(t, body)
	for _, member := range syntax.NamedChildren(body) {
		if member.Kind() == "method_declaration" {
			m := model.MethodSymbolFor(sig.Unit(), member)
			require.NotNil(t, m)
			methods = append(methods, m)
		}
	}
	require.Len(t, methods, 4)

	assert.Equal(t, "Update", methods[0].Name)
	assert.Equal(t, 0, methods[0].Params)
	assert.Equal(t, "void", methods[0].ReturnType)
	assert.False(t, methods[0].Static)

	assert.Equal(t, "Update", methods[1].Name)
	assert.Equal(t, 1, methods[1].Params)

	assert.True(t, methods[2].Static)

	assert.Equal(t, "Compute", methods[3].Name)
	assert.Equal(t, 2, methods[3].Params)
	assert.Equal(t, "int", methods[3].ReturnType)
}

func TestResolveInvocationImplicitReceiver(t *testing.T) {
	unit := parseUnit(t, "Caller.cs", `
using UnityEngine;

public class Caller : MonoBehaviour
{
    void Update()
    {
        GetComponent<Rigidbody>();
    }
}`)
	model := NewModel(unit)
	class := model.TypeByName("Caller")
	require.NotNil(t, class)

	invocation := findFirst(t, unit, "invocation_expression")
	methodDecl := findFirst(t, unit, "method_declaration")

	env := model.NewEnv(class, methodDecl, unit)
	method, ok := model.ResolveInvocation(invocation, env)
	require.True(t, ok)
	assert.Equal(t, "GetComponent", method.Name)
	assert.Equal(t, UnityComponent, method.ContainingType.FullName())
}

func TestResolveMemberAccessStaticProperty(t *testing.T) {
	unit := parseUnit(t, "Reader.cs", `
using UnityEngine;

public class Reader : MonoBehaviour
{
    void Update()
    {
        var cam = Camera.main;
    }
}`)
	model := NewModel(unit)
	class := model.TypeByName("Reader")
	require.NotNil(t, class)

	access := findFirst(t, unit, "member_access_expression")
	methodDecl := findFirst(t, unit, "method_declaration")

	env := model.NewEnv(class, methodDecl, unit)
	prop, ok := model.ResolveMemberAccess(access, env)
	require.True(t, ok)
	assert.Equal(t, "main", prop.Name)
	assert.True(t, prop.Static)
	assert.Equal(t, UnityCamera, prop.ContainingType.FullName())
	assert.True(t, HasBareIdentifierTarget(access))
}

func TestInstancePropertyThroughStaticReceiverFails(t *testing.T) {
	unit := parseUnit(t, "Mismatch.cs", `
using UnityEngine;

public class Mismatch : MonoBehaviour
{
    Camera cam;

    void Update()
    {
        var m = cam.main;
    }
}`)
	model := NewModel(unit)
	class := model.TypeByName("Mismatch")
	require.NotNil(t, class)

	access := findFirst(t, unit, "member_access_expression")
	methodDecl := findFirstNamed(t, unit, "method_declaration", "Update")

	env := model.NewEnv(class, methodDecl, unit)
	_, ok := model.ResolveMemberAccess(access, env)
	assert.False(t, ok, "static property read through an instance receiver must not resolve")
}

func findFirst(t *testing.T, unit *syntax.Unit, kind string) *sitter.Node {
	t.Helper()
	var found *sitter.Node
	syntax.Walk(unit.Root(), func(n *sitter.Node) bool {
		if found == nil && n.Kind() == kind {
			found = n
			return false
		}
		return found == nil
	})
	require.NotNil(t, found, "no %s node in unit", kind)
	return found
}

func findFirstNamed(t *testing.T, unit *syntax.Unit, kind, name string) *sitter.Node {
	t.Helper()
	var found *sitter.Node
	syntax.Walk(unit.Root(), func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind() == kind {
			if nameNode := n.ChildByFieldName("name"); nameNode != nil && unit.Text(nameNode) == name {
				found = n
				return false
			}
		}
		return true
	})
	require.NotNil(t, found, "no %s named %s in unit", kind, name)
	return found
}
