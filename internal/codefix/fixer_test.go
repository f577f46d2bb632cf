package codefix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitycheck/internal/analyzer/rules"
	"unitycheck/internal/config"
	"unitycheck/internal/semantic"
	"unitycheck/internal/syntax"
)

func fixSource(t *testing.T, cfg *config.Config, source string) (string, int) {
	t.Helper()
	unit, err := syntax.Parse("Test.cs", []byte(source))
	require.NoError(t, err)
	t.Cleanup(unit.Close)

	model := semantic.NewModel(unit)
	findings := rules.NewExpensiveLookupRule().Inspect(unit, model)

	content, fixed, err := NewFixer(cfg).FixUnit(unit, model, findings)
	require.NoError(t, err)
	return string(content), fixed
}

func TestFixCachesGetComponentInExistingStart(t *testing.T) {
	content, fixed := fixSource(t, nil, `using UnityEngine;

public class PlayerController : MonoBehaviour
{
    void Start()
    {
    }

    void Update()
    {
        var body = GetComponent<Rigidbody>();
        body.AddForce(Vector3.up);
    }
}`)

	assert.Equal(t, 1, fixed)
	assert.Contains(t, content, "private Rigidbody rigidbody;")
	assert.Contains(t, content, "rigidbody = GetComponent<Rigidbody>();")
	assert.Contains(t, content, "var body = rigidbody;")

	// The lookup survives only as the one-time initialization.
	assert.Equal(t, 1, strings.Count(content, "GetComponent<Rigidbody>()"))
}

func TestFixGeneratesInitCallbackWhenMissing(t *testing.T) {
	content, fixed := fixSource(t, nil, `using UnityEngine;

public class Billboard : MonoBehaviour
{
    void Update()
    {
        var cam = Camera.main;
    }
}`)

	assert.Equal(t, 1, fixed)
	assert.Contains(t, content, "private Camera mainCamera;")
	assert.Contains(t, content, "private void Start()")
	assert.Contains(t, content, "mainCamera = Camera.main;")
	assert.Contains(t, content, "var cam = mainCamera;")
}

func TestFixHonorsConfiguredInitCallback(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fix.InitCallback = "Awake"

	content, fixed := fixSource(t, cfg, `using UnityEngine;

public class Spinner : MonoBehaviour
{
    void Awake()
    {
    }

    void Update()
    {
        var body = GetComponent<Rigidbody>();
    }
}`)

	assert.Equal(t, 1, fixed)
	assert.Contains(t, content, "rigidbody = GetComponent<Rigidbody>();")
	assert.NotContains(t, content, "private void Start()")
}

func TestRepeatedLookupsShareOneCacheField(t *testing.T) {
	content, fixed := fixSource(t, nil, `using UnityEngine;

public class Enemy : MonoBehaviour
{
    void Start()
    {
    }

    void Update()
    {
        GetComponent<Rigidbody>().AddForce(Vector3.up);
        var again = GetComponent<Rigidbody>();
    }
}`)

	assert.Equal(t, 2, fixed)
	assert.Equal(t, 1, strings.Count(content, "private Rigidbody rigidbody;"))
	assert.Equal(t, 1, strings.Count(content, "GetComponent<Rigidbody>()"))
	assert.Contains(t, content, "rigidbody.AddForce(Vector3.up);")
	assert.Contains(t, content, "var again = rigidbody;")
}

func TestThisAndImplicitReceiversShareOneCacheField(t *testing.T) {
	content, fixed := fixSource(t, nil, `using UnityEngine;

public class Turret : MonoBehaviour
{
    void Update()
    {
        var a = GetComponent<Collider>();
        var b = this.GetComponent<Collider>();
    }
}`)

	assert.Equal(t, 2, fixed)
	assert.Equal(t, 1, strings.Count(content, "private Collider collider;"))
	assert.Contains(t, content, "var a = collider;")
	assert.Contains(t, content, "var b = collider;")
}

func TestArbitraryReceiverIsReportedButNotRewritten(t *testing.T) {
	source := `using UnityEngine;

public class Inspector : MonoBehaviour
{
    GameObject other;

    void Update()
    {
        var body = other.GetComponent<Rigidbody>();
    }
}`

	unit, err := syntax.Parse("Test.cs", []byte(source))
	require.NoError(t, err)
	t.Cleanup(unit.Close)
	model := semantic.NewModel(unit)
	findings := rules.NewExpensiveLookupRule().Inspect(unit, model)
	require.Len(t, findings, 1)

	content, fixed, err := NewFixer(nil).FixUnit(unit, model, findings)
	require.NoError(t, err)
	assert.Equal(t, 0, fixed)
	assert.Equal(t, source, string(content))
}

func TestFieldNameConflictFallsBackToCachedPrefix(t *testing.T) {
	content, fixed := fixSource(t, nil, `using UnityEngine;

public class Racer : MonoBehaviour
{
    Rigidbody rigidbody;

    void Update()
    {
        var body = GetComponent<Rigidbody>();
    }
}`)

	assert.Equal(t, 1, fixed)
	assert.Contains(t, content, "private Rigidbody cachedRigidbody;")
	assert.Contains(t, content, "var body = cachedRigidbody;")
}

func TestGameObjectReceiverIsRewritten(t *testing.T) {
	content, fixed := fixSource(t, nil, `using UnityEngine;

public class Probe : MonoBehaviour
{
    void Update()
    {
        var body = gameObject.GetComponent<Rigidbody>();
    }
}`)

	assert.Equal(t, 1, fixed)
	assert.Contains(t, content, "private Rigidbody rigidbody;")
	assert.Contains(t, content, "rigidbody = gameObject.GetComponent<Rigidbody>();")
	assert.Contains(t, content, "var body = rigidbody;")
}
