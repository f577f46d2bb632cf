package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitycheck/internal/models"
)

func scanEmpty(t *testing.T, source string) []models.Finding {
	t.Helper()
	unit, model := parseSource(t, source)
	return NewEmptyCallbackRule().Inspect(unit, model)
}

func TestEmptyUpdateIsFlagged(t *testing.T) {
	findings := scanEmpty(t, `
using UnityEngine;

public class Idle : MonoBehaviour
{
    void Update()
    {
    }
}`)

	require.Len(t, findings, 1)
	assert.Equal(t, models.RuleEmptyCallback, findings[0].RuleID)
	assert.Equal(t, "Update", findings[0].Method)
	assert.Equal(t, models.SeverityLow, findings[0].Severity)
}

func TestCommentOnlyBodyCountsAsEmpty(t *testing.T) {
	findings := scanEmpty(t, `
using UnityEngine;

public class Idle : MonoBehaviour
{
    void Start()
    {
        // keep for later
    }
}`)

	require.Len(t, findings, 1)
	assert.Equal(t, "Start", findings[0].Method)
}

func TestNonEmptyCallbackIsNotFlagged(t *testing.T) {
	findings := scanEmpty(t, `
using UnityEngine;

public class Busy : MonoBehaviour
{
    void Update()
    {
        transform.Translate(0, 0, 1);
    }
}`)

	assert.Empty(t, findings)
}

func TestEmptyMethodOutsideFamilyIsNotFlagged(t *testing.T) {
	findings := scanEmpty(t, `
public class Helper
{
    void Update()
    {
    }
}`)

	assert.Empty(t, findings)
}

func TestEmptyScriptableObjectCallbackIsFlagged(t *testing.T) {
	findings := scanEmpty(t, `
using UnityEngine;

public class Settings : ScriptableObject
{
    void OnEnable()
    {
    }
}`)

	require.Len(t, findings, 1)
	assert.Equal(t, "OnEnable", findings[0].Method)
}

func TestEmptyHelperMethodOnBehaviourIsNotFlagged(t *testing.T) {
	// Only registered callback names are dispatched by the engine.
	findings := scanEmpty(t, `
using UnityEngine;

public class Widget : MonoBehaviour
{
    void Reset2()
    {
    }
}`)

	assert.Empty(t, findings)
}
