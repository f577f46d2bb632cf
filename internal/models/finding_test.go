package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityStrings(t *testing.T) {
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "LOW", SeverityLow.String())
	assert.Equal(t, "MEDIUM", SeverityMedium.String())
	assert.Equal(t, "HIGH", SeverityHigh.String())
}

func TestSarifLevels(t *testing.T) {
	assert.Equal(t, "note", SeverityInfo.SarifLevel())
	assert.Equal(t, "note", SeverityLow.SarifLevel())
	assert.Equal(t, "warning", SeverityMedium.SarifLevel())
	assert.Equal(t, "error", SeverityHigh.SarifLevel())
}

func TestScoreStartsAtHundred(t *testing.T) {
	result := NewAnalysisResult()
	result.CalculateScore()
	assert.Equal(t, 100, result.PerformanceScore)
}

func TestExpensiveLookupsWeighMoreThanTheirSeverity(t *testing.T) {
	lookup := NewAnalysisResult()
	lookup.AddFinding(Finding{RuleID: RuleExpensiveLookup, Severity: SeverityInfo})
	lookup.CalculateScore()

	other := NewAnalysisResult()
	other.AddFinding(Finding{RuleID: "UC9999", Severity: SeverityInfo})
	other.CalculateScore()

	assert.Less(t, lookup.PerformanceScore, other.PerformanceScore)
}

func TestScoreNeverGoesNegative(t *testing.T) {
	result := NewAnalysisResult()
	for i := 0; i < 50; i++ {
		result.AddFinding(Finding{RuleID: RuleExpensiveLookup, Severity: SeverityHigh})
	}
	result.CalculateScore()
	assert.Equal(t, 0, result.PerformanceScore)
}

func TestFindingsBySeverityTally(t *testing.T) {
	result := NewAnalysisResult()
	result.AddFinding(Finding{Severity: SeverityInfo})
	result.AddFinding(Finding{Severity: SeverityInfo})
	result.AddFinding(Finding{Severity: SeverityLow})

	assert.Equal(t, 3, result.TotalFindings)
	assert.Equal(t, 2, result.FindingsBySeverity["INFO"])
	assert.Equal(t, 1, result.FindingsBySeverity["LOW"])
}
