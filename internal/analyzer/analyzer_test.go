package analyzer

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitycheck/internal/config"
	"unitycheck/internal/models"
)

func TestAnalyzeFilesFindsPlantedIssues(t *testing.T) {
	a := NewAnalyzer()
	result := a.AnalyzeFiles([]string{
		filepath.Join("testdata", "PlayerController.cs"),
		filepath.Join("testdata", "CleanScript.cs"),
	})

	require.NotNil(t, result)
	assert.Len(t, result.Files, 2)

	var expensive, empty int
	for _, f := range result.Findings {
		switch f.RuleID {
		case models.RuleExpensiveLookup:
			expensive++
		case models.RuleEmptyCallback:
			empty++
		}
	}
	// PlayerController: GetComponent + Camera.main in Update, empty OnDisable.
	assert.Equal(t, 2, expensive)
	assert.Equal(t, 1, empty)
	assert.Less(t, result.PerformanceScore, 100)
}

func TestCleanFileScoresPerfect(t *testing.T) {
	a := NewAnalyzer()
	result := a.AnalyzeFiles([]string{filepath.Join("testdata", "CleanScript.cs")})

	assert.Empty(t, result.Findings)
	assert.Equal(t, 100, result.PerformanceScore)
}

func TestMissingFilesAreSkipped(t *testing.T) {
	a := NewAnalyzer()
	result := a.AnalyzeFiles([]string{filepath.Join("testdata", "DoesNotExist.cs")})

	require.NotNil(t, result)
	assert.Empty(t, result.Files)
	assert.Empty(t, result.Findings)
}

func TestRuleGatingThroughConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, 2, NewAnalyzerWithConfig(cfg).RuleCount())

	cfg.Rules.Performance.EmptyCallback.Enabled = false
	assert.Equal(t, 1, NewAnalyzerWithConfig(cfg).RuleCount())

	cfg.Rules.Performance.Enabled = false
	assert.Equal(t, 0, NewAnalyzerWithConfig(cfg).RuleCount())
}

func TestFindingsKeepUnitOrderAcrossRuns(t *testing.T) {
	files := []string{
		filepath.Join("testdata", "PlayerController.cs"),
		filepath.Join("testdata", "CleanScript.cs"),
	}
	a := NewAnalyzer()

	first := a.AnalyzeFiles(files)
	second := a.AnalyzeFiles(files)

	require.Equal(t, len(first.Findings), len(second.Findings))
	for i := range first.Findings {
		assert.Equal(t, first.Findings[i].RuleID, second.Findings[i].RuleID)
		assert.Equal(t, first.Findings[i].StartByte, second.Findings[i].StartByte)
	}
}

func TestJSONReportIsWellFormed(t *testing.T) {
	a := NewAnalyzer()
	result := a.AnalyzeFiles([]string{filepath.Join("testdata", "PlayerController.cs")})

	gen := NewReportGenerator("json", a.RuleInfos())
	report := gen.Generate(result)

	var decoded models.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(report), &decoded))
	assert.Equal(t, result.TotalFindings, decoded.TotalFindings)
}

func TestSARIFReportIsWellFormed(t *testing.T) {
	a := NewAnalyzer()
	result := a.AnalyzeFiles([]string{filepath.Join("testdata", "PlayerController.cs")})

	gen := NewReportGenerator("sarif", a.RuleInfos())
	report := gen.Generate(result)

	var doc struct {
		Schema  string `json:"$schema"`
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID  string `json:"ruleId"`
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(report), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	assert.Contains(t, doc.Schema, "sarif-2.1.0")
	require.Len(t, doc.Runs, 1)
	assert.Equal(t, "unitycheck", doc.Runs[0].Tool.Driver.Name)
	assert.Len(t, doc.Runs[0].Tool.Driver.Rules, 2)
	require.Equal(t, result.TotalFindings, len(doc.Runs[0].Results))

	first := doc.Runs[0].Results[0]
	assert.Equal(t, models.RuleExpensiveLookup, first.RuleID)
	assert.Equal(t, "note", first.Level)
	require.Len(t, first.Locations, 1)
	assert.Contains(t, first.Locations[0].PhysicalLocation.ArtifactLocation.URI, "PlayerController.cs")
	assert.Greater(t, first.Locations[0].PhysicalLocation.Region.StartLine, 0)
}

func TestConsoleReportWithoutColors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Colors = false

	a := NewAnalyzerWithConfig(cfg)
	result := a.AnalyzeFiles([]string{filepath.Join("testdata", "PlayerController.cs")})

	gen := NewReportGeneratorWithConfig(cfg, a.RuleInfos())
	report := gen.Generate(result)

	assert.Contains(t, report, "UnityCheck Analysis Report")
	assert.Contains(t, report, "Frame Budget Score")
	assert.Contains(t, report, "PlayerController.Update")
	assert.Contains(t, report, "Fixable with --fix")
}

func TestConsoleReportCleanRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Colors = false

	a := NewAnalyzerWithConfig(cfg)
	result := a.AnalyzeFiles([]string{filepath.Join("testdata", "CleanScript.cs")})

	gen := NewReportGeneratorWithConfig(cfg, a.RuleInfos())
	report := gen.Generate(result)

	assert.Contains(t, report, "No per-frame performance issues detected")
}
