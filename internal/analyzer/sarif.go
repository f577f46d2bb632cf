package analyzer

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"unitycheck/internal/models"
)

// SARIF v2.1.0 schema - see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	toolName    = "unitycheck"
	toolVersion = "1.0.0"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	FullDescription  sarifMessage           `json:"fullDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// generateSARIF builds a SARIF v2.1.0 document from analysis results. File
// URIs keep the paths the analyzer was given, converted to forward slashes.
func (r *ReportGenerator) generateSARIF(result *models.AnalysisResult) string {
	rules := make([]sarifRule, 0, len(r.rules))
	for _, info := range r.rules {
		rules = append(rules, sarifRule{
			ID:               info.ID,
			Name:             info.Name,
			ShortDescription: sarifMessage{Text: info.Title},
			FullDescription:  sarifMessage{Text: info.Description},
			DefaultConfig:    sarifRuleDefaultConfig{Level: info.DefaultSeverity.SarifLevel()},
		})
	}

	results := make([]sarifResult, 0, len(result.Findings))
	for _, finding := range result.Findings {
		sr := sarifResult{
			RuleID:  finding.RuleID,
			Level:   finding.Severity.SarifLevel(),
			Message: sarifMessage{Text: finding.Message},
		}
		if finding.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       filepath.ToSlash(finding.File),
						URIBaseID: "%SRCROOT%",
					},
				},
			}
			if finding.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   finding.Line,
					StartColumn: finding.Column,
				}
			}
			sr.Locations = []sarifLocation{loc}
		}
		results = append(results, sr)
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    toolName,
						Version: toolVersion,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating SARIF report: %v", err)
	}
	return string(data)
}
