package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"unitycheck/internal/config"
	"unitycheck/internal/models"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format string
	config *config.Config
	rules  []models.RuleInfo
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(format string, rules []models.RuleInfo) *ReportGenerator {
	return &ReportGenerator{
		format: format,
		config: config.DefaultConfig(),
		rules:  rules,
	}
}

func NewReportGeneratorWithConfig(cfg *config.Config, rules []models.RuleInfo) *ReportGenerator {
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
		rules:  rules,
	}
}

// Generate creates a formatted report from analysis results
func (r *ReportGenerator) Generate(result *models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(result)
	case "sarif":
		return r.generateSARIF(result)
	default:
		return r.generateConsole(result)
	}
}

// generateJSON creates a JSON report
func (r *ReportGenerator) generateJSON(result *models.AnalysisResult) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data)
}

// generateConsole creates a colorized console report
func (r *ReportGenerator) generateConsole(result *models.AnalysisResult) string {
	var report strings.Builder

	useColors := true
	verbose := false
	showSuggestions := true

	if r.config != nil {
		useColors = r.config.Output.Colors
		verbose = r.config.Output.Verbose
		showSuggestions = r.config.Output.ShowSuggestions
	}

	// Header
	if useColors {
		report.WriteString(color.CyanString("🎮 UnityCheck Analysis Report\n"))
		report.WriteString(color.WhiteString("═══════════════════════════════════════\n\n"))
	} else {
		report.WriteString("UnityCheck Analysis Report\n")
		report.WriteString("=======================================\n\n")
	}

	if verbose {
		r.writeRuleInfo(&report, useColors)
	}

	r.writeSummary(&report, result, useColors)
	r.writePerformanceScore(&report, result)

	if len(result.Findings) > 0 {
		r.writeFindingsSummary(&report, result, useColors)

		report.WriteString("\n")
		r.writeDetailedFindings(&report, result, useColors, showSuggestions)
	} else {
		if useColors {
			report.WriteString(color.GreenString("🎉 No per-frame performance issues detected!\n\n"))
		} else {
			report.WriteString("No per-frame performance issues detected!\n\n")
		}
	}

	// Footer
	if useColors {
		report.WriteString(color.WhiteString("Analysis completed in %s\n", result.AnalysisDuration))
	} else {
		report.WriteString(fmt.Sprintf("Analysis completed in %s\n", result.AnalysisDuration))
	}

	return report.String()
}

// writePerformanceScore writes the performance score with color coding
func (r *ReportGenerator) writePerformanceScore(report *strings.Builder, result *models.AnalysisResult) {
	score := result.PerformanceScore
	var scoreColor func(a ...interface{}) string
	var emoji string
	var excellent, good, fair int
	if r.config != nil {
		excellent = r.config.Analysis.ScoreThresholds.Excellent
		good = r.config.Analysis.ScoreThresholds.Good
		fair = r.config.Analysis.ScoreThresholds.Fair
	} else {
		excellent = 90
		good = 75
		fair = 50
	}

	switch {
	case score >= excellent:
		scoreColor = color.New(color.FgGreen).SprintFunc()
		emoji = "🌟"
	case score >= good:
		scoreColor = color.New(color.FgYellow).SprintFunc()
		emoji = "⚡"
	case score >= fair:
		scoreColor = color.New(color.FgHiYellow).SprintFunc()
		emoji = "⚠️"
	default:
		scoreColor = color.New(color.FgRed).SprintFunc()
		emoji = "🚨"
	}
	useColors := true
	if r.config != nil {
		useColors = r.config.Output.Colors
	}

	if useColors {
		scoreText := scoreColor(fmt.Sprintf("%d", score))
		report.WriteString(fmt.Sprintf("%s Frame Budget Score: %s/100\n\n", emoji, scoreText))
	} else {
		report.WriteString(fmt.Sprintf("Frame Budget Score: %d/100\n\n", score))
	}
}

// getSeverityDisplay returns emoji and color function for a severity level
func (r *ReportGenerator) getSeverityDisplay(severity string) (string, func(a ...interface{}) string) {
	switch severity {
	case "HIGH":
		return "❌", color.New(color.FgRed).SprintFunc()
	case "MEDIUM":
		return "⚠️", color.New(color.FgYellow).SprintFunc()
	case "LOW":
		return "ℹ️", color.New(color.FgBlue).SprintFunc()
	case "INFO":
		return "💡", color.New(color.FgCyan).SprintFunc()
	default:
		return "❓", color.New(color.FgWhite).SprintFunc()
	}
}

func (r *ReportGenerator) writeRuleInfo(report *strings.Builder, useColors bool) {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = fmt.Sprintf("%s (%s)", rule.ID, rule.Name)
	}
	if useColors {
		report.WriteString(color.WhiteString("📋 Active rules:\n"))
		report.WriteString(fmt.Sprintf("   %s\n", color.CyanString(strings.Join(names, ", "))))
	} else {
		report.WriteString("Active rules:\n")
		report.WriteString(fmt.Sprintf("   %s\n", strings.Join(names, ", ")))
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeSummary(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📊 Summary:\n"))
	} else {
		report.WriteString("Summary:\n")
	}
	report.WriteString(fmt.Sprintf("   Scripts analyzed: %d\n", len(result.Files)))
	report.WriteString(fmt.Sprintf("   Findings: %d\n", result.TotalFindings))
	report.WriteString("\n")
}

func (r *ReportGenerator) writeFindingsSummary(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📋 Findings by Severity:\n"))
	} else {
		report.WriteString("Findings by Severity:\n")
	}

	severities := []string{"HIGH", "MEDIUM", "LOW", "INFO"}
	for _, severity := range severities {
		count := result.FindingsBySeverity[severity]
		if count > 0 {
			if useColors {
				emoji, colorFunc := r.getSeverityDisplay(severity)
				countText := colorFunc(fmt.Sprintf("%d", count))
				report.WriteString(fmt.Sprintf("   %s %s: %s\n", emoji, severity, countText))
			} else {
				report.WriteString(fmt.Sprintf("   %s: %d\n", severity, count))
			}
		}
	}
}

func (r *ReportGenerator) writeDetailedFindings(report *strings.Builder, result *models.AnalysisResult, useColors, showSuggestions bool) {
	if useColors {
		report.WriteString(color.WhiteString("\n🔍 Detailed Findings:\n"))
	} else {
		report.WriteString("\nDetailed Findings:\n")
	}
	report.WriteString(strings.Repeat("─", 50) + "\n\n")

	// Sort findings by severity (highest first), keeping document order
	// within a severity level.
	sorted := make([]models.Finding, len(result.Findings))
	copy(sorted, result.Findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity > sorted[j].Severity
	})

	for i, finding := range sorted {
		r.writeFindingDetail(report, finding, i+1, useColors, showSuggestions)
		report.WriteString("\n")
	}
}

func (r *ReportGenerator) writeFindingDetail(report *strings.Builder, finding models.Finding, index int, useColors, showSuggestions bool) {
	location := fmt.Sprintf("%s:%d:%d", finding.File, finding.Line, finding.Column)
	context := ""
	if finding.Class != "" && finding.Method != "" {
		context = fmt.Sprintf(" in %s.%s", finding.Class, finding.Method)
	}

	if useColors {
		emoji, severityColor := r.getSeverityDisplay(finding.Severity.String())
		report.WriteString(fmt.Sprintf("%s Finding #%d - %s %s\n",
			emoji, index, severityColor(finding.Severity.String()),
			color.WhiteString(finding.RuleID)))
		report.WriteString(color.CyanString("   📍 Location: %s%s\n", location, context))
		report.WriteString(color.WhiteString("   💭 %s\n", finding.Message))
		if finding.Fixable {
			report.WriteString(color.MagentaString("   🔧 Fixable with --fix\n"))
		}
		if showSuggestions && finding.Suggestion != "" {
			report.WriteString(color.GreenString("   💡 Suggestion:\n"))
			for _, line := range strings.Split(finding.Suggestion, "\n") {
				if strings.TrimSpace(line) != "" {
					report.WriteString(color.GreenString("      %s\n", line))
				}
			}
		}
	} else {
		report.WriteString(fmt.Sprintf("Finding #%d - %s %s\n",
			index, finding.Severity.String(), finding.RuleID))
		report.WriteString(fmt.Sprintf("   Location: %s%s\n", location, context))
		report.WriteString(fmt.Sprintf("   %s\n", finding.Message))
		if finding.Fixable {
			report.WriteString("   Fixable with --fix\n")
		}
		if showSuggestions && finding.Suggestion != "" {
			report.WriteString("   Suggestion:\n")
			for _, line := range strings.Split(finding.Suggestion, "\n") {
				if strings.TrimSpace(line) != "" {
					report.WriteString(fmt.Sprintf("      %s\n", line))
				}
			}
		}
	}
}
