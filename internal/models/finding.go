package models

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// SarifLevel maps a severity to the corresponding SARIF level string.
func (s Severity) SarifLevel() string {
	switch s {
	case SeverityHigh:
		return "error"
	case SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

const (
	RuleExpensiveLookup = "UC0001"
	RuleEmptyCallback   = "UC0002"
)

// RuleInfo is the stable identity a rule advertises to hosts: ID, localizable
// strings, category and default severity. Rules are safe for concurrent use.
type RuleInfo struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Title            string   `json:"title"`
	MessageFormat    string   `json:"message_format"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	DefaultSeverity  Severity `json:"-"`
	EnabledByDefault bool     `json:"enabled_by_default"`
}

// Finding is a single detected instance of a rule violation at a specific
// source location. Findings are immutable after creation.
type Finding struct {
	RuleID     string   `json:"rule_id"`
	Severity   Severity `json:"-"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Column     int      `json:"column"`
	StartByte  int      `json:"-"`
	EndByte    int      `json:"-"`
	Class      string   `json:"class,omitempty"`
	Method     string   `json:"method,omitempty"`
	Member     string   `json:"member,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Fixable    bool     `json:"fixable"`
}

type AnalysisResult struct {
	Files              []string       `json:"files_analyzed"`
	TotalFindings      int            `json:"total_findings"`
	FindingsBySeverity map[string]int `json:"findings_by_severity"`
	Findings           []Finding      `json:"findings"`
	PerformanceScore   int            `json:"performance_score"`
	AnalysisDuration   string         `json:"analysis_duration"`
}

func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Files:              make([]string, 0),
		Findings:           make([]Finding, 0),
		FindingsBySeverity: make(map[string]int),
	}
}

func (ar *AnalysisResult) AddFinding(f Finding) {
	ar.Findings = append(ar.Findings, f)
	ar.TotalFindings++
	ar.FindingsBySeverity[f.Severity.String()]++
}

func (ar *AnalysisResult) CalculateScore() {
	if ar.TotalFindings == 0 {
		ar.PerformanceScore = 100
		return
	}

	penalty := 0
	for _, f := range ar.Findings {
		basePenalty := 0
		switch f.Severity {
		case SeverityInfo:
			basePenalty = 3
		case SeverityLow:
			basePenalty = 5
		case SeverityMedium:
			basePenalty = 15
		case SeverityHigh:
			basePenalty = 30
		}

		// Expensive lookups run every frame, so they weigh more than
		// their severity alone suggests.
		if f.RuleID == RuleExpensiveLookup {
			basePenalty = int(float64(basePenalty) * 1.5)
		}

		penalty += basePenalty
	}

	ar.PerformanceScore = max(100-penalty, 0)
}
