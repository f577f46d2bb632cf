package analyzer

import (
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"unitycheck/internal/analyzer/rules"
	"unitycheck/internal/config"
	"unitycheck/internal/models"
	"unitycheck/internal/semantic"
	"unitycheck/internal/syntax"
)

// Rule inspects one source unit against the semantic model and returns its
// findings. Rules are pure functions of their inputs and are invoked
// concurrently across units.
type Rule interface {
	Info() models.RuleInfo
	Inspect(unit *syntax.Unit, model *semantic.Model) []models.Finding
}

type Analyzer struct {
	config *config.Config
	rules  []Rule
}

func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(config.DefaultConfig())
}

func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	analyzer := &Analyzer{config: cfg}

	if cfg.IsRuleEnabled(models.RuleExpensiveLookup) {
		analyzer.rules = append(analyzer.rules, rules.NewExpensiveLookupRuleWithConfig(cfg))
	}
	if cfg.IsRuleEnabled(models.RuleEmptyCallback) {
		analyzer.rules = append(analyzer.rules, rules.NewEmptyCallbackRuleWithConfig(cfg))
	}

	return analyzer
}

// RuleInfos returns the identity metadata of every active rule.
func (a *Analyzer) RuleInfos() []models.RuleInfo {
	infos := make([]models.RuleInfo, len(a.rules))
	for i, rule := range a.rules {
		infos[i] = rule.Info()
	}
	return infos
}

func (a *Analyzer) RuleCount() int {
	return len(a.rules)
}

// Load parses the given files into source units and binds them into one
// semantic model. Files that cannot be read or parsed are skipped; base types
// may be declared in any of the loaded files.
func (a *Analyzer) Load(filenames []string) ([]*syntax.Unit, *semantic.Model) {
	maxBytes := a.config.Files.MaxFileSize * 1024

	units := make([]*syntax.Unit, 0, len(filenames))
	for _, filename := range filenames {
		source, err := os.ReadFile(filename)
		if err != nil {
			continue
		}
		if maxBytes > 0 && len(source) > maxBytes {
			continue
		}
		unit, err := syntax.Parse(filename, source)
		if err != nil {
			continue
		}
		units = append(units, unit)
	}

	return units, semantic.NewModel(units...)
}

// CloseUnits releases the parse trees of all units.
func CloseUnits(units []*syntax.Unit) {
	for _, unit := range units {
		unit.Close()
	}
}

// Run executes every rule against every unit. Units are inspected in
// parallel, but findings are collected in unit order so output is
// deterministic.
func (a *Analyzer) Run(units []*syntax.Unit, model *semantic.Model) *models.AnalysisResult {
	startTime := time.Now()
	result := models.NewAnalysisResult()

	perUnit := make([][]models.Finding, len(units))
	group := new(errgroup.Group)
	group.SetLimit(a.config.Analysis.MaxWorkers)

	for i, unit := range units {
		group.Go(func() error {
			var findings []models.Finding
			for _, rule := range a.rules {
				findings = append(findings, rule.Inspect(unit, model)...)
			}
			perUnit[i] = findings
			return nil
		})
	}
	// Rules never return errors; failures to classify degrade to no finding.
	_ = group.Wait()

	for i, unit := range units {
		result.Files = append(result.Files, unit.Path)
		for _, finding := range perUnit[i] {
			result.AddFinding(finding)
		}
	}

	result.AnalysisDuration = time.Since(startTime).String()
	result.CalculateScore()
	return result
}

// AnalyzeFiles parses and analyzes the given files in one pass.
func (a *Analyzer) AnalyzeFiles(filenames []string) *models.AnalysisResult {
	units, model := a.Load(filenames)
	defer CloseUnits(units)
	return a.Run(units, model)
}
