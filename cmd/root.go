package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"unitycheck/internal/analyzer"
	"unitycheck/internal/codefix"
	"unitycheck/internal/config"
	"unitycheck/internal/watcher"

	"github.com/fatih/color"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

var (
	formatFlag         string
	watchFlag          bool
	fixFlag            bool
	configFlag         string
	generateConfigFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "unitycheck [files or directories]",
	Short: "A Unity C# analyzer that detects per-frame performance issues",
	Long: `unitycheck is a static analysis tool that scans Unity C# scripts for
expensive operations inside per-frame lifecycle callbacks and provides
actionable caching suggestions.

Examples:
  unitycheck .                             # Analyze current directory
  unitycheck Assets/Scripts                # Analyze a specific directory
  unitycheck --format=json .               # Output results in JSON format
  unitycheck --format=sarif .              # Output a SARIF 2.1.0 report
  unitycheck --fix .                       # Rewrite expensive lookups into cached fields
  unitycheck --watch .                     # Re-analyze on file changes
  unitycheck --generate-config             # Generate sample config file`,
	Run: runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json, sarif)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().BoolVar(&fixFlag, "fix", false, "Apply the cached-field rewrite to fixable findings")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
}

func runAnalysis(cmd *cobra.Command, args []string) {

	if generateConfigFlag {
		generateConfig()
		return
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
		if err := cfg.Validate(); err != nil {
			color.Red("Invalid configuration: %v\n", err)
			os.Exit(1)
		}
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	sourceFiles := collectAllSourceFiles(cfg, args)
	if len(sourceFiles) == 0 {
		color.Yellow("⚠️  No C# scripts found to analyze\n")
		return
	}

	if fixFlag {
		runFix(cfg, sourceFiles)
		return
	}

	if watchFlag {
		runWatch(cfg, args, sourceFiles)
		return
	}

	analyzeOnce(cfg, sourceFiles, true)
}

// analyzeOnce runs one analysis pass. enforceThreshold controls the CI-style
// failure exit; watch mode passes false so a bad pass keeps the watcher alive.
func analyzeOnce(cfg *config.Config, sourceFiles []string, enforceThreshold bool) {
	analyzerEngine := analyzer.NewAnalyzerWithConfig(cfg)
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg, analyzerEngine.RuleInfos())

	if cfg.Output.Format == "console" {
		if cfg.Output.Verbose {
			color.Cyan("🔍 Analyzing %d C# scripts with %d rules...\n\n", len(sourceFiles), analyzerEngine.RuleCount())
		} else {
			color.Cyan("🔍 Analyzing %d C# scripts...\n\n", len(sourceFiles))
		}
	}

	result := analyzerEngine.AnalyzeFiles(sourceFiles)
	report := reportGen.Generate(result)

	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
		} else {
			color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
		}
	} else {
		fmt.Print(report)
	}

	if enforceThreshold && belowFailThreshold(cfg, result.PerformanceScore) {
		os.Exit(1)
	}
}

func belowFailThreshold(cfg *config.Config, score int) bool {
	return score < cfg.Analysis.ScoreThresholds.Fair
}

func runFix(cfg *config.Config, sourceFiles []string) {
	analyzerEngine := analyzer.NewAnalyzerWithConfig(cfg)
	fixer := codefix.NewFixer(cfg)

	units, model := analyzerEngine.Load(sourceFiles)
	defer analyzer.CloseUnits(units)
	result := analyzerEngine.Run(units, model)

	totalFixed := 0
	filesChanged := 0
	for _, unit := range units {
		content, fixed, err := fixer.FixUnit(unit, model, result.Findings)
		if err != nil {
			color.Red("Fix failed for %s: %v\n", unit.Path, err)
			continue
		}
		if fixed == 0 {
			continue
		}
		if err := os.WriteFile(unit.Path, content, 0644); err != nil {
			color.Red("Failed to write %s: %v\n", unit.Path, err)
			continue
		}
		color.Green("🔧 %s: cached %d expensive lookup(s)\n", unit.Path, fixed)
		totalFixed += fixed
		filesChanged++
	}

	if totalFixed == 0 {
		color.Yellow("No fixable findings\n")
		return
	}
	color.Green("\n✅ Fixed %d finding(s) across %d file(s)\n", totalFixed, filesChanged)
}

func runWatch(cfg *config.Config, paths, sourceFiles []string) {
	analyzeOnce(cfg, sourceFiles, false)

	fw, err := watcher.NewFileWatcher(cfg)
	if err != nil {
		color.Red("Failed to start watch mode: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	handler := func(changed []string) error {
		color.Cyan("\n🔄 %d file(s) changed, re-analyzing...\n\n", len(changed))
		analyzeOnce(cfg, collectAllSourceFiles(cfg, paths), false)
		return nil
	}
	if err := fw.Watch(paths, handler); err != nil {
		color.Red("Failed to watch paths: %v\n", err)
		os.Exit(1)
	}

	color.Cyan("👀 Watching %d directories for changes (Ctrl+C to stop)\n", len(fw.GetWatchedPaths()))
	select {}
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfig() {
	configPath := ".unitycheck.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize unitycheck behavior\n")
	color.Cyan("🚀 Run 'unitycheck --config=%s .' to use it\n", configPath)
}

func collectAllSourceFiles(cfg *config.Config, args []string) []string {
	include, exclude, err := cfg.Files.CompileMatchers()
	if err != nil {
		color.Red("Invalid file patterns: %v\n", err)
		os.Exit(1)
	}

	var sourceFiles []string
	for _, arg := range args {
		files, err := collectSourceFiles(arg, include, exclude)
		if err != nil {
			color.Red("Error collecting files from %s: %v\n", arg, err)
			continue
		}
		sourceFiles = append(sourceFiles, files...)
	}
	return sourceFiles
}

// collectSourceFiles recursively finds all .cs files under path that pass the
// configured include and exclude patterns.
func collectSourceFiles(path string, include, exclude []glob.Glob) ([]string, error) {
	var sourceFiles []string

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if strings.HasSuffix(path, ".cs") {
			sourceFiles = append(sourceFiles, path)
		}
		return sourceFiles, nil
	}

	err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(path, filePath)
		if relErr != nil {
			rel = filePath
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			name := info.Name()
			if name == "Library" || name == "Temp" || name == "obj" || name == ".git" {
				return filepath.SkipDir
			}
			for _, g := range exclude {
				if g.Match(rel + "/") || g.Match(rel) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(filePath, ".cs") {
			return nil
		}
		for _, g := range exclude {
			if g.Match(rel) {
				return nil
			}
		}
		for _, g := range include {
			if g.Match(rel) || g.Match(info.Name()) {
				sourceFiles = append(sourceFiles, filePath)
				return nil
			}
		}
		return nil
	})

	return sourceFiles, err
}
