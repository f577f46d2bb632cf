package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"unitycheck/internal/models"
)

// Config represents the configuration for unitycheck
type Config struct {
	// General settings
	Version     string `yaml:"version" json:"version"`
	ProjectName string `yaml:"project_name,omitempty" json:"project_name,omitempty"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Rule-specific configurations
	Rules RulesConfig `yaml:"rules" json:"rules"`

	// Code fix settings
	Fix FixConfig `yaml:"fix" json:"fix"`

	// File patterns
	Files FilesConfig `yaml:"files" json:"files"`
}

type AnalysisConfig struct {
	// Performance score thresholds
	ScoreThresholds ScoreThresholds `yaml:"score_thresholds" json:"score_thresholds"`

	// Parallel analysis
	MaxWorkers int `yaml:"max_workers" json:"max_workers"`
}

type ScoreThresholds struct {
	Excellent int `yaml:"excellent" json:"excellent"` // >= 90
	Good      int `yaml:"good" json:"good"`           // >= 75
	Fair      int `yaml:"fair" json:"fair"`           // >= 50
	Poor      int `yaml:"poor" json:"poor"`           // < 50
}

type OutputConfig struct {
	// Default output format (console, json, sarif)
	Format string `yaml:"format" json:"format"`

	// Colorized output
	Colors bool `yaml:"colors" json:"colors"`

	// Verbosity level
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Show suggestions
	ShowSuggestions bool `yaml:"show_suggestions" json:"show_suggestions"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
}

type RulesConfig struct {
	Performance PerformanceRules `yaml:"performance" json:"performance"`
}

type PerformanceRules struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Expensive lookups in per-frame callbacks
	ExpensiveLookup ExpensiveLookupConfig `yaml:"expensive_lookup" json:"expensive_lookup"`

	// Empty lifecycle callbacks
	EmptyCallback EmptyCallbackConfig `yaml:"empty_callback" json:"empty_callback"`
}

type ExpensiveLookupConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Also scan FixedUpdate bodies, not only Update
	ScanFixedUpdate bool `yaml:"scan_fixed_update" json:"scan_fixed_update"`
}

type EmptyCallbackConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type FixConfig struct {
	// Lifecycle callback that populates cache fields ("Start" or "Awake")
	InitCallback string `yaml:"init_callback" json:"init_callback"`
}

type FilesConfig struct {
	// Include patterns
	Include []string `yaml:"include" json:"include"`

	// Exclude patterns
	Exclude []string `yaml:"exclude" json:"exclude"`

	// Max file size (in KB)
	MaxFileSize int `yaml:"max_file_size" json:"max_file_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			ScoreThresholds: ScoreThresholds{
				Excellent: 90,
				Good:      75,
				Fair:      50,
				Poor:      0,
			},
			MaxWorkers: 4,
		},
		Output: OutputConfig{
			Format:          "console",
			Colors:          true,
			Verbose:         false,
			ShowSuggestions: true,
		},
		Rules: RulesConfig{
			Performance: PerformanceRules{
				Enabled: true,
				ExpensiveLookup: ExpensiveLookupConfig{
					Enabled:         true,
					ScanFixedUpdate: true,
				},
				EmptyCallback: EmptyCallbackConfig{
					Enabled: true,
				},
			},
		},
		Fix: FixConfig{
			InitCallback: "Start",
		},
		Files: FilesConfig{
			Include:     []string{"**/*.cs"},
			Exclude:     []string{"Library/**", "Temp/**", "obj/**", ".git/**"},
			MaxFileSize: 1024, // 1MB
		},
	}
}

// LoadConfig loads configuration from file or returns default
func LoadConfig(configPath string) (*Config, error) {
	// If no config path provided, look for default config files
	if configPath == "" {
		configPath = findConfigFile()
	}

	// If still no config found, return default
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig() // Start with defaults

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".unitycheck.yml",
		".unitycheck.yaml",
		"unitycheck.yml",
		"unitycheck.yaml",
		".config/unitycheck.yml",
		".config/unitycheck.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	st := c.Analysis.ScoreThresholds
	if st.Excellent < st.Good || st.Good < st.Fair || st.Fair < st.Poor {
		return fmt.Errorf("score thresholds must be in descending order")
	}

	validFormats := []string{"console", "json", "sarif"}
	formatValid := false
	for _, format := range validFormats {
		if c.Output.Format == format {
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}

	if c.Fix.InitCallback != "Start" && c.Fix.InitCallback != "Awake" {
		return fmt.Errorf("invalid fix init_callback: %s (valid: Start, Awake)", c.Fix.InitCallback)
	}

	if _, _, err := c.Files.CompileMatchers(); err != nil {
		return err
	}

	return nil
}

// CompileMatchers compiles the include and exclude glob patterns.
func (f *FilesConfig) CompileMatchers() (include, exclude []glob.Glob, err error) {
	for _, pattern := range f.Include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		include = append(include, g)
	}
	for _, pattern := range f.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		exclude = append(exclude, g)
	}
	return include, exclude, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}

// IsRuleEnabled checks if a specific rule is enabled
func (c *Config) IsRuleEnabled(ruleID string) bool {
	switch ruleID {
	case models.RuleExpensiveLookup:
		return c.Rules.Performance.Enabled && c.Rules.Performance.ExpensiveLookup.Enabled
	case models.RuleEmptyCallback:
		return c.Rules.Performance.Enabled && c.Rules.Performance.EmptyCallback.Enabled
	default:
		return false
	}
}
