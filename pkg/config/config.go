// Package config loads application settings and analysis rules.
// Settings layer as flags > env > config file > defaults; rules come
// from the same file and merge into the builtin defaults explicitly.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/skoglund/feature-scan/pkg/category"
	"github.com/skoglund/feature-scan/pkg/metadata"
)

// DefaultFile is the config file looked up next to the working
// directory when no path is given.
const DefaultFile = "feature-scan.toml"

// Config holds the application settings.
type Config struct {
	Root      string `koanf:"root"`
	Project   string `koanf:"project"`
	Output    string `koanf:"output"` // catalog JSON destination, empty writes none
	WebMode   bool   `koanf:"web"`
	Port      int    `koanf:"port"`
	Watch     bool   `koanf:"watch"`
	Verbosity string `koanf:"verbosity"`
	JSONLogs  bool   `koanf:"json-logs"`
	DiffWith  string `koanf:"diff"` // previous catalog JSON to compare against
}

// Load loads settings from defaults, the config file, environment
// variables, and flags. Priority: Flags > Env > Config File > Defaults.
func Load(f *pflag.FlagSet, configFile string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"root":      ".",
		"project":   "",
		"output":    "",
		"web":       false,
		"port":      8080,
		"watch":     false,
		"verbosity": "",
		"json-logs": false,
		"diff":      "",
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Config file is optional; a missing file is not an error.
	if configFile == "" {
		configFile = DefaultFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
	}

	// Environment variables, e.g. FEATURE_SCAN_PORT=9090.
	if err := k.Load(env.Provider("FEATURE_SCAN_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "FEATURE_SCAN_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Rules is the merged analysis rule set.
type Rules struct {
	Excludes   []string // nil keeps the scanner defaults
	Patterns   []string
	Extensions []string
	Aliases    map[string]string // import alias prefix -> root-relative prefix

	CategoryRules  []category.Rule // appended to the builtin table
	EnvPatterns    []metadata.EnvPattern
	MigrationRules []metadata.MigrationRule

	LargeFileLines int
	CouplingLimit  int
}

// DefaultRules returns the rule set used when no config file exists.
func DefaultRules() *Rules {
	return &Rules{
		Aliases:        map[string]string{},
		LargeFileLines: 300,
		CouplingLimit:  10,
	}
}

type rawCategoryRule struct {
	Pattern     string `koanf:"pattern"`
	Category    string `koanf:"category"`
	Priority    int    `koanf:"priority"`
	Regex       bool   `koanf:"regex"`
	Description string `koanf:"description"`
}

type rawEnvPattern struct {
	Label   string `koanf:"label"`
	Pattern string `koanf:"pattern"`
	Message string `koanf:"message"`
}

type rawMigrationRule struct {
	Pattern        string `koanf:"pattern"`
	Message        string `koanf:"message"`
	Recommendation string `koanf:"recommendation"`
}

type rawRules struct {
	Scan struct {
		Excludes   []string `koanf:"excludes"`
		Patterns   []string `koanf:"patterns"`
		Extensions []string `koanf:"extensions"`
	} `koanf:"scan"`
	Aliases    map[string]string `koanf:"aliases"`
	Thresholds struct {
		LargeFileLines int `koanf:"large_file_lines"`
		CouplingLimit  int `koanf:"coupling_limit"`
	} `koanf:"thresholds"`
	Rules struct {
		Category  []rawCategoryRule  `koanf:"category"`
		Env       []rawEnvPattern    `koanf:"env"`
		Migration []rawMigrationRule `koanf:"migration"`
	} `koanf:"rules"`
}

// LoadRules loads the rule tables from the config file and merges them
// into the defaults: scalars overwrite, string slices replace
// wholesale, rule lists append so custom rules compete with builtins by
// priority. Every pattern compiles here; a malformed rule is a fatal
// configuration error raised before any scan starts.
func LoadRules(configFile string) (*Rules, error) {
	rules := DefaultRules()

	if configFile == "" {
		configFile = DefaultFile
	}
	if _, err := os.Stat(configFile); err != nil {
		return rules, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load rules from %s: %w", configFile, err)
	}
	var raw rawRules
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules from %s: %w", configFile, err)
	}

	if raw.Scan.Excludes != nil {
		rules.Excludes = raw.Scan.Excludes
	}
	if raw.Scan.Patterns != nil {
		rules.Patterns = raw.Scan.Patterns
	}
	if raw.Scan.Extensions != nil {
		rules.Extensions = raw.Scan.Extensions
	}
	for prefix, target := range raw.Aliases {
		rules.Aliases[prefix] = target
	}
	if raw.Thresholds.LargeFileLines > 0 {
		rules.LargeFileLines = raw.Thresholds.LargeFileLines
	}
	if raw.Thresholds.CouplingLimit > 0 {
		rules.CouplingLimit = raw.Thresholds.CouplingLimit
	}

	for _, rc := range raw.Rules.Category {
		rule, err := category.CompileRule(rc.Pattern, rc.Category, rc.Priority, rc.Regex, rc.Description)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configFile, err)
		}
		rules.CategoryRules = append(rules.CategoryRules, rule)
	}
	for _, re := range raw.Rules.Env {
		compiled, err := compilePattern(re.Pattern, "env pattern", re.Label)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configFile, err)
		}
		rules.EnvPatterns = append(rules.EnvPatterns, metadata.EnvPattern{
			Label:   re.Label,
			Pattern: compiled,
			Message: re.Message,
		})
	}
	for _, rm := range raw.Rules.Migration {
		compiled, err := compilePattern(rm.Pattern, "migration rule", rm.Message)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configFile, err)
		}
		rules.MigrationRules = append(rules.MigrationRules, metadata.MigrationRule{
			Pattern:        compiled,
			Message:        rm.Message,
			Recommendation: rm.Recommendation,
		})
	}
	return rules, nil
}

func compilePattern(pattern, kind, label string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%s %q has empty pattern", kind, label)
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, pattern, err)
	}
	return compiled, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
