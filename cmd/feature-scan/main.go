package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/skoglund/feature-scan/pkg/analysis"
	"github.com/skoglund/feature-scan/pkg/config"
	"github.com/skoglund/feature-scan/pkg/diff"
	"github.com/skoglund/feature-scan/pkg/jobs"
	"github.com/skoglund/feature-scan/pkg/logging"
	"github.com/skoglund/feature-scan/pkg/model"
	"github.com/skoglund/feature-scan/pkg/output"
	"github.com/skoglund/feature-scan/pkg/pubsub"
	"github.com/skoglund/feature-scan/pkg/watcher"
	"github.com/skoglund/feature-scan/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("feature-scan", pflag.ExitOnError)
	flags.String("root", ".", "Path to the source tree to analyze")
	flags.String("project", "", "Project name in the catalog (defaults to the root directory name)")
	flags.String("output", "", "Write the catalog as JSON to this path")
	flags.Bool("web", false, "Start the HTTP API instead of printing to console")
	flags.Int("port", 8080, "Port for the HTTP API (only used with --web)")
	flags.Bool("watch", false, "Re-run analysis when watched files change")
	flags.String("diff", "", "Compare the new catalog against a previous catalog JSON")
	flags.String("verbosity", "", "Log level: debug, info, warn, error")
	flags.Bool("json-logs", false, "Emit JSON logs instead of the console format")
	configFile := flags.String("config", "", "Config file path (default feature-scan.toml)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		logging.Fatal("failed to parse flags", "error", err)
	}

	cfg, err := config.Load(flags, *configFile)
	if err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}
	setupLogging(cfg)

	// Rule problems are fatal before any scanning begins.
	rules, err := config.LoadRules(*configFile)
	if err != nil {
		logging.Fatal("invalid rule configuration", "error", err)
	}

	switch {
	case cfg.WebMode:
		runWeb(cfg, rules)
	default:
		runOnce(cfg, rules)
	}
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Verbosity {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.JSONLogs {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}
}

func runOnce(cfg *config.Config, rules *config.Rules) {
	runner := analysis.NewRunner(cfg.Root, cfg.Project, nil)
	result, err := runner.Run(context.Background(), analysis.Options{
		Rules:  rules,
		Reason: "initial analysis",
	})
	if err != nil {
		logging.Fatal("analysis failed", "error", err)
	}

	output.PrintReport(result)

	if cfg.Output != "" {
		if err := writeCatalog(cfg.Output, result.Catalog); err != nil {
			logging.Fatal("failed to write catalog", "path", cfg.Output, "error", err)
		}
		logging.Info("catalog written", "path", cfg.Output)
	}

	if cfg.DiffWith != "" {
		previous, err := readCatalog(cfg.DiffWith)
		if err != nil {
			logging.Fatal("failed to read previous catalog", "path", cfg.DiffWith, "error", err)
		}
		printDiff(diff.Compare(previous, result.Catalog))
	}

	if cfg.Watch {
		watchAndRerun(cfg, rules, runner)
	}
}

func runWeb(cfg *config.Config, rules *config.Rules) {
	publisher := pubsub.NewSSEPublisher()
	runner := analysis.NewRunner(cfg.Root, cfg.Project, publisher)
	registry := jobs.NewRegistry()
	server := web.NewServer(runner, registry, publisher, rules)

	// First analysis runs in the background; clients follow progress
	// over SSE or by polling the submitted job.
	job := registry.Submit("initial analysis")
	go func() {
		registry.MarkRunning(job.ID)
		result, err := runner.Run(context.Background(), analysis.Options{
			Rules:  rules,
			Reason: "initial analysis",
		})
		if err != nil {
			logging.Error("initial analysis failed", "error", err)
			registry.MarkFailed(job.ID, err)
			return
		}
		registry.MarkCompleted(job.ID, result)
	}()

	if cfg.Watch {
		go watchAndRerun(cfg, rules, runner)
	}

	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("web server failed", "error", err)
	}
}

func watchAndRerun(cfg *config.Config, rules *config.Rules, runner *analysis.Runner) {
	fw, err := watcher.NewFileWatcher(cfg.Root, rules.Excludes, rules.Extensions)
	if err != nil {
		logging.Fatal("failed to create watcher", "error", err)
	}

	ctx := context.Background()
	if err := fw.Start(ctx); err != nil {
		logging.Fatal("failed to start watcher", "error", err)
	}

	debouncer := watcher.NewDebouncer(fw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	for event := range debouncer.Output() {
		change := watcher.AnalyzeChanges(event)
		logging.Info("change detected", "reason", change.Reason, "files", len(change.ChangedFiles))

		if change.NeedRuleReload {
			reloaded, err := config.LoadRules(config.DefaultFile)
			if err != nil {
				logging.Error("rule reload failed, keeping previous rules", "error", err)
			} else {
				rules = reloaded
			}
		}

		if _, err := runner.Run(ctx, analysis.Options{Rules: rules, Reason: change.Reason}); err != nil {
			logging.Error("re-analysis failed", "error", err)
		}
	}
}

func writeCatalog(path string, cat *model.FeatureCatalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func readCatalog(path string) (*model.FeatureCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat model.FeatureCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}
	return &cat, nil
}

func printDiff(result *diff.Result) {
	fmt.Printf("\nCatalog diff: %d added, %d removed, %d modified\n",
		result.Summary.Added, result.Summary.Removed, result.Summary.Modified)
	for _, bucket := range []string{"pages", "components", "services", "hooks", "utilities", "types", "modules"} {
		cd := result.Categories[bucket]
		if len(cd.Added)+len(cd.Removed)+len(cd.Modified) == 0 {
			continue
		}
		fmt.Printf("  %s:\n", bucket)
		for _, p := range cd.Added {
			fmt.Printf("    + %s\n", p)
		}
		for _, p := range cd.Removed {
			fmt.Printf("    - %s\n", p)
		}
		for _, m := range cd.Modified {
			fmt.Printf("    ~ %s (%v)\n", m.FilePath, m.Fields)
		}
	}
}
