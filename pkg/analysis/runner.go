// Package analysis orchestrates the full pipeline: scan, per-file
// extraction, graph construction, catalog aggregation.
package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/skoglund/feature-scan/pkg/analyzer"
	"github.com/skoglund/feature-scan/pkg/catalog"
	"github.com/skoglund/feature-scan/pkg/category"
	"github.com/skoglund/feature-scan/pkg/config"
	"github.com/skoglund/feature-scan/pkg/graph"
	"github.com/skoglund/feature-scan/pkg/logging"
	"github.com/skoglund/feature-scan/pkg/metadata"
	"github.com/skoglund/feature-scan/pkg/model"
	"github.com/skoglund/feature-scan/pkg/patterns"
	"github.com/skoglund/feature-scan/pkg/pubsub"
	"github.com/skoglund/feature-scan/pkg/scanner"
)

// Options configures one run.
type Options struct {
	Rules  *config.Rules
	Reason string // e.g. "initial analysis", "files changed"
}

// PatternFindings collects the per-file detector output.
type PatternFindings struct {
	Hooks      []patterns.HookFinding      `json:"hooks,omitempty"`
	Components []patterns.ComponentFinding `json:"components,omitempty"`
	Contexts   []patterns.ContextFinding   `json:"contexts,omitempty"`
	HOCs       []patterns.HOCFinding       `json:"hocs,omitempty"`
}

// Result is everything one run produced. Immutable once returned; a
// re-run builds a fresh result.
type Result struct {
	Catalog  *model.FeatureCatalog          `json:"catalog"`
	Graph    *model.DependencyGraph         `json:"graph"`
	Files    []model.FileRecord             `json:"files"`
	Deps     map[string]*model.Dependencies `json:"dependencies"`
	Patterns map[string]PatternFindings     `json:"patterns"`
	Errors   []ErrorEntry                   `json:"errors"`
}

// StatusPublisher is the slice of the pub/sub surface the runner
// needs; *pubsub.SSEPublisher satisfies it.
type StatusPublisher interface {
	Publish(topic string, eventType string, data interface{}) error
}

// Runner executes analysis runs over one root. Runs are serialized;
// graph and catalog construction stay single-writer.
type Runner struct {
	root      string
	project   string
	publisher StatusPublisher // optional

	mu      sync.Mutex // serializes Run
	stateMu sync.RWMutex
	latest  *Result
}

// NewRunner creates a runner. publisher may be nil for CLI runs.
func NewRunner(root, project string, publisher StatusPublisher) *Runner {
	if project == "" {
		if abs, err := filepath.Abs(root); err == nil {
			project = filepath.Base(abs)
		} else {
			project = root
		}
	}
	return &Runner{root: root, project: project, publisher: publisher}
}

// Latest returns the most recent completed result, or nil before the
// first successful run.
func (r *Runner) Latest() *Result {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.latest
}

const totalSteps = 4

// Run executes the full pipeline. Recoverable problems accumulate on
// the result's error log; only a failed scan of the root itself is
// fatal.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logging.Info("starting analysis", "root", r.root, "reason", opts.Reason)

	rules := opts.Rules
	if rules == nil {
		rules = config.DefaultRules()
	}
	errLog := &ErrorLog{}

	// Phase 1: scan
	r.publishStatus("scanning", "Scanning source tree...", 1)
	engine := category.NewEngine(rules.CategoryRules...)
	sc, err := scanner.New(r.root, engine, scanner.Options{
		Excludes:   rules.Excludes,
		Patterns:   rules.Patterns,
		Extensions: rules.Extensions,
	})
	if err != nil {
		r.publishStatus("error", err.Error(), 1)
		return nil, err
	}
	files, warnings, err := sc.Scan()
	if err != nil {
		r.publishStatus("error", err.Error(), 1)
		return nil, err
	}
	for _, w := range warnings {
		kind := ErrScan
		if w.Kind == scanner.WarnSafety {
			kind = ErrSafety
		}
		errLog.Add(kind, w.Path, w.Message)
	}
	logging.Info("scan complete", "files", len(files), "warnings", len(warnings))

	// Phase 2: per-file extraction, in file order
	r.publishStatus("extracting", "Extracting dependencies and metadata...", 2)
	relPaths := make([]string, len(files))
	for i, f := range files {
		relPaths[i] = f.RelPath
	}
	resolver := analyzer.NewResolver(relPaths)
	for prefix, target := range rules.Aliases {
		resolver.AddAlias(prefix, target)
	}
	metaOpts := metadata.Options{
		EnvPatterns:    rules.EnvPatterns,
		CustomRules:    rules.MigrationRules,
		LargeFileLines: rules.LargeFileLines,
		CouplingLimit:  rules.CouplingLimit,
	}

	deps := make(map[string]*model.Dependencies, len(files))
	findings := make(map[string]PatternFindings, len(files))
	features := make([]model.FeatureMetadata, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			r.publishStatus("error", "analysis cancelled", 2)
			return nil, fmt.Errorf("analysis cancelled: %w", err)
		}

		raw, err := os.ReadFile(f.Path)
		if err != nil {
			logging.Warn("skipping unreadable file", "path", f.RelPath, "error", err)
			errLog.Add(ErrExtraction, f.RelPath, err.Error())
			continue
		}
		text := string(raw)

		deps[f.RelPath] = analyzer.Analyze(text, f.RelPath, resolver)
		findings[f.RelPath] = PatternFindings{
			Hooks:      patterns.DetectHooks(text),
			Components: patterns.DetectComponents(text),
			Contexts:   patterns.DetectContexts(text),
			HOCs:       patterns.DetectHOCs(text),
		}
		features = append(features, metadata.Extract(text, f.RelPath, f.Category, deps[f.RelPath], metaOpts))
	}

	// Phase 3: single-writer graph construction
	r.publishStatus("graphing", "Building dependency graph...", 3)
	g := graph.Build(files, deps)

	// Phase 4: catalog aggregation
	r.publishStatus("cataloging", "Building feature catalog...", 4)
	cat := catalog.Build(r.project, files, features, deps, g)

	result := &Result{
		Catalog:  cat,
		Graph:    g,
		Files:    files,
		Deps:     deps,
		Patterns: findings,
		Errors:   errLog.Entries(),
	}
	r.stateMu.Lock()
	r.latest = result
	r.stateMu.Unlock()

	r.publishStatus("ready", "Analysis complete", totalSteps)
	r.publishCatalog(result)
	logging.Info("analysis complete",
		"files", len(files), "features", len(features),
		"edges", len(g.Edges), "errors", errLog.Len(), "reason", opts.Reason)
	return result, nil
}

func (r *Runner) publishStatus(state, message string, step int) {
	if r.publisher == nil {
		return
	}
	status := pubsub.AnalysisStatus{State: state, Message: message, Step: step, Total: totalSteps}
	if err := r.publisher.Publish(pubsub.TopicAnalysisStatus, state, status); err != nil {
		logging.Warn("failed to publish analysis status", "state", state, "error", err)
	}
}

func (r *Runner) publishCatalog(result *Result) {
	if r.publisher == nil {
		return
	}
	data := pubsub.CatalogStatus{
		Files:    len(result.Files),
		Features: result.Catalog.Metadata.TotalFeatures,
		Edges:    len(result.Graph.Edges),
		Complete: true,
	}
	if err := r.publisher.Publish(pubsub.TopicCatalog, "complete", data); err != nil {
		logging.Warn("failed to publish catalog status", "error", err)
	}
}
