// Package scanner walks a source tree read-only and produces the file
// records the rest of the pipeline operates on.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/skoglund/feature-scan/pkg/category"
	"github.com/skoglund/feature-scan/pkg/logging"
	"github.com/skoglund/feature-scan/pkg/model"
)

// SafetyValidator approves each path before it is read. Implementations
// must be side-effect free; a rejection is recorded as a warning and
// the file is skipped, never a fatal error.
type SafetyValidator interface {
	Validate(path string) error
}

// Warning kinds.
const (
	WarnScan   = "scan"   // traversal or stat failure
	WarnSafety = "safety" // rejected by the safety validator
)

// Warning records one recoverable scan problem.
type Warning struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// defaultExcludes are directory names pruned wherever they appear.
var defaultExcludes = []string{
	"node_modules", ".git", "dist", "build", "coverage", ".next", ".cache", "out",
}

// defaultExtensions is the source-file allow-set.
var defaultExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// DefaultExcludes returns a copy of the builtin directory exclude set.
func DefaultExcludes() []string {
	return append([]string(nil), defaultExcludes...)
}

// DefaultExtensions returns a copy of the builtin extension allow-set.
func DefaultExtensions() []string {
	return append([]string(nil), defaultExtensions...)
}

// Options tunes the walk. Zero values mean the defaults above.
type Options struct {
	Excludes   []string // directory names to prune (replaces defaults when set)
	Patterns   []string // gitignore-style exclude patterns, matched on relative paths
	Extensions []string // extension allow-set (replaces defaults when set)
	Validator  SafetyValidator
}

// Scanner walks one root. Safe for reuse across runs.
type Scanner struct {
	root       string
	engine     *category.Engine
	validator  SafetyValidator
	excluded   map[string]bool
	matcher    *ignore.GitIgnore
	extensions map[string]bool
}

// New builds a scanner for root. root is made absolute so records can
// carry both forms of the path.
func New(root string, engine *category.Engine, opts Options) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root %q: %w", root, err)
	}

	excludes := opts.Excludes
	if excludes == nil {
		excludes = defaultExcludes
	}
	excluded := make(map[string]bool, len(excludes))
	for _, name := range excludes {
		excluded[name] = true
	}

	extensions := opts.Extensions
	if extensions == nil {
		extensions = defaultExtensions
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[strings.ToLower(ext)] = true
	}

	validator := opts.Validator
	if validator == nil {
		validator = &rootValidator{root: abs}
	}

	s := &Scanner{
		root:       abs,
		engine:     engine,
		validator:  validator,
		excluded:   excluded,
		extensions: allowed,
	}
	if len(opts.Patterns) > 0 {
		s.matcher = ignore.CompileIgnoreLines(opts.Patterns...)
	}
	return s, nil
}

// Scan walks the root and returns records sorted by relative path.
// Per-entry failures and safety rejections come back as warnings; only
// a walk failure on the root itself is an error.
func (s *Scanner) Scan() ([]model.FileRecord, []Warning, error) {
	var records []model.FileRecord
	var warnings []Warning

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			warnings = append(warnings, Warning{Kind: WarnScan, Path: path, Message: err.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			warnings = append(warnings, Warning{Kind: WarnScan, Path: path, Message: relErr.Error()})
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if s.excluded[d.Name()] || s.ignored(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if !s.extensions[ext] || s.ignored(rel) {
			return nil
		}

		if err := s.validator.Validate(path); err != nil {
			logging.Warn("file rejected by safety validator", "path", rel, "error", err)
			warnings = append(warnings, Warning{Kind: WarnSafety, Path: rel, Message: fmt.Sprintf("rejected: %v", err)})
			return nil
		}

		info, err := d.Info()
		if err != nil {
			warnings = append(warnings, Warning{Kind: WarnScan, Path: rel, Message: err.Error()})
			return nil
		}

		relDir := filepath.ToSlash(filepath.Dir(rel))
		if relDir == "." {
			relDir = ""
		}
		records = append(records, model.FileRecord{
			Path:      path,
			RelPath:   rel,
			Name:      d.Name(),
			Extension: ext,
			Size:      info.Size(),
			Category:  s.engine.Categorize(relDir, d.Name()),
		})
		return nil
	})
	if err != nil {
		return nil, warnings, fmt.Errorf("scanning %s: %w", s.root, err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].RelPath < records[j].RelPath })
	return records, warnings, nil
}

func (s *Scanner) ignored(rel string) bool {
	return s.matcher != nil && s.matcher.MatchesPath(rel)
}

// rootValidator rejects anything that resolves outside the scan root.
type rootValidator struct {
	root string
}

func (v *rootValidator) Validate(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(v.root, abs)
	if err != nil {
		return err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %s escapes scan root", path)
	}
	return nil
}
