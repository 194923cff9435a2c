// Package metadata synthesizes per-file feature metadata: display
// name, description, exports, complexity, and migration notes.
package metadata

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/skoglund/feature-scan/pkg/model"
)

// EnvPattern flags environment-specific constructs. Pattern is applied
// to the raw file text.
type EnvPattern struct {
	Label   string
	Pattern *regexp.Regexp
	Message string
}

// MigrationRule is a caller-supplied note generator.
type MigrationRule struct {
	Pattern        *regexp.Regexp
	Message        string
	Recommendation string
}

// Options configures extraction. Zero value gets defaults applied.
type Options struct {
	EnvPatterns    []EnvPattern
	CustomRules    []MigrationRule
	LargeFileLines int // LOC above this adds an oversized-file note
	CouplingLimit  int // internal deps above this adds a coupling note
}

const (
	defaultLargeFileLines = 300
	defaultCouplingLimit  = 10
)

func (o Options) withDefaults() Options {
	if o.LargeFileLines == 0 {
		o.LargeFileLines = defaultLargeFileLines
	}
	if o.CouplingLimit == 0 {
		o.CouplingLimit = defaultCouplingLimit
	}
	return o
}

// Extract builds feature metadata for one file. deps may be nil when
// extraction failed upstream; the feature then reports zero
// dependencies rather than being dropped.
func Extract(text, filePath, categoryLabel string, deps *model.Dependencies, opts Options) model.FeatureMetadata {
	opts = opts.withDefaults()
	if deps == nil {
		deps = model.NewDependencies(filePath)
	}

	loc := countEffectiveLines(text)
	externals := make([]string, 0, len(deps.External))
	for _, e := range deps.External {
		externals = append(externals, e.Package)
	}

	meta := model.FeatureMetadata{
		Name:        displayName(filePath),
		FilePath:    filePath,
		Category:    categoryLabel,
		Description: description(text, filePath, categoryLabel),
		Exports:     extractExports(text),
		Internal:    len(deps.Internal),
		External:    externals,
		Complexity: model.Complexity{
			LinesOfCode:     loc,
			DependencyCount: len(deps.Internal) + len(deps.External),
		},
	}
	meta.MigrationNotes = migrationNotes(text, deps, meta.Complexity, opts)

	if categoryLabel == model.CategoryComponent || categoryLabel == model.CategoryPage {
		meta.Props = extractProps(text)
	}
	return meta
}

// displayName derives a readable name from the filename: segments
// split on separators, each capitalized.
func displayName(filePath string) string {
	base := path.Base(filePath)
	base = strings.TrimSuffix(base, path.Ext(base))
	// index files take their directory's name
	if base == "index" {
		if dir := path.Base(path.Dir(filePath)); dir != "." && dir != "/" {
			base = dir
		}
	}

	segments := regexp.MustCompile(`[-_.\s]+`).Split(base, -1)
	for i, s := range segments {
		if s == "" {
			continue
		}
		segments[i] = strings.ToUpper(s[:1]) + s[1:]
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

var (
	docCommentRe  = regexp.MustCompile(`(?s)^\s*/\*\*?\s*(.*?)\*/`)
	lineCommentRe = regexp.MustCompile(`^\s*//\s*(.+)`)
)

// description prefers a leading doc comment, then a leading line
// comment, then a generated category sentence.
func description(text, filePath, categoryLabel string) string {
	if m := docCommentRe.FindStringSubmatch(text); m != nil {
		if d := cleanDocComment(m[1]); d != "" {
			return d
		}
	}
	if m := lineCommentRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return generatedDescription(filePath, categoryLabel)
}

func cleanDocComment(body string) string {
	lines := strings.Split(body, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "*"))
		if l == "" || strings.HasPrefix(l, "@") {
			break
		}
		cleaned = append(cleaned, l)
	}
	return strings.Join(cleaned, " ")
}

func generatedDescription(filePath, categoryLabel string) string {
	name := path.Base(filePath)
	switch categoryLabel {
	case model.CategoryPage:
		return fmt.Sprintf("Page component defined in %s.", name)
	case model.CategoryComponent:
		return fmt.Sprintf("UI component defined in %s.", name)
	case model.CategoryHook:
		return fmt.Sprintf("Custom hook defined in %s.", name)
	case model.CategoryContext:
		return fmt.Sprintf("Context provider defined in %s.", name)
	case model.CategoryService:
		return fmt.Sprintf("Service layer defined in %s.", name)
	case model.CategoryServer:
		return fmt.Sprintf("Server-side module defined in %s.", name)
	case model.CategoryUtility:
		return fmt.Sprintf("Utility functions defined in %s.", name)
	case model.CategoryType:
		return fmt.Sprintf("Type declarations defined in %s.", name)
	case model.CategoryConfig:
		return fmt.Sprintf("Configuration defined in %s.", name)
	default:
		return fmt.Sprintf("Module defined in %s.", name)
	}
}

var exportRes = []*regexp.Regexp{
	regexp.MustCompile(`export\s+(?:default\s+)?(?:async\s+)?function\s+(\w+)`),
	regexp.MustCompile(`export\s+(?:default\s+)?class\s+(\w+)`),
	regexp.MustCompile(`export\s+(?:const|let|var)\s+(\w+)`),
	regexp.MustCompile(`export\s+(?:type|interface|enum)\s+(\w+)`),
	regexp.MustCompile(`export\s+default\s+(\w+)\s*;`),
}

var exportListRe = regexp.MustCompile(`export\s*\{([^}]*)\}`)

// extractExports lists exported identifiers in declaration order;
// export lists are appended after declarations.
func extractExports(text string) []string {
	exports := make([]string, 0)
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || name == "default" || seen[name] {
			return
		}
		seen[name] = true
		exports = append(exports, name)
	}

	for _, re := range exportRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(m[1])
		}
	}
	for _, m := range exportListRe.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(m[1], ",") {
			part = strings.TrimSpace(part)
			if idx := strings.Index(part, " as "); idx >= 0 {
				part = strings.TrimSpace(part[idx+4:])
			}
			add(part)
		}
	}
	return exports
}

// countEffectiveLines counts non-blank lines that do not open a comment.
func countEffectiveLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		count++
	}
	return count
}

// propsInterfaceRe matches "interface XxxProps { ... }" bodies.
var propsInterfaceRe = regexp.MustCompile(`(?s)interface\s+\w*Props\s*(?:extends[^{]*)?\{([^}]*)\}`)

// destructuredParamRe matches "function X({ a, b })" style props.
var destructuredParamRe = regexp.MustCompile(`(?:function\s+[A-Z]\w*|(?:const|let)\s+[A-Z]\w*\s*=)\s*\(?\s*\{([^}]*)\}`)

// extractProps lists declared prop names for component files.
func extractProps(text string) []string {
	props := make([]string, 0)
	seen := make(map[string]bool)
	add := func(name string) {
		name = strings.TrimSpace(name)
		name = strings.TrimSuffix(name, "?")
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		props = append(props, name)
	}

	if m := propsInterfaceRe.FindStringSubmatch(text); m != nil {
		for _, line := range strings.Split(m[1], "\n") {
			line = strings.TrimSpace(strings.TrimSuffix(line, ";"))
			if line == "" || strings.HasPrefix(line, "//") {
				continue
			}
			if idx := strings.IndexAny(line, ":?"); idx > 0 {
				add(line[:idx])
			}
		}
	}
	if m := destructuredParamRe.FindStringSubmatch(text); m != nil {
		for _, part := range strings.Split(m[1], ",") {
			if idx := strings.IndexAny(part, ":="); idx >= 0 {
				part = part[:idx]
			}
			add(strings.TrimPrefix(strings.TrimSpace(part), "..."))
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}
