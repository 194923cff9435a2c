// Package diff structurally compares two feature catalogs produced by
// separate analysis runs.
package diff

import (
	"sort"

	"github.com/skoglund/feature-scan/pkg/model"
)

// FeatureChange records one modified feature and which fields moved.
type FeatureChange struct {
	FilePath string   `json:"filePath"`
	Fields   []string `json:"fields"`
}

// CategoryDiff is the per-bucket comparison result.
type CategoryDiff struct {
	Added    []string        `json:"added"`   // file paths only in B
	Removed  []string        `json:"removed"` // file paths only in A
	Modified []FeatureChange `json:"modified"`
}

// Summary totals are derived from the category diffs, never tracked
// independently.
type Summary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

// Result is the full structural comparison of two catalogs.
type Result struct {
	Categories map[string]CategoryDiff `json:"categories"`
	Summary    Summary                 `json:"summary"`
}

// bucketNames fixes iteration order over the seven buckets.
var bucketNames = []string{"pages", "components", "services", "hooks", "utilities", "types", "modules"}

func buckets(c *model.FeatureCatalog) map[string][]model.FeatureMetadata {
	return map[string][]model.FeatureMetadata{
		"pages":      c.Features.Pages,
		"components": c.Features.Components,
		"services":   c.Features.Services,
		"hooks":      c.Features.Hooks,
		"utilities":  c.Features.Utilities,
		"types":      c.Features.Types,
		"modules":    c.Features.Modules,
	}
}

// Compare matches features by file path within each fixed bucket.
// Present only in a is removed, only in b is added; present in both is
// compared field by field and reported modified when anything differs.
func Compare(a, b *model.FeatureCatalog) *Result {
	result := &Result{Categories: make(map[string]CategoryDiff, len(bucketNames))}
	ba, bb := buckets(a), buckets(b)

	for _, name := range bucketNames {
		cd := compareBucket(ba[name], bb[name])
		result.Categories[name] = cd
		result.Summary.Added += len(cd.Added)
		result.Summary.Removed += len(cd.Removed)
		result.Summary.Modified += len(cd.Modified)
	}
	return result
}

func compareBucket(a, b []model.FeatureMetadata) CategoryDiff {
	cd := CategoryDiff{Added: []string{}, Removed: []string{}, Modified: []FeatureChange{}}

	oldByPath := make(map[string]model.FeatureMetadata, len(a))
	for _, f := range a {
		oldByPath[f.FilePath] = f
	}
	newByPath := make(map[string]model.FeatureMetadata, len(b))
	for _, f := range b {
		newByPath[f.FilePath] = f
	}

	for path, newF := range newByPath {
		oldF, exists := oldByPath[path]
		if !exists {
			cd.Added = append(cd.Added, path)
			continue
		}
		if fields := changedFields(oldF, newF); len(fields) > 0 {
			cd.Modified = append(cd.Modified, FeatureChange{FilePath: path, Fields: fields})
		}
	}
	for path := range oldByPath {
		if _, exists := newByPath[path]; !exists {
			cd.Removed = append(cd.Removed, path)
		}
	}

	sort.Strings(cd.Added)
	sort.Strings(cd.Removed)
	sort.Slice(cd.Modified, func(i, j int) bool { return cd.Modified[i].FilePath < cd.Modified[j].FilePath })
	return cd
}

// changedFields compares the fields that matter for migration
// planning: description, export count, combined dependency count, and
// effective lines of code.
func changedFields(a, b model.FeatureMetadata) []string {
	var fields []string
	if a.Description != b.Description {
		fields = append(fields, "description")
	}
	if len(a.Exports) != len(b.Exports) {
		fields = append(fields, "exports")
	}
	if a.Complexity.DependencyCount != b.Complexity.DependencyCount {
		fields = append(fields, "dependencies")
	}
	if a.Complexity.LinesOfCode != b.Complexity.LinesOfCode {
		fields = append(fields, "linesOfCode")
	}
	return fields
}
