package diff

import (
	"testing"

	"github.com/skoglund/feature-scan/pkg/model"
)

func catalogOf(components, services []model.FeatureMetadata) *model.FeatureCatalog {
	return &model.FeatureCatalog{
		Features: model.FeatureBuckets{
			Pages:      []model.FeatureMetadata{},
			Components: components,
			Services:   services,
			Hooks:      []model.FeatureMetadata{},
			Utilities:  []model.FeatureMetadata{},
			Types:      []model.FeatureMetadata{},
			Modules:    []model.FeatureMetadata{},
		},
	}
}

func TestCompareIdentical(t *testing.T) {
	a := catalogOf(
		[]model.FeatureMetadata{{FilePath: "Button.tsx", Description: "A button.", Exports: []string{"Button"}}},
		[]model.FeatureMetadata{{FilePath: "api.ts"}},
	)

	result := Compare(a, a)

	if result.Summary.Added != 0 || result.Summary.Removed != 0 || result.Summary.Modified != 0 {
		t.Errorf("Identical catalogs should diff clean, got %+v", result.Summary)
	}
	for name, cd := range result.Categories {
		if len(cd.Added)+len(cd.Removed)+len(cd.Modified) != 0 {
			t.Errorf("Bucket %s should be empty: %+v", name, cd)
		}
	}
}

func TestCompareAddedRemovedSymmetry(t *testing.T) {
	a := catalogOf([]model.FeatureMetadata{{FilePath: "Button.tsx"}}, nil)
	b := catalogOf([]model.FeatureMetadata{{FilePath: "Button.tsx"}, {FilePath: "Modal.tsx"}}, nil)

	forward := Compare(a, b)
	backward := Compare(b, a)

	if len(forward.Categories["components"].Added) != 1 || forward.Categories["components"].Added[0] != "Modal.tsx" {
		t.Errorf("Expected Modal.tsx added, got %v", forward.Categories["components"].Added)
	}
	if len(backward.Categories["components"].Removed) != 1 || backward.Categories["components"].Removed[0] != "Modal.tsx" {
		t.Errorf("Expected Modal.tsx removed in reverse, got %v", backward.Categories["components"].Removed)
	}
	if forward.Summary.Added != backward.Summary.Removed {
		t.Errorf("Added/removed asymmetry: %d vs %d", forward.Summary.Added, backward.Summary.Removed)
	}
}

func TestCompareModifiedFields(t *testing.T) {
	a := catalogOf([]model.FeatureMetadata{{
		FilePath:    "Button.tsx",
		Description: "A button.",
		Exports:     []string{"Button"},
		Complexity:  model.Complexity{LinesOfCode: 40, DependencyCount: 2},
	}}, nil)
	b := catalogOf([]model.FeatureMetadata{{
		FilePath:    "Button.tsx",
		Description: "A styled button.",
		Exports:     []string{"Button", "IconButton"},
		Complexity:  model.Complexity{LinesOfCode: 60, DependencyCount: 2},
	}}, nil)

	result := Compare(a, b)

	mods := result.Categories["components"].Modified
	if len(mods) != 1 {
		t.Fatalf("Expected 1 modified feature, got %+v", mods)
	}
	want := []string{"description", "exports", "linesOfCode"}
	if len(mods[0].Fields) != len(want) {
		t.Fatalf("Expected fields %v, got %v", want, mods[0].Fields)
	}
	for i, f := range want {
		if mods[0].Fields[i] != f {
			t.Errorf("Field %d: expected %s, got %s", i, f, mods[0].Fields[i])
		}
	}
	if result.Summary.Modified != 1 {
		t.Errorf("Summary modified %d, want 1", result.Summary.Modified)
	}
}

func TestCompareSamePathDifferentBuckets(t *testing.T) {
	// A feature that moved buckets counts as removed from one and
	// added to the other; matching never crosses buckets.
	a := catalogOf([]model.FeatureMetadata{{FilePath: "api.tsx"}}, nil)
	b := catalogOf(nil, []model.FeatureMetadata{{FilePath: "api.tsx"}})

	result := Compare(a, b)

	if len(result.Categories["components"].Removed) != 1 {
		t.Errorf("Expected api.tsx removed from components: %+v", result.Categories["components"])
	}
	if len(result.Categories["services"].Added) != 1 {
		t.Errorf("Expected api.tsx added to services: %+v", result.Categories["services"])
	}
	if result.Summary.Added != 1 || result.Summary.Removed != 1 || result.Summary.Modified != 0 {
		t.Errorf("Summary wrong: %+v", result.Summary)
	}
}
