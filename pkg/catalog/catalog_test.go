package catalog

import (
	"strings"
	"testing"

	"github.com/skoglund/feature-scan/pkg/model"
)

func feature(path, category string, loc, internal int) model.FeatureMetadata {
	return model.FeatureMetadata{
		Name:       strings.TrimSuffix(path, ".tsx"),
		FilePath:   path,
		Category:   category,
		Internal:   internal,
		Complexity: model.Complexity{LinesOfCode: loc, DependencyCount: internal},
	}
}

func testGraph() *model.DependencyGraph {
	g := model.NewDependencyGraph()
	for _, id := range []string{"App.tsx", "Button.tsx", "util.ts"} {
		g.Nodes[id] = &model.GraphNode{ID: id, Dependencies: []string{}, Dependents: []string{}}
	}
	// App -> Button, App -> util, Button -> util
	g.Nodes["App.tsx"].Dependencies = []string{"Button.tsx", "util.ts"}
	g.Nodes["Button.tsx"].Dependencies = []string{"util.ts"}
	g.Nodes["Button.tsx"].Dependents = []string{"App.tsx"}
	g.Nodes["util.ts"].Dependents = []string{"App.tsx", "Button.tsx"}
	g.Edges = []model.GraphEdge{
		{Source: "App.tsx", Target: "Button.tsx", Kind: model.EdgeImport},
		{Source: "App.tsx", Target: "util.ts", Kind: model.EdgeImport},
		{Source: "Button.tsx", Target: "util.ts", Kind: model.EdgeImport},
	}
	return g
}

func TestBuildBuckets(t *testing.T) {
	features := []model.FeatureMetadata{
		feature("Home.tsx", model.CategoryPage, 10, 0),
		feature("Button.tsx", model.CategoryComponent, 10, 0),
		feature("api.ts", model.CategoryService, 10, 0),
		feature("index.ts", model.CategoryServer, 10, 0),
		feature("useAuth.ts", model.CategoryHook, 10, 0),
		feature("fmt.ts", model.CategoryUtility, 10, 0),
		feature("user.d.ts", model.CategoryType, 10, 0),
		feature("AuthContext.tsx", model.CategoryContext, 10, 0),
		feature("vite.config.ts", model.CategoryConfig, 10, 0),
		feature("main.ts", model.CategoryModule, 10, 0),
	}

	cat := Build("demo", make([]model.FileRecord, len(features)), features, nil, model.NewDependencyGraph())

	if len(cat.Features.Pages) != 1 || len(cat.Features.Components) != 1 ||
		len(cat.Features.Hooks) != 1 || len(cat.Features.Utilities) != 1 ||
		len(cat.Features.Types) != 1 {
		t.Errorf("Single-category buckets wrong: %+v", cat.Features)
	}
	// server folds into services; context and config fold into modules.
	if len(cat.Features.Services) != 2 {
		t.Errorf("Expected server to fold into services, got %d", len(cat.Features.Services))
	}
	if len(cat.Features.Modules) != 3 {
		t.Errorf("Expected context+config+module in modules, got %d", len(cat.Features.Modules))
	}
	if cat.Metadata.TotalFeatures != len(features) {
		t.Errorf("TotalFeatures %d != %d", cat.Metadata.TotalFeatures, len(features))
	}
}

func TestSummaryPackagesAndTechnologies(t *testing.T) {
	deps := map[string]*model.Dependencies{
		"a.tsx": {External: []model.ExternalDependency{{Package: "react"}, {Package: "axios"}}},
		"b.tsx": {External: []model.ExternalDependency{{Package: "react"}, {Package: "unknown-lib"}}},
	}
	cat := Build("demo", nil, nil, deps, model.NewDependencyGraph())

	wantPkgs := []string{"axios", "react", "unknown-lib"}
	if len(cat.Summary.ExternalPackages) != len(wantPkgs) {
		t.Fatalf("Expected %v, got %v", wantPkgs, cat.Summary.ExternalPackages)
	}
	for i, p := range wantPkgs {
		if cat.Summary.ExternalPackages[i] != p {
			t.Errorf("Package %d: expected %s, got %s", i, p, cat.Summary.ExternalPackages[i])
		}
	}

	wantTech := []string{"Axios", "React"}
	if len(cat.Summary.KeyTechnologies) != 2 || cat.Summary.KeyTechnologies[0] != wantTech[0] || cat.Summary.KeyTechnologies[1] != wantTech[1] {
		t.Errorf("Expected technologies %v, got %v", wantTech, cat.Summary.KeyTechnologies)
	}
}

func TestSuggestedOrderAscendingDependents(t *testing.T) {
	features := []model.FeatureMetadata{
		feature("util.ts", model.CategoryUtility, 10, 0),   // 2 dependents
		feature("App.tsx", model.CategoryPage, 10, 2),      // 0 dependents
		feature("Button.tsx", model.CategoryComponent, 10, 1), // 1 dependent
	}
	cat := Build("demo", nil, features, nil, testGraph())

	want := []string{"App.tsx", "Button.tsx", "util.ts"}
	for i, w := range want {
		if cat.Migration.SuggestedOrder[i] != w {
			t.Errorf("Order %d: expected %s, got %s (full order %v)", i, w, cat.Migration.SuggestedOrder[i], cat.Migration.SuggestedOrder)
		}
	}
}

func TestSuggestedOrderToleratesCycles(t *testing.T) {
	g := model.NewDependencyGraph()
	g.Nodes["a.tsx"] = &model.GraphNode{ID: "a.tsx", Dependencies: []string{"b.tsx"}, Dependents: []string{"b.tsx"}}
	g.Nodes["b.tsx"] = &model.GraphNode{ID: "b.tsx", Dependencies: []string{"a.tsx"}, Dependents: []string{"a.tsx"}}
	g.Edges = []model.GraphEdge{
		{Source: "a.tsx", Target: "b.tsx", Kind: model.EdgeImport},
		{Source: "b.tsx", Target: "a.tsx", Kind: model.EdgeImport},
	}
	features := []model.FeatureMetadata{
		feature("a.tsx", model.CategoryComponent, 10, 1),
		feature("b.tsx", model.CategoryComponent, 10, 1),
	}

	cat := Build("demo", nil, features, nil, g)

	// Equal counts keep scan order; the cycle surfaces as challenges.
	if cat.Migration.SuggestedOrder[0] != "a.tsx" || cat.Migration.SuggestedOrder[1] != "b.tsx" {
		t.Errorf("Cycle should keep stable order, got %v", cat.Migration.SuggestedOrder)
	}
	cycleChallenges := 0
	for _, c := range cat.Migration.Challenges {
		if strings.Contains(c.Reason, "circular") {
			cycleChallenges++
		}
	}
	if cycleChallenges != 2 {
		t.Errorf("Expected 2 circular-import challenges, got %d: %+v", cycleChallenges, cat.Migration.Challenges)
	}
}

func TestChallengesThresholds(t *testing.T) {
	features := []model.FeatureMetadata{
		feature("big.ts", model.CategoryUtility, 400, 0),
		feature("huge.ts", model.CategoryUtility, 700, 0),
		feature("coupled.ts", model.CategoryUtility, 10, 15),
		feature("fine.ts", model.CategoryUtility, 50, 2),
	}
	cat := Build("demo", nil, features, nil, model.NewDependencyGraph())

	byPath := make(map[string][]model.Challenge)
	for _, c := range cat.Migration.Challenges {
		byPath[c.FilePath] = append(byPath[c.FilePath], c)
	}
	if len(byPath["big.ts"]) != 1 || byPath["big.ts"][0].Severity != "warning" {
		t.Errorf("big.ts challenge wrong: %+v", byPath["big.ts"])
	}
	if len(byPath["huge.ts"]) != 1 || byPath["huge.ts"][0].Severity != "error" {
		t.Errorf("huge.ts challenge wrong: %+v", byPath["huge.ts"])
	}
	if len(byPath["coupled.ts"]) != 1 {
		t.Errorf("coupled.ts challenge missing: %+v", byPath["coupled.ts"])
	}
	if len(byPath["fine.ts"]) != 0 {
		t.Errorf("fine.ts should have no challenges: %+v", byPath["fine.ts"])
	}
}

func TestComponentEnrichment(t *testing.T) {
	features := []model.FeatureMetadata{
		{Name: "Button", FilePath: "Button.tsx", Category: model.CategoryComponent},
	}
	deps := map[string]*model.Dependencies{
		"routes.tsx": {Routes: []model.RouteReference{{Path: "/button-demo", Component: "Button"}}},
	}
	cat := Build("demo", nil, features, deps, testGraph())

	got := cat.Features.Components[0]
	if len(got.UsedBy) != 1 || got.UsedBy[0] != "App.tsx" {
		t.Errorf("UsedBy wrong: %v", got.UsedBy)
	}
	if len(got.Routes) != 1 || got.Routes[0] != "/button-demo" {
		t.Errorf("Routes wrong: %v", got.Routes)
	}
}
