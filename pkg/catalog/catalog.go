// Package catalog aggregates per-file metadata, dependencies, and the
// graph into the final feature catalog with its migration guide.
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/skoglund/feature-scan/pkg/model"
)

// Build assembles a catalog from one analysis run. features arrive in
// scan order and keep that order inside their buckets.
func Build(project string, files []model.FileRecord, features []model.FeatureMetadata, deps map[string]*model.Dependencies, g *model.DependencyGraph) *model.FeatureCatalog {
	cat := &model.FeatureCatalog{
		Metadata: model.CatalogMetadata{
			Project:       project,
			GeneratedAt:   time.Now().UTC(),
			TotalFiles:    len(files),
			TotalFeatures: len(features),
		},
		Graph: g,
	}

	routesByComponent := indexRoutes(deps)
	for i := range features {
		enrich(&features[i], g, routesByComponent)
	}

	cat.Features = bucketize(features)
	cat.Summary = summarize(features, deps)
	cat.Migration = buildGuide(features, g)
	return cat
}

// enrich fills the component-only fields that need the whole run:
// reverse imports from the graph and consumer routes from route refs.
func enrich(f *model.FeatureMetadata, g *model.DependencyGraph, routesByComponent map[string][]string) {
	if f.Category != model.CategoryComponent && f.Category != model.CategoryPage {
		return
	}
	if g != nil {
		if node, ok := g.Nodes[f.FilePath]; ok && len(node.Dependents) > 0 {
			f.UsedBy = append([]string{}, node.Dependents...)
		}
	}
	condensed := strings.ReplaceAll(f.Name, " ", "")
	if routes, ok := routesByComponent[condensed]; ok {
		f.Routes = routes
	}
}

func indexRoutes(deps map[string]*model.Dependencies) map[string][]string {
	byComponent := make(map[string][]string)
	paths := make([]string, 0, len(deps))
	for p := range deps {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		for _, r := range deps[p].Routes {
			if r.Component != "" {
				byComponent[r.Component] = append(byComponent[r.Component], r.Path)
			}
		}
	}
	return byComponent
}

// bucketize groups features into the seven fixed buckets. The three
// categories without a bucket of their own fold into neighbors:
// server code joins services, contexts and config join modules.
func bucketize(features []model.FeatureMetadata) model.FeatureBuckets {
	b := model.FeatureBuckets{
		Pages:      []model.FeatureMetadata{},
		Components: []model.FeatureMetadata{},
		Services:   []model.FeatureMetadata{},
		Hooks:      []model.FeatureMetadata{},
		Utilities:  []model.FeatureMetadata{},
		Types:      []model.FeatureMetadata{},
		Modules:    []model.FeatureMetadata{},
	}
	for _, f := range features {
		switch f.Category {
		case model.CategoryPage:
			b.Pages = append(b.Pages, f)
		case model.CategoryComponent:
			b.Components = append(b.Components, f)
		case model.CategoryService, model.CategoryServer:
			b.Services = append(b.Services, f)
		case model.CategoryHook:
			b.Hooks = append(b.Hooks, f)
		case model.CategoryUtility:
			b.Utilities = append(b.Utilities, f)
		case model.CategoryType:
			b.Types = append(b.Types, f)
		default: // context, config, module, and anything unknown
			b.Modules = append(b.Modules, f)
		}
	}
	return b
}

func summarize(features []model.FeatureMetadata, deps map[string]*model.Dependencies) model.CatalogSummary {
	counts := make(map[string]int)
	pkgSet := make(map[string]bool)
	for _, f := range features {
		counts[f.Category]++
	}
	for _, d := range deps {
		for _, e := range d.External {
			pkgSet[e.Package] = true
		}
	}

	pkgs := make([]string, 0, len(pkgSet))
	for p := range pkgSet {
		pkgs = append(pkgs, p)
	}
	sort.Strings(pkgs)

	return model.CatalogSummary{
		CategoryCounts:   counts,
		ExternalPackages: pkgs,
		KeyTechnologies:  detectTechnologies(pkgs),
	}
}

// guide thresholds; challenges escalate to "error" at double the limit.
const (
	challengeLOCLimit      = 300
	challengeCouplingLimit = 10
)

func buildGuide(features []model.FeatureMetadata, g *model.DependencyGraph) model.MigrationGuide {
	guide := model.MigrationGuide{
		Overview:        overviewText(len(features)),
		Recommendations: recommendations(features, g),
		Challenges:      challenges(features, g),
		SuggestedOrder:  suggestedOrder(features, g),
	}
	return guide
}
