package catalog

import (
	"fmt"
	"sort"

	"github.com/skoglund/feature-scan/pkg/cycles"
	"github.com/skoglund/feature-scan/pkg/model"
)

func overviewText(featureCount int) string {
	return fmt.Sprintf(
		"This guide covers %d features. Work through the suggested order below: "+
			"files with the fewest dependents move first, so each step leaves the "+
			"remaining tree importable.", featureCount)
}

// recommendations derives advisory text from aggregate statistics.
func recommendations(features []model.FeatureMetadata, g *model.DependencyGraph) []string {
	recs := []string{
		"Migrate leaf utilities and type declarations first; they unblock everything that imports them.",
	}

	var totalDeps, oversized, coupled int
	for _, f := range features {
		totalDeps += f.Complexity.DependencyCount
		if f.Complexity.LinesOfCode > challengeLOCLimit {
			oversized++
		}
		if f.Internal > challengeCouplingLimit {
			coupled++
		}
	}

	if len(features) > 0 && totalDeps/len(features) > 5 {
		recs = append(recs, fmt.Sprintf(
			"Average of %d dependencies per feature is high; consider a strangler-fig rollout instead of a big-bang rewrite.",
			totalDeps/len(features)))
	}
	if oversized > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d file(s) exceed %d effective lines; split them before porting to keep reviews tractable.",
			oversized, challengeLOCLimit))
	}
	if coupled > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d feature(s) import more than %d internal modules; migrate each together with its cluster.",
			coupled, challengeCouplingLimit))
	}
	if imported := cycles.FindImportCycles(g); len(imported) > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d circular import group(s) detected; break the cycles before migrating their members.",
			len(imported)))
	}
	return recs
}

// challenges flags individual features that will resist migration.
func challenges(features []model.FeatureMetadata, g *model.DependencyGraph) []model.Challenge {
	out := make([]model.Challenge, 0)

	for _, f := range features {
		if loc := f.Complexity.LinesOfCode; loc > challengeLOCLimit {
			severity := "warning"
			if loc > 2*challengeLOCLimit {
				severity = "error"
			}
			out = append(out, model.Challenge{
				FilePath: f.FilePath,
				Reason:   fmt.Sprintf("%d effective lines of code", loc),
				Severity: severity,
			})
		}
		if f.Internal > challengeCouplingLimit {
			out = append(out, model.Challenge{
				FilePath: f.FilePath,
				Reason:   fmt.Sprintf("%d internal dependencies", f.Internal),
				Severity: "warning",
			})
		}
	}

	for _, c := range cycles.FindImportCycles(g) {
		for _, file := range c.Files {
			out = append(out, model.Challenge{
				FilePath: file,
				Reason:   fmt.Sprintf("member of a circular import group of %d files", len(c.Files)),
				Severity: "error",
			})
		}
	}
	return out
}

// suggestedOrder ranks files by ascending dependent count, least
// depended-upon first. This is a deliberate approximation, not a
// topological sort: cyclic chains keep the stable count-based order
// instead of failing. Ties keep scan order.
func suggestedOrder(features []model.FeatureMetadata, g *model.DependencyGraph) []string {
	order := make([]string, 0, len(features))
	for _, f := range features {
		order = append(order, f.FilePath)
	}
	if g == nil {
		return order
	}
	dependents := func(path string) int {
		if n, ok := g.Nodes[path]; ok {
			return len(n.Dependents)
		}
		return 0
	}
	sort.SliceStable(order, func(i, j int) bool {
		return dependents(order[i]) < dependents(order[j])
	})
	return order
}
