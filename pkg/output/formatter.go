// Package output renders a one-shot analysis result as a colorized
// console report.
package output

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/skoglund/feature-scan/pkg/analysis"
	"github.com/skoglund/feature-scan/pkg/model"
)

const maxListedItems = 10

// PrintReport prints a colorized catalog summary for CLI runs.
func PrintReport(result *analysis.Result) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	cat := result.Catalog

	bold.Println("Feature Scan - Migration Catalog")
	bold.Println("================================")
	fmt.Printf("Project: %s\n", cat.Metadata.Project)
	fmt.Printf("Scanned: %d files, %d features\n", cat.Metadata.TotalFiles, cat.Metadata.TotalFeatures)
	if len(result.Errors) > 0 {
		yellow.Printf("Warnings: %d file(s) skipped or flagged during the run\n", len(result.Errors))
	} else {
		green.Println("Warnings: none")
	}
	fmt.Println()

	bold.Println("FEATURES BY BUCKET:")
	printBucket("pages", cat.Features.Pages)
	printBucket("components", cat.Features.Components)
	printBucket("services", cat.Features.Services)
	printBucket("hooks", cat.Features.Hooks)
	printBucket("utilities", cat.Features.Utilities)
	printBucket("types", cat.Features.Types)
	printBucket("modules", cat.Features.Modules)
	fmt.Println()

	if len(cat.Summary.KeyTechnologies) > 0 {
		bold.Println("KEY TECHNOLOGIES:")
		for _, tech := range cat.Summary.KeyTechnologies {
			cyan.Printf("  %s\n", tech)
		}
		fmt.Println()
	}

	hooks, components, contexts, hocs := patternTotals(result)
	bold.Println("DETECTED PATTERNS:")
	fmt.Printf("  %d hook call(s), %d component(s), %d context(s), %d higher-order wrapper(s)\n",
		hooks, components, contexts, hocs)
	fmt.Println()

	if len(cat.Migration.Challenges) > 0 {
		red.Println("MIGRATION CHALLENGES:")
		for i, c := range cat.Migration.Challenges {
			if i == maxListedItems {
				fmt.Printf("  ... and %d more\n", len(cat.Migration.Challenges)-maxListedItems)
				break
			}
			line := fmt.Sprintf("  [%s] %s: %s\n", c.Severity, c.FilePath, c.Reason)
			if c.Severity == "error" {
				red.Print(line)
			} else {
				yellow.Print(line)
			}
		}
		fmt.Println()
	}

	bold.Println("SUGGESTED MIGRATION ORDER:")
	for i, path := range cat.Migration.SuggestedOrder {
		if i == maxListedItems {
			fmt.Printf("  ... and %d more\n", len(cat.Migration.SuggestedOrder)-maxListedItems)
			break
		}
		fmt.Printf("  %2d. %s\n", i+1, path)
	}

	if len(cat.Migration.Challenges) == 0 {
		fmt.Println()
		green.Println("No migration challenges detected.")
	}
}

func printBucket(name string, features []model.FeatureMetadata) {
	fmt.Printf("  %-11s %d\n", name+":", len(features))
}

func patternTotals(result *analysis.Result) (hooks, components, contexts, hocs int) {
	for _, f := range result.Patterns {
		hooks += len(f.Hooks)
		components += len(f.Components)
		contexts += len(f.Contexts)
		hocs += len(f.HOCs)
	}
	return hooks, components, contexts, hocs
}
