// Package analyzer extracts per-file import, route, and API references
// from raw source text. It is a pattern extractor, not a parser:
// malformed input degrades to empty results and never fails the run.
package analyzer

import (
	"path"
	"regexp"
	"strings"

	"github.com/skoglund/feature-scan/pkg/model"
)

var (
	// import Default, { a, b } from 'mod'
	defaultAndNamedRe = regexp.MustCompile(`import\s+(\w+)\s*,\s*\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	// import { a, b as c } from 'mod'  /  import type { T } from 'mod'
	namedRe = regexp.MustCompile(`import\s+(?:type\s+)?\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	// import * as ns from 'mod'
	namespaceRe = regexp.MustCompile(`import\s*\*\s*as\s+(\w+)\s+from\s*['"]([^'"]+)['"]`)
	// import Default from 'mod'  /  import type T from 'mod'
	defaultRe = regexp.MustCompile(`import\s+(?:type\s+)?(\w+)\s+from\s*['"]([^'"]+)['"]`)
	// import 'mod'  (side effect only, includes stylesheets)
	sideEffectRe = regexp.MustCompile(`import\s*['"]([^'"]+)['"]`)
	// import('mod')  (dynamic / React.lazy)
	dynamicRe = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

var styleExtensions = map[string]bool{
	".css": true, ".scss": true, ".sass": true, ".less": true,
}

// Analyze extracts all dependencies from one file's text. filePath is
// the root-relative path of the file being analyzed; resolver holds
// the scanned file set. Empty input yields empty collections.
func Analyze(text, filePath string, resolver *Resolver) *model.Dependencies {
	deps := model.NewDependencies(filePath)
	if strings.TrimSpace(text) == "" {
		return deps
	}

	seen := make(map[string]bool) // specifier -> already recorded

	record := func(specifier string, symbols []string, dynamic bool) {
		if specifier == "" || seen[specifier] {
			return
		}
		seen[specifier] = true

		if resolver != nil && resolver.IsInternal(specifier) {
			dep := model.InternalDependency{
				Source:  specifier,
				Symbols: symbols,
				Kind:    classifyReference(specifier, dynamic),
			}
			if resolved, ok := resolver.Resolve(filePath, specifier); ok {
				dep.ResolvedPath = resolved
				dep.Resolved = true
			} else {
				// Unresolved is a terminal state: keep the literal path.
				dep.ResolvedPath = specifier
			}
			deps.Internal = append(deps.Internal, dep)
			return
		}
		deps.External = append(deps.External, model.ExternalDependency{
			Package: packageName(specifier),
			Symbols: symbols,
		})
	}

	for _, m := range defaultAndNamedRe.FindAllStringSubmatch(text, -1) {
		record(m[3], append([]string{m[1]}, splitSymbols(m[2])...), false)
	}
	for _, m := range namedRe.FindAllStringSubmatch(text, -1) {
		record(m[2], splitSymbols(m[1]), false)
	}
	for _, m := range namespaceRe.FindAllStringSubmatch(text, -1) {
		record(m[2], []string{"* as " + m[1]}, false)
	}
	for _, m := range defaultRe.FindAllStringSubmatch(text, -1) {
		record(m[2], []string{m[1]}, false)
	}
	for _, m := range sideEffectRe.FindAllStringSubmatch(text, -1) {
		record(m[1], nil, false)
	}
	for _, m := range dynamicRe.FindAllStringSubmatch(text, -1) {
		record(m[1], nil, true)
	}

	deps.Routes = extractRoutes(text)
	deps.APIs = extractAPIs(text)
	return deps
}

// splitSymbols parses the inside of a named-import list, dropping
// inline "as" renames down to the local name.
func splitSymbols(list string) []string {
	parts := strings.Split(list, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if idx := strings.Index(p, " as "); idx >= 0 {
			p = strings.TrimSpace(p[idx+4:])
		}
		p = strings.TrimPrefix(p, "type ")
		if p != "" {
			symbols = append(symbols, p)
		}
	}
	if len(symbols) == 0 {
		return nil
	}
	return symbols
}

// packageName reduces a bare specifier to its package: "react-dom/client"
// -> "react-dom", "@tanstack/react-query/devtools" -> "@tanstack/react-query".
func packageName(specifier string) string {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// classifyReference guesses what kind of module an internal specifier
// points at, from its name alone.
func classifyReference(specifier string, dynamic bool) model.ReferenceKind {
	if dynamic {
		return model.RefDynamic
	}
	base := path.Base(specifier)
	if styleExtensions[path.Ext(base)] {
		return model.RefCSS
	}
	lower := strings.ToLower(specifier)
	switch {
	case strings.Contains(lower, "context"):
		return model.RefContext
	case strings.HasPrefix(base, "use") && len(base) > 3 && base[3] >= 'A' && base[3] <= 'Z':
		return model.RefHook
	case strings.Contains(lower, "service") || strings.Contains(lower, "/api/") || strings.HasSuffix(lower, "/api"):
		return model.RefService
	case strings.Contains(lower, "type") || strings.HasSuffix(lower, ".d"):
		return model.RefType
	case strings.Contains(lower, "util") || strings.Contains(lower, "helper") || strings.Contains(lower, "/lib/"):
		return model.RefUtility
	case base != "" && base[0] >= 'A' && base[0] <= 'Z':
		return model.RefComponent
	default:
		return model.RefUtility
	}
}
