package analyzer

import (
	"path"
	"sort"
	"strings"
)

// resolution candidates are tried in this order.
var knownExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".css", ".scss", ".json"}

// Resolver maps import specifiers to files in the scanned tree. Paths
// are relative to the scan root, slash-separated.
type Resolver struct {
	files   map[string]struct{}
	aliases map[string]string // specifier prefix -> root-relative prefix
}

// NewResolver builds a resolver over the known file set. The "@/"
// alias to the source root is registered by default; callers can add
// tsconfig-style aliases on top.
func NewResolver(relPaths []string) *Resolver {
	r := &Resolver{
		files:   make(map[string]struct{}, len(relPaths)),
		aliases: map[string]string{"@/": ""},
	}
	for _, p := range relPaths {
		r.files[path.Clean(strings.ReplaceAll(p, "\\", "/"))] = struct{}{}
	}
	return r
}

// AddAlias registers a specifier prefix that maps into the tree,
// e.g. "~/" -> "src/".
func (r *Resolver) AddAlias(prefix, target string) {
	r.aliases[prefix] = target
}

// IsInternal reports whether a specifier points into the scanned tree
// rather than at a named external package.
func (r *Resolver) IsInternal(specifier string) bool {
	if strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		return true
	}
	for prefix := range r.aliases {
		if strings.HasPrefix(specifier, prefix) {
			return true
		}
	}
	return false
}

// Resolve maps an internal specifier to a known file. Candidates are
// tried in order: exact match, each known extension appended, then
// /index with each extension. An unresolvable specifier returns
// ok=false; the caller keeps the literal path.
func (r *Resolver) Resolve(fromFile, specifier string) (string, bool) {
	target := r.normalize(fromFile, specifier)
	if target == "" {
		return "", false
	}

	if _, ok := r.files[target]; ok {
		return target, true
	}
	for _, ext := range knownExtensions {
		if _, ok := r.files[target+ext]; ok {
			return target + ext, true
		}
	}
	for _, ext := range knownExtensions {
		idx := target + "/index" + ext
		if _, ok := r.files[idx]; ok {
			return idx, true
		}
	}
	return "", false
}

// normalize turns a specifier into a root-relative path candidate.
func (r *Resolver) normalize(fromFile, specifier string) string {
	switch {
	case strings.HasPrefix(specifier, "."):
		return path.Clean(path.Join(path.Dir(fromFile), specifier))
	case strings.HasPrefix(specifier, "/"):
		return path.Clean(strings.TrimPrefix(specifier, "/"))
	}

	// Longest alias prefix wins so "@app/" beats "@".
	prefixes := make([]string, 0, len(r.aliases))
	for p := range r.aliases {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
	for _, p := range prefixes {
		if strings.HasPrefix(specifier, p) {
			return path.Clean(path.Join(r.aliases[p], strings.TrimPrefix(specifier, p)))
		}
	}
	return ""
}
