package analyzer

import (
	"regexp"
	"strings"

	"github.com/skoglund/feature-scan/pkg/model"
)

var (
	// <Route path="/users" element={<Users />} />  (component= for v5).
	// The tag is matched to end of line, then attributes are pulled out
	// of the matched text separately.
	jsxRouteRe      = regexp.MustCompile(`<Route\b[^\n]*`)
	pathAttrRe      = regexp.MustCompile(`\bpath=["']([^"']+)["']`)
	elementAttrRe   = regexp.MustCompile(`element=\{\s*<\s*(\w+)`)
	componentAttrRe = regexp.MustCompile(`component=\{\s*(\w+)`)

	// { path: '/users', element: <Users /> }  (router object form)
	objectRouteRe  = regexp.MustCompile(`\{\s*path:\s*['"][^'"]+['"][^}\n]*`)
	pathFieldRe    = regexp.MustCompile(`path:\s*['"]([^'"]+)['"]`)
	elementFieldRe = regexp.MustCompile(`element:\s*<\s*(\w+)`)
	compFieldRe    = regexp.MustCompile(`component:\s*(\w+)`)

	// app.get('/api/users', ...) / axios.post("/api/users") / client.delete(`/x`)
	verbCallRe = regexp.MustCompile("\\.(get|post|put|delete|patch|head|options)\\s*\\(\\s*[`'\"]([^`'\"]+)[`'\"]")
	// fetch('/api/users', { method: 'POST' })
	fetchRe = regexp.MustCompile("fetch\\s*\\(\\s*[`'\"]([^`'\"]+)[`'\"]\\s*(?:,\\s*\\{([^}]*)\\})?")
	// method: 'POST' inside a fetch options object
	fetchMethodRe = regexp.MustCompile(`method:\s*['"](\w+)['"]`)
)

// extractRoutes finds route definitions in JSX and object-router form.
func extractRoutes(text string) []model.RouteReference {
	routes := make([]model.RouteReference, 0)
	seen := make(map[string]bool)

	add := func(path, component string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		routes = append(routes, model.RouteReference{Path: path, Component: component})
	}

	for _, tag := range jsxRouteRe.FindAllString(text, -1) {
		p := pathAttrRe.FindStringSubmatch(tag)
		if p == nil {
			continue
		}
		component := ""
		if m := elementAttrRe.FindStringSubmatch(tag); m != nil {
			component = m[1]
		} else if m := componentAttrRe.FindStringSubmatch(tag); m != nil {
			component = m[1]
		}
		add(p[1], component)
	}

	for _, obj := range objectRouteRe.FindAllString(text, -1) {
		p := pathFieldRe.FindStringSubmatch(obj)
		if p == nil {
			continue
		}
		component := ""
		if m := elementFieldRe.FindStringSubmatch(obj); m != nil {
			component = m[1]
		} else if m := compFieldRe.FindStringSubmatch(obj); m != nil {
			component = m[1]
		}
		add(p[1], component)
	}
	return routes
}

// extractAPIs finds HTTP calls in verb-method and fetch form. Only
// string literals that look like endpoints (path or URL) are kept;
// Map.get and friends share the call shape.
func extractAPIs(text string) []model.APIReference {
	apis := make([]model.APIReference, 0)
	seen := make(map[string]bool)

	add := func(endpoint, method string) {
		if !looksLikeEndpoint(endpoint) {
			return
		}
		key := method + " " + endpoint
		if seen[key] {
			return
		}
		seen[key] = true
		apis = append(apis, model.APIReference{Endpoint: endpoint, Method: method})
	}

	for _, m := range verbCallRe.FindAllStringSubmatch(text, -1) {
		add(m[2], strings.ToUpper(m[1]))
	}
	for _, m := range fetchRe.FindAllStringSubmatch(text, -1) {
		method := "GET"
		if m[2] != "" {
			if mm := fetchMethodRe.FindStringSubmatch(m[2]); mm != nil {
				method = strings.ToUpper(mm[1])
			}
		}
		add(m[1], method)
	}
	return apis
}

func looksLikeEndpoint(s string) bool {
	return strings.HasPrefix(s, "/") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://")
}
