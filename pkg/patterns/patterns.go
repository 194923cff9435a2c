// Package patterns recognizes framework-idiom constructs (hooks,
// components, contexts, higher-order wrappers) in raw source text.
// Detection is textual and line-oriented; findings carry the 1-based
// line number of the match.
package patterns

import (
	"regexp"
	"strings"
)

// HookFinding is one hook call site.
type HookFinding struct {
	Name    string `json:"name"`
	Line    int    `json:"line"`
	BuiltIn bool   `json:"builtIn"`
}

// ComponentFinding is one component declaration.
type ComponentFinding struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Kind     string `json:"kind"` // "function", "arrow", "class"
	Exported bool   `json:"exported"`
}

// ContextFinding is one created context plus observed usage.
type ContextFinding struct {
	Name        string `json:"name"`
	Line        int    `json:"line"`
	HasProvider bool   `json:"hasProvider"`
	HasConsumer bool   `json:"hasConsumer"`
}

// HOCFinding is one higher-order wrapper declaration.
type HOCFinding struct {
	Name    string `json:"name"`
	Line    int    `json:"line"`
	Wrapped string `json:"wrapped,omitempty"` // component passed at a call site, if inferable
}

// builtinHooks is the fixed set of framework-provided hook names.
var builtinHooks = map[string]bool{
	"useState": true, "useEffect": true, "useContext": true,
	"useReducer": true, "useCallback": true, "useMemo": true,
	"useRef": true, "useImperativeHandle": true, "useLayoutEffect": true,
	"useDebugValue": true, "useDeferredValue": true, "useTransition": true,
	"useId": true, "useSyncExternalStore": true, "useInsertionEffect": true,
}

var (
	// Hook detection requires call-expression shape: name directly
	// followed by "(". A bare identifier binding is not a call.
	hookCallRe = regexp.MustCompile(`\b(use[A-Z]\w*)\s*\(`)

	funcComponentRe  = regexp.MustCompile(`^\s*(export\s+)?(?:default\s+)?function\s+([A-Z]\w*)\s*(?:<[^>]*>)?\s*\(`)
	arrowComponentRe = regexp.MustCompile(`^\s*(export\s+)?(?:const|let|var)\s+([A-Z]\w*)\s*(?::\s*[\w.<>,\[\]\s|]+)?=\s*(?:async\s+)?(?:\([^)]*\)|\w+)\s*(?::\s*[\w.<>,\[\]\s|]+)?=>`)
	classComponentRe = regexp.MustCompile(`^\s*(export\s+)?(?:default\s+)?class\s+([A-Z]\w*)`)

	contextCreateRe = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(?:React\.)?createContext\s*[(<]`)

	funcHOCRe  = regexp.MustCompile(`function\s+(\w+)\s*(?:<[^>]*>)?\s*\(\s*(\w+)\s*(?::[^),]*)?\)`)
	arrowHOCRe = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*\(\s*(\w+)\s*(?::[^),]*)?\)\s*=>`)
	// Parameter names that conventionally carry a component.
	componentParamRe = regexp.MustCompile(`(?i)^(wrapped)?component$|Component$`)
)

// DetectHooks finds hook call sites. Names in the builtin set are
// flagged BuiltIn; everything else is a custom hook. Declarations of
// hooks (function useX() {...}) are not call sites and are skipped.
func DetectHooks(text string) []HookFinding {
	findings := make([]HookFinding, 0)
	for i, line := range strings.Split(text, "\n") {
		for _, loc := range hookCallRe.FindAllStringSubmatchIndex(line, -1) {
			name := line[loc[2]:loc[3]]
			if isDeclaration(line, loc[0]) {
				continue
			}
			findings = append(findings, HookFinding{
				Name:    name,
				Line:    i + 1,
				BuiltIn: builtinHooks[name],
			})
		}
	}
	return findings
}

// isDeclaration reports whether the match at offset is the name of a
// function declaration rather than a call.
func isDeclaration(line string, offset int) bool {
	prefix := strings.TrimRight(line[:offset], " \t")
	return strings.HasSuffix(prefix, "function") || strings.HasSuffix(prefix, "function*")
}

// DetectComponents finds capitalized function, arrow, and class
// declarations. A component is exported if its declaration carries the
// export keyword or the file later re-exports its name.
func DetectComponents(text string) []ComponentFinding {
	findings := make([]ComponentFinding, 0)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if m := funcComponentRe.FindStringSubmatch(line); m != nil {
			findings = append(findings, ComponentFinding{
				Name: m[2], Line: i + 1, Kind: "function",
				Exported: m[1] != "" || reExported(text, m[2]),
			})
			continue
		}
		if m := arrowComponentRe.FindStringSubmatch(line); m != nil {
			findings = append(findings, ComponentFinding{
				Name: m[2], Line: i + 1, Kind: "arrow",
				Exported: m[1] != "" || reExported(text, m[2]),
			})
			continue
		}
		if m := classComponentRe.FindStringSubmatch(line); m != nil {
			findings = append(findings, ComponentFinding{
				Name: m[2], Line: i + 1, Kind: "class",
				Exported: m[1] != "" || reExported(text, m[2]),
			})
		}
	}
	return findings
}

func reExported(text, name string) bool {
	re := regexp.MustCompile(`export\s*(?:default\s+` + regexp.QuoteMeta(name) + `\b|\{[^}]*\b` + regexp.QuoteMeta(name) + `\b[^}]*\})`)
	return re.MatchString(text)
}

// DetectContexts finds createContext calls and scans the rest of the
// file for provider-element and consumer usage of each context.
func DetectContexts(text string) []ContextFinding {
	findings := make([]ContextFinding, 0)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := contextCreateRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		findings = append(findings, ContextFinding{
			Name:        name,
			Line:        i + 1,
			HasProvider: strings.Contains(text, "<"+name+".Provider") || strings.Contains(text, "<"+name+" "),
			HasConsumer: strings.Contains(text, "<"+name+".Consumer") || strings.Contains(text, "useContext("+name+")"),
		})
	}
	return findings
}

// DetectHOCs finds functions that take a component-typed parameter and
// return a new renderable wrapping it. Where the wrapper is applied to
// a capitalized argument somewhere in the file, the wrapped component
// name is recorded.
func DetectHOCs(text string) []HOCFinding {
	findings := make([]HOCFinding, 0)
	seen := make(map[string]bool)
	lines := strings.Split(text, "\n")

	consider := func(name, param string, lineNo int) {
		if seen[name] || !componentParamRe.MatchString(param) {
			return
		}
		if !returnsRenderable(text, param, lineNo) {
			return
		}
		seen[name] = true
		findings = append(findings, HOCFinding{
			Name:    name,
			Line:    lineNo,
			Wrapped: wrappedAt(text, name),
		})
	}

	for i, line := range lines {
		if m := funcHOCRe.FindStringSubmatch(line); m != nil {
			consider(m[1], m[2], i+1)
		}
		if m := arrowHOCRe.FindStringSubmatch(line); m != nil {
			consider(m[1], m[2], i+1)
		}
	}
	return findings
}

// returnsRenderable checks the body following the declaration for a
// return of something that renders the parameter: JSX usage of the
// param or a returned function/class.
func returnsRenderable(text, param string, declLine int) bool {
	lines := strings.Split(text, "\n")
	if declLine > len(lines) {
		return false
	}
	body := strings.Join(lines[declLine-1:min(declLine+30, len(lines))], "\n")
	if strings.Contains(body, "<"+param) {
		return true
	}
	return regexp.MustCompile(`return\s+(?:function\b|class\b|\()`).MatchString(body) ||
		strings.Contains(body, "=>")
}

// wrappedAt finds a call site wrapper(SomeComponent) and returns the
// argument name. The wrapper's own declaration has the same shape
// (function withX(Component)), so matches preceded by the function
// keyword are skipped.
func wrappedAt(text, wrapper string) string {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(wrapper) + `\s*\(\s*([A-Z]\w*)\s*[),]`)
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if isDeclaration(text, loc[0]) {
			continue
		}
		return text[loc[2]:loc[3]]
	}
	return ""
}
