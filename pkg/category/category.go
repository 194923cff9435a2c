// Package category assigns a category label to each scanned file via
// an ordered list of pattern rules.
package category

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/skoglund/feature-scan/pkg/model"
)

// Rule maps a path pattern to a category. Regex takes precedence over
// Pattern when set; Pattern is a plain substring match. All matching
// is done on lowercased input.
type Rule struct {
	Pattern     string
	Regex       *regexp.Regexp
	Category    string
	Priority    int
	Description string
}

func (r Rule) matches(s string) bool {
	if r.Regex != nil {
		return r.Regex.MatchString(s)
	}
	return r.Pattern != "" && strings.Contains(s, strings.ToLower(r.Pattern))
}

// builtinRules returns the default rule table. Listed in registration
// order, which breaks priority ties.
func builtinRules() []Rule {
	return []Rule{
		{Regex: regexp.MustCompile(`(^|/)pages?/|\.page\.`), Category: model.CategoryPage, Priority: 10, Description: "files under a pages directory"},
		{Pattern: "context", Category: model.CategoryContext, Priority: 9, Description: "context providers"},
		{Pattern: "hook", Category: model.CategoryHook, Priority: 8, Description: "hooks directories and *Hook files"},
		{Pattern: "component", Category: model.CategoryComponent, Priority: 7, Description: "component directories"},
		{Pattern: "server", Category: model.CategoryServer, Priority: 7, Description: "server-side entry points"},
		{Pattern: "service", Category: model.CategoryService, Priority: 6, Description: "service and API client layers"},
		{Regex: regexp.MustCompile(`util|helper|(^|/)lib/`), Category: model.CategoryUtility, Priority: 5, Description: "utility helpers"},
		{Regex: regexp.MustCompile(`(^|/)types?/|\.d\.ts$|interface`), Category: model.CategoryType, Priority: 4, Description: "type declarations"},
		{Regex: regexp.MustCompile(`config|settings|\.rc\b`), Category: model.CategoryConfig, Priority: 3, Description: "configuration files"},
		{Regex: regexp.MustCompile(`\.(tsx|jsx)$`), Category: model.CategoryComponent, Priority: 1, Description: "generic tsx/jsx fallback"},
		{Regex: regexp.MustCompile(`.`), Category: model.CategoryModule, Priority: 0, Description: "generic fallback"},
	}
}

// Engine evaluates rules in descending-priority order, stable for ties.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine from the builtin table plus any custom
// rules. Custom rules are appended before sorting, so they compete on
// priority like builtins.
func NewEngine(custom ...Rule) *Engine {
	rules := append(builtinRules(), custom...)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return &Engine{rules: rules}
}

// Rules returns the evaluation-ordered rule list.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Categorize returns the category for a file. Each rule is tested
// independently against three lowercased forms: the combined
// directory-plus-filename path, the relative directory, and the bare
// filename; the first rule matching any form wins. Files no rule
// matches get the "module" fallback. A directory hit and a filename
// hit are equivalent; narrowing the match forms would recategorize
// existing trees.
func (e *Engine) Categorize(relDir, fileName string) string {
	dir := strings.ToLower(strings.Trim(relDir, "./"))
	name := strings.ToLower(fileName)
	combined := name
	if dir != "" {
		combined = dir + "/" + name
	}

	for _, r := range e.rules {
		if r.matches(combined) || r.matches(dir) || r.matches(name) {
			return r.Category
		}
	}
	return model.CategoryModule
}

// CompileRule builds a custom Rule from configuration values. When
// isRegex is set the pattern must compile; a malformed pattern is a
// configuration error.
func CompileRule(pattern, categoryLabel string, priority int, isRegex bool, description string) (Rule, error) {
	if pattern == "" {
		return Rule{}, fmt.Errorf("category rule for %q has empty pattern", categoryLabel)
	}
	if categoryLabel == "" {
		return Rule{}, fmt.Errorf("category rule %q has empty category", pattern)
	}
	r := Rule{Pattern: pattern, Category: categoryLabel, Priority: priority, Description: description}
	if isRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Rule{}, fmt.Errorf("category rule %q: %w", pattern, err)
		}
		r.Regex = re
	}
	return r, nil
}
