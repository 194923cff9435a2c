package category

import (
	"testing"

	"github.com/skoglund/feature-scan/pkg/model"
)

func TestCategorizeServicePath(t *testing.T) {
	e := NewEngine()

	got := e.Categorize("services/api", "UserService.ts")
	if got != model.CategoryService {
		t.Errorf("Expected service, got %s", got)
	}
}

func TestCategorizeTsxFallback(t *testing.T) {
	e := NewEngine()

	// Bare .tsx files at the root match no named rule and fall through
	// to the tsx fallback at priority 1.
	for _, name := range []string{"a.tsx", "b.tsx"} {
		if got := e.Categorize(".", name); got != model.CategoryComponent {
			t.Errorf("%s: expected component, got %s", name, got)
		}
	}
}

func TestCategorizeModuleFallback(t *testing.T) {
	e := NewEngine()

	// .ts file matching nothing named hits the priority-0 fallback.
	if got := e.Categorize(".", "index.ts"); got != model.CategoryModule {
		t.Errorf("Expected module, got %s", got)
	}
}

func TestCategorizeIsTotal(t *testing.T) {
	e := NewEngine()

	paths := [][2]string{
		{"pages", "Home.tsx"},
		{"src/contexts", "AuthContext.tsx"},
		{"src/hooks", "useAuth.ts"},
		{"components/ui", "Button.tsx"},
		{"server", "index.ts"},
		{"utils", "format.ts"},
		{"types", "user.d.ts"},
		{".", "app.config.ts"},
		{".", "whatever.xyz"},
	}
	for _, p := range paths {
		if got := e.Categorize(p[0], p[1]); got == "" {
			t.Errorf("Categorize(%q, %q) returned empty category", p[0], p[1])
		}
	}
}

func TestCategorizeBuiltinTable(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		dir, name, want string
	}{
		{"pages", "Home.tsx", model.CategoryPage},
		{"src/contexts", "AuthContext.tsx", model.CategoryContext},
		{"src/hooks", "useAuth.ts", model.CategoryHook},
		{"components/ui", "Button.tsx", model.CategoryComponent},
		{"server", "index.ts", model.CategoryServer},
		{"utils", "format.ts", model.CategoryUtility},
		{"types", "user.d.ts", model.CategoryType},
		{"src", "app.config.ts", model.CategoryConfig},
	}
	for _, c := range cases {
		if got := e.Categorize(c.dir, c.name); got != c.want {
			t.Errorf("Categorize(%q, %q) = %s, want %s", c.dir, c.name, got, c.want)
		}
	}
}

func TestCustomRuleOutranksBuiltin(t *testing.T) {
	custom, err := CompileRule("userservice", "legacy", 20, false, "")
	if err != nil {
		t.Fatalf("CompileRule failed: %v", err)
	}
	e := NewEngine(custom)

	if got := e.Categorize("services/api", "UserService.ts"); got != "legacy" {
		t.Errorf("Expected custom rule to win, got %s", got)
	}
}

func TestEqualPriorityPreservesRegistrationOrder(t *testing.T) {
	// component(7) is registered before server(7); a path matching both
	// must resolve to component.
	e := NewEngine()
	if got := e.Categorize("components/server-widgets", "Panel.tsx"); got != model.CategoryComponent {
		t.Errorf("Expected registration order to break the tie, got %s", got)
	}

	// Two custom rules at the same priority keep insertion order.
	a, _ := CompileRule("panel", "first", 15, false, "")
	b, _ := CompileRule("panel", "second", 15, false, "")
	e = NewEngine(a, b)
	if got := e.Categorize("widgets", "panel.ts"); got != "first" {
		t.Errorf("Expected first-registered rule to win, got %s", got)
	}
}

func TestCompileRuleRejectsBadRegex(t *testing.T) {
	if _, err := CompileRule("[unclosed", "x", 1, true, ""); err == nil {
		t.Error("Expected error for malformed regex pattern")
	}
	if _, err := CompileRule("", "x", 1, false, ""); err == nil {
		t.Error("Expected error for empty pattern")
	}
}
