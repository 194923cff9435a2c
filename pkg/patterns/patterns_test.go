package patterns

import "testing"

func TestDetectHooksCallShape(t *testing.T) {
	text := `import { useState, useEffect } from 'react'; const [s,set]=useState(0); useEffect(()=>{},[]);`

	hooks := DetectHooks(text)
	if len(hooks) != 2 {
		t.Fatalf("Expected exactly 2 hook findings, got %d: %+v", len(hooks), hooks)
	}
	for _, h := range hooks {
		if !h.BuiltIn {
			t.Errorf("%s should be built-in", h.Name)
		}
		if h.Line != 1 {
			t.Errorf("%s: expected line 1, got %d", h.Name, h.Line)
		}
	}
}

func TestDetectHooksIgnoresBareIdentifier(t *testing.T) {
	if hooks := DetectHooks(`const useState = 'x';`); len(hooks) != 0 {
		t.Errorf("Bare identifier assignment should yield no findings, got %+v", hooks)
	}
}

func TestDetectHooksCustom(t *testing.T) {
	text := `
function Profile() {
  const auth = useAuth();
  const [user] = useState(null);
  return null;
}
`
	hooks := DetectHooks(text)
	if len(hooks) != 2 {
		t.Fatalf("Expected 2 findings, got %d: %+v", len(hooks), hooks)
	}
	if hooks[0].Name != "useAuth" || hooks[0].BuiltIn {
		t.Errorf("useAuth should be custom: %+v", hooks[0])
	}
	if hooks[1].Name != "useState" || !hooks[1].BuiltIn {
		t.Errorf("useState should be built-in: %+v", hooks[1])
	}
}

func TestDetectHooksSkipsDeclarations(t *testing.T) {
	text := `
function useCart() {
  return useContext(CartContext);
}
`
	hooks := DetectHooks(text)
	if len(hooks) != 1 {
		t.Fatalf("Expected 1 finding (the useContext call), got %d: %+v", len(hooks), hooks)
	}
	if hooks[0].Name != "useContext" {
		t.Errorf("Expected useContext, got %s", hooks[0].Name)
	}
}

func TestDetectComponents(t *testing.T) {
	text := `
export function Header() { return <div/>; }
const Footer = () => <footer/>;
export default class App extends React.Component {}
function helper() {}
export { Footer };
`
	comps := DetectComponents(text)
	if len(comps) != 3 {
		t.Fatalf("Expected 3 components, got %d: %+v", len(comps), comps)
	}

	byName := make(map[string]ComponentFinding)
	for _, c := range comps {
		byName[c.Name] = c
	}

	if c := byName["Header"]; c.Kind != "function" || !c.Exported {
		t.Errorf("Header wrong: %+v", c)
	}
	if c := byName["Footer"]; c.Kind != "arrow" || !c.Exported {
		t.Errorf("Footer wrong (re-exported via export list): %+v", c)
	}
	if c := byName["App"]; c.Kind != "class" || !c.Exported {
		t.Errorf("App wrong: %+v", c)
	}
}

func TestDetectComponentsLowercaseIgnored(t *testing.T) {
	text := `
function helper() {}
const doThing = () => {};
class impl {}
`
	if comps := DetectComponents(text); len(comps) != 0 {
		t.Errorf("Lowercase declarations are not components: %+v", comps)
	}
}

func TestDetectContexts(t *testing.T) {
	text := `
const ThemeContext = React.createContext('light');
const OrphanContext = createContext(null);

export function ThemeProvider({ children }) {
  return <ThemeContext.Provider value="dark">{children}</ThemeContext.Provider>;
}

function useTheme() {
  return useContext(ThemeContext);
}
`
	ctxs := DetectContexts(text)
	if len(ctxs) != 2 {
		t.Fatalf("Expected 2 contexts, got %d: %+v", len(ctxs), ctxs)
	}

	theme := ctxs[0]
	if theme.Name != "ThemeContext" || !theme.HasProvider || !theme.HasConsumer {
		t.Errorf("ThemeContext flags wrong: %+v", theme)
	}

	orphan := ctxs[1]
	if orphan.Name != "OrphanContext" || orphan.HasProvider || orphan.HasConsumer {
		t.Errorf("OrphanContext should have no usage: %+v", orphan)
	}
}

func TestDetectHOCs(t *testing.T) {
	text := `
function withAuth(Component) {
  return function Wrapped(props) {
    return <Component {...props} />;
  };
}

const withLogging = (WrappedComponent) => (props) => <WrappedComponent {...props} />;

export default withAuth(Dashboard);
`
	hocs := DetectHOCs(text)
	if len(hocs) != 2 {
		t.Fatalf("Expected 2 HOCs, got %d: %+v", len(hocs), hocs)
	}
	if hocs[0].Name != "withAuth" || hocs[0].Wrapped != "Dashboard" {
		t.Errorf("withAuth wrong: %+v", hocs[0])
	}
	if hocs[1].Name != "withLogging" {
		t.Errorf("withLogging wrong: %+v", hocs[1])
	}
}

func TestDetectHOCsDeclarationIsNotACallSite(t *testing.T) {
	text := `
function withTheme(Component) {
  return (props) => <Component {...props} />;
}
`
	hocs := DetectHOCs(text)
	if len(hocs) != 1 {
		t.Fatalf("Expected 1 HOC, got %d: %+v", len(hocs), hocs)
	}
	if hocs[0].Wrapped != "" {
		t.Errorf("No call site exists, but Wrapped = %q (declaration parameter mistaken for call site)", hocs[0].Wrapped)
	}
}

func TestDetectHOCsRequiresComponentParam(t *testing.T) {
	text := `
function add(value) {
  return value + 1;
}
const format = (input) => input.trim();
`
	if hocs := DetectHOCs(text); len(hocs) != 0 {
		t.Errorf("Plain functions are not HOCs: %+v", hocs)
	}
}
