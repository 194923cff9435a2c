package model

import "time"

// Category labels assigned by the rule engine.
const (
	CategoryPage      = "page"
	CategoryContext   = "context"
	CategoryHook      = "hook"
	CategoryComponent = "component"
	CategoryServer    = "server"
	CategoryService   = "service"
	CategoryUtility   = "utility"
	CategoryType      = "type"
	CategoryConfig    = "config"
	CategoryModule    = "module" // fallback when no rule matches
)

// ReferenceKind classifies what an internal import points at.
type ReferenceKind string

const (
	RefComponent ReferenceKind = "component"
	RefHook      ReferenceKind = "hook"
	RefUtility   ReferenceKind = "utility"
	RefType      ReferenceKind = "type"
	RefService   ReferenceKind = "service"
	RefContext   ReferenceKind = "context"
	RefCSS       ReferenceKind = "css"
	RefDynamic   ReferenceKind = "dynamic"
)

// FileRecord describes one scanned source file. Records are created
// once during the scan and never mutated afterwards.
type FileRecord struct {
	Path      string `json:"path"`    // absolute path
	RelPath   string `json:"relPath"` // path relative to the scan root
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	Category  string `json:"category"`
}

// InternalDependency is a reference into the scanned tree. Unresolved
// references keep the literal specifier with Resolved=false; they are
// a valid terminal state, not an error.
type InternalDependency struct {
	Source       string        `json:"source"` // raw import specifier
	ResolvedPath string        `json:"resolvedPath,omitempty"`
	Resolved     bool          `json:"resolved"`
	Symbols      []string      `json:"symbols,omitempty"`
	Kind         ReferenceKind `json:"kind"`
}

// ExternalDependency is a reference to a named package outside the tree.
type ExternalDependency struct {
	Package string   `json:"package"`
	Symbols []string `json:"symbols,omitempty"`
	Version string   `json:"version,omitempty"`
}

// RouteReference is a route path discovered in a route-definition call.
type RouteReference struct {
	Path      string `json:"path"`
	Component string `json:"component,omitempty"`
}

// APIReference is an HTTP endpoint discovered in a verb-style call.
type APIReference struct {
	Endpoint    string `json:"endpoint"`
	Method      string `json:"method"`
	Description string `json:"description,omitempty"`
}

// Dependencies holds everything extracted from a single file.
type Dependencies struct {
	FilePath string               `json:"filePath"`
	Internal []InternalDependency `json:"internal"`
	External []ExternalDependency `json:"external"`
	Routes   []RouteReference     `json:"routes"`
	APIs     []APIReference       `json:"apis"`
}

// NewDependencies returns an empty extraction result for a file.
// All collections are non-nil so malformed input degrades to
// "no dependencies found" rather than nil lists.
func NewDependencies(filePath string) *Dependencies {
	return &Dependencies{
		FilePath: filePath,
		Internal: []InternalDependency{},
		External: []ExternalDependency{},
		Routes:   []RouteReference{},
		APIs:     []APIReference{},
	}
}

// Complexity is the size/coupling measure attached to a feature.
type Complexity struct {
	LinesOfCode     int `json:"linesOfCode"`
	DependencyCount int `json:"dependencyCount"`
}

// FeatureMetadata is the synthesized description of one analyzed file.
type FeatureMetadata struct {
	Name           string     `json:"name"`
	FilePath       string     `json:"filePath"`
	Category       string     `json:"category"`
	Description    string     `json:"description"`
	Exports        []string   `json:"exports"`
	Internal       int        `json:"internalDependencies"`
	External       []string   `json:"externalPackages"`
	Complexity     Complexity `json:"complexity"`
	MigrationNotes []string   `json:"migrationNotes"`

	// Component-only fields
	Props  []string `json:"props,omitempty"`
	Routes []string `json:"routes,omitempty"` // routes that render this component
	UsedBy []string `json:"usedBy,omitempty"` // files that import this one
}

// CatalogMetadata is the header of a catalog.
type CatalogMetadata struct {
	Project       string    `json:"project"`
	GeneratedAt   time.Time `json:"generatedAt"`
	TotalFiles    int       `json:"totalFiles"`
	TotalFeatures int       `json:"totalFeatures"`
}

// CatalogSummary aggregates counts and technology detection.
type CatalogSummary struct {
	CategoryCounts   map[string]int `json:"categoryCounts"`
	ExternalPackages []string       `json:"externalPackages"` // deduplicated, sorted
	KeyTechnologies  []string       `json:"keyTechnologies"`
}

// FeatureBuckets holds features grouped into the seven fixed buckets.
type FeatureBuckets struct {
	Pages      []FeatureMetadata `json:"pages"`
	Components []FeatureMetadata `json:"components"`
	Services   []FeatureMetadata `json:"services"`
	Hooks      []FeatureMetadata `json:"hooks"`
	Utilities  []FeatureMetadata `json:"utilities"`
	Types      []FeatureMetadata `json:"types"`
	Modules    []FeatureMetadata `json:"modules"`
}

// Challenge flags a feature expected to resist migration.
type Challenge struct {
	FilePath string `json:"filePath"`
	Reason   string `json:"reason"`
	Severity string `json:"severity"` // "warning" or "error"
}

// MigrationGuide is the advisory section derived from the catalog.
type MigrationGuide struct {
	Overview        string      `json:"overview"`
	Recommendations []string    `json:"recommendations"`
	Challenges      []Challenge `json:"challenges"`
	SuggestedOrder  []string    `json:"suggestedOrder"` // relative paths, least depended-upon first
}

// FeatureCatalog is the complete output of one analysis run.
type FeatureCatalog struct {
	Metadata  CatalogMetadata  `json:"metadata"`
	Summary   CatalogSummary   `json:"summary"`
	Features  FeatureBuckets   `json:"features"`
	Graph     *DependencyGraph `json:"graph"`
	Migration MigrationGuide   `json:"migrationGuide"`
}

// AllFeatures returns every feature across the seven buckets, bucket
// order first, scan order within a bucket.
func (c *FeatureCatalog) AllFeatures() []FeatureMetadata {
	out := make([]FeatureMetadata, 0, c.Metadata.TotalFeatures)
	out = append(out, c.Features.Pages...)
	out = append(out, c.Features.Components...)
	out = append(out, c.Features.Services...)
	out = append(out, c.Features.Hooks...)
	out = append(out, c.Features.Utilities...)
	out = append(out, c.Features.Types...)
	out = append(out, c.Features.Modules...)
	return out
}
