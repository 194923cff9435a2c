package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skoglund/feature-scan/pkg/analysis"
	"github.com/skoglund/feature-scan/pkg/jobs"
	"github.com/skoglund/feature-scan/pkg/model"
	"github.com/skoglund/feature-scan/pkg/pubsub"
)

func newTestServer(t *testing.T) (*Server, *jobs.Registry) {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "App.tsx"), []byte("export default function App() { return null; }\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	publisher := pubsub.NewSSEPublisher()
	t.Cleanup(func() { publisher.Close() })
	runner := analysis.NewRunner(root, "demo", publisher)
	registry := jobs.NewRegistry()
	return NewServer(runner, registry, publisher, nil), registry
}

func waitForJob(t *testing.T, srv *Server, id string) jobs.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/jobs/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("job poll status = %d: %s", rec.Code, rec.Body.String())
		}
		var job jobs.Job
		if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
			t.Fatalf("decode job: %v", err)
		}
		if job.Status == jobs.StatusCompleted || job.Status == jobs.StatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return jobs.Job{}
}

func TestAnalyzeAndPollJob(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/analyze", bytes.NewBufferString(`{"reason":"test"}`)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("analyze status = %d: %s", rec.Code, rec.Body.String())
	}
	var job jobs.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.ID == "" || job.Reason != "test" {
		t.Errorf("Submitted job wrong: %+v", job)
	}

	done := waitForJob(t, srv, job.ID)
	if done.Status != jobs.StatusCompleted || done.Result == nil {
		t.Errorf("Expected completed job with result, got %+v", done)
	}
}

func TestCatalogAndGraphEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	// Before any run both endpoints report unavailable.
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/catalog", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("catalog before run = %d, want 503", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/analyze", nil))
	var job jobs.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	waitForJob(t, srv, job.ID)

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/catalog", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog status = %d", rec.Code)
	}
	var cat model.FeatureCatalog
	if err := json.Unmarshal(rec.Body.Bytes(), &cat); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if cat.Metadata.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", cat.Metadata.TotalFiles)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/graph", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("graph status = %d", rec.Code)
	}
	var g model.DependencyGraph
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if len(g.Nodes) != 1 {
		t.Errorf("graph nodes = %d, want 1", len(g.Nodes))
	}
}

func TestDiffEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	empty := model.FeatureBuckets{
		Pages: []model.FeatureMetadata{}, Components: []model.FeatureMetadata{},
		Services: []model.FeatureMetadata{}, Hooks: []model.FeatureMetadata{},
		Utilities: []model.FeatureMetadata{}, Types: []model.FeatureMetadata{},
		Modules: []model.FeatureMetadata{},
	}
	a := &model.FeatureCatalog{Features: empty}
	b := &model.FeatureCatalog{Features: empty}
	b.Features.Components = []model.FeatureMetadata{{FilePath: "New.tsx"}}

	body, _ := json.Marshal(map[string]*model.FeatureCatalog{"a": a, "b": b})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/diff", bytes.NewBuffer(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("diff status = %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Summary struct {
			Added int `json:"added"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode diff: %v", err)
	}
	if result.Summary.Added != 1 {
		t.Errorf("Added = %d, want 1", result.Summary.Added)
	}
}

func TestUnknownJobAndTopic(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/jobs/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown job = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/events?topic=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown topic = %d, want 400", rec.Code)
	}
}
