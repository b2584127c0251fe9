package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomhaller/depview/pkg/layout"
	"github.com/tomhaller/depview/pkg/task"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	s := New(NewMemoryStore(), nil, nil)
	return s, s.Router()
}

func projectBody(t *testing.T) *bytes.Reader {
	t.Helper()
	p := task.Project{
		Name: "roadmap",
		Tasks: []task.Record{
			{ID: "a", Title: "design", Status: task.StatusCompleted, Type: task.TypePlanning},
			{ID: "b", Title: "build", Status: task.StatusInProgress, Type: task.TypeFeature},
		},
		Graph: task.DependencyGraph{DependsOn: map[string][]string{"b": {"a"}}},
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal project: %v", err)
	}
	return bytes.NewReader(data)
}

func createGraph(t *testing.T, router http.Handler) StoredGraph {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphs", projectBody(t)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var g StoredGraph
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if g.ID == "" {
		t.Fatal("created graph has no ID")
	}
	return g
}

func TestCreateAndGetGraph(t *testing.T) {
	_, router := newTestServer(t)
	g := createGraph(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphs/"+g.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var got StoredGraph
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Project.Name != "roadmap" || len(got.Project.Tasks) != 2 {
		t.Errorf("stored project = %+v", got.Project)
	}
}

func TestCreateRejectsInvalidProject(t *testing.T) {
	_, router := newTestServer(t)

	body := `{"name":"dup","tasks":[{"id":"a","title":"x","status":"not-started","type":"bug"},{"id":"a","title":"y","status":"not-started","type":"bug"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphs", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code != "INVALID_PROJECT" {
		t.Errorf("error code = %s", resp.Code)
	}
}

func TestGetMissingGraph(t *testing.T) {
	_, router := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphs/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	_, router := newTestServer(t)
	g := createGraph(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphs/"+g.ID+"/layout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("layout status = %d, body %s", rec.Code, rec.Body.String())
	}

	var cg layout.ComputedGraph
	if err := json.Unmarshal(rec.Body.Bytes(), &cg); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(cg.Nodes) != 2 || len(cg.Edges) != 1 {
		t.Errorf("layout = %d nodes, %d edges", len(cg.Nodes), len(cg.Edges))
	}
}

func TestLayoutFocusQuery(t *testing.T) {
	_, router := newTestServer(t)
	g := createGraph(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphs/"+g.ID+"/layout?focus=a", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("layout status = %d", rec.Code)
	}

	var cg layout.ComputedGraph
	if err := json.Unmarshal(rec.Body.Bytes(), &cg); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(cg.Nodes) != 2 {
		t.Errorf("focused layout nodes = %d, want 2", len(cg.Nodes))
	}
}

func TestRenderSVGEndpoint(t *testing.T) {
	_, router := newTestServer(t)
	g := createGraph(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphs/"+g.ID+"/render.svg", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("render status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("response is not SVG")
	}
}

func TestUpdateAndDeleteGraph(t *testing.T) {
	_, router := newTestServer(t)
	g := createGraph(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/graphs/"+g.ID, projectBody(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/graphs/"+g.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphs/"+g.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "x"); err != ErrNotFound {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "x"); err != ErrNotFound {
		t.Errorf("Delete missing = %v, want ErrNotFound", err)
	}
	if err := s.Update(ctx, StoredGraph{ID: "x"}); err != ErrNotFound {
		t.Errorf("Update missing = %v, want ErrNotFound", err)
	}
}
