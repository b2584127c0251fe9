// Package server implements the depview HTTP API.
//
// The API stores projects as named graphs and serves computed layouts and
// rendered artifacts for them:
//
//	POST   /graphs                 store a project, returns its ID
//	GET    /graphs                 list stored graphs
//	GET    /graphs/{id}            fetch a stored graph
//	PUT    /graphs/{id}            replace a stored graph
//	DELETE /graphs/{id}            delete a stored graph
//	GET    /graphs/{id}/layout     computed layout as JSON
//	GET    /graphs/{id}/render.svg rendered SVG
//	GET    /healthz                liveness probe
//
// Layout endpoints accept ?focus=<task-id> and ?include_isolated=true, the
// same knobs the layout engine exposes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tomhaller/depview/pkg/cache"
	dverrors "github.com/tomhaller/depview/pkg/errors"
	"github.com/tomhaller/depview/pkg/observability"
	"github.com/tomhaller/depview/pkg/pipeline"
	"github.com/tomhaller/depview/pkg/task"
)

// requestTimeout bounds every request, including layout computation.
const requestTimeout = 30 * time.Second

// Server wires the store, the pipeline runner and the router.
type Server struct {
	store  Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. A nil runner gets a cache-less default; a nil logger
// logs to the default charm logger.
func New(store Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: store, runner: runner, logger: logger}
}

// Router builds the chi router with standard middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/graphs", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Get("/layout", s.handleLayout)
			r.Get("/render.svg", s.handleRenderSVG)
		})
	})

	return r
}

// Serve runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// observe reports request metrics through the observability hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var project task.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeInvalidInput, err, "decode project"))
		return
	}
	if err := project.Validate(); err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeInvalidProject, err, "invalid project"))
		return
	}

	now := time.Now().UTC()
	g := StoredGraph{
		ID:        uuid.NewString(),
		Project:   project,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(r.Context(), g); err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeStorage, err, "store graph"))
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	graphs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeStorage, err, "list graphs"))
		return
	}
	writeJSON(w, http.StatusOK, graphs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	g, ok := s.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.fetch(w, r)
	if !ok {
		return
	}

	var project task.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeInvalidInput, err, "decode project"))
		return
	}
	if err := project.Validate(); err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeInvalidProject, err, "invalid project"))
		return
	}

	existing.Project = project
	existing.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(r.Context(), existing); err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeStorage, err, "update graph"))
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		s.writeError(w, r, dverrors.New(dverrors.ErrCodeGraphNotFound, "graph %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeStorage, err, "delete graph"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, ok := s.fetch(w, r)
	if !ok {
		return
	}

	cg, err := s.scopedRunner(g.ID).ComputeLayout(r.Context(), &g.Project, s.layoutOptions(r))
	if err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeInternal, err, "compute layout"))
		return
	}
	writeJSON(w, http.StatusOK, cg)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	g, ok := s.fetch(w, r)
	if !ok {
		return
	}

	opts := s.layoutOptions(r)
	opts.Formats = []string{pipeline.FormatSVG}

	runner := s.scopedRunner(g.ID)
	cg, err := runner.ComputeLayout(r.Context(), &g.Project, opts)
	if err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeInternal, err, "compute layout"))
		return
	}
	artifacts, err := runner.Render(r.Context(), cg, opts)
	if err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeInternal, err, "render svg"))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

// fetch loads the graph named in the URL, writing the error response itself
// on failure.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) (StoredGraph, bool) {
	id := chi.URLParam(r, "id")
	g, err := s.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		s.writeError(w, r, dverrors.New(dverrors.ErrCodeGraphNotFound, "graph %s not found", id))
		return StoredGraph{}, false
	}
	if err != nil {
		s.writeError(w, r, dverrors.Wrap(dverrors.ErrCodeStorage, err, "load graph"))
		return StoredGraph{}, false
	}
	return g, true
}

// layoutOptions translates query parameters into pipeline options.
func (s *Server) layoutOptions(r *http.Request) pipeline.Options {
	return pipeline.Options{
		FocusID:         r.URL.Query().Get("focus"),
		IncludeIsolated: r.URL.Query().Get("include_isolated") == "true",
		Refresh:         r.URL.Query().Get("refresh") == "true",
		Logger:          s.logger,
	}
}

// scopedRunner shares the server's cache but namespaces keys per graph, so
// deleting or replacing one graph never collides with another's entries.
func (s *Server) scopedRunner(graphID string) *pipeline.Runner {
	return &pipeline.Runner{
		Cache:  s.runner.Cache,
		Keyer:  cache.NewScopedKeyer(s.runner.Keyer, "graph:"+graphID+":"),
		Logger: s.logger,
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    dverrors.Code `json:"code"`
	Message string        `json:"message"`
}

// writeError maps structured error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch dverrors.GetCode(err) {
	case dverrors.ErrCodeInvalidInput, dverrors.ErrCodeInvalidTask,
		dverrors.ErrCodeInvalidProject, dverrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case dverrors.ErrCodeNotFound, dverrors.ErrCodeGraphNotFound, dverrors.ErrCodeTaskNotFound:
		status = http.StatusNotFound
	case dverrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		observability.Server().OnError(r.Context(), r.Method, r.URL.Path, err)
	}

	code := dverrors.GetCode(err)
	if code == "" {
		code = dverrors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: dverrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
