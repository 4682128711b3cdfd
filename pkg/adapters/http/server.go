package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/fixtures"
	"github.com/aretw0/fixtures/internal/logging"
	"github.com/aretw0/fixtures/pkg/data"
	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/aretw0/fixtures/pkg/loader"
	"github.com/aretw0/fixtures/pkg/schema"
	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize bounds the documents accepted by POST /validate.
const maxBodySize = 1 << 20

// Fixtures is the subset of *fixtures.Session served over HTTP.
type Fixtures interface {
	Load(ctx context.Context, filename string) (any, error)
	Reload(ctx context.Context, filename string) (any, error)
	Users(ctx context.Context, category string) []map[string]any
	UserByID(ctx context.Context, id, category string) map[string]any
	Devices(ctx context.Context, f data.DeviceFilter) []map[string]any
	Scenario(ctx context.Context, name string) any
	EnvironmentData(ctx context.Context, env string) map[string]any
	ValidateWithSchema(value any, name string) *schema.Result
	ValidateFile(ctx context.Context, filename, schemaName string, each bool) *schema.Result
	ClearCache(ctx context.Context, filename string) error
	ListFiles() ([]string, error)
	Info(ctx context.Context) domain.Info
}

var _ Fixtures = (*fixtures.Session)(nil)

// Server serves fixture data as JSON.
type Server struct {
	Fixtures Fixtures
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithGatherer exposes the given registry on GET /metrics.
// Without it the default prometheus registry is served.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the fixture session.
func NewHandler(fx Fixtures, opts ...Option) http.Handler {
	server := &Server{
		Fixtures: fx,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/files", server.GetFiles)
	r.Get("/data/{file}", server.GetData)
	r.Get("/users/{category}", server.GetUsers)
	r.Get("/users/{category}/{id}", server.GetUser)
	r.Get("/devices", server.GetDevices)
	r.Get("/scenarios/{name}", server.GetScenario)
	r.Get("/environments/{env}", server.GetEnvironment)
	r.Post("/validate/{schema}", server.PostValidate)
	r.Delete("/cache", server.DeleteCache)
	r.Delete("/cache/{file}", server.DeleteCache)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
		w.Header().Set("Access-Control-Expose-Headers", "ETag")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"app":     "fixtures-http",
		"version": strings.TrimSpace(fixtures.Version),
		"data":    s.Fixtures.Info(r.Context()),
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

// GetFiles handles the GET /files request.
func (s *Server) GetFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.Fixtures.ListFiles()
	if err != nil {
		s.fail(w, "ListFiles failed", http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, files)
}

// GetData handles the GET /data/{file} request.
// The reload query parameter bypasses the cache.
func (s *Server) GetData(w http.ResponseWriter, r *http.Request) {
	file, ok := s.filename(w, r)
	if !ok {
		return
	}

	load := s.Fixtures.Load
	if reload, _ := strconv.ParseBool(r.URL.Query().Get("reload")); reload {
		load = s.Fixtures.Reload
	}
	value, err := load(r.Context(), file)
	if err != nil {
		s.fail(w, "Load failed", statusOf(err), err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, value)
}

// GetUsers handles the GET /users/{category} request.
func (s *Server) GetUsers(w http.ResponseWriter, r *http.Request) {
	users := s.Fixtures.Users(r.Context(), chi.URLParam(r, "category"))
	s.writeJSON(w, r, http.StatusOK, users)
}

// GetUser handles the GET /users/{category}/{id} request.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := s.Fixtures.UserByID(r.Context(), id, chi.URLParam(r, "category"))
	if user == nil {
		http.Error(w, fmt.Sprintf("user %q not found", id), http.StatusNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, user)
}

// GetDevices handles the GET /devices request.
func (s *Server) GetDevices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	devices := s.Fixtures.Devices(r.Context(), data.DeviceFilter{
		Platform: q.Get("platform"),
		Priority: q.Get("priority"),
	})
	s.writeJSON(w, r, http.StatusOK, devices)
}

// GetScenario handles the GET /scenarios/{name} request.
func (s *Server) GetScenario(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	scenario := s.Fixtures.Scenario(r.Context(), name)
	if scenario == nil {
		http.Error(w, fmt.Sprintf("scenario %q not found", name), http.StatusNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, scenario)
}

// GetEnvironment handles the GET /environments/{env} request.
func (s *Server) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.Fixtures.EnvironmentData(r.Context(), chi.URLParam(r, "env")))
}

// PostValidate handles the POST /validate/{schema} request.
// With a file query parameter the named fixture is validated; otherwise the
// request body is. The each parameter validates list elements one by one.
func (s *Server) PostValidate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "schema")
	q := r.URL.Query()

	if file := q.Get("file"); file != "" {
		if !safeName(file) {
			http.Error(w, fmt.Sprintf("invalid file name %q", file), http.StatusBadRequest)
			return
		}
		each, _ := strconv.ParseBool(q.Get("each"))
		s.writeResult(w, r, s.Fixtures.ValidateFile(r.Context(), file, name, each))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	value, err := loader.DecodeJSON(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}
	s.writeResult(w, r, s.Fixtures.ValidateWithSchema(value, name))
}

// DeleteCache handles DELETE /cache and DELETE /cache/{file}.
func (s *Server) DeleteCache(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if file != "" && !safeName(file) {
		http.Error(w, fmt.Sprintf("invalid file name %q", file), http.StatusBadRequest)
		return
	}
	if err := s.Fixtures.ClearCache(r.Context(), file); err != nil {
		s.fail(w, "ClearCache failed", http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) filename(w http.ResponseWriter, r *http.Request) (string, bool) {
	file := chi.URLParam(r, "file")
	if !safeName(file) {
		http.Error(w, fmt.Sprintf("invalid file name %q", file), http.StatusBadRequest)
		return "", false
	}
	return file, true
}

// writeResult answers 200 for a valid result and 422 otherwise.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res *schema.Result) {
	status := http.StatusOK
	if !res.Valid {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, r, status, res)
}

// writeJSON encodes v with a content ETag and honours If-None-Match.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.fail(w, "Response encode failed", http.StatusInternalServerError, err)
		return
	}

	etag := ETag(buf.Bytes())
	w.Header().Set("ETag", etag)
	if status == http.StatusOK && r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.Logger.Error("Response write failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, msg string, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error(msg, "err", err)
	} else {
		s.Logger.Warn(msg, "err", err)
	}
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), status)
}

// ETag returns the strong entity tag of body.
func ETag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
}

func statusOf(err error) int {
	var formatErr *domain.DataFormatError
	switch {
	case errors.Is(err, domain.ErrDataNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &formatErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func safeName(name string) bool {
	return name != "" && filepath.Base(name) == name && !strings.HasPrefix(name, ".")
}
