package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/fixtures"
	"github.com/aretw0/fixtures/internal/logging"
	"github.com/aretw0/fixtures/pkg/data"
	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/aretw0/fixtures/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// InfoURI names the resource describing the data directory.
const InfoURI = "fixtures://info"

// Fixtures is the subset of *fixtures.Session exposed as MCP tools.
type Fixtures interface {
	Load(ctx context.Context, filename string) (any, error)
	Reload(ctx context.Context, filename string) (any, error)
	Devices(ctx context.Context, f data.DeviceFilter) []map[string]any
	ValidateFile(ctx context.Context, filename, schemaName string, each bool) *schema.Result
	ListFiles() ([]string, error)
	Info(ctx context.Context) domain.Info
}

var _ Fixtures = (*fixtures.Session)(nil)

// FileList is the output of list_fixtures.
type FileList struct {
	Files []string `json:"files" jsonschema_description:"Fixture files with a registered loader"`
}

// FixtureArgs selects a fixture file.
type FixtureArgs struct {
	File   string `json:"file"`
	Reload bool   `json:"reload,omitempty"`
}

// FixtureResponse carries a parsed fixture document.
type FixtureResponse struct {
	File  string `json:"file" jsonschema_description:"The requested file name"`
	Value any    `json:"value" jsonschema_description:"The parsed document"`
}

// DeviceArgs filters get_devices.
type DeviceArgs struct {
	Platform string `json:"platform,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// DeviceList is the output of get_devices.
type DeviceList struct {
	Devices []map[string]any `json:"devices" jsonschema_description:"Matching device rows"`
	Count   int              `json:"count"`
}

// ValidateArgs names the file and schema for validate_fixture.
type ValidateArgs struct {
	File   string `json:"file"`
	Schema string `json:"schema"`
	Each   bool   `json:"each,omitempty"`
}

// Server wraps a fixture session and exposes it as an MCP Server.
type Server struct {
	fixtures  Fixtures
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for transport events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(fx Fixtures, opts ...Option) *Server {
	s := &Server{
		fixtures:  fx,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("fixtures-mcp", strings.TrimSpace(fixtures.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
// It returns when ctx is cancelled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_fixtures",
		mcp.WithDescription("List the fixture files available in the data directory."),
		mcp.WithOutputSchema[FileList](),
	), mcp.NewStructuredToolHandler(s.handleListFixtures))

	s.mcpServer.AddTool(mcp.NewTool("get_fixture",
		mcp.WithDescription("Return the parsed content of a JSON, YAML or CSV fixture file."),
		mcp.WithString("file", mcp.Required(), mcp.Description("File name relative to the data directory")),
		mcp.WithBoolean("reload", mcp.Description("Bypass the cache and parse the file again")),
		mcp.WithOutputSchema[FixtureResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetFixture))

	s.mcpServer.AddTool(mcp.NewTool("get_devices",
		mcp.WithDescription("List test devices, optionally filtered by platform and priority."),
		mcp.WithString("platform", mcp.Description("Platform name, case-insensitive (e.g. android, ios)")),
		mcp.WithString("priority", mcp.Description("Test priority, case-insensitive (e.g. high)")),
		mcp.WithOutputSchema[DeviceList](),
	), mcp.NewStructuredToolHandler(s.handleGetDevices))

	s.mcpServer.AddTool(mcp.NewTool("validate_fixture",
		mcp.WithDescription("Validate a fixture file against a named schema."),
		mcp.WithString("file", mcp.Required(), mcp.Description("File name relative to the data directory")),
		mcp.WithString("schema", mcp.Required(), mcp.Description("Schema name without the .json extension")),
		mcp.WithBoolean("each", mcp.Description("Validate every element of a list document on its own")),
		mcp.WithOutputSchema[schema.Result](),
	), mcp.NewStructuredToolHandler(s.handleValidateFixture))
}

func (s *Server) handleListFixtures(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (FileList, error) {
	files, err := s.fixtures.ListFiles()
	if err != nil {
		return FileList{}, err
	}
	return FileList{Files: files}, nil
}

func (s *Server) handleGetFixture(ctx context.Context, request mcp.CallToolRequest, args FixtureArgs) (FixtureResponse, error) {
	if !safeName(args.File) {
		return FixtureResponse{}, fmt.Errorf("invalid file name %q", args.File)
	}
	load := s.fixtures.Load
	if args.Reload {
		load = s.fixtures.Reload
	}
	value, err := load(ctx, args.File)
	if err != nil {
		return FixtureResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return FixtureResponse{File: args.File, Value: value}, nil
}

func (s *Server) handleGetDevices(ctx context.Context, request mcp.CallToolRequest, args DeviceArgs) (DeviceList, error) {
	devices := s.fixtures.Devices(ctx, data.DeviceFilter{Platform: args.Platform, Priority: args.Priority})
	return DeviceList{Devices: devices, Count: len(devices)}, nil
}

func (s *Server) handleValidateFixture(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (schema.Result, error) {
	if !safeName(args.File) || args.Schema == "" {
		return schema.Result{}, errors.New("a plain file name and a schema are required")
	}
	return *s.fixtures.ValidateFile(ctx, args.File, args.Schema, args.Each), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(InfoURI, "Fixture Data Summary",
		mcp.WithMIMEType("application/json"),
	), s.readInfo)
}

func (s *Server) readInfo(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.fixtures.Info(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to encode info: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      InfoURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func safeName(name string) bool {
	return name != "" && filepath.Base(name) == name && !strings.HasPrefix(name, ".")
}
