// Package httpapi serves a host function registry over HTTP with gin.
//
//	GET  /v1/manifest    module manifest with request and response schemas
//	POST /v1/call/:name  invoke a function; the body is its JSON request
//
// Responses are the function's JSON bytes unchanged. Dispatch failures
// (unknown name, malformed or oversized request) use the status carried
// in hostfuncs.ErrorResponse; domain failures such as an empty range are
// ordinary 200 responses with an error field.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reglet-dev/reglet-rand/application/schema"
	"github.com/reglet-dev/reglet-rand/domain/entities"
	rerrors "github.com/reglet-dev/reglet-rand/domain/errors"
	"github.com/reglet-dev/reglet-rand/hostfuncs"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxBodySize limits call request bodies (1MB).
const DefaultMaxBodySize = 1 * 1024 * 1024

// RequestIDHeader carries the request ID; one is generated when absent.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 5 * time.Second

// Server exposes one registry over HTTP.
type Server struct {
	registry    *hostfuncs.HandlerRegistry
	manifest    entities.Manifest
	logger      *slog.Logger
	router      *gin.Engine
	maxBodySize int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxBodySize sets the largest accepted call body in bytes.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

// NewServer builds the routes for registry. The manifest is generated once,
// since the registry cannot change.
func NewServer(registry *hostfuncs.HandlerRegistry, opts ...Option) (*Server, error) {
	manifest, err := schema.Manifest(registry)
	if err != nil {
		return nil, fmt.Errorf("build manifest: %w", err)
	}

	s := &Server{
		registry:    registry,
		manifest:    manifest,
		logger:      slog.Default(),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.requestLogger())

	v1 := s.router.Group("/v1")
	v1.GET("/manifest", s.handleManifest)
	v1.POST("/call/:name", s.handleCall)

	return s, nil
}

// Handler returns the HTTP handler serving the routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.InfoContext(ctx, "http: listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: serve %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http: shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) handleManifest(c *gin.Context) {
	c.JSON(http.StatusOK, s.manifest)
}

func (s *Server) handleCall(c *gin.Context) {
	name := c.Param("name")

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sizeErr := &rerrors.MemoryError{Requested: int(s.maxBodySize) + 1, Limit: int(s.maxBodySize)}
			resp := hostfuncs.NewValidationError(sizeErr.Error())
			c.Data(http.StatusRequestEntityTooLarge, "application/json", resp.ToJSON())
			return
		}
		c.Data(http.StatusBadRequest, "application/json",
			hostfuncs.NewValidationError("failed to read request body: "+err.Error()).ToJSON())
		return
	}

	resp, err := s.registry.Invoke(c.Request.Context(), name, body)
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "http: handler invocation failed", "function", name, "error", err)
		c.Data(http.StatusInternalServerError, "application/json", hostfuncs.NewInternalError(err.Error()).ToJSON())
		return
	}

	if decl, ok := s.registry.Decl(name); ok && decl.Effectful {
		c.Header("Cache-Control", "no-store")
	}
	c.Data(dispatchStatus(resp), "application/json", resp)
}

// dispatchStatus maps a hostfuncs.ErrorResponse body to its code. Anything
// else, including domain errors carried as objects, is 200.
func dispatchStatus(resp []byte) int {
	var probe struct {
		Error json.RawMessage `json:"error"`
		Code  int             `json:"code"`
	}
	if err := json.Unmarshal(resp, &probe); err != nil {
		return http.StatusOK
	}
	if bytes.HasPrefix(bytes.TrimSpace(probe.Error), []byte(`"`)) && probe.Code >= 400 && probe.Code < 600 {
		return probe.Code
	}
	return http.StatusOK
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()
		s.logger.DebugContext(c.Request.Context(), "http: request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
