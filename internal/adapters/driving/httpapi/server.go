// Package httpapi exposes ingestion and querying over HTTP. Uploads are
// multipart posts, answers stream back as server-sent events.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Default server timeouts. The write timeout is long because answer
// streams stay open while the model generates.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 300 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	// MaxUploadBytes caps one document upload (32 MiB).
	MaxUploadBytes = 32 << 20
)

// Server serves the docchat HTTP API.
type Server struct {
	ingester  driving.IngestionService
	querier   driving.QueryService
	documents driving.DocumentService
	apiToken  string
	addr      string
	topK      int
}

// Option configures the server.
type Option func(*Server)

// WithTopK sets the number of passages retrieved per query. Zero keeps
// the query service's default.
func WithTopK(k int) Option {
	return func(s *Server) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewServer creates the API server. An empty apiToken disables bearer
// auth.
func NewServer(
	ingester driving.IngestionService,
	querier driving.QueryService,
	documents driving.DocumentService,
	addr string,
	apiToken string,
	opts ...Option,
) *Server {
	s := &Server{
		ingester:  ingester,
		querier:   querier,
		documents: documents,
		apiToken:  apiToken,
		addr:      addr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("POST /api/upload", s.requireAuth(http.HandlerFunc(s.handleUpload)))
	mux.Handle("POST /api/query", s.requireAuth(http.HandlerFunc(s.handleQuery)))
	mux.Handle("GET /api/documents", s.requireAuth(http.HandlerFunc(s.handleListDocuments)))
	mux.Handle("GET /api/documents/{id}", s.requireAuth(http.HandlerFunc(s.handleGetDocument)))

	return s.logRequests(mux)
}

// Start runs the server until ctx is cancelled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("API listening on %s", s.addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// requireAuth enforces bearer auth when a token is configured.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken != "" && r.Header.Get("Authorization") != "Bearer "+s.apiToken {
			writeErr(w, http.StatusUnauthorized, "unauthorized", "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}
