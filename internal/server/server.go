package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"scorecard/internal/metrics"
	"scorecard/internal/score"
)

// Server encapsulates the HTTP server of the application, providing controlled startup and shutdown.
type Server struct {
	server *http.Server
}

// ListenAndServe starts the HTTP server and blocks until it is stopped.
// After Shutdown it returns http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, letting active requests finish within ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, including the CORS layer.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// CORSOptions lists the origins allowed to call the API from a browser.
type CORSOptions struct {
	AllowedOrigins []string
	// MaxAge is how long, in seconds, preflight results may be cached.
	MaxAge int
}

// NewServer creates and configures a new server instance listening on address.
//
// Registers the API v1 routes behind a CORS layer and sets read/write timeouts and a header
// size limit.
func NewServer(
	address string,
	corsOptions CORSOptions,
	evaluator *score.Evaluator,
	recorder *metrics.Recorder,
) *Server {
	router := NewApiV1Router(evaluator, recorder)
	handler := cors.Handler(cors.Options{
		AllowedOrigins: corsOptions.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         corsOptions.MaxAge,
	})(router.Mux())

	s := Server{&http.Server{
		Addr:           address,
		Handler:        handler,
		ReadTimeout:    time.Second * 3,
		WriteTimeout:   time.Second * 3,
		MaxHeaderBytes: 1024 * 10,
	}}

	return &s
}
