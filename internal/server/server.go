// Package server exposes document validation over HTTP.
//
// The API is validation-only: rendering requires external tools and stays
// on the CLI side. Editor integrations POST a document and get the full
// diagnostic report back.
//
// # Endpoints
//
//   - POST /v1/validate/excalidraw: body is the scene JSON, response is the
//     validation report
//   - GET /healthz: liveness probe
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/diagramlab/diaglint/pkg/excalidraw"
	"github.com/diagramlab/diaglint/pkg/pipeline"
)

// maxBodyBytes bounds uploaded documents. Real scenes are well under this;
// anything larger is abuse or a mistake.
const maxBodyBytes = 10 << 20

// Server is the validation HTTP API.
type Server struct {
	logger *log.Logger
	runner *pipeline.Runner
}

// New creates a server. A nil logger disables request logging.
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		logger: logger,
		runner: pipeline.NewRunner(nil, logger),
	}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate/excalidraw", s.handleValidateExcalidraw)
	})

	return r
}

// ListenAndServe runs the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// logRequests logs each request with method, path, status, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// handleValidateExcalidraw decodes the posted scene and returns its
// validation report. A document that fails to parse is a 400; a document
// that parses but has findings is still a 200, with the findings in the
// report.
func (s *Server) handleValidateExcalidraw(w http.ResponseWriter, r *http.Request) {
	strict := r.URL.Query().Get("strict_geometry") == "true"

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	doc, err := excalidraw.Decode(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	report := s.runner.ValidateDocument(doc, pipeline.ValidateOptions{Verbose: strict})
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
