// Package server implements the QRMosaic HTTP service: a JSON API for
// programmatic encode/decode plus a minimal web form, both thin layers over
// the shared pipeline.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
	"github.com/matzehuels/qrmosaic/pkg/pipeline"
)

// Server serves the QRMosaic HTTP API and web UI.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a Server with all routes registered. A nil runner gets the
// default pipeline; a nil logger gets the default logger.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{cfg: cfg, runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/", s.handleIndex)
	r.Post("/", s.handleForm)
	r.Route("/api", func(r chi.Router) {
		r.Post("/encode", s.handleEncode)
		r.Post("/decode", s.handleDecode)
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// maxUploadBytes returns the decode upload cap in bytes.
func (s *Server) maxUploadBytes() int64 {
	return int64(s.cfg.MaxUploadMB) << 20
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// =============================================================================
// JSON API
// =============================================================================

// encodeRequest is the POST /api/encode body. ChunkSize is a pointer so an
// absent field picks the configured default while an explicit zero still
// fails validation.
type encodeRequest struct {
	Data       string `json:"data"`
	ChunkSize  *int   `json:"chunk_size"`
	Passphrase string `json:"passphrase"`
	NoLabels   bool   `json:"no_labels"`
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req encodeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, s.maxUploadBytes())).Decode(&req); err != nil {
		s.writeError(w, qrerrors.Wrap(qrerrors.ErrCodeValidation, err, "invalid JSON body"))
		return
	}

	opts := pipeline.Options{
		ChunkSize:  s.cfg.ChunkSize,
		Passphrase: req.Passphrase,
		NoLabels:   req.NoLabels,
	}
	if req.ChunkSize != nil {
		opts.ChunkSize = *req.ChunkSize
	}

	data, err := s.runner.Encode(r.Context(), req.Data, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="multi_qr.png"`)
	w.Write(data)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		s.writeError(w, qrerrors.Wrap(qrerrors.ErrCodeValidation, err, "invalid multipart form"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, qrerrors.New(qrerrors.ErrCodeValidation, "no file uploaded (key 'file')"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes()))
	if err != nil {
		s.writeError(w, qrerrors.Wrap(qrerrors.ErrCodeInternal, err, "read upload"))
		return
	}

	passphrase := strings.TrimSpace(r.FormValue("passphrase"))
	if passphrase == "" {
		passphrase = strings.TrimSpace(r.URL.Query().Get("passphrase"))
	}

	res, err := s.runner.Decode(r.Context(), data, passphrase)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"data":   res.Text,
		"sha256": res.SHA256,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Error mapping
// =============================================================================

// writeError maps a pipeline error to a JSON error response. The response
// only exposes the error taxonomy, never raw internal messages. When the
// checksum layer recovered a stored hash before verification failed, it is
// included so callers can distinguish "wrong hash" from "no hash at all".
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := qrerrors.GetCode(err)
	status := http.StatusBadRequest
	msg := qrerrors.UserMessage(err)
	if code == "" || code == qrerrors.ErrCodeInternal {
		code = qrerrors.ErrCodeInternal
		status = http.StatusInternalServerError
		msg = "internal error"
		s.logger.Error("request failed", "err", err)
	}

	body := map[string]any{"error": msg, "code": code}
	var integrity *qrerrors.IntegrityError
	if errors.As(err, &integrity) {
		body["sha256"] = integrity.StoredHash
	}
	var missing *qrerrors.MissingChunksError
	if errors.As(err, &missing) {
		body["missing"] = missing.Indices
	}
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("write response", "err", err)
	}
}
