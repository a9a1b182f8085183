// SPDX-License-Identifier: EPL-2.0

// Package server exposes the watermark pipeline over HTTP: an upload form,
// an upload endpoint answering with a WAV attachment and a health check.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ik5/audmark"
	"github.com/ik5/audmark/audio"
	"github.com/ik5/audmark/formats"
	"github.com/ik5/audmark/formats/wav"
	"github.com/ik5/audmark/internal/config"
)

// FieldName is the multipart field carrying the upload.
const FieldName = "audio"

// OutputName is the file name offered for the watermarked download.
const OutputName = "watermarked_audio.wav"

const (
	msgFailed         = "failed to apply watermark"
	msgTooLarge       = "upload too large"
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

//go:embed index.html
var indexHTML []byte

// Server handles watermark uploads.
type Server struct {
	listen    string
	maxUpload int64
	opts      []audmark.Option
	watermark *audio.Signal
	registry  *audio.Registry
	logger    *slog.Logger
	mux       *http.ServeMux
}

// New validates the settings and prepares a server mixing every upload
// with watermark.
func New(mix config.Mix, serve config.Serve, watermark *audio.Signal, logger *slog.Logger) (*Server, error) {
	if err := mix.Validate(); err != nil {
		return nil, err
	}

	if err := serve.Validate(); err != nil {
		return nil, err
	}

	if err := watermark.Validate(); err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		listen:    serve.Listen,
		maxUpload: serve.MaxUpload,
		opts:      mix.Options(logger),
		watermark: watermark,
		registry:  formats.NewRegistry(),
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /watermark", s.handleWatermark)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}

	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWatermark(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		s.fail(w, r, http.StatusRequestEntityTooLarge, msgTooLarge,
			fmt.Errorf("content length %d over %d", r.ContentLength, s.maxUpload))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, hdr, err := r.FormFile(FieldName)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, msgTooLarge, err)
			return
		}
		s.fail(w, r, http.StatusBadRequest, msgFailed, fmt.Errorf("reading upload: %w", err))
		return
	}
	defer file.Close()

	primary, err := s.decode(hdr.Filename, file)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, msgFailed, err)
		return
	}

	out, err := audmark.WatermarkSignal(primary, s.watermark, s.opts...)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, audio.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		s.fail(w, r, status, msgFailed, err)
		return
	}

	w.Header().Set("Content-Type", wav.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", OutputName))
	w.Header().Set("Content-Length", fmt.Sprint(wav.HeaderSize+out.FrameCount()*out.ChannelCount()*2))

	if err := wav.Write(w, out); err != nil {
		// headers are gone, only the log can tell
		s.logger.Error("streaming response", "upload", hdr.Filename, "error", err)
		return
	}

	s.logger.Debug("watermarked", "upload", hdr.Filename,
		"sample_rate", out.SampleRate, "channels", out.ChannelCount(), "frames", out.FrameCount())
}

func (s *Server) decode(name string, r io.Reader) (*audio.Signal, error) {
	dec, err := s.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	defer src.Close()

	return audmark.ReadSignal(src, s.opts...)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	s.logger.Error("watermark request failed", "path", r.URL.Path, "status", status, "error", err)
	http.Error(w, msg, status)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += int64(n)
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		)
	})
}
