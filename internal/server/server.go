// Package server 提供渲染 DSL 的 HTTP 接口。
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ByLCY/brick/internal/pipeline"
	"github.com/ByLCY/brick/layout"
	"github.com/ByLCY/brick/renderer"
	canvasrenderer "github.com/ByLCY/brick/renderer/canvas"
)

const defaultMaxBody = 1 << 20

type Options struct {
	Tokens       *layout.Tokens
	Highlight    bool
	RTL          bool
	FontPath     string
	FontSize     float64
	MaxBodyBytes int64
	Logger       *slog.Logger
}

type Server struct {
	opts      Options
	log       *slog.Logger
	measurer  *canvasrenderer.Renderer
	renderers map[string]renderer.Renderer
	router    *mux.Router
}

// New 创建服务并预先加载字体。
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	s := &Server{opts: opts, log: opts.Logger, renderers: map[string]renderer.Renderer{}}
	for _, f := range []canvasrenderer.Format{canvasrenderer.FormatSVG, canvasrenderer.FormatPDF} {
		r, err := canvasrenderer.New(canvasrenderer.Options{Format: f, FontPath: opts.FontPath, FontSize: opts.FontSize})
		if err != nil {
			return nil, err
		}
		s.renderers[string(f)] = r
		if s.measurer == nil {
			s.measurer = r
		}
	}
	s.renderers["json"] = renderer.Func(layout.MarshalDebugJSON)

	r := mux.NewRouter()
	r.Use(s.recovery)
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/render", s.render).Methods(http.MethodPost)
	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe 在 ctx 取消后优雅关闭。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

var contentTypes = map[string]string{
	"svg":  "image/svg+xml",
	"pdf":  "application/pdf",
	"json": "application/json",
}

// render 处理 POST /render?format=svg|pdf|json&rtl=1&data={...}，请求体为 DSL 文本。
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "svg"
	}
	out, ok := s.renderers[format]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unsupported format %q", format)})
		return
	}
	rtl := s.opts.RTL
	if v := q.Get("rtl"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rtl value"})
			return
		}
		rtl = b
	}
	var data any
	if raw := q.Get("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid data json"})
			return
		}
	}

	p := pipeline.Pipeline{
		Measurer: s.measurer,
		RTL:      rtl,
		Layout:   layout.Options{Tokens: s.opts.Tokens, Highlight: s.opts.Highlight, Logger: s.log},
	}
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body failed"})
		return
	}
	res, err := p.Run(bytes.NewReader(src), data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	payload, err := out.Render(res)
	if err != nil {
		s.log.Error("render failed", "format", format, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	failed := 0
	for _, br := range res.Blocks {
		if br.Failed() {
			failed++
		}
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Brick-Blocks", strconv.Itoa(len(res.Blocks)))
	w.Header().Set("X-Brick-Failed-Blocks", strconv.Itoa(failed))
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.log.Error("panic recovered", "path", r.URL.Path, "panic", v)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
