package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vbonduro/roombook/internal/query"
	"github.com/vbonduro/roombook/internal/service"
)

type Server struct {
	service   *service.RoomService
	queries   *query.Client
	templates embed.FS
	mux       *http.ServeMux
	handler   http.Handler
	tmplFuncs template.FuncMap
	logger    *slog.Logger
}

func NewServer(svc *service.RoomService, queries *query.Client, tmpl embed.FS, logger *slog.Logger) *Server {
	s := &Server{
		service:   svc,
		queries:   queries,
		templates: tmpl,
		mux:       http.NewServeMux(),
		logger:    logger,
		tmplFuncs: template.FuncMap{
			"price": formatPrice,
		},
	}
	s.registerRoutes()
	s.handler = withRequestLog(logger, withSecurityHeaders(s.mux))
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/rooms", http.StatusSeeOther)
	})
	s.mux.HandleFunc("GET /rooms", s.handleListRooms)
	s.mux.HandleFunc("GET /rooms/{id}", s.handleRoomDetail)
	s.mux.HandleFunc("GET /room/{id}", s.handleLegacyRoomPath)
	s.mux.HandleFunc("GET /api/rooms", s.handleAPIListRooms)
	s.mux.HandleFunc("GET /api/rooms/{id}", s.handleAPIGetRoom)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// renderPage writes a full HTML document: the "base" layout of files.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	return s.render(w, http.StatusOK, "base", data, files)
}

// renderFragment writes only the named {{define}} block, for htmx swaps.
func (s *Server) renderFragment(w http.ResponseWriter, status int, name string, data any, files ...string) error {
	return s.render(w, status, name, data, files)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any, files []string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return fmt.Errorf("failed to parse %v: %w", files, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX reports whether r was issued by htmx rather than a full navigation.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// formatPrice renders a price without trailing zeros: 180, 240.5.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
