package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lane-lab/kanvas/pkg/usecase"
	"github.com/lane-lab/kanvas/pkg/utils/logging"
)

// Server exposes one board session over a JSON API
type Server struct {
	router *chi.Mux
	board  *usecase.Board
}

type Options func(*Server)

// New creates a Server around the given board session
func New(board *usecase.Board, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		board:  board,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/views", s.viewsHandler)
		r.Post("/views/select", s.selectViewHandler)

		r.Get("/board", s.boardHandler)
		r.Post("/board/refresh", s.refreshHandler)
		r.Delete("/board/notices", s.drainNoticesHandler)
		r.Post("/board/move", s.moveHandler)
		r.Post("/board/drag", s.beginDragHandler)
		r.Delete("/board/drag", s.cancelDragHandler)

		r.Post("/filters/{field}", s.filterHandler)
		r.Delete("/filters", s.clearFiltersHandler)
		r.Post("/presets/{id}", s.presetHandler)
		r.Post("/sort", s.sortHandler)
		r.Post("/search", s.searchHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck // header already committed
}
