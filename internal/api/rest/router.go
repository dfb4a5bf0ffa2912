// Package rest provides the JSON HTTP API used by the web player.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ringplay/internal/app/library"
	"github.com/osa030/ringplay/internal/infra/config"
)

// API serves the playlist routes.
type API struct {
	library *library.Service
	config  *config.Config
}

// New creates the REST API.
func New(lib *library.Service, cfg *config.Config) *API {
	return &API{
		library: lib,
		config:  cfg,
	}
}

// Router returns a router with the common middleware and every /api route.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(&zlog.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Connect-Protocol-Version", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Ringplay-Code"},
		AllowCredentials: true,
	}))

	a.Mount(r)
	return r
}

// Mount registers the /api routes on r.
func (a *API) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/playlists", a.handlePlaylists)
		r.Post("/add_playlist", a.handleAddPlaylist)
		r.Post("/add_song", a.handleAddSong)

		r.Route("/playlist/{name}", func(r chi.Router) {
			r.Get("/", a.handlePlaylist)
			r.Get("/current", a.handleCurrent)
			r.Post("/next", a.handleNext)
			r.Post("/previous", a.handlePrevious)
			r.Post("/set_current/{index}", a.handleSetCurrent)
			r.Post("/sort", a.handleSort)
			r.Post("/sort/{key}", a.handleSortBy)
		})
	})
}

// LoggerMiddleware logs one access line per request.
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			defer func() {
				logger.Info().
					Str("type", "access").
					Fields(map[string]any{
						"remote_ip":  r.RemoteAddr,
						"url":        r.URL.Path,
						"proto":      r.Proto,
						"method":     r.Method,
						"status":     ww.Status(),
						"latency_ms": float64(time.Since(t1).Nanoseconds()) / 1000000.0,
						"bytes_out":  ww.BytesWritten(),
					}).
					Msg("incoming_request")
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
