/*
Package handler provides the HTTP handlers and routing setup for the chat server.

This file defines the main Router, applying request id, logging, metrics,
CORS and panic recovery before delegating to the chat handlers.
*/
package handler

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"nickchat/internal/app/storage"
	"nickchat/internal/configs"
	"nickchat/internal/pkg/logx"
	"nickchat/internal/pkg/metrics"
	"nickchat/internal/pkg/resp"
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
func Router(deps *AppDeps) http.Handler {
	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(metrics.HTTPMetricsMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "nickchat",
		})
	})

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/chat", HandleHistory(deps))
		api.Post("/chat/send", HandleSend(deps))
		api.Post("/user/setup", HandleSetup(deps))
	})

	if deps.Config.StorageDriver == configs.StorageDriverLocal {
		fs := http.StripPrefix(storage.LocalURLPrefix+"/", http.FileServer(http.Dir(deps.Config.UploadDir)))
		r.Get(storage.LocalURLPrefix+"/*", func(w http.ResponseWriter, r *http.Request) {
			// Serve stored files only: no directory listings, no in-flight temp files.
			if strings.HasSuffix(r.URL.Path, "/") || strings.HasPrefix(path.Base(r.URL.Path), ".") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("X-Content-Type-Options", "nosniff")
			fs.ServeHTTP(w, r)
		})
	}

	return r
}
