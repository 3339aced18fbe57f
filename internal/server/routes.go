package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the websocket endpoint, the results API and, if staticDir is set, the web client.
func NewRouter(hub *Hub, store ResultStore, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(hub.log))
	r.Use(middleware.Recoverer)

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "clients": hub.ClientCount()})
		})
		if store == nil {
			return
		}
		r.Get("/results", GetResultsHandler(store))
		r.Get("/results/{id}", GetResultHandler(store))
		r.Get("/results/player/{name}", GetResultsByPlayerHandler(store))
	})

	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	return r
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start),
				"request_id": middleware.GetReqID(r.Context()),
			}).Debug("HTTP request.")
		})
	}
}

func GetResultsHandler(store ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := store.GetAll(r.Context())
		if err != nil {
			http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func GetResultHandler(store ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := store.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Result not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to fetch result", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func GetResultsByPlayerHandler(store ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := chi.URLParam(r, "name")
		if player == "" {
			http.Error(w, "Player name is required", http.StatusBadRequest)
			return
		}

		results, err := store.GetByPlayer(r.Context(), player)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "No results found for player", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
