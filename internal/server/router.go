// Package server exposes personality generation over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/craigtrim/persona-api/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter wires every endpoint against svc.
func NewRouter(svc service.PersonaService, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &PersonalityHandler{svc: svc, log: log}

	r := mux.NewRouter()
	r.Use(requestLogger(log))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	p := r.PathPrefix("/personality").Subrouter()
	p.HandleFunc("/random", h.Random).Methods("GET")
	p.HandleFunc("/profile", h.Profile).Methods("POST")

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(started)),
			)
		})
	}
}
