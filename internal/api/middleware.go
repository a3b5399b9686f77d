package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"pms/m/internal/auth"
)

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logrus.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
		}).Info("http request")
	})
}

// sessionMiddleware attaches a valid bearer session to the request context.
// Missing, malformed or expired tokens leave the request anonymous; requireRole
// decides whether the route needs a session.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		session, err := h.sessions.Parse(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			logrus.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).Debug("bearer token ignored")
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// requireRole admits sessions holding one of roles. It lets everything
// through when sessions are not enforced.
func (h *Handler) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !h.cfg.AuthRequired {
				next.ServeHTTP(w, r)
				return
			}
			session, ok := auth.FromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !lo.Contains(roles, session.Role) {
				respondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// actingAs rejects requests made on behalf of another pharmacist.
func (h *Handler) actingAs(w http.ResponseWriter, r *http.Request, username string) bool {
	if !h.cfg.AuthRequired {
		return true
	}
	session, ok := auth.FromContext(r.Context())
	if !ok || session.Username != strings.TrimSpace(username) {
		respondError(w, http.StatusForbidden, "Pharmacist does not match session")
		return false
	}
	return true
}
