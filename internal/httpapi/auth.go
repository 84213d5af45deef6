package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

type authContextKey struct{}

// AuthMiddleware resolves the bearer session on staff endpoints.
// Public endpoints (registration, tracking, purpose list) pass
// through without a session; handlers that need an actor check again.
func AuthMiddleware(visitStore store.VisitStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := sessionIDFromRequest(r)
		if sessionID == "" {
			if isPublicEndpoint(r) {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}
		session, err := visitStore.GetSession(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				if isPublicEndpoint(r) {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "unauthorized", "invalid session")
				return
			}
			writeError(w, requestIDFromRequest(r), http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		ctx := context.WithValue(r.Context(), authContextKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authSessionFromContext(ctx context.Context) (store.Session, bool) {
	value := ctx.Value(authContextKey{})
	if value == nil {
		return store.Session{}, false
	}
	session, ok := value.(store.Session)
	return session, ok
}

// actorFromContext returns the acting staff member, or the zero actor
// when the request is anonymous. The second return reports whether a
// staff session is present.
func actorFromContext(ctx context.Context) (models.Actor, bool) {
	session, ok := authSessionFromContext(ctx)
	if !ok {
		return models.Actor{}, false
	}
	return models.Actor{
		UserID:   session.UserID,
		Username: session.Username,
		DeskID:   session.DeskID,
	}, true
}

func sessionIDFromRequest(r *http.Request) string {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get("X-Session-ID"))
}

func requestIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Request-ID"))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

func isPublicEndpoint(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/metrics", "/api/track":
		return true
	case "/api/visits":
		return r.Method == http.MethodPost
	case "/api/purposes":
		return r.Method == http.MethodGet
	default:
		return r.Method == http.MethodOptions
	}
}
