package server

import (
	"context"
	"fmt"
	"net/http"
)

const basicAuthRealm = `Basic realm="fragments"`

type ownerContextKey struct{}

func contextWithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, ownerID)
}

func ownerFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	ownerID, ok := ctx.Value(ownerContextKey{}).(string)
	return ownerID, ok && ownerID != ""
}

// withAuth requires HTTP Basic credentials and stores the resolved owner id
// on the request context.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			s.writeErrorReq(w, r, http.StatusInternalServerError, internalError(fmt.Errorf("authenticator is not configured")))
			return
		}
		username, password, ok := r.BasicAuth()
		if !ok {
			s.unauthorized(w, r, fmt.Errorf("authorization required"))
			return
		}
		ownerID, ok := s.auth.Authenticate(username, password)
		if !ok {
			s.unauthorized(w, r, fmt.Errorf("invalid credentials"))
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithOwner(r.Context(), ownerID)))
	})
}

func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", basicAuthRealm)
	s.writeErrorReq(w, r, http.StatusUnauthorized, makeAPIError(http.StatusUnauthorized, "unauthorized", ErrCodeUnauthorized, err))
}
