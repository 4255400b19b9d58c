package http

import (
	"net/http"
	"strings"

	"campusmarket-backend/internal/security"
)

// AuthMiddleware validates bearer tokens and stashes the actor id in the
// request context. Identity issuance lives in the identity provider; this
// backend only needs to know who is calling.
type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeErrorMessage(w, http.StatusUnauthorized, "authorization header must be a bearer token")
			return
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), claims.UserID)))
	})
}
