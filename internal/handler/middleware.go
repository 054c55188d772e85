package handler

import (
	"net/http"
	"strings"

	"github.com/dinehall/dinehall/internal/domain/auth"
)

// authenticate verifies the Bearer token and stores the caller identity in
// the request context. Requests without a valid token get 401.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		ident, err := h.tokens.Verify(token)
		if err != nil {
			respondMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), ident)))
	})
}

// identity returns the caller identity set by authenticate. The middleware
// guarantees presence on every route that reaches here.
func identity(r *http.Request) auth.Identity {
	ident, _ := auth.IdentityFromContext(r.Context())
	return ident
}
