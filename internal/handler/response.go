package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/dinehall/dinehall/internal/domain/account"
	"github.com/dinehall/dinehall/internal/domain/auth"
	"github.com/dinehall/dinehall/internal/domain/catalog"
	"github.com/dinehall/dinehall/internal/domain/errs"
)

// errorResponse is the uniform error body shape.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respond(w, status, errorResponse{Code: status, Message: msg})
}

// respondError maps domain errors to HTTP statuses. Anything unmapped is an
// opaque 500; details go to the log, not the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *errs.ValidationError
		notFoundErr   *errs.NotFoundError
		authzErr      *errs.AuthorizationError
		conflictErr   *errs.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		respondMessage(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		respondMessage(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &authzErr):
		respondMessage(w, http.StatusForbidden, authzErr.Error())
	case errors.As(err, &conflictErr):
		respondMessage(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, account.ErrUsernameTaken), errors.Is(err, account.ErrEmailTaken),
		errors.Is(err, catalog.ErrCategoryTaken):
		respondMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, account.ErrInvalidCredential), errors.Is(err, auth.ErrInvalidToken):
		respondMessage(w, http.StatusUnauthorized, err.Error())
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// idParam parses the {id} URL parameter. A non-numeric value responds 400
// and returns false.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondMessage(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
