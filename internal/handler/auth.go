package handler

import (
	"net/http"
	"time"

	"github.com/dinehall/dinehall/internal/domain/account"
)

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.accounts.Register(r.Context(), account.RegisterRequest{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, toAccountResponse(a))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(a)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, loginResponse{
		Token:   token,
		Account: toAccountResponse(a),
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	a, err := h.accounts.Get(r.Context(), identity(r).AccountID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toAccountResponse(a))
}

func toAccountResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Phone:       a.Phone,
		Address:     a.Address,
		Role:        string(a.Role),
		CreatedAt:   a.CreatedAt,
	}
}
