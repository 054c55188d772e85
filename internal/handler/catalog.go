package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/dinehall/dinehall/internal/domain/catalog"
)

type menuItemRequest struct {
	CategoryID  int64           `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   *bool           `json:"available"`
}

type menuItemResponse struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if raw := r.URL.Query().Get("category"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid category filter")
			return
		}
		categoryID = parsed
	}

	items, err := h.catalog.ListMenu(r.Context(), categoryID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]menuItemResponse, len(items))
	for i, m := range items {
		out[i] = toMenuItemResponse(m)
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]categoryResponse, len(cats))
	for i, c := range cats {
		out[i] = categoryResponse{ID: c.ID, Name: c.Name}
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item := fromMenuItemRequest(req, 0)
	if err := h.catalog.CreateItem(r.Context(), identity(r), &item); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toMenuItemResponse(item))
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req menuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item := fromMenuItemRequest(req, id)
	if err := h.catalog.UpdateItem(r.Context(), identity(r), &item); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toMenuItemResponse(item))
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteItem(r.Context(), identity(r), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c := catalog.MenuCategory{Name: req.Name}
	if err := h.catalog.CreateCategory(r.Context(), identity(r), &c); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, categoryResponse{ID: c.ID, Name: c.Name})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), identity(r), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func fromMenuItemRequest(req menuItemRequest, id int64) catalog.MenuItem {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return catalog.MenuItem{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Available:   available,
	}
}

func toMenuItemResponse(m catalog.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Available:   m.Available,
	}
}
