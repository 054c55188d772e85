package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dinehall/dinehall/internal/domain/errs"
	"github.com/dinehall/dinehall/internal/domain/order"
)

type checkoutRequest struct {
	DeliveryAddress string             `json:"deliveryAddress"`
	Items           []checkoutItemJSON `json:"items"`
}

type checkoutItemJSON struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

type orderLineResponse struct {
	ItemID    int64           `json:"itemId,omitempty"`
	ItemName  string          `json:"itemName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type orderResponse struct {
	ID              int64               `json:"id"`
	Status          string              `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	DeliveryAddress string              `json:"deliveryAddress"`
	CreatedAt       time.Time           `json:"createdAt"`
	Lines           []orderLineResponse `json:"lines"`
	OwnerName       string              `json:"ownerName,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	items := make([]order.CartItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.CartItem{ItemID: it.ItemID, Quantity: it.Quantity}
	}

	o, err := h.orders.Checkout(r.Context(), identity(r), order.CheckoutRequest{
		DeliveryAddress: req.DeliveryAddress,
		Items:           items,
	})
	if err != nil {
		// An unknown or withdrawn cart item is a semantic failure of an
		// otherwise well-formed request, not a missing resource.
		var nfErr *errs.NotFoundError
		if errors.As(err, &nfErr) && nfErr.Entity == "menu item" {
			respondMessage(w, http.StatusUnprocessableEntity, nfErr.Error())
			return
		}
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, toOrderResponse(o, ""))
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.ListMine(r.Context(), identity(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]orderResponse, len(list))
	for i := range list {
		out[i] = toOrderResponse(&list[i], "")
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	o, err := h.orders.Get(r.Context(), identity(r), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toOrderResponse(o, ""))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	o, err := h.orders.Cancel(r.Context(), identity(r), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toOrderResponse(o, ""))
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.ListAll(r.Context(), identity(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]orderResponse, len(list))
	for i := range list {
		out[i] = toOrderResponse(&list[i].Order, list[i].OwnerName)
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.orders.Advance(r.Context(), identity(r), id, order.Status(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toOrderResponse(o, ""))
}

func toOrderResponse(o *order.Order, ownerName string) orderResponse {
	lines := make([]orderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineResponse{
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	return orderResponse{
		ID:              o.ID,
		Status:          string(o.Status),
		Total:           o.Total,
		DeliveryAddress: o.DeliveryAddress,
		CreatedAt:       o.CreatedAt,
		Lines:           lines,
		OwnerName:       ownerName,
	}
}
