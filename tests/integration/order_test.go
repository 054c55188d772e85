//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func placeOrder(t *testing.T, token string, items ...checkoutItem) orderResponse {
	t.Helper()

	resp := doPost(t, "/api/orders", checkoutRequest{
		DeliveryAddress: "1 Main St",
		Items:           items,
	}, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d", resp.StatusCode)
	}

	return decodeJSON[orderResponse](t, resp)
}

func TestCheckout_NoAuth(t *testing.T) {
	resp := doPost(t, "/api/orders", checkoutRequest{
		DeliveryAddress: "1 Main St",
		Items:           []checkoutItem{{ItemID: 1, Quantity: 1}},
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	token := registerAndLogin(t, "order_empty")

	resp := doPost(t, "/api/orders", checkoutRequest{
		DeliveryAddress: "1 Main St",
	}, token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckout_UnknownItem(t *testing.T) {
	token := registerAndLogin(t, "order_unknown")

	resp := doPost(t, "/api/orders", checkoutRequest{
		DeliveryAddress: "1 Main St",
		Items:           []checkoutItem{{ItemID: 99999, Quantity: 1}},
	}, token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestCheckout_Totals(t *testing.T) {
	token := registerAndLogin(t, "order_totals")
	pizza := menuItem(t, "Margherita Pizza") // 11.00
	espresso := menuItem(t, "Espresso")      // 2.50

	o := placeOrder(t, token,
		checkoutItem{ItemID: pizza.ID, Quantity: 2},
		checkoutItem{ItemID: espresso.ID, Quantity: 1},
	)

	if o.Status != "pending" {
		t.Errorf("status: got %q, want pending", o.Status)
	}
	if o.Total != 24.50 {
		t.Errorf("total: got %v, want 24.50", o.Total)
	}
	if len(o.Lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(o.Lines))
	}
	if o.Lines[0].UnitPrice != 11.00 {
		t.Errorf("line price: got %v, want 11.00", o.Lines[0].UnitPrice)
	}
}

func TestOrder_OwnerIsolation(t *testing.T) {
	aliceToken := registerAndLogin(t, "order_alice")
	bobToken := registerAndLogin(t, "order_bob")
	espresso := menuItem(t, "Espresso")

	o := placeOrder(t, aliceToken, checkoutItem{ItemID: espresso.ID, Quantity: 1})

	// Bob cannot see it.
	resp := doGet(t, fmt.Sprintf("/api/orders/%d", o.ID), bobToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	// It does not appear in Bob's list.
	resp = doGet(t, "/api/orders", bobToken)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, other := range decodeJSON[[]orderResponse](t, resp) {
		if other.ID == o.ID {
			t.Fatalf("order %d leaked into another account's list", o.ID)
		}
	}
}

func TestOrder_CancelFlow(t *testing.T) {
	token := registerAndLogin(t, "order_cancel")
	espresso := menuItem(t, "Espresso")
	o := placeOrder(t, token, checkoutItem{ItemID: espresso.ID, Quantity: 1})

	resp := doPost(t, fmt.Sprintf("/api/orders/%d/cancel", o.ID), nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	cancelled := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()
	if cancelled.Status != "cancelled" {
		t.Fatalf("status: got %q, want cancelled", cancelled.Status)
	}
	if cancelled.Total != o.Total {
		t.Errorf("total changed on cancel: %v -> %v", o.Total, cancelled.Total)
	}

	// Cancelling twice reports the current status.
	resp = doPost(t, fmt.Sprintf("/api/orders/%d/cancel", o.ID), nil, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	body := decodeJSON[errorResponse](t, resp)
	want := "cannot cancel an order with status 'cancelled'"
	if body.Message != want {
		t.Errorf("message: got %q, want %q", body.Message, want)
	}
}

func TestOrder_StatusLifecycle(t *testing.T) {
	customer := registerAndLogin(t, "order_lifecycle")
	admin := adminToken(t)
	espresso := menuItem(t, "Espresso")
	o := placeOrder(t, customer, checkoutItem{ItemID: espresso.ID, Quantity: 1})

	statusPath := fmt.Sprintf("/api/admin/orders/%d/status", o.ID)

	// Customers cannot drive the transitions.
	resp := doPost(t, statusPath, statusRequest{Status: "preparing"}, customer)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	for _, status := range []string{"preparing", "ready", "delivered"} {
		resp := doPost(t, statusPath, statusRequest{Status: status}, admin)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("advance to %s: expected 200, got %d", status, resp.StatusCode)
		}
		got := decodeJSON[orderResponse](t, resp)
		resp.Body.Close()
		if got.Status != status {
			t.Fatalf("status: got %q, want %q", got.Status, status)
		}
	}

	// Delivered is terminal.
	resp = doPost(t, statusPath, statusRequest{Status: "preparing"}, admin)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	// A delivered order can no longer be cancelled either.
	cancel := doPost(t, fmt.Sprintf("/api/orders/%d/cancel", o.ID), nil, customer)
	defer cancel.Body.Close()
	if cancel.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", cancel.StatusCode)
	}
}

func TestOrder_SkipTransition(t *testing.T) {
	customer := registerAndLogin(t, "order_skip")
	admin := adminToken(t)
	espresso := menuItem(t, "Espresso")
	o := placeOrder(t, customer, checkoutItem{ItemID: espresso.ID, Quantity: 1})

	resp := doPost(t, fmt.Sprintf("/api/admin/orders/%d/status", o.ID), statusRequest{Status: "delivered"}, admin)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	body := decodeJSON[errorResponse](t, resp)
	want := "cannot move an order with status 'pending' to 'delivered'"
	if body.Message != want {
		t.Errorf("message: got %q, want %q", body.Message, want)
	}
}

func TestAdminOrders_List(t *testing.T) {
	customer := registerAndLogin(t, "order_admin_list")
	admin := adminToken(t)
	espresso := menuItem(t, "Espresso")
	o := placeOrder(t, customer, checkoutItem{ItemID: espresso.ID, Quantity: 1})

	// Customers cannot use the admin list.
	resp := doGet(t, "/api/admin/orders", customer)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	resp = doGet(t, "/api/admin/orders", admin)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	found := false
	for _, listed := range decodeJSON[[]orderResponse](t, resp) {
		if listed.ID == o.ID {
			found = true
			if listed.OwnerName == "" {
				t.Error("admin listing should carry the owner name")
			}
		}
	}
	if !found {
		t.Fatalf("order %d missing from admin listing", o.ID)
	}
}

func TestOrder_WithdrawnItemRendersPlaceholder(t *testing.T) {
	customer := registerAndLogin(t, "order_withdrawn")
	admin := adminToken(t)

	resp := doGet(t, "/api/categories", "")
	cats := decodeJSON[[]categoryResponse](t, resp)
	resp.Body.Close()
	if len(cats) == 0 {
		t.Fatal("no seeded categories")
	}

	// A dedicated item so its removal cannot disturb other tests.
	created := doPost(t, "/api/admin/menu", map[string]any{
		"categoryId": cats[0].ID,
		"name":       "Seasonal Special",
		"price":      12.50,
	}, admin)
	if created.StatusCode != http.StatusCreated {
		t.Fatalf("create item: expected 201, got %d", created.StatusCode)
	}
	special := decodeJSON[menuItemResponse](t, created)
	created.Body.Close()

	o := placeOrder(t, customer, checkoutItem{ItemID: special.ID, Quantity: 2})

	del := doDelete(t, fmt.Sprintf("/api/admin/menu/%d", special.ID), admin)
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("delete item: expected 204, got %d", del.StatusCode)
	}

	// The historical order survives with a placeholder name and the
	// snapshotted price.
	resp = doGet(t, fmt.Sprintf("/api/orders/%d", o.ID), customer)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get order: expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[orderResponse](t, resp)
	if len(got.Lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(got.Lines))
	}
	line := got.Lines[0]
	if line.ItemName != "Unknown Item" {
		t.Errorf("item name: got %q, want %q", line.ItemName, "Unknown Item")
	}
	if line.UnitPrice != 12.50 {
		t.Errorf("unit price: got %v, want 12.50", line.UnitPrice)
	}
	if got.Total != 25.00 {
		t.Errorf("total: got %v, want 25.00", got.Total)
	}
}

func TestOrder_ListsNewestFirst(t *testing.T) {
	customer := registerAndLogin(t, "order_newest")
	admin := adminToken(t)
	espresso := menuItem(t, "Espresso")

	first := placeOrder(t, customer, checkoutItem{ItemID: espresso.ID, Quantity: 1})
	second := placeOrder(t, customer, checkoutItem{ItemID: espresso.ID, Quantity: 2})

	resp := doGet(t, "/api/orders", customer)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	mine := decodeJSON[[]orderResponse](t, resp)
	if len(mine) != 2 {
		t.Fatalf("orders: got %d, want 2", len(mine))
	}
	if mine[0].ID != second.ID || mine[1].ID != first.ID {
		t.Fatalf("order: got [%d %d], want [%d %d] (newest first)",
			mine[0].ID, mine[1].ID, second.ID, first.ID)
	}

	// The admin listing follows the same ordering.
	all := doGet(t, "/api/admin/orders", admin)
	defer all.Body.Close()
	if all.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", all.StatusCode)
	}

	var firstPos, secondPos int = -1, -1
	for i, o := range decodeJSON[[]orderResponse](t, all) {
		switch o.ID {
		case first.ID:
			firstPos = i
		case second.ID:
			secondPos = i
		}
	}
	if firstPos < 0 || secondPos < 0 {
		t.Fatal("orders missing from admin listing")
	}
	if secondPos > firstPos {
		t.Fatalf("admin listing: later order at %d, earlier at %d (want newest first)",
			secondPos, firstPos)
	}
}

func TestOrder_PriceSnapshotSurvivesMenuEdit(t *testing.T) {
	customer := registerAndLogin(t, "order_snapshot")
	admin := adminToken(t)
	lemonade := menuItem(t, "Fresh Lemonade") // 4.00

	o := placeOrder(t, customer, checkoutItem{ItemID: lemonade.ID, Quantity: 1})
	if o.Total != 4.00 {
		t.Fatalf("total: got %v, want 4.00", o.Total)
	}

	// Reprice the item after the order was placed.
	update := doPut(t, fmt.Sprintf("/api/admin/menu/%d", lemonade.ID), map[string]any{
		"categoryId": lemonade.CategoryID,
		"name":       lemonade.Name,
		"price":      5.50,
	}, admin)
	update.Body.Close()
	if update.StatusCode != http.StatusOK {
		t.Fatalf("update item: expected 200, got %d", update.StatusCode)
	}

	// The order still shows the price at checkout time.
	resp := doGet(t, fmt.Sprintf("/api/orders/%d", o.ID), customer)
	defer resp.Body.Close()
	got := decodeJSON[orderResponse](t, resp)
	if got.Total != 4.00 {
		t.Errorf("total after reprice: got %v, want 4.00", got.Total)
	}
	if got.Lines[0].UnitPrice != 4.00 {
		t.Errorf("line price after reprice: got %v, want 4.00", got.Lines[0].UnitPrice)
	}

	// Restore the seeded price for other tests.
	restore := doPut(t, fmt.Sprintf("/api/admin/menu/%d", lemonade.ID), map[string]any{
		"categoryId": lemonade.CategoryID,
		"name":       lemonade.Name,
		"price":      4.00,
	}, admin)
	restore.Body.Close()
}
