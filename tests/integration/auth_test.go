//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestRegister(t *testing.T) {
	resp := doPost(t, "/api/auth/register", registerRequest{
		Username:    "reg_alice",
		Email:       "reg_alice@dinehall.test",
		Password:    "s3cretpass",
		DisplayName: "Alice",
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	a := decodeJSON[accountResponse](t, resp)
	if a.Role != "customer" {
		t.Errorf("role: got %q, want customer", a.Role)
	}
	if a.ID == 0 {
		t.Error("expected a non-zero account id")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	registerAndLogin(t, "reg_dup")

	resp := doPost(t, "/api/auth/register", registerRequest{
		Username: "reg_dup",
		Email:    "other@dinehall.test",
		Password: "s3cretpass",
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	resp := doPost(t, "/api/auth/register", registerRequest{
		Username: "reg_short",
		Email:    "reg_short@dinehall.test",
		Password: "short",
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	registerAndLogin(t, "login_bob")

	resp := doPost(t, "/api/auth/login", loginRequest{
		Username: "login_bob",
		Password: "wrongpass",
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLogin_UnknownUsername(t *testing.T) {
	resp := doPost(t, "/api/auth/login", loginRequest{
		Username: "nobody_here",
		Password: "whatever123",
	}, "")
	defer resp.Body.Close()

	// Same response as a wrong password.
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestProfile(t *testing.T) {
	token := registerAndLogin(t, "profile_carol")

	resp := doGet(t, "/api/profile", token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	a := decodeJSON[accountResponse](t, resp)
	if a.Username != "profile_carol" {
		t.Errorf("username: got %q, want profile_carol", a.Username)
	}
}

func TestProfile_NoToken(t *testing.T) {
	resp := doGet(t, "/api/profile", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestProfile_GarbageToken(t *testing.T) {
	resp := doGet(t, "/api/profile", "not-a-real-token")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
