package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func loginAdmin(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/admin/auth/login",
		`{"email":"admin@velora.test","password":"t0ps3cret-pass"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: want 200, got %d", resp.StatusCode)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == "admin_token" {
			return ck
		}
	}
	t.Fatal("login did not set admin_token")
	return nil
}

func TestAdminGuard(t *testing.T) {
	app, _ := newTestApp(t)

	// anonymous
	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/products", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous: want 401, got %d", resp.StatusCode)
	}

	// garbage token
	req := httptest.NewRequest("GET", "/api/admin/products", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "bogus"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bogus token: want 401, got %d", resp.StatusCode)
	}

	// real login
	tok := loginAdmin(t, app)
	req = httptest.NewRequest("GET", "/api/admin/products", nil)
	req.AddCookie(tok)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin: want 200, got %d", resp.StatusCode)
	}
	if products := decode(t, resp)["products"].([]any); len(products) != 3 {
		t.Fatalf("admin listing must include the drained product, got %d", len(products))
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/admin/auth/login",
		`{"email":"admin@velora.test","password":"wrong"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
	body := decode(t, resp)
	if body["error"].(string) != "Invalid credentials" {
		t.Fatalf("generic message expected, got %q", body["error"])
	}
}

func TestVerifyAndLogout(t *testing.T) {
	app, _ := newTestApp(t)
	tok := loginAdmin(t, app)

	req := httptest.NewRequest("GET", "/api/admin/auth/verify", nil)
	req.AddCookie(tok)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: want 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/admin/auth/verify", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("verify without cookie: want 401, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/api/admin/auth/logout", nil))
	if err != nil {
		t.Fatal(err)
	}
	expired := false
	for _, ck := range resp.Cookies() {
		if ck.Name == "admin_token" && ck.Value == "" {
			expired = true
		}
	}
	if !expired {
		t.Fatal("logout must expire the token cookie")
	}
}

func TestAdminOrderStatusEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	tok := loginAdmin(t, app)

	// place an order to operate on
	resp, err := app.Test(jsonReq("POST", "/api/orders", `{
	  "customerInfo":{"firstName":"Ada","lastName":"Byron","email":"ada@example.com",
	    "phone":"+15551234567","address":"12 Analytical Row, London"},
	  "items":[{"productId":"prd-ethiopia","variantId":"var-eth-250","quantity":1}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	order := decode(t, resp)["order"].(map[string]any)
	orderID := order["id"].(string)

	move := func(status string) *http.Response {
		req := jsonReq("PUT", "/api/admin/orders",
			fmt.Sprintf(`{"orderId":%q,"status":%q}`, orderID, status))
		req.AddCookie(tok)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := move("shipped"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("pending->shipped must 400, got %d", resp.StatusCode)
	}
	if resp := move("confirmed"); resp.StatusCode != http.StatusOK {
		t.Fatalf("pending->confirmed must 200, got %d", resp.StatusCode)
	}

	// the guard still applies
	req := jsonReq("PUT", "/api/admin/orders",
		fmt.Sprintf(`{"orderId":%q,"status":"shipped"}`, orderID))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status change must 401, got %d", resp.StatusCode)
	}
}
