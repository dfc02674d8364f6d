package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{BaseURL: srv.URL})
}

func TestLoginSuccess(t *testing.T) {
	var gotBody map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"message":    "ok",
			"token":      "T",
			"token_type": "Bearer",
			"user":       map[string]any{"id": 1, "nombre": "Ana", "email": "a@b.com"},
		})
	}))

	res, err := client.Login(context.Background(), "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !res.Success || res.Token != "T" || res.TokenType != "Bearer" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.User == nil || res.User.ID != 1 {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if gotBody["email"] != "a@b.com" || gotBody["password"] != "secret123" {
		t.Fatalf("unexpected credentials forwarded: %v", gotBody)
	}
	if gotBody["device_name"] == "" {
		t.Fatal("expected device_name in login payload")
	}
}

func TestLoginCredentialRejectionIsNotAnError(t *testing.T) {
	cases := []struct {
		name   string
		status int
		code   string
	}{
		{"unknown email 2xx", http.StatusOK, CodeEmailNotFound},
		{"bad password 2xx", http.StatusOK, CodeInvalidPassword},
		{"unknown email 4xx", http.StatusUnprocessableEntity, CodeEmailNotFound},
		{"bad password 4xx", http.StatusUnauthorized, CodeInvalidPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": "rechazado",
					"status":  tc.code,
				})
			}))

			res, err := client.Login(context.Background(), "a@b.com", "nope")
			if err != nil {
				t.Fatalf("credential rejection must not be an error: %v", err)
			}
			if res.Success {
				t.Fatal("expected Success=false")
			}
			if res.Code != tc.code || res.Message != "rechazado" {
				t.Fatalf("unexpected result: %+v", res)
			}
		})
	}
}

func TestLoginServerErrorIsError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
	}))

	_, err := client.Login(context.Background(), "a@b.com", "secret123")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500 *Error, got %v", err)
	}
}

func TestConnectionFailureWrapsErrConnection(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	client := NewClient(Config{BaseURL: srv.URL})

	_, err := client.Me(context.Background(), "T")
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}

	if _, err := client.Login(context.Background(), "a@b.com", "x"); !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection from Login, got %v", err)
	}
}

func TestMeSendsBearerTokenAnd401MatchesSentinel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer T" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token revoked"})
	}))

	_, err := client.Me(context.Background(), "T")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "token revoked" {
		t.Fatalf("expected message preserved, got %v", err)
	}
}

func TestForbiddenMatchesSentinel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	err := client.DeleteRole(context.Background(), "T", 4)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if errors.Is(err, ErrUnauthenticated) {
		t.Fatal("403 must not match ErrUnauthenticated")
	}
}

func TestRolesFlattensIDMap(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/roles" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"roles": map[string]string{"3": "cajero", "1": "admin", "2": "panadero"},
		})
	}))

	roles, err := client.Roles(context.Background(), "T")
	if err != nil {
		t.Fatalf("Roles failed: %v", err)
	}
	if len(roles) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(roles))
	}
	for i, want := range []Role{{1, "admin"}, {2, "panadero"}, {3, "cajero"}} {
		if roles[i] != want {
			t.Fatalf("expected sorted roles, got %v", roles)
		}
	}
}

func TestUpdateCategorySendsEstado(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/categorias/7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(Category{ID: 7, Nombre: "Bollería", Estado: false})
	}))

	cat, err := client.UpdateCategory(context.Background(), "T", 7, "Bollería", false)
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if cat.ID != 7 || cat.Estado {
		t.Fatalf("unexpected category: %+v", cat)
	}
	if got["nombre"] != "Bollería" || got["estado"] != false {
		t.Fatalf("unexpected payload: %v", got)
	}
}
