package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lahornada/backoffice/api"
	"github.com/lahornada/backoffice/session"
)

type fakeClient struct {
	loginFn  func(ctx context.Context, email, password string) (*api.LoginResult, error)
	logoutFn func(ctx context.Context, token string) error
	meFn     func(ctx context.Context, token string) (*session.User, error)

	meCalls     int
	logoutCalls int
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	if f.loginFn == nil {
		return nil, errors.New("unexpected Login call")
	}
	return f.loginFn(ctx, email, password)
}

func (f *fakeClient) Logout(ctx context.Context, token string) error {
	f.logoutCalls++
	if f.logoutFn == nil {
		return nil
	}
	return f.logoutFn(ctx, token)
}

func (f *fakeClient) Me(ctx context.Context, token string) (*session.User, error) {
	f.meCalls++
	if f.meFn == nil {
		return nil, errors.New("unexpected Me call")
	}
	return f.meFn(ctx, token)
}

func fullUser() *session.User {
	return &session.User{
		ID:          1,
		Nombre:      "Ana",
		Email:       "a@b.com",
		Roles:       []string{"admin"},
		Permissions: []string{"a", "b"},
	}
}

func newTestProvider(t *testing.T, store session.Store, client Client) *Provider {
	t.Helper()

	provider, err := New().WithStore(store).WithClient(client).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return provider
}

func TestBuilderValidation(t *testing.T) {
	if _, err := New().WithClient(&fakeClient{}).Build(); err == nil {
		t.Fatal("expected error without store")
	}
	if _, err := New().WithStore(session.NewMemoryStore()).Build(); err == nil {
		t.Fatal("expected error without client")
	}

	b := New().WithStore(session.NewMemoryStore()).WithClient(&fakeClient{})
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second Build")
	}
}

func TestLoadHydratesFromStore(t *testing.T) {
	store := session.NewMemoryStore()
	if err := store.Write("T", "Bearer", fullUser()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	provider := newTestProvider(t, store, &fakeClient{})
	if !provider.Loading() {
		t.Fatal("expected loading before Load")
	}

	provider.Load()

	if provider.Loading() {
		t.Fatal("expected loading=false after Load")
	}
	user := provider.CurrentUser()
	if user == nil || user.ID != 1 {
		t.Fatalf("expected hydrated user, got %+v", user)
	}
}

func TestLoadWithEmptyStore(t *testing.T) {
	provider := newTestProvider(t, session.NewMemoryStore(), &fakeClient{})
	provider.Load()

	if provider.Loading() {
		t.Fatal("expected loading=false")
	}
	if provider.CurrentUser() != nil {
		t.Fatal("expected no user")
	}
	if provider.IsAuthenticated() {
		t.Fatal("expected unauthenticated")
	}
}

func TestPermissionPredicates(t *testing.T) {
	provider := newTestProvider(t, session.NewMemoryStore(), &fakeClient{})
	provider.Load()
	provider.SetUser(fullUser())

	if !provider.HasPermission("a") {
		t.Fatal(`HasPermission("a") = false, want true`)
	}
	if provider.HasPermission("c") {
		t.Fatal(`HasPermission("c") = true, want false`)
	}
	if !provider.HasAnyPermission([]string{"c", "b"}) {
		t.Fatal(`HasAnyPermission(["c","b"]) = false, want true`)
	}
	if provider.HasAnyPermission([]string{"c", "d"}) {
		t.Fatal(`HasAnyPermission(["c","d"]) = true, want false`)
	}
	if provider.HasAnyPermission(nil) {
		t.Fatal("HasAnyPermission(nil) = true, want false")
	}
	if !provider.HasRole("admin") {
		t.Fatal(`HasRole("admin") = false, want true`)
	}
	if provider.HasRole("cajero") {
		t.Fatal(`HasRole("cajero") = true, want false`)
	}
}

func TestPredicatesWithoutUser(t *testing.T) {
	provider := newTestProvider(t, session.NewMemoryStore(), &fakeClient{})
	provider.Load()

	if provider.HasPermission("a") || provider.HasRole("admin") || provider.HasAnyPermission([]string{"a"}) {
		t.Fatal("absent user must answer false everywhere")
	}
}

func TestIsAuthenticatedFallsBackToStoreWhileLoading(t *testing.T) {
	store := session.NewMemoryStore()
	if err := store.Write("T", "Bearer", fullUser()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	provider := newTestProvider(t, store, &fakeClient{})

	// Not yet hydrated: the predicate reads the store synchronously.
	if !provider.IsAuthenticated() {
		t.Fatal("expected authenticated from store while loading")
	}

	provider.Load()
	if !provider.IsAuthenticated() {
		t.Fatal("expected authenticated after Load")
	}
}

func TestLoginSuccessPersistsBeforeMemory(t *testing.T) {
	store := session.NewMemoryStore()
	client := &fakeClient{
		loginFn: func(ctx context.Context, email, password string) (*api.LoginResult, error) {
			if email != "a@b.com" || password != "secret123" {
				return nil, fmt.Errorf("unexpected credentials %q %q", email, password)
			}
			// Login responds with a thin user; the full profile comes from Me.
			return &api.LoginResult{
				Success: true,
				Token:   "T",
				User:    &session.User{ID: 1, Nombre: "Ana", Email: "a@b.com"},
			}, nil
		},
		meFn: func(ctx context.Context, token string) (*session.User, error) {
			if token != "T" {
				return nil, fmt.Errorf("unexpected token %q", token)
			}
			return fullUser(), nil
		},
	}

	provider := newTestProvider(t, store, client)
	provider.Load()

	user, err := provider.Login(context.Background(), "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != 1 || len(user.Permissions) != 2 {
		t.Fatalf("expected full profile, got %+v", user)
	}

	sess, ok := store.Read()
	if !ok {
		t.Fatal("expected persisted session")
	}
	if sess.Token != "T" || sess.TokenType != "Bearer" {
		t.Fatalf("unexpected persisted credential: %q %q", sess.Token, sess.TokenType)
	}
	if len(sess.User.Permissions) != 2 {
		t.Fatalf("expected persisted permission snapshot, got %+v", sess.User)
	}
	if got := provider.CurrentUser(); got == nil || got.ID != 1 {
		t.Fatalf("expected in-memory user, got %+v", got)
	}
	if !provider.IsAuthenticated() {
		t.Fatal("expected authenticated after login")
	}
}

func TestLoginCredentialRejectionKeyedToField(t *testing.T) {
	cases := []struct {
		code  string
		field string
	}{
		{api.CodeEmailNotFound, FieldEmail},
		{api.CodeInvalidPassword, FieldPassword},
		{"SOMETHING_ELSE", ""},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			store := session.NewMemoryStore()
			client := &fakeClient{
				loginFn: func(ctx context.Context, email, password string) (*api.LoginResult, error) {
					return &api.LoginResult{Success: false, Code: tc.code, Message: "rechazado"}, nil
				},
			}
			provider := newTestProvider(t, store, client)
			provider.Load()

			_, err := provider.Login(context.Background(), "a@b.com", "nope")
			var credErr *CredentialError
			if !errors.As(err, &credErr) {
				t.Fatalf("expected CredentialError, got %v", err)
			}
			if credErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, credErr.Field)
			}
			if _, ok := store.Read(); ok {
				t.Fatal("rejected login must not persist a session")
			}
		})
	}
}

func TestLoginConnectionFailurePropagates(t *testing.T) {
	client := &fakeClient{
		loginFn: func(ctx context.Context, email, password string) (*api.LoginResult, error) {
			return nil, fmt.Errorf("%w: dial tcp refused", api.ErrConnection)
		},
	}
	provider := newTestProvider(t, session.NewMemoryStore(), client)
	provider.Load()

	_, err := provider.Login(context.Background(), "a@b.com", "secret123")
	if !errors.Is(err, api.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestLoginProfileFetchFailureLeavesNoSession(t *testing.T) {
	store := session.NewMemoryStore()
	client := &fakeClient{
		loginFn: func(ctx context.Context, email, password string) (*api.LoginResult, error) {
			return &api.LoginResult{Success: true, Token: "T"}, nil
		},
		meFn: func(ctx context.Context, token string) (*session.User, error) {
			return nil, fmt.Errorf("%w: dial tcp refused", api.ErrConnection)
		},
	}
	provider := newTestProvider(t, store, client)
	provider.Load()

	if _, err := provider.Login(context.Background(), "a@b.com", "secret123"); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := store.Read(); ok {
		t.Fatal("half-finished login must not persist a session")
	}
	if provider.CurrentUser() != nil {
		t.Fatal("half-finished login must not set a user")
	}
}

func TestRefreshUserWithoutTokenSkipsNetwork(t *testing.T) {
	client := &fakeClient{}
	provider := newTestProvider(t, session.NewMemoryStore(), client)
	provider.Load()
	provider.SetUser(fullUser())

	provider.RefreshUser(context.Background())

	if client.meCalls != 0 {
		t.Fatalf("expected no network call, got %d", client.meCalls)
	}
	if provider.CurrentUser() != nil {
		t.Fatal("expected user dropped when no token is stored")
	}
}

func TestRefreshUserRewritesUserPreservingCredential(t *testing.T) {
	store := session.NewMemoryStore()
	if err := store.Write("T", "Bearer", fullUser()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	refreshed := &session.User{ID: 1, Nombre: "Ana María", Email: "a@b.com", Permissions: []string{"a"}}
	client := &fakeClient{
		meFn: func(ctx context.Context, token string) (*session.User, error) {
			return refreshed, nil
		},
	}
	provider := newTestProvider(t, store, client)
	provider.Load()

	provider.RefreshUser(context.Background())

	sess, ok := store.Read()
	if !ok {
		t.Fatal("expected session kept")
	}
	if sess.Token != "T" || sess.TokenType != "Bearer" {
		t.Fatalf("credential must be preserved, got %q %q", sess.Token, sess.TokenType)
	}
	if sess.User.Nombre != "Ana María" || len(sess.User.Permissions) != 1 {
		t.Fatalf("expected rewritten user snapshot, got %+v", sess.User)
	}
	if got := provider.CurrentUser(); got.Nombre != "Ana María" {
		t.Fatalf("expected refreshed in-memory user, got %+v", got)
	}
}

func TestRefreshUserClearsOnAuthRejection(t *testing.T) {
	store := session.NewMemoryStore()
	if err := store.Write("T", "Bearer", fullUser()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	client := &fakeClient{
		meFn: func(ctx context.Context, token string) (*session.User, error) {
			return nil, &api.Error{Status: 401, Message: "token revoked"}
		},
	}
	provider := newTestProvider(t, store, client)
	provider.Load()

	provider.RefreshUser(context.Background())

	if _, ok := store.Read(); ok {
		t.Fatal("expected persisted session cleared on 401")
	}
	if provider.CurrentUser() != nil {
		t.Fatal("expected in-memory user cleared on 401")
	}
}

func TestRefreshUserKeepsSessionOnTransientFailure(t *testing.T) {
	store := session.NewMemoryStore()
	if err := store.Write("T", "Bearer", fullUser()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	client := &fakeClient{
		meFn: func(ctx context.Context, token string) (*session.User, error) {
			return nil, fmt.Errorf("%w: connection reset", api.ErrConnection)
		},
	}
	provider := newTestProvider(t, store, client)
	provider.Load()

	provider.RefreshUser(context.Background())

	if _, ok := store.Read(); !ok {
		t.Fatal("a network hiccup must not clear the persisted session")
	}
	if provider.CurrentUser() == nil {
		t.Fatal("a network hiccup must not drop the in-memory user")
	}
}

func TestLogoutClearsEvenWhenRemoteFails(t *testing.T) {
	store := session.NewMemoryStore()
	if err := store.Write("T", "Bearer", fullUser()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	client := &fakeClient{
		logoutFn: func(ctx context.Context, token string) error {
			return fmt.Errorf("%w: connection reset", api.ErrConnection)
		},
	}
	provider := newTestProvider(t, store, client)
	provider.Load()

	if err := provider.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if client.logoutCalls != 1 {
		t.Fatalf("expected one remote logout attempt, got %d", client.logoutCalls)
	}
	if _, ok := store.Read(); ok {
		t.Fatal("expected persisted session cleared")
	}
	if provider.CurrentUser() != nil {
		t.Fatal("expected in-memory user cleared")
	}
	if provider.IsAuthenticated() {
		t.Fatal("expected unauthenticated after logout")
	}
}

func TestLogoutWithoutSessionIsNoop(t *testing.T) {
	client := &fakeClient{}
	provider := newTestProvider(t, session.NewMemoryStore(), client)
	provider.Load()

	if err := provider.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if client.logoutCalls != 0 {
		t.Fatal("expected no remote call without a stored token")
	}
}
