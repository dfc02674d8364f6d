package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lahornada/backoffice/api"
	"github.com/lahornada/backoffice/session"
)

// Provider holds the in-memory session state and answers the permission
// predicates. Safe for concurrent use; gin serves requests in parallel, so
// state updates serialize on an internal mutex with last-write-wins
// semantics.
type Provider struct {
	store  session.Store
	client Client
	log    logrus.FieldLogger

	mu      sync.RWMutex
	user    *session.User
	loading bool
}

// Load hydrates the current user from the session store and ends the
// loading state. It performs no network call; a persisted snapshot is
// enough to reach a usable state. Call it once at boot.
func (p *Provider) Load() {
	user, _ := session.CurrentUser(p.store)

	p.mu.Lock()
	p.user = user
	p.loading = false
	p.mu.Unlock()
}

// Loading reports whether the provider has hydrated yet. Until it returns
// false, permission checks answer false and consumers must treat gating
// decisions as unknown.
func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// CurrentUser returns the in-memory user snapshot, nil when signed out.
func (p *Provider) CurrentUser() *session.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user
}

// IsAuthenticated is the one "is anyone logged in" predicate every guard
// consults. After hydration it reads the in-memory user; while still
// loading it falls back to a synchronous store read so early navigations
// don't block on Load. Never a network call.
func (p *Provider) IsAuthenticated() bool {
	p.mu.RLock()
	loading, user := p.loading, p.user
	p.mu.RUnlock()

	if loading {
		_, ok := session.Token(p.store)
		return ok
	}
	return user != nil
}

// HasPermission reports whether the current user's permission snapshot
// contains p, by exact string match. No user means false.
func (p *Provider) HasPermission(perm string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, have := range p.user.PermissionSet() {
		if have == perm {
			return true
		}
	}
	return false
}

// HasRole reports whether the current user's role snapshot contains r.
func (p *Provider) HasRole(role string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, have := range p.user.RoleSet() {
		if have == role {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one of perms is held.
func (p *Provider) HasAnyPermission(perms []string) bool {
	for _, perm := range perms {
		if p.HasPermission(perm) {
			return true
		}
	}
	return false
}

// SetUser replaces the in-memory user only. It deliberately does not touch
// the session store: the login flow persists first and sets memory second,
// so a guard evaluating mid-flow never sees memory ahead of storage.
func (p *Provider) SetUser(user *session.User) {
	p.mu.Lock()
	p.user = user
	p.mu.Unlock()
}

// RefreshUser re-fetches the profile behind the stored token and rewrites
// the persisted user snapshot, preserving the credential. Failures are
// handled locally and never propagate:
//
//   - authentication rejection (401/403): the session is gone server-side,
//     so both the store and memory are cleared;
//   - anything else (connectivity, 5xx): the session is kept — a network
//     hiccup must not sign the operator out.
//
// With no stored token it just drops the in-memory user, without a network
// call.
func (p *Provider) RefreshUser(ctx context.Context) {
	token, ok := session.Token(p.store)
	if !ok {
		p.SetUser(nil)
		return
	}

	user, err := p.client.Me(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) || errors.Is(err, api.ErrForbidden) {
			p.log.WithError(err).Warn("session rejected during refresh, clearing")
			if clearErr := p.store.Clear(); clearErr != nil {
				p.log.WithError(clearErr).Error("failed to clear rejected session")
			}
			p.SetUser(nil)
			return
		}
		p.log.WithError(err).Warn("user refresh failed, keeping session")
		return
	}

	if sess, ok := p.store.Read(); ok {
		if err := p.store.Write(sess.Token, sess.TokenType, user); err != nil {
			p.log.WithError(err).Error("failed to persist refreshed user")
		}
	}
	p.SetUser(user)
}
