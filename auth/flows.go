package auth

import (
	"context"

	"github.com/lahornada/backoffice/api"
	"github.com/lahornada/backoffice/session"
)

const defaultTokenType = "Bearer"

// Login authenticates against the remote API and establishes the session.
// The full profile (roles and permissions included) is fetched via the
// who-am-i endpoint, persisted to the session store, and only then placed
// in memory, so the next guard evaluation observes a durable session.
//
// Credential rejections return a [*CredentialError]; transport failures
// return an error wrapping [api.ErrConnection].
func (p *Provider) Login(ctx context.Context, email, password string) (*session.User, error) {
	res, err := p.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !res.Success {
		credErr := &CredentialError{Code: res.Code, Message: res.Message}
		switch res.Code {
		case api.CodeEmailNotFound:
			credErr.Field = FieldEmail
		case api.CodeInvalidPassword:
			credErr.Field = FieldPassword
		}
		p.log.WithField("code", res.Code).Info("login rejected")
		return nil, credErr
	}
	if res.Token == "" {
		return nil, ErrLoginIncomplete
	}

	user, err := p.client.Me(ctx, res.Token)
	if err != nil {
		return nil, err
	}

	tokenType := res.TokenType
	if tokenType == "" {
		tokenType = defaultTokenType
	}

	if err := p.store.Write(res.Token, tokenType, user); err != nil {
		return nil, err
	}
	p.SetUser(user)

	p.log.WithField("user_id", user.ID).Info("login succeeded")
	return user, nil
}

// Logout revokes the session remotely on a best-effort basis, then clears
// the persisted record and the in-memory user before returning, so no guard
// re-evaluation observes a stale authenticated state afterwards.
func (p *Provider) Logout(ctx context.Context) error {
	if token, ok := session.Token(p.store); ok {
		if err := p.client.Logout(ctx, token); err != nil {
			p.log.WithError(err).Warn("remote logout failed, clearing locally anyway")
		}
	}

	if err := p.store.Clear(); err != nil {
		return err
	}
	p.SetUser(nil)

	p.log.Info("logged out")
	return nil
}
