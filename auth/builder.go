package auth

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/lahornada/backoffice/api"
	"github.com/lahornada/backoffice/session"
)

// Client is the slice of the remote API the provider needs. *api.Client
// satisfies it; tests substitute fakes.
type Client interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*session.User, error)
}

// Builder assembles a [Provider]. Configure during initialization, call
// Build once, then treat the result as the single process-wide provider.
type Builder struct {
	store  session.Store
	client Client
	log    logrus.FieldLogger

	built bool
}

// New starts a provider builder.
func New() *Builder {
	return &Builder{}
}

// WithStore sets the session store the provider hydrates from and persists
// to. Required.
func (b *Builder) WithStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithClient sets the remote API client. Required.
func (b *Builder) WithClient(client Client) *Builder {
	b.client = client
	return b
}

// WithLogger sets the logger for flow logging. Optional; defaults to a
// discard logger.
func (b *Builder) WithLogger(log logrus.FieldLogger) *Builder {
	b.log = log
	return b
}

// Build validates the configuration and returns the provider. The provider
// starts in the loading state; call [Provider.Load] before serving.
func (b *Builder) Build() (*Provider, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("session store required")
	}
	if b.client == nil {
		return nil, errors.New("api client required")
	}

	log := b.log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	b.built = true
	return &Provider{
		store:   b.store,
		client:  b.client,
		log:     log,
		loading: true,
	}, nil
}
