package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/lahornada/backoffice/api"
	"github.com/lahornada/backoffice/auth"
	"github.com/lahornada/backoffice/middleware"
	"github.com/lahornada/backoffice/session"
)

// User-facing form messages, matching the console's language.
const (
	msgEmailRequired    = "El correo es obligatorio"
	msgEmailInvalid     = "Ingresa un correo válido"
	msgPasswordRequired = "La contraseña es obligatoria"
	msgConnection       = "Error al conectar con el servidor"
	msgSessionExpired   = "La sesión ha expirado"
)

// Handler carries the collaborators every screen endpoint needs.
type Handler struct {
	provider *auth.Provider
	store    session.Store
	client   *api.Client
	log      logrus.FieldLogger
	validate *validator.Validate
}

// New creates a Handler.
func New(provider *auth.Provider, store session.Store, client *api.Client, log logrus.FieldLogger) *Handler {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Handler{
		provider: provider,
		store:    store,
		client:   client,
		log:      log,
		validate: validator.New(),
	}
}

// token fetches the stored bearer credential. Guarded routes should always
// have one; answering 401 here covers the race with a concurrent logout.
func (h *Handler) token(c *gin.Context) (string, bool) {
	token, ok := session.Token(h.store)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgSessionExpired, "redirect": middleware.LoginRoute})
		return "", false
	}
	return token, true
}

// fail translates a remote API error into a response. An authentication
// rejection means the session is dead server-side: it is invalidated
// through the refresh path (the sanctioned clearing flow) and the caller is
// pointed back to the login screen.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, api.ErrUnauthenticated):
		h.provider.RefreshUser(c.Request.Context())
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgSessionExpired, "redirect": middleware.LoginRoute})
	case errors.Is(err, api.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Sin permisos para esta operación"})
	case errors.Is(err, api.ErrConnection):
		c.JSON(http.StatusBadGateway, gin.H{"message": msgConnection})
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.Status, gin.H{"message": apiErr.Message})
			return
		}
		h.log.WithError(err).Error("unhandled screen error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno"})
	}
}
