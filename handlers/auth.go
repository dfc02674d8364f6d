package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/lahornada/backoffice/api"
	"github.com/lahornada/backoffice/auth"
	"github.com/lahornada/backoffice/middleware"
)

type signInForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn validates the form, runs the login flow, and keys rejection
// messages to the offending field the way the sign-in screen expects.
func (h *Handler) SignIn(c *gin.Context) {
	var form signInForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud inválida"})
		return
	}

	if fieldErrs := h.validateSignIn(form); len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "errors": fieldErrs})
		return
	}

	user, err := h.provider.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		var credErr *auth.CredentialError
		switch {
		case errors.As(err, &credErr):
			payload := gin.H{"success": false, "message": credErr.Message}
			if credErr.Field != "" {
				payload["errors"] = gin.H{credErr.Field: credErr.Message}
			}
			c.JSON(http.StatusUnauthorized, payload)
		case errors.Is(err, api.ErrConnection):
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": msgConnection})
		default:
			h.log.WithError(err).Error("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error interno"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"user":     user,
		"redirect": middleware.DashboardRoute,
	})
}

func (h *Handler) validateSignIn(form signInForm) map[string]string {
	err := h.validate.Struct(form)
	if err == nil {
		return nil
	}

	fieldErrs := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrs["email"] = msgEmailInvalid
		return fieldErrs
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Email":
			if fe.Tag() == "required" {
				fieldErrs["email"] = msgEmailRequired
			} else {
				fieldErrs["email"] = msgEmailInvalid
			}
		case "Password":
			fieldErrs["password"] = msgPasswordRequired
		}
	}
	return fieldErrs
}

// SignOut runs the logout flow. The session is gone by the time the
// response is written, so the next guard evaluation sends the operator to
// the login screen.
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.provider.Logout(c.Request.Context()); err != nil {
		h.log.WithError(err).Error("logout failed to clear session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": middleware.LoginRoute})
}

// Me returns the user stashed by the authenticated-only gate.
func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgSessionExpired})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RefreshMe re-fetches the profile from the remote API and reports the
// resulting session state. A session invalidated during refresh answers 401
// so the front end navigates back to login.
func (h *Handler) RefreshMe(c *gin.Context) {
	h.provider.RefreshUser(c.Request.Context())

	user := h.provider.CurrentUser()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgSessionExpired, "redirect": middleware.LoginRoute})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type resetRequestForm struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestPasswordReset asks the remote API to mail a reset link.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var form resetRequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud inválida"})
		return
	}
	if err := h.validate.Struct(form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"email": msgEmailInvalid}})
		return
	}
	if err := h.client.SendPasswordReset(c.Request.Context(), form.Email); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type resetTokenForm struct {
	Token string `json:"token" validate:"required"`
}

// ValidateResetToken checks a reset link before showing the confirm screen.
func (h *Handler) ValidateResetToken(c *gin.Context) {
	var form resetTokenForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud inválida"})
		return
	}
	if err := h.client.ValidateResetToken(c.Request.Context(), form.Token); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

type resetConfirmForm struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ConfirmPasswordReset sets the new password.
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var form resetConfirmForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud inválida"})
		return
	}
	if err := h.validate.Struct(form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"password": "La contraseña debe tener al menos 8 caracteres"}})
		return
	}
	if err := h.client.ConfirmPasswordReset(c.Request.Context(), form.Token, form.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": middleware.LoginRoute})
}
