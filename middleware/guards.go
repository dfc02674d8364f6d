package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lahornada/backoffice/auth"
	"github.com/lahornada/backoffice/session"
)

// Landing routes the guards redirect to.
const (
	// LoginRoute hosts the public sign-in screen.
	LoginRoute = "/"
	// DashboardRoute is the landing route of the protected area.
	DashboardRoute = "/dashboard"
)

const userContextKey = "backoffice.current_user"

// UserFromContext returns the user stashed by [RequireAuth].
func UserFromContext(c *gin.Context) (*session.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*session.User)
	return user, ok
}

// PublicOnly keeps signed-in operators away from public screens: an
// authenticated request is redirected to the dashboard, anonymous requests
// pass through.
func PublicOnly(provider *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provider.IsAuthenticated() {
			c.Redirect(http.StatusFound, DashboardRoute)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuth gates the protected area: anonymous requests are redirected
// to the login route, authenticated ones pass with the current user stashed
// in the context.
func RequireAuth(provider *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !provider.IsAuthenticated() {
			c.Redirect(http.StatusFound, LoginRoute)
			c.Abort()
			return
		}
		c.Set(userContextKey, provider.CurrentUser())
		c.Next()
	}
}

// Access describes what a permission-gated route requires.
//
// Permission and Permissions combine with logical AND: when both are set,
// the single Permission must pass first and then the list is evaluated.
// RequireAll only switches the list between all-of and any-of semantics —
// it never turns the two mechanisms into an OR. Callers wanting plain
// any-of must leave Permission empty and use Permissions alone.
type Access struct {
	Permission  string
	Permissions []string
	RequireAll  bool
	// Fallback, when set, handles denied requests instead of the default
	// redirect to the dashboard.
	Fallback gin.HandlerFunc
}

// granted evaluates the access contract against the provider's snapshot.
func (a Access) granted(provider *auth.Provider) bool {
	if a.Permission != "" && !provider.HasPermission(a.Permission) {
		return false
	}
	if len(a.Permissions) > 0 {
		if a.RequireAll {
			for _, perm := range a.Permissions {
				if !provider.HasPermission(perm) {
					return false
				}
			}
		} else if !provider.HasAnyPermission(a.Permissions) {
			return false
		}
	}
	return true
}

// CanAccess is the non-routing form of the permission gate, for gating
// fragments inside an already-authorized screen. Same tie-break semantics
// as [RequirePermission].
func CanAccess(provider *auth.Provider, access Access) bool {
	return access.granted(provider)
}

// RequirePermission gates a route on the access contract. While the
// provider is still hydrating it answers 503 with Retry-After — never a
// redirect, so a first paint before permissions are known cannot bounce the
// operator away. Once loaded, denials invoke the fallback when set and
// redirect to the dashboard otherwise.
func RequirePermission(provider *auth.Provider, access Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provider.Loading() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
			c.Abort()
			return
		}
		if !access.granted(provider) {
			if access.Fallback != nil {
				access.Fallback(c)
				c.Abort()
				return
			}
			c.Redirect(http.StatusFound, DashboardRoute)
			c.Abort()
			return
		}
		c.Next()
	}
}
