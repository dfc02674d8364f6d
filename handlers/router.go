package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lahornada/backoffice/api"
	"github.com/lahornada/backoffice/auth"
	"github.com/lahornada/backoffice/middleware"
	"github.com/lahornada/backoffice/session"
)

// Sidebar permissions guarding each screen, as named by the remote API.
const (
	PermRolesPermisos = "admin.sidebar.roles.y.permisos"
	PermUsuarios      = "admin.sidebar.usuarios"
	PermCategorias    = "admin.sidebar.productos.categorias"
)

// NewRouter assembles the console's route topology: public screens behind
// the public-only gate, the protected area behind the authenticated-only
// gate, and each CRUD screen behind its sidebar permission.
func NewRouter(provider *auth.Provider, store session.Store, client *api.Client, log logrus.FieldLogger) *gin.Engine {
	h := New(provider, store, client, log)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(h.log))

	public := router.Group("", middleware.PublicOnly(provider))
	{
		public.GET(middleware.LoginRoute, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"screen": "signin"})
		})
		public.POST("/login", h.SignIn)
		public.POST("/password/email", h.RequestPasswordReset)
		public.POST("/password/validate", h.ValidateResetToken)
		public.POST("/password/reset", h.ConfirmPasswordReset)
	}

	protected := router.Group("", middleware.RequireAuth(provider))
	{
		protected.GET(middleware.DashboardRoute, func(c *gin.Context) {
			user, _ := middleware.UserFromContext(c)
			c.JSON(http.StatusOK, gin.H{"screen": "dashboard", "user": user})
		})
		protected.POST("/logout", h.SignOut)
		protected.GET("/me", h.Me)
		protected.POST("/me/refresh", h.RefreshMe)

		roles := protected.Group("/roles", middleware.RequirePermission(provider, middleware.Access{
			Permission: PermRolesPermisos,
		}))
		{
			roles.GET("", h.ListRoles)
			roles.POST("", h.CreateRole)
			roles.DELETE("/:id", h.DeleteRole)
			roles.GET("/:id/permisos", h.ListRolePermissions)
			roles.POST("/:id/permisos", h.AttachPermission)
		}

		permisos := protected.Group("/permisos", middleware.RequirePermission(provider, middleware.Access{
			Permission: PermRolesPermisos,
		}))
		{
			permisos.GET("", h.ListPermissions)
			permisos.POST("", h.CreatePermission)
		}

		usuarios := protected.Group("/usuarios", middleware.RequirePermission(provider, middleware.Access{
			Permission: PermUsuarios,
		}))
		{
			usuarios.GET("", h.ListUsers)
			usuarios.POST("", h.CreateUser)
			usuarios.GET("/:id", h.GetUser)
			usuarios.PUT("/:id", h.UpdateUser)
		}

		categorias := protected.Group("/categorias", middleware.RequirePermission(provider, middleware.Access{
			Permission: PermCategorias,
		}))
		{
			categorias.GET("", h.ListCategories)
			categorias.POST("", h.CreateCategory)
			categorias.PUT("/:id", h.UpdateCategory)
		}
	}

	return router
}
