package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lahornada/backoffice/api"
)

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador inválido"})
		return 0, false
	}
	return id, true
}

// ListRoles backs the roles table.
func (h *Handler) ListRoles(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	roles, err := h.client.Roles(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

type nameForm struct {
	Name string `json:"name" validate:"required"`
}

// CreateRole backs the new-role modal.
func (h *Handler) CreateRole(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	var form nameForm
	if err := c.ShouldBindJSON(&form); err != nil || h.validate.Struct(form) != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"name": "El nombre es obligatorio"}})
		return
	}
	role, err := h.client.CreateRole(c.Request.Context(), token, form.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"role": role})
}

// DeleteRole backs the delete-role confirmation modal.
func (h *Handler) DeleteRole(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.client.DeleteRole(c.Request.Context(), token, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListRolePermissions backs the per-role permissions table.
func (h *Handler) ListRolePermissions(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	perms, err := h.client.RolePermissions(c.Request.Context(), token, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permissions": perms})
}

type attachPermissionForm struct {
	PermissionID int `json:"permission_id" validate:"required,gt=0"`
}

// AttachPermission backs the add-permission-to-role modal.
func (h *Handler) AttachPermission(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form attachPermissionForm
	if err := c.ShouldBindJSON(&form); err != nil || h.validate.Struct(form) != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Permiso inválido"})
		return
	}
	if err := h.client.AttachPermission(c.Request.Context(), token, id, form.PermissionID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListPermissions backs the all-permissions table.
func (h *Handler) ListPermissions(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	perms, err := h.client.Permissions(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permissions": perms})
}

// CreatePermission backs the new-permission modal.
func (h *Handler) CreatePermission(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	var form nameForm
	if err := c.ShouldBindJSON(&form); err != nil || h.validate.Struct(form) != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"name": "El nombre es obligatorio"}})
		return
	}
	perm, err := h.client.CreatePermission(c.Request.Context(), token, form.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"permission": perm})
}

// ListUsers backs the users table.
func (h *Handler) ListUsers(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	users, err := h.client.Users(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type createUserForm struct {
	Nombre   string   `json:"nombre" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles"`
}

// CreateUser backs the new-user modal.
func (h *Handler) CreateUser(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	var form createUserForm
	if err := c.ShouldBindJSON(&form); err != nil || h.validate.Struct(form) != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Datos de usuario inválidos"})
		return
	}
	user, err := h.client.CreateUser(c.Request.Context(), token, api.CreateUserInput{
		Nombre:   form.Nombre,
		Email:    form.Email,
		Password: form.Password,
		Roles:    form.Roles,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type updateUserForm struct {
	Nombre string   `json:"nombre"`
	Email  string   `json:"email" validate:"omitempty,email"`
	Roles  []string `json:"roles"`
}

// UpdateUser backs the edit-user modal.
func (h *Handler) UpdateUser(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form updateUserForm
	if err := c.ShouldBindJSON(&form); err != nil || h.validate.Struct(form) != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Datos de usuario inválidos"})
		return
	}
	user, err := h.client.UpdateUser(c.Request.Context(), token, id, api.UpdateUserInput{
		Nombre: form.Nombre,
		Email:  form.Email,
		Roles:  form.Roles,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetUser backs the user detail view, roles and permissions included.
func (h *Handler) GetUser(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.client.AdminInfo(c.Request.Context(), token, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListCategories backs the product-category config table.
func (h *Handler) ListCategories(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	cats, err := h.client.Categories(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categorias": cats})
}

type categoryForm struct {
	Nombre string `json:"nombre" validate:"required"`
	Estado bool   `json:"estado"`
}

// CreateCategory backs the new-category modal.
func (h *Handler) CreateCategory(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	var form categoryForm
	if err := c.ShouldBindJSON(&form); err != nil || h.validate.Struct(form) != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"nombre": "El nombre es obligatorio"}})
		return
	}
	cat, err := h.client.CreateCategory(c.Request.Context(), token, form.Nombre)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"categoria": cat})
}

// UpdateCategory backs the rename/toggle-state modal.
func (h *Handler) UpdateCategory(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form categoryForm
	if err := c.ShouldBindJSON(&form); err != nil || h.validate.Struct(form) != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"nombre": "El nombre es obligatorio"}})
		return
	}
	cat, err := h.client.UpdateCategory(c.Request.Context(), token, id, form.Nombre, form.Estado)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categoria": cat})
}
