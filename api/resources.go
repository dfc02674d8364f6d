package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/lahornada/backoffice/session"
)

// Role is a named grouping of permissions.
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Permission is an opaque capability identifier, e.g.
// "admin.sidebar.roles.y.permisos".
type Permission struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Category is a product category with an active/inactive state.
type Category struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Estado bool   `json:"estado"`
}

// AdminUser is a back-office account as the users screen sees it.
type AdminUser struct {
	ID     int      `json:"id"`
	Nombre string   `json:"nombre"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles,omitempty"`
}

// CreateUserInput is the payload for creating a back-office account.
type CreateUserInput struct {
	Nombre   string   `json:"nombre"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

// UpdateUserInput is the payload for editing an account. Empty fields are
// left unchanged server-side.
type UpdateUserInput struct {
	Nombre string   `json:"nombre,omitempty"`
	Email  string   `json:"email,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

// Roles lists all roles. The API returns an id-to-name object; the client
// flattens it into a slice sorted by ID.
func (c *Client) Roles(ctx context.Context, token string) ([]Role, error) {
	var payload struct {
		Roles map[string]string `json:"roles"`
	}
	if err := c.do(ctx, http.MethodGet, "/roles", token, nil, &payload); err != nil {
		return nil, err
	}

	roles := make([]Role, 0, len(payload.Roles))
	for id, name := range payload.Roles {
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, &Error{Status: http.StatusOK, Message: fmt.Sprintf("non-numeric role id %q", id)}
		}
		roles = append(roles, Role{ID: n, Name: name})
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

// CreateRole creates a role with the given name.
func (c *Client) CreateRole(ctx context.Context, token, name string) (*Role, error) {
	var role Role
	if err := c.do(ctx, http.MethodPost, "/roles", token, map[string]string{"name": name}, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// DeleteRole removes a role.
func (c *Client) DeleteRole(ctx context.Context, token string, roleID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/roles/%d", roleID), token, nil, nil)
}

// RolePermissions lists the permissions attached to a role.
func (c *Client) RolePermissions(ctx context.Context, token string, roleID int) ([]Permission, error) {
	var payload struct {
		Permissions []Permission `json:"permissions"`
	}
	path := fmt.Sprintf("/roles/%d/permissions", roleID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Permissions, nil
}

// AttachPermission adds an existing permission to a role.
func (c *Client) AttachPermission(ctx context.Context, token string, roleID, permissionID int) error {
	path := fmt.Sprintf("/roles/%d/permissions", roleID)
	body := map[string]int{"permission_id": permissionID}
	return c.do(ctx, http.MethodPost, path, token, body, nil)
}

// Permissions lists every permission known to the API.
func (c *Client) Permissions(ctx context.Context, token string) ([]Permission, error) {
	var payload struct {
		Permissions []Permission `json:"permissions"`
	}
	if err := c.do(ctx, http.MethodGet, "/permissions", token, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Permissions, nil
}

// CreatePermission registers a new permission name.
func (c *Client) CreatePermission(ctx context.Context, token, name string) (*Permission, error) {
	var perm Permission
	if err := c.do(ctx, http.MethodPost, "/permissions", token, map[string]string{"name": name}, &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// Users lists the back-office accounts.
func (c *Client) Users(ctx context.Context, token string) ([]AdminUser, error) {
	var payload struct {
		Users []AdminUser `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/usuarios", token, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Users, nil
}

// CreateUser creates a back-office account.
func (c *Client) CreateUser(ctx context.Context, token string, input CreateUserInput) (*AdminUser, error) {
	var user AdminUser
	if err := c.do(ctx, http.MethodPost, "/usuarios", token, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser edits a back-office account.
func (c *Client) UpdateUser(ctx context.Context, token string, id int, input UpdateUserInput) (*AdminUser, error) {
	var user AdminUser
	path := fmt.Sprintf("/usuarios/%d", id)
	if err := c.do(ctx, http.MethodPut, path, token, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminInfo fetches the full profile of one account, roles and permissions
// included.
func (c *Client) AdminInfo(ctx context.Context, token string, id int) (*session.User, error) {
	var user session.User
	path := fmt.Sprintf("/usuarios/%d", id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Categories lists the product categories.
func (c *Client) Categories(ctx context.Context, token string) ([]Category, error) {
	var payload struct {
		Categorias []Category `json:"categorias"`
	}
	if err := c.do(ctx, http.MethodGet, "/categorias", token, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Categorias, nil
}

// CreateCategory creates a product category, active by default.
func (c *Client) CreateCategory(ctx context.Context, token, nombre string) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPost, "/categorias", token, map[string]string{"nombre": nombre}, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory renames a category and/or toggles its state.
func (c *Client) UpdateCategory(ctx context.Context, token string, id int, nombre string, estado bool) (*Category, error) {
	var cat Category
	body := map[string]any{"nombre": nombre, "estado": estado}
	path := fmt.Sprintf("/categorias/%d", id)
	if err := c.do(ctx, http.MethodPut, path, token, body, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
