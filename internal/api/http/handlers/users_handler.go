package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	"github.com/spec-kit/admin-console/internal/authz"
	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/stores"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// UsersHandler exposes managed-user CRUD and the CEO dashboard.
type UsersHandler struct {
	api   *backend.Client
	stats *stores.AdminStatsStore
}

// NewUsersHandler constructs handler.
func NewUsersHandler(api *backend.Client, stats *stores.AdminStatsStore) *UsersHandler {
	return &UsersHandler{api: api, stats: stats}
}

// Dashboard handles GET /api/dashboard.
func (h *UsersHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.stats.Dashboard(c.UserContext(), authz.SessionID(c), c.QueryBool("force"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dash})
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sid := authz.SessionID(c)
	created, err := h.api.CreateUser(backend.WithSession(c.UserContext(), sid), req.Payload())
	if err != nil {
		return err
	}
	h.stats.Invalidate(sid)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sid := authz.SessionID(c)
	updated, err := h.api.UpdateUser(backend.WithSession(c.UserContext(), sid), c.Params("id"), req.Payload())
	if err != nil {
		return err
	}
	h.stats.Invalidate(sid)
	return c.JSON(fiber.Map{"data": updated})
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	sid := authz.SessionID(c)
	if err := h.api.DeleteUser(backend.WithSession(c.UserContext(), sid), c.Params("id")); err != nil {
		return err
	}
	h.stats.Invalidate(sid)
	return c.SendStatus(http.StatusNoContent)
}

// Permissions handles GET /api/users/:id/permissions.
func (h *UsersHandler) Permissions(c *fiber.Ctx) error {
	sid := authz.SessionID(c)
	perms, err := h.api.UserPermissions(backend.WithSession(c.UserContext(), sid), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": perms})
}

// UpdatePermissions handles PUT /api/users/:id/permissions.
func (h *UsersHandler) UpdatePermissions(c *fiber.Ctx) error {
	var perms []domain.UserPermission
	if err := c.BodyParser(&perms); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sid := authz.SessionID(c)
	updated, err := h.api.UpdateUserPermissions(backend.WithSession(c.UserContext(), sid), c.Params("id"), perms)
	if err != nil {
		return err
	}
	h.stats.Invalidate(sid)
	return c.JSON(fiber.Map{"data": updated})
}
