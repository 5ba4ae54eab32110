package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	"github.com/spec-kit/admin-console/internal/authz"
	"github.com/spec-kit/admin-console/internal/stores"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// WordpressHandler exposes the hosted project tracker.
type WordpressHandler struct {
	projects *stores.ProjectsStore
}

// NewWordpressHandler constructs handler.
func NewWordpressHandler(projects *stores.ProjectsStore) *WordpressHandler {
	return &WordpressHandler{projects: projects}
}

// List handles GET /api/wordpress/projects.
func (h *WordpressHandler) List(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.UserContext(), authz.SessionID(c), c.QueryBool("force"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projects})
}

// Create handles POST /api/wordpress/projects.
func (h *WordpressHandler) Create(c *fiber.Ctx) error {
	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := h.projects.Create(c.UserContext(), authz.SessionID(c), req.Payload())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// Update handles PUT /api/wordpress/projects/:id.
func (h *WordpressHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.projects.Update(c.UserContext(), authz.SessionID(c), id, req.Payload())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": updated})
}

// Delete handles DELETE /api/wordpress/projects/:id.
func (h *WordpressHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.projects.Delete(c.UserContext(), authz.SessionID(c), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
