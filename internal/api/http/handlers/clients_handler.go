package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	"github.com/spec-kit/admin-console/internal/authz"
	"github.com/spec-kit/admin-console/internal/stores"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// ClientsHandler exposes the CRM dashboard and customer CRUD.
type ClientsHandler struct {
	clients *stores.ClientsStore
	sales   *stores.SalesStore
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clients *stores.ClientsStore, sales *stores.SalesStore) *ClientsHandler {
	return &ClientsHandler{clients: clients, sales: sales}
}

// Dashboard handles GET /api/crm/dashboard.
func (h *ClientsHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.clients.Dashboard(c.UserContext(), authz.SessionID(c), c.QueryBool("force"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dash})
}

// Stats handles GET /api/crm/stats.
func (h *ClientsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.sales.Stats(c.UserContext(), authz.SessionID(c), c.QueryBool("force"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// CreateCustomer handles POST /api/crm/customers.
func (h *ClientsHandler) CreateCustomer(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := h.clients.Add(c.UserContext(), authz.SessionID(c), req.Payload())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// UpdateCustomer handles PUT /api/crm/customers/:id.
func (h *ClientsHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.clients.Update(c.UserContext(), authz.SessionID(c), id, req.Payload())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": updated})
}

// DeleteCustomer handles DELETE /api/crm/customers/:id.
func (h *ClientsHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.clients.Delete(c.UserContext(), authz.SessionID(c), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateSale handles POST /api/sales.
func (h *ClientsHandler) CreateSale(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := h.sales.Add(c.UserContext(), authz.SessionID(c), req.Payload())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// UpdateSale handles PUT /api/sales/:id.
func (h *ClientsHandler) UpdateSale(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.sales.Update(c.UserContext(), authz.SessionID(c), id, req.Payload())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": updated})
}

// DeleteSale handles DELETE /api/sales/:id.
func (h *ClientsHandler) DeleteSale(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.sales.Delete(c.UserContext(), authz.SessionID(c), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}
