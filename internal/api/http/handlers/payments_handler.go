package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	"github.com/spec-kit/admin-console/internal/authz"
	"github.com/spec-kit/admin-console/internal/stores"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// PaymentsHandler exposes the recurring payments list.
type PaymentsHandler struct {
	payments *stores.PaymentsStore
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *stores.PaymentsStore) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// List handles GET /api/payments.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	payments, err := h.payments.List(c.UserContext(), authz.SessionID(c), c.QueryBool("force"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"payments": payments}})
}

// Create handles POST /api/payments.
func (h *PaymentsHandler) Create(c *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := h.payments.Create(c.UserContext(), authz.SessionID(c), req.Payload())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// Update handles PUT /api/payments/:id.
func (h *PaymentsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.payments.Update(c.UserContext(), authz.SessionID(c), id, req.Payload())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": updated})
}

// Delete handles DELETE /api/payments/:id.
func (h *PaymentsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.payments.Delete(c.UserContext(), authz.SessionID(c), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Toggle handles POST /api/payments/:id/toggle, flipping the paid flag.
func (h *PaymentsHandler) Toggle(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	updated, err := h.payments.Toggle(c.UserContext(), authz.SessionID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": updated})
}
