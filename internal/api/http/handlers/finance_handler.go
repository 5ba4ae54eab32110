package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/authz"
	"github.com/spec-kit/admin-console/internal/stores"
)

// FinanceHandler exposes the balance dashboard and exchange rate.
type FinanceHandler struct {
	finance *stores.FinanceStore
	rates   *stores.ExchangeRateStore
}

// NewFinanceHandler constructs handler.
func NewFinanceHandler(finance *stores.FinanceStore, rates *stores.ExchangeRateStore) *FinanceHandler {
	return &FinanceHandler{finance: finance, rates: rates}
}

// Dashboard handles GET /api/finance/dashboard.
func (h *FinanceHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.finance.Dashboard(c.UserContext(), authz.SessionID(c), c.QueryBool("force"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"exchange_rate": dash.ExchangeRate,
		"balances": fiber.Map{
			"total_balance":     dash.Balances.Total,
			"potential_balance": dash.Balances.Potential,
			"card1_balance":     dash.Balances.Card1,
			"card2_balance":     dash.Balances.Card2,
			"card3_balance":     dash.Balances.Card3,
		},
		"donation_balance": dash.Donation,
	}})
}

// ExchangeRate handles GET /api/finance/exchange-rate.
func (h *FinanceHandler) ExchangeRate(c *fiber.Ctx) error {
	rate, err := h.rates.Rate(c.UserContext(), authz.SessionID(c), c.QueryBool("force"))
	if err != nil {
		// Serve the last known rate when the refresh fails but a value
		// exists; dashboards prefer stale over broken.
		if last, ok := h.rates.Last(); ok {
			return c.JSON(fiber.Map{"data": fiber.Map{
				"usd_to_uzs": last.USDToUZS,
				"fetched_at": last.FetchedAt,
				"stale":      true,
			}})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"usd_to_uzs": rate.USDToUZS,
		"fetched_at": rate.FetchedAt,
	}})
}
