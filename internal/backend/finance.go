package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/spec-kit/admin-console/internal/domain"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// financeDashboardResponse mirrors the upstream wire format: balances are
// decimal strings.
type financeDashboardResponse struct {
	ExchangeRate string `json:"exchange_rate"`
	Balances     struct {
		TotalBalance     string `json:"total_balance"`
		PotentialBalance string `json:"potential_balance"`
		Card1Balance     string `json:"card1_balance"`
		Card2Balance     string `json:"card2_balance"`
		Card3Balance     string `json:"card3_balance"`
	} `json:"balances"`
	DonationBalance string `json:"donation_balance"`
}

type exchangeRateResponse struct {
	USDToUZS *float64 `json:"usd_to_uzs"`
}

// FinanceDashboard fetches and parses the balance snapshot.
func (c *Client) FinanceDashboard(ctx context.Context) (*domain.FinanceDashboard, error) {
	var resp financeDashboardResponse
	if err := c.doJSON(ctx, "finance.dashboard", http.MethodGet, "/finance/dashboard", nil, &resp); err != nil {
		return nil, err
	}

	dash := &domain.FinanceDashboard{
		ExchangeRate: resp.ExchangeRate,
		Balances: domain.FinanceBalances{
			Total:     parseBalance(resp.Balances.TotalBalance),
			Potential: parseBalance(resp.Balances.PotentialBalance),
			Card1:     parseBalance(resp.Balances.Card1Balance),
			Card2:     parseBalance(resp.Balances.Card2Balance),
			Card3:     parseBalance(resp.Balances.Card3Balance),
		},
		Donation: parseBalance(resp.DonationBalance),
	}
	return dash, nil
}

// USDToUZS fetches the current exchange rate.
func (c *Client) USDToUZS(ctx context.Context) (float64, error) {
	var resp exchangeRateResponse
	if err := c.doJSON(ctx, "finance.exchange_rate", http.MethodGet, "/finance/exchange-rate", nil, &resp); err != nil {
		return 0, err
	}
	if resp.USDToUZS == nil {
		return 0, apperrors.NewUpstreamUnavailable(errMissingRate)
	}
	return *resp.USDToUZS, nil
}

func parseBalance(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

var errMissingRate = &missingRateError{}

type missingRateError struct{}

func (*missingRateError) Error() string { return "usd_to_uzs rate missing from response" }
