package domain

// FinanceBalances holds the card and aggregate balances. The backend sends
// decimals as strings; the store parses them once on ingest.
type FinanceBalances struct {
	Total     float64
	Potential float64
	Card1     float64
	Card2     float64
	Card3     float64
}

// FinanceDashboard is the parsed GET /finance/dashboard snapshot.
type FinanceDashboard struct {
	ExchangeRate string
	Balances     FinanceBalances
	Donation     float64
}

// ExchangeRate is the USD to UZS rate with its fetch time, used for
// staleness decisions.
type ExchangeRate struct {
	USDToUZS  float64
	FetchedAt int64
}
