package domain

// Payment is a recurring project payment tracked by the CEO dashboard.
// Date is the next due date as yyyy-mm-dd; Paid mirrors the backend's
// boolean "payment" field.
type Payment struct {
	ID      int64   `json:"id"`
	Project string  `json:"project"`
	Date    string  `json:"date"`
	Amount  float64 `json:"summ"`
	Paid    bool    `json:"payment"`
}
