package domain

// SalesStats is the GET /crm/stats payload: the pipeline counters plus the
// sales rows they were computed from.
type SalesStats struct {
	Sales             []Client           `json:"sales"`
	TotalCustomers    int                `json:"total_customers"`
	NeedToCall        int                `json:"need_to_call"`
	Contacted         int                `json:"contacted"`
	ProjectStarted    int                `json:"project_started"`
	Continuing        int                `json:"continuing"`
	Finished          int                `json:"finished"`
	Rejected          int                `json:"rejected"`
	StatusDict        map[string]int     `json:"status_dict"`
	StatusPercentages map[string]float64 `json:"status_percentages"`
}

// AdminStats summarizes the CEO dashboard counters.
type AdminStats struct {
	UserCount         int `json:"user_count"`
	MessagesCount     int `json:"messages_count"`
	ActiveUserCount   int `json:"active_user_count"`
	InactiveUserCount int `json:"inactive_user_count"`
}

// AdminDashboard is the GET /ceo/dashboard payload.
type AdminDashboard struct {
	Statistics AdminStats `json:"statistics"`
	Users      []User     `json:"users"`
}
