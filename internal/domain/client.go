package domain

import "time"

// ClientStatus enumerates CRM pipeline states.
type ClientStatus string

const (
	ClientStatusNeedToCall     ClientStatus = "need_to_call"
	ClientStatusContacted      ClientStatus = "contacted"
	ClientStatusProjectStarted ClientStatus = "project_started"
	ClientStatusContinuing     ClientStatus = "continuing"
	ClientStatusFinished       ClientStatus = "finished"
	ClientStatusRejected       ClientStatus = "rejected"
)

// Client is a CRM customer record.
type Client struct {
	ID            int64        `json:"id"`
	FullName      string       `json:"full_name"`
	Platform      string       `json:"platform"`
	Username      string       `json:"username"`
	PhoneNumber   string       `json:"phone_number"`
	Status        ClientStatus `json:"status"`
	AssistantName string       `json:"assistant_name"`
	Notes         string       `json:"notes"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// StatusStats aggregates the CRM pipeline counters.
type StatusStats struct {
	TotalCustomers int `json:"total_customers"`
	NeedToCall     int `json:"need_to_call"`
	Contacted      int `json:"contacted"`
	ProjectStarted int `json:"project_started"`
	Continuing     int `json:"continuing"`
	Finished       int `json:"finished"`
	Rejected       int `json:"rejected"`
}

// CRMDashboard is the GET /crm/dashboard payload.
type CRMDashboard struct {
	Customers         []Client           `json:"customers"`
	StatusStats       StatusStats        `json:"status_stats"`
	StatusDict        map[string]int     `json:"status_dict"`
	StatusPercentages map[string]float64 `json:"status_percentages"`
	Permissions       []string           `json:"permissions"`
	SelectedStatus    *string            `json:"selected_status"`
}
