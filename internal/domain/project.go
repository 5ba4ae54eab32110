package domain

// Project is a hosted WordPress site tracked by the console.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	IsActive    bool   `json:"is_active"`
}
