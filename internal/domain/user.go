package domain

// PermissionMap is a tree of granted capabilities. Each key maps to either a
// boolean grant or a nested PermissionMap of finer-grained permissions
// (decoded from JSON as map[string]any).
type PermissionMap map[string]any

// User is the authenticated profile returned by GET /auth/me.
type User struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Surname     string        `json:"surname,omitempty"`
	Role        string        `json:"role,omitempty"`
	CompanyCode string        `json:"company_code,omitempty"`
	TelegramID  string        `json:"telegram_id,omitempty"`
	IsActive    bool          `json:"is_active"`
	Permissions PermissionMap `json:"permissions,omitempty"`
}

// FullName joins name and surname for display.
func (u *User) FullName() string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}

// UserPermission is one named grant row from the permission admin endpoints.
type UserPermission struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Granted bool   `json:"granted"`
}
