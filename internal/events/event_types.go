package events

import "time"

// EventType identifies a console lifecycle event.
type EventType string

const (
	// EventSessionLogin fires after a successful login.
	EventSessionLogin EventType = "session.login"
	// EventSessionLogout fires when a session is cleared, whether by the
	// user or by a failed refresh.
	EventSessionLogout EventType = "session.logout"
	// EventSessionRefreshFailed fires when a token refresh is denied and
	// the session is forced out.
	EventSessionRefreshFailed EventType = "session.refresh_failed"
	// EventRateUpdated fires when the exchange-rate worker stores a new rate.
	EventRateUpdated EventType = "rate.updated"
)

// Event is a published lifecycle notification.
type Event struct {
	Type       EventType
	SessionID  string
	UserEmail  string
	OccurredAt time.Time
	Fields     map[string]any
}
