package model

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is a transient user-facing message
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}
