package types

import "time"

// Toast represents a notification message
type Toast struct {
	Level   ToastLevel
	Message string
	Expires time.Time
}

// NewToast creates a toast that lives for ttl from now
func NewToast(level ToastLevel, message string, ttl time.Duration) Toast {
	return Toast{
		Level:   level,
		Message: message,
		Expires: time.Now().Add(ttl),
	}
}

// Expired reports whether the toast should be dropped at now
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}

// ToastLevel indicates the severity of a toast
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// String returns the level name used in log records
func (l ToastLevel) String() string {
	switch l {
	case ToastSuccess:
		return "success"
	case ToastWarning:
		return "warning"
	case ToastError:
		return "error"
	default:
		return "info"
	}
}
