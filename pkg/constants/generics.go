package constants

import "time"

// RFC 3339 date-time format string.
// Use this format for all date-time serialization and communication with external systems.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// Join throttling defaults. 30/min is permissive enough that a user can
// retry after a typo, while still absorbing double-clicks and scripted spam.
const (
	// DefaultJoinThrottleRequests is the default number of join attempts
	// allowed per key per window.
	DefaultJoinThrottleRequests = 30
	// DefaultJoinThrottleWindowMinutes is the default throttle window
	DefaultJoinThrottleWindowMinutes = 1
)

// DefaultJoinThrottleWindow returns the default throttle window duration
func DefaultJoinThrottleWindow() time.Duration {
	return time.Duration(DefaultJoinThrottleWindowMinutes) * time.Minute
}
