package constants

// Session and context keys
const (
	SessionCookieName   = "task_session"
	ContextKeyUserID    = "user_id"
	ContextKeyTaskID    = "task_id"
	ContextKeyRequestID = "request_id"
	ContextKeyLogger    = "logger"

	HeaderRequestID = "X-Request-ID"
)

// Session lifetime in seconds (7 days)
const SessionMaxAge = 86400 * 7

// Field limits, mirrored by the column sizes in models
const (
	MaxUsernameLength = 50
	MaxEmailLength    = 120
	MaxTitleLength    = 100
)

// StatusFilterAll disables status narrowing when listing tasks
const StatusFilterAll = "all"

// AI drafting limits
const MaxAIDraftedTasks = 20
