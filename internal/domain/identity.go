package domain

// SubjectType distinguishes caller identities supplied by the auth layer.
type SubjectType string

const (
	SubjectTypeUser  SubjectType = "USER"
	SubjectTypeAgent SubjectType = "AGENT"
)

// SystemAuthor is attached to responses and notes written by queue
// consumers and other non-interactive callers.
const SystemAuthor = "system"
