package constants

// ContextKeyUserID is the gin context key holding the authenticated user id.
const ContextKeyUserID = "user_id"

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8

// Pagination bounds for list endpoints.
const (
	DefaultPageSize = 100
	MinPageSize     = 1
	MaxPageSize     = 2000
)

// MaxTreeDepth bounds the ancestor walk during cycle checks. A chain deeper
// than this is rejected even when acyclic.
const MaxTreeDepth = 100

// TokenIssuer is the JWT issuer claim.
const TokenIssuer = "project-calendar"
