package usercontext

// Locals keys set by the user context middleware
const (
	KeyUserContext   = "USER_CONTEXT"
	KeyFromProtected = "from_protected"
	KeyIsAdmin       = "is_admin"
)
