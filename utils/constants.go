package utils

// ContextKey is the type used for values this application stores on a
// request context. A dedicated type avoids collisions with other packages.
type ContextKey string

// Context keys populated by the HTTP layer for downstream flows.
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	CancelFuncKey ContextKey = "cancel_func"
)
