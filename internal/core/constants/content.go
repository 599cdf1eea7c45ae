package constants

const (
	ContentTypeJSON   = "application/json"
	ContentTypeText   = "text/plain; charset=utf-8"
	HeaderContentType = "Content-Type"
	HeaderRetryAfter  = "Retry-After"
	HeaderRequestID   = "X-Request-ID"
	HeaderAdminToken  = "X-Admin-Token"
)
