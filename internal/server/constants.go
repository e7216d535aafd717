package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Security thresholds
const (
	// FailedAuthAlertThreshold is how many failed attempts from one IP
	// trigger a security alert log line
	FailedAuthAlertThreshold = 5
	// RateLimitMaxRequests is the per-IP request cap per window
	RateLimitMaxRequests = 1000
	// TrackingWindow is how long per-IP tallies accumulate before reset
	TrackingWindow = 5 * time.Minute
)

// Request size limit for JSON bodies
const MaxRequestBodyBytes = 1 << 20

// PublicPaths bypass API key authentication. The live drop feed is
// public so read-only clients can subscribe without credentials.
var PublicPaths = []string{
	"/healthz",
	"/readyz",
	"/version",
	"/metrics",
	"/api/v1/feed",
}

// Header redaction marker
const RedactedValue = "[REDACTED]"
