// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file defines HTTP headers, content types and security header
// values used by the middleware and response helpers.
package constants

// HTTP Header Names define common HTTP headers used in requests and responses.
const (
	HeaderContentType           = "Content-Type"
	HeaderCacheControl          = "Cache-Control"
	HeaderPragma                = "Pragma"
	HeaderExpires               = "Expires"
	HeaderAuthorization         = "Authorization"
	HeaderXRequestID            = "X-Request-ID"
	HeaderXForwardedFor         = "X-Forwarded-For"
	HeaderXRealIP               = "X-Real-IP"
	HeaderRetryAfter            = "Retry-After"
	HeaderRateLimitLimit        = "RateLimit-Limit"
	HeaderRateLimitRemaining    = "RateLimit-Remaining"
	HeaderXContentTypeOptions   = "X-Content-Type-Options"
	HeaderXFrameOptions         = "X-Frame-Options"
	HeaderXXSSProtection        = "X-XSS-Protection"
	HeaderReferrerPolicy        = "Referrer-Policy"
	HeaderContentSecurityPolicy = "Content-Security-Policy"
)

// HTTP Content Types define media types used in the Content-Type header.
const (
	ContentTypeJSON = "application/json"
)

// Security Header Values implement the recommended browser protections.
const (
	FrameOptionsDeny           = "DENY"
	XSSProtectionModeBlock     = "1; mode=block"
	ContentTypeOptionsNoSniff  = "nosniff"
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"
	CSPDefaultSrc              = "default-src 'self'"
	CacheControlNoStore        = "no-cache, no-store, must-revalidate"
	PragmaNoCache              = "no-cache"
	ExpiresZero                = "0"
)
