package middleware

import (
	"strconv"

	"wireserve/internal/pipeline"
	"wireserve/internal/request"
	"wireserve/internal/response"
)

// SecurityConfig controls which baseline security response headers get set.
// DefaultSecurityConfig fills in the documented defaults; an empty or false
// field (including every field of the zero value) leaves its header unset.
type SecurityConfig struct {
	FrameOptions          string // default "DENY"
	ContentTypeOptions    bool   // default true, sends "nosniff"
	XSSProtection         string // default "1; mode=block"
	ReferrerPolicy        string // default "strict-origin-when-cross-origin"
	PermissionsPolicy     string // default "camera=(), microphone=(), geolocation=()"
	StrictTransportMaxAge int    // seconds; 0 disables HSTS entirely, default 31536000
}

// DefaultSecurityConfig matches the headers most of the example pack's
// helper constant tables name (X-Frame-Options, X-Content-Type-Options,
// X-XSS-Protection, Referrer-Policy, Permissions-Policy), plus a one-year
// HSTS max-age applied on every request.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		FrameOptions:          "DENY",
		ContentTypeOptions:    true,
		XSSProtection:         "1; mode=block",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=()",
		StrictTransportMaxAge: 31536000,
	}
}

// Security returns a middleware applying DefaultSecurityConfig.
func Security() pipeline.NormalFunc {
	return SecurityWithConfig(DefaultSecurityConfig())
}

// SecurityWithConfig returns security-header middleware for the given
// configuration. It sets headers unconditionally before continuing the
// walk; a handler further down the chain may still override any of them.
func SecurityWithConfig(config SecurityConfig) pipeline.NormalFunc {
	return func(req *request.Request, res *response.Response, next pipeline.Next) {
		if config.FrameOptions != "" {
			res.SetHeader("x-frame-options", config.FrameOptions)
		}
		if config.ContentTypeOptions {
			res.SetHeader("x-content-type-options", "nosniff")
		}
		if config.XSSProtection != "" {
			res.SetHeader("x-xss-protection", config.XSSProtection)
		}
		if config.ReferrerPolicy != "" {
			res.SetHeader("referrer-policy", config.ReferrerPolicy)
		}
		if config.PermissionsPolicy != "" {
			res.SetHeader("permissions-policy", config.PermissionsPolicy)
		}
		if config.StrictTransportMaxAge > 0 {
			res.SetHeader("strict-transport-security", hstsValue(config.StrictTransportMaxAge))
		}
		next(nil)
	}
}

func hstsValue(maxAge int) string {
	return "max-age=" + strconv.Itoa(maxAge)
}
