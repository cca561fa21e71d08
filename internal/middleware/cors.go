// Package middleware implements the domain middleware cataloged in
// SPEC_FULL.md §D: CORS, security headers, per-IP rate limiting,
// request-body parsing, access logging, and JWT auth guarding. Each is a
// pipeline.NormalFunc, grounded on the bolt framework's equivalently named
// middleware in the example pack, re-expressed against this project's own
// request/response/pipeline types instead of bolt's core.Context.
package middleware

import (
	"strconv"
	"strings"

	"wireserve/internal/pipeline"
	"wireserve/internal/request"
	"wireserve/internal/response"
)

// CORSConfig mirrors bolt's CORSConfig: an allow-list of origins (or "*"),
// allowed methods/headers, headers to expose, credential and preflight-age
// settings.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows any origin, the seven wire methods, and any
// request header.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"*"},
		MaxAge:       86400,
	}
}

// CORS returns a middleware that applies DefaultCORSConfig.
func CORS() pipeline.NormalFunc {
	return CORSWithConfig(DefaultCORSConfig())
}

// CORSWithConfig returns CORS middleware for the given configuration. A
// preflight OPTIONS request is answered directly with 204 and never reaches
// the route handler; every other request gets the Access-Control-* response
// headers set before the walk continues.
func CORSWithConfig(config CORSConfig) pipeline.NormalFunc {
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}
	}
	if len(config.AllowHeaders) == 0 {
		config.AllowHeaders = []string{"*"}
	}
	if config.MaxAge == 0 {
		config.MaxAge = 86400
	}

	allowMethods := strings.Join(config.AllowMethods, ", ")
	allowHeaders := strings.Join(config.AllowHeaders, ", ")
	exposeHeaders := strings.Join(config.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	allowAllOrigins := len(config.AllowOrigins) == 0
	originMap := make(map[string]bool, len(config.AllowOrigins))
	for _, o := range config.AllowOrigins {
		if o == "*" {
			allowAllOrigins = true
			break
		}
		originMap[o] = true
	}

	return func(req *request.Request, res *response.Response, next pipeline.Next) {
		origin := req.Headers.Get("origin")

		var allowOrigin string
		switch {
		case allowAllOrigins:
			allowOrigin = "*"
		case origin != "" && originMap[origin]:
			allowOrigin = origin
		}

		if allowOrigin != "" {
			res.SetHeader("access-control-allow-origin", allowOrigin)
			if config.AllowCredentials {
				res.SetHeader("access-control-allow-credentials", "true")
			}
			if len(config.ExposeHeaders) > 0 {
				res.SetHeader("access-control-expose-headers", exposeHeaders)
			}
		}

		if req.Method() == "OPTIONS" {
			if allowOrigin != "" {
				res.SetHeader("access-control-allow-methods", allowMethods)
				res.SetHeader("access-control-allow-headers", allowHeaders)
				res.SetHeader("access-control-max-age", maxAge)
			}
			res.Status(204).Send(nil)
			return
		}

		next(nil)
	}
}
