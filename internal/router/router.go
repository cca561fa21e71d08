// Package router implements the registry of (method, pattern, handler,
// route-middleware) entries described in spec.md §4.4: static-over-dynamic
// precedence, first-registration tie-breaking, and 404/405 signaling.
//
// The segment-match technique (split the pattern on '/', classify each
// segment as literal or ":param", compare a candidate path
// segment-by-segment) is grounded on the pack's
// arkd0ng-go-utils/websvrutil router, re-expressed against this project's
// own request/response types instead of net/http.
package router

import (
	"strings"

	"wireserve/internal/pipeline"
	"wireserve/internal/request"
	"wireserve/internal/response"
)

// Handler is a route's terminal handler.
type Handler func(req *request.Request, res *response.Response)

// segment is either a literal path component or a named parameter.
type segment struct {
	literal string
	param   string
	isParam bool
}

// Route is one registered (method, pattern, handler, route-middleware)
// tuple.
type Route struct {
	Method     string
	Pattern    string
	Handler    Handler
	Middleware []pipeline.NormalFunc
	IsStatic   bool

	segments []segment
}

// Router holds the full registry and resolves (method, path) pairs
// against it.
type Router struct {
	routes []*Route
}

// New returns an empty Router.
func New() *Router { return &Router{} }

// Add registers a route with no route-scoped middleware.
func (rt *Router) Add(method, pattern string, handler Handler) *Route {
	return rt.AddWithMiddleware(method, pattern, nil, handler)
}

// AddWithMiddleware registers a route with route-scoped middleware that
// runs after global pipeline middleware and before handler.
func (rt *Router) AddWithMiddleware(method, pattern string, mw []pipeline.NormalFunc, handler Handler) *Route {
	segs := splitPattern(pattern)
	static := true
	for _, s := range segs {
		if s.isParam {
			static = false
			break
		}
	}
	route := &Route{
		Method:     strings.ToUpper(method),
		Pattern:    pattern,
		Handler:    handler,
		Middleware: mw,
		IsStatic:   static,
		segments:   segs,
	}
	rt.routes = append(rt.routes, route)
	return route
}

func splitPattern(pattern string) []segment {
	parts := strings.Split(pattern, "/")
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, ":") {
			segs = append(segs, segment{isParam: true, param: p[1:]})
		} else {
			segs = append(segs, segment{literal: p})
		}
	}
	return segs
}

// Outcome discriminates Resolve's result.
type Outcome int

const (
	Matched Outcome = iota
	NotFound
	MethodNotAllowed
)

// Result is what Resolve returns.
type Result struct {
	Outcome Outcome
	Route   *Route
	Params  map[string]string
	Allowed []string // populated only for MethodNotAllowed, order-insensitive
}

// Resolve matches method+path against the registry. Among method-matching
// routes, a static route beats a dynamic one; otherwise the
// first-registered matching route wins. If no method-matching route
// matches the path but a different-method route does, it reports
// MethodNotAllowed with the set of methods that do match.
func (rt *Router) Resolve(method, path string) Result {
	pathSegs := splitPath(path)

	var bestStatic *Route
	var bestParams map[string]string
	var bestDynamic *Route
	var bestDynamicParams map[string]string

	allowedSet := map[string]bool{}

	for _, route := range rt.routes {
		params, ok := matchSegments(route.segments, pathSegs)
		if !ok {
			continue
		}
		if route.Method != strings.ToUpper(method) {
			allowedSet[route.Method] = true
			continue
		}
		if route.IsStatic {
			if bestStatic == nil {
				bestStatic = route
				bestParams = params
			}
			continue
		}
		if bestDynamic == nil {
			bestDynamic = route
			bestDynamicParams = params
		}
	}

	if bestStatic != nil {
		return Result{Outcome: Matched, Route: bestStatic, Params: bestParams}
	}
	if bestDynamic != nil {
		return Result{Outcome: Matched, Route: bestDynamic, Params: bestDynamicParams}
	}
	if len(allowedSet) > 0 {
		allowed := make([]string, 0, len(allowedSet))
		for m := range allowedSet {
			allowed = append(allowed, m)
		}
		return Result{Outcome: MethodNotAllowed, Allowed: allowed}
	}
	return Result{Outcome: NotFound}
}

// splitPath segments an actual request path. Unlike splitPattern, every
// segment is literal — a path containing a literal ':' is never mistaken
// for a parameter placeholder.
func splitPath(path string) []segment {
	parts := strings.Split(path, "/")
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		segs = append(segs, segment{literal: p})
	}
	return segs
}

// matchSegments compares a route's segments against a path's segments,
// percent-decoding and extracting named parameters along the way. Literal
// segments are compared byte-exactly, with no decoding.
func matchSegments(routeSegs, pathSegs []segment) (map[string]string, bool) {
	if len(routeSegs) != len(pathSegs) {
		return nil, false
	}
	params := map[string]string{}
	for i, rs := range routeSegs {
		ps := pathSegs[i]
		if rs.isParam {
			params[rs.param] = request.PercentDecode(ps.literal, false)
			continue
		}
		if rs.literal != ps.literal {
			return nil, false
		}
	}
	return params, true
}
