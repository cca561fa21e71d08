package pipeline

import (
	"wireserve/internal/request"
	"wireserve/internal/response"
)

// RunRouteStack runs a sequential list of normal-only middleware (a
// route's own route_middleware, per spec.md §3's Route record), invoking
// done on exhaustion or on the first error. It never invokes error
// handlers itself — the caller (the connection driver) is responsible for
// forwarding any error into the main Pipeline's HandleError, keeping
// route-scoped middleware free of the error-handler complexity.
func RunRouteStack(stack []NormalFunc, req *request.Request, res *response.Response, done func(err error)) {
	runRouteStackFrom(stack, 0, req, res, done)
}

func runRouteStackFrom(stack []NormalFunc, idx int, req *request.Request, res *response.Response, done func(err error)) {
	if res.HeadersSent() {
		return
	}
	if idx >= len(stack) {
		done(nil)
		return
	}
	invokeNormal(stack[idx], req, res, func(err error) {
		if err != nil {
			done(err)
			return
		}
		runRouteStackFrom(stack, idx+1, req, res, done)
	})
}
