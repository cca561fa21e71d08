// Package pipeline implements the ordered middleware chain every request
// travels through: a walked list of normal and error-handling entries,
// each explicitly resuming the walk via a Next continuation or terminating
// it by emitting a response.
//
// This generalizes the teacher's single Handler-returns-*HandlerError
// idiom (internal/server.Handler in the teacher repo) into a full chain:
// the HandlerError becomes the error state threaded through Next, and
// "the handler" becomes the final entry reached only when every middleware
// has advanced without terminating.
package pipeline

import (
	"fmt"

	"wireserve/internal/request"
	"wireserve/internal/response"
)

// Next resumes the walk. Calling it with a non-nil err puts subsequent
// entries in error state; calling it with nil either continues in ok state
// (from a normal entry) or clears a prior error (from an error entry).
type Next func(err error)

// NormalFunc is a normal middleware: invoked while the walk is in ok state.
type NormalFunc func(req *request.Request, res *response.Response, next Next)

// ErrorFunc is an error-handling middleware: invoked only while the walk
// is in error state.
type ErrorFunc func(err error, req *request.Request, res *response.Response, next Next)

// FinalHandler is invoked once, only if the walk exhausts the list in ok
// state — the router dispatch in the connection driver is the canonical
// FinalHandler.
type FinalHandler func(req *request.Request, res *response.Response)

type kind int

const (
	kindNormal kind = iota
	kindError
)

type entry struct {
	kind    kind
	normal  NormalFunc
	errFunc ErrorFunc
}

// Pipeline is the ordered list of registered middleware. The zero value is
// ready to use.
type Pipeline struct {
	entries []entry
}

// New returns an empty Pipeline.
func New() *Pipeline { return &Pipeline{} }

// Use registers a normal middleware, preserving insertion order.
func (p *Pipeline) Use(fn NormalFunc) *Pipeline {
	p.entries = append(p.entries, entry{kind: kindNormal, normal: fn})
	return p
}

// UseError registers an error-handling middleware, preserving insertion
// order. Normal and error entries share one ordered list — the walk skips
// entries of the wrong kind for its current state — so an error handler
// only sees errors raised by entries registered before it.
func (p *Pipeline) UseError(fn ErrorFunc) *Pipeline {
	p.entries = append(p.entries, entry{kind: kindError, errFunc: fn})
	return p
}

// Execute walks the registered list from the start in ok state and, on
// exhaustion without a pending error, invokes final.
func (p *Pipeline) Execute(req *request.Request, res *response.Response, final FinalHandler) {
	p.walk(0, nil, req, res, final)
}

// HandleError walks only the registered error handlers, starting in error
// state with err. Used by the connection driver when a route handler (or
// its route-scoped middleware stack) raises after the normal pipeline has
// already resolved its walk.
func (p *Pipeline) HandleError(err error, req *request.Request, res *response.Response) {
	errOnly := &Pipeline{}
	for _, e := range p.entries {
		if e.kind == kindError {
			errOnly.entries = append(errOnly.entries, e)
		}
	}
	errOnly.walk(0, err, req, res, nil)
}

func (p *Pipeline) walk(idx int, errState error, req *request.Request, res *response.Response, final FinalHandler) {
	if res.HeadersSent() {
		return
	}

	for idx < len(p.entries) {
		e := p.entries[idx]
		nextIdx := idx + 1

		if errState == nil {
			if e.kind != kindNormal {
				idx = nextIdx
				continue
			}
			invokeNormal(e.normal, req, res, func(err error) {
				p.walk(nextIdx, err, req, res, final)
			})
			return
		}

		if e.kind != kindError {
			idx = nextIdx
			continue
		}
		current := errState
		invokeError(e.errFunc, current, req, res, func(err error) {
			p.walk(nextIdx, err, req, res, final)
		})
		return
	}

	if res.HeadersSent() {
		return
	}

	if errState == nil {
		if final != nil {
			invokeFinal(final, req, res, func(err error) {
				p.HandleError(err, req, res)
			})
		}
		return
	}

	defaultErrorResponse(errState, res)
}

func defaultErrorResponse(err error, res *response.Response) {
	if res.HeadersSent() {
		return
	}
	msg := err.Error()
	if msg == "" {
		msg = "Internal Server Error"
	}
	res.ErrorJSON(500, msg)
}

// onceNext wraps a Next so only its first invocation (whether from the
// middleware itself or from panic recovery below) has any effect — a
// middleware that calls next twice, or calls it and then panics, still
// advances the walk exactly once.
func onceNext(onNext Next) Next {
	fired := false
	return func(err error) {
		if fired {
			return
		}
		fired = true
		onNext(err)
	}
}

// invokeNormal calls fn, converting any panic into an error delivered to
// onNext as if fn had called next(err) itself.
func invokeNormal(fn NormalFunc, req *request.Request, res *response.Response, onNext Next) {
	next := onceNext(onNext)
	defer func() {
		if rec := recover(); rec != nil {
			next(panicToError(rec))
		}
	}()
	fn(req, res, next)
}

func invokeError(fn ErrorFunc, err error, req *request.Request, res *response.Response, onNext Next) {
	next := onceNext(onNext)
	defer func() {
		if rec := recover(); rec != nil {
			next(panicToError(rec))
		}
	}()
	fn(err, req, res, next)
}

func invokeFinal(fn FinalHandler, req *request.Request, res *response.Response, onError func(error)) {
	defer func() {
		if rec := recover(); rec != nil {
			onError(panicToError(rec))
		}
	}()
	fn(req, res)
}

func panicToError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("%v", rec)
}
