// Package response implements the HTTP/1.1 response builder: a chainable
// object bound to one connection's byte-sink that accumulates a status
// code, headers, and a body, then emits them atomically exactly once.
//
// It generalizes the teacher's response.Writer (status line + headers +
// body written in three separate calls with no idempotence guarantee) into
// the single-emission, headers_sent-latched object the pipeline's
// at-most-one-response invariant depends on.
package response

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"wireserve/internal/headers"
	"wireserve/internal/wire"
)

const httpVersion = "HTTP/1.1"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is bound to a connection for exactly one request. Status,
// SetHeader, and the send terminals are not safe for concurrent use on the
// same Response — exactly one request-handling goroutine owns it at a
// time, matching the single-threaded, event-driven model in spec.md §5.
type Response struct {
	sink io.Writer

	statusCode  int
	headers     headers.Headers
	headersSent bool

	// OnSend is invoked (if set) right before the first emission, letting
	// middleware (the access logger) observe the final status.
	OnSend func(status int)
}

// New binds a fresh Response to sink. Called once per request by the
// connection driver.
func New(sink io.Writer) *Response {
	return &Response{
		sink:    sink,
		headers: headers.NewHeaders(),
	}
}

// Status sets the status code. Chainable.
func (r *Response) Status(code int) *Response {
	r.statusCode = code
	return r
}

// SetHeader lowercases name and records value. Chainable.
func (r *Response) SetHeader(name, value string) *Response {
	r.headers.Set(name, value)
	return r
}

func (r *Response) GetHeader(name string) string { return r.headers.Get(name) }
func (r *Response) RemoveHeader(name string)      { r.headers.Delete(name) }

// HeadersSent reports whether this response has already emitted — the
// pipeline walker polls this to decide whether a middleware resolved the
// request.
func (r *Response) HeadersSent() bool { return r.headersSent }

// Send serializes status line + headers + body and writes it to the sink
// exactly once. Every later call (from any middleware, the handler, or the
// router's error path) is a silent no-op — this is the mechanism that
// guarantees at most one response per request even when several
// middleware race to terminate.
func (r *Response) Send(body []byte) {
	if r.headersSent {
		return
	}
	r.headersSent = true

	status := r.statusCode
	if status == 0 {
		status = 200
	}

	if _, ok := r.headers["content-length"]; !ok {
		r.headers.Set("content-length", strconv.Itoa(len(body)))
	}
	if len(body) > 0 && !r.headers.Has("content-type") {
		r.headers.Set("content-type", "text/plain; charset=utf-8")
	}
	if !r.headers.Has("date") {
		r.headers.Set("date", time.Now().UTC().Format(http.TimeFormat))
	}

	if r.OnSend != nil {
		r.OnSend(status)
	}

	fmt.Fprintf(r.sink, "%s %d %s\r\n", httpVersion, status, wire.Phrase(status))
	for name, value := range r.headers {
		fmt.Fprintf(r.sink, "%s: %s\r\n", name, value)
	}
	io.WriteString(r.sink, "\r\n")
	if len(body) > 0 {
		r.sink.Write(body)
	}
}

// JSON sets the JSON content-type and sends v serialized with json-iterator
// in its encoding/json-compatible configuration. A marshal failure falls back to a 500 JSON error body —
// it never panics out of a handler.
func (r *Response) JSON(v any) {
	if r.headersSent {
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		r.Status(500)
		r.SetHeader("content-type", "application/json; charset=utf-8")
		r.Send([]byte(`{"error":"failed to encode response"}`))
		return
	}
	r.SetHeader("content-type", "application/json; charset=utf-8")
	r.Send(body)
}

// Text sends s as text/plain.
func (r *Response) Text(s string) {
	r.SetHeader("content-type", "text/plain; charset=utf-8")
	r.Send([]byte(s))
}

// HTML sends s as text/html.
func (r *Response) HTML(s string) {
	r.SetHeader("content-type", "text/html; charset=utf-8")
	r.Send([]byte(s))
}

// SendStatus sets the status and emits its reason phrase as a plain-text
// body — a convenience terminal for bare status responses.
func (r *Response) SendStatus(code int) {
	r.Status(code)
	r.Text(wire.Phrase(code))
}

// ErrorJSON emits the core's standard {"error": "<message>"} envelope,
// used by the router's 404/405 responses and the pipeline's default 500.
func (r *Response) ErrorJSON(status int, message string) {
	r.Status(status)
	r.SetHeader("content-type", "application/json; charset=utf-8")
	body, _ := json.Marshal(map[string]string{"error": message})
	r.Send(body)
}
