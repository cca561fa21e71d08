// Package server implements the per-connection driver: it owns a socket
// and a rolling accumulation buffer, repeatedly drains whole requests out
// of that buffer, runs each one through the pipeline and router, and
// either continues on the same socket (keep-alive, HTTP pipelining) or
// closes it.
//
// This generalizes the teacher's Server.handle, which read exactly one
// request per connection and always answered with Connection: close, into
// the keep-alive- and pipelining-aware driver spec.md §4.5 describes,
// while keeping the teacher's accept-loop/atomic-closed/log-line shape.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"wireserve/internal/pipeline"
	"wireserve/internal/request"
	"wireserve/internal/response"
	"wireserve/internal/router"
	"wireserve/internal/wire"
)

// Config wires a Server's collaborators. Pipeline and Router are both
// optional; a Server with a nil Router and no OnRequest answers every
// request with 200 OK and body "OK". OnRequest is used only when Router is
// nil; a non-nil Router with no routes registered answers 404.
type Config struct {
	Addr      string
	Pipeline  *pipeline.Pipeline
	Router    *router.Router
	OnRequest router.Handler
}

type Server struct {
	Addr string

	listener net.Listener
	closed   atomic.Bool

	pipeline  *pipeline.Pipeline
	router    *router.Router
	onRequest router.Handler
}

// Serve binds addr and starts accepting connections in a background
// goroutine, exactly as the teacher's Serve does.
func Serve(cfg Config) (*Server, error) {
	l, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}
	p := cfg.Pipeline
	if p == nil {
		p = pipeline.New()
	}
	s := &Server{
		Addr:      cfg.Addr,
		listener:  l,
		pipeline:  p,
		router:    cfg.Router,
		onRequest: cfg.OnRequest,
	}
	go s.listen()
	return s, nil
}

func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		go s.handle(conn)
	}
}

func fmtDur(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

// handle drives one connection end to end: read, accumulate, drain
// complete requests in order, dispatch each through the pipeline/router,
// and either loop for the next pipelined request or close.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	remoteHost, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(wire.IdleTimeout)); err != nil {
			return
		}
		n, readErr := conn.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)

			for {
				result := request.Parse(buf)

				switch result.Outcome {
				case request.Incomplete:
					goto waitForMore

				case request.Error:
					log.Printf("%s\t-\t-\t%d\tparse-error\terr=%q", remoteHost, result.Status, result.Message)
					writeRawError(conn, result.Status, result.Message)
					return

				case request.Parsed:
					buf = buf[result.Consumed:]
					req := result.Req
					req.RemoteAddr = remoteHost

					start := time.Now()
					keepAlive := s.handleOneRequest(conn, req)

					log.Printf("%s\t%s\t%s\t%s", remoteHost, req.Method(), req.Path, fmtDur(time.Since(start)))

					if !keepAlive {
						return
					}
					// loop again: more pipelined requests may already be in buf
				}
			}
		}

	waitForMore:
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return
			}
			var netErr net.Error
			if errors.As(readErr, &netErr) && netErr.Timeout() {
				return
			}
			return
		}
	}
}

// handleOneRequest builds a fresh response bound to conn, determines the
// keep-alive disposition, runs the pipeline with the router dispatch as
// final handler, and reports whether the connection should stay open.
func (s *Server) handleOneRequest(conn net.Conn, req *request.Request) bool {
	res := response.New(conn)

	keepAlive := determineKeepAlive(req)
	if keepAlive {
		res.SetHeader("connection", "keep-alive")
	} else {
		res.SetHeader("connection", "close")
	}

	s.pipeline.Execute(req, res, s.finalHandler)

	return keepAlive && !connDirectedClose(res)
}

// connDirectedClose reports whether a handler/middleware overrode the
// connection header to "close" after the default was set.
func connDirectedClose(res *response.Response) bool {
	return strings.EqualFold(res.GetHeader("connection"), "close")
}

func determineKeepAlive(req *request.Request) bool {
	conn := strings.ToLower(req.Headers.Get("connection"))
	if req.RequestLine.HTTPVersion == "1.0" {
		return conn == "keep-alive"
	}
	return conn != "close"
}

// finalHandler dispatches through the router when one is configured,
// falling back to onRequest, and finally to a bare 200 OK.
func (s *Server) finalHandler(req *request.Request, res *response.Response) {
	if s.router == nil {
		if s.onRequest != nil {
			s.onRequest(req, res)
			return
		}
		res.Text("OK")
		return
	}

	result := s.router.Resolve(req.Method(), req.Path)
	switch result.Outcome {
	case router.NotFound:
		res.ErrorJSON(404, "Not Found")
		return
	case router.MethodNotAllowed:
		res.SetHeader("allow", strings.Join(result.Allowed, ", "))
		res.ErrorJSON(405, "Method Not Allowed")
		return
	}

	req.Params = result.Params
	route := result.Route

	pipeline.RunRouteStack(route.Middleware, req, res, func(err error) {
		if err != nil {
			s.pipeline.HandleError(err, req, res)
			return
		}
		s.invokeRouteHandler(route, req, res)
	})
}

func (s *Server) invokeRouteHandler(route *router.Route, req *request.Request, res *response.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			s.pipeline.HandleError(err, req, res)
		}
	}()
	route.Handler(req, res)
}

// writeRawError emits a minimal HTTP error response directly to the
// socket for parse-framing failures, before any Response object exists.
// It shares the core's standard {"error": "<message>"} body shape.
func writeRawError(w io.Writer, status int, message string) {
	body := fmt.Sprintf(`{"error":%q}`, message)
	var sb bytes.Buffer
	fmt.Fprintf(&sb, "HTTP/1.1 %d %s\r\n", status, wire.Phrase(status))
	fmt.Fprintf(&sb, "content-type: application/json; charset=utf-8\r\n")
	fmt.Fprintf(&sb, "content-length: %d\r\n", len(body))
	fmt.Fprintf(&sb, "connection: close\r\n\r\n")
	sb.WriteString(body)
	w.Write(sb.Bytes())
}
