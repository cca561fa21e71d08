// Package wire holds the constants shared by the request parser, the
// response builder, and the connection driver: the recognized method set,
// the CRLF framing delimiter, the size caps, the idle timeout, and the
// status-phrase table.
package wire

import "time"

// CRLF is the HTTP/1.1 line and section terminator.
const CRLF = "\r\n"

// MaxHeaderBytes bounds the header section (request line through the blank
// line, inclusive) before a 413 is raised.
const MaxHeaderBytes = 8 * 1024

// MaxBodyBytes bounds a declared Content-Length body before a 413 is raised.
const MaxBodyBytes = 1 * 1024 * 1024

// IdleTimeout is how long a connection may sit without receiving any bytes
// before the driver closes it.
const IdleTimeout = 30 * time.Second

// Methods is the closed set of HTTP methods the parser accepts.
var Methods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"PATCH":   true,
	"HEAD":    true,
	"OPTIONS": true,
}

// Phrases maps a status code to its standard reason phrase. Codes outside
// this table are rendered as "Unknown".
var Phrases = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	304: "Not Modified",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	413: "Payload Too Large",
	429: "Too Many Requests",
	500: "Internal Server Error",
	502: "Bad Gateway",
	503: "Service Unavailable",
}

// Phrase returns the reason phrase for code, or "Unknown" if unrecognized.
func Phrase(code int) string {
	if p, ok := Phrases[code]; ok {
		return p
	}
	return "Unknown"
}
