// Package headers implements the request/response header map shared by the
// wire parser and the response builder: a case-insensitive, lowercase-keyed
// string map with last-write-wins semantics on duplicate names.
package headers

import (
	"bytes"
	"errors"
	"strings"
)

// Headers is a lowercase-keyed header map. Lookups and writes normalize the
// name; values are never split or combined across duplicate names — the
// last Set for a given name wins, per the request record's data-model
// invariant.
type Headers map[string]string

var (
	ErrMalformedHeaderLine = errors.New("malformed header-line")
	ErrHeaderLineTooLong   = errors.New("header line too long")

	separator = []byte("\r\n")
)

// maxHeaderLine bounds a single header line independent of the total
// header-section cap enforced by the wire parser.
const maxHeaderLine = 8 * 1024

func NewHeaders() Headers { return Headers{} }

// Get is case-insensitive.
func (h Headers) Get(name string) string {
	return h[strings.ToLower(name)]
}

func (h Headers) Has(name string) bool {
	_, ok := h[strings.ToLower(name)]
	return ok
}

func (h Headers) Delete(name string) {
	delete(h, strings.ToLower(name))
}

// Set lowercases name and overwrites any previous value — last write wins.
func (h Headers) Set(name, value string) {
	h[strings.ToLower(name)] = value
}

// Clone returns an independent copy.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Parse reads header lines from data (a block that begins right after the
// request line) until a blank line. It does not require the blank line's
// CRLF to already be present in data; callers that have already located the
// full header-section boundary (see internal/request) hand it the whole
// block in one call and always get done=true back.
func (h Headers) Parse(data []byte) (n int, done bool, err error) {
	off := 0
	for {
		idx := bytes.Index(data[off:], separator)
		if idx == -1 {
			if len(data)-off > maxHeaderLine {
				return 0, false, ErrHeaderLineTooLong
			}
			return off, false, nil
		}
		if idx > maxHeaderLine {
			return 0, false, ErrHeaderLineTooLong
		}

		line := data[off : off+idx]
		off += idx + len(separator)

		if len(line) == 0 {
			return off, true, nil
		}

		if line[0] == ' ' || line[0] == '\t' {
			return 0, false, ErrMalformedHeaderLine
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return 0, false, ErrMalformedHeaderLine
		}

		nameRaw := line[:colon]
		if bytes.ContainsAny(nameRaw, " \t") {
			return 0, false, ErrMalformedHeaderLine
		}
		if !isTokenTable(nameRaw) {
			return 0, false, ErrMalformedHeaderLine
		}
		name := strings.ToLower(string(nameRaw))
		val := strings.Trim(string(line[colon+1:]), " \t")

		h.Set(name, val)
	}
}

var allowed [256]bool

func init() {
	for c := byte('0'); c <= '9'; c++ {
		allowed[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		allowed[c] = true
	}
	for c := byte('a'); c <= 'z'; c++ {
		allowed[c] = true
	}
	for _, c := range []byte("!#$%&'*+-.^_`|~") {
		allowed[c] = true
	}
}

func isTokenTable(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c > 127 || !allowed[c] {
			return false
		}
	}
	return true
}
