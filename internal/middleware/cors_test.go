package middleware

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireserve/internal/pipeline"
	"wireserve/internal/request"
	"wireserve/internal/response"
)

func newReqRes(method, path string) (*request.Request, *response.Response, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	req := &request.Request{
		RequestLine: &request.RequestLine{Method: method},
		Path:        path,
		Headers:     map[string]string{},
	}
	return req, response.New(buf), buf
}

func TestCORSWildcardAllowsAnyOrigin(t *testing.T) {
	req, res, _ := newReqRes("GET", "/x")
	req.Headers.Set("origin", "https://example.com")

	var nextCalled bool
	CORS()(req, res, func(err error) { nextCalled = true })

	assert.True(t, nextCalled)
	assert.Equal(t, "*", res.GetHeader("access-control-allow-origin"))
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	req, res, _ := newReqRes("GET", "/x")
	req.Headers.Set("origin", "https://evil.example")

	mw := CORSWithConfig(CORSConfig{AllowOrigins: []string{"https://good.example"}})
	mw(req, res, func(err error) {})

	assert.Empty(t, res.GetHeader("access-control-allow-origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	req, res, buf := newReqRes("OPTIONS", "/x")
	req.Headers.Set("origin", "https://example.com")

	var nextCalled bool
	CORS()(req, res, func(err error) { nextCalled = true })

	assert.False(t, nextCalled)
	require.True(t, res.HeadersSent())
	assert.Contains(t, buf.String(), "204")

	_, body, found := bytes.Cut(buf.Bytes(), []byte("\r\n\r\n"))
	require.True(t, found)
	assert.Empty(t, body)
}
