package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireserve/internal/request"
)

func TestBodyParserJSON(t *testing.T) {
	req, res, _ := newReqRes("POST", "/x")
	req.Headers.Set("content-type", "application/json")
	req.Body = []byte(`{"name":"alice"}`)

	var called bool
	BodyParser()(req, res, func(err error) { called = true })

	require.True(t, called)
	assert.Equal(t, request.BodyJSON, req.ParsedBody.Kind)
	m, ok := req.ParsedBody.JSON.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", m["name"])
}

func TestBodyParserMalformedJSONFails(t *testing.T) {
	req, res, _ := newReqRes("POST", "/x")
	req.Headers.Set("content-type", "application/json")
	req.Body = []byte(`{not json`)

	var called bool
	BodyParser()(req, res, func(err error) { called = true })

	assert.False(t, called)
	assert.True(t, res.HeadersSent())
}

func TestBodyParserFormPlusAsSpace(t *testing.T) {
	req, res, _ := newReqRes("POST", "/x")
	req.Headers.Set("content-type", "application/x-www-form-urlencoded")
	req.Body = []byte("name=a+b&tag=x%20y")

	BodyParser()(req, res, func(err error) {})

	assert.Equal(t, request.BodyForm, req.ParsedBody.Kind)
	assert.Equal(t, "a b", req.ParsedBody.Form["name"])
	assert.Equal(t, "x y", req.ParsedBody.Form["tag"])
}

func TestBodyParserRawFallback(t *testing.T) {
	req, res, _ := newReqRes("POST", "/x")
	req.Headers.Set("content-type", "application/octet-stream")
	req.Body = []byte("binary-ish")

	BodyParser()(req, res, func(err error) {})

	assert.Equal(t, request.BodyRaw, req.ParsedBody.Kind)
	assert.Equal(t, "binary-ish", req.ParsedBody.Raw)
}

func TestBodyParserSkipsEmptyBody(t *testing.T) {
	req, res, _ := newReqRes("GET", "/x")
	var called bool
	BodyParser()(req, res, func(err error) { called = true })
	assert.True(t, called)
	assert.Equal(t, request.BodyEmpty, req.ParsedBody.Kind)
}
