package middleware

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONLineAfterHandlerSends(t *testing.T) {
	var out bytes.Buffer
	mw := LoggerWithConfig(LoggerConfig{Output: &out, Format: "json"})

	req, res, _ := newReqRes("GET", "/hello")
	mw(req, res, func(err error) {
		res.Status(201).Text("ok")
	})

	line := out.String()
	require.NotEmpty(t, line)
	assert.Contains(t, line, `"method":"GET"`)
	assert.Contains(t, line, `"path":"/hello"`)
	assert.Contains(t, line, `"status":201`)
}

func TestLoggerSkipsConfiguredPaths(t *testing.T) {
	var out bytes.Buffer
	mw := LoggerWithConfig(LoggerConfig{Output: &out, Format: "json", SkipPaths: []string{"/health"}})

	req, res, _ := newReqRes("GET", "/health")
	mw(req, res, func(err error) { res.Text("ok") })

	assert.Empty(t, out.String())
}

func TestLoggerDefaultsStatusTo200WhenResponseNeverSends(t *testing.T) {
	var out bytes.Buffer
	mw := LoggerWithConfig(LoggerConfig{Output: &out, Format: "json"})

	req, res, _ := newReqRes("GET", "/x")
	mw(req, res, func(err error) {})

	assert.Contains(t, out.String(), `"status":200`)
}
