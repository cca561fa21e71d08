package headers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHeadersParsing(t *testing.T) {
	// Test: Valid single header
	h := NewHeaders()
	data := []byte("host: localhost:42069\r\n\r\n")
	n, done, err := h.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "localhost:42069", h.Get("host"))
	assert.Equal(t, len(data), n)
	assert.True(t, done)

	// Test: Invalid spacing header
	h = NewHeaders()
	data = []byte("       Host : localhost:42069       \r\n\r\n")
	n, done, err = h.Parse(data)
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, done)

	// Test: repeated headers are last-write-wins, not combined.
	h = NewHeaders()
	data = []byte("host: localhost:42069\r\nX-Person: some1   \r\nX-Person: some2   \r\nX-Person: some3   \r\n\r\n")
	n, done, err = h.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "localhost:42069", h.Get("host"))
	assert.Equal(t, "some3", h.Get("x-person"))
	assert.Equal(t, len(data), n)
	assert.True(t, done)

	// Valid, two lines + terminator
	data = []byte("Host: localhost:42069\r\nXforward: somethingdddd   \r\n\r\n")
	h = NewHeaders()
	n, done, err = h.Parse(data)
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, len(data), n)
	assert.Equal(t, "localhost:42069", h.Get("Host"))
	assert.Equal(t, "somethingdddd", h.Get("XForward"))

	// Space before colon => invalid
	_, _, err = NewHeaders().Parse([]byte("Host : localhost\r\n\r\n"))
	require.Error(t, err)

	// Long line without CRLF => ErrHeaderLineTooLong
	big := bytes.Repeat([]byte("A"), maxHeaderLine+1)
	_, _, err = NewHeaders().Parse(append(big, 'B'))
	require.ErrorIs(t, err, ErrHeaderLineTooLong)

	// Duplicate header => last one wins
	h = NewHeaders()
	n, done, err = h.Parse([]byte("Vary: accept\r\nVary: encoding\r\n\r\n"))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "encoding", h.Get("Vary"))
}

func TestHeadersCaseInsensitiveLookup(t *testing.T) {
	h := NewHeaders()
	h.Set("Content-Type", "application/json")
	for _, casing := range []string{"content-type", "Content-Type", "CONTENT-TYPE", "cOnTeNt-TyPe"} {
		assert.Equal(t, "application/json", h.Get(casing))
	}
}

func TestHeadersClone(t *testing.T) {
	h := NewHeaders()
	h.Set("a", "1")
	clone := h.Clone()
	clone.Set("a", "2")
	assert.Equal(t, "1", h.Get("a"))
	assert.Equal(t, "2", clone.Get("a"))
}
