package router

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireserve/internal/request"
	"wireserve/internal/response"
)

func noopHandler(req *request.Request, res *response.Response) {}

func TestResolveExactlyOneOfMatchedNotFoundMethodNotAllowed(t *testing.T) {
	rt := New()
	rt.Add("GET", "/users/:id", noopHandler)

	cases := []struct {
		method, path string
		want         Outcome
	}{
		{"GET", "/users/1", Matched},
		{"GET", "/nope", NotFound},
		{"POST", "/users/1", MethodNotAllowed},
	}
	for _, c := range cases {
		res := rt.Resolve(c.method, c.path)
		assert.Equal(t, c.want, res.Outcome, "%s %s", c.method, c.path)
	}
}

func TestStaticBeatsDynamicRegardlessOfOrder(t *testing.T) {
	rtA := New()
	rtA.Add("GET", "/users/:id", noopHandler)
	rtA.Add("GET", "/users/me", noopHandler)

	rtB := New()
	rtB.Add("GET", "/users/me", noopHandler)
	rtB.Add("GET", "/users/:id", noopHandler)

	for _, rt := range []*Router{rtA, rtB} {
		res := rt.Resolve("GET", "/users/me")
		require.Equal(t, Matched, res.Outcome)
		assert.True(t, res.Route.IsStatic)
		assert.Equal(t, "/users/me", res.Route.Pattern)
	}
}

func TestFirstRegistrationWinsAmongEquivalentPrecedence(t *testing.T) {
	rt := New()
	rt.Add("GET", "/a/:x", noopHandler)
	second := rt.Add("GET", "/a/:y", noopHandler)
	_ = second

	res := rt.Resolve("GET", "/a/1")
	require.Equal(t, Matched, res.Outcome)
	assert.Equal(t, "/a/:x", res.Route.Pattern)
}

func TestParamExtractionPercentDecoded(t *testing.T) {
	rt := New()
	rt.Add("GET", "/files/:name", noopHandler)
	res := rt.Resolve("GET", "/files/a%20b")
	require.Equal(t, Matched, res.Outcome)
	assert.Equal(t, "a b", res.Params["name"])
}

func TestPathParamExtractedFromDynamicSegment(t *testing.T) {
	rt := New()
	rt.Add("GET", "/users/:id", noopHandler)
	res := rt.Resolve("GET", "/users/42")
	require.Equal(t, Matched, res.Outcome)
	assert.Equal(t, "42", res.Params["id"])
}

func TestMethodNotAllowedReportsAllowedSet(t *testing.T) {
	rt := New()
	rt.Add("GET", "/x", noopHandler)
	rt.Add("POST", "/x", noopHandler)
	res := rt.Resolve("DELETE", "/x")
	require.Equal(t, MethodNotAllowed, res.Outcome)
	sort.Strings(res.Allowed)
	assert.Equal(t, []string{"GET", "POST"}, res.Allowed)
}

func TestLiteralSegmentsCompareByteExact(t *testing.T) {
	rt := New()
	rt.Add("GET", "/Users", noopHandler)
	res := rt.Resolve("GET", "/users")
	assert.Equal(t, NotFound, res.Outcome)
}
