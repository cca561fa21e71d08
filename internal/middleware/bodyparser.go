package middleware

import (
	"strings"

	"wireserve/internal/pipeline"
	"wireserve/internal/request"
	"wireserve/internal/response"
)

// BodyParser inspects Content-Type and populates req.ParsedBody with the
// matching tagged variant: JSON for application/json, Form for
// application/x-www-form-urlencoded (percent-decoded with '+' treated as
// space, unlike query strings), and Raw otherwise whenever a body is
// present. A malformed JSON body fails the request with 400 rather than
// letting a handler observe a half-decoded value.
func BodyParser() pipeline.NormalFunc {
	return func(req *request.Request, res *response.Response, next pipeline.Next) {
		if len(req.Body) == 0 {
			next(nil)
			return
		}

		contentType := strings.ToLower(req.Headers.Get("content-type"))
		mediaType, _, _ := strings.Cut(contentType, ";")
		mediaType = strings.TrimSpace(mediaType)

		switch mediaType {
		case "application/json":
			var v any
			if err := json.Unmarshal(req.Body, &v); err != nil {
				res.ErrorJSON(400, "malformed json body")
				return
			}
			req.ParsedBody = request.ParsedBody{Kind: request.BodyJSON, JSON: v}

		case "application/x-www-form-urlencoded":
			req.ParsedBody = request.ParsedBody{Kind: request.BodyForm, Form: parseForm(string(req.Body))}

		default:
			req.ParsedBody = request.ParsedBody{Kind: request.BodyRaw, Raw: string(req.Body)}
		}

		next(nil)
	}
}

// parseForm splits a form-urlencoded body the same way query strings are
// split, except '+' decodes to a literal space here.
func parseForm(raw string) map[string]string {
	out := map[string]string{}
	if raw == "" {
		return out
	}
	for _, tok := range strings.Split(raw, "&") {
		if tok == "" {
			continue
		}
		k, v, found := strings.Cut(tok, "=")
		key := request.PercentDecode(k, true)
		val := ""
		if found {
			val = request.PercentDecode(v, true)
		}
		out[key] = val
	}
	return out
}
