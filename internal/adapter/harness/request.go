// Package harness is the embedded automation server: a minimal HTTP-over-TCP
// listener that lets an external test runner inspect and drive a running game
// through ports.Game.
package harness

import (
	"encoding/json"
	"strings"
)

// MaxRequestBytes bounds the single read of a request. Longer requests are
// truncated.
const MaxRequestBytes = 64 << 10

type Request struct {
	Method string
	Path   string
	// Body is never nil. Only POST bodies that decode to a JSON object are kept.
	Body map[string]any
}

// ParseError is a malformed request. Its message becomes the error body.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

var (
	errEmptyRequest     = &ParseError{Message: "empty request"}
	errMalformedRequest = &ParseError{Message: "malformed request"}
)

// ParseRequest reads the request line and, for POST, the JSON object after the
// blank line. Headers, including Content-Length, are ignored.
func ParseRequest(raw []byte) (Request, error) {
	if len(raw) == 0 {
		return Request{}, errEmptyRequest
	}
	text := string(raw)

	line, _, _ := strings.Cut(text, "\r\n")
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return Request{}, errMalformedRequest
	}

	req := Request{Method: tokens[0], Path: tokens[1], Body: map[string]any{}}
	if req.Method != "POST" {
		return req, nil
	}
	if _, body, ok := strings.Cut(text, "\r\n\r\n"); ok {
		req.Body = decodeBody(body)
	}
	return req, nil
}

func decodeBody(body string) map[string]any {
	var out map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}
