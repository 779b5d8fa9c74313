// Package client talks to a running automation server: one request per
// connection, response head validated.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAddr    = "127.0.0.1:7483"
	DefaultTimeout = 5 * time.Second
)

var ErrMalformedResponse = errors.New("malformed response")

// RemoteError is an error body returned by the server or by a game action.
type RemoteError struct {
	Message string
	Usage   string
}

func (e *RemoteError) Error() string {
	if e.Usage != "" {
		return e.Message + " (usage: " + e.Usage + ")"
	}
	return e.Message
}

type Result struct {
	// Raw is the JSON body exactly as sent.
	Raw  []byte
	Body map[string]any
}

// Err reports a top-level error body, or an error returned by a named action
// under "result".
func (r Result) Err() error {
	if msg, ok := r.Body["error"].(string); ok {
		usage, _ := r.Body["usage"].(string)
		return &RemoteError{Message: msg, Usage: usage}
	}
	if res, ok := r.Body["result"].(map[string]any); ok {
		if msg, ok := res["error"].(string); ok {
			return &RemoteError{Message: msg}
		}
	}
	return nil
}

type Client struct {
	Addr    string
	Timeout time.Duration
}

func (c Client) Ping(ctx context.Context) (Result, error) {
	return c.Call(ctx, "GET", "/ping", nil)
}

func (c Client) State(ctx context.Context) (Result, error) {
	return c.Call(ctx, "GET", "/state", nil)
}

func (c Client) Actions(ctx context.Context) (Result, error) {
	return c.Call(ctx, "GET", "/actions", nil)
}

func (c Client) Tap(ctx context.Context, x, y float64) (Result, error) {
	return c.Call(ctx, "POST", "/tap", map[string]any{"x": x, "y": y})
}

func (c Client) Action(ctx context.Context, name string, params map[string]any) (Result, error) {
	if params == nil {
		params = map[string]any{}
	}
	return c.Call(ctx, "POST", "/action", map[string]any{"name": name, "parameters": params})
}

// Call sends one request and reads the response until the server closes the
// connection. body is JSON-encoded unless it is already []byte.
func (c Client) Call(ctx context.Context, method, path string, body any) (Result, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return Result{}, err
	}

	addr := c.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Result{}, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(buildRequest(method, path, addr, payload)); err != nil {
		return Result{}, fmt.Errorf("write request: %w", err)
	}
	raw, err := io.ReadAll(conn)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	return ParseResponse(raw)
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return b, nil
	}
}

func buildRequest(method, path, host string, payload []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s HTTP/1.1\r\n", method, path)
	fmt.Fprintf(&buf, "Host: %s\r\n", host)
	if payload != nil {
		buf.WriteString("Content-Type: application/json\r\n")
		fmt.Fprintf(&buf, "Content-Length: %d\r\n", len(payload))
	}
	buf.WriteString("Connection: close\r\n\r\n")
	buf.Write(payload)
	return buf.Bytes()
}

// ParseResponse validates a complete response: status 200, a Content-Length
// that matches the body and a JSON object body.
func ParseResponse(raw []byte) (Result, error) {
	head, body, ok := bytes.Cut(raw, []byte("\r\n\r\n"))
	if !ok {
		return Result{}, fmt.Errorf("%w: no header terminator", ErrMalformedResponse)
	}
	lines := strings.Split(string(head), "\r\n")
	if lines[0] != "HTTP/1.1 200 OK" {
		return Result{}, fmt.Errorf("%w: status line %q", ErrMalformedResponse, lines[0])
	}

	length := -1
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return Result{}, fmt.Errorf("%w: content-length %q", ErrMalformedResponse, value)
		}
		length = n
	}
	if length != len(body) {
		return Result{}, fmt.Errorf("%w: content-length %d, body %d bytes", ErrMalformedResponse, length, len(body))
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil || out == nil {
		return Result{}, fmt.Errorf("%w: body is not a JSON object", ErrMalformedResponse)
	}
	return Result{Raw: body, Body: out}, nil
}
