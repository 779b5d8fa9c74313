package harness

import (
	"bytes"
	"context"
	"testing"

	"gameharness/internal/app/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGame struct {
	taps    []ports.Point
	actions []string
	params  []map[string]any
}

func (g *fakeGame) Name() string { return "Fake" }

func (g *fakeGame) QueryState(context.Context) map[string]any {
	return map[string]any{"taps": len(g.taps)}
}

func (g *fakeGame) PerformTap(_ context.Context, p ports.Point) bool {
	g.taps = append(g.taps, p)
	return true
}

func (g *fakeGame) PerformAction(_ context.Context, name string, params map[string]any) map[string]any {
	g.actions = append(g.actions, name)
	g.params = append(g.params, params)
	if name != "fire" {
		return map[string]any{"error": "unknown action: " + name}
	}
	return map[string]any{"success": true}
}

func (g *fakeGame) AvailableActions() []ports.ActionDescriptor {
	return []ports.ActionDescriptor{
		{Name: "fire", Description: "Fire", Parameters: []ports.ParameterDescriptor{{Name: "power", Type: "number", Optional: true}}},
	}
}

type metricCall struct {
	endpoint string
	failed   bool
}

type fakeMetrics struct {
	calls  []metricCall
	noGame int
}

func (m *fakeMetrics) RecordRequest(endpoint string, failed bool) {
	m.calls = append(m.calls, metricCall{endpoint, failed})
}

func (m *fakeMetrics) RecordNoGame() { m.noGame++ }

func handle(r Router, game ports.Game, raw string) map[string]any {
	return r.Handle(context.Background(), game, []byte(raw))
}

func TestRouter_PingWithoutGame(t *testing.T) {
	r := Router{Port: func() int { return 7483 }}
	got := handle(r, nil, "GET /ping HTTP/1.1\r\n\r\n")
	assert.Equal(t, map[string]any{"status": "ok", "game": "unknown", "port": 7483}, got)

	got = handle(r, &fakeGame{}, "GET /ping HTTP/1.1\r\n\r\n")
	assert.Equal(t, "Fake", got["game"])
}

func TestRouter_NoGameConnected(t *testing.T) {
	m := &fakeMetrics{}
	r := Router{Metrics: m}
	for _, raw := range []string{
		"GET /state HTTP/1.1\r\n\r\n",
		"GET /actions HTTP/1.1\r\n\r\n",
		"POST /tap HTTP/1.1\r\n\r\n{\"x\":1,\"y\":2}",
		"POST /action HTTP/1.1\r\n\r\n{\"name\":\"fire\"}",
	} {
		assert.Equal(t, map[string]any{"error": "no game connected"}, handle(r, nil, raw), raw)
	}
	assert.Equal(t, 4, m.noGame)

	g := &fakeGame{}
	_, hasErr := handle(r, g, "GET /state HTTP/1.1\r\n\r\n")["error"]
	assert.False(t, hasErr)
	_, hasErr = handle(r, g, "GET /actions HTTP/1.1\r\n\r\n")["error"]
	assert.False(t, hasErr)
}

func TestRouter_ActionsAreByteIdentical(t *testing.T) {
	g := &fakeGame{}
	r := Router{}
	first := EncodeResponse(handle(r, g, "GET /actions HTTP/1.1\r\n\r\n"))
	second := EncodeResponse(handle(r, g, "GET /actions HTTP/1.1\r\n\r\n"))
	assert.True(t, bytes.Equal(first, second))
	assert.Contains(t, string(first), `"actions":[{"description":"Fire","name":"fire","parameters":[{"description":"","name":"power","optional":true,"type":"number"}]}]`)
}

func TestRouter_Tap(t *testing.T) {
	g := &fakeGame{}
	r := Router{}

	got := handle(r, g, "POST /tap HTTP/1.1\r\n\r\n{\"x\":200,\"y\":400}")
	assert.Equal(t, map[string]any{
		"handled": true,
		"tap":     map[string]any{"x": 200.0, "y": 400.0},
		"state":   map[string]any{"taps": 1},
	}, got)
	assert.Equal(t, []ports.Point{{X: 200, Y: 400}}, g.taps)

	got = handle(r, g, "POST /tap HTTP/1.1\r\n\r\n{\"x\":-5,\"y\":1e9}")
	assert.Equal(t, true, got["handled"])
}

func TestRouter_TapMissingCoordinates(t *testing.T) {
	g := &fakeGame{}
	want := map[string]any{"error": "missing x/y coordinates", "usage": `POST /tap {"x":200,"y":400}`}
	for _, body := range []string{"", `{"x":1}`, `{"x":"1","y":2}`, "garbage"} {
		assert.Equal(t, want, handle(Router{}, g, "POST /tap HTTP/1.1\r\n\r\n"+body), body)
	}
	// GET carries no body, so coordinates are always missing.
	assert.Equal(t, want, handle(Router{}, g, "GET /tap HTTP/1.1\r\n\r\n{\"x\":1,\"y\":2}"))
	assert.Empty(t, g.taps)
}

func TestRouter_Action(t *testing.T) {
	g := &fakeGame{}
	got := handle(Router{}, g, "POST /action HTTP/1.1\r\n\r\n{\"name\":\"fire\",\"parameters\":{\"power\":3}}")
	assert.Equal(t, map[string]any{
		"action": "fire",
		"result": map[string]any{"success": true},
		"state":  map[string]any{"taps": 0},
	}, got)
	assert.Equal(t, map[string]any{"power": 3.0}, g.params[0])

	handle(Router{}, g, "POST /action HTTP/1.1\r\n\r\n{\"name\":\"fire\",\"parameters\":[1]}")
	assert.Equal(t, map[string]any{}, g.params[1])
}

func TestRouter_UnknownActionIsNotAProtocolError(t *testing.T) {
	m := &fakeMetrics{}
	got := handle(Router{Metrics: m}, &fakeGame{}, "POST /action HTTP/1.1\r\n\r\n{\"name\":\"bogus\"}")
	assert.Equal(t, "bogus", got["action"])
	assert.Equal(t, map[string]any{"error": "unknown action: bogus"}, got["result"])
	assert.NotNil(t, got["state"])
	require.Len(t, m.calls, 1)
	assert.Equal(t, metricCall{"/action", false}, m.calls[0])
}

func TestRouter_ActionMissingName(t *testing.T) {
	want := map[string]any{"error": "missing action name", "usage": `POST /action {"name":"fire","parameters":{}}`}
	g := &fakeGame{}
	for _, body := range []string{"not json at all", `{"name":5}`, `{}`} {
		assert.Equal(t, want, handle(Router{}, g, "POST /action HTTP/1.1\r\n\r\n"+body), body)
	}
	assert.Empty(t, g.actions)
}

func TestRouter_UnknownEndpoint(t *testing.T) {
	m := &fakeMetrics{}
	got := handle(Router{Metrics: m}, &fakeGame{}, "GET /nonexistent HTTP/1.1\r\n\r\n")
	assert.Equal(t, map[string]any{"error": "unknown endpoint: /nonexistent"}, got)
	assert.Equal(t, []metricCall{{"unknown", true}}, m.calls)
}

func TestRouter_MalformedRequest(t *testing.T) {
	m := &fakeMetrics{}
	assert.Equal(t, map[string]any{"error": "malformed request"}, handle(Router{Metrics: m}, nil, "GARBAGE\r\n\r\n"))
	assert.Equal(t, map[string]any{"error": "empty request"}, handle(Router{Metrics: m}, nil, ""))
	assert.Len(t, m.calls, 2)
}

func TestRouter_MethodIsNotChecked(t *testing.T) {
	got := handle(Router{}, &fakeGame{}, "DELETE /state HTTP/1.1\r\n\r\n")
	assert.Equal(t, map[string]any{"state": map[string]any{"taps": 0}}, got)
}
