package harness

import (
	"context"

	"gameharness/internal/app/ports"
	"gameharness/internal/app/shared/params"
)

const (
	PathPing    = "/ping"
	PathState   = "/state"
	PathActions = "/actions"
	PathTap     = "/tap"
	PathAction  = "/action"

	unknownEndpointLabel = "unknown"
)

const (
	msgNoGame          = "no game connected"
	msgMissingTap      = "missing x/y coordinates"
	msgMissingAction   = "missing action name"
	usageTap           = `POST /tap {"x":200,"y":400}`
	usageAction        = `POST /action {"name":"fire","parameters":{}}`
	unknownGameName    = "unknown"
	msgUnknownEndpoint = "unknown endpoint: "
)

type routeHandler func(ctx context.Context, game ports.Game, body map[string]any) map[string]any

// Router maps request paths to calls on the attached game. It must run on the
// Dispatcher goroutine.
type Router struct {
	// Port reports the bound port for /ping.
	Port    func() int
	Metrics ports.RequestMetrics
}

// Handle parses raw and routes it. game may be nil.
func (r Router) Handle(ctx context.Context, game ports.Game, raw []byte) map[string]any {
	req, err := ParseRequest(raw)
	if err != nil {
		resp := map[string]any{"error": err.Error()}
		r.record(unknownEndpointLabel, resp)
		return resp
	}
	return r.Route(ctx, game, req)
}

// Route dispatches on the literal path. The method is not checked.
func (r Router) Route(ctx context.Context, game ports.Game, req Request) map[string]any {
	h, ok := r.routes()[req.Path]
	if !ok {
		resp := map[string]any{"error": msgUnknownEndpoint + req.Path}
		r.record(unknownEndpointLabel, resp)
		return resp
	}
	resp := h(ctx, game, req.Body)
	r.record(req.Path, resp)
	return resp
}

func (r Router) routes() map[string]routeHandler {
	return map[string]routeHandler{
		PathPing:    r.ping,
		PathState:   requireGame(state),
		PathActions: requireGame(actions),
		PathTap:     requireGame(tap),
		PathAction:  requireGame(action),
	}
}

func (r Router) record(endpoint string, resp map[string]any) {
	if r.Metrics == nil {
		return
	}
	if resp["error"] == msgNoGame {
		r.Metrics.RecordNoGame()
	}
	_, failed := resp["error"]
	r.Metrics.RecordRequest(endpoint, failed)
}

func (r Router) ping(ctx context.Context, game ports.Game, _ map[string]any) map[string]any {
	name := unknownGameName
	if game != nil {
		name = game.Name()
	}
	port := 0
	if r.Port != nil {
		port = r.Port()
	}
	return map[string]any{"status": "ok", "game": name, "port": port}
}

func requireGame(h routeHandler) routeHandler {
	return func(ctx context.Context, game ports.Game, body map[string]any) map[string]any {
		if game == nil {
			return map[string]any{"error": msgNoGame}
		}
		return h(ctx, game, body)
	}
}

func state(ctx context.Context, game ports.Game, _ map[string]any) map[string]any {
	return map[string]any{"state": game.QueryState(ctx)}
}

func actions(_ context.Context, game ports.Game, _ map[string]any) map[string]any {
	list := game.AvailableActions()
	if list == nil {
		list = []ports.ActionDescriptor{}
	}
	return map[string]any{"actions": list}
}

func tap(ctx context.Context, game ports.Game, body map[string]any) map[string]any {
	x, okX := params.Number(body, "x")
	y, okY := params.Number(body, "y")
	if !okX || !okY {
		return map[string]any{"error": msgMissingTap, "usage": usageTap}
	}
	handled := game.PerformTap(ctx, ports.Point{X: x, Y: y})
	return map[string]any{
		"handled": handled,
		"tap":     map[string]any{"x": x, "y": y},
		"state":   game.QueryState(ctx),
	}
}

func action(ctx context.Context, game ports.Game, body map[string]any) map[string]any {
	name, ok := params.String(body, "name")
	if !ok {
		return map[string]any{"error": msgMissingAction, "usage": usageAction}
	}
	args, ok := params.Object(body, "parameters")
	if !ok {
		args = map[string]any{}
	}
	result := game.PerformAction(ctx, name, args)
	return map[string]any{
		"action": name,
		"result": result,
		"state":  game.QueryState(ctx),
	}
}
