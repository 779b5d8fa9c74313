package ports

import "context"

// Point is a location in scene coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ParameterDescriptor describes one argument of a named action.
// Fields are declared in JSON key order so encoded catalogs keep sorted keys.
type ParameterDescriptor struct {
	Description string `json:"description"`
	Name        string `json:"name"`
	Optional    bool   `json:"optional"`
	Type        string `json:"type"`
}

// ActionDescriptor is one entry of a game's self-describing action catalog.
type ActionDescriptor struct {
	Description string                `json:"description"`
	Name        string                `json:"name"`
	Parameters  []ParameterDescriptor `json:"parameters"`
}

// Game is the capability a host application exposes to the automation server.
//
// Implementations are called from a single dispatch goroutine only, so they may
// mutate live state without locking as long as the host routes its own
// mutations through the same dispatcher.
type Game interface {
	// Name identifies the game in /ping responses.
	Name() string
	// QueryState returns the current state as a JSON-safe object.
	QueryState(ctx context.Context) map[string]any
	// PerformTap runs the same code path as a real touch at p and reports
	// whether anything handled it.
	PerformTap(ctx context.Context, p Point) bool
	// PerformAction runs a named action. Unknown names yield
	// {"error": "unknown action: <name>"}.
	PerformAction(ctx context.Context, name string, params map[string]any) map[string]any
	// AvailableActions lists every action PerformAction accepts.
	AvailableActions() []ActionDescriptor
}
