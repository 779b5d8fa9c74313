// Package tapper holds the rules of the tap-to-score demo game.
package tapper

const minPointsPerTap = 1

// Progress is the persisted part of a Model.
type Progress struct {
	Score        int `json:"score"`
	PointsPerTap int `json:"points_per_tap"`
}

type Model struct {
	score        int
	pointsPerTap int
}

func NewModel() *Model {
	return &Model{pointsPerTap: minPointsPerTap}
}

// Restore rebuilds a model from saved progress. A non-positive
// points-per-tap falls back to the default.
func Restore(p Progress) *Model {
	m := &Model{score: p.Score, pointsPerTap: p.PointsPerTap}
	if m.pointsPerTap < minPointsPerTap {
		m.pointsPerTap = minPointsPerTap
	}
	return m
}

func (m *Model) Score() int        { return m.score }
func (m *Model) PointsPerTap() int { return m.pointsPerTap }

func (m *Model) Progress() Progress {
	return Progress{Score: m.score, PointsPerTap: m.pointsPerTap}
}

// Tap adds the current points-per-tap to the score and returns the new score.
func (m *Model) Tap() int {
	m.score += m.pointsPerTap
	return m.score
}

func (m *Model) IncreasePointsPerTap() int {
	m.pointsPerTap++
	return m.pointsPerTap
}

// DecreasePointsPerTap never goes below one point per tap.
func (m *Model) DecreasePointsPerTap() int {
	if m.pointsPerTap > minPointsPerTap {
		m.pointsPerTap--
	}
	return m.pointsPerTap
}

func (m *Model) Reset() {
	m.score = 0
	m.pointsPerTap = minPointsPerTap
}
