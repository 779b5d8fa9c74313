package tapper

import "gameharness/internal/domain/scene"

const (
	buttonRadius  = 25
	buttonOffsetX = 70
	buttonY       = 60
)

type Target int

const (
	TargetLandscape Target = iota
	TargetMinusButton
	TargetPlusButton
)

// Layout places the points-per-tap buttons in a row near the scene origin.
type Layout struct {
	Size        scene.Size
	MinusButton scene.Circle
	PlusButton  scene.Circle
}

func NewLayout(size scene.Size) Layout {
	centerX := size.Width / 2
	return Layout{
		Size:        size,
		MinusButton: scene.Circle{Center: scene.Point{X: centerX - buttonOffsetX, Y: buttonY}, Radius: buttonRadius},
		PlusButton:  scene.Circle{Center: scene.Point{X: centerX + buttonOffsetX, Y: buttonY}, Radius: buttonRadius},
	}
}

// Hit reports which element a touch at p lands on. Anything that is not a
// button is the landscape.
func (l Layout) Hit(p scene.Point) Target {
	switch {
	case l.MinusButton.Contains(p):
		return TargetMinusButton
	case l.PlusButton.Contains(p):
		return TargetPlusButton
	default:
		return TargetLandscape
	}
}
