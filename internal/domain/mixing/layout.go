package mixing

import (
	"math"

	"gameharness/internal/domain/scene"
)

const (
	shelfY           = 100
	shelfItemSize    = 70
	shelfSpacing     = 10
	pedestalRatio    = 0.52
	mixButtonRadius  = 60
	slotRadius       = 50
	slotOffsetX      = 75
	mixodexBtnRadius = 40
)

// Layout is the headless hit-test geometry of the mixing scene.
type Layout struct {
	Size          scene.Size
	MixButton     scene.Circle
	HeadSlot      scene.Circle
	BodySlot      scene.Circle
	MixodexButton scene.Circle
}

func NewLayout(size scene.Size) Layout {
	pedestalY := size.Height * pedestalRatio
	centerX := size.Width / 2
	return Layout{
		Size:          size,
		MixButton:     scene.Circle{Center: scene.Point{X: centerX, Y: pedestalY - 80}, Radius: mixButtonRadius},
		HeadSlot:      scene.Circle{Center: scene.Point{X: centerX - slotOffsetX, Y: pedestalY + 30}, Radius: slotRadius},
		BodySlot:      scene.Circle{Center: scene.Point{X: centerX + slotOffsetX, Y: pedestalY + 30}, Radius: slotRadius},
		MixodexButton: scene.Circle{Center: scene.Point{X: size.Width - 50, Y: size.Height - 60}, Radius: mixodexBtnRadius},
	}
}

// ShelfSlots returns one hit area per shelf item, centred as a row and
// never starting off the left edge.
func (l Layout) ShelfSlots(count int) []scene.Circle {
	step := float64(shelfItemSize + shelfSpacing)
	totalWidth := float64(count) * step
	startX := math.Max(l.Size.Width/2-totalWidth/2+shelfItemSize/2, shelfItemSize/2+shelfSpacing)

	out := make([]scene.Circle, count)
	for i := range out {
		out[i] = scene.Circle{
			Center: scene.Point{X: startX + float64(i)*step, Y: shelfY},
			Radius: shelfItemSize / 2,
		}
	}
	return out
}

// ShelfIndex reports which shelf item p lands on.
func (l Layout) ShelfIndex(p scene.Point, count int) (int, bool) {
	for i, slot := range l.ShelfSlots(count) {
		if slot.Contains(p) {
			return i, true
		}
	}
	return 0, false
}
