// Package scene holds the headless geometry shared by the demo games: scene
// sizes, points and circular hit areas.
package scene

import "math"

type Point struct {
	X float64
	Y float64
}

func (p Point) Distance(to Point) float64 {
	return math.Hypot(p.X-to.X, p.Y-to.Y)
}

type Size struct {
	Width  float64
	Height float64
}

func (s Size) Center() Point {
	return Point{X: s.Width / 2, Y: s.Height / 2}
}

// DefaultSize matches a portrait phone screen in points.
var DefaultSize = Size{Width: 390, Height: 844}

// Circle is a round hit area.
type Circle struct {
	Center Point
	Radius float64
}

func (c Circle) Contains(p Point) bool {
	return c.Center.Distance(p) <= c.Radius
}
