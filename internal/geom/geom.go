// Package geom holds the small amount of plane geometry the branch generator
// needs. Coordinates are screen-space: x grows right, y grows down.
package geom

import "math"

type Point struct {
	X, Y float64
}

// Polar2Cart returns the point at distance r and angle theta (radians) from
// origin. Angle 0 points along +x; because y grows downward, positive angles
// turn clockwise on screen.
func Polar2Cart(origin Point, r, theta float64) Point {
	sin, cos := math.Sincos(theta)
	return Point{X: origin.X + r*cos, Y: origin.Y + r*sin}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Contains reports whether p lies inside r. Points on the edge are inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}
