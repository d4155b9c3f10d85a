// Package surface prepares a raster drawing surface that renders crisply at
// any device pixel density.
//
// Callers draw in logical units; the surface owns a backing store of
// logical size times the resolved pixel ratio and scales every stroke by that
// ratio, the same split a browser canvas makes between its CSS size and its
// backing store.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// MaxPixels caps the backing store size. Larger requests are reported as an
// unavailable context rather than attempted.
const MaxPixels = 1 << 26

// ErrUnavailable is the single failure the surface can report: no drawing
// context could be obtained for the requested size.
var ErrUnavailable = errors.New("surface: drawing context unavailable")

// DefaultColor is the translucent white the branches are stroked with.
var DefaultColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x15}

type Options struct {
	// Ratio overrides the device pixel ratio when positive.
	Ratio float64
	// DeviceRatio probes the display. Nil or a non-positive result means 1.
	DeviceRatio func() float64
	Color       color.NRGBA
	// LineWidth is in logical units; zero means 1.
	LineWidth float64
}

// Surface is a scaled raster canvas.
type Surface struct {
	width, height float64
	ratio         float64
	lineWidth     float64
	img           *image.RGBA
	src           *image.Uniform
	raster        *vector.Rasterizer
}

// ResolveRatio returns the pixel ratio New would use for opts.
func ResolveRatio(opts Options) float64 {
	if valid(opts.Ratio) {
		return opts.Ratio
	}
	if opts.DeviceRatio != nil {
		if r := opts.DeviceRatio(); valid(r) {
			return r
		}
	}
	return 1
}

// New acquires a surface of width x height logical units.
func New(width, height float64, opts Options) (*Surface, error) {
	if !valid(width) || !valid(height) {
		return nil, fmt.Errorf("%w: invalid size %gx%g", ErrUnavailable, width, height)
	}

	ratio := ResolveRatio(opts)
	pw := int(math.Ceil(width * ratio))
	ph := int(math.Ceil(height * ratio))
	if pw <= 0 || ph <= 0 || float64(pw)*float64(ph) > MaxPixels {
		return nil, fmt.Errorf("%w: backing store %dx%d", ErrUnavailable, pw, ph)
	}

	c := opts.Color
	if c == (color.NRGBA{}) {
		c = DefaultColor
	}
	lw := opts.LineWidth
	if !valid(lw) {
		lw = 1
	}

	return &Surface{
		width:     width,
		height:    height,
		ratio:     ratio,
		lineWidth: lw,
		img:       image.NewRGBA(image.Rect(0, 0, pw, ph)),
		src:       image.NewUniform(c),
		raster:    vector.NewRasterizer(1, 1),
	}, nil
}

func (s *Surface) Width() float64          { return s.width }
func (s *Surface) Height() float64         { return s.height }
func (s *Surface) Ratio() float64          { return s.ratio }
func (s *Surface) Image() *image.RGBA      { return s.img }
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Clear resets every pixel to transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// StrokeLine strokes a butt-capped segment between two logical points.
// Zero-length and non-finite segments draw nothing.
func (s *Surface) StrokeLine(x0, y0, x1, y1 float64) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}

	ax, ay := x0*s.ratio, y0*s.ratio
	bx, by := x1*s.ratio, y1*s.ratio
	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		return
	}

	half := s.lineWidth * s.ratio / 2
	nx, ny := -dy/length*half, dx/length*half

	quad := []vec{
		{ax + nx, ay + ny},
		{bx + nx, by + ny},
		{bx - nx, by - ny},
		{ax - nx, ay - ny},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range quad {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}

	box := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(s.img.Bounds())
	if box.Empty() {
		return
	}

	poly := clipPolygon(quad, float64(box.Min.X), float64(box.Min.Y), float64(box.Max.X), float64(box.Max.Y))
	if len(poly) < 3 {
		return
	}

	z := s.raster
	z.Reset(box.Dx(), box.Dy())
	z.DrawOp = draw.Over
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	z.MoveTo(float32(poly[0].x-ox), float32(poly[0].y-oy))
	for _, p := range poly[1:] {
		z.LineTo(float32(p.x-ox), float32(p.y-oy))
	}
	z.ClosePath()
	z.Draw(s.img, box, s.src, image.Point{})
}

// Composite returns a copy of the backing store with the radial edge mask
// applied (transparent at the centre, opaque at the farthest corner) and
// scaled by opacity, which is clamped to [0, 1].
func (s *Surface) Composite(opacity float64) *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	opacity = Clamp01(opacity)
	if opacity == 0 {
		return out
	}

	b := s.img.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	radius := math.Hypot(cx, cy)
	if radius == 0 {
		return out
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := s.img.PixOffset(b.Min.X, y)
		fy := float64(y) + 0.5 - cy
		for x := b.Min.X; x < b.Max.X; x++ {
			i := row + (x-b.Min.X)*4
			if s.img.Pix[i+3] == 0 {
				continue
			}
			fx := float64(x) + 0.5 - cx
			k := math.Min(math.Hypot(fx, fy)/radius, 1) * opacity
			for c := 0; c < 4; c++ {
				out.Pix[i+c] = uint8(float64(s.img.Pix[i+c])*k + 0.5)
			}
		}
	}
	return out
}

// Clamp01 limits v to [0, 1]; NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func valid(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
