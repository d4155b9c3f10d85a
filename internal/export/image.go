package export

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
)

var ErrNoFrames = errors.New("export: no frames to encode")

// Background is painted under every frame before it is quantised for GIF,
// since the drawing itself is mostly transparent.
var Background = color.NRGBA{0x0a, 0x0a, 0x0a, 0xff}

func PNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// GIF encodes frames as a looping animation, delay in 100ths of a second.
func GIF(w io.Writer, frames []image.Image, delay int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, Paletted(frame))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Paletted flattens img onto Background and maps it to the Plan 9 palette.
func Paletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	flat := image.NewRGBA(b)
	draw.Draw(flat, b, image.NewUniform(Background), image.Point{}, draw.Src)
	draw.Draw(flat, b, img, b.Min, draw.Over)

	out := image.NewPaletted(b, palette.Plan9)
	draw.Draw(out, b, flat, b.Min, draw.Src)
	return out
}
