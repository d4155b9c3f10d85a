package gui

import (
	"image"
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/artplum/internal/hero"
)

var ColText = rl.NewColor(140, 140, 140, 255)

type raylibApp struct {
	view   *hero.View
	scroll scroller
	tex    rl.Texture2D
	texB   image.Rectangle
	loaded bool
	ratio  float64
}

func initWindow(w, h int) {
	rl.SetConfigFlags(rl.FlagWindowHighdpi)
	rl.InitWindow(int32(w), int32(h), title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(rl.KeyEscape)
}

func runRaylib(cfg hero.Config, opts Options) error {
	w, h := windowSize(cfg)
	initWindow(w, h)
	defer rl.CloseWindow()

	if cfg.Driver.Surface.DeviceRatio == nil {
		cfg.Driver.Surface.DeviceRatio = func() float64 {
			return float64(rl.GetWindowScaleDPI().X)
		}
	}

	app := &raylibApp{view: newView(cfg, opts)}
	defer app.close()

	for !rl.WindowShouldClose() {
		app.update()
		app.draw()
	}
	return nil
}

func (a *raylibApp) update() {
	if rl.IsKeyPressed(rl.KeyR) {
		a.view.Restart()
	}
	if opacity, moved := a.scroll.wheel(float64(rl.GetMouseWheelMove())); moved {
		a.view.SetScrollOpacity(opacity)
	}
	a.view.Update()
}

func (a *raylibApp) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	bg := a.scroll.background()
	rl.ClearBackground(rl.NewColor(bg.R, bg.G, bg.B, bg.A))

	frame := a.view.Frame()
	if frame == nil {
		if a.view.Disabled() {
			rl.DrawText("no drawing surface", 10, 10, 20, ColText)
		}
		return
	}
	a.upload(frame)

	// The composite is premultiplied, and sized in device pixels.
	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	rl.DrawTextureEx(a.tex, rl.NewVector2(0, 0), 0, float32(1/a.ratio), rl.White)
	rl.EndBlendMode()
}

func (a *raylibApp) upload(frame *image.RGBA) {
	b := frame.Bounds()
	if !a.loaded || !sameSize(a.texB, b) {
		if a.loaded {
			rl.UnloadTexture(a.tex)
		}
		img := rl.GenImageColor(b.Dx(), b.Dy(), rl.Blank)
		a.tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		a.texB = b
		a.loaded = true
		a.ratio = 1
		if surf := a.view.Driver().Surface(); surf != nil {
			a.ratio = surf.Ratio()
		}
	}
	if len(frame.Pix) == 0 {
		return
	}
	pixels := unsafe.Slice((*color.RGBA)(unsafe.Pointer(&frame.Pix[0])), len(frame.Pix)/4)
	rl.UpdateTexture(a.tex, pixels)
}

func (a *raylibApp) close() {
	a.view.Close()
	if a.loaded {
		rl.UnloadTexture(a.tex)
		a.loaded = false
	}
}
