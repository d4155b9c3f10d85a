package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/artplum/internal/hero"
)

// ebitenGame implements ebiten.Game. The logical screen is the surface's
// backing store, so one screen pixel is one device pixel.
type ebitenGame struct {
	view   *hero.View
	scroll scroller
	img    *ebiten.Image
	w, h   int
}

func runEbiten(cfg hero.Config, opts Options) error {
	w, h := windowSize(cfg)
	if cfg.Driver.Surface.DeviceRatio == nil {
		cfg.Driver.Surface.DeviceRatio = func() float64 {
			return ebiten.Monitor().DeviceScaleFactor()
		}
	}

	g := &ebitenGame{view: newView(cfg, opts), w: w, h: h}
	defer g.view.Close()

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

func (g *ebitenGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.view.Restart()
	}
	_, dy := ebiten.Wheel()
	if opacity, moved := g.scroll.wheel(dy); moved {
		g.view.SetScrollOpacity(opacity)
	}
	g.view.Update()
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.scroll.background())
	frame := g.view.Frame()
	if frame == nil {
		return
	}
	b := frame.Bounds()
	if g.img == nil || !sameSize(g.img.Bounds(), b) {
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.img.WritePixels(frame.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if surf := g.view.Driver().Surface(); surf != nil {
		b := surf.Bounds()
		return b.Dx(), b.Dy()
	}
	return g.w, g.h
}

var _ ebiten.Game = (*ebitenGame)(nil)
