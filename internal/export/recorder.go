package export

import (
	"image"
	"image/draw"

	"github.com/san-kum/artplum/internal/plum"
)

// DefaultMaxFrames caps how many frames a Recorder keeps.
const DefaultMaxFrames = 600

// Recorder is a plum.Observer that keeps every segment and, every Every
// ticks, a copy of the image returned by Source. The last frame is always
// captured when the drawing finishes.
type Recorder struct {
	Every     int
	MaxFrames int
	Source    func() image.Image

	segments []plum.Segment
	frames   []image.Image
}

func NewRecorder(every int, source func() image.Image) *Recorder {
	return &Recorder{Every: every, MaxFrames: DefaultMaxFrames, Source: source}
}

func (r *Recorder) OnSegment(seg plum.Segment) {
	r.segments = append(r.segments, seg)
}

func (r *Recorder) OnTick(stats plum.TickStats) {
	if r.Source == nil || r.Every <= 0 {
		return
	}
	if stats.Empty || stats.Tick%r.Every == 0 {
		r.capture()
	}
}

func (r *Recorder) Segments() []plum.Segment { return r.segments }
func (r *Recorder) Frames() []image.Image    { return r.frames }

func (r *Recorder) Reset() {
	r.segments = nil
	r.frames = nil
}

func (r *Recorder) capture() {
	if r.MaxFrames > 0 && len(r.frames) >= r.MaxFrames {
		return
	}
	img := r.Source()
	if img == nil {
		return
	}
	r.frames = append(r.frames, clone(img))
}

func clone(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}
