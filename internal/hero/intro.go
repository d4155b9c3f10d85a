package hero

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default loader timings: the two letters of the logo are drawn one after
// the other, then held briefly before the page is revealed.
const (
	IntroFirst  = 1200 * time.Millisecond
	IntroSecond = time.Second
	IntroHold   = 300 * time.Millisecond
)

// Intro plays the loader's path animation. Each letter's path goes from
// undrawn to fully drawn; nothing is erased.
type Intro struct {
	strokes [2]*gween.Tween
	drawn   [2]float64
	hold    time.Duration
	held    time.Duration
	done    bool
}

func NewIntro() *Intro {
	return NewIntroTimed(IntroFirst, IntroSecond, IntroHold)
}

func NewIntroTimed(first, second, hold time.Duration) *Intro {
	return &Intro{
		strokes: [2]*gween.Tween{
			gween.New(0, 1, float32(first.Seconds()), ease.InOutQuad),
			gween.New(0, 1, float32(second.Seconds()), ease.InOutQuad),
		},
		hold: hold,
	}
}

// Progress is the drawn fraction of the whole logo, the mean of both letters.
func (i *Intro) Progress() float64 { return (i.drawn[0] + i.drawn[1]) / 2 }

// Letter returns the drawn fraction of letter n (0 or 1).
func (i *Intro) Letter(n int) float64 { return i.drawn[n] }

func (i *Intro) Done() bool { return i.done }

// Update advances the intro by dt and returns the overall progress and
// whether the intro has finished. Time left over when a letter completes is
// not carried into the next one.
func (i *Intro) Update(dt time.Duration) (float64, bool) {
	if i.done {
		return i.Progress(), true
	}

	for n, tw := range i.strokes {
		if tw == nil {
			continue
		}
		val, finished := tw.Update(float32(dt.Seconds()))
		i.drawn[n] = float64(val)
		if finished {
			i.strokes[n] = nil
			i.drawn[n] = 1
		}
		return i.Progress(), false
	}

	i.held += dt
	if i.held >= i.hold {
		i.done = true
	}
	return i.Progress(), i.done
}
