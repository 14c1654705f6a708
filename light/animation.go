// SPDX-License-Identifier: GPL-2.0-or-later

package light

import (
	"github.com/pkg/errors"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// NormalStyle is the pattern of a light at full, unanimated brightness.
	NormalStyle = "m"
	// DefaultFPS is the rate light style patterns advance at.
	DefaultFPS = 10
)

var easings = map[string]ease.TweenFunc{
	"linear":    ease.Linear,
	"inQuad":    ease.InQuad,
	"outQuad":   ease.OutQuad,
	"inOutQuad": ease.InOutQuad,
	"inOutSine": ease.InOutSine,
}

// styleLevel maps 'a'..'z' to a brightness factor, 'm' being about 1.
func styleLevel(c byte) float32 {
	return float32(int(c)-int('a')) * 22 / 256
}

// Animation varies a light's brightness along a light style pattern.
// Each character of the pattern is one frame; the brightness is eased from
// one frame to the next.
type Animation struct {
	Pattern string
	FPS     float32
	Easing  string

	levels  []float32
	fn      ease.TweenFunc
	frame   int
	elapsed float32
	tween   *gween.Tween
	value   float32
}

// NewAnimation checks the pattern and prepares the first frame. An empty
// easing name selects "linear".
func NewAnimation(pattern string, fps float32, easing string) (*Animation, error) {
	if len(pattern) == 0 {
		return nil, errors.New("empty light style")
	}
	if easing == "" {
		easing = "linear"
	}
	fn, ok := easings[easing]
	if !ok {
		return nil, errors.Errorf("unknown easing %q", easing)
	}
	a := &Animation{
		Pattern: pattern,
		FPS:     fps,
		Easing:  easing,
		fn:      fn,
		levels:  make([]float32, len(pattern)),
	}
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c < 'a' || c > 'z' {
			return nil, errors.Errorf("invalid light style %q at %d", pattern, i)
		}
		a.levels[i] = styleLevel(c)
	}
	a.Reset()
	return a, nil
}

func (a *Animation) frameTime() float32 {
	if a.FPS <= 0 {
		return 0
	}
	return 1 / a.FPS
}

func (a *Animation) startFrame() {
	next := (a.frame + 1) % len(a.levels)
	a.tween = gween.New(a.levels[a.frame], a.levels[next], a.frameTime(), a.fn)
}

// Reset rewinds to the first frame.
func (a *Animation) Reset() {
	a.frame = 0
	a.elapsed = 0
	a.value = a.levels[0]
	a.startFrame()
}

// Update advances the animation by dt seconds.
func (a *Animation) Update(dt float32) {
	ft := a.frameTime()
	if ft == 0 || len(a.levels) == 1 || dt <= 0 {
		return
	}
	a.elapsed += dt
	if a.elapsed < ft {
		a.value, _ = a.tween.Update(dt)
		return
	}
	for a.elapsed >= ft {
		a.elapsed -= ft
		a.frame = (a.frame + 1) % len(a.levels)
	}
	a.startFrame()
	a.value, _ = a.tween.Update(a.elapsed)
}

// Scale returns the current brightness factor.
func (a *Animation) Scale() float32 {
	return a.value
}

// Frame returns the index of the current pattern character.
func (a *Animation) Frame() int {
	return a.frame
}
