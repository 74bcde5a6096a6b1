package ui

import "time"

// AnimationType represents the type of action animation
type AnimationType int

const (
	AnimNone AnimationType = iota
	AnimFeed
	AnimPlay
	AnimPet
)

// Animation holds the current animation state
type Animation struct {
	Type      AnimationType
	Frame     int
	StartTime time.Time
}

// AnimationFrames holds the ASCII frames for each care action
var AnimationFrames = map[AnimationType][]string{
	AnimFeed: {
		`
   🍖
     \
      🐶
`,
		`

   🍖→🐶

`,
		`

     🐶
   *nom*
`,
		`

     😋
   *munch*
`,
	},
	AnimPlay: {
		`
  🎾        🐶
`,
		`
     🎾     🐕
`,
		`
        🎾  🐶
`,
		`
     🎾     🐕
              *woof*
`,
		`
  🎾        🐶
              *fetch!*
`,
	},
	AnimPet: {
		`
   ✋
      🐶
`,
		`
     ✋
     🐶
`,
		`
     🐶
   ~ ♥ ~
`,
		`
     🥰
  *tail wag*
`,
	},
}

// AnimationFrameDuration is how long each frame displays
const AnimationFrameDuration = 200 * time.Millisecond

// FrameCount reports how many frames an action animation has.
func FrameCount(t AnimationType) int {
	return len(AnimationFrames[t])
}

// Active reports whether an action animation is on screen.
func (a Animation) Active() bool {
	return a.Type != AnimNone && a.Frame < FrameCount(a.Type)
}

// Current returns the frame to draw, holding on the last one.
func (a Animation) Current() string {
	frames := AnimationFrames[a.Type]
	if len(frames) == 0 {
		return ""
	}
	return frames[min(a.Frame, len(frames)-1)]
}

// Advance moves to the next frame and clears the animation once the
// last frame has shown. It reports whether more frames remain.
func (a *Animation) Advance() bool {
	a.Frame++
	if a.Active() {
		return true
	}
	*a = Animation{}
	return false
}
