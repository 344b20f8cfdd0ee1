package chart

import "time"

// DefaultDuration matches the usual chart transition length.
const DefaultDuration = 250 * time.Millisecond

// animationFrames is how many eased samples an SVG animation carries.
const animationFrames = 12

// Ease maps linear progress in [0, 1] to eased progress.
type Ease func(t float64) float64

// EaseLinear is linear progress.
func EaseLinear(t float64) float64 { return clamp01(t) }

// EaseCubicInOut is the default transition easing.
func EaseCubicInOut(t float64) float64 {
	t = clamp01(t) * 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// sampleTimes returns animationFrames+1 evenly spaced progress values.
func sampleTimes() []float64 {
	out := make([]float64, animationFrames+1)
	for i := range out {
		out[i] = float64(i) / animationFrames
	}
	return out
}
