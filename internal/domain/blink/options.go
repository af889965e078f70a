package blink

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithBaseThreshold overrides the fixed openness threshold used before the
// adaptive one takes over.
func WithBaseThreshold(t float64) Option {
	return func(a *Accumulator) {
		if t > 0 {
			a.baseThreshold = t
		}
	}
}

// WithDebounceFrames overrides how many consecutive below-threshold frames
// are required before the closed transition fires.
func WithDebounceFrames(n int) Option {
	return func(a *Accumulator) {
		if n > 0 {
			a.debounceFrames = n
		}
	}
}
