package stimulus

import "context"

// Nop is a Broadcaster that discards everything. Used when no renderer is
// attached, e.g. synthetic screenings and tests.
type Nop struct{}

// Publish drops the state.
func (Nop) Publish(ctx context.Context, s State) {}
