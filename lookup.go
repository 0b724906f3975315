package harness

import (
	"context"
	"fmt"
	"time"
)

// DefaultPollInterval is the delay between registry polls while awaiting
// an element. It is short relative to the default wait time so that dozens
// of attempts occur before a lookup gives up, without busy-spinning.
const DefaultPollInterval = 50 * time.Millisecond

// Await waits for an element with the given identifier to be registered,
// polling the registry until it appears or timeout elapses.
//
// Mounting is asynchronous and driven by a rendering schedule the harness
// does not control, so polling is the portable way to wait for "eventually
// mounted" without requiring a push notification from every element type.
//
// The registry is checked once immediately, then every poll interval.
// A non-positive poll falls back to DefaultPollInterval. On timeout the
// returned error wraps ErrElementNotFound and names the identifier and
// bound; context cancellation returns ctx.Err().
func (r *ElementRegistry) Await(ctx context.Context, identifier string, timeout, poll time.Duration) (any, error) {
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	if handle, ok := r.Lookup(identifier); ok {
		return handle, nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			r.logger.Debug("Element lookup timed out",
				"identifier", identifier, "timeout", timeout, "registered", r.Identifiers())
			return nil, fmt.Errorf("%w: %q after %s", ErrElementNotFound, identifier, timeout)
		case <-ticker.C:
			if handle, ok := r.Lookup(identifier); ok {
				return handle, nil
			}
		}
	}
}
