package harness

import "context"

// Host is the harness's view of the UI tree it tests. The host owns
// mounting and remounting; the harness only asks for a reset between
// cases so no case observes state left behind by a previous one.
type Host interface {
	// RequestRerender asks the host to remount/reset the UI subtree
	// under test. It returns once the remount has been requested, not
	// necessarily once it has completed; the next element lookup polls
	// until the remounted elements appear.
	RequestRerender(ctx context.Context) error
}

// HostFunc adapts a plain function to the Host interface.
type HostFunc func(ctx context.Context) error

// RequestRerender implements Host by calling the function.
func (f HostFunc) RequestRerender(ctx context.Context) error {
	return f(ctx)
}

// NoopHost is a Host that performs no reset between cases. It is the
// default for hosts whose elements are stateless or reset themselves.
type NoopHost struct{}

// RequestRerender implements Host as a no-op.
func (NoopHost) RequestRerender(context.Context) error { return nil }
