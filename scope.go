package harness

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// Spec is a specification function: it declares one or more test cases
// against the Scope it is given. Specs run synchronously while the Runner
// collects cases, before any case executes.
type Spec func(*Scope) error

// CaseFunc is the body of a single test case. It may await element lookups
// and any number of further asynchronous interactions; the Runner only
// advances to the next case once the body returns or its time bound lapses.
// Return nil to pass; return an error (typically from the Scope's assertion
// helpers) to fail.
type CaseFunc func(ctx context.Context) error

type testCase struct {
	description string
	body        CaseFunc
}

// Scope is the per-specification context handed to each Spec. It offers
// case declaration, element lookup bound to the configured wait time,
// interaction helpers, and assertion helpers.
//
// A Scope collects cases only while its Spec runs. Once the Spec returns
// the case list is frozen and Describe fails with ErrScopeSealed.
type Scope struct {
	registry     *ElementRegistry
	host         Host
	logger       Logger
	waitTime     time.Duration
	pollInterval time.Duration
	sealed       bool
	cases        []testCase
}

func newScope(r *Runner) *Scope {
	return &Scope{
		registry:     r.registry,
		host:         r.host,
		logger:       r.logger,
		waitTime:     r.waitTime,
		pollInterval: r.pollInterval,
	}
}

// seal freezes the case list. Called by the Runner after the Spec returns.
func (s *Scope) seal() {
	s.sealed = true
}

// Describe appends a test case to this scope. Declaration order is
// execution order and report order. Describe must be called while the
// Spec function is running; afterwards it returns ErrScopeSealed.
func (s *Scope) Describe(description string, body CaseFunc) error {
	if s.sealed {
		return fmt.Errorf("%w: %q", ErrScopeSealed, description)
	}
	s.cases = append(s.cases, testCase{description: description, body: body})
	return nil
}

// FindComponent waits for the element with the given identifier to mount,
// polling the registry up to the scope's configured wait time. The error
// on timeout wraps ErrElementNotFound, which the Runner records as a case
// failure.
func (s *Scope) FindComponent(ctx context.Context, identifier string) (any, error) {
	return s.registry.Await(ctx, identifier, s.waitTime, s.pollInterval)
}

// Press locates an element and invokes its registered press callback.
// The element must implement Pressable.
func (s *Scope) Press(ctx context.Context, identifier string) error {
	handle, err := s.FindComponent(ctx, identifier)
	if err != nil {
		return err
	}
	pressable, ok := handle.(Pressable)
	if !ok {
		return fmt.Errorf("%w: %q", ErrElementNotPressable, identifier)
	}
	return pressable.Press()
}

// FillIn locates an element and replaces its text content. The element
// must implement Editable.
func (s *Scope) FillIn(ctx context.Context, identifier string, text string) error {
	handle, err := s.FindComponent(ctx, identifier)
	if err != nil {
		return err
	}
	editable, ok := handle.(Editable)
	if !ok {
		return fmt.Errorf("%w: %q", ErrElementNotEditable, identifier)
	}
	return editable.SetText(text)
}

// ReadText locates an element and returns its rendered text. The element
// must implement Readable.
func (s *Scope) ReadText(ctx context.Context, identifier string) (string, error) {
	handle, err := s.FindComponent(ctx, identifier)
	if err != nil {
		return "", err
	}
	readable, ok := handle.(Readable)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrElementNotReadable, identifier)
	}
	return readable.Text(), nil
}

// Exists waits for the element to mount within the scope's wait time.
func (s *Scope) Exists(ctx context.Context, identifier string) error {
	_, err := s.FindComponent(ctx, identifier)
	return err
}

// NotExists asserts the element is not currently registered. Unlike
// Exists it does not wait: absence is checked at the moment of the call.
func (s *Scope) NotExists(identifier string) error {
	if _, ok := s.registry.Lookup(identifier); ok {
		return fmt.Errorf("%w: %q", ErrElementStillMounted, identifier)
	}
	return nil
}

// Expect returns an assertion failure unless cond holds. The message is
// included in the case's reported error.
func (s *Scope) Expect(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrAssertionFailed, fmt.Sprintf(format, args...))
}

// Equal returns an assertion failure unless want and got are deeply equal.
// The label names the compared value in the reported error.
func (s *Scope) Equal(want, got any, label string) error {
	if reflect.DeepEqual(want, got) {
		return nil
	}
	return fmt.Errorf("%w: %s: want %v, got %v", ErrAssertionFailed, label, want, got)
}

// Rerender asks the host to remount or reset the UI subtree under test.
// Useful inside a case after an interaction that should change what is
// mounted; the Runner also requests one before every case.
func (s *Scope) Rerender(ctx context.Context) error {
	return s.host.RequestRerender(ctx)
}
