package harness

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitResolvesImmediatelyWhenRegistered(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		registry := NewElementRegistry(nil)
		button := &fakeButton{}
		registry.Register("submit-button", button)

		start := time.Now()
		handle, err := registry.Await(context.Background(), "submit-button", 2*time.Second, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Same(t, button, handle)
		assert.Zero(t, time.Since(start), "already-registered element must resolve without waiting")
	})
}

func TestAwaitResolvesAfterLateRegistration(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		registry := NewElementRegistry(nil)
		button := &fakeButton{}

		go func() {
			time.Sleep(120 * time.Millisecond)
			registry.Register("submit-button", button)
		}()

		start := time.Now()
		handle, err := registry.Await(context.Background(), "submit-button", 2*time.Second, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Same(t, button, handle)

		elapsed := time.Since(start)
		assert.GreaterOrEqual(t, elapsed, 120*time.Millisecond, "must not resolve before registration")
		assert.LessOrEqual(t, elapsed, 120*time.Millisecond+50*time.Millisecond,
			"must resolve within one poll interval of registration")
	})
}

func TestAwaitTimesOut(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		registry := NewElementRegistry(nil)

		start := time.Now()
		_, err := registry.Await(context.Background(), "never-mounted", 500*time.Millisecond, 50*time.Millisecond)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrElementNotFound)
		assert.Contains(t, err.Error(), "never-mounted")

		elapsed := time.Since(start)
		assert.GreaterOrEqual(t, elapsed, 500*time.Millisecond)
		assert.LessOrEqual(t, elapsed, 550*time.Millisecond,
			"rejection must occur within one poll interval past the bound")
	})
}

func TestAwaitRegistrationAfterTimeoutStillFails(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		registry := NewElementRegistry(nil)

		go func() {
			time.Sleep(time.Second)
			registry.Register("slow-element", &fakeButton{})
		}()

		_, err := registry.Await(context.Background(), "slow-element", 200*time.Millisecond, 50*time.Millisecond)
		assert.ErrorIs(t, err, ErrElementNotFound)

		// The bubble must not exit while the late-registration goroutine is
		// still sleeping; block until its fake-clock deadline has passed.
		time.Sleep(time.Second)
	})
}

func TestAwaitContextCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		registry := NewElementRegistry(nil)
		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			time.Sleep(100 * time.Millisecond)
			cancel()
		}()

		_, err := registry.Await(ctx, "never-mounted", 5*time.Second, 50*time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAwaitDefaultPollInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		registry := NewElementRegistry(nil)

		go func() {
			time.Sleep(30 * time.Millisecond)
			registry.Register("submit-button", &fakeButton{})
		}()

		// Non-positive poll falls back to DefaultPollInterval.
		handle, err := registry.Await(context.Background(), "submit-button", time.Second, 0)
		require.NoError(t, err)
		assert.NotNil(t, handle)
	})
}
