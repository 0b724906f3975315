package harness

import (
	"errors"
)

// Harness errors
var (
	// Element registry and lookup errors
	ErrElementNotFound     = errors.New("element not found in registry")
	ErrDuplicateIdentifier = errors.New("identifier already registered to a different element")
	ErrElementNotPressable = errors.New("element does not support press interactions")
	ErrElementNotEditable  = errors.New("element does not support text input")
	ErrElementNotReadable  = errors.New("element does not expose text content")
	ErrElementStillMounted = errors.New("element is still registered")

	// Test declaration and execution errors
	ErrAssertionFailed = errors.New("assertion failed")
	ErrCaseTimedOut    = errors.New("test case exceeded its time bound")
	ErrScopeSealed     = errors.New("cannot declare test cases after spec registration completed")
	ErrRunInProgress   = errors.New("a test run is already in progress")
	ErrHarnessFault    = errors.New("harness internal fault")

	// Runner construction errors
	ErrRegistryNil         = errors.New("element registry is nil")
	ErrReporterNil         = errors.New("reporter is nil")
	ErrHostNil             = errors.New("host is nil")
	ErrStoreNil            = errors.New("persistent store is nil")
	ErrInvalidWaitTime     = errors.New("wait time must be positive")
	ErrInvalidPollInterval = errors.New("poll interval must be positive")
	ErrInvalidStartDelay   = errors.New("start delay cannot be negative")

	// Reporter errors
	ErrReporterTransmission = errors.New("failed to transmit report to collector")

	// Configuration errors
	ErrUnsupportedConfigFormat = errors.New("unsupported config file format")
	ErrConfigWatcherStarted    = errors.New("config watcher already started")

	// Observer errors
	ErrObserverNil = errors.New("observer is nil")
)
