package harness

import (
	"context"
	"sync"
)

// mockLogger captures log calls for assertions.
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

func (l *mockLogger) log(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *mockLogger) Info(msg string, args ...any)  { l.log("info", msg, args...) }
func (l *mockLogger) Error(msg string, args ...any) { l.log("error", msg, args...) }
func (l *mockLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args...) }
func (l *mockLogger) Debug(msg string, args ...any) { l.log("debug", msg, args...) }

func (l *mockLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var msgs []string
	for _, e := range l.entries {
		if e.level == level {
			msgs = append(msgs, e.msg)
		}
	}
	return msgs
}

// recordingReporter captures every sink callback for assertions.
type recordingReporter struct {
	mu        sync.Mutex
	started   int
	results   []Result
	completed []*Report
}

func (r *recordingReporter) OnStart(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recordingReporter) OnTestResult(_ context.Context, result Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

func (r *recordingReporter) OnComplete(_ context.Context, report *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, report)
	return nil
}

// countingHost counts re-render requests and optionally runs a hook on
// each one, letting tests remount elements the way a real host would.
type countingHost struct {
	mu       sync.Mutex
	requests int
	onRender func()
	err      error
}

func (h *countingHost) RequestRerender(context.Context) error {
	h.mu.Lock()
	h.requests++
	hook := h.onRender
	err := h.err
	h.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (h *countingHost) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests
}

// fakeButton is a pressable, readable element.
type fakeButton struct {
	mu      sync.Mutex
	label   string
	presses int
}

func (b *fakeButton) Press() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presses++
	return nil
}

func (b *fakeButton) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *fakeButton) pressCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presses
}

// fakeInput is an editable element.
type fakeInput struct {
	mu   sync.Mutex
	text string
}

func (i *fakeInput) SetText(text string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.text = text
	return nil
}

func (i *fakeInput) Text() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.text
}
