package harness

// Element handles are opaque to the harness: the registry stores whatever
// the host tree registered. Interaction helpers discover capabilities by
// interface assertion, so host frameworks opt in per element type.

// Pressable is implemented by elements that accept a press/tap/click.
type Pressable interface {
	Press() error
}

// Editable is implemented by elements that accept text input.
type Editable interface {
	SetText(text string) error
}

// Readable is implemented by elements that expose their rendered text,
// letting test cases assert on visible content.
type Readable interface {
	Text() string
}
