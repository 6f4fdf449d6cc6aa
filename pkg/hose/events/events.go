// Package events defines the typed events a stream connection emits.
// Events form a discriminated union: every parsed JSON value is first
// delivered as a generic Object event and then, when it matches one of
// the specialized shapes, as an Activity, Delete, Info, or StreamError
// event. Lifecycle transitions surface as Ready and Ended.
package events

// Kind names an event class. Kinds double as the subscription keys
// used by the client's callback table.
type Kind string

const (
	// KindData is raw decompressed bytes, before framing.
	KindData Kind = "data"
	// KindObject is every parsed JSON value, unclassified.
	KindObject Kind = "object"
	// KindActivity is a content item (a value with a body or text field).
	KindActivity Kind = "activity"
	// KindDelete is a deletion notice (a value with a delete field).
	KindDelete Kind = "delete"
	// KindInfo is an informational message (a value with an info field).
	KindInfo Kind = "info"
	// KindError is any fault or upstream-reported error.
	KindError Kind = "error"
	// KindReady signals the connection was accepted (2xx status).
	KindReady Kind = "ready"
	// KindEnded is the terminal notification, fired exactly once per
	// connection regardless of how it ended.
	KindEnded Kind = "end"
)

// Event is the discriminated union over all stream events.
type Event interface {
	// Kind returns the event's class.
	Kind() Kind

	event()
}

// Data carries a chunk of raw decompressed bytes. The chunking is an
// artifact of transport and decompression; callers must not assume any
// particular boundary alignment.
type Data struct {
	Bytes []byte
}

// Kind implements Event.
func (Data) Kind() Kind { return KindData }

func (Data) event() {}

// Object carries one parsed JSON value before classification. Numeric
// fields are json.Number values so large identifiers survive without
// precision loss.
type Object struct {
	// Value is the parsed JSON value.
	Value map[string]any
	// Raw is the exact byte run the value was parsed from.
	Raw []byte
}

// Kind implements Event.
func (Object) Kind() Kind { return KindObject }

func (Object) event() {}

// Activity is a content item: a value carrying a body or text field.
type Activity struct {
	Value map[string]any
	Raw   []byte
	// Text is the value's body field, or its text field when no body
	// is present.
	Text string
}

// Kind implements Event.
func (Activity) Kind() Kind { return KindActivity }

func (Activity) event() {}

// Delete is a deletion notice for previously delivered content.
type Delete struct {
	Value map[string]any
	Raw   []byte
}

// Kind implements Event.
func (Delete) Kind() Kind { return KindDelete }

func (Delete) event() {}

// Info is an informational message from the stream.
type Info struct {
	Value map[string]any
	Raw   []byte
	// Message is the value's info.message field when present.
	Message string
}

// Kind implements Event.
func (Info) Kind() Kind { return KindInfo }

func (Info) event() {}

// StreamError carries any fault surfaced on the error channel: an
// upstream-reported error object, a protocol or transport failure, or
// a content error for one malformed value. Err classifies the fault;
// Value and Raw are set only for upstream error objects.
type StreamError struct {
	Err   error
	Value map[string]any
	Raw   []byte
}

// Kind implements Event.
func (StreamError) Kind() Kind { return KindError }

func (StreamError) event() {}

// Ready signals the streaming endpoint accepted the connection.
type Ready struct {
	// ConnectionID identifies the connection the event belongs to.
	ConnectionID string
}

// Kind implements Event.
func (Ready) Kind() Kind { return KindReady }

func (Ready) event() {}

// Ended is the terminal notification for a connection.
type Ended struct {
	ConnectionID string
}

// Kind implements Event.
func (Ended) Kind() Kind { return KindEnded }

func (Ended) event() {}
