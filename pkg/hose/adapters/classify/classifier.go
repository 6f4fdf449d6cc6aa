// Package classify assigns semantic event kinds to parsed stream
// values.
//
// Classification is a pure function over one value, applied in strict
// precedence order (first match wins): error, delete, body/text, info,
// otherwise generic object only. Field presence is probed on the raw
// bytes with jsonparser so classification never re-decodes the value.
package classify

import (
	"github.com/buger/jsonparser"

	"github.com/hosecat/hose/pkg/hose/events"
	"github.com/hosecat/hose/pkg/hose/ports"
	"github.com/hosecat/hose/pkg/hoserrs"
)

// placeholderErrorMessage stands in when the stream reports an error
// object without a message field.
const placeholderErrorMessage = "stream reported an error without a message"

// Adapter implements ports.Classifier.
type Adapter struct{}

// Verify interface compliance at compile time.
var _ ports.Classifier = (*Adapter)(nil)

// NewAdapter creates a new classifier adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Classify implements ports.Classifier. The precedence order means a
// value carrying both error and body fields classifies as an error.
func (a *Adapter) Classify(raw []byte, value map[string]any) (events.Event, bool) {
	if hasField(raw, "error") {
		msg, err := jsonparser.GetString(raw, "error", "message")
		if err != nil || msg == "" {
			msg = placeholderErrorMessage
		}

		return events.StreamError{
			Err:   hoserrs.NewUpstreamError(msg),
			Value: value,
			Raw:   raw,
		}, true
	}

	if hasField(raw, "delete") {
		return events.Delete{Value: value, Raw: raw}, true
	}

	if hasField(raw, "body") || hasField(raw, "text") {
		text, err := jsonparser.GetString(raw, "body")
		if err != nil {
			text, _ = jsonparser.GetString(raw, "text")
		}

		return events.Activity{Value: value, Raw: raw, Text: text}, true
	}

	if hasField(raw, "info") {
		msg, _ := jsonparser.GetString(raw, "info", "message")

		return events.Info{Value: value, Raw: raw, Message: msg}, true
	}

	return nil, false
}

// hasField reports whether the top-level object carries the key,
// whatever its value type.
func hasField(raw []byte, key string) bool {
	_, _, _, err := jsonparser.Get(raw, key)

	return err == nil
}
