package ports

import "github.com/hosecat/hose/pkg/hose/events"

// Classifier assigns a semantic event kind to one parsed JSON value.
type Classifier interface {
	// Classify inspects the value and returns its specialized event.
	// The boolean is false when the value matches no specialized
	// shape and only the generic Object event applies.
	Classify(raw []byte, value map[string]any) (events.Event, bool)
}
