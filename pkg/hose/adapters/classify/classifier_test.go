package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosecat/hose/pkg/hose/events"
	"github.com/hosecat/hose/pkg/hoserrs"
)

func classifyJSON(t *testing.T, raw string) (events.Event, bool) {
	t.Helper()

	var value map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &value))

	return NewAdapter().Classify([]byte(raw), value)
}

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind events.Kind
	}{
		{
			name: "error beats body",
			raw:  `{"error":{"message":"rate limited"},"body":"hello"}`,
			kind: events.KindError,
		},
		{
			name: "error beats delete",
			raw:  `{"error":{"message":"gone"},"delete":{"status":{"id":1}}}`,
			kind: events.KindError,
		},
		{
			name: "delete beats body",
			raw:  `{"delete":{"status":{"id":1}},"body":"x"}`,
			kind: events.KindDelete,
		},
		{
			name: "body beats info",
			raw:  `{"body":"hello","info":{"message":"note"}}`,
			kind: events.KindActivity,
		},
		{
			name: "text alone is an activity",
			raw:  `{"text":"hello"}`,
			kind: events.KindActivity,
		},
		{
			name: "info alone",
			raw:  `{"info":{"message":"heartbeat config"}}`,
			kind: events.KindInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := classifyJSON(t, tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.kind, ev.Kind())
		})
	}
}

func TestClassifyErrorCarriesUpstreamMessage(t *testing.T) {
	ev, ok := classifyJSON(t, `{"error":{"message":"connection limit exceeded"}}`)
	require.True(t, ok)

	streamErr, ok := ev.(events.StreamError)
	require.True(t, ok)
	assert.True(t, hoserrs.IsUpstreamError(streamErr.Err))
	assert.Contains(t, streamErr.Err.Error(), "connection limit exceeded")
}

func TestClassifyErrorWithoutMessageGetsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "error is a bare string", raw: `{"error":"boom"}`},
		{name: "error object without message", raw: `{"error":{"code":7}}`},
		{name: "error message empty", raw: `{"error":{"message":""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := classifyJSON(t, tt.raw)
			require.True(t, ok)

			streamErr, isErr := ev.(events.StreamError)
			require.True(t, isErr)
			assert.Contains(t, streamErr.Err.Error(), placeholderErrorMessage)
		})
	}
}

func TestClassifyActivityPrefersBodyOverText(t *testing.T) {
	ev, ok := classifyJSON(t, `{"body":"from body","text":"from text"}`)
	require.True(t, ok)

	activity, isActivity := ev.(events.Activity)
	require.True(t, isActivity)
	assert.Equal(t, "from body", activity.Text)
}

func TestClassifyUnmatchedValueIsNotClassified(t *testing.T) {
	ev, ok := classifyJSON(t, `{"id":1,"verb":"share"}`)
	assert.False(t, ok)
	assert.Nil(t, ev)
}

func TestClassifyDeleteRetainsValueAndRaw(t *testing.T) {
	raw := `{"delete":{"status":{"id":1234567890123456789}}}`
	ev, ok := classifyJSON(t, raw)
	require.True(t, ok)

	del, isDelete := ev.(events.Delete)
	require.True(t, isDelete)
	assert.Equal(t, raw, string(del.Raw))
	assert.NotNil(t, del.Value["delete"])
}
