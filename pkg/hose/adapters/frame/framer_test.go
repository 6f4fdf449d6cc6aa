package frame

import (
	"encoding/json"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/hosecat/hose/pkg/hoserrs"
)

// collector gathers framer output for assertions.
type collector struct {
	values []map[string]any
	raws   []string
	errs   []error
}

func newCollectingFramer(maxValueBytes int) (*Framer, *collector) {
	c := &collector{}
	f := New(Config{
		MaxValueBytes: maxValueBytes,
		OnValue: func(raw []byte, value map[string]any) {
			c.raws = append(c.raws, string(raw))
			c.values = append(c.values, value)
		},
		OnError: func(err error) {
			c.errs = append(c.errs, err)
		},
	})

	return f, c
}

func TestFeedSingleValue(t *testing.T) {
	f, c := newCollectingFramer(0)
	f.Feed([]byte(`{"body":"hello"}` + "\n"))

	if len(c.values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(c.values))
	}
	if c.values[0]["body"] != "hello" {
		t.Errorf("expected body hello, got %v", c.values[0]["body"])
	}
	if len(c.errs) != 0 {
		t.Errorf("expected no errors, got %v", c.errs)
	}
}

func TestFeedValueSplitAcrossCalls(t *testing.T) {
	f, c := newCollectingFramer(0)
	f.Feed([]byte(`{"body":"he`))
	if len(c.values) != 0 {
		t.Fatal("value emitted before it was complete")
	}
	f.Feed([]byte(`llo"}`))

	if len(c.values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(c.values))
	}
	if c.values[0]["body"] != "hello" {
		t.Errorf("expected body hello, got %v", c.values[0]["body"])
	}
}

func TestFeedMultipleValuesInOneChunk(t *testing.T) {
	f, c := newCollectingFramer(0)
	f.Feed([]byte(`{"a":1}` + "\r\n" + `{"b":2}` + "\r\n" + `{"c":3}`))

	if len(c.values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(c.values))
	}
}

func TestBracesInsideStringsDoNotConfuseFraming(t *testing.T) {
	f, c := newCollectingFramer(0)
	f.Feed([]byte(`{"body":"a } b { c \" d"}`))

	if len(c.values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(c.values))
	}
	if c.values[0]["body"] != `a } b { c " d` {
		t.Errorf("unexpected body: %v", c.values[0]["body"])
	}
}

func TestKeepaliveBlankLinesAreConsumedSilently(t *testing.T) {
	f, c := newCollectingFramer(0)
	f.Feed([]byte("\r\n"))
	f.Feed([]byte("\r\n"))
	f.Feed([]byte(`{"a":1}` + "\r\n\r\n"))

	if len(c.values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(c.values))
	}
	if len(c.errs) != 0 {
		t.Errorf("expected no errors, got %v", c.errs)
	}
}

func TestLargeIntegersSurviveWithoutPrecisionLoss(t *testing.T) {
	const id = "9223372036854775807" // more than 15 significant digits
	f, c := newCollectingFramer(0)
	f.Feed([]byte(`{"id":` + id + `}`))

	if len(c.values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(c.values))
	}

	num, ok := c.values[0]["id"].(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", c.values[0]["id"])
	}
	if num.String() != id {
		t.Errorf("expected %s, got %s", id, num.String())
	}
}

func TestMalformedValueDoesNotStopTheStream(t *testing.T) {
	f, c := newCollectingFramer(0)
	// Balanced but syntactically invalid, followed by a good value.
	f.Feed([]byte(`{"a":}` + "\n" + `{"b":2}`))

	if len(c.errs) != 1 {
		t.Fatalf("expected 1 content error, got %d", len(c.errs))
	}
	if !hoserrs.IsContentError(c.errs[0]) {
		t.Errorf("expected content error, got %v", c.errs[0])
	}
	if len(c.values) != 1 {
		t.Fatalf("expected 1 value after the bad one, got %d", len(c.values))
	}
	if c.values[0]["b"] == nil {
		t.Error("expected the good value to survive")
	}
}

func TestGarbageLineIsReportedAndSkipped(t *testing.T) {
	f, c := newCollectingFramer(0)
	f.Feed([]byte("not json at all\n" + `{"a":1}`))

	if len(c.errs) != 1 {
		t.Fatalf("expected 1 content error, got %d", len(c.errs))
	}
	if len(c.values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(c.values))
	}
}

func TestTopLevelArrayIsAContentError(t *testing.T) {
	f, c := newCollectingFramer(0)
	f.Feed([]byte(`[1,2,3]` + "\n" + `{"a":1}`))

	if len(c.errs) != 1 {
		t.Fatalf("expected 1 content error, got %d", len(c.errs))
	}
	if len(c.values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(c.values))
	}
}

func TestOversizedValueIsDroppedAndFramingRecovers(t *testing.T) {
	f, c := newCollectingFramer(64)
	big := `{"body":"` + strings.Repeat("x", 200) + `"}`
	f.Feed([]byte(big))
	f.Feed([]byte("\n" + `{"a":1}`))

	if len(c.errs) != 1 {
		t.Fatalf("expected 1 content error, got %d", len(c.errs))
	}
	streamErr, ok := hoserrs.AsStreamError(c.errs[0])
	if !ok || streamErr.Code() != hoserrs.ErrCodeValueTooLarge {
		t.Errorf("expected value_too_large, got %v", c.errs[0])
	}
	if len(c.values) != 1 {
		t.Fatalf("expected framing to recover, got %d values", len(c.values))
	}
}

func TestResetClearsAllPartialState(t *testing.T) {
	f, c := newCollectingFramer(0)
	f.Feed([]byte(`{"a":`))
	f.Reset()
	f.Feed([]byte(`{"b":2}`))

	if len(c.values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(c.values))
	}
	if c.values[0]["b"] == nil {
		t.Error("expected the post-reset value only")
	}
	if len(c.errs) != 0 {
		t.Errorf("expected no errors, got %v", c.errs)
	}
}

// TestChunkingInvariance checks that any chunking of a valid value
// sequence yields the identical ordered sequence of emitted values.
func TestChunkingInvariance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numValues := rapid.IntRange(1, 8).Draw(t, "numValues")

		var stream []byte
		want := make([]string, 0, numValues)
		for i := 0; i < numValues; i++ {
			value := map[string]any{
				"id":   rapid.Int64().Draw(t, "id"),
				"body": rapid.StringN(0, 40, -1).Draw(t, "body"),
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			want = append(want, string(encoded))
			stream = append(stream, encoded...)
			stream = append(stream, '\n')
		}

		feedAll := func(chunkSizes []int) []string {
			f, c := newCollectingFramer(0)
			rest := stream
			for _, size := range chunkSizes {
				if size > len(rest) {
					size = len(rest)
				}
				f.Feed(rest[:size])
				rest = rest[size:]
			}
			f.Feed(rest)

			return c.raws
		}

		// One byte at a time.
		ones := make([]int, len(stream))
		for i := range ones {
			ones[i] = 1
		}
		byteAtATime := feedAll(ones)

		// Random chunking.
		var sizes []int
		remaining := len(stream)
		for remaining > 0 {
			n := rapid.IntRange(1, remaining).Draw(t, "chunk")
			sizes = append(sizes, n)
			remaining -= n
		}
		randomChunks := feedAll(sizes)

		// All at once.
		allAtOnce := feedAll([]int{len(stream)})

		if len(byteAtATime) != len(want) {
			t.Fatalf("byte-at-a-time: expected %d values, got %d", len(want), len(byteAtATime))
		}
		if len(randomChunks) != len(want) {
			t.Fatalf("random-chunk: expected %d values, got %d", len(want), len(randomChunks))
		}
		if len(allAtOnce) != len(want) {
			t.Fatalf("all-at-once: expected %d values, got %d", len(want), len(allAtOnce))
		}
		for i := range want {
			if byteAtATime[i] != want[i] {
				t.Fatalf("byte-at-a-time value %d: want %q, got %q", i, want[i], byteAtATime[i])
			}
			if randomChunks[i] != want[i] {
				t.Fatalf("random-chunk value %d: want %q, got %q", i, want[i], randomChunks[i])
			}
			if allAtOnce[i] != want[i] {
				t.Fatalf("all-at-once value %d: want %q, got %q", i, want[i], allAtOnce[i])
			}
		}
	})
}
