package hose

import (
	"context"

	"github.com/hosecat/hose/pkg/hose/events"
)

// allKinds lists every event kind the Events channel forwards.
var allKinds = []events.Kind{
	events.KindData,
	events.KindObject,
	events.KindActivity,
	events.KindDelete,
	events.KindInfo,
	events.KindError,
	events.KindReady,
	events.KindEnded,
}

// Events returns a channel carrying every event the client dispatches,
// in dispatch order. Delivery stops when ctx is done; the channel is
// left open so an in-flight dispatch can never panic on a closed
// channel. Buffer sizing is the caller's tradeoff: the reader
// goroutine blocks when the buffer is full and nobody is receiving.
func (c *Client) Events(ctx context.Context, buffer int) <-chan Event {
	ch := make(chan Event, buffer)

	subs := make([]*Subscription, 0, len(allKinds))
	for _, kind := range allKinds {
		subs = append(subs, c.table.On(kind, func(ev Event) {
			select {
			case ch <- ev:
			case <-ctx.Done():
			}
		}))
	}

	go func() {
		<-ctx.Done()
		for _, sub := range subs {
			sub.Cancel()
		}
	}()

	return ch
}
