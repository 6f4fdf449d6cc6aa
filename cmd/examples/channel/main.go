// Package main demonstrates channel-based event consumption with the
// hose streaming client.
//
// Instead of registering per-kind callbacks, the Events channel carries
// every dispatched event in order, which fits select loops and
// fan-out pipelines.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/hosecat/hose/pkg/hose"
	"github.com/hosecat/hose/pkg/hose/events"
	"github.com/hosecat/hose/pkg/hose/options"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := hose.NewClient(&options.StreamOptions{
		Endpoint: os.Getenv("HOSE_ENDPOINT"),
		Username: os.Getenv("HOSE_USERNAME"),
		Password: os.Getenv("HOSE_PASSWORD"),
	})

	// A buffered channel smooths over short consumer stalls; the reader
	// goroutine blocks once the buffer fills.
	ch := client.Events(ctx, 256)

	if err := client.Start(ctx); err != nil {
		log.Fatalf("start: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			client.End()

			return
		case ev := <-ch:
			switch e := ev.(type) {
			case events.Ready:
				log.Printf("connected: %s", e.ConnectionID)
			case events.Activity:
				fmt.Println(e.Text)
			case events.Delete:
				log.Printf("delete: %s", string(e.Raw))
			case events.StreamError:
				log.Printf("error: %v", e.Err)
			case events.Ended:
				log.Print("stream ended")

				return
			}
		}
	}
}
