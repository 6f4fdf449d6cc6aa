// Package main demonstrates basic usage of the hose streaming client.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hosecat/hose/pkg/hose"
	"github.com/hosecat/hose/pkg/hose/events"
	"github.com/hosecat/hose/pkg/hose/options"
)

func main() {
	// Configure the client from the environment.
	client := hose.NewClient(&options.StreamOptions{
		Endpoint: os.Getenv("HOSE_ENDPOINT"),
		Username: os.Getenv("HOSE_USERNAME"),
		Password: os.Getenv("HOSE_PASSWORD"),
	})

	done := make(chan struct{})

	// Print each activity's text as it arrives.
	client.On(hose.KindActivity, func(ev hose.Event) {
		if activity, ok := ev.(events.Activity); ok {
			fmt.Println(activity.Text)
		}
	})

	// Log upstream and transport faults without stopping.
	client.On(hose.KindError, func(ev hose.Event) {
		if streamErr, ok := ev.(events.StreamError); ok {
			log.Printf("stream error: %v", streamErr.Err)
		}
	})

	client.On(hose.KindEnded, func(hose.Event) {
		close(done)
	})

	// Start validates options first; only configuration problems are
	// returned here. Everything else arrives on the error event.
	if err := client.Start(context.Background()); err != nil {
		log.Fatalf("start: %v", err)
	}

	<-done
}
