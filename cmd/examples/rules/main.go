// Package main demonstrates rules management with the hose client:
// install a tagged rule, list what is active, then remove it again.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hosecat/hose/pkg/hose/rules"
)

func main() {
	client, err := rules.NewClient(&rules.Options{
		Endpoint: os.Getenv("HOSE_RULES_ENDPOINT"),
		Username: os.Getenv("HOSE_USERNAME"),
		Password: os.Getenv("HOSE_PASSWORD"),
	})
	if err != nil {
		log.Fatalf("rules client: %v", err)
	}

	ctx := context.Background()

	tag := "demo"
	rule := rules.Rule{Value: "lang:en cats", Tag: &tag}

	if err := client.Add(ctx, []rules.Rule{rule}); err != nil {
		log.Fatalf("add rule: %v", err)
	}
	fmt.Printf("installed: %s\n", rule.Value)

	installed, err := client.List(ctx)
	if err != nil {
		log.Fatalf("list rules: %v", err)
	}
	fmt.Printf("%d rules active:\n", len(installed))
	for _, r := range installed {
		fmt.Printf("  %s\n", r.Value)
	}

	if err := client.Remove(ctx, []rules.Rule{{Value: rule.Value}}); err != nil {
		log.Fatalf("remove rule: %v", err)
	}
	fmt.Println("removed again")
}
