package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hosecat/hose/pkg/hose/usage"
)

func newUsageCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Fetch the account's usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			if cfg.UsageEndpoint == "" {
				return fmt.Errorf("config %s: usage_endpoint is required", flags.configPath)
			}

			opts := &usage.Options{
				Endpoint: cfg.UsageEndpoint,
				Username: cfg.Username,
				Password: cfg.Password,
			}
			if cfg.UserAgent != "" {
				opts.UserAgent = &cfg.UserAgent
			}

			client, err := usage.NewClient(opts)
			if err != nil {
				return err
			}

			result, err := client.Get(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(result)
		},
	}
}
