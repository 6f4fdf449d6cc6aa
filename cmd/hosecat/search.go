package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/hosecat/hose/pkg/hose/search"
)

func newSearchCommand(flags *rootFlags) *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one rate-limited query against the search endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			if cfg.SearchEndpoint == "" {
				return fmt.Errorf("config %s: search_endpoint is required", flags.configPath)
			}

			opts := &search.Options{
				Endpoint: cfg.SearchEndpoint,
				Username: cfg.Username,
				Password: cfg.Password,
				Logger:   newLogger(flags.verbose),
			}
			if cfg.UserAgent != "" {
				opts.UserAgent = &cfg.UserAgent
			}

			client, err := search.NewClient(opts)
			if err != nil {
				return err
			}

			query := url.Values{}
			query.Set("query", args[0])
			if maxResults > 0 {
				query.Set("maxResults", fmt.Sprint(maxResults))
			}

			result, err := client.Search(cmd.Context(), query)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(result)
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 0, "cap the number of results returned")

	return cmd
}
