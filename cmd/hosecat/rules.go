package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hosecat/hose/pkg/hose/rules"
)

func newRulesCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage the filtering rules installed on the stream",
	}

	cmd.AddCommand(
		newRulesListCommand(flags),
		newRulesAddCommand(flags),
		newRulesRemoveCommand(flags),
	)

	return cmd
}

func newRulesClient(flags *rootFlags) (*rules.Client, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.RulesEndpoint == "" {
		return nil, fmt.Errorf("config %s: rules_endpoint is required", flags.configPath)
	}

	opts := &rules.Options{
		Endpoint: cfg.RulesEndpoint,
		Username: cfg.Username,
		Password: cfg.Password,
		Logger:   newLogger(flags.verbose),
	}
	if cfg.UserAgent != "" {
		opts.UserAgent = &cfg.UserAgent
	}

	return rules.NewClient(opts)
}

func newRulesListCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the installed rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newRulesClient(flags)
			if err != nil {
				return err
			}

			installed, err := client.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, rule := range installed {
				if rule.Tag != nil {
					fmt.Printf("%s\t%s\n", rule.Value, *rule.Tag)

					continue
				}
				fmt.Println(rule.Value)
			}

			return nil
		},
	}
}

func newRulesAddCommand(flags *rootFlags) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "add <value>...",
		Short: "Install one or more rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newRulesClient(flags)
			if err != nil {
				return err
			}

			add := make([]rules.Rule, 0, len(args))
			for _, value := range args {
				rule := rules.Rule{Value: value}
				if tag != "" {
					rule.Tag = &tag
				}
				add = append(add, rule)
			}

			return client.Add(cmd.Context(), add)
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "tag applied to every added rule")

	return cmd
}

func newRulesRemoveCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <value>...",
		Aliases: []string{"delete"},
		Short:   "Remove rules by value",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newRulesClient(flags)
			if err != nil {
				return err
			}

			remove := make([]rules.Rule, 0, len(args))
			for _, value := range args {
				remove = append(remove, rules.Rule{Value: value})
			}

			return client.Remove(cmd.Context(), remove)
		},
	}
}
