package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/samzong/gitmsg/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage gitmsg configuration",
		Long:  `Manage gitmsg configuration, including message conventions, push behavior and the LLM backend.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			return nil
		},
	}

	configSetCmd = &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.Keys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(_ *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := config.SetConfigValue(key, value); err != nil {
				return err
			}
			if err := config.SaveConfig(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Fprintf(outWriter(), "%s set to %s\n", key, displayValue(key, viper.Get(key)))
			if key == "model" {
				fmt.Fprintln(outWriter(), "Tip: you can use any model name, suggested models are:")
				for _, m := range config.GetSuggestedModels() {
					fmt.Fprintf(outWriter(), "- %s\n", m)
				}
			}
			return nil
		},
	}

	configGetCmd = &cobra.Command{
		Use:   "get [key...]",
		Short: "Show configuration values",
		RunE: func(_ *cobra.Command, args []string) error {
			keys := args
			if len(keys) == 0 {
				keys = config.Keys()
			}
			return printConfig(outWriter(), keys)
		},
	}

	configDescribeCmd = &cobra.Command{
		Use:   "describe [key...]",
		Short: "Describe configuration keys",
		RunE: func(_ *cobra.Command, args []string) error {
			keys := args
			if len(keys) == 0 {
				keys = config.Keys()
			}
			for _, key := range keys {
				desc, ok := config.Describe(key)
				if !ok {
					return fmt.Errorf("unknown configuration key: %s", key)
				}
				fmt.Fprintf(outWriter(), "%s\n  %s\n", key, desc)
			}
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configDescribeCmd)
}

func printConfig(w io.Writer, keys []string) error {
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if _, ok := config.Describe(key); !ok {
			return fmt.Errorf("unknown configuration key: %s", key)
		}
		fmt.Fprintf(w, "%s: %s\n", key, displayValue(key, viper.Get(key)))
	}
	return nil
}

func displayValue(key string, value any) string {
	s := fmt.Sprint(value)
	switch {
	case key == "api_key" && s != "":
		return "********"
	case s == "":
		return "<not set>"
	}
	return s
}
