package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"entrybot/internal/config"
	"entrybot/internal/source"
	"entrybot/internal/tactile"
)

const defaultConfigFile = "entrybot.yaml"

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the batch and print it without touching the desktop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := source.NewFetcher(cfg).FetchStrict(cmd.Context(), cfg.Source.Limit)
			if err != nil {
				return err
			}
			renderRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Force-close every running editor instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := tactile.NewController(cfg, nil).TerminateAll(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d kill commands succeeded\n", result.Killed(), len(result.Attempts))
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration (" + defaultConfigFile + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			return writeDefaultConfig(cmd, path)
		},
	})
	return configCmd
}

// writeDefaultConfig refuses to replace an existing file.
func writeDefaultConfig(cmd *cobra.Command, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check %s: %w", path, err)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
