package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"custommlc/pkg/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the device configuration file",
	}

	var batchDefaults bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Long: "Write the default device configuration. A file passed with --config " +
			"replaces the defaults of every path, including numberOfLeafPairs: the " +
			"interactive defaults hold 64 pairs, the table path otherwise uses 80. " +
			"Use --batch to write the table path defaults.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "custommlc.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			cfg := config.DefaultInteractive()
			if batchDefaults {
				cfg = config.DefaultBatch()
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration with %d leaf pairs saved to: %s\n", cfg.Device.NumberOfLeafPairs, path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&batchDefaults, "batch", false, "Write the table path defaults (80 leaf pairs)")

	cmd.AddCommand(initCmd)
	return cmd
}
