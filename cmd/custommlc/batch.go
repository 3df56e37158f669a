package main

import (
	"github.com/spf13/cobra"
)

func newBatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "batch [table]",
		Short: "Write the simulation file from a table of leaf pair positions",
		Long: "Each row of the table holds two numbers, the left and right edge of " +
			"one leaf pair in cm. The table defaults to MLC_POS.txt.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "MLC_POS.txt"
			if len(args) == 1 {
				input = args[0]
			}
			return runBatch(cmd, opts, input)
		},
	}
}
