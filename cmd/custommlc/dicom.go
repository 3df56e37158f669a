package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"custommlc/pkg/batch"
	"custommlc/pkg/dicomplan"
)

func newDicomCmd(opts *options) *cobra.Command {
	var (
		sel   dicomplan.Selection
		table string
		run   bool
	)

	cmd := &cobra.Command{
		Use:   "dicom [plan.dcm]",
		Short: "Import MLC leaf positions from a DICOM RT Plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leaves, err := dicomplan.Load(args[0], sel)
			if err != nil {
				return err
			}
			if err := batch.SaveTable(table, leaves.Openings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Beam %d %q, control point %d: %d %s leaf pairs saved to: %s\n",
				leaves.BeamNumber, leaves.BeamName, leaves.ControlPoint, len(leaves.Openings), leaves.Device, table)

			if !run {
				return nil
			}
			return runBatch(cmd, opts, table)
		},
	}

	cmd.Flags().IntVar(&sel.Beam, "beam", 0, "Zero based beam index")
	cmd.Flags().IntVar(&sel.ControlPoint, "control-point", 0, "Zero based control point index")
	cmd.Flags().StringVarP(&table, "table", "t", "MLC_POS.txt", "Leaf position table to write")
	cmd.Flags().BoolVar(&run, "export", false, "Also write the simulation file from the table")
	return cmd
}
