package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"custommlc/pkg/config"
	"custommlc/pkg/stl"
)

func newLeafCmd(opts *options) *cobra.Command {
	var (
		path                  string
		length, width, height float32
	)

	cmd := &cobra.Command{
		Use:   "leaf",
		Short: "Write a box shaped leaf as binary STL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, config.DefaultConfig())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("width") {
				width = float32(cfg.Device.LeafWidth)
			}
			if path == "" {
				path = cfg.Device.LeafSTLPath
			}
			if path == "" {
				path = "leaf.stl"
			}

			if err := stl.SaveToSTL(path, stl.LeafMesh(length, width, height)); err != nil {
				return fmt.Errorf("write leaf: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Leaf %gx%gx%g mm saved to: %s\n", length, width, height, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "STL file to write (default leafSTLPath or leaf.stl)")
	cmd.Flags().Float32Var(&length, "length", 150, "Leaf length along the travel direction in mm")
	cmd.Flags().Float32Var(&width, "width", 2, "Leaf width in mm (default leafWidth)")
	cmd.Flags().Float32Var(&height, "height", 60, "Leaf height along the beam in mm")
	return cmd
}
