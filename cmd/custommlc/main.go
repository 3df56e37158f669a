package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"custommlc/internal/models"
	"custommlc/pkg/batch"
	"custommlc/pkg/config"
	"custommlc/pkg/logging"
	"custommlc/pkg/session"
	"custommlc/pkg/tui"
	"custommlc/pkg/visualization"
)

// options are the flags shared by every command
type options struct {
	configPath  string
	verbose     bool
	output      string
	preset      string
	headless    bool
	previewPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "custommlc [table]",
		Short: "Configure MLC leaf positions and write TOPAS geometry files",
		Long: "Without arguments an interactive editor opens and Enter writes the " +
			"simulation file. With a table of leaf pair positions the file is " +
			"written directly; a missing table does nothing.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runBatch(cmd, opts, args[0])
			}
			return runInteractive(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML device configuration")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug messages")
	flags.StringVarP(&opts.output, "output", "o", "", "Simulation file to write (default from configuration)")
	flags.StringVar(&opts.previewPath, "preview", "", "Also write a PNG preview of the field")
	rootCmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "Initial field preset (diag, sine, wave, zigzag)")
	rootCmd.Flags().BoolVar(&opts.headless, "no-tui", false, "Write the file without opening the editor")

	rootCmd.AddCommand(
		newBatchCmd(opts),
		newDicomCmd(opts),
		newLeafCmd(opts),
		newConfigCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration on top of base, rejects invalid
// geometry and applies the log level
func loadConfig(opts *options, base *config.Config) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath, base)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logging.SetVerbose(opts.verbose || cfg.Output.Verbose)
	return cfg, nil
}

func outputPath(opts *options, fallback string) string {
	if opts.output != "" {
		return opts.output
	}
	return fallback
}

func runInteractive(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts, config.DefaultInteractive())
	if err != nil {
		return err
	}
	path := outputPath(opts, cfg.Output.InteractiveFile)

	var s *session.Session
	if opts.headless {
		s = session.NewDefault(cfg)
		if err := applyPreset(s, opts.preset); err != nil {
			return err
		}
	} else {
		editor := tui.NewEditor(cfg)
		if err := applyPreset(editor.Session(), opts.preset); err != nil {
			return err
		}
		outcome, err := runEditor(editor)
		if err != nil {
			return err
		}
		if outcome != tui.Export {
			return nil
		}
		s = editor.Session()
	}

	if _, err := s.Export(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MLC file saved to: %s\n", path)
	return writePreview(cmd, opts, s.Openings(), cfg)
}

func runEditor(editor *tui.Editor) (tui.Outcome, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return tui.Cancelled, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return tui.Cancelled, fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Fini()
	return editor.Run(screen), nil
}

func applyPreset(s *session.Session, name string) error {
	if name == "" {
		return nil
	}
	if !s.ApplyPreset(name) {
		return fmt.Errorf("unknown preset %q", name)
	}
	return nil
}

func runBatch(cmd *cobra.Command, opts *options, input string) error {
	cfg, err := loadConfig(opts, config.DefaultBatch())
	if err != nil {
		return err
	}
	path := outputPath(opts, cfg.Output.BatchFile)

	written, err := batch.Run(input, path, cfg)
	if err != nil || !written {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MLC file saved to: %s\n", path)

	if opts.previewPath == "" {
		return nil
	}
	openings, err := batch.LoadTable(input)
	if err != nil {
		return err
	}
	return writePreview(cmd, opts, openings, cfg)
}

func writePreview(cmd *cobra.Command, opts *options, openings []models.LeafPairOpening, cfg *config.Config) error {
	if opts.previewPath == "" {
		return nil
	}
	viewer := visualization.NewViewer(openings, cfg.Device.MaxHalfField)
	if err := viewer.Save(opts.previewPath); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Preview saved to: %s\n", opts.previewPath)
	return nil
}
