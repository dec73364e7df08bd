package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"snippets/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// runFunc starts the program once flags and config are resolved.
type runFunc func(ctx context.Context, cfg config.Config, logger *log.Logger) error

type flags struct {
	config  string
	seed    uint64
	sprites int
	mute    bool
	verbose bool
}

func newRootCmd(run runFunc, stderr io.Writer) *cobra.Command {
	var (
		f   flags
		cfg config.Config
	)

	root := &cobra.Command{
		Use:           "snippets",
		Short:         "Falling code snippets in a 3D scene",
		Long:          `snippets opens a window of Go code snippets drifting down through a perspective scene. Click a snippet to hold it in place for a few seconds.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(f.config)
			if err != nil {
				return err
			}
			applyFlags(cmd, &c, f)
			if err := c.Validate(); err != nil {
				return err
			}
			level, err := config.ParseLogLevel(c.LogLevel)
			if err != nil {
				return err
			}
			cfg = c
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return run(ctx, cfg, loggerFromContext(ctx))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("snippets %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.SetErr(stderr)

	fl := root.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML config file (default ./"+config.DefaultFile+" if present)")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed (0 picks one from the clock)")
	fl.IntVar(&f.sprites, "sprites", 0, "number of falling snippets")
	fl.BoolVar(&f.mute, "mute", false, "disable sound")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")

	return root
}

// applyFlags overlays the flags the user actually set.
func applyFlags(cmd *cobra.Command, c *config.Config, f flags) {
	if cmd.Flags().Changed("seed") {
		c.Seed = f.seed
	}
	if cmd.Flags().Changed("sprites") {
		c.Field.Sprites = f.sprites
	}
	if f.mute {
		c.Audio.Enabled = false
	}
	if f.verbose {
		c.LogLevel = "debug"
	}
}
