// Package cli implements the crowdgaze command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"crowdgaze/internal/crowd"
)

const (
	appName = "crowdgaze"

	defaultWidth  = 1280
	defaultHeight = 720
	defaultFooter = 0.45
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Window describes the host window the crowd is mounted in.
type Window struct {
	Width, Height int
	Title         string
	Footer        float64
	Stage         crowd.Options
}

// CLI holds shared state for the root command. Launch and Chime are set by
// main so this package stays free of cgo platform bindings.
type CLI struct {
	Logger *log.Logger

	// Launch opens the host and blocks until it closes.
	Launch func(ctx context.Context, w Window) error
	// Chime attaches the audio cue when --audio is set. Optional.
	Chime func(bus *crowd.EventBus, logger *log.Logger) error

	getenv func(string) string
	clock  func() uint64
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		getenv: os.Getenv,
		clock:  clockSeed,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

type rootFlags struct {
	config string
	seed   string
	width  int
	height int
	footer float64
	audio  bool
}

// RootCommand builds the crowdgaze command. It opens a window whose footer
// holds the crowd.
func (c *CLI) RootCommand() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:          appName,
		Short:        "A crowd of construction workers that watches your cursor",
		Long:         `crowdgaze renders a small procedural crowd in the footer of a window. Every worker turns its head and eyes toward the pointer, and drifts back to idle glances when the pointer rests.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd.Context(), f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML file overriding crowd tunables")
	fl.StringVar(&f.seed, "seed", "", "random seed (default $CROWDGAZE_SEED, then the clock)")
	fl.IntVar(&f.width, "width", defaultWidth, "window width")
	fl.IntVar(&f.height, "height", defaultHeight, "window height")
	fl.Float64Var(&f.footer, "footer", defaultFooter, "fraction of the window height the crowd renders into")
	fl.BoolVar(&f.audio, "audio", false, "play a chime when the crowd starts watching")
	return cmd
}

func (c *CLI) run(ctx context.Context, f rootFlags) error {
	if f.width <= 0 || f.height <= 0 {
		return fmt.Errorf("window size %dx%d: %w", f.width, f.height, crowd.ErrInvalidConfig)
	}
	if f.footer <= 0 || f.footer > 1 {
		return fmt.Errorf("footer %.2f must be in (0, 1]: %w", f.footer, crowd.ErrInvalidConfig)
	}

	cfg, err := loadConfig(f.config)
	if err != nil {
		return err
	}
	seed, err := c.resolveSeed(f.seed)
	if err != nil {
		return err
	}

	if c.Launch == nil {
		return errors.New("no host configured")
	}

	bus := crowd.NewEventBus()
	if f.audio && c.Chime != nil {
		if err := c.Chime(bus, c.Logger); err != nil {
			c.Logger.Warn("audio init failed, continuing without sound", "err", err)
		}
	}
	bus.Subscribe(crowd.EventModeChanged, func(e crowd.Event) {
		c.Logger.Info("crowd " + e.Mode.String())
	})

	c.Logger.Debug("starting", "seed", seed, "config", f.config, "footer", f.footer)
	return c.Launch(ctx, Window{
		Width:  f.width,
		Height: f.height,
		Title:  appName,
		Footer: f.footer,
		Stage: crowd.Options{
			Config: &cfg,
			Seed:   seed,
			Logger: c.Logger,
			Events: bus,
		},
	})
}
