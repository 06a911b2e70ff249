package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"crowdgaze/internal/cli"
	"crowdgaze/internal/crowd"
	"crowdgaze/internal/cue"
	"crowdgaze/internal/desktop"
)

const chimeVolume = 0.35

// GLFW must run on the main thread.
func init() { runtime.LockOSThread() }

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	c.Launch = func(ctx context.Context, w cli.Window) error {
		return desktop.Run(ctx, desktop.Options{
			Width:  w.Width,
			Height: w.Height,
			Title:  w.Title,
			Footer: w.Footer,
			Stage:  w.Stage,
		})
	}
	c.Chime = func(bus *crowd.EventBus, logger *log.Logger) error {
		p, err := cue.New(chimeVolume, logger)
		if err != nil {
			return err
		}
		p.Attach(bus)
		return nil
	}
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
