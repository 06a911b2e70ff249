// Package desktop hosts a crowd stage in a GLFW window.
package desktop

import (
	"context"
	"errors"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.1-core/gl"

	"crowdgaze/internal/crowd"
)

type Options struct {
	Width, Height int
	Title         string
	// Footer is the fraction of the window height the crowd renders into.
	// The whole window stays the interaction surface.
	Footer float64

	Stage crowd.Options
}

// Run opens the window, mounts the crowd into its footer and drives frames
// until the window closes or ctx is done. It must be called from main.
func Run(ctx context.Context, opts Options) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	logger := opts.Stage.Logger
	if logger == nil {
		logger = log.Default()
	}

	win, err := openWindow(opts.Width, opts.Height, opts.Title)
	if err != nil {
		return err
	}
	defer win.close()

	if err := gl.Init(); err != nil {
		// Without GL entry points not even a clear is possible; keep the
		// bare window alive until it is closed.
		logger.Warn("render context unavailable, leaving window empty", "err", err)
		return win.idle(ctx)
	}
	logger.Debug("gl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	region := newRegion(win, opts.Footer)
	defer region.close()

	stage, err := crowd.Mount(region, win, opts.Stage)
	if errors.Is(err, crowd.ErrContextUnavailable) {
		// Leave the footer empty and keep the window responsive.
		for region.WaitFrame() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		return nil
	}
	if err != nil {
		return err
	}
	defer stage.Unmount()

	return stage.Run(ctx)
}
