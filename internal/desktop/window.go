package desktop

import (
	"context"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"crowdgaze/internal/crowd"
)

// Window is the whole GLFW window viewed as an input surface. Coordinates are
// window (screen) units with y growing down.
type Window struct {
	win *glfw.Window

	moves  listeners[crowd.PointerFunc]
	leaves listeners[func()]
	sizes  listeners[func(w, h int)]
}

func openWindow(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &Window{win: win}
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		for _, l := range w.moves.snapshot() {
			l.fn(x, y)
		}
	})
	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			return
		}
		for _, l := range w.leaves.snapshot() {
			l.fn()
		}
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, fbW, fbH int) {
		for _, l := range w.sizes.snapshot() {
			l.fn(fbW, fbH)
		}
	})
	win.SetKeyCallback(func(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
		}
	})
	return w, nil
}

func (w *Window) close() {
	w.win.Destroy()
	glfw.Terminate()
}

// idle services window events without touching GL until the window closes
// or ctx is done.
func (w *Window) idle(ctx context.Context) error {
	for !w.win.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		glfw.WaitEventsTimeout(0.1)
	}
	return nil
}

func (w *Window) Bounds() crowd.Rect {
	ww, wh := w.win.GetSize()
	return crowd.Rect{W: float64(ww), H: float64(wh)}
}

func (w *Window) OnPointerMove(fn crowd.PointerFunc) func() { return w.moves.add(fn) }

// OnTouchMove never fires: GLFW has no touch events.
func (w *Window) OnTouchMove(crowd.TouchFunc) func() { return func() {} }

func (w *Window) OnPointerLeave(fn func()) func() { return w.leaves.add(fn) }

var _ crowd.Surface = (*Window)(nil)
