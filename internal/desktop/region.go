package desktop

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"crowdgaze/internal/crowd"
	"crowdgaze/internal/render"
)

// pageColor fills the window outside the footer.
var pageColor = crowd.Hex(0xf1f5f9)

// Region is a footer strip along the bottom of the window: the container the
// crowd renders into. Pointer events are delivered only while the cursor is
// inside the strip.
type Region struct {
	w        *Window
	fraction float64

	rend   *render.Renderer
	inside bool

	moves  listeners[crowd.PointerFunc]
	leaves listeners[func()]

	removeMove, removeLeave func()
}

func newRegion(w *Window, fraction float64) *Region {
	if fraction <= 0 || fraction > 1 {
		fraction = 1
	}
	r := &Region{w: w, fraction: fraction}
	r.removeMove = w.OnPointerMove(r.pointerMoved)
	r.removeLeave = w.OnPointerLeave(r.pointerLeft)
	return r
}

func (r *Region) close() {
	r.removeMove()
	r.removeLeave()
}

func (r *Region) pointerMoved(x, y float64) {
	b := r.Bounds()
	in := !b.Empty() && x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
	if !in {
		if r.inside {
			r.inside = false
			r.pointerLeft()
		}
		return
	}
	r.inside = true
	for _, l := range r.moves.snapshot() {
		l.fn(x, y)
	}
}

func (r *Region) pointerLeft() {
	r.inside = false
	for _, l := range r.leaves.snapshot() {
		l.fn()
	}
}

func (r *Region) Bounds() crowd.Rect {
	wb := r.w.Bounds()
	h := wb.H * r.fraction
	return crowd.Rect{X: 0, Y: wb.H - h, W: wb.W, H: h}
}

func (r *Region) OnPointerMove(fn crowd.PointerFunc) func() { return r.moves.add(fn) }
func (r *Region) OnTouchMove(crowd.TouchFunc) func() { return func() {} }
func (r *Region) OnPointerLeave(fn func()) func() { return r.leaves.add(fn) }

// Size is the strip in framebuffer pixels.
func (r *Region) Size() (int, int) {
	fw, fh := r.w.win.GetFramebufferSize()
	return fw, int(float64(fh) * r.fraction)
}

func (r *Region) OnResize(fn func(w, h int)) func() {
	return r.w.sizes.add(func(int, int) { fn(r.Size()) })
}

func (r *Region) AttachDevice() (crowd.Device, error) {
	rend, err := render.New()
	if err != nil {
		return nil, err
	}
	// The strip hugs the bottom edge, which is the GL origin.
	rend.SetOrigin(0, 0)
	r.rend = rend
	return rend, nil
}

// DetachDevice blanks the strip back to the page colour.
func (r *Region) DetachDevice(crowd.Device) {
	r.rend = nil
	w, h := r.Size()
	clearRect(0, 0, w, h, pageColor)
}

func (r *Region) Now() float64 { return glfw.GetTime() }

func (r *Region) WaitFrame() bool {
	fw, fh := r.w.win.GetFramebufferSize()
	_, rh := r.Size()
	if r.rend == nil {
		rh = 0
	}
	if fh > rh {
		clearRect(0, rh, fw, fh-rh, pageColor)
	}
	r.w.win.SwapBuffers()
	glfw.PollEvents()
	return !r.w.win.ShouldClose()
}

func clearRect(x, y, w, h int, c crowd.RGB) {
	if w <= 0 || h <= 0 {
		return
	}
	cr, cg, cb := c.Floats()
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(x), int32(y), int32(w), int32(h))
	gl.ClearColor(cr, cg, cb, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Disable(gl.SCISSOR_TEST)
}

var _ crowd.Container = (*Region)(nil)
