package crowd

// Rect is a client-space rectangle in window coordinates (y grows down).
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Point is a client-space position.
type Point struct {
	X, Y float64
}

type (
	PointerFunc func(x, y float64)
	TouchFunc   func(touches []Point)
)

// Surface is a region that delivers pointer input. Every On* call returns a
// function that removes the listener.
type Surface interface {
	Bounds() Rect
	OnPointerMove(fn PointerFunc) (remove func())
	OnTouchMove(fn TouchFunc) (remove func())
	OnPointerLeave(fn func()) (remove func())
}

// Container is the region the crowd renders into. It is also the default
// interaction surface.
type Container interface {
	Surface

	// Size reports the backing store in pixels.
	Size() (w, h int)
	OnResize(fn func(w, h int)) (remove func())

	// AttachDevice creates a render context bound to the container.
	AttachDevice() (Device, error)
	// DetachDevice takes the render surface off the container. The device
	// itself is destroyed separately.
	DetachDevice(dev Device)

	// Now reports seconds on a monotonic clock.
	Now() float64
	// WaitFrame presents the last frame, blocks until the next display
	// refresh and dispatches pending input. It returns false once the host is
	// closing.
	WaitFrame() bool
}
