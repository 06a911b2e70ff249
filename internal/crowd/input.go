package crowd

import "github.com/go-gl/mathgl/mgl32"

// InputState is the only input the frame loop reads. Handlers replace it as
// a whole value so a frame never sees half an update.
type InputState struct {
	NDC      mgl32.Vec2 // [-1, 1] on both axes, y up
	LastMove float64    // clock seconds of the last movement
	Moved    bool       // false until the first movement
}

// InputMapper turns client pointer/touch positions into normalized device
// coordinates relative to the render container.
type InputMapper struct {
	target Surface
	now    func() float64

	state InputState

	// Velocity tracking in NDC units per second.
	velocity mgl32.Vec2
	tracking bool
}

func NewInputMapper(target Surface, now func() float64) *InputMapper {
	return &InputMapper{target: target, now: now}
}

// Attach subscribes to src and returns a function that removes every
// listener it added.
func (m *InputMapper) Attach(src Surface) (detach func()) {
	removers := []func(){
		src.OnPointerMove(m.Move),
		src.OnTouchMove(m.Touch),
		src.OnPointerLeave(m.Leave),
	}
	return func() {
		for _, rm := range removers {
			rm()
		}
	}
}

// Move records a pointer at client coordinates (x, y).
func (m *InputMapper) Move(x, y float64) {
	r := m.target.Bounds()
	if r.Empty() {
		return
	}
	ndc := mgl32.Vec2{
		clampF(float32((x-r.X)/r.W*2-1), -1, 1),
		clampF(float32(-((y-r.Y)/r.H*2-1)), -1, 1),
	}
	now := m.now()

	if m.tracking {
		if dt := now - m.state.LastMove; dt > 0 {
			m.velocity = ndc.Sub(m.state.NDC).Mul(float32(1 / dt))
		}
	}
	m.tracking = true

	m.state = InputState{NDC: ndc, LastMove: now, Moved: true}
}

// Touch follows the first touch point only.
func (m *InputMapper) Touch(touches []Point) {
	if len(touches) == 0 {
		return
	}
	m.Move(touches[0].X, touches[0].Y)
}

// Leave resets velocity tracking. The last position and timestamp stay so the
// crowd keeps looking there until the idle timeout.
func (m *InputMapper) Leave() {
	m.velocity = mgl32.Vec2{}
	m.tracking = false
}

func (m *InputMapper) State() InputState { return m.state }

func (m *InputMapper) Velocity() mgl32.Vec2 { return m.velocity }
