package crowd

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// TargetMode is the resolver state.
type TargetMode int

const (
	ModeIdle     TargetMode = iota // no recent input, target drifts on its own
	ModeTracking                   // following the pointer
)

func (m TargetMode) String() string {
	if m == ModeTracking {
		return "tracking"
	}
	return "idle"
}

// Idle drift path.
const (
	driftFreqX = 0.35
	driftAmpX  = 0.9
	driftFreqY = 0.25
	driftAmpY  = 0.25
	driftBaseY = -0.9
)

// AnimationState is the per-frame mutable state shared by the resolver and
// the animator. It is only touched from the frame loop.
type AnimationState struct {
	Target mgl32.Vec3
	Mode   TargetMode
	Time   float64 // seconds since mount
	Delta  float64 // seconds since the previous frame
	Rand   *Rand
}

// NewAnimationState starts idle, looking at the neutral spot in front of the
// crowd.
func NewAnimationState(cfg Config, rng *Rand) AnimationState {
	return AnimationState{
		Target: mgl32.Vec3{0, driftBaseY, cfg.TargetDepth},
		Mode:   ModeIdle,
		Rand:   rng,
	}
}

// DriftPoint is the idle wander position at elapsed time t. It depends on
// nothing else.
func DriftPoint(t float64, depth float32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Sin(t*driftFreqX) * driftAmpX),
		float32(driftBaseY + math.Cos(t*driftFreqY)*driftAmpY),
		depth,
	}
}

// LerpVec3 blends each axis independently.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{lerpF(a[0], b[0], t), lerpF(a[1], b[1], t), lerpF(a[2], b[2], t)}
}

// TargetResolver moves the shared attention target once per frame.
type TargetResolver struct {
	depth       float32
	trackBlend  float32
	idleBlend   float32
	idleTimeout float64
}

func NewTargetResolver(cfg Config) *TargetResolver {
	return &TargetResolver{
		depth:       cfg.TargetDepth,
		trackBlend:  cfg.TargetBlendRate,
		idleBlend:   cfg.IdleBlendRate,
		idleTimeout: cfg.IdleTimeoutSeconds,
	}
}

// ModeAt reports the state for input at clock time now.
func (r *TargetResolver) ModeAt(in InputState, now float64) TargetMode {
	if in.Moved && now-in.LastMove <= r.idleTimeout {
		return ModeTracking
	}
	return ModeIdle
}

// Resolve updates st.Mode and blends st.Target toward this frame's raw point.
// A tracking ray that misses the plane leaves the target where it is.
func (r *TargetResolver) Resolve(st *AnimationState, in InputState, cam *Camera, now float64) {
	st.Mode = r.ModeAt(in, now)
	switch st.Mode {
	case ModeTracking:
		origin, dir := cam.Ray(in.NDC)
		if hit, ok := IntersectPlaneZ(origin, dir, r.depth); ok {
			st.Target = LerpVec3(st.Target, hit, r.trackBlend)
		}
	default:
		st.Target = LerpVec3(st.Target, DriftPoint(st.Time, r.depth), r.idleBlend)
	}
}
