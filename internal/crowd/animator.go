package crowd

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Animator applies breathing, head tracking, pupil offset and blinking.
type Animator struct {
	maxYaw, maxPitch   float32
	breatheSpeed       float32
	breatheAmp         float32
	blinkMin, blinkMax float32
}

func NewAnimator(cfg Config) *Animator {
	return &Animator{
		maxYaw:       cfg.MaxYaw,
		maxPitch:     cfg.MaxPitch,
		breatheSpeed: cfg.BreatheSpeed,
		breatheAmp:   cfg.BreatheAmplitude,
		blinkMin:     cfg.BlinkMinMillis,
		blinkMax:     cfg.BlinkMaxMillis,
	}
}

// HeadAngles turns a head-local direction into clamped yaw and pitch. Pitch is
// negated so a target above the head gives a look-up rotation about +X.
func HeadAngles(dir mgl32.Vec3, maxYaw, maxPitch float32) (yaw, pitch float32) {
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, 0, directionEpsilon}
	}
	yaw = clampF(atan2F(dir.X(), dir.Z()), -maxYaw, maxYaw)
	pitch = clampF(-atan2F(dir.Y(), hypotF(dir.X(), dir.Z())), -maxPitch, maxPitch)
	return yaw, pitch
}

// BreatheOffset is the vertical bob at elapsed time t. The phase is summed in
// float64 so long sessions keep their precision.
func BreatheOffset(t float64, speed, phase, amp float32) float32 {
	return float32(math.Sin(t*float64(speed)+float64(phase)) * float64(amp))
}

// SlerpShortest interpolates along the shorter of the two arcs between a and b.
func SlerpShortest(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t)
}

// Animate runs one frame for every character, in order.
func (a *Animator) Animate(s *Scene, chars []*Character, st *AnimationState) {
	for _, c := range chars {
		a.AnimateCharacter(s, c, st)
	}
}

// AnimateCharacter runs one frame for c.
func (a *Animator) AnimateCharacter(s *Scene, c *Character, st *AnimationState) {
	root := s.Node(c.Root)
	root.Position[1] = c.BaseY + BreatheOffset(st.Time, a.breatheSpeed, c.Phase, a.breatheAmp)

	local := s.WorldToLocal(c.Root, st.Target)
	pivot := s.Node(c.HeadPivot)
	yaw, pitch := HeadAngles(local.Sub(pivot.Position), a.maxYaw, a.maxPitch)

	goal := QuatEuler(pitch, yaw, 0)
	pivot.Rotation = SlerpShortest(pivot.Rotation, goal, c.TrackSpeed)

	px := clampF(yaw/a.maxYaw, -1, 1) * PupilRangeX
	py := clampF(-pitch/a.maxPitch, -1, 1) * PupilRangeY
	for _, p := range c.Pupils {
		s.Node(p).Position = mgl32.Vec3{px, py, PupilDepth}
	}

	c.BlinkTimer -= float32(st.Delta * 1000)
	if c.BlinkTimer < 0 {
		a.setEyeScale(s, c, BlinkClosedScale)
		if c.BlinkTimer < -BlinkClosedMillis {
			a.setEyeScale(s, c, 1)
			c.BlinkTimer = st.Rand.RangeF(a.blinkMin, a.blinkMax)
		}
	}
}

func (a *Animator) setEyeScale(s *Scene, c *Character, y float32) {
	for _, e := range c.Eyes {
		s.Node(e).Scale[1] = y
	}
}

// Blinking reports whether c's eyes are currently shut.
func (c *Character) Blinking(s *Scene) bool {
	return s.Node(c.Eyes[0]).Scale[1] < 1
}
