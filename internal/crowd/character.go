package crowd

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Wear records which accessories a character carries. Hat and Cone share the
// head-top slot; Glasses never appear with a Cone.
type Wear struct {
	Hat     bool
	Cone    bool
	Glasses bool
	Vest    bool
}

// Character is one animated figure. Node ids point into the owning Scene.
type Character struct {
	Index     int
	Root      NodeID
	HeadPivot NodeID
	Eyes      [2]NodeID
	Pupils    [2]NodeID

	BaseY      float32
	Phase      float32 // [0, 2π)
	BlinkTimer float32 // milliseconds until the next blink
	TrackSpeed float32 // slerp factor per frame, < 1

	Wear Wear
}

// CharacterSpec places one character and decides its accessories.
type CharacterSpec struct {
	Index     int
	Position  mgl32.Vec3
	ForceCone bool

	HatSkipChance   float32
	GlassesChance   float32
	VestChance      float32
	HeadBlendRate   float32
	HeadBlendJitter float32
}

// NewCharacter builds a figure under parent. Random rolls happen in a fixed
// order so a seeded Rand reproduces the same character.
func NewCharacter(s *Scene, lib *Library, parent NodeID, spec CharacterSpec, rng *Rand) (*Character, error) {
	c := &Character{Index: spec.Index, BaseY: spec.Position.Y()}
	c.Root = s.Group(parent, spec.Position)

	if rng.Float32() < spec.VestChance {
		if _, err := lib.NewVest(s, c.Root); err != nil {
			return nil, err
		}
		c.Wear.Vest = true
	} else {
		s.Add(c.Root, Node{Mesh: lib.Body, Material: lib.BodyMat})
	}

	c.HeadPivot = s.Group(c.Root, mgl32.Vec3{0, HeadPivotY, 0})
	s.Add(c.HeadPivot, Node{Mesh: lib.Head, Material: lib.HeadMat})

	for i, side := range [2]float32{-1, 1} {
		c.Eyes[i] = s.Add(c.HeadPivot, Node{
			Position: mgl32.Vec3{side * EyeOffsetX, EyeOffsetY, EyeOffsetZ},
			Mesh:     lib.Eye,
			Material: lib.EyeMat,
		})
		c.Pupils[i] = s.Add(c.Eyes[i], Node{
			Position: mgl32.Vec3{0, 0, PupilDepth},
			Mesh:     lib.Pupil,
			Material: lib.PupilMat,
		})
	}

	c.Wear.Cone = spec.ForceCone
	// No roll at zero chance, so default layouts keep their random stream.
	c.Wear.Hat = !c.Wear.Cone && !(spec.HatSkipChance > 0 && rng.Float32() < spec.HatSkipChance)
	c.Wear.Glasses = !c.Wear.Cone && rng.Float32() < spec.GlassesChance

	if c.Wear.Hat {
		if _, err := lib.NewHardHat(s, c.HeadPivot, rng); err != nil {
			return nil, err
		}
	}
	if c.Wear.Cone {
		if _, err := lib.NewCone(s, c.HeadPivot); err != nil {
			return nil, err
		}
	}
	if c.Wear.Glasses {
		lib.NewSafetyGlasses(s, c.HeadPivot)
	}

	c.Phase = rng.Float32() * 2 * math.Pi
	c.BlinkTimer = rng.RangeF(FirstBlinkMin, FirstBlinkMax)
	c.TrackSpeed = spec.HeadBlendRate + rng.Float32()*spec.HeadBlendJitter
	return c, nil
}
