package crowd

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Crowd is the built set of characters, in creation order.
type Crowd struct {
	Root       NodeID
	Characters []*Character
}

// BuildCrowd lays rows out front to back, centring each row on x = 0. The
// character whose global index is ConeIndex wears the cone; layouts with
// fewer characters simply have no cone.
func BuildCrowd(s *Scene, lib *Library, cfg Config, rng *Rand) (*Crowd, error) {
	total := 0
	for _, r := range cfg.Rows {
		total += r.Count
	}
	cr := &Crowd{
		Root:       s.Group(s.Root(), mgl32.Vec3{}),
		Characters: make([]*Character, 0, total),
	}

	index := 0
	for _, row := range cfg.Rows {
		startX := -float32(row.Count-1) * RowSpacing / 2
		for i := 0; i < row.Count; i++ {
			pos := mgl32.Vec3{
				startX + float32(i)*RowSpacing + rng.RangeF(-JitterX, JitterX),
				row.Y + rng.RangeF(0, JitterY),
				row.Z + rng.RangeF(-JitterZ, JitterZ),
			}
			c, err := NewCharacter(s, lib, cr.Root, CharacterSpec{
				Index:           index,
				Position:        pos,
				ForceCone:       index == ConeIndex,
				HatSkipChance:   cfg.HatSkipChance,
				GlassesChance:   cfg.GlassesChance,
				VestChance:      cfg.VestChance,
				HeadBlendRate:   cfg.HeadBlendRate,
				HeadBlendJitter: cfg.HeadBlendJitter,
			}, rng)
			if err != nil {
				return nil, fmt.Errorf("character %d: %w", index, err)
			}
			cr.Characters = append(cr.Characters, c)
			index++
		}
	}
	return cr, nil
}
