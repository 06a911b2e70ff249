package crowd

import (
	"errors"
	"fmt"
)

// Camera framing (world units, degrees).
const (
	CameraFOV  = 35.0
	CameraNear = 0.1
	CameraFar  = 50.0
)

// Crowd layout.
const (
	RowSpacing = 0.9
	JitterX    = 0.1
	JitterY    = 0.1
	JitterZ    = 0.15

	// ConeIndex is the global creation index of the one character that wears
	// the traffic cone.
	ConeIndex = 7
)

// Character rig offsets, relative to the character root.
const (
	HeadPivotY  = 0.6
	EyeOffsetX  = 0.18
	EyeOffsetY  = 0.1
	EyeOffsetZ  = 0.38
	PupilDepth  = 0.1
	PupilRangeX = 0.06
	PupilRangeY = 0.05
	VestOffsetY = -0.1
)

// Blink timing (milliseconds).
const (
	BlinkClosedScale  = 0.1
	BlinkClosedMillis = 120.0
	FirstBlinkMin     = 600.0
	FirstBlinkMax     = 2000.0
)

// directionEpsilon replaces a zero-length head-to-target vector.
const directionEpsilon = 1e-4

var ErrInvalidConfig = errors.New("invalid config")

// Row describes one rank of characters.
type Row struct {
	Count int     `toml:"count"`
	Y     float32 `toml:"y"`
	Z     float32 `toml:"z"`
}

// DefaultRows is the four-rank layout, front row first.
func DefaultRows() []Row {
	return []Row{
		{Count: 6, Y: -1.7, Z: 1.0},
		{Count: 5, Y: -1.0, Z: 0.0},
		{Count: 4, Y: -0.4, Z: -1.0},
		{Count: 3, Y: 0.2, Z: -1.8},
	}
}

// Config holds every tunable. It is read once at Mount.
type Config struct {
	TargetDepth        float32 `toml:"target_depth"`
	TargetBlendRate    float32 `toml:"target_blend_rate"`
	IdleBlendRate      float32 `toml:"idle_blend_rate"`
	HeadBlendRate      float32 `toml:"head_blend_rate"`
	HeadBlendJitter    float32 `toml:"head_blend_jitter"`
	MaxYaw             float32 `toml:"max_yaw"`
	MaxPitch           float32 `toml:"max_pitch"`
	IdleTimeoutSeconds float64 `toml:"idle_timeout_seconds"`
	BreatheSpeed       float32 `toml:"breathe_speed"`
	BreatheAmplitude   float32 `toml:"breathe_amplitude"`

	BlinkMinMillis float32 `toml:"blink_min_ms"`
	BlinkMaxMillis float32 `toml:"blink_max_ms"`

	HatSkipChance float32 `toml:"hat_skip_chance"`
	GlassesChance float32 `toml:"glasses_chance"`
	VestChance    float32 `toml:"vest_chance"`
	Props         bool    `toml:"props"`

	Rows []Row `toml:"rows"`
}

func DefaultConfig() Config {
	return Config{
		TargetDepth:        2.6,
		TargetBlendRate:    0.18,
		IdleBlendRate:      0.06,
		HeadBlendRate:      0.14,
		HeadBlendJitter:    0.04,
		MaxYaw:             0.95,
		MaxPitch:           0.58,
		IdleTimeoutSeconds: 1.1,
		BreatheSpeed:       2.0,
		BreatheAmplitude:   0.03,
		BlinkMinMillis:     800,
		BlinkMaxMillis:     3000,
		HatSkipChance:      0,
		GlassesChance:      0.17,
		VestChance:         0.4,
		Props:              true,
		Rows:               DefaultRows(),
	}
}

// Validate rejects tunables that would make the smoothing overshoot or snap.
func (c Config) Validate() error {
	switch {
	case c.TargetBlendRate <= 0 || c.TargetBlendRate >= 0.5:
		return fmt.Errorf("%w: target_blend_rate %v must be in (0, 0.5)", ErrInvalidConfig, c.TargetBlendRate)
	case c.IdleBlendRate <= 0 || c.IdleBlendRate >= 0.5:
		return fmt.Errorf("%w: idle_blend_rate %v must be in (0, 0.5)", ErrInvalidConfig, c.IdleBlendRate)
	case c.HeadBlendRate <= 0 || c.HeadBlendJitter < 0 || c.HeadBlendRate+c.HeadBlendJitter >= 1:
		return fmt.Errorf("%w: head blend %v+%v must stay below 1", ErrInvalidConfig, c.HeadBlendRate, c.HeadBlendJitter)
	case c.MaxYaw <= 0 || c.MaxPitch <= 0:
		return fmt.Errorf("%w: max_yaw and max_pitch must be positive", ErrInvalidConfig)
	case c.IdleTimeoutSeconds < 0:
		return fmt.Errorf("%w: idle_timeout_seconds must not be negative", ErrInvalidConfig)
	case c.HatSkipChance < 0 || c.HatSkipChance > 1:
		return fmt.Errorf("%w: hat_skip_chance %v must be in [0, 1]", ErrInvalidConfig, c.HatSkipChance)
	case c.BlinkMinMillis <= 0 || c.BlinkMaxMillis < c.BlinkMinMillis:
		return fmt.Errorf("%w: blink interval [%v, %v]", ErrInvalidConfig, c.BlinkMinMillis, c.BlinkMaxMillis)
	}
	for i, r := range c.Rows {
		if r.Count < 0 {
			return fmt.Errorf("%w: row %d has negative count", ErrInvalidConfig, i)
		}
	}
	return nil
}
