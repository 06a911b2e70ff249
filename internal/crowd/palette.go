package crowd

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Hex builds an RGB from a 0xRRGGBB literal.
func Hex(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Floats returns the colour as normalized float32 channels.
func (c RGB) Floats() (float32, float32, float32) {
	return float32(c.R) / 255.0, float32(c.G) / 255.0, float32(c.B) / 255.0
}

var Palette = struct {
	Body           RGB
	Head           RGB
	Eye            RGB
	Pupil          RGB
	Screen         RGB
	Vest           RGB
	ConeOrange     RGB
	ConeWhite      RGB
	GlassesMustard RGB
	GlassesFrame   RGB
	LaptopBase     RGB
	LaptopFrame    RGB
	RimLight       RGB
}{
	Body:           Hex(0x222222),
	Head:           Hex(0x333333),
	Eye:            Hex(0xffffff),
	Pupil:          Hex(0x111111),
	Screen:         Hex(0x4f46e5),
	Vest:           Hex(0xfacc15),
	ConeOrange:     Hex(0xff4500),
	ConeWhite:      Hex(0xffffff),
	GlassesMustard: Hex(0xd7b225),
	GlassesFrame:   Hex(0x1f1f1f),
	LaptopBase:     Hex(0x888888),
	LaptopFrame:    Hex(0x111111),
	RimLight:       Hex(0xc7d2fe),
}

// HatColors is the palette a hard hat picks its shell colour from.
var HatColors = [...]RGB{
	Hex(0xfacc15),
	Hex(0xf97316),
	Hex(0xffffff),
}
