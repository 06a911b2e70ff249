package crowd

import "github.com/go-gl/mathgl/mgl32"

// MeshID and MaterialID are device-issued handles. Zero means "none".
type (
	MeshID     uint32
	MaterialID uint32
)

// Material is a flat procedural surface description.
type Material struct {
	Name              string
	Color             RGB
	Emissive          RGB
	EmissiveIntensity float32
	Roughness         float32
	Metalness         float32
	Opacity           float32 // 0 is treated as fully opaque
	DoubleSided       bool
	Unlit             bool
}

// Transparent reports whether the material needs blending.
func (m Material) Transparent() bool { return m.Opacity > 0 && m.Opacity < 1 }

// DrawItem is one mesh instance with its world transform.
type DrawItem struct {
	Mesh     MeshID
	Material MaterialID
	Model    mgl32.Mat4
}

// Lights is the fixed light rig shared by every frame.
type Lights struct {
	Ambient        float32
	KeyDir         mgl32.Vec3
	KeyIntensity   float32
	RimDir         mgl32.Vec3
	RimColor       RGB
	RimIntensity   float32
	PointPos       mgl32.Vec3
	PointColor     RGB
	PointIntensity float32
	PointRange     float32
}

// DefaultLights mirrors the ambient, key, rim and screen-glow lights.
func DefaultLights() Lights {
	return Lights{
		Ambient:        0.78,
		KeyDir:         mgl32.Vec3{5, 10, 5}.Normalize(),
		KeyIntensity:   1.2,
		RimDir:         mgl32.Vec3{-5, 5, -5}.Normalize(),
		RimColor:       Palette.RimLight,
		RimIntensity:   0.72,
		PointPos:       mgl32.Vec3{0, -0.5, 2.0},
		PointColor:     Palette.Screen,
		PointIntensity: 4,
		PointRange:     8,
	}
}

// Frame is everything a device needs to draw one image.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	CameraPos  mgl32.Vec3
	Lights     Lights
	Items      []DrawItem
}

// Device owns GPU-resident objects. Create calls happen only while mounting;
// Draw and SetViewport never allocate device objects.
type Device interface {
	CreateMesh(g *Geometry) (MeshID, error)
	DeleteMesh(id MeshID)
	CreateMaterial(m Material) (MaterialID, error)
	DeleteMaterial(id MaterialID)
	SetViewport(w, h int)
	Draw(f *Frame)
	Destroy()
}
