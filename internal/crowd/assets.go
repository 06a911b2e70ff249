package crowd

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Library holds the part meshes and materials every character shares. All of
// them are created once by NewLibrary and tracked in the registry it is given.
type Library struct {
	dev Device
	reg *Registry

	Body, Head, Eye, Pupil      MeshID
	HatShell, HatBrim, HatCap   MeshID
	ConeBody, ConeStripe        MeshID
	ConeBase                    MeshID
	Visor, VisorPanel, TopFrame MeshID
	TempleArm, NoseBridge       MeshID
	LaptopBase, LaptopFrame     MeshID
	LaptopDisplay               MeshID

	BodyMat, HeadMat, EyeMat, PupilMat MaterialID
	LensMat, FrameMat                  MaterialID
	LaptopBaseMat, LaptopFrameMat      MaterialID
	DisplayMat                         MaterialID
}

type meshSpec struct {
	dst  *MeshID
	name string
	geo  func() *Geometry
}

type materialSpec struct {
	dst *MaterialID
	mat Material
}

// NewLibrary builds and uploads every shared part. On error the caller's
// registry still holds whatever was created before the failure.
func NewLibrary(dev Device, reg *Registry) (*Library, error) {
	l := &Library{dev: dev, reg: reg}

	meshes := []meshSpec{
		{&l.Body, "body", func() *Geometry { return Capsule(0.55, 0.7, 4, 8) }},
		{&l.Head, "head", func() *Geometry { return FullSphere(0.48, 24, 24) }},
		{&l.Eye, "eye", func() *Geometry { return FullSphere(0.12, 16, 16) }},
		{&l.Pupil, "pupil", func() *Geometry { return FullSphere(0.05, 10, 10) }},
		{&l.HatShell, "hat-shell", func() *Geometry { return Sphere(0.52, 28, 16, 0, 2*math.Pi, 0, math.Pi/2) }},
		{&l.HatBrim, "hat-brim", func() *Geometry { return Torus(0.5, 0.07, 10, 32) }},
		{&l.HatCap, "hat-cap", func() *Geometry { return Circle(0.5, 32).Transform(mgl32.HomogRotate3DX(-math.Pi / 2)) }},
		{&l.ConeBody, "cone-body", func() *Geometry { return Cone(0.34, 0.88, 40) }},
		{&l.ConeStripe, "cone-stripe", func() *Geometry { return Torus(0.2, 0.055, 10, 40) }},
		{&l.ConeBase, "cone-base", func() *Geometry { return Cylinder(0.43, 0.43, 0.06, 48, 1, false, 0, 2*math.Pi) }},
		{&l.Visor, "glasses-visor", func() *Geometry {
			return Cylinder(0.38, 0.38, 0.22, 50, 1, true, math.Pi*0.20, math.Pi*0.60)
		}},
		{&l.VisorPanel, "glasses-panel", func() *Geometry { return Box(0.70, 0.22, 0.03) }},
		{&l.TopFrame, "glasses-top", func() *Geometry { return Box(0.74, 0.05, 0.05) }},
		{&l.TempleArm, "glasses-arm", func() *Geometry { return Box(0.20, 0.03, 0.03) }},
		{&l.NoseBridge, "glasses-nose", func() *Geometry { return Box(0.10, 0.04, 0.04) }},
		{&l.LaptopBase, "laptop-base", func() *Geometry { return Box(2.4, 0.1, 1.6) }},
		{&l.LaptopFrame, "laptop-frame", func() *Geometry { return Box(2.4, 1.5, 0.1) }},
		{&l.LaptopDisplay, "laptop-display", func() *Geometry { return Plane(2.2, 1.3) }},
	}
	for _, m := range meshes {
		g := m.geo()
		g.Name = m.name
		id, err := reg.mesh(dev, g)
		if err != nil {
			return nil, fmt.Errorf("mesh %s: %w", m.name, err)
		}
		*m.dst = id
	}

	materials := []materialSpec{
		{&l.BodyMat, Material{Name: "body", Color: Palette.Body, Roughness: 0.78, Metalness: 0.06}},
		{&l.HeadMat, Material{Name: "head", Color: Palette.Head, Roughness: 0.55, Metalness: 0.04}},
		{&l.EyeMat, Material{Name: "eye", Color: Palette.Eye, Roughness: 0.2}},
		{&l.PupilMat, Material{Name: "pupil", Color: Palette.Pupil, Unlit: true}},
		{&l.LensMat, Material{Name: "lens", Color: Palette.GlassesMustard, Roughness: 0.12, Opacity: 0.38, DoubleSided: true}},
		{&l.FrameMat, Material{Name: "frame", Color: Palette.GlassesFrame, Roughness: 0.5, Metalness: 0.15}},
		{&l.LaptopBaseMat, Material{Name: "laptop-base", Color: Palette.LaptopBase, Roughness: 0.35, Metalness: 0.8}},
		{&l.LaptopFrameMat, Material{Name: "laptop-frame", Color: Palette.LaptopFrame, Roughness: 0.25, Metalness: 0.5}},
		{&l.DisplayMat, Material{Name: "display", Color: Palette.Screen, Emissive: Palette.Screen, EmissiveIntensity: 1.6, Roughness: 0.2}},
	}
	for _, m := range materials {
		id, err := reg.material(dev, m.mat)
		if err != nil {
			return nil, fmt.Errorf("material %s: %w", m.mat.Name, err)
		}
		*m.dst = id
	}
	return l, nil
}

func (l *Library) part(s *Scene, parent NodeID, mesh MeshID, mat MaterialID, pos mgl32.Vec3, rot mgl32.Quat) NodeID {
	return s.Add(parent, Node{Position: pos, Rotation: rot, Mesh: mesh, Material: mat})
}

// NewHardHat attaches a hat with a freshly created shell material whose colour
// is drawn uniformly from HatColors.
func (l *Library) NewHardHat(s *Scene, headPivot NodeID, rng *Rand) (NodeID, error) {
	color := HatColors[rng.Intn(len(HatColors))]
	mat, err := l.reg.material(l.dev, Material{Name: "hat", Color: color, Roughness: 0.45, Metalness: 0.05, DoubleSided: true})
	if err != nil {
		return NoNode, fmt.Errorf("hard hat: %w", err)
	}
	hat := l.part(s, headPivot, l.HatShell, mat, mgl32.Vec3{0, 0.37, 0}, QuatEuler(-0.2, 0, 0))
	l.part(s, hat, l.HatBrim, mat, mgl32.Vec3{}, QuatEuler(math.Pi/2, 0, 0))
	l.part(s, hat, l.HatCap, mat, mgl32.Vec3{}, mgl32.QuatIdent())
	return hat, nil
}

// NewCone attaches the novelty traffic cone. Its body, stripe and base each
// get their own material.
func (l *Library) NewCone(s *Scene, headPivot NodeID) (NodeID, error) {
	mats := [3]Material{
		{Name: "cone", Color: Palette.ConeOrange, Roughness: 0.45, DoubleSided: true},
		{Name: "cone-stripe", Color: Palette.ConeWhite, Roughness: 0.6, DoubleSided: true},
		{Name: "cone-base", Color: Palette.ConeOrange, Roughness: 0.55, DoubleSided: true},
	}
	var ids [3]MaterialID
	for i, m := range mats {
		id, err := l.reg.material(l.dev, m)
		if err != nil {
			return NoNode, fmt.Errorf("cone: %w", err)
		}
		ids[i] = id
	}
	group := s.Add(headPivot, Node{Position: mgl32.Vec3{0, 0.82, 0.02}, Rotation: QuatEuler(-0.12, 0, 0)})
	body := l.part(s, group, l.ConeBody, ids[0], mgl32.Vec3{}, mgl32.QuatIdent())
	l.part(s, body, l.ConeStripe, ids[1], mgl32.Vec3{0, -0.12, 0}, QuatEuler(math.Pi/2, 0, 0))
	l.part(s, group, l.ConeBase, ids[2], mgl32.Vec3{0, -0.41, 0}, mgl32.QuatIdent())
	return group, nil
}

// NewSafetyGlasses attaches a curved visor with a top frame, nose bridge and
// two temple arms. Everything here uses shared meshes and materials.
func (l *Library) NewSafetyGlasses(s *Scene, headPivot NodeID) NodeID {
	g := s.Group(headPivot, mgl32.Vec3{})
	l.part(s, g, l.Visor, l.LensMat, mgl32.Vec3{0, 0.12, 0.46}, QuatEuler(0, math.Pi, 0))
	l.part(s, g, l.VisorPanel, l.LensMat, mgl32.Vec3{0, 0.12, 0.45}, mgl32.QuatIdent())
	l.part(s, g, l.TopFrame, l.FrameMat, mgl32.Vec3{0, 0.22, 0.42}, mgl32.QuatIdent())
	l.part(s, g, l.NoseBridge, l.FrameMat, mgl32.Vec3{0, 0.11, 0.43}, mgl32.QuatIdent())
	l.part(s, g, l.TempleArm, l.FrameMat, mgl32.Vec3{-0.38, 0.16, 0.25}, QuatEuler(0, 0.55, 0))
	l.part(s, g, l.TempleArm, l.FrameMat, mgl32.Vec3{0.38, 0.16, 0.25}, QuatEuler(0, -0.55, 0))
	return g
}

// NewVest attaches a hi-vis vest in place of the plain body. The vest owns its
// own mesh and material.
func (l *Library) NewVest(s *Scene, root NodeID) (NodeID, error) {
	g := Capsule(0.56, 0.65, 4, 8)
	g.Name = "vest"
	mesh, err := l.reg.mesh(l.dev, g)
	if err != nil {
		return NoNode, fmt.Errorf("vest: %w", err)
	}
	mat, err := l.reg.material(l.dev, Material{Name: "vest", Color: Palette.Vest, Roughness: 0.82, Metalness: 0.02})
	if err != nil {
		return NoNode, fmt.Errorf("vest: %w", err)
	}
	return l.part(s, root, mesh, mat, mgl32.Vec3{0, VestOffsetY, 0}, mgl32.QuatIdent()), nil
}

// NewLaptop adds the glowing laptop the crowd is gathered around.
func (l *Library) NewLaptop(s *Scene, parent NodeID) NodeID {
	group := s.Add(parent, Node{Position: mgl32.Vec3{0, -1.95, 2.5}, Rotation: QuatEuler(0, math.Pi, 0)})
	l.part(s, group, l.LaptopBase, l.LaptopBaseMat, mgl32.Vec3{}, mgl32.QuatIdent())
	frame := l.part(s, group, l.LaptopFrame, l.LaptopFrameMat, mgl32.Vec3{0, 0.75, -0.8}, QuatEuler(-math.Pi/12, 0, 0))
	l.part(s, frame, l.LaptopDisplay, l.DisplayMat, mgl32.Vec3{0, 0, 0.06}, mgl32.QuatIdent())
	return group
}
