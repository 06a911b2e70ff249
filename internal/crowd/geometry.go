package crowd

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the number of float32s per vertex: position xyz, normal xyz.
const VertexStride = 6

// Geometry is an indexed triangle mesh built on the CPU. Devices upload it once.
type Geometry struct {
	Name     string
	Vertices []float32
	Indices  []uint32
}

func (g *Geometry) VertexCount() int { return len(g.Vertices) / VertexStride }

func (g *Geometry) push(p, n mgl32.Vec3) uint32 {
	i := uint32(g.VertexCount())
	g.Vertices = append(g.Vertices, p[0], p[1], p[2], n[0], n[1], n[2])
	return i
}

func (g *Geometry) tri(a, b, c uint32) {
	g.Indices = append(g.Indices, a, b, c)
}

// Transform bakes m into the vertex data. Normals use the rotation part only,
// which is enough for the rigid transforms the asset library applies.
func (g *Geometry) Transform(m mgl32.Mat4) *Geometry {
	rot := m.Mat3()
	for i := 0; i+VertexStride <= len(g.Vertices); i += VertexStride {
		p := mgl32.TransformCoordinate(mgl32.Vec3{g.Vertices[i], g.Vertices[i+1], g.Vertices[i+2]}, m)
		n := rot.Mul3x1(mgl32.Vec3{g.Vertices[i+3], g.Vertices[i+4], g.Vertices[i+5]})
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		copy(g.Vertices[i:i+VertexStride], []float32{p[0], p[1], p[2], n[0], n[1], n[2]})
	}
	return g
}

// Sphere builds a UV sphere. phi sweeps around Y, theta runs from the north
// pole (0) to the south pole (π); partial ranges give domes and caps.
func Sphere(radius float32, widthSeg, heightSeg int, phiStart, phiLength, thetaStart, thetaLength float32) *Geometry {
	widthSeg = max(3, widthSeg)
	heightSeg = max(2, heightSeg)
	thetaEnd := float32(math.Min(float64(thetaStart+thetaLength), math.Pi))

	g := &Geometry{Name: "sphere"}
	row := widthSeg + 1
	for iy := 0; iy <= heightSeg; iy++ {
		v := float32(iy) / float32(heightSeg)
		theta := thetaStart + v*thetaLength
		for ix := 0; ix <= widthSeg; ix++ {
			u := float32(ix) / float32(widthSeg)
			phi := phiStart + u*phiLength
			p := mgl32.Vec3{
				-radius * cosF(phi) * sinF(theta),
				radius * cosF(theta),
				radius * sinF(phi) * sinF(theta),
			}
			n := p
			if l := n.Len(); l > 0 {
				n = n.Mul(1 / l)
			}
			g.push(p, n)
		}
	}
	for iy := 0; iy < heightSeg; iy++ {
		for ix := 0; ix < widthSeg; ix++ {
			a := uint32(iy*row + ix + 1)
			b := uint32(iy*row + ix)
			c := uint32((iy+1)*row + ix)
			d := uint32((iy+1)*row + ix + 1)
			if iy != 0 || thetaStart > 0 {
				g.tri(a, b, d)
			}
			if iy != heightSeg-1 || thetaEnd < math.Pi {
				g.tri(b, c, d)
			}
		}
	}
	return g
}

// FullSphere is Sphere over the whole surface.
func FullSphere(radius float32, widthSeg, heightSeg int) *Geometry {
	return Sphere(radius, widthSeg, heightSeg, 0, 2*math.Pi, 0, math.Pi)
}

// Cylinder builds a (possibly truncated) cone along Y centred on the origin.
// openEnded skips the caps; thetaStart/thetaLength sweep a partial wall.
func Cylinder(radiusTop, radiusBottom, height float32, radialSeg, heightSeg int, openEnded bool, thetaStart, thetaLength float32) *Geometry {
	radialSeg = max(3, radialSeg)
	heightSeg = max(1, heightSeg)
	half := height / 2
	slope := (radiusBottom - radiusTop) / height

	g := &Geometry{Name: "cylinder"}
	row := radialSeg + 1
	for y := 0; y <= heightSeg; y++ {
		v := float32(y) / float32(heightSeg)
		r := v*(radiusBottom-radiusTop) + radiusTop
		for x := 0; x <= radialSeg; x++ {
			theta := float32(x)/float32(radialSeg)*thetaLength + thetaStart
			s, c := sinF(theta), cosF(theta)
			n := mgl32.Vec3{s, slope, c}.Normalize()
			g.push(mgl32.Vec3{r * s, -v*height + half, r * c}, n)
		}
	}
	for y := 0; y < heightSeg; y++ {
		for x := 0; x < radialSeg; x++ {
			a := uint32(y*row + x)
			b := uint32((y+1)*row + x)
			c := uint32((y+1)*row + x + 1)
			d := uint32(y*row + x + 1)
			g.tri(a, b, d)
			g.tri(b, c, d)
		}
	}
	if !openEnded {
		if radiusTop > 0 {
			cylinderCap(g, radiusTop, half, 1, radialSeg, thetaStart, thetaLength)
		}
		if radiusBottom > 0 {
			cylinderCap(g, radiusBottom, -half, -1, radialSeg, thetaStart, thetaLength)
		}
	}
	return g
}

func cylinderCap(g *Geometry, radius, y, sign float32, radialSeg int, thetaStart, thetaLength float32) {
	n := mgl32.Vec3{0, sign, 0}
	center := g.push(mgl32.Vec3{0, y, 0}, n)
	first := uint32(g.VertexCount())
	for x := 0; x <= radialSeg; x++ {
		theta := float32(x)/float32(radialSeg)*thetaLength + thetaStart
		g.push(mgl32.Vec3{radius * sinF(theta), y, radius * cosF(theta)}, n)
	}
	for x := uint32(0); x < uint32(radialSeg); x++ {
		g.tri(center, first+x, first+x+1)
	}
}

// Cone is a closed cylinder with a zero-radius top.
func Cone(radius, height float32, radialSeg int) *Geometry {
	g := Cylinder(0, radius, height, radialSeg, 1, false, 0, 2*math.Pi)
	g.Name = "cone"
	return g
}

// Torus lies in the XY plane around the Z axis.
func Torus(radius, tube float32, radialSeg, tubularSeg int) *Geometry {
	radialSeg = max(2, radialSeg)
	tubularSeg = max(3, tubularSeg)
	g := &Geometry{Name: "torus"}
	for j := 0; j <= radialSeg; j++ {
		v := float32(j) / float32(radialSeg) * 2 * math.Pi
		for i := 0; i <= tubularSeg; i++ {
			u := float32(i) / float32(tubularSeg) * 2 * math.Pi
			p := mgl32.Vec3{
				(radius + tube*cosF(v)) * cosF(u),
				(radius + tube*cosF(v)) * sinF(u),
				tube * sinF(v),
			}
			center := mgl32.Vec3{radius * cosF(u), radius * sinF(u), 0}
			g.push(p, p.Sub(center).Normalize())
		}
	}
	row := tubularSeg + 1
	for j := 1; j <= radialSeg; j++ {
		for i := 1; i <= tubularSeg; i++ {
			a := uint32(row*j + i - 1)
			b := uint32(row*(j-1) + i - 1)
			c := uint32(row*(j-1) + i)
			d := uint32(row*j + i)
			g.tri(a, b, d)
			g.tri(b, c, d)
		}
	}
	return g
}

// Capsule is a cylinder of the given length with hemispherical ends, lathed
// around Y.
func Capsule(radius, length float32, capSeg, radialSeg int) *Geometry {
	capSeg = max(1, capSeg)
	radialSeg = max(3, radialSeg)
	half := length / 2

	type profile struct{ r, y, nr, ny float32 }
	pts := make([]profile, 0, 2*(capSeg+1))
	for k := 0; k <= capSeg; k++ {
		a := -math.Pi/2 + float32(k)/float32(capSeg)*math.Pi/2
		pts = append(pts, profile{radius * cosF(a), -half + radius*sinF(a), cosF(a), sinF(a)})
	}
	for k := 0; k <= capSeg; k++ {
		a := float32(k) / float32(capSeg) * math.Pi / 2
		pts = append(pts, profile{radius * cosF(a), half + radius*sinF(a), cosF(a), sinF(a)})
	}

	g := &Geometry{Name: "capsule"}
	row := radialSeg + 1
	for _, p := range pts {
		for s := 0; s <= radialSeg; s++ {
			phi := float32(s) / float32(radialSeg) * 2 * math.Pi
			sp, cp := sinF(phi), cosF(phi)
			g.push(mgl32.Vec3{p.r * sp, p.y, p.r * cp}, mgl32.Vec3{p.nr * sp, p.ny, p.nr * cp})
		}
	}
	for i := 0; i < len(pts)-1; i++ {
		for s := 0; s < radialSeg; s++ {
			a := uint32(i*row + s)
			b := uint32((i+1)*row + s)
			c := uint32((i+1)*row + s + 1)
			d := uint32(i*row + s + 1)
			g.tri(a, b, d)
			g.tri(b, c, d)
		}
	}
	return g
}

// Box is an axis-aligned cuboid centred on the origin.
func Box(w, h, d float32) *Geometry {
	g := &Geometry{Name: "box"}
	hw, hh, hd := w/2, h/2, d/2
	faces := [6]struct{ n, u, v mgl32.Vec3 }{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -hd}, mgl32.Vec3{0, hh, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, hd}, mgl32.Vec3{0, hh, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{hw, 0, 0}, mgl32.Vec3{0, 0, -hd}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{hw, 0, 0}, mgl32.Vec3{0, 0, hd}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{hw, 0, 0}, mgl32.Vec3{0, hh, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-hw, 0, 0}, mgl32.Vec3{0, hh, 0}},
	}
	for _, f := range faces {
		c := mgl32.Vec3{f.n[0] * hw, f.n[1] * hh, f.n[2] * hd}
		a := g.push(c.Sub(f.u).Sub(f.v), f.n)
		b := g.push(c.Add(f.u).Sub(f.v), f.n)
		cc := g.push(c.Add(f.u).Add(f.v), f.n)
		d := g.push(c.Sub(f.u).Add(f.v), f.n)
		g.tri(a, b, cc)
		g.tri(a, cc, d)
	}
	return g
}

// Circle is a flat disc in the XY plane facing +Z.
func Circle(radius float32, segments int) *Geometry {
	segments = max(3, segments)
	g := &Geometry{Name: "circle"}
	n := mgl32.Vec3{0, 0, 1}
	center := g.push(mgl32.Vec3{}, n)
	for s := 0; s <= segments; s++ {
		a := float32(s) / float32(segments) * 2 * math.Pi
		g.push(mgl32.Vec3{radius * cosF(a), radius * sinF(a), 0}, n)
	}
	for s := uint32(1); s <= uint32(segments); s++ {
		g.tri(center, s, s+1)
	}
	return g
}

// Plane is a flat quad in the XY plane facing +Z.
func Plane(w, h float32) *Geometry {
	g := &Geometry{Name: "plane"}
	n := mgl32.Vec3{0, 0, 1}
	a := g.push(mgl32.Vec3{-w / 2, -h / 2, 0}, n)
	b := g.push(mgl32.Vec3{w / 2, -h / 2, 0}, n)
	c := g.push(mgl32.Vec3{w / 2, h / 2, 0}, n)
	d := g.push(mgl32.Vec3{-w / 2, h / 2, 0}, n)
	g.tri(a, b, c)
	g.tri(a, c, d)
	return g
}
