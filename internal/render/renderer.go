// Package render implements crowd.Device on an OpenGL 4.1 core context.
package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"crowdgaze/internal/crowd"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type mesh struct {
	vao, vbo, ebo uint32
	count         int32
}

type material struct {
	color, emissive [3]float32
	opacity         float32
	roughness       float32
	metalness       float32
	doubleSided     bool
	unlit           bool
	transparent     bool
}

// Renderer draws crowd frames into a rectangle of the current framebuffer.
// All methods must be called on the thread that owns the GL context.
type Renderer struct {
	prog uint32

	uModel, uView, uProj   int32
	uColor, uEmissive      int32
	uOpacity               int32
	uRoughness             int32
	uMetalness             int32
	uUnlit, uDoubleSided   int32
	uCameraPos, uAmbient   int32
	uKeyDir, uKeyInt       int32
	uRimDir, uRimColor     int32
	uRimInt                int32
	uPointPos, uPointCol   int32
	uPointInt, uPointRange int32

	meshes    map[crowd.MeshID]mesh
	materials map[crowd.MaterialID]material
	nextMesh  crowd.MeshID
	nextMat   crowd.MaterialID

	// Viewport in framebuffer pixels, origin bottom-left.
	x, y, w, h int32

	Background crowd.RGB

	blended []crowd.DrawItem
}

// New compiles the mesh program. A GL context must be current and gl.Init
// must have succeeded.
func New() (*Renderer, error) {
	prog, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	r := &Renderer{
		prog:       prog,
		meshes:     make(map[crowd.MeshID]mesh),
		materials:  make(map[crowd.MaterialID]material),
		Background: crowd.Palette.Body,
		blended:    make([]crowd.DrawItem, 0, 32),
	}
	loc := func(name string) int32 { return gl.GetUniformLocation(prog, gl.Str(name+"\x00")) }
	r.uModel = loc("uModel")
	r.uView = loc("uView")
	r.uProj = loc("uProj")
	r.uColor = loc("uColor")
	r.uEmissive = loc("uEmissive")
	r.uOpacity = loc("uOpacity")
	r.uRoughness = loc("uRoughness")
	r.uMetalness = loc("uMetalness")
	r.uUnlit = loc("uUnlit")
	r.uDoubleSided = loc("uDoubleSided")
	r.uCameraPos = loc("uCameraPos")
	r.uAmbient = loc("uAmbient")
	r.uKeyDir = loc("uKeyDir")
	r.uKeyInt = loc("uKeyIntensity")
	r.uRimDir = loc("uRimDir")
	r.uRimColor = loc("uRimColor")
	r.uRimInt = loc("uRimIntensity")
	r.uPointPos = loc("uPointPos")
	r.uPointCol = loc("uPointColor")
	r.uPointInt = loc("uPointIntensity")
	r.uPointRange = loc("uPointRange")
	return r, nil
}

func (r *Renderer) CreateMesh(g *crowd.Geometry) (crowd.MeshID, error) {
	if len(g.Vertices) == 0 || len(g.Indices) == 0 {
		return 0, fmt.Errorf("mesh %q: empty geometry", g.Name)
	}
	var m mesh
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)
	if m.vao == 0 || m.vbo == 0 || m.ebo == 0 {
		r.deleteMesh(m)
		return 0, fmt.Errorf("mesh %q: buffer allocation failed", g.Name)
	}

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Vertices)*4, gl.Ptr(g.Vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	stride := int32(crowd.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))
	gl.BindVertexArray(0)

	m.count = int32(len(g.Indices))
	r.nextMesh++
	r.meshes[r.nextMesh] = m
	return r.nextMesh, nil
}

func (r *Renderer) DeleteMesh(id crowd.MeshID) {
	m, ok := r.meshes[id]
	if !ok {
		return
	}
	r.deleteMesh(m)
	delete(r.meshes, id)
}

func (r *Renderer) deleteMesh(m mesh) {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
}

func (r *Renderer) CreateMaterial(m crowd.Material) (crowd.MaterialID, error) {
	cr, cg, cb := m.Color.Floats()
	er, eg, eb := m.Emissive.Floats()
	k := m.EmissiveIntensity
	op := m.Opacity
	if op <= 0 || op > 1 {
		op = 1
	}
	r.nextMat++
	r.materials[r.nextMat] = material{
		color:       [3]float32{cr, cg, cb},
		emissive:    [3]float32{er * k, eg * k, eb * k},
		opacity:     op,
		roughness:   m.Roughness,
		metalness:   m.Metalness,
		doubleSided: m.DoubleSided,
		unlit:       m.Unlit,
		transparent: m.Transparent(),
	}
	return r.nextMat, nil
}

func (r *Renderer) DeleteMaterial(id crowd.MaterialID) { delete(r.materials, id) }

// SetOrigin moves the viewport's bottom-left corner within the framebuffer.
func (r *Renderer) SetOrigin(x, y int) { r.x, r.y = int32(x), int32(y) }

func (r *Renderer) SetViewport(w, h int) { r.w, r.h = int32(w), int32(h) }

// Draw renders opaque items first and blended items after them, both in
// scene order.
func (r *Renderer) Draw(f *crowd.Frame) {
	if r.w <= 0 || r.h <= 0 {
		return
	}
	gl.Viewport(r.x, r.y, r.w, r.h)
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(r.x, r.y, r.w, r.h)
	br, bg, bb := r.Background.Floats()
	gl.ClearColor(br, bg, bb, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)

	gl.UseProgram(r.prog)
	gl.UniformMatrix4fv(r.uView, 1, false, &f.View[0])
	gl.UniformMatrix4fv(r.uProj, 1, false, &f.Projection[0])
	r.setLights(f)

	r.blended = r.blended[:0]
	for i := range f.Items {
		it := &f.Items[i]
		if mat, ok := r.materials[it.Material]; ok && mat.transparent {
			r.blended = append(r.blended, *it)
			continue
		}
		r.drawItem(it)
	}

	if len(r.blended) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		for i := range r.blended {
			r.drawItem(&r.blended[i])
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.SCISSOR_TEST)
}

func (r *Renderer) setLights(f *crowd.Frame) {
	l := &f.Lights
	gl.Uniform3f(r.uCameraPos, f.CameraPos[0], f.CameraPos[1], f.CameraPos[2])
	gl.Uniform1f(r.uAmbient, l.Ambient)
	gl.Uniform3f(r.uKeyDir, l.KeyDir[0], l.KeyDir[1], l.KeyDir[2])
	gl.Uniform1f(r.uKeyInt, l.KeyIntensity)
	gl.Uniform3f(r.uRimDir, l.RimDir[0], l.RimDir[1], l.RimDir[2])
	rr, rg, rb := l.RimColor.Floats()
	gl.Uniform3f(r.uRimColor, rr, rg, rb)
	gl.Uniform1f(r.uRimInt, l.RimIntensity)
	gl.Uniform3f(r.uPointPos, l.PointPos[0], l.PointPos[1], l.PointPos[2])
	pr, pg, pb := l.PointColor.Floats()
	gl.Uniform3f(r.uPointCol, pr, pg, pb)
	gl.Uniform1f(r.uPointInt, l.PointIntensity)
	gl.Uniform1f(r.uPointRange, l.PointRange)
}

func (r *Renderer) drawItem(it *crowd.DrawItem) {
	m, ok := r.meshes[it.Mesh]
	if !ok {
		return
	}
	mat, ok := r.materials[it.Material]
	if !ok {
		mat = material{color: [3]float32{1, 0, 1}, opacity: 1}
	}
	model := it.Model
	gl.UniformMatrix4fv(r.uModel, 1, false, &model[0])
	gl.Uniform3f(r.uColor, mat.color[0], mat.color[1], mat.color[2])
	gl.Uniform3f(r.uEmissive, mat.emissive[0], mat.emissive[1], mat.emissive[2])
	gl.Uniform1f(r.uOpacity, mat.opacity)
	gl.Uniform1f(r.uRoughness, mat.roughness)
	gl.Uniform1f(r.uMetalness, mat.metalness)
	gl.Uniform1i(r.uUnlit, boolInt(mat.unlit))
	gl.Uniform1i(r.uDoubleSided, boolInt(mat.doubleSided))

	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
}

// Destroy frees the program and anything the owner forgot to delete.
func (r *Renderer) Destroy() {
	for id, m := range r.meshes {
		r.deleteMesh(m)
		delete(r.meshes, id)
	}
	clear(r.materials)
	if r.prog != 0 {
		gl.DeleteProgram(r.prog)
		r.prog = 0
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

var _ crowd.Device = (*Renderer)(nil)
