package crowd

import (
	"errors"
	"fmt"
)

// fakeDevice records every call and fails loudly on double frees.
type fakeDevice struct {
	log *[]string

	nextMesh  MeshID
	nextMat   MaterialID
	meshes    map[MeshID]string
	materials map[MaterialID]string
	colors    map[MaterialID]RGB

	meshCreates, meshDeletes int
	matCreates, matDeletes   int
	draws                    int
	lastFrameItems           int
	viewports                [][2]int
	destroyed                int
	errs                     []error

	// failMeshAt makes the n-th CreateMesh (1-based) fail.
	failMeshAt int
}

func newFakeDevice(log *[]string) *fakeDevice {
	return &fakeDevice{
		log:       log,
		meshes:    make(map[MeshID]string),
		materials: make(map[MaterialID]string),
		colors:    make(map[MaterialID]RGB),
	}
}

func (d *fakeDevice) record(s string) {
	if d.log != nil {
		*d.log = append(*d.log, s)
	}
}

func (d *fakeDevice) CreateMesh(g *Geometry) (MeshID, error) {
	if d.destroyed > 0 {
		d.errs = append(d.errs, fmt.Errorf("CreateMesh(%s) after Destroy", g.Name))
	}
	if d.failMeshAt > 0 && d.meshCreates+1 == d.failMeshAt {
		return 0, errors.New("out of buffers")
	}
	d.meshCreates++
	d.nextMesh++
	d.meshes[d.nextMesh] = g.Name
	d.record("mesh+" + g.Name)
	return d.nextMesh, nil
}

func (d *fakeDevice) DeleteMesh(id MeshID) {
	name, ok := d.meshes[id]
	if !ok {
		d.errs = append(d.errs, fmt.Errorf("DeleteMesh(%d): not live", id))
		return
	}
	if d.destroyed > 0 {
		d.errs = append(d.errs, fmt.Errorf("DeleteMesh(%s) after Destroy", name))
	}
	delete(d.meshes, id)
	d.meshDeletes++
	d.record("mesh-" + name)
}

func (d *fakeDevice) CreateMaterial(m Material) (MaterialID, error) {
	d.matCreates++
	d.nextMat++
	d.materials[d.nextMat] = m.Name
	d.colors[d.nextMat] = m.Color
	d.record("material+" + m.Name)
	return d.nextMat, nil
}

func (d *fakeDevice) DeleteMaterial(id MaterialID) {
	name, ok := d.materials[id]
	if !ok {
		d.errs = append(d.errs, fmt.Errorf("DeleteMaterial(%d): not live", id))
		return
	}
	delete(d.materials, id)
	d.matDeletes++
	d.record("material-" + name)
}

func (d *fakeDevice) SetViewport(w, h int) { d.viewports = append(d.viewports, [2]int{w, h}) }

func (d *fakeDevice) Draw(f *Frame) {
	if d.destroyed > 0 {
		d.errs = append(d.errs, errors.New("Draw after Destroy"))
	}
	for _, it := range f.Items {
		if _, ok := d.meshes[it.Mesh]; !ok {
			d.errs = append(d.errs, fmt.Errorf("draw of dead mesh %d", it.Mesh))
		}
		if _, ok := d.materials[it.Material]; !ok {
			d.errs = append(d.errs, fmt.Errorf("draw of dead material %d", it.Material))
		}
	}
	d.draws++
	d.lastFrameItems = len(f.Items)
}

func (d *fakeDevice) Destroy() {
	d.destroyed++
	d.record("destroy")
}

// fakeSurface is a pointer surface with listener bookkeeping.
type fakeSurface struct {
	bounds Rect
	moves  map[int]PointerFunc
	touch  map[int]TouchFunc
	leaves map[int]func()
	next   int
}

func newFakeSurface(b Rect) *fakeSurface {
	return &fakeSurface{
		bounds: b,
		moves:  make(map[int]PointerFunc),
		touch:  make(map[int]TouchFunc),
		leaves: make(map[int]func()),
	}
}

func (s *fakeSurface) Bounds() Rect { return s.bounds }

func (s *fakeSurface) OnPointerMove(fn PointerFunc) func() {
	s.next++
	id := s.next
	s.moves[id] = fn
	return func() { delete(s.moves, id) }
}

func (s *fakeSurface) OnTouchMove(fn TouchFunc) func() {
	s.next++
	id := s.next
	s.touch[id] = fn
	return func() { delete(s.touch, id) }
}

func (s *fakeSurface) OnPointerLeave(fn func()) func() {
	s.next++
	id := s.next
	s.leaves[id] = fn
	return func() { delete(s.leaves, id) }
}

func (s *fakeSurface) listeners() int { return len(s.moves) + len(s.touch) + len(s.leaves) }

func (s *fakeSurface) move(x, y float64) {
	for _, fn := range s.moves {
		fn(x, y)
	}
}

func (s *fakeSurface) touches(pts ...Point) {
	for _, fn := range s.touch {
		fn(pts)
	}
}

func (s *fakeSurface) leave() {
	for _, fn := range s.leaves {
		fn()
	}
}

// fakeContainer is a container with a manual clock. Each WaitFrame advances
// the clock by step and runs onWait, then reports open until frames run out.
type fakeContainer struct {
	*fakeSurface

	log *[]string
	dev *fakeDevice

	w, h      int
	resizers  map[int]func(w, h int)
	attachErr error
	detached  int

	clock     float64
	step      float64
	remaining int
	onWait    func()
}

func newFakeContainer(w, h int) *fakeContainer {
	log := &[]string{}
	return &fakeContainer{
		fakeSurface: newFakeSurface(Rect{W: float64(w), H: float64(h)}),
		log:         log,
		dev:         newFakeDevice(log),
		w:           w,
		h:           h,
		resizers:    make(map[int]func(w, h int)),
		step:        1.0 / 60,
		remaining:   -1,
	}
}

func (c *fakeContainer) Size() (int, int) { return c.w, c.h }

func (c *fakeContainer) OnResize(fn func(w, h int)) func() {
	c.next++
	id := c.next
	c.resizers[id] = fn
	return func() { delete(c.resizers, id) }
}

func (c *fakeContainer) resize(w, h int) {
	c.w, c.h = w, h
	c.bounds = Rect{W: float64(w), H: float64(h)}
	for _, fn := range c.resizers {
		fn(w, h)
	}
}

func (c *fakeContainer) AttachDevice() (Device, error) {
	if c.attachErr != nil {
		return nil, c.attachErr
	}
	*c.log = append(*c.log, "attach")
	return c.dev, nil
}

func (c *fakeContainer) DetachDevice(Device) {
	c.detached++
	*c.log = append(*c.log, "detach")
}

func (c *fakeContainer) Now() float64 { return c.clock }

func (c *fakeContainer) tick() { c.clock += c.step }

func (c *fakeContainer) WaitFrame() bool {
	c.tick()
	if c.onWait != nil {
		c.onWait()
	}
	if c.remaining < 0 {
		return true
	}
	c.remaining--
	return c.remaining > 0
}

func (c *fakeContainer) listeners() int {
	return c.fakeSurface.listeners() + len(c.resizers)
}
