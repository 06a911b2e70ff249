package crowd

// ResourceKind classifies registry entries.
type ResourceKind int

const (
	KindMesh ResourceKind = iota
	KindMaterial
	KindDevice
)

func (k ResourceKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindMaterial:
		return "material"
	case KindDevice:
		return "device"
	}
	return "unknown"
}

type resource struct {
	kind    ResourceKind
	name    string
	release func()
}

// Registry records every allocation made while mounting so teardown can walk
// them once, newest first.
type Registry struct {
	entries  []resource
	released bool
}

// Track appends a release callback. Tracking after Release runs the callback
// immediately so nothing created late can leak.
func (r *Registry) Track(kind ResourceKind, name string, release func()) {
	if r.released {
		release()
		return
	}
	r.entries = append(r.entries, resource{kind: kind, name: name, release: release})
}

func (r *Registry) Len() int { return len(r.entries) }

// Count returns how many live entries have the given kind.
func (r *Registry) Count(kind ResourceKind) int {
	n := 0
	for _, e := range r.entries {
		if e.kind == kind {
			n++
		}
	}
	return n
}

// Release runs every release callback in reverse registration order and
// returns how many ran. Later calls are no-ops.
func (r *Registry) Release() int {
	if r.released {
		return 0
	}
	r.released = true
	n := len(r.entries)
	for i := n - 1; i >= 0; i-- {
		r.entries[i].release()
	}
	r.entries = nil
	return n
}

// mesh uploads g and tracks its deletion.
func (r *Registry) mesh(dev Device, g *Geometry) (MeshID, error) {
	id, err := dev.CreateMesh(g)
	if err != nil {
		return 0, err
	}
	r.Track(KindMesh, g.Name, func() { dev.DeleteMesh(id) })
	return id, nil
}

// material creates m and tracks its deletion.
func (r *Registry) material(dev Device, m Material) (MaterialID, error) {
	id, err := dev.CreateMaterial(m)
	if err != nil {
		return 0, err
	}
	r.Track(KindMaterial, m.Name, func() { dev.DeleteMaterial(id) })
	return id, nil
}
