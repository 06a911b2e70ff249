package crowd

import "github.com/go-gl/mathgl/mgl32"

// NodeID indexes a node in a Scene. Parents always have a lower id than their
// children, so one forward pass resolves world transforms.
type NodeID int32

// NoNode is the parent of the scene root.
const NoNode NodeID = -1

// Node is one transform in the scene arena. A node with Mesh == 0 is a group.
type Node struct {
	Parent   NodeID
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Mesh     MeshID
	Material MaterialID
}

// Local returns the node's transform relative to its parent.
func (n *Node) Local() mgl32.Mat4 {
	return mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2]).
		Mul4(n.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// Scene is a flat arena of transform nodes.
type Scene struct {
	nodes []Node
	world []mgl32.Mat4
}

// NewScene returns a scene holding only the root node (id 0).
func NewScene() *Scene {
	s := &Scene{}
	s.nodes = append(s.nodes, Node{Parent: NoNode, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}})
	return s
}

func (s *Scene) Root() NodeID { return 0 }

func (s *Scene) Len() int { return len(s.nodes) }

// Add appends a node under parent. Zero rotation and scale default to identity.
func (s *Scene) Add(parent NodeID, n Node) NodeID {
	n.Parent = parent
	if n.Rotation == (mgl32.Quat{}) {
		n.Rotation = mgl32.QuatIdent()
	}
	if n.Scale == (mgl32.Vec3{}) {
		n.Scale = mgl32.Vec3{1, 1, 1}
	}
	s.nodes = append(s.nodes, n)
	return NodeID(len(s.nodes) - 1)
}

// Group adds an empty node at pos.
func (s *Scene) Group(parent NodeID, pos mgl32.Vec3) NodeID {
	return s.Add(parent, Node{Position: pos})
}

// Node returns a pointer into the arena. It is invalidated by Add.
func (s *Scene) Node(id NodeID) *Node { return &s.nodes[id] }

// WorldMatrix walks the parent chain of id.
func (s *Scene) WorldMatrix(id NodeID) mgl32.Mat4 {
	m := mgl32.Ident4()
	for ; id != NoNode; id = s.nodes[id].Parent {
		m = s.nodes[id].Local().Mul4(m)
	}
	return m
}

// WorldToLocal converts a world-space point into id's local frame.
func (s *Scene) WorldToLocal(id NodeID, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, s.WorldMatrix(id).Inv())
}

// DrawList resolves world transforms and appends one item per mesh node to buf.
func (s *Scene) DrawList(buf []DrawItem) []DrawItem {
	if cap(s.world) < len(s.nodes) {
		s.world = make([]mgl32.Mat4, len(s.nodes))
	}
	s.world = s.world[:len(s.nodes)]
	for i := range s.nodes {
		n := &s.nodes[i]
		local := n.Local()
		if n.Parent == NoNode {
			s.world[i] = local
		} else {
			s.world[i] = s.world[n.Parent].Mul4(local)
		}
		if n.Mesh != 0 {
			buf = append(buf, DrawItem{Mesh: n.Mesh, Material: n.Material, Model: s.world[i]})
		}
	}
	return buf
}

// MeshCount returns the number of drawable nodes.
func (s *Scene) MeshCount() int {
	n := 0
	for i := range s.nodes {
		if s.nodes[i].Mesh != 0 {
			n++
		}
	}
	return n
}

// QuatEuler builds a rotation from XYZ-ordered Euler angles.
func QuatEuler(x, y, z float32) mgl32.Quat {
	return mgl32.AnglesToQuat(x, y, z, mgl32.XYZ)
}
