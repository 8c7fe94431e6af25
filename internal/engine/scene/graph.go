// Package scene holds the hierarchical scene graph used by the game.
//
// Nodes live in a single arena owned by a Graph and are addressed by NodeID.
// A node is owned by exactly one parent; nodes are only ever attached to an
// existing parent, so the hierarchy is a forest of trees and never cyclic.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/bouncer/pkg/math"
)

// NodeID addresses a node inside a Graph.
type NodeID int32

// NoNode marks an absent subtree, e.g. a scene that failed to import.
const NoNode NodeID = -1

// ErrNoSuchNode is returned when a NodeID does not address a node.
var ErrNoSuchNode = errors.New("scene: no such node")

// Kind discriminates the payload carried by a Node.
type Kind uint8

const (
	KindGeneric Kind = iota
	KindGeometry
	KindJoint
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindGeometry:
		return "geometry"
	case KindJoint:
		return "joint"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Material describes the Phong surface of a geometry node.
type Material struct {
	Kd        math.Vec3
	Ks        math.Vec3
	Shininess float32
}

// DefaultMaterial is used when a scene file omits the material block.
func DefaultMaterial() Material {
	return Material{
		Kd:        math.Vec3{X: 0.7, Y: 0.7, Z: 0.7},
		Ks:        math.Vec3{X: 0.3, Y: 0.3, Z: 0.3},
		Shininess: 20,
	}
}

// Geometry is the payload of a KindGeometry node.
type Geometry struct {
	Mesh     string // key into the mesh registry
	Material Material
}

// Node is a single entry in the graph. Geometry is meaningful only for
// KindGeometry nodes and Joint only for KindJoint nodes.
type Node struct {
	Name     string
	Kind     Kind
	Local    math.Mat4
	Parent   NodeID
	Children []NodeID

	Geometry Geometry
	Joint    Joint
}

// Graph is the arena that owns every node.
type Graph struct {
	nodes []Node
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make([]Node, 0, 64)}
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Valid reports whether id addresses a node.
func (g *Graph) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Node returns the node addressed by id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if !g.Valid(id) {
		return nil
	}
	return &g.nodes[id]
}

// Add attaches n under parent and returns its id. Passing NoNode as parent
// creates a new root.
func (g *Graph) Add(parent NodeID, n Node) (NodeID, error) {
	if parent != NoNode && !g.Valid(parent) {
		return NoNode, fmt.Errorf("add %q under %d: %w", n.Name, parent, ErrNoSuchNode)
	}

	id := NodeID(len(g.nodes))
	n.Parent = parent
	n.Children = nil
	if n.Kind == KindJoint {
		n.Joint.rest = n.Local
	}
	g.nodes = append(g.nodes, n)
	if parent != NoNode {
		g.nodes[parent].Children = append(g.nodes[parent].Children, id)
	}
	return id, nil
}

// Local returns the local transform of id, or identity for an invalid id.
func (g *Graph) Local(id NodeID) math.Mat4 {
	if !g.Valid(id) {
		return math.Identity()
	}
	return g.nodes[id].Local
}

// SetLocal replaces the local transform of id.
func (g *Graph) SetLocal(id NodeID, m math.Mat4) error {
	if !g.Valid(id) {
		return fmt.Errorf("set local %d: %w", id, ErrNoSuchNode)
	}
	g.nodes[id].Local = m
	return nil
}

// Find returns the first node named name in the subtree rooted at root,
// searching parents before children.
func (g *Graph) Find(root NodeID, name string) NodeID {
	found := NoNode
	g.Each(root, func(id NodeID, n *Node) bool {
		if n.Name == name {
			found = id
			return false
		}
		return true
	})
	return found
}

// Each calls fn for every node of the subtree in pre-order. Returning false
// from fn stops the traversal.
func (g *Graph) Each(root NodeID, fn func(id NodeID, n *Node) bool) {
	if !g.Valid(root) {
		return
	}
	g.each(root, fn)
}

func (g *Graph) each(id NodeID, fn func(NodeID, *Node) bool) bool {
	if !fn(id, &g.nodes[id]) {
		return false
	}
	for _, c := range g.nodes[id].Children {
		if !g.each(c, fn) {
			return false
		}
	}
	return true
}
