package scene

import (
	"fmt"

	"github.com/Faultbox/bouncer/pkg/math"
)

// VisitFunc receives a node together with its accumulated world transform.
type VisitFunc func(id NodeID, n *Node, world math.Mat4) error

// Walk traverses the subtree rooted at root depth-first. Each node's world
// transform is parentWorld * local, with base standing in for the parent of
// root. Parents are visited before their children and children in stored
// order. The first error returned by visit aborts the walk.
func (g *Graph) Walk(root NodeID, base math.Mat4, visit VisitFunc) error {
	if !g.Valid(root) {
		return fmt.Errorf("walk %d: %w", root, ErrNoSuchNode)
	}
	return g.walk(root, base, visit)
}

func (g *Graph) walk(id NodeID, parentWorld math.Mat4, visit VisitFunc) error {
	n := &g.nodes[id]
	world := parentWorld.Mul(n.Local)
	if err := visit(id, n, world); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := g.walk(c, world, visit); err != nil {
			return err
		}
	}
	return nil
}

// World returns the world transform of id by composing the locals of its
// ancestors.
func (g *Graph) World(id NodeID) math.Mat4 {
	if !g.Valid(id) {
		return math.Identity()
	}
	m := g.nodes[id].Local
	for p := g.nodes[id].Parent; p != NoNode; p = g.nodes[p].Parent {
		m = g.nodes[p].Local.Mul(m)
	}
	return m
}
