package scene

import (
	"fmt"

	"github.com/Faultbox/bouncer/pkg/math"
)

// JointRange bounds one rotational axis of a joint, in degrees.
type JointRange struct {
	Min, Init, Max float32
}

// Joint is the payload of a KindJoint node. CurX and CurY track the current
// angle on each axis and always stay within their range.
type Joint struct {
	X, Y       JointRange
	CurX, CurY float32

	rest math.Mat4 // local transform at the initial pose
}

// NewJoint returns a joint resting at the initial angles.
func NewJoint(x, y JointRange) Joint {
	return Joint{X: x, Y: y, CurX: x.Init, CurY: y.Init}
}

// RotateX adds angle to the X axis, clamps to the range and returns the
// delta that was actually applied.
func (j *Joint) RotateX(angle float32) float32 {
	return clampRotate(&j.CurX, j.X, angle)
}

// RotateY is RotateX for the Y axis.
func (j *Joint) RotateY(angle float32) float32 {
	return clampRotate(&j.CurY, j.Y, angle)
}

// ResetRotation restores the initial angles and returns the deltas that
// undo the current pose.
func (j *Joint) ResetRotation() (dx, dy float32) {
	dx = j.X.Init - j.CurX
	dy = j.Y.Init - j.CurY
	j.CurX, j.CurY = j.X.Init, j.Y.Init
	return dx, dy
}

func clampRotate(cur *float32, r JointRange, angle float32) float32 {
	next := *cur + angle
	switch {
	case next > r.Max:
		angle -= next - r.Max
		*cur = r.Max
	case next < r.Min:
		angle -= next - r.Min
		*cur = r.Min
	default:
		*cur = next
	}
	return angle
}

// Axis selects a joint axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// RotateJoint rotates the joint node id by degrees on axis, clamped to the
// joint's range, and folds the applied delta into the node's local
// transform. It returns the applied delta in degrees.
func (g *Graph) RotateJoint(id NodeID, axis Axis, degrees float32) (float32, error) {
	n := g.Node(id)
	if n == nil {
		return 0, fmt.Errorf("rotate joint %d: %w", id, ErrNoSuchNode)
	}
	if n.Kind != KindJoint {
		return 0, fmt.Errorf("rotate joint %q: node is %s", n.Name, n.Kind)
	}

	var applied float32
	switch axis {
	case AxisX:
		applied = n.Joint.RotateX(degrees)
		n.Local = n.Local.Mul(math.RotateX(radians(applied)))
	case AxisY:
		applied = n.Joint.RotateY(degrees)
		n.Local = n.Local.Mul(math.RotateY(radians(applied)))
	}
	return applied, nil
}

// ResetJoint returns the joint node id to its initial pose.
func (g *Graph) ResetJoint(id NodeID) error {
	n := g.Node(id)
	if n == nil {
		return fmt.Errorf("reset joint %d: %w", id, ErrNoSuchNode)
	}
	if n.Kind != KindJoint {
		return fmt.Errorf("reset joint %q: node is %s", n.Name, n.Kind)
	}
	n.Joint.ResetRotation()
	n.Local = n.Joint.rest
	return nil
}

// Joints lists the joint nodes of a subtree in pre-order.
func (g *Graph) Joints(root NodeID) []NodeID {
	var ids []NodeID
	g.Each(root, func(id NodeID, n *Node) bool {
		if n.Kind == KindJoint {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

func radians(deg float32) float32 {
	return deg * (3.14159265358979 / 180)
}
