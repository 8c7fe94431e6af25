// Package camera provides the first-person camera that rides on the player.
package camera

import (
	gomath "math"

	"github.com/Faultbox/bouncer/pkg/math"
)

// FirstPerson keeps the view and projection of the current frame together
// with the previous frame's, which the motion blur pass reprojects against.
//
// The view is kept equal to the inverse of the player's transform: the
// player node moves in its own frame while the view moves the world the
// opposite way.
type FirstPerson struct {
	View     math.Mat4
	Proj     math.Mat4
	PrevView math.Mat4
	PrevProj math.Mat4

	FovY float32 // radians
	Near float32
	Far  float32
}

// NewFirstPerson returns a camera looking out of player.
func NewFirstPerson(player math.Mat4, fovDegrees, aspect, near, far float32) *FirstPerson {
	c := &FirstPerson{
		View: player.Inverse(),
		FovY: fovDegrees * gomath.Pi / 180,
		Near: near,
		Far:  far,
	}
	c.SetAspect(aspect)
	c.Snapshot()
	return c
}

// SetAspect rebuilds the projection for a new viewport aspect ratio.
func (c *FirstPerson) SetAspect(aspect float32) {
	if aspect <= 0 {
		aspect = 1
	}
	c.Proj = math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Snapshot records the current view and projection as the previous frame's.
func (c *FirstPerson) Snapshot() {
	c.PrevView = c.View
	c.PrevProj = c.Proj
}

// Translate moves the view by v in camera space.
func (c *FirstPerson) Translate(v math.Vec3) {
	c.View = math.Translate(v).Mul(c.View)
}

// Look turns the player by a pointer delta: pitch about the player's local
// X axis first, then yaw about its local Y axis. sensitivity divides the
// pixel delta into radians. Each rotation is applied to the player in its
// own frame, and the view is conjugated about the player's pivot so it
// stays the inverse of the player transform.
func (c *FirstPerson) Look(player *math.Mat4, dx, dy, sensitivity float32) {
	if sensitivity == 0 {
		return
	}
	if pitch := -dy / sensitivity; pitch != 0 {
		c.rotate(player, math.RotateX(pitch), math.RotateX(-pitch))
	}
	if yaw := -dx / sensitivity; yaw != 0 {
		c.rotate(player, math.RotateY(yaw), math.RotateY(-yaw))
	}
}

func (c *FirstPerson) rotate(player *math.Mat4, r, inv math.Mat4) {
	*player = player.Mul(r)
	c.View = c.View.Mul(*player).Mul(inv).Mul(player.Inverse())
}
