package shadow

import (
	gomath "math"

	"github.com/Faultbox/bouncer/pkg/math"
)

// cubeFaces lists the look direction and up vector of each cube map face in
// GL face order (+X, -X, +Y, -Y, +Z, -Z).
var cubeFaces = [6]struct{ dir, up math.Vec3 }{
	{math.Vec3{X: 1}, math.Vec3{Y: -1}},
	{math.Vec3{X: -1}, math.Vec3{Y: -1}},
	{math.Vec3{Y: 1}, math.Vec3{Z: 1}},
	{math.Vec3{Y: -1}, math.Vec3{Z: -1}},
	{math.Vec3{Z: 1}, math.Vec3{Y: -1}},
	{math.Vec3{Z: -1}, math.Vec3{Y: -1}},
}

// CubeFaceViews returns the six view matrices of a point light at pos.
func CubeFaceViews(pos math.Vec3) [6]math.Mat4 {
	var views [6]math.Mat4
	for i, f := range cubeFaces {
		views[i] = math.LookAt(pos, pos.Add(f.dir), f.up)
	}
	return views
}

// CubeProjection is the 90 degree, square projection shared by every face.
func CubeProjection(near, far float32) math.Mat4 {
	return math.Perspective(gomath.Pi/2, 1, near, far)
}

// FaceMatrices combines the projection with each face view.
func FaceMatrices(proj math.Mat4, views [6]math.Mat4) [6]math.Mat4 {
	var out [6]math.Mat4
	for i, v := range views {
		out[i] = proj.Mul(v)
	}
	return out
}
