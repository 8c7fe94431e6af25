package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I = %v, want %v", result, m)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v, want (5, 10, 15)", got)
	}
}

func TestTransformVec3(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"translate", Translate(Vec3{10, 20, 30}), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", ScaleUniform(2), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
		{"rotateY90", RotateY(math.Pi / 2), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{"rotateX90", RotateX(math.Pi / 2), Vec3{0, 1, 0}, Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformVec3(tt.in)
			if got.Distance(tt.want) > 1e-5 {
				t.Errorf("TransformVec3(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformDirIgnoresTranslation(t *testing.T) {
	m := Translate(Vec3{7, 8, 9})
	if got := m.TransformDir(Vec3{0, 0, 1}); got != (Vec3{0, 0, 1}) {
		t.Errorf("TransformDir = %v, want (0, 0, 1)", got)
	}
}

func TestRotateAxisMatchesRotateY(t *testing.T) {
	a := RotateAxis(Vec3{0, 2, 0}, 0.7)
	b := RotateY(0.7)
	if !a.ApproxEqual(b, 1e-6) {
		t.Errorf("RotateAxis(Y) = %v, want %v", a, b)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(math.Pi/3, 1, 0.1, 100)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 20}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	if got := m.TransformVec3(eye); got.Length() > 1e-5 {
		t.Errorf("LookAt eye maps to %v, want origin", got)
	}
	want := Translate(Vec3{0, 0, -20})
	if !m.ApproxEqual(want, 1e-6) {
		t.Errorf("LookAt = %v, want %v", m, want)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(Vec3{1, -2, 3}).Mul(RotateY(0.4)).Mul(ScaleUniform(2))
	got := m.Mul(m.Inverse())
	if !got.ApproxEqual(Identity(), 1e-5) {
		t.Errorf("M * M^-1 = %v, want identity", got)
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	if zero.Inverse() != Identity() {
		t.Error("Inverse of singular matrix should be identity")
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose moved translation to %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("Transpose twice should be a no-op")
	}
}

func TestNormalMatrix(t *testing.T) {
	tests := []struct {
		name  string
		view  Mat4
		model Mat4
		in    Vec3
		want  Vec3
	}{
		{"identity", Identity(), Identity(), Vec3{0, 1, 0}, Vec3{0, 1, 0}},
		{"translation ignored", Translate(Vec3{0, 0, -20}), Translate(Vec3{5, 5, 5}), Vec3{1, 0, 0}, Vec3{1, 0, 0}},
		{"rotation kept", Identity(), RotateY(math.Pi / 2), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		// non-uniform scale squashes Y, normals must tilt toward Y
		{"scale inverse", Identity(), Scale(Vec3{1, 0.5, 1}), Vec3{0, 1, 0}, Vec3{0, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NormalMatrix(tt.view, tt.model)
			got := Vec3{
				n[0]*tt.in.X + n[3]*tt.in.Y + n[6]*tt.in.Z,
				n[1]*tt.in.X + n[4]*tt.in.Y + n[7]*tt.in.Z,
				n[2]*tt.in.X + n[5]*tt.in.Y + n[8]*tt.in.Z,
			}
			if got.Distance(tt.want) > 1e-5 {
				t.Errorf("NormalMatrix * %v = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMat3Inverse(t *testing.T) {
	m := RotateX(0.3).Mul(Scale(Vec3{2, 3, 4})).Mat3()
	inv := m.Inverse()
	// m * inv in column-major
	var p Mat3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			p[c*3+r] = m[0*3+r]*inv[c*3+0] + m[1*3+r]*inv[c*3+1] + m[2*3+r]*inv[c*3+2]
		}
	}
	id := Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
	for i := range p {
		if abs(p[i]-id[i]) > 1e-5 {
			t.Fatalf("M * M^-1 = %v, want identity", p)
		}
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
