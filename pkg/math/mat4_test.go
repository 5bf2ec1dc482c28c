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
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Translate after scale: the point is scaled first, then moved.
	m := Translate(10, 0, 0).Mul(UniformScale(2))
	got := m.TransformPoint([3]float32{1, 1, 1})
	want := [3]float32{12, 2, 2}
	if got != want {
		t.Errorf("T*S point: got %v, want %v", got, want)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestUniformScale(t *testing.T) {
	m := UniformScale(0.25)
	if m[0] != 0.25 || m[5] != 0.25 || m[10] != 0.25 || m[15] != 1 {
		t.Errorf("UniformScale diagonal: got (%f, %f, %f, %f)", m[0], m[5], m[10], m[15])
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint([3]float32{1, 0, 0})

	// (1,0,0) turns to (0,0,-1)
	if abs(result[0]) > 0.001 || abs(result[1]) > 0.001 || abs(result[2]+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestRotateX90(t *testing.T) {
	m := RotateX(Radians(90))
	result := m.TransformPoint([3]float32{0, 1, 0})

	// (0,1,0) turns to (0,0,1)
	if abs(result[0]) > 0.001 || abs(result[1]) > 0.001 || abs(result[2]-1) > 0.001 {
		t.Errorf("RotateX 90: got %v, want (0, 0, 1)", result)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 16.0/9.0, 0.1, 100)

	f := float32(1 / math.Tan(math.Pi/8))
	if abs(m[5]-f) > 1e-5 {
		t.Errorf("Perspective [5] = %f, want %f", m[5], f)
	}
	if abs(m[0]-f*9/16) > 1e-5 {
		t.Errorf("Perspective [0] = %f, want %f", m[0], f*9/16)
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 2}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	got := m.TransformPoint(eye.Array())
	for i, c := range got {
		if abs(c) > 1e-6 {
			t.Errorf("LookAt eye component %d = %f, want 0", i, c)
		}
	}
	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
}

func TestApproxEqual(t *testing.T) {
	a := Identity()
	b := Identity()
	b[3] = 1e-7
	if !a.ApproxEqual(b, 1e-6) {
		t.Error("expected matrices within tolerance to be equal")
	}
	b[3] = 1e-3
	if a.ApproxEqual(b, 1e-6) {
		t.Error("expected matrices outside tolerance to differ")
	}
}

func TestRadians(t *testing.T) {
	if got := Radians(180); abs(got-math.Pi) > 1e-6 {
		t.Errorf("Radians(180) = %f, want pi", got)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	if n := (Vec3{}).Normalize(); n != (Vec3{}) {
		t.Errorf("zero vector should normalize to zero, got %v", n)
	}
	l := Vec3{3, 4, 0}.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
