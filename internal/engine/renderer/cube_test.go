package renderer

import (
	"testing"

	"github.com/Faultbox/stlview/pkg/math"
)

func TestLightCube(t *testing.T) {
	verts := lightCube(LightCubeHalfSize)
	if len(verts) != 36*3 {
		t.Fatalf("got %d floats, want %d", len(verts), 36*3)
	}

	for i, v := range verts {
		if v != LightCubeHalfSize && v != -LightCubeHalfSize {
			t.Fatalf("component %d = %v, not on the cube surface", i, v)
		}
	}

	// Every triangle's normal points away from the center.
	for tri := 0; tri < 12; tri++ {
		at := func(k int) math.Vec3 {
			o := (tri*3 + k) * 3
			return math.Vec3{X: verts[o], Y: verts[o+1], Z: verts[o+2]}
		}
		a, b, c := at(0), at(1), at(2)
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Errorf("triangle %d winds inward", tri)
		}
	}
}
