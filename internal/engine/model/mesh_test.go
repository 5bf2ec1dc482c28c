package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/stlview/pkg/formats"
)

func randomMesh(rng *rand.Rand, triangles int, spread float32) *formats.Mesh {
	mesh := &formats.Mesh{Name: "random"}
	for i := 0; i < triangles; i++ {
		var tri formats.Triangle
		tri.Normal = [3]float32{rng.Float32(), rng.Float32(), rng.Float32()}
		for v := 0; v < 3; v++ {
			for c := 0; c < 3; c++ {
				tri.Vertices[v][c] = (rng.Float32()*2 - 1) * spread
			}
		}
		mesh.Triangles = append(mesh.Triangles, tri)
	}
	return mesh
}

func TestNormalize_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, spread := range []float32{0.01, 0.9, 1, 7.5, 1e4} {
		out := Normalize(randomMesh(rng, 200, spread))
		for i, v := range out.Vertices {
			for c, p := range v.Position {
				require.GreaterOrEqualf(t, p, float32(-1), "spread %v vertex %d axis %d", spread, i, c)
				require.LessOrEqualf(t, p, float32(1), "spread %v vertex %d axis %d", spread, i, c)
			}
			for c, uv := range v.TexCoord {
				require.GreaterOrEqualf(t, uv, float32(0), "spread %v vertex %d uv %d", spread, i, c)
				require.LessOrEqualf(t, uv, float32(1), "spread %v vertex %d uv %d", spread, i, c)
			}
		}
	}
}

func TestNormalize_Scaling(t *testing.T) {
	mesh := &formats.Mesh{Triangles: []formats.Triangle{{
		Normal:   [3]float32{0, 0, 1},
		Vertices: [3][3]float32{{4, 0, 0}, {0, -8, 0}, {2, 2, 6}},
	}}}

	out := Normalize(mesh)

	assert.Equal(t, float32(8), out.Extent)
	require.Len(t, out.Vertices, 3)
	assert.Equal(t, [3]float32{0.5, 0, 0}, out.Vertices[0].Position)
	assert.Equal(t, [3]float32{0, -1, 0}, out.Vertices[1].Position)
	assert.Equal(t, [3]float32{0.25, 0.25, 0.75}, out.Vertices[2].Position)

	assert.Equal(t, [2]float32{0.75, 0.5}, out.Vertices[0].TexCoord)
	assert.Equal(t, [2]float32{0.5, 0}, out.Vertices[1].TexCoord)
	assert.Equal(t, [2]float32{0.625, 0.625}, out.Vertices[2].TexCoord)

	for _, v := range out.Vertices {
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal, "normals pass through unscaled")
	}
}

func TestNormalize_PreservesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	mesh := randomMesh(rng, 50, 3)

	out := Normalize(mesh)
	require.Equal(t, 3*len(mesh.Triangles), len(out.Vertices))
	require.Equal(t, len(mesh.Triangles), out.TriangleCount())

	m := out.Extent
	for i, tri := range mesh.Triangles {
		got := out.Triangle(i)
		for v := 0; v < 3; v++ {
			want := tri.Vertices[v]
			assert.Equal(t, [3]float32{want[0] / m, want[1] / m, want[2] / m}, got[v].Position,
				"triangle %d vertex %d", i, v)
			assert.Equal(t, tri.Normal, got[v].Normal)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	first := Normalize(randomMesh(rng, 40, 25))

	second := Normalize(first.ToMesh())

	assert.Equal(t, float32(1), second.Extent)
	assert.Equal(t, first.Vertices, second.Vertices)
}

func TestNormalize_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		mesh *formats.Mesh
	}{
		{
			name: "all at origin",
			mesh: &formats.Mesh{Triangles: []formats.Triangle{{}, {}}},
		},
		{
			name: "single point",
			mesh: &formats.Mesh{Triangles: []formats.Triangle{{
				Vertices: [3][3]float32{{0.5, -0.25, 0.1}, {0.5, -0.25, 0.1}, {0.5, -0.25, 0.1}},
			}}},
		},
		{
			name: "empty mesh",
			mesh: &formats.Mesh{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.mesh)
			assert.Equal(t, float32(1), out.Extent)
			require.Len(t, out.Vertices, 3*len(tt.mesh.Triangles))
			for i, tri := range tt.mesh.Triangles {
				got := out.Triangle(i)
				for v := 0; v < 3; v++ {
					assert.Equal(t, tri.Vertices[v], got[v].Position)
				}
			}
		})
	}
}

func TestExtent(t *testing.T) {
	mesh := &formats.Mesh{Triangles: []formats.Triangle{{
		Vertices: [3][3]float32{{0, 0, -12.5}, {3, 0, 0}, {0, 9, 0}},
	}}}
	assert.Equal(t, float32(12.5), Extent(mesh))
	assert.Equal(t, float32(1), Extent(&formats.Mesh{}))
}

func TestNormalizedModelBounds(t *testing.T) {
	mesh := &formats.Mesh{Triangles: []formats.Triangle{{
		Vertices: [3][3]float32{{-2, 0, 0}, {1, 4, 0}, {0, 0, 3}},
	}}}
	lo, hi := Normalize(mesh).Bounds()
	assert.Equal(t, [3]float32{-0.5, 0, 0}, lo)
	assert.Equal(t, [3]float32{0.25, 1, 0.75}, hi)
}
