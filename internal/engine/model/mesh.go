package model

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/stlview/pkg/formats"
)

// Extent returns the normalization divisor for mesh: the largest absolute
// coordinate over all vertices, never less than 1. The floor keeps small or
// degenerate meshes (all vertices at the origin) at their original size.
func Extent(mesh *formats.Mesh) float32 {
	m := float32(1)
	for _, tri := range mesh.Triangles {
		for _, v := range tri.Vertices {
			m = math32.Max(m, math32.Max(math32.Abs(v[0]), math32.Max(math32.Abs(v[1]), math32.Abs(v[2]))))
		}
	}
	return m
}

// Normalize rescales mesh into [-1, 1]^3 and derives planar texture
// coordinates from the normalized X/Y. Triangle and vertex order is preserved.
//
// Texture coordinates are a straight projection onto the XY plane, so
// surfaces facing sideways show stretched textures. Normals are copied
// unchanged, which is only correct because the scale is uniform.
func Normalize(mesh *formats.Mesh) *NormalizedModel {
	m := Extent(mesh)

	out := &NormalizedModel{
		Name:     mesh.Name,
		Vertices: make([]Vertex, 0, len(mesh.Triangles)*3),
		Extent:   m,
	}

	for _, tri := range mesh.Triangles {
		for _, p := range tri.Vertices {
			x, y, z := p[0]/m, p[1]/m, p[2]/m
			out.Vertices = append(out.Vertices, Vertex{
				Position: [3]float32{x, y, z},
				TexCoord: [2]float32{(x + 1) / 2, (y + 1) / 2},
				Normal:   tri.Normal,
			})
		}
	}

	return out
}

// Bounds returns the axis-aligned bounding box of the normalized positions.
func (m *NormalizedModel) Bounds() (lo, hi [3]float32) {
	if len(m.Vertices) == 0 {
		return lo, hi
	}
	lo = m.Vertices[0].Position
	hi = lo
	for _, v := range m.Vertices {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return lo, hi
}

// ToMesh rebuilds a triangle list from the normalized vertices, taking each
// face normal from the triangle's first vertex.
func (m *NormalizedModel) ToMesh() *formats.Mesh {
	mesh := &formats.Mesh{
		Name:      m.Name,
		Triangles: make([]formats.Triangle, 0, m.TriangleCount()),
	}
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		mesh.Triangles = append(mesh.Triangles, formats.Triangle{
			Normal:   t[0].Normal,
			Vertices: [3][3]float32{t[0].Position, t[1].Position, t[2].Position},
		})
	}
	return mesh
}
