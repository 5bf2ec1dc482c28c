// Package model turns parsed meshes into flat, normalized vertex lists ready
// for GPU upload.
package model

// Vertex is one corner of a renderable triangle.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
	Normal   [3]float32
}

// VertexStride is the size of a Vertex in bytes as laid out in a vertex buffer.
const VertexStride = 8 * 4

// NormalizedModel is a non-indexed triangle list. Entries 3i, 3i+1 and 3i+2
// form triangle i, in source order; the order fixes winding.
//
// A NormalizedModel is never modified after Normalize returns it, so it can be
// shared between goroutines without locking.
type NormalizedModel struct {
	Name     string
	Vertices []Vertex
	// Extent is the divisor applied to every position: the largest absolute
	// coordinate of the source mesh, floored at 1.
	Extent float32
}

// TriangleCount returns the number of triangles.
func (m *NormalizedModel) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Triangle returns the three vertices of triangle i.
func (m *NormalizedModel) Triangle(i int) [3]Vertex {
	return [3]Vertex{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}
