// Package debug provides debug visualization and capture utilities.
package debug

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding keeps the box lines off the model's outermost faces.
const DefaultBBoxPadding = 0.01

// BBoxWireframe returns line vertices for the box from lo to hi grown by
// padding on every side. Format: [x, y, z] per vertex, two per edge.
// Swapped corners are reordered.
func BBoxWireframe(lo, hi [3]float32, padding float32) []float32 {
	for i := 0; i < 3; i++ {
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
		lo[i] -= padding
		hi[i] += padding
	}
	minX, minY, minZ := lo[0], lo[1], lo[2]
	maxX, maxY, maxZ := hi[0], hi[1], hi[2]

	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}
