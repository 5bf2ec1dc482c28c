package renderer

// LightCubeHalfSize is the half edge length of the light marker cube before
// the marker scale is applied.
const LightCubeHalfSize = 0.18

// lightCube returns 36 positions (12 triangles) of an axis-aligned cube
// centered on the origin, wound counter-clockwise seen from outside.
func lightCube(h float32) []float32 {
	corners := [8][3]float32{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h}, // back
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}, // front
	}
	faces := [6][4]int{
		{4, 5, 6, 7}, // +z
		{1, 0, 3, 2}, // -z
		{5, 1, 2, 6}, // +x
		{0, 4, 7, 3}, // -x
		{7, 6, 2, 3}, // +y
		{0, 1, 5, 4}, // -y
	}

	out := make([]float32, 0, 36*3)
	for _, f := range faces {
		for _, i := range [6]int{f[0], f[1], f[2], f[0], f[2], f[3]} {
			c := corners[i]
			out = append(out, c[0], c[1], c[2])
		}
	}
	return out
}
