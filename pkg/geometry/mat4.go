package geometry

import "github.com/go-gl/mathgl/mgl64"

// Mat4 converts t to a column-major mgl64 matrix, the layout OpenGL
// style renderers expect.
func (t Transform) Mat4() mgl64.Mat4 {
	var m mgl64.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m.Set(row, col, t.m[row][col])
		}
	}
	return m
}

// FromMat4 converts a column-major mgl64 matrix to a Transform.
func FromMat4(m mgl64.Mat4) Transform {
	var t Transform
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			t.m[row][col] = m.At(row, col)
		}
	}
	return t
}
