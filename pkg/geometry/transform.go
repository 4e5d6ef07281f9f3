package geometry

import (
	"fmt"
	"math"
	"strings"
)

// pivotThreshold is the smallest pivot magnitude Inverse will divide by.
const pivotThreshold = 1e-12

// mat4 is a row-major 4x4 matrix, m[row][col].
type mat4 [4][4]float64

func identity4() mat4 {
	return mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Transform is a 4x4 matrix acting on homogeneous column vectors
// [x y z 1]ᵗ. The zero value is the all-zero matrix, not the identity;
// use Identity.
type Transform struct {
	m mat4
}

// Identity returns the transform that maps every point to itself.
func Identity() Transform {
	return Transform{m: identity4()}
}

// FromRows builds a transform from row-major values.
func FromRows(rows [4][4]float64) Transform {
	return Transform{m: mat4(rows)}
}

// Translation moves points by (tx, ty, tz).
func Translation(tx, ty, tz float64) Transform {
	m := identity4()
	m[0][3] = tx
	m[1][3] = ty
	m[2][3] = tz
	return Transform{m: m}
}

// Scale scales each axis independently.
func Scale(sx, sy, sz float64) Transform {
	m := identity4()
	m[0][0] = sx
	m[1][1] = sy
	m[2][2] = sz
	return Transform{m: m}
}

// RotationX rotates by r radians about the X axis (right-handed).
func RotationX(r float64) Transform {
	c, s := math.Cos(r), math.Sin(r)
	m := identity4()
	m[1][1], m[1][2] = c, -s
	m[2][1], m[2][2] = s, c
	return Transform{m: m}
}

// RotationY rotates by r radians about the Y axis (right-handed).
func RotationY(r float64) Transform {
	c, s := math.Cos(r), math.Sin(r)
	m := identity4()
	m[0][0], m[0][2] = c, s
	m[2][0], m[2][2] = -s, c
	return Transform{m: m}
}

// RotationZ rotates by r radians about the Z axis (right-handed).
func RotationZ(r float64) Transform {
	c, s := math.Cos(r), math.Sin(r)
	m := identity4()
	m[0][0], m[0][1] = c, -s
	m[1][0], m[1][1] = s, c
	return Transform{m: m}
}

// At returns the element at row, col.
func (t Transform) At(row, col int) (float64, error) {
	if row < 0 || row > 3 || col < 0 || col > 3 {
		return 0, fmt.Errorf("at (%d, %d): %w", row, col, ErrIndexOutOfRange)
	}
	return t.m[row][col], nil
}

// Rows returns a copy of the matrix in row-major order.
func (t Transform) Rows() [4][4]float64 {
	return t.m
}

// Mul returns the matrix product t·o. Applied to a point, the result
// applies o first and then t:
//
//	t.Mul(o).Apply(p) == t.Apply(o.Apply(p))
func (t Transform) Mul(o Transform) Transform {
	var res mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				res[i][j] += t.m[i][k] * o.m[k][j]
			}
		}
	}
	return Transform{m: res}
}

// homogeneous returns m·[x y z 1]ᵗ split into its Cartesian part and w.
func (t Transform) homogeneous(p Point) (Point, float64) {
	m := &t.m
	q := Point{
		m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	return q, w
}

// Apply maps p through t, dividing by the homogeneous w component.
// For affine transforms w is 1. When w is 0 the coordinates follow IEEE
// division and come back infinite or NaN; use Project to get an error
// instead.
func (t Transform) Apply(p Point) Point {
	q, w := t.homogeneous(p)
	return Point{q.X / w, q.Y / w, q.Z / w}
}

// Project is Apply with the w == 0 case reported as ErrPointAtInfinity.
func (t Transform) Project(p Point) (Point, error) {
	q, w := t.homogeneous(p)
	if w == 0 {
		return Point{}, fmt.Errorf("project %v: %w", p, ErrPointAtInfinity)
	}
	return Point{q.X / w, q.Y / w, q.Z / w}, nil
}

// Inverse returns the inverse transform, computed by Gauss-Jordan
// elimination with partial pivoting on the augmented matrix [M | I].
// It fails with ErrSingularMatrix when the largest remaining pivot in a
// column is below 1e-12 in magnitude. Near-singular matrices above that
// threshold are inverted without further checks.
func (t Transform) Inverse() (Transform, error) {
	var aug [4][8]float64
	for i := 0; i < 4; i++ {
		copy(aug[i][:4], t.m[i][:])
		aug[i][4+i] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		if math.Abs(aug[col][col]) < pivotThreshold {
			return Transform{}, fmt.Errorf("inverse: pivot %g in column %d: %w", aug[col][col], col, ErrSingularMatrix)
		}

		div := aug[col][col]
		for j := range aug[col] {
			aug[col][j] /= div
		}

		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			for j := 0; j < 8; j++ {
				aug[row][j] -= factor * aug[col][j]
			}
		}
	}

	var inv mat4
	for i := 0; i < 4; i++ {
		copy(inv[i][:], aug[i][4:])
	}
	return Transform{m: inv}, nil
}

// Equal reports whether every element of t and o differs by less than
// tol.
func (t Transform) Equal(o Transform, tol float64) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(t.m[i][j]-o.m[i][j]) >= tol {
				return false
			}
		}
	}
	return true
}

// String renders the matrix one bracketed row per line.
func (t Transform) String() string {
	var sb strings.Builder
	for i, row := range t.m {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "[%v %v %v %v]", row[0], row[1], row[2], row[3])
	}
	return sb.String()
}
