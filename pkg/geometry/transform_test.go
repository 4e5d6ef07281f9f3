package geometry_test

import (
	"math"
	"testing"

	"github.com/chazu/vecgeo/pkg/geometry"
	"github.com/stretchr/testify/require"
)

func sampleTransforms() map[string]geometry.Transform {
	return map[string]geometry.Transform{
		"identity":    geometry.Identity(),
		"translation": geometry.Translation(1, 2, 3),
		"scale":       geometry.Scale(2, -3, 0.5),
		"rotX":        geometry.RotationX(math.Pi / 4),
		"rotY":        geometry.RotationY(-1.1),
		"rotZ":        geometry.RotationZ(2.5),
		"combined":    geometry.Translation(1, 2, 3).Mul(geometry.RotationX(math.Pi / 4)),
		"projective": geometry.FromRows([4][4]float64{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0.25, 1},
		}),
	}
}

func TestIdentityLaw(t *testing.T) {
	id := geometry.Identity()
	for _, p := range samplePoints {
		require.True(t, id.Apply(p).Equal(p), "identity moved %v", p)
	}
}

func TestTranslation(t *testing.T) {
	got := geometry.Translation(1, 2, 3).Apply(geometry.Pt(3, 4, 0))
	require.True(t, got.Equal(geometry.Pt(4, 6, 3)), "got %v", got)
}

func TestScale(t *testing.T) {
	got := geometry.Scale(2, 3, 4).Apply(geometry.Pt(1, 1, 1))
	require.True(t, got.Equal(geometry.Pt(2, 3, 4)), "got %v", got)
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		tr   geometry.Transform
		in   geometry.Point
		want geometry.Point
	}{
		{"x quarter turn", geometry.RotationX(math.Pi / 2), geometry.Pt(0, 1, 0), geometry.Pt(0, 0, 1)},
		{"y quarter turn", geometry.RotationY(math.Pi / 2), geometry.Pt(0, 0, 1), geometry.Pt(1, 0, 0)},
		{"z quarter turn", geometry.RotationZ(math.Pi / 2), geometry.Pt(1, 0, 0), geometry.Pt(0, 1, 0)},
		{"x eighth turn", geometry.RotationX(math.Pi / 4), geometry.Pt(3, 4, 0), geometry.Pt(3, 4/math.Sqrt2, 4/math.Sqrt2)},
		{"full turn", geometry.RotationZ(2 * math.Pi), geometry.Pt(1, 2, 3), geometry.Pt(1, 2, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tr.Apply(tt.in)
			require.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestMulOrder(t *testing.T) {
	tr := geometry.Translation(1, 2, 3)
	rx := geometry.RotationX(math.Pi / 4)
	p := geometry.Pt(3, 4, 0)

	require.True(t, tr.Mul(rx).Apply(p).Equal(tr.Apply(rx.Apply(p))))
	require.True(t, rx.Mul(tr).Apply(p).Equal(rx.Apply(tr.Apply(p))))
	require.False(t, tr.Mul(rx).Apply(p).Equal(rx.Mul(tr).Apply(p)), "composition should not commute here")
}

func TestMulAssociative(t *testing.T) {
	a := geometry.Translation(1, -2, 0.5)
	b := geometry.RotationY(0.7)
	c := geometry.Scale(2, 1, 3)
	for _, p := range samplePoints {
		left := a.Mul(b).Mul(c).Apply(p)
		right := a.Mul(b.Mul(c)).Apply(p)
		require.True(t, left.ApproxEqual(right, 1e-9*(1+p.Length())), "%v vs %v", left, right)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	for name, tr := range sampleTransforms() {
		t.Run(name, func(t *testing.T) {
			inv, err := tr.Inverse()
			require.NoError(t, err)
			require.True(t, tr.Mul(inv).Equal(geometry.Identity(), 1e-12))

			for _, p := range samplePoints[:5] {
				got := inv.Apply(tr.Apply(p))
				require.True(t, got.Equal(p), "round trip of %v gave %v", p, got)
			}
		})
	}
}

func TestInverseCombinedExample(t *testing.T) {
	tr := geometry.Translation(1, 2, 3).Mul(geometry.RotationX(math.Pi / 4))
	p := geometry.Pt(3, 4, 0)
	inv, err := tr.Inverse()
	require.NoError(t, err)
	require.True(t, inv.Apply(tr.Apply(p)).Equal(p))
}

func TestInverseNeedsPivoting(t *testing.T) {
	// Zero on the leading diagonal: fails without row swaps.
	swap := geometry.FromRows([4][4]float64{
		{0, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	})
	inv, err := swap.Inverse()
	require.NoError(t, err)
	require.True(t, inv.Equal(swap, 1e-15))
}

func TestInverseSingular(t *testing.T) {
	tests := map[string]geometry.Transform{
		"zero":       geometry.FromRows([4][4]float64{}),
		"zero value": {},
		"flatten":    geometry.Scale(1, 1, 0),
		"tiny":       geometry.Scale(1e-13, 1, 1),
	}
	for name, tr := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tr.Inverse()
			require.ErrorIs(t, err, geometry.ErrSingularMatrix)
		})
	}
}

func TestApplyPerspectiveDivision(t *testing.T) {
	proj := sampleTransforms()["projective"]
	got := proj.Apply(geometry.Pt(2, 4, 4))
	require.True(t, got.Equal(geometry.Pt(1, 2, 2)), "got %v", got)
}

func TestProjectPointAtInfinity(t *testing.T) {
	proj := geometry.FromRows([4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 1, 0},
	})
	_, err := proj.Project(geometry.Pt(0, 0, 0))
	require.ErrorIs(t, err, geometry.ErrPointAtInfinity)

	got, err := proj.Project(geometry.Pt(2, 4, 2))
	require.NoError(t, err)
	require.True(t, got.Equal(geometry.Pt(1, 2, 1)))

	// Apply stays total and reports the IEEE result.
	inf := proj.Apply(geometry.Pt(1, 0, 0))
	require.True(t, math.IsInf(inf.X, 1))
}

func TestAt(t *testing.T) {
	tr := geometry.Translation(7, 8, 9)
	v, err := tr.At(0, 3)
	require.NoError(t, err)
	require.Equal(t, 7.0, v)

	v, err = tr.At(3, 3)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)

	for _, rc := range [][2]int{{-1, 0}, {0, 4}, {4, 4}} {
		_, err := tr.At(rc[0], rc[1])
		require.ErrorIs(t, err, geometry.ErrIndexOutOfRange)
	}
}

func TestRowsIsCopy(t *testing.T) {
	tr := geometry.Identity()
	rows := tr.Rows()
	rows[0][0] = 42
	v, err := tr.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestTransformString(t *testing.T) {
	want := "[1 0 0 1]\n[0 1 0 2]\n[0 0 1 3]\n[0 0 0 1]"
	require.Equal(t, want, geometry.Translation(1, 2, 3).String())
}
