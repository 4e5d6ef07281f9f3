package geometry

import "errors"

var (
	// ErrInvalidArgument is returned when a shape is constructed with a
	// non-positive dimension.
	ErrInvalidArgument = errors.New("geometry: invalid argument")

	// ErrDomain is returned when an operation is undefined for its input,
	// such as normalizing a zero-length vector.
	ErrDomain = errors.New("geometry: domain error")

	// ErrSingularMatrix is returned by Transform.Inverse when elimination
	// meets a pivot too small to divide by.
	ErrSingularMatrix = errors.New("geometry: transform matrix is singular")

	// ErrPointAtInfinity is returned by Transform.Project when the
	// homogeneous w component of the result is zero.
	ErrPointAtInfinity = errors.New("geometry: point maps to infinity")

	// ErrIndexOutOfRange is returned by Transform.At for a row or column
	// outside 0..3.
	ErrIndexOutOfRange = errors.New("geometry: matrix index out of range")
)
