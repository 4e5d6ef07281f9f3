// Package geometry is the vecgeo geometry kernel: 3-D point/vector
// algebra, the closed set of measurable shapes (circle, triangle,
// rectangle) and 4x4 homogeneous transforms.
//
// Every type in this package is a value type. Operations never mutate
// their receiver and never touch global state, so the package needs no
// logger, no configuration and no locking.
package geometry
