// Package kernel defines the abstract solid-modelling interface that turns
// planar geometry shapes into solids and triangle meshes. Implementations
// (sdfx) wrap their own representation behind Profile and Solid, so the
// rest of the system never imports a modelling library directly.
package kernel

import "github.com/chazu/vecgeo/pkg/geometry"

// Profile is a closed planar region in a plane parallel to XY.
type Profile interface {
	// Contains reports whether the XY projection of p lies inside the
	// region (boundary included).
	Contains(p geometry.Point) bool
	// Bounds returns the axis-aligned bounding rectangle. Both corners
	// carry the profile's Z.
	Bounds() (min, max geometry.Point)
}

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max geometry.Point)
}

// Kernel is the abstract solid-modelling backend.
type Kernel interface {
	// Profile builds the region covered by s. Circles and rectangles keep
	// their own Z; a triangle is projected onto XY at its centroid's Z.
	Profile(s geometry.Shape) (Profile, error)

	// Extrude sweeps p along +Z by height, starting at the profile's Z.
	Extrude(p Profile, height float64) (Solid, error)

	// Translate moves s by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
