// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/chazu/vecgeo/pkg/geometry"
	"github.com/chazu/vecgeo/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxProfile wraps an sdf.SDF2 lying in the plane z.
type sdfxProfile struct {
	s sdf.SDF2
	z float64
}

// Contains reports whether p is inside or on the boundary.
func (p *sdfxProfile) Contains(q geometry.Point) bool {
	return p.s.Evaluate(v2.Vec{X: q.X, Y: q.Y}) <= 0
}

// Bounds returns the bounding rectangle at the profile's Z.
func (p *sdfxProfile) Bounds() (min, max geometry.Point) {
	bb := p.s.BoundingBox()
	return geometry.Pt(bb.Min.X, bb.Min.Y, p.z), geometry.Pt(bb.Max.X, bb.Max.Y, p.z)
}

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max geometry.Point) {
	bb := s.s.BoundingBox()
	return FromVec(bb.Min), FromVec(bb.Max)
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// New returns a new SdfxKernel meshing at the default resolution.
func New() *SdfxKernel {
	return &SdfxKernel{meshCells: defaultMeshCells}
}

// NewWithCells returns a kernel whose ToMesh uses cells marching cubes
// cells along the longest axis. Non-positive values use the default.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{meshCells: cells}
}

// ToVec converts a geometry point to an sdfx vector.
func ToVec(p geometry.Point) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// FromVec converts an sdfx vector to a geometry point.
func FromVec(v v3.Vec) geometry.Point {
	return geometry.Pt(v.X, v.Y, v.Z)
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Profile builds the 2D region of a shape. sdf.Box2D and sdf.Circle2D are
// centered at the origin, so both are moved onto the shape's own center.
func (k *SdfxKernel) Profile(s geometry.Shape) (kernel.Profile, error) {
	switch sh := s.(type) {
	case geometry.Circle:
		c, err := sdf.Circle2D(sh.Radius())
		if err != nil {
			return nil, fmt.Errorf("sdfx.Circle2D: %w", err)
		}
		at := sh.Center()
		m := sdf.Translate2d(v2.Vec{X: at.X, Y: at.Y})
		return &sdfxProfile{s: sdf.Transform2D(c, m), z: at.Z}, nil

	case geometry.Rectangle:
		b := sdf.Box2D(v2.Vec{X: sh.Width(), Y: sh.Height()}, 0)
		c := sh.Centroid()
		m := sdf.Translate2d(v2.Vec{X: c.X, Y: c.Y})
		return &sdfxProfile{s: sdf.Transform2D(b, m), z: c.Z}, nil

	case geometry.Triangle:
		if sh.Degenerate() {
			return nil, fmt.Errorf("sdfx: triangle %v has no area: %w", sh.Vertices(), geometry.ErrInvalidArgument)
		}
		vs := sh.Vertices()
		poly := make([]v2.Vec, 0, len(vs))
		for _, v := range vs {
			poly = append(poly, v2.Vec{X: v.X, Y: v.Y})
		}
		p, err := sdf.Polygon2D(poly)
		if err != nil {
			return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
		}
		return &sdfxProfile{s: p, z: sh.Centroid().Z}, nil
	}
	return nil, fmt.Errorf("sdfx: unsupported shape %T", s)
}

// Extrude sweeps the profile along +Z. sdf.Extrude3D is centered on z=0,
// so the result is lifted by half the height plus the profile's Z.
func (k *SdfxKernel) Extrude(p kernel.Profile, height float64) (kernel.Solid, error) {
	if height <= 0 {
		return nil, fmt.Errorf("sdfx: extrude height %v must be positive: %w", height, geometry.ErrInvalidArgument)
	}
	prof, ok := p.(*sdfxProfile)
	if !ok {
		return nil, fmt.Errorf("sdfx: profile %T was not built by this kernel", p)
	}
	return k.Translate(wrap(sdf.Extrude3D(prof.s, height)), 0, 0, prof.z+height/2), nil
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: marching cubes produced no triangles at %d cells", k.meshCells)
	}

	numVerts := len(triangles) * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
