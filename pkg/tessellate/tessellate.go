// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per placement.
package tessellate

import (
	"fmt"

	"github.com/chazu/vecgeo/pkg/geometry"
	"github.com/chazu/vecgeo/pkg/kernel"
	"github.com/chazu/vecgeo/pkg/scene"
)

// Tessellate produces one triangle mesh per placement in the scene, in
// placement order. The tessellator is read-only and never mutates the
// scene.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	return TessellateUnder(s, k, geometry.Identity())
}

// TessellateUnder is Tessellate with every placement additionally mapped
// through world, applied after the placement's own transform.
func TessellateUnder(s *scene.Scene, k kernel.Kernel, world geometry.Transform) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	meshes := make([]*kernel.Mesh, 0, len(s.Placements))
	for i, p := range s.Placements {
		mesh, err := placementMesh(s, k, p, world)
		if err != nil {
			return nil, fmt.Errorf("tessellate: placement %d (%s): %w", i+1, p.Shape, err)
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// placementMesh extrudes the placed shape's profile and maps the result
// through world·placement.
func placementMesh(s *scene.Scene, k kernel.Kernel, p scene.Placement, world geometry.Transform) (*kernel.Mesh, error) {
	sh := s.Shape(p.Shape)
	if sh == nil {
		return nil, fmt.Errorf("no shape named %q", p.Shape)
	}
	height := p.Height
	if height == 0 {
		height = scene.DefaultHeight
	}

	prof, err := k.Profile(sh)
	if err != nil {
		return nil, err
	}
	solid, err := k.Extrude(prof, height)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed: %w", err)
	}

	mesh = mesh.Transformed(world.Mul(p.Transform))
	mesh.Name = p.Shape
	return mesh, nil
}
