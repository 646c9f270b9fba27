package scene

import (
	"math"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
	"github.com/vanryn/go-whitted-raytracer/pkg/geometry"
	"github.com/vanryn/go-whitted-raytracer/pkg/lights"
	"github.com/vanryn/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates the canonical two-sphere scene lit by a single
// point light. Shading and renderer tests lean on its exact values.
func NewDefaultScene() *Scene {
	s := New()
	s.AddLight(lights.NewPointLight(core.NewPoint(-10, 10, -10), core.White))

	s1 := geometry.NewSphere()
	s1.Material.Color = core.NewColor(0.8, 1.0, 0.6)
	s1.Material.Diffuse = 0.7
	s1.Material.Specular = 0.2
	s.AddShape(s1)

	s2 := geometry.NewSphere()
	if err := s2.SetTransform(core.Scaling(0.5, 0.5, 0.5)); err != nil {
		panic(err)
	}
	s.AddShape(s2)

	return s
}

// NewShowcaseScene creates a scene exercising the full feature set:
// patterned floor and backdrop, a reflective sphere, a glass sphere and a
// rotated cube under an area light.
func NewShowcaseScene() *Scene {
	s := New()

	s.AddLight(lights.NewAreaLight(
		core.NewPoint(-4, 8, -6),
		core.NewVector(2, 0, 0), 4,
		core.NewVector(0, 2, 0), 4,
		true,
		core.NewColor(1, 1, 1),
	))

	floor := geometry.NewPlane()
	checkers, err := material.NewCheckersPattern(
		core.NewColor(0.85, 0.85, 0.85),
		core.NewColor(0.2, 0.2, 0.25),
		core.Identity(),
	)
	if err != nil {
		panic(err)
	}
	floor.Material.Pattern = checkers
	floor.Material.Specular = 0.1
	floor.Material.Reflective = 0.15
	s.AddShape(floor)

	backdrop := geometry.NewPlane()
	if err := backdrop.SetTransform(core.Compose(
		core.RotationX(math.Pi/2),
		core.Translation(0, 0, 12),
	)); err != nil {
		panic(err)
	}
	ring, err := material.NewRingPattern(
		core.NewColor(0.6, 0.6, 0.75),
		core.NewColor(0.3, 0.3, 0.4),
		core.Scaling(2, 2, 2),
	)
	if err != nil {
		panic(err)
	}
	backdrop.Material.Pattern = ring
	backdrop.Material.Specular = 0
	s.AddShape(backdrop)

	mirror := geometry.NewSphere()
	if err := mirror.SetTransform(core.Translation(-2.2, 1, 1.5)); err != nil {
		panic(err)
	}
	mirror.Material.Color = core.NewColor(0.1, 0.1, 0.1)
	mirror.Material.Diffuse = 0.3
	mirror.Material.Specular = 1
	mirror.Material.Shininess = 300
	mirror.Material.Reflective = 0.9
	s.AddShape(mirror)

	glass := geometry.NewGlassSphere()
	if err := glass.SetTransform(core.Translation(0.4, 1, -1)); err != nil {
		panic(err)
	}
	glass.Material.Color = core.NewColor(0.05, 0.05, 0.05)
	glass.Material.Diffuse = 0.1
	glass.Material.Specular = 1
	glass.Material.Shininess = 300
	glass.Material.Reflective = 0.9
	s.AddShape(glass)

	cube := geometry.NewCube()
	if err := cube.SetTransform(core.Compose(
		core.Scaling(0.7, 0.7, 0.7),
		core.RotationY(math.Pi/5),
		core.Translation(2.6, 0.7, 2.5),
	)); err != nil {
		panic(err)
	}
	stripes, err := material.NewStripePattern(
		core.NewColor(0.9, 0.4, 0.2),
		core.NewColor(0.6, 0.2, 0.1),
		core.Scaling(0.25, 0.25, 0.25),
	)
	if err != nil {
		panic(err)
	}
	cube.Material.Pattern = stripes
	s.AddShape(cube)

	return s
}
