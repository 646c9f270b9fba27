package scene

import (
	"github.com/vanryn/go-whitted-raytracer/pkg/core"
	"github.com/vanryn/go-whitted-raytracer/pkg/geometry"
	"github.com/vanryn/go-whitted-raytracer/pkg/lights"
)

// Scene owns the shapes and lights to render. It is built once by a scene
// constructor or the loader, then read-only while rendering, so it may be
// shared across render workers without synchronization.
type Scene struct {
	Shapes []*geometry.Shape
	Lights []lights.Light
}

// New creates an empty scene
func New() *Scene {
	return &Scene{}
}

// AddShape appends a shape to the scene
func (s *Scene) AddShape(shape *geometry.Shape) {
	s.Shapes = append(s.Shapes, shape)
}

// AddLight appends a light to the scene
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// Intersect collects every shape's intersections with the ray, discards
// those at or behind the origin, and returns the rest sorted ascending
// by t.
func (s *Scene) Intersect(ray core.Ray) geometry.Intersections {
	var xs geometry.Intersections
	for _, shape := range s.Shapes {
		for _, x := range shape.Intersect(ray) {
			if x.T > core.Epsilon {
				xs = append(xs, x)
			}
		}
	}
	xs.Sort()
	return xs
}

// IsShadowed reports whether any shadow-casting shape blocks the segment
// from the given point to a light sample position. Shapes with the shadow
// flag cleared never block.
func (s *Scene) IsShadowed(point, lightPosition core.Tuple) bool {
	toLight := lightPosition.Subtract(point)
	distance := toLight.Magnitude()
	direction, err := toLight.Normalize()
	if err != nil {
		// The point is on the light itself
		return false
	}

	ray := core.NewRay(point, direction)
	for _, x := range s.Intersect(ray) {
		if x.T < distance && x.Shape.Shadow {
			return true
		}
	}
	return false
}
