package geometry

import (
	"sort"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
	"github.com/vanryn/go-whitted-raytracer/pkg/material"
)

// Surface is the closed set of local-space shape variants. Each variant
// implements intersection and normal computation in its own object space;
// the Shape wrapper handles the world/object transform on both sides.
type Surface interface {
	// LocalIntersect returns the ray parameters where the local-space ray
	// meets the surface, in ascending order
	LocalIntersect(localRay core.Ray) []float64
	// LocalNormalAt returns the surface normal at a local-space point
	LocalNormalAt(localPoint core.Tuple) core.Tuple
}

// Shape is a surface instance with an object-to-world transform, a material
// and a shadow-casting flag. Shapes are immutable once a scene is built.
type Shape struct {
	surface          Surface
	transform        core.Matrix
	inverse          core.Matrix
	inverseTranspose core.Matrix

	Material material.Material
	Shadow   bool
}

func newShape(surface Surface) *Shape {
	return &Shape{
		surface:          surface,
		transform:        core.Identity(),
		inverse:          core.Identity(),
		inverseTranspose: core.Identity(),
		Material:         material.NewMaterial(),
		Shadow:           true,
	}
}

// NewSphere creates a unit sphere at the origin
func NewSphere() *Shape {
	return newShape(sphere{})
}

// NewGlassSphere creates a unit sphere with a glass material
func NewGlassSphere() *Shape {
	s := NewSphere()
	s.Material = material.NewGlassMaterial()
	return s
}

// NewPlane creates the local xz-plane
func NewPlane() *Shape {
	return newShape(plane{})
}

// NewCube creates the unit cube spanning [-1,1] on every axis
func NewCube() *Shape {
	return newShape(cube{})
}

// SetTransform sets the object-to-world transform, caching its inverse. It
// fails if the matrix is not invertible.
func (s *Shape) SetTransform(m core.Matrix) error {
	inv, err := m.Inverse()
	if err != nil {
		return err
	}
	s.transform = m
	s.inverse = inv
	s.inverseTranspose = inv.Transpose()
	return nil
}

// Transform returns the object-to-world transform
func (s *Shape) Transform() core.Matrix {
	return s.transform
}

// Inverse returns the cached world-to-object transform
func (s *Shape) Inverse() core.Matrix {
	return s.inverse
}

// Intersect transforms the world ray into object space and collects the
// surface's intersections. The reported t values are along the original
// world ray's parameterization.
func (s *Shape) Intersect(worldRay core.Ray) Intersections {
	localRay := worldRay.Transform(s.inverse)
	ts := s.surface.LocalIntersect(localRay)

	xs := make(Intersections, 0, len(ts))
	for _, t := range ts {
		xs = append(xs, Intersection{T: t, Shape: s})
	}
	return xs
}

// NormalAt returns the world-space surface normal at a world-space point.
// The local normal is transformed by the inverse transpose, the w component
// zeroed to discard translation contamination, then renormalized.
func (s *Shape) NormalAt(worldPoint core.Tuple) core.Tuple {
	localPoint := s.inverse.MultiplyTuple(worldPoint)
	localNormal := s.surface.LocalNormalAt(localPoint)

	worldNormal := s.inverseTranspose.MultiplyTuple(localNormal)
	worldNormal.W = 0
	return worldNormal.MustNormalize()
}

// Intersection pairs a ray parameter with the shape it was found on
type Intersection struct {
	T     float64
	Shape *Shape
}

// Intersections is a list of intersections along one ray
type Intersections []Intersection

// Sort orders the intersections ascending by t
func (xs Intersections) Sort() {
	sort.Slice(xs, func(i, j int) bool { return xs[i].T < xs[j].T })
}

// Hit returns the intersection with the lowest non-negative t, which is the
// visible surface. The second return is false when every intersection lies
// behind the ray.
func (xs Intersections) Hit() (Intersection, bool) {
	best := Intersection{}
	found := false
	for _, x := range xs {
		if x.T < 0 {
			continue
		}
		if !found || x.T < best.T {
			best = x
			found = true
		}
	}
	return best, found
}
