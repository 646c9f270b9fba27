package geometry

import (
	"math"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
)

// sphere is the unit sphere centered at the local origin
type sphere struct{}

// LocalIntersect solves the quadratic from the ray-sphere substitution and
// returns 0, 1 (tangent counted twice) or 2 roots in ascending order.
func (sphere) LocalIntersect(ray core.Ray) []float64 {
	// Vector from sphere center to ray origin
	sphereToRay := ray.Origin.Subtract(core.NewPoint(0, 0, 0))

	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(sphereToRay)
	c := sphereToRay.Dot(sphereToRay) - 1

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return nil
	}

	sqrtD := math.Sqrt(discriminant)
	return []float64{
		(-b - sqrtD) / (2 * a),
		(-b + sqrtD) / (2 * a),
	}
}

// LocalNormalAt returns the vector from the center to the point
func (sphere) LocalNormalAt(point core.Tuple) core.Tuple {
	return point.Subtract(core.NewPoint(0, 0, 0))
}
