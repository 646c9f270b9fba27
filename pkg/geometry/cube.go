package geometry

import (
	"math"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
)

// cube is the axis-aligned unit cube spanning [-1,1] on every axis
type cube struct{}

// LocalIntersect uses the slab method: intersect the ray with each axis
// pair of parallel planes and keep the tightest interval.
func (cube) LocalIntersect(ray core.Ray) []float64 {
	xtMin, xtMax := checkAxis(ray.Origin.X, ray.Direction.X)
	ytMin, ytMax := checkAxis(ray.Origin.Y, ray.Direction.Y)
	ztMin, ztMax := checkAxis(ray.Origin.Z, ray.Direction.Z)

	tMin := math.Max(xtMin, math.Max(ytMin, ztMin))
	tMax := math.Min(xtMax, math.Min(ytMax, ztMax))

	if tMin > tMax {
		return nil
	}
	return []float64{tMin, tMax}
}

// checkAxis intersects one slab. A ray parallel to the slab needs an
// explicit branch: dividing would produce NaN when the origin sits exactly
// on a slab plane (0/0).
func checkAxis(origin, direction float64) (float64, float64) {
	if math.Abs(direction) < core.Epsilon {
		// Inside the slab for all t, or never
		if origin >= -1 && origin <= 1 {
			return math.Inf(-1), math.Inf(1)
		}
		return math.Inf(1), math.Inf(-1)
	}

	tMin := (-1 - origin) / direction
	tMax := (1 - origin) / direction
	if tMin > tMax {
		return tMax, tMin
	}
	return tMin, tMax
}

// LocalNormalAt picks the axis of the largest absolute component
func (cube) LocalNormalAt(point core.Tuple) core.Tuple {
	maxC := math.Max(math.Abs(point.X), math.Max(math.Abs(point.Y), math.Abs(point.Z)))

	switch maxC {
	case math.Abs(point.X):
		return core.NewVector(point.X, 0, 0)
	case math.Abs(point.Y):
		return core.NewVector(0, point.Y, 0)
	default:
		return core.NewVector(0, 0, point.Z)
	}
}
