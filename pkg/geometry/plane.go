package geometry

import (
	"math"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
)

// plane is the local xz-plane (y = 0)
type plane struct{}

// LocalIntersect returns one root, or none when the ray is parallel to the
// plane (including rays lying in it).
func (plane) LocalIntersect(ray core.Ray) []float64 {
	if math.Abs(ray.Direction.Y) < core.Epsilon {
		return nil
	}
	return []float64{-ray.Origin.Y / ray.Direction.Y}
}

// LocalNormalAt is constant for a plane
func (plane) LocalNormalAt(core.Tuple) core.Tuple {
	return core.NewVector(0, 1, 0)
}
