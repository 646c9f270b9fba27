package renderer

import (
	"math"
	"math/rand"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
	"github.com/vanryn/go-whitted-raytracer/pkg/geometry"
	"github.com/vanryn/go-whitted-raytracer/pkg/lights"
	"github.com/vanryn/go-whitted-raytracer/pkg/scene"
)

// DefaultMaxDepth bounds reflection/refraction recursion. Exhausted depth
// contributes black, it is not an error.
const DefaultMaxDepth = 5

// Raytracer computes shaded colors for rays against a fixed scene using
// Phong illumination plus recursive reflection and refraction. Each render
// worker owns one instance; the rng feeds jittered area-light sampling.
type Raytracer struct {
	scene      *scene.Scene
	maxDepth   int
	background core.Color
	rng        *rand.Rand
}

// NewRaytracer creates a raytracer over the given scene
func NewRaytracer(s *scene.Scene, maxDepth int, seed int64) *Raytracer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Raytracer{
		scene:      s,
		maxDepth:   maxDepth,
		background: core.Black,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// ColorAt returns the shaded color for a world ray
func (rt *Raytracer) ColorAt(ray core.Ray) core.Color {
	return rt.colorAt(ray, rt.maxDepth)
}

func (rt *Raytracer) colorAt(ray core.Ray, remaining int) core.Color {
	xs := rt.scene.Intersect(ray)
	if len(xs) == 0 {
		return rt.background
	}

	comps := prepareComputations(xs[0], ray, xs)
	return rt.shadeHit(comps, remaining)
}

// shadeHit combines direct Phong lighting with recursive reflected and
// refracted contributions, Fresnel-blended via Schlick when the material is
// both reflective and transparent.
func (rt *Raytracer) shadeHit(comps computations, remaining int) core.Color {
	surface := core.Black
	for _, light := range rt.scene.Lights {
		surface = surface.Add(rt.lighting(comps, light))
	}

	reflected := rt.reflectedColor(comps, remaining)
	refracted := rt.refractedColor(comps, remaining)

	m := comps.shape.Material
	if m.Reflective > 0 && m.Transparency > 0 {
		reflectance := schlick(comps)
		return surface.
			Add(reflected.Scale(reflectance)).
			Add(refracted.Scale(1 - reflectance))
	}
	return surface.Add(reflected).Add(refracted)
}

// lighting accumulates the Phong contribution of one light. Every sample
// position the light exposes is shadow-tested individually and weighted by
// 1/samples, which produces soft shadow edges for area lights. Ambient is
// independent of shadowing.
func (rt *Raytracer) lighting(comps computations, light lights.Light) core.Color {
	m := comps.shape.Material
	base := m.ColorAt(comps.shape.Inverse(), comps.overPoint)
	effective := base.Multiply(light.Intensity())
	ambient := effective.Scale(m.Ambient)

	samples := light.Samples(rt.rng)
	if len(samples) == 0 {
		return ambient
	}

	sum := core.Black
	for _, samplePos := range samples {
		if rt.scene.IsShadowed(comps.overPoint, samplePos) {
			continue
		}

		lightV, err := samplePos.Subtract(comps.overPoint).Normalize()
		if err != nil {
			continue
		}

		lightDotNormal := lightV.Dot(comps.normalV)
		if lightDotNormal <= 0 {
			// Light on the other side of the surface
			continue
		}
		sum = sum.Add(effective.Scale(m.Diffuse * lightDotNormal))

		reflectV := lightV.Negate().Reflect(comps.normalV)
		reflectDotEye := reflectV.Dot(comps.eyeV)
		if reflectDotEye > 0 {
			factor := math.Pow(reflectDotEye, m.Shininess)
			sum = sum.Add(light.Intensity().Scale(m.Specular * factor))
		}
	}

	return ambient.Add(sum.Scale(1 / float64(len(samples))))
}

// reflectedColor casts a reflection ray from just above the hit point
func (rt *Raytracer) reflectedColor(comps computations, remaining int) core.Color {
	if remaining <= 0 || comps.shape.Material.Reflective == 0 {
		return core.Black
	}

	reflectRay := core.NewRay(comps.overPoint, comps.reflectV)
	return rt.colorAt(reflectRay, remaining-1).Scale(comps.shape.Material.Reflective)
}

// refractedColor casts a refraction ray from just below the hit point using
// Snell's law. Total internal reflection contributes black.
func (rt *Raytracer) refractedColor(comps computations, remaining int) core.Color {
	if remaining <= 0 || comps.shape.Material.Transparency == 0 {
		return core.Black
	}

	nRatio := comps.n1 / comps.n2
	cosI := comps.eyeV.Dot(comps.normalV)
	sin2T := nRatio * nRatio * (1 - cosI*cosI)
	if sin2T > 1 {
		return core.Black
	}

	cosT := math.Sqrt(1 - sin2T)
	direction := comps.normalV.Multiply(nRatio*cosI - cosT).
		Subtract(comps.eyeV.Multiply(nRatio))

	refractRay := core.NewRay(comps.underPoint, direction)
	return rt.colorAt(refractRay, remaining-1).Scale(comps.shape.Material.Transparency)
}

// computations carries the precomputed state of a hit used by shading
type computations struct {
	t          float64
	shape      *geometry.Shape
	point      core.Tuple
	overPoint  core.Tuple
	underPoint core.Tuple
	eyeV       core.Tuple
	normalV    core.Tuple
	reflectV   core.Tuple
	inside     bool
	n1, n2     float64
}

// prepareComputations derives the hit point, eye and (possibly flipped)
// normal vectors, epsilon-offset points, and the refractive indices on both
// sides of the boundary. The xs list is the full intersection list of the
// ray, used as the containment stack source for n1/n2.
func prepareComputations(hit geometry.Intersection, ray core.Ray, xs geometry.Intersections) computations {
	comps := computations{
		t:     hit.T,
		shape: hit.Shape,
		n1:    1.0,
		n2:    1.0,
	}

	comps.point = ray.Position(hit.T)
	comps.eyeV = ray.Direction.Negate()
	comps.normalV = hit.Shape.NormalAt(comps.point)

	if comps.normalV.Dot(comps.eyeV) < 0 {
		comps.inside = true
		comps.normalV = comps.normalV.Negate()
	}

	comps.reflectV = ray.Direction.Reflect(comps.normalV)
	offset := comps.normalV.Multiply(core.Epsilon)
	comps.overPoint = comps.point.Add(offset)
	comps.underPoint = comps.point.Subtract(offset)

	// Walk the intersection list tracking which transparent shapes the ray
	// is currently inside of; the stack top on either side of the hit
	// supplies the refractive indices.
	var containers []*geometry.Shape
	for _, x := range xs {
		isHit := x == hit
		if isHit {
			if len(containers) > 0 {
				comps.n1 = containers[len(containers)-1].Material.RefractiveIndex
			}
		}

		found := -1
		for i, c := range containers {
			if c == x.Shape {
				found = i
				break
			}
		}
		if found >= 0 {
			containers = append(containers[:found], containers[found+1:]...)
		} else {
			containers = append(containers, x.Shape)
		}

		if isHit {
			if len(containers) > 0 {
				comps.n2 = containers[len(containers)-1].Material.RefractiveIndex
			}
			break
		}
	}

	return comps
}

// schlick approximates the Fresnel reflectance at the hit
func schlick(comps computations) float64 {
	cos := comps.eyeV.Dot(comps.normalV)

	if comps.n1 > comps.n2 {
		n := comps.n1 / comps.n2
		sin2T := n * n * (1 - cos*cos)
		if sin2T > 1 {
			return 1.0
		}
		cos = math.Sqrt(1 - sin2T)
	}

	r0 := (comps.n1 - comps.n2) / (comps.n1 + comps.n2)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cos, 5)
}
