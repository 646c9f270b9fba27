package renderer

import (
	"math"
	"testing"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
	"github.com/vanryn/go-whitted-raytracer/pkg/geometry"
	"github.com/vanryn/go-whitted-raytracer/pkg/lights"
	"github.com/vanryn/go-whitted-raytracer/pkg/scene"
)

func colorNear(t *testing.T, got, want core.Color, tolerance float64) {
	t.Helper()
	if math.Abs(got.R-want.R) > tolerance ||
		math.Abs(got.G-want.G) > tolerance ||
		math.Abs(got.B-want.B) > tolerance {
		t.Errorf("Expected color %v, got %v", want, got)
	}
}

// testPattern reports the pattern-space point as a color, which makes
// coordinate chains observable in shading tests
type testPattern struct{}

func (testPattern) ColorAt(p core.Tuple) core.Color {
	return core.NewColor(p.X, p.Y, p.Z)
}

func (testPattern) InverseTransform() core.Matrix {
	return core.Identity()
}

func TestRaytracer_Lighting(t *testing.T) {
	sqrt2over2 := math.Sqrt2 / 2

	tests := []struct {
		name     string
		eyeV     core.Tuple
		lightPos core.Tuple
		expected core.Color
	}{
		{
			name:     "eye between light and surface",
			eyeV:     core.NewVector(0, 0, -1),
			lightPos: core.NewPoint(0, 0, -10),
			expected: core.NewColor(1.9, 1.9, 1.9),
		},
		{
			name:     "eye offset 45 degrees",
			eyeV:     core.NewVector(0, sqrt2over2, -sqrt2over2),
			lightPos: core.NewPoint(0, 0, -10),
			expected: core.NewColor(1.0, 1.0, 1.0),
		},
		{
			name:     "light offset 45 degrees",
			eyeV:     core.NewVector(0, 0, -1),
			lightPos: core.NewPoint(0, 10, -10),
			expected: core.NewColor(0.7364, 0.7364, 0.7364),
		},
		{
			name:     "eye in the path of the reflection",
			eyeV:     core.NewVector(0, -sqrt2over2, -sqrt2over2),
			lightPos: core.NewPoint(0, 10, -10),
			expected: core.NewColor(1.6364, 1.6364, 1.6364),
		},
		{
			name:     "light behind the surface",
			eyeV:     core.NewVector(0, 0, -1),
			lightPos: core.NewPoint(0, 0, 10),
			expected: core.NewColor(0.1, 0.1, 0.1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRaytracer(scene.New(), DefaultMaxDepth, 1)
			comps := computations{
				shape:     geometry.NewSphere(),
				overPoint: core.NewPoint(0, 0, 0),
				eyeV:      tt.eyeV,
				normalV:   core.NewVector(0, 0, -1),
			}
			light := lights.NewPointLight(tt.lightPos, core.White)

			colorNear(t, rt.lighting(comps, light), tt.expected, 1e-4)
		})
	}
}

func TestRaytracer_LightingAreaLightSoftShadow(t *testing.T) {
	// A plane at the origin lit by an area light overhead; a thin slab
	// blocks the samples on the +x side only.
	buildScene := func(withBlocker bool) *scene.Scene {
		s := scene.New()

		floor := geometry.NewPlane()
		floor.Material.Specular = 0
		s.AddShape(floor)

		if withBlocker {
			blocker := geometry.NewCube()
			transform := core.Compose(
				core.Scaling(1.5, 0.1, 1),
				core.Translation(1.5, 1, 0),
			)
			if err := blocker.SetTransform(transform); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			s.AddShape(blocker)
		}
		return s
	}

	light := lights.NewAreaLight(
		core.NewPoint(-2, 2, 0),
		core.NewVector(4, 0, 0), 4,
		core.NewVector(0, 0, 0.1), 1,
		false,
		core.White,
	)

	shade := func(s *scene.Scene) core.Color {
		rt := NewRaytracer(s, DefaultMaxDepth, 1)
		comps := computations{
			shape:     s.Shapes[0],
			overPoint: core.NewPoint(0, core.Epsilon, 0),
			eyeV:      core.NewVector(0, 1, 0),
			normalV:   core.NewVector(0, 1, 0),
		}
		return rt.lighting(comps, light)
	}

	full := shade(buildScene(false))
	partial := shade(buildScene(true))
	ambientOnly := core.White.Scale(0.1)

	if partial.R >= full.R {
		t.Errorf("Partially occluded light should be dimmer: %v vs %v", partial, full)
	}
	if partial.R <= ambientOnly.R {
		t.Errorf("Partially occluded light should exceed ambient: %v", partial)
	}
}

func TestPrepareComputations(t *testing.T) {
	t.Run("hit on the outside", func(t *testing.T) {
		ray := core.NewRay(core.NewPoint(0, 0, -5), core.NewVector(0, 0, 1))
		s := geometry.NewSphere()
		hit := geometry.Intersection{T: 4, Shape: s}

		comps := prepareComputations(hit, ray, geometry.Intersections{hit})

		if comps.t != 4 || comps.shape != s {
			t.Errorf("Unexpected t/shape: %f %v", comps.t, comps.shape)
		}
		if !comps.point.Equals(core.NewPoint(0, 0, -1)) {
			t.Errorf("Expected point (0,0,-1), got %v", comps.point)
		}
		if !comps.eyeV.Equals(core.NewVector(0, 0, -1)) {
			t.Errorf("Expected eye vector (0,0,-1), got %v", comps.eyeV)
		}
		if !comps.normalV.Equals(core.NewVector(0, 0, -1)) {
			t.Errorf("Expected normal (0,0,-1), got %v", comps.normalV)
		}
		if comps.inside {
			t.Error("Expected outside hit")
		}
	})

	t.Run("hit on the inside flips the normal", func(t *testing.T) {
		ray := core.NewRay(core.NewPoint(0, 0, 0), core.NewVector(0, 0, 1))
		s := geometry.NewSphere()
		hit := geometry.Intersection{T: 1, Shape: s}

		comps := prepareComputations(hit, ray, geometry.Intersections{hit})

		if !comps.inside {
			t.Error("Expected inside hit")
		}
		if !comps.normalV.Equals(core.NewVector(0, 0, -1)) {
			t.Errorf("Expected flipped normal (0,0,-1), got %v", comps.normalV)
		}
	})

	t.Run("over and under points straddle the surface", func(t *testing.T) {
		ray := core.NewRay(core.NewPoint(0, 0, -5), core.NewVector(0, 0, 1))
		s := geometry.NewSphere()
		if err := s.SetTransform(core.Translation(0, 0, 1)); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		hit := geometry.Intersection{T: 5, Shape: s}

		comps := prepareComputations(hit, ray, geometry.Intersections{hit})

		if comps.overPoint.Z >= -core.Epsilon/2 {
			t.Errorf("Expected over point offset toward the camera, got %v", comps.overPoint)
		}
		if comps.point.Z <= comps.overPoint.Z {
			t.Error("Point should be behind the over point")
		}
		if comps.underPoint.Z <= comps.point.Z {
			t.Error("Under point should be inside the surface")
		}
	})

	t.Run("reflection vector", func(t *testing.T) {
		sqrt2over2 := math.Sqrt2 / 2
		p := geometry.NewPlane()
		ray := core.NewRay(core.NewPoint(0, 1, -1), core.NewVector(0, -sqrt2over2, sqrt2over2))
		hit := geometry.Intersection{T: math.Sqrt2, Shape: p}

		comps := prepareComputations(hit, ray, geometry.Intersections{hit})

		if !comps.reflectV.Equals(core.NewVector(0, sqrt2over2, sqrt2over2)) {
			t.Errorf("Expected reflection (0,sqrt2/2,sqrt2/2), got %v", comps.reflectV)
		}
	})
}

func TestPrepareComputations_RefractiveIndices(t *testing.T) {
	// Three nested/overlapping glass spheres with distinct indices
	a := geometry.NewGlassSphere()
	a.Material.RefractiveIndex = 1.5
	if err := a.SetTransform(core.Scaling(2, 2, 2)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	b := geometry.NewGlassSphere()
	b.Material.RefractiveIndex = 2.0
	if err := b.SetTransform(core.Translation(0, 0, -0.25)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	c := geometry.NewGlassSphere()
	c.Material.RefractiveIndex = 2.5
	if err := c.SetTransform(core.Translation(0, 0, 0.25)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ray := core.NewRay(core.NewPoint(0, 0, -4), core.NewVector(0, 0, 1))
	xs := geometry.Intersections{
		{T: 2, Shape: a},
		{T: 2.75, Shape: b},
		{T: 3.25, Shape: c},
		{T: 4.75, Shape: b},
		{T: 5.25, Shape: c},
		{T: 6, Shape: a},
	}

	expected := []struct{ n1, n2 float64 }{
		{1.0, 1.5},
		{1.5, 2.0},
		{2.0, 2.5},
		{2.5, 2.5},
		{2.5, 1.5},
		{1.5, 1.0},
	}

	for i, want := range expected {
		comps := prepareComputations(xs[i], ray, xs)
		if comps.n1 != want.n1 || comps.n2 != want.n2 {
			t.Errorf("Intersection %d: expected n1=%f n2=%f, got n1=%f n2=%f",
				i, want.n1, want.n2, comps.n1, comps.n2)
		}
	}
}

func TestRaytracer_ColorAt(t *testing.T) {
	s := scene.NewDefaultScene()
	rt := NewRaytracer(s, DefaultMaxDepth, 1)

	t.Run("ray misses", func(t *testing.T) {
		ray := core.NewRay(core.NewPoint(0, 0, -5), core.NewVector(0, 1, 0))
		colorNear(t, rt.ColorAt(ray), core.Black, 1e-4)
	})

	t.Run("ray hits", func(t *testing.T) {
		ray := core.NewRay(core.NewPoint(0, 0, -5), core.NewVector(0, 0, 1))
		colorNear(t, rt.ColorAt(ray), core.NewColor(0.38066, 0.47583, 0.2855), 1e-4)
	})

	t.Run("intersection behind the ray", func(t *testing.T) {
		behind := scene.NewDefaultScene()
		behind.Shapes[0].Material.Ambient = 1
		behind.Shapes[1].Material.Ambient = 1
		rtBehind := NewRaytracer(behind, DefaultMaxDepth, 1)

		ray := core.NewRay(core.NewPoint(0, 0, 0.75), core.NewVector(0, 0, -1))
		colorNear(t, rtBehind.ColorAt(ray), behind.Shapes[1].Material.Color, 1e-4)
	})
}

func TestRaytracer_ShadeHit(t *testing.T) {
	t.Run("from the outside", func(t *testing.T) {
		s := scene.NewDefaultScene()
		rt := NewRaytracer(s, DefaultMaxDepth, 1)
		ray := core.NewRay(core.NewPoint(0, 0, -5), core.NewVector(0, 0, 1))
		hit := geometry.Intersection{T: 4, Shape: s.Shapes[0]}

		comps := prepareComputations(hit, ray, geometry.Intersections{hit})
		colorNear(t, rt.shadeHit(comps, DefaultMaxDepth), core.NewColor(0.38066, 0.47583, 0.2855), 1e-4)
	})

	t.Run("from the inside", func(t *testing.T) {
		s := scene.NewDefaultScene()
		s.Lights = []lights.Light{
			lights.NewPointLight(core.NewPoint(0, 0.25, 0), core.White),
		}
		rt := NewRaytracer(s, DefaultMaxDepth, 1)
		ray := core.NewRay(core.NewPoint(0, 0, 0), core.NewVector(0, 0, 1))
		hit := geometry.Intersection{T: 0.5, Shape: s.Shapes[1]}

		comps := prepareComputations(hit, ray, geometry.Intersections{hit})
		colorNear(t, rt.shadeHit(comps, DefaultMaxDepth), core.NewColor(0.90498, 0.90498, 0.90498), 1e-4)
	})

	t.Run("in shadow", func(t *testing.T) {
		s := scene.New()
		s.AddLight(lights.NewPointLight(core.NewPoint(0, 0, -10), core.White))
		s.AddShape(geometry.NewSphere())

		blocked := geometry.NewSphere()
		if err := blocked.SetTransform(core.Translation(0, 0, 10)); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		s.AddShape(blocked)

		rt := NewRaytracer(s, DefaultMaxDepth, 1)
		ray := core.NewRay(core.NewPoint(0, 0, 5), core.NewVector(0, 0, 1))
		hit := geometry.Intersection{T: 4, Shape: blocked}

		comps := prepareComputations(hit, ray, geometry.Intersections{hit})
		colorNear(t, rt.shadeHit(comps, DefaultMaxDepth), core.NewColor(0.1, 0.1, 0.1), 1e-4)
	})
}

func TestRaytracer_ReflectedColor(t *testing.T) {
	sqrt2over2 := math.Sqrt2 / 2

	t.Run("nonreflective material", func(t *testing.T) {
		s := scene.NewDefaultScene()
		s.Shapes[1].Material.Ambient = 1
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		ray := core.NewRay(core.NewPoint(0, 0, 0), core.NewVector(0, 0, 1))
		hit := geometry.Intersection{T: 1, Shape: s.Shapes[1]}
		comps := prepareComputations(hit, ray, geometry.Intersections{hit})

		colorNear(t, rt.reflectedColor(comps, DefaultMaxDepth), core.Black, 1e-4)
	})

	reflectiveFloorScene := func() (*scene.Scene, *geometry.Shape) {
		s := scene.NewDefaultScene()
		floor := geometry.NewPlane()
		floor.Material.Reflective = 0.5
		if err := floor.SetTransform(core.Translation(0, -1, 0)); err != nil {
			panic(err)
		}
		s.AddShape(floor)
		return s, floor
	}

	t.Run("reflective material", func(t *testing.T) {
		s, floor := reflectiveFloorScene()
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		ray := core.NewRay(core.NewPoint(0, 0, -3), core.NewVector(0, -sqrt2over2, sqrt2over2))
		hit := geometry.Intersection{T: math.Sqrt2, Shape: floor}
		comps := prepareComputations(hit, ray, geometry.Intersections{hit})

		colorNear(t, rt.reflectedColor(comps, DefaultMaxDepth), core.NewColor(0.19032, 0.2379, 0.14274), 1e-3)
	})

	t.Run("shade hit includes reflection", func(t *testing.T) {
		s, floor := reflectiveFloorScene()
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		ray := core.NewRay(core.NewPoint(0, 0, -3), core.NewVector(0, -sqrt2over2, sqrt2over2))
		hit := geometry.Intersection{T: math.Sqrt2, Shape: floor}
		comps := prepareComputations(hit, ray, geometry.Intersections{hit})

		colorNear(t, rt.shadeHit(comps, DefaultMaxDepth), core.NewColor(0.87677, 0.92436, 0.82918), 1e-3)
	})

	t.Run("depth exhausted", func(t *testing.T) {
		s, floor := reflectiveFloorScene()
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		ray := core.NewRay(core.NewPoint(0, 0, -3), core.NewVector(0, -sqrt2over2, sqrt2over2))
		hit := geometry.Intersection{T: math.Sqrt2, Shape: floor}
		comps := prepareComputations(hit, ray, geometry.Intersections{hit})

		colorNear(t, rt.reflectedColor(comps, 0), core.Black, 1e-4)
	})
}

func TestRaytracer_MutuallyReflectiveSurfacesTerminate(t *testing.T) {
	s := scene.New()
	s.AddLight(lights.NewPointLight(core.NewPoint(0, 0, 0), core.White))

	lower := geometry.NewPlane()
	lower.Material.Reflective = 1
	if err := lower.SetTransform(core.Translation(0, -1, 0)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s.AddShape(lower)

	upper := geometry.NewPlane()
	upper.Material.Reflective = 1
	if err := upper.SetTransform(core.Translation(0, 1, 0)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s.AddShape(upper)

	rt := NewRaytracer(s, DefaultMaxDepth, 1)
	ray := core.NewRay(core.NewPoint(0, 0, 0), core.NewVector(0, 1, 0))

	// Must return without blowing the stack
	_ = rt.ColorAt(ray)
}

func TestRaytracer_RefractedColor(t *testing.T) {
	sqrt2over2 := math.Sqrt2 / 2

	t.Run("opaque material", func(t *testing.T) {
		s := scene.NewDefaultScene()
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		ray := core.NewRay(core.NewPoint(0, 0, -5), core.NewVector(0, 0, 1))
		xs := geometry.Intersections{
			{T: 4, Shape: s.Shapes[0]},
			{T: 6, Shape: s.Shapes[0]},
		}
		comps := prepareComputations(xs[0], ray, xs)

		colorNear(t, rt.refractedColor(comps, DefaultMaxDepth), core.Black, 1e-4)
	})

	t.Run("depth exhausted", func(t *testing.T) {
		s := scene.NewDefaultScene()
		s.Shapes[0].Material.Transparency = 1.0
		s.Shapes[0].Material.RefractiveIndex = 1.5
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		ray := core.NewRay(core.NewPoint(0, 0, -5), core.NewVector(0, 0, 1))
		xs := geometry.Intersections{
			{T: 4, Shape: s.Shapes[0]},
			{T: 6, Shape: s.Shapes[0]},
		}
		comps := prepareComputations(xs[0], ray, xs)

		colorNear(t, rt.refractedColor(comps, 0), core.Black, 1e-4)
	})

	t.Run("total internal reflection", func(t *testing.T) {
		s := scene.NewDefaultScene()
		s.Shapes[0].Material.Transparency = 1.0
		s.Shapes[0].Material.RefractiveIndex = 1.5
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		ray := core.NewRay(core.NewPoint(0, 0, sqrt2over2), core.NewVector(0, 1, 0))
		xs := geometry.Intersections{
			{T: -sqrt2over2, Shape: s.Shapes[0]},
			{T: sqrt2over2, Shape: s.Shapes[0]},
		}
		comps := prepareComputations(xs[1], ray, xs)

		colorNear(t, rt.refractedColor(comps, DefaultMaxDepth), core.Black, 1e-4)
	})

	t.Run("refracted ray", func(t *testing.T) {
		s := scene.NewDefaultScene()
		s.Shapes[0].Material.Ambient = 1.0
		s.Shapes[0].Material.Pattern = testPattern{}
		s.Shapes[1].Material.Transparency = 1.0
		s.Shapes[1].Material.RefractiveIndex = 1.5
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		ray := core.NewRay(core.NewPoint(0, 0, 0.1), core.NewVector(0, 1, 0))
		xs := geometry.Intersections{
			{T: -0.9899, Shape: s.Shapes[0]},
			{T: -0.4899, Shape: s.Shapes[1]},
			{T: 0.4899, Shape: s.Shapes[1]},
			{T: 0.9899, Shape: s.Shapes[0]},
		}
		comps := prepareComputations(xs[2], ray, xs)

		colorNear(t, rt.refractedColor(comps, DefaultMaxDepth), core.NewColor(0, 0.99888, 0.04725), 2e-2)
	})
}

func transparentFloorScene(reflective float64) (*scene.Scene, *geometry.Shape) {
	s := scene.NewDefaultScene()

	floor := geometry.NewPlane()
	floor.Material.Transparency = 0.5
	floor.Material.RefractiveIndex = 1.5
	floor.Material.Reflective = reflective
	if err := floor.SetTransform(core.Translation(0, -1, 0)); err != nil {
		panic(err)
	}
	s.AddShape(floor)

	ball := geometry.NewSphere()
	ball.Material.Color = core.NewColor(1, 0, 0)
	ball.Material.Ambient = 0.5
	if err := ball.SetTransform(core.Translation(0, -3.5, -0.5)); err != nil {
		panic(err)
	}
	s.AddShape(ball)

	return s, floor
}

func TestRaytracer_ShadeHitTransparency(t *testing.T) {
	sqrt2over2 := math.Sqrt2 / 2
	ray := core.NewRay(core.NewPoint(0, 0, -3), core.NewVector(0, -sqrt2over2, sqrt2over2))

	t.Run("transparent floor", func(t *testing.T) {
		s, floor := transparentFloorScene(0)
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		xs := geometry.Intersections{{T: math.Sqrt2, Shape: floor}}
		comps := prepareComputations(xs[0], ray, xs)

		colorNear(t, rt.shadeHit(comps, DefaultMaxDepth), core.NewColor(0.93642, 0.68642, 0.47242), 1e-3)
	})

	t.Run("reflective and transparent floor uses Schlick blending", func(t *testing.T) {
		s, floor := transparentFloorScene(0.5)
		rt := NewRaytracer(s, DefaultMaxDepth, 1)

		xs := geometry.Intersections{{T: math.Sqrt2, Shape: floor}}
		comps := prepareComputations(xs[0], ray, xs)

		colorNear(t, rt.shadeHit(comps, DefaultMaxDepth), core.NewColor(0.93391, 0.69643, 0.69243), 1e-3)
	})
}

func TestSchlick(t *testing.T) {
	sqrt2over2 := math.Sqrt2 / 2

	t.Run("total internal reflection", func(t *testing.T) {
		s := geometry.NewGlassSphere()
		ray := core.NewRay(core.NewPoint(0, 0, sqrt2over2), core.NewVector(0, 1, 0))
		xs := geometry.Intersections{
			{T: -sqrt2over2, Shape: s},
			{T: sqrt2over2, Shape: s},
		}
		comps := prepareComputations(xs[1], ray, xs)

		if got := schlick(comps); !core.FloatEquals(got, 1.0) {
			t.Errorf("Expected reflectance 1.0, got %f", got)
		}
	})

	t.Run("perpendicular viewing angle", func(t *testing.T) {
		s := geometry.NewGlassSphere()
		ray := core.NewRay(core.NewPoint(0, 0, 0), core.NewVector(0, 1, 0))
		xs := geometry.Intersections{
			{T: -1, Shape: s},
			{T: 1, Shape: s},
		}
		comps := prepareComputations(xs[1], ray, xs)

		if got := schlick(comps); math.Abs(got-0.04) > 1e-2 {
			t.Errorf("Expected reflectance ~0.04, got %f", got)
		}
	})

	t.Run("small angle with n2 greater than n1", func(t *testing.T) {
		s := geometry.NewGlassSphere()
		ray := core.NewRay(core.NewPoint(0, 0.99, -2), core.NewVector(0, 0, 1))
		xs := geometry.Intersections{{T: 1.8589, Shape: s}}
		comps := prepareComputations(xs[0], ray, xs)

		if got := schlick(comps); math.Abs(got-0.48873) > 1e-3 {
			t.Errorf("Expected reflectance ~0.48873, got %f", got)
		}
	})
}
