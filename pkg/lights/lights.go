package lights

import (
	"math/rand"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
)

// Light is a scene light source. Shading samples every position the light
// exposes and weights each sample equally, which yields hard shadows for
// point lights and soft shadows for area lights.
type Light interface {
	// Intensity is the light's color
	Intensity() core.Color
	// Samples returns the world-space sample positions for shadow and
	// illumination tests. The rng is only consulted by jittered lights;
	// it may be nil for deterministic lights.
	Samples(rng *rand.Rand) []core.Tuple
}

// PointLight is a light emitting from a single position
type PointLight struct {
	Position  core.Tuple
	intensity core.Color
}

// NewPointLight creates a point light
func NewPointLight(position core.Tuple, intensity core.Color) *PointLight {
	return &PointLight{Position: position, intensity: intensity}
}

// Intensity returns the light color
func (l *PointLight) Intensity() core.Color {
	return l.intensity
}

// Samples returns the single light position
func (l *PointLight) Samples(*rand.Rand) []core.Tuple {
	return []core.Tuple{l.Position}
}

// AreaLight is a rectangular light sampled on a USteps x VSteps grid,
// producing soft-edged shadows. UVec and VVec are the per-cell edge
// vectors (full edge divided by the step count).
type AreaLight struct {
	Corner    core.Tuple
	UVec      core.Tuple
	USteps    int
	VVec      core.Tuple
	VSteps    int
	Jitter    bool
	intensity core.Color
}

// NewAreaLight creates an area light from a corner and two full edge
// vectors with their sample counts. With jitter disabled, samples sit at
// cell centers and rendering is deterministic.
func NewAreaLight(corner, uVec core.Tuple, uSteps int, vVec core.Tuple, vSteps int, jitter bool, intensity core.Color) *AreaLight {
	return &AreaLight{
		Corner:    corner,
		UVec:      uVec.Multiply(1 / float64(uSteps)),
		USteps:    uSteps,
		VVec:      vVec.Multiply(1 / float64(vSteps)),
		VSteps:    vSteps,
		Jitter:    jitter,
		intensity: intensity,
	}
}

// Intensity returns the light color
func (l *AreaLight) Intensity() core.Color {
	return l.intensity
}

// Samples returns one position per grid cell
func (l *AreaLight) Samples(rng *rand.Rand) []core.Tuple {
	samples := make([]core.Tuple, 0, l.USteps*l.VSteps)
	for v := 0; v < l.VSteps; v++ {
		for u := 0; u < l.USteps; u++ {
			samples = append(samples, l.pointOnLight(u, v, rng))
		}
	}
	return samples
}

func (l *AreaLight) pointOnLight(u, v int, rng *rand.Rand) core.Tuple {
	uOffset, vOffset := 0.5, 0.5
	if l.Jitter && rng != nil {
		uOffset, vOffset = rng.Float64(), rng.Float64()
	}
	return l.Corner.
		Add(l.UVec.Multiply(float64(u) + uOffset)).
		Add(l.VVec.Multiply(float64(v) + vOffset))
}
