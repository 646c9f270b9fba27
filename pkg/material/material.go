package material

import (
	"github.com/vanryn/go-whitted-raytracer/pkg/core"
)

// Refractive indices of common media
const (
	VacuumIOR  = 1.0
	AirIOR     = 1.00029
	WaterIOR   = 1.333
	GlassIOR   = 1.52
	DiamondIOR = 2.417
)

// Material aggregates a color source (solid color or pattern) with Phong
// coefficients and optical properties.
type Material struct {
	Color           core.Color
	Pattern         Pattern // nil means the solid Color is used
	Ambient         float64
	Diffuse         float64
	Specular        float64
	Shininess       float64
	Reflective      float64 // [0,1]
	Transparency    float64 // [0,1]
	RefractiveIndex float64 // > 0, vacuum = 1.0
}

// NewMaterial returns the default material: matte white, opaque
func NewMaterial() Material {
	return Material{
		Color:           core.White,
		Ambient:         0.1,
		Diffuse:         0.9,
		Specular:        0.9,
		Shininess:       200.0,
		Reflective:      0.0,
		Transparency:    0.0,
		RefractiveIndex: VacuumIOR,
	}
}

// NewGlassMaterial returns a fully transparent glass material
func NewGlassMaterial() Material {
	m := NewMaterial()
	m.Transparency = 1.0
	m.RefractiveIndex = GlassIOR
	return m
}

// ColorAt returns the material's base color at a world-space point. The
// objectInverse matrix is the owning shape's world-to-object transform; it
// chains with the pattern's own inverse transform to reach pattern space.
func (m Material) ColorAt(objectInverse core.Matrix, worldPoint core.Tuple) core.Color {
	if m.Pattern == nil {
		return m.Color
	}
	return PatternAtShape(m.Pattern, objectInverse, worldPoint)
}
