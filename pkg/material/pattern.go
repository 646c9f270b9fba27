package material

import (
	"math"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
)

// Pattern is a color source evaluated at a pattern-local point. The known
// variants are solid, stripe, gradient, ring and checkers; each carries its
// own local-to-pattern transform.
type Pattern interface {
	// ColorAt computes the color at a pattern-space point
	ColorAt(point core.Tuple) core.Color
	// InverseTransform is the cached inverse of the pattern transform
	InverseTransform() core.Matrix
}

// PatternAtShape evaluates a pattern at a world-space point on a shape by
// chaining world -> object -> pattern coordinates.
func PatternAtShape(p Pattern, objectInverse core.Matrix, worldPoint core.Tuple) core.Color {
	objectPoint := objectInverse.MultiplyTuple(worldPoint)
	patternPoint := p.InverseTransform().MultiplyTuple(objectPoint)
	return p.ColorAt(patternPoint)
}

// basePattern carries the transform shared by all pattern variants
type basePattern struct {
	inverse core.Matrix
}

func newBasePattern(transform core.Matrix) (basePattern, error) {
	inv, err := transform.Inverse()
	if err != nil {
		return basePattern{}, err
	}
	return basePattern{inverse: inv}, nil
}

// InverseTransform returns the cached inverse of the pattern transform
func (b basePattern) InverseTransform() core.Matrix {
	return b.inverse
}

// SolidPattern is a uniform color everywhere
type SolidPattern struct {
	basePattern
	Color core.Color
}

// NewSolidPattern creates a solid pattern
func NewSolidPattern(color core.Color) *SolidPattern {
	base, _ := newBasePattern(core.Identity())
	return &SolidPattern{basePattern: base, Color: color}
}

// ColorAt returns the solid color regardless of the point
func (p *SolidPattern) ColorAt(core.Tuple) core.Color {
	return p.Color
}

// StripePattern alternates two colors along the x axis
type StripePattern struct {
	basePattern
	A, B core.Color
}

// NewStripePattern creates a stripe pattern with the given transform
func NewStripePattern(a, b core.Color, transform core.Matrix) (*StripePattern, error) {
	base, err := newBasePattern(transform)
	if err != nil {
		return nil, err
	}
	return &StripePattern{basePattern: base, A: a, B: b}, nil
}

// ColorAt alternates on floor(x) mod 2
func (p *StripePattern) ColorAt(point core.Tuple) core.Color {
	if int(math.Floor(point.X))%2 == 0 {
		return p.A
	}
	return p.B
}

// GradientPattern blends linearly between two colors along the x axis
type GradientPattern struct {
	basePattern
	A, B core.Color
}

// NewGradientPattern creates a gradient pattern with the given transform
func NewGradientPattern(a, b core.Color, transform core.Matrix) (*GradientPattern, error) {
	base, err := newBasePattern(transform)
	if err != nil {
		return nil, err
	}
	return &GradientPattern{basePattern: base, A: a, B: b}, nil
}

// ColorAt interpolates between A and B on the fractional part of x
func (p *GradientPattern) ColorAt(point core.Tuple) core.Color {
	distance := p.B.Subtract(p.A)
	fraction := point.X - math.Floor(point.X)
	return p.A.Add(distance.Scale(fraction))
}

// RingPattern alternates two colors in concentric rings around the y axis
type RingPattern struct {
	basePattern
	A, B core.Color
}

// NewRingPattern creates a ring pattern with the given transform
func NewRingPattern(a, b core.Color, transform core.Matrix) (*RingPattern, error) {
	base, err := newBasePattern(transform)
	if err != nil {
		return nil, err
	}
	return &RingPattern{basePattern: base, A: a, B: b}, nil
}

// ColorAt alternates on floor(sqrt(x^2+z^2)) mod 2
func (p *RingPattern) ColorAt(point core.Tuple) core.Color {
	if int(math.Floor(math.Sqrt(point.X*point.X+point.Z*point.Z)))%2 == 0 {
		return p.A
	}
	return p.B
}

// CheckersPattern alternates two colors in a 3-D checkerboard
type CheckersPattern struct {
	basePattern
	A, B core.Color
}

// NewCheckersPattern creates a checkers pattern with the given transform
func NewCheckersPattern(a, b core.Color, transform core.Matrix) (*CheckersPattern, error) {
	base, err := newBasePattern(transform)
	if err != nil {
		return nil, err
	}
	return &CheckersPattern{basePattern: base, A: a, B: b}, nil
}

// ColorAt alternates on floor(x)+floor(y)+floor(z) mod 2
func (p *CheckersPattern) ColorAt(point core.Tuple) core.Color {
	sum := math.Floor(point.X) + math.Floor(point.Y) + math.Floor(point.Z)
	if int(sum)%2 == 0 {
		return p.A
	}
	return p.B
}
