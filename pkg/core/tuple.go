package core

import (
	"errors"
	"math"
)

// Epsilon is the tolerance used for floating point comparison and for
// offsetting shadow/refraction ray origins off a surface.
const Epsilon = 1e-5

// ErrZeroVector is returned when normalizing a zero-length vector.
var ErrZeroVector = errors.New("cannot normalize zero-length vector")

// Tuple is a homogeneous 4-component vector. W=1 marks a point, W=0 a
// direction vector; arithmetic preserves the tag (point-point=vector,
// point+vector=point, vector+vector=vector).
type Tuple struct {
	X, Y, Z, W float64
}

// NewPoint creates a point tuple (W=1)
func NewPoint(x, y, z float64) Tuple {
	return Tuple{X: x, Y: y, Z: z, W: 1}
}

// NewVector creates a direction vector tuple (W=0)
func NewVector(x, y, z float64) Tuple {
	return Tuple{X: x, Y: y, Z: z, W: 0}
}

// IsPoint reports whether the tuple is a point
func (t Tuple) IsPoint() bool {
	return t.W == 1
}

// IsVector reports whether the tuple is a direction vector
func (t Tuple) IsVector() bool {
	return t.W == 0
}

// Add returns the sum of two tuples
func (t Tuple) Add(other Tuple) Tuple {
	return Tuple{t.X + other.X, t.Y + other.Y, t.Z + other.Z, t.W + other.W}
}

// Subtract returns the difference of two tuples
func (t Tuple) Subtract(other Tuple) Tuple {
	return Tuple{t.X - other.X, t.Y - other.Y, t.Z - other.Z, t.W - other.W}
}

// Multiply returns the tuple scaled by a scalar
func (t Tuple) Multiply(scalar float64) Tuple {
	return Tuple{t.X * scalar, t.Y * scalar, t.Z * scalar, t.W * scalar}
}

// Negate returns the negative of the tuple
func (t Tuple) Negate() Tuple {
	return Tuple{-t.X, -t.Y, -t.Z, -t.W}
}

// Magnitude returns the length of the vector
func (t Tuple) Magnitude() float64 {
	return math.Sqrt(t.X*t.X + t.Y*t.Y + t.Z*t.Z + t.W*t.W)
}

// Normalize returns a unit vector in the same direction. It fails on a
// zero-length vector rather than returning NaNs.
func (t Tuple) Normalize() (Tuple, error) {
	mag := t.Magnitude()
	if mag == 0 {
		return Tuple{}, ErrZeroVector
	}
	return Tuple{t.X / mag, t.Y / mag, t.Z / mag, t.W / mag}, nil
}

// MustNormalize is Normalize for inputs known to be non-zero; it panics on a
// zero vector. Intended for literals in scene construction and tests.
func (t Tuple) MustNormalize() Tuple {
	n, err := t.Normalize()
	if err != nil {
		panic(err)
	}
	return n
}

// Dot returns the dot product of two tuples
func (t Tuple) Dot(other Tuple) float64 {
	return t.X*other.X + t.Y*other.Y + t.Z*other.Z + t.W*other.W
}

// Cross returns the cross product of two vectors
func (t Tuple) Cross(other Tuple) Tuple {
	return NewVector(
		t.Y*other.Z-t.Z*other.Y,
		t.Z*other.X-t.X*other.Z,
		t.X*other.Y-t.Y*other.X,
	)
}

// Reflect returns the tuple reflected about the given normal
func (t Tuple) Reflect(normal Tuple) Tuple {
	return t.Subtract(normal.Multiply(2 * t.Dot(normal)))
}

// Equals reports whether two tuples are equal within Epsilon
func (t Tuple) Equals(other Tuple) bool {
	return FloatEquals(t.X, other.X) &&
		FloatEquals(t.Y, other.Y) &&
		FloatEquals(t.Z, other.Z) &&
		FloatEquals(t.W, other.W)
}

// FloatEquals reports whether two floats are equal within Epsilon
func FloatEquals(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}
