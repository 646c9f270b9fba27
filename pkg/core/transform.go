package core

import "math"

// Translation returns a translation matrix
func Translation(x, y, z float64) Matrix {
	m := Identity()
	m[0][3] = x
	m[1][3] = y
	m[2][3] = z
	return m
}

// Scaling returns a scaling matrix
func Scaling(x, y, z float64) Matrix {
	m := Identity()
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}

// RotationX returns a rotation matrix around the x axis
func RotationX(radians float64) Matrix {
	m := Identity()
	cos, sin := math.Cos(radians), math.Sin(radians)
	m[1][1] = cos
	m[1][2] = -sin
	m[2][1] = sin
	m[2][2] = cos
	return m
}

// RotationY returns a rotation matrix around the y axis
func RotationY(radians float64) Matrix {
	m := Identity()
	cos, sin := math.Cos(radians), math.Sin(radians)
	m[0][0] = cos
	m[0][2] = sin
	m[2][0] = -sin
	m[2][2] = cos
	return m
}

// RotationZ returns a rotation matrix around the z axis
func RotationZ(radians float64) Matrix {
	m := Identity()
	cos, sin := math.Cos(radians), math.Sin(radians)
	m[0][0] = cos
	m[0][1] = -sin
	m[1][0] = sin
	m[1][1] = cos
	return m
}

// Shearing returns a shear matrix moving each axis in proportion to the
// other two
func Shearing(xy, xz, yx, yz, zx, zy float64) Matrix {
	m := Identity()
	m[0][1] = xy
	m[0][2] = xz
	m[1][0] = yx
	m[1][2] = yz
	m[2][0] = zx
	m[2][1] = zy
	return m
}

// Compose combines a sequence of transforms so that the first listed is
// applied to local coordinates first: Compose(A, B, C) == C * B * A.
func Compose(transforms ...Matrix) Matrix {
	result := Identity()
	for _, t := range transforms {
		result = t.Multiply(result)
	}
	return result
}
