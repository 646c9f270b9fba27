package renderer

import (
	"errors"
	"math"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
)

// ErrDegenerateCamera is returned when the view direction is parallel to
// the up vector, which collapses the view transform.
var ErrDegenerateCamera = errors.New("camera view direction is parallel to up vector")

// Camera maps output pixels to world-space rays through a view transform
// and a field of view.
type Camera struct {
	HSize       int
	VSize       int
	FieldOfView float64

	transform  core.Matrix
	inverse    core.Matrix
	pixelSize  float64
	halfWidth  float64
	halfHeight float64
}

// NewCamera creates a camera with an identity view transform. The larger
// of width/height spans the full field of view, the other scales with the
// aspect ratio.
func NewCamera(hsize, vsize int, fieldOfView float64) *Camera {
	halfView := math.Tan(fieldOfView / 2)
	aspect := float64(hsize) / float64(vsize)

	var halfWidth, halfHeight float64
	if aspect >= 1 {
		halfWidth = halfView
		halfHeight = halfView / aspect
	} else {
		halfWidth = halfView * aspect
		halfHeight = halfView
	}

	return &Camera{
		HSize:       hsize,
		VSize:       vsize,
		FieldOfView: fieldOfView,
		transform:   core.Identity(),
		inverse:     core.Identity(),
		pixelSize:   (halfWidth * 2) / float64(hsize),
		halfWidth:   halfWidth,
		halfHeight:  halfHeight,
	}
}

// SetTransform sets the world-to-camera view transform, caching its inverse
func (c *Camera) SetTransform(m core.Matrix) error {
	inv, err := m.Inverse()
	if err != nil {
		return err
	}
	c.transform = m
	c.inverse = inv
	return nil
}

// Transform returns the view transform
func (c *Camera) Transform() core.Matrix {
	return c.transform
}

// Resize returns a camera with the same orientation and field of view at
// new pixel dimensions
func (c *Camera) Resize(hsize, vsize int) *Camera {
	resized := NewCamera(hsize, vsize, c.FieldOfView)
	resized.transform = c.transform
	resized.inverse = c.inverse
	return resized
}

// PixelSize returns the world-space size of one pixel on the canvas plane
func (c *Camera) PixelSize() float64 {
	return c.pixelSize
}

// RayForPixel returns the world-space ray through the center of the given
// pixel. The canvas plane sits one unit in front of the camera.
func (c *Camera) RayForPixel(px, py int) core.Ray {
	xOffset := (float64(px) + 0.5) * c.pixelSize
	yOffset := (float64(py) + 0.5) * c.pixelSize

	// Untransformed camera looks toward -z, so +x is to the left
	worldX := c.halfWidth - xOffset
	worldY := c.halfHeight - yOffset

	pixel := c.inverse.MultiplyTuple(core.NewPoint(worldX, worldY, -1))
	origin := c.inverse.MultiplyTuple(core.NewPoint(0, 0, 0))
	direction := pixel.Subtract(origin).MustNormalize()

	return core.NewRay(origin, direction)
}

// ViewTransform builds the world-to-camera matrix for a camera at from,
// looking at to, with the given up hint. It fails with ErrDegenerateCamera
// when up is parallel to the view direction or from equals to.
func ViewTransform(from, to, up core.Tuple) (core.Matrix, error) {
	forward, err := to.Subtract(from).Normalize()
	if err != nil {
		return core.Matrix{}, ErrDegenerateCamera
	}
	upN, err := up.Normalize()
	if err != nil {
		return core.Matrix{}, ErrDegenerateCamera
	}

	left := forward.Cross(upN)
	if left.Magnitude() < core.Epsilon {
		return core.Matrix{}, ErrDegenerateCamera
	}
	trueUp := left.Cross(forward)

	orientation := core.Matrix{
		{left.X, left.Y, left.Z, 0},
		{trueUp.X, trueUp.Y, trueUp.Z, 0},
		{-forward.X, -forward.Y, -forward.Z, 0},
		{0, 0, 0, 1},
	}
	return orientation.Multiply(core.Translation(-from.X, -from.Y, -from.Z)), nil
}
