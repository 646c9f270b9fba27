package renderer

import (
	"image"
	"image/color"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
)

// Canvas is a 2-D grid of unclamped float RGB colors. Clamping to the
// displayable range happens only at image conversion time.
type Canvas struct {
	Width  int
	Height int
	pixels []core.Color
}

// NewCanvas creates a black canvas
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		pixels: make([]core.Color, width*height),
	}
}

// WritePixel sets the color at (x, y). Out-of-bounds writes are dropped.
func (c *Canvas) WritePixel(x, y int, col core.Color) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return
	}
	c.pixels[y*c.Width+x] = col
}

// PixelAt returns the color at (x, y)
func (c *Canvas) PixelAt(x, y int) core.Color {
	return c.pixels[y*c.Width+x]
}

// ToImage converts the canvas to an RGBA image, clamping each channel to
// [0, 1].
func (c *Canvas) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			p := c.PixelAt(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: channelToByte(p.R),
				G: channelToByte(p.G),
				B: channelToByte(p.B),
				A: 255,
			})
		}
	}
	return img
}

func channelToByte(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}
