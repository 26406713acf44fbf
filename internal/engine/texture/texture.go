// Package texture loads billboard sprite images.
package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder registration
	"os"

	_ "github.com/ftrvxmtrx/tga" // TGA decoder registration
	_ "golang.org/x/image/bmp"   // BMP decoder registration
)

// Load decodes a PNG, BMP or TGA file into premultiplied RGBA. Magenta
// pixels become transparent, so keyed BMP sprites work unchanged.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sprite: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding sprite %s: %w", path, err)
	}
	return ToRGBA(img, format == "bmp"), nil
}

// IsMagentaKey checks if an RGB color matches the magenta transparency key.
// Uses tolerance (R >= 250, G <= 10, B >= 250) to absorb encoder rounding.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ToRGBA converts any image to *image.RGBA with its origin at (0, 0).
// If colorKey is true, magenta pixels are made transparent black.
func ToRGBA(img image.Image, colorKey bool) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			r8, g8, b8, a8 := uint8(r16>>8), uint8(g16>>8), uint8(b16>>8), uint8(a16>>8)
			if colorKey && IsMagentaKey(r8, g8, b8) {
				r8, g8, b8, a8 = 0, 0, 0, 0
			}
			rgba.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{R: r8, G: g8, B: b8, A: a8})
		}
	}
	return rgba
}

// Tree generates the fallback billboard: a green cone on a brown trunk,
// transparent elsewhere.
func Tree(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	leaf := color.RGBA{R: 34, G: 120, B: 48, A: 255}
	bark := color.RGBA{R: 96, G: 64, B: 32, A: 255}

	trunkTop := size * 3 / 4
	half := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := x - half
			if dx < 0 {
				dx = -dx
			}
			switch {
			case y < trunkTop && dx*trunkTop <= half*y:
				img.SetRGBA(x, y, leaf)
			case y >= trunkTop && dx <= size/16:
				img.SetRGBA(x, y, bark)
			}
		}
	}
	return img
}

// Checker generates a size×size two-colour checkerboard with square cells.
func Checker(size, cell int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell = max(cell, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
