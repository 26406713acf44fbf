// Package debug captures the screen and the cube map faces to image files.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/Faultbox/flexfov/internal/engine/face"
)

// Capture writes images to a directory.
type Capture struct {
	outputDir string
	prefix    string
	format    string // "png" or "webp"
	maxSize   int    // longest side after downscaling, 0 keeps full size

	now func() time.Time
}

// NewCapture creates a capture handler. An unknown format falls back to PNG.
func NewCapture(outputDir, prefix, format string, maxSize int) *Capture {
	if format != "webp" {
		format = "png"
	}
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		maxSize:   maxSize,
		now:       time.Now,
	}
}

// ScreenImage converts framebuffer pixels, bottom row first, into an image.
func ScreenImage(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}

// FaceImage converts a cube face readback into an image. Cube faces are
// rendered upside down for sampling, so memory order is already top row
// first.
func FaceImage(pixels []byte, size int) (*image.RGBA, error) {
	if len(pixels) != size*size*4 {
		return nil, fmt.Errorf("face data size mismatch: expected %d, got %d", size*size*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	copy(img.Pix, pixels)
	return img, nil
}

// netCells places each face in a 4×3 cross, in cell units.
var netCells = [face.Count]image.Point{
	face.Up:    {1, 0},
	face.Left:  {0, 1},
	face.Front: {1, 1},
	face.Right: {2, 1},
	face.Back:  {3, 1},
	face.Down:  {1, 2},
}

// Net lays six equally sized faces out as an unfolded cube.
func Net(faces [face.Count]image.Image) *image.RGBA {
	size := faces[face.Front].Bounds().Dx()
	net := image.NewRGBA(image.Rect(0, 0, 4*size, 3*size))
	for f, img := range faces {
		if img == nil {
			continue
		}
		at := netCells[f].Mul(size)
		draw.Copy(net, at, img, img.Bounds(), draw.Src, nil)
	}
	return net
}

// SaveFaces reads all six faces and writes them as one unfolded net.
func (c *Capture) SaveFaces(read func(face.Face) []byte, size int) (string, error) {
	var faces [face.Count]image.Image
	for _, f := range face.All {
		img, err := FaceImage(read(f), size)
		if err != nil {
			return "", fmt.Errorf("%s face: %w", f, err)
		}
		faces[f] = img
	}
	return c.Save(Net(faces), "cubemap")
}

// Save writes img as <prefix>_<kind>_<timestamp>.<format>.
func (c *Capture) Save(img image.Image, kind string) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.filename(kind)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := c.encode(file, c.fit(img)); err != nil {
		file.Close()
		os.Remove(filename)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(filename)
		return "", fmt.Errorf("closing %s: %w", filename, err)
	}
	return filename, nil
}

func (c *Capture) encode(w io.Writer, img image.Image) error {
	if c.format == "webp" {
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("encoding WebP: %w", err)
		}
		return nil
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// fit downscales img so its longest side is at most maxSize.
func (c *Capture) fit(img image.Image) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if c.maxSize <= 0 || longest <= c.maxSize {
		return img
	}

	w := b.Dx() * c.maxSize / longest
	h := b.Dy() * c.maxSize / longest
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func (c *Capture) filename(kind string) string {
	timestamp := c.now().Format("2006-01-02_15-04-05.000")
	name := fmt.Sprintf("%s_%s_%s.%s", c.prefix, kind, timestamp, c.format)
	if c.outputDir != "" {
		name = filepath.Join(c.outputDir, name)
	}
	return name
}
