// Package preview renders meshes into shaded images for a quick visual
// check of a simplification result without a viewer.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/philipparndt/meshsimplify/pkg/geometry"
	"github.com/philipparndt/meshsimplify/pkg/mesh"
	"golang.org/x/image/draw"
)

var (
	backgroundColor = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	surfaceColor    = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	wireColor       = color.RGBA{R: 20, G: 30, B: 40, A: 255}
)

// Options controls a preview render
type Options struct {
	Width  int
	Height int
	// Supersample renders at this multiple of the output size and scales
	// down, smoothing edges
	Supersample int
	// Wireframe overlays every edge, hidden ones included
	Wireframe bool
	// RotationX and RotationY orbit the camera around the model, in radians
	RotationX float64
	RotationY float64
}

// DefaultOptions returns a 512x512 view from above and to the side
func DefaultOptions() Options {
	return Options{
		Width:       512,
		Height:      512,
		Supersample: 2,
		Wireframe:   true,
		RotationX:   0.5,
		RotationY:   0.7,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	return o
}

// Camera returns the camera a render of bbox with these options uses
func (o Options) Camera(bbox geometry.BoundingBox) *Camera {
	c := NewCamera(bbox)
	c.Rotate(o.RotationX, o.RotationY)
	return c
}

// Render draws a flat shaded mesh seen from cam
func Render(m *mesh.Mesh, cam *Camera, opts Options) *image.RGBA {
	opts = opts.normalized()
	width := opts.Width * opts.Supersample
	height := opts.Height * opts.Supersample

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	zbuffer := make([]float64, width*height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	fw, fh := float64(width), float64(height)
	projected := make([]screenPoint, len(m.Vertices))
	for i, v := range m.Vertices {
		x, y, z := cam.Project(v, fw, fh)
		projected[i] = screenPoint{x, y, z}
	}

	forward := cam.Forward()
	for i := 0; i < m.TriangleCount(); i++ {
		c := m.Corners(i)
		normal := m.Triangle(i).Normal
		fillTriangleWithDepth(img, zbuffer, projected[c[0]], projected[c[1]], projected[c[2]], shade(normal, forward))
	}

	if opts.Wireframe {
		for _, e := range m.Edges() {
			a, b := projected[e.A], projected[e.B]
			drawLine(img, int(a.x), int(a.y), int(b.x), int(b.y), wireColor)
		}
	}

	if opts.Supersample == 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// shade lights a face from the camera; faces seen edge-on are darkest
func shade(normal, forward geometry.Vector3) color.RGBA {
	intensity := 0.25 + 0.75*math.Abs(normal.Dot(forward))
	return color.RGBA{
		R: uint8(float64(surfaceColor.R) * intensity),
		G: uint8(float64(surfaceColor.G) * intensity),
		B: uint8(float64(surfaceColor.B) * intensity),
		A: 255,
	}
}

// Compare renders two meshes side by side from the same camera, framed on
// the first one
func Compare(before, after *mesh.Mesh, opts Options) *image.RGBA {
	opts = opts.normalized()
	cam := opts.Camera(before.BoundingBox())

	left := Render(before, cam, opts)
	right := Render(after, cam, opts)

	out := image.NewRGBA(image.Rect(0, 0, 2*opts.Width, opts.Height))
	draw.Draw(out, left.Bounds(), left, image.Point{}, draw.Src)
	draw.Draw(out, left.Bounds().Add(image.Pt(opts.Width, 0)), right, image.Point{}, draw.Src)
	return out
}

// Save encodes an image as PNG or WebP depending on the file extension
func Save(filename string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" && ext != ".webp" {
		return fmt.Errorf("unsupported image type: %s (expected .png or .webp)", ext)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if ext == ".webp" {
		err = nativewebp.Encode(f, img, nil)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}

	return f.Close()
}
