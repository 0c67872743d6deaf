package preview

import (
	"image"
	"image/color"
	"math"
)

// screenPoint is a projected vertex: pixel position and camera depth
type screenPoint struct {
	x, y, z float64
}

// fillTriangleWithDepth fills a triangle with depth testing.
// Smaller z is closer to the camera.
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, p1, p2, p3 screenPoint, col color.RGBA) {
	// Sort vertices by Y coordinate (top to bottom)
	if p1.y > p2.y {
		p1, p2 = p2, p1
	}
	if p2.y > p3.y {
		p2, p3 = p3, p2
	}
	if p1.y > p2.y {
		p1, p2 = p2, p1
	}

	bounds := img.Bounds()
	width := bounds.Max.X

	for y := int(math.Max(0, math.Ceil(p1.y))); y <= int(math.Min(float64(bounds.Max.Y-1), math.Floor(p3.y))); y++ {
		fy := float64(y)

		// The long edge 1-3 always spans the scanline
		if p1.y == p3.y {
			continue
		}
		t := (fy - p1.y) / (p3.y - p1.y)
		xStart := p1.x + t*(p3.x-p1.x)
		zStart := p1.z + t*(p3.z-p1.z)

		// The short edge is 1-2 above the middle vertex and 2-3 below it
		var xEnd, zEnd float64
		switch {
		case fy < p2.y:
			t := (fy - p1.y) / (p2.y - p1.y)
			xEnd = p1.x + t*(p2.x-p1.x)
			zEnd = p1.z + t*(p2.z-p1.z)
		case p2.y != p3.y:
			t := (fy - p2.y) / (p3.y - p2.y)
			xEnd = p2.x + t*(p3.x-p2.x)
			zEnd = p2.z + t*(p3.z-p2.z)
		default:
			xEnd, zEnd = p2.x, p2.z
		}

		if xStart > xEnd {
			xStart, xEnd = xEnd, xStart
			zStart, zEnd = zEnd, zStart
		}

		xStartInt := int(math.Max(0, math.Ceil(xStart)))
		xEndInt := int(math.Min(float64(bounds.Max.X-1), math.Floor(xEnd)))

		for x := xStartInt; x <= xEndInt; x++ {
			t := 0.0
			if xEnd != xStart {
				t = (float64(x) - xStart) / (xEnd - xStart)
			}
			z := zStart + t*(zEnd-zStart)

			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
