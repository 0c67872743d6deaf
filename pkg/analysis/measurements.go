package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
	"github.com/philipparndt/meshsimplify/pkg/mesh"
)

// Summary contains the measurements of an indexed mesh
type Summary struct {
	VertexCount     int
	TriangleCount   int
	EdgeCount       int
	BorderEdgeCount int
	BoundingBox     geometry.BoundingBox
	Dimensions      geometry.Vector3
	SurfaceArea     float64
	// Volume is the enclosed volume from signed tetrahedra; only meaningful
	// for closed meshes
	Volume        float64
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// Reduction compares a mesh before and after simplification
type Reduction struct {
	Before Summary
	After  Summary
	// TriangleRatio and VertexRatio are after/before, 1 for empty input
	TriangleRatio float64
	VertexRatio   float64
	// AreaDrift and VolumeDrift are relative changes, 0 for empty input
	AreaDrift   float64
	VolumeDrift float64
}

// Summarize measures a mesh
func Summarize(m *mesh.Mesh) Summary {
	result := Summary{
		VertexCount:   m.VertexCount(),
		TriangleCount: m.TriangleCount(),
		BoundingBox:   m.BoundingBox(),
	}
	result.Dimensions = result.BoundingBox.Size()

	signedVolume := 0.0
	for i := 0; i < m.TriangleCount(); i++ {
		triangle := m.Triangle(i)
		result.SurfaceArea += triangle.Area()
		signedVolume += triangle.SignedVolume()
	}
	result.Volume = math.Abs(signedVolume)

	edges := m.Edges()
	result.EdgeCount = len(edges)
	if len(edges) == 0 {
		return result
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for _, edge := range edges {
		if edge.Faces == 1 {
			result.BorderEdgeCount++
		}

		length := m.Vertices[edge.A].Distance(m.Vertices[edge.B])
		totalLength += length
		minLength = math.Min(minLength, length)
		maxLength = math.Max(maxLength, length)
	}

	result.MinEdgeLength = minLength
	result.MaxEdgeLength = maxLength
	result.AvgEdgeLength = totalLength / float64(len(edges))

	return result
}

// Compare computes the reduction between two summaries
func Compare(before, after Summary) Reduction {
	return Reduction{
		Before:        before,
		After:         after,
		TriangleRatio: ratio(after.TriangleCount, before.TriangleCount),
		VertexRatio:   ratio(after.VertexCount, before.VertexCount),
		AreaDrift:     drift(before.SurfaceArea, after.SurfaceArea),
		VolumeDrift:   drift(before.Volume, after.Volume),
	}
}

func ratio(after, before int) float64 {
	if before == 0 {
		return 1
	}
	return float64(after) / float64(before)
}

func drift(before, after float64) float64 {
	if before == 0 {
		return 0
	}
	return (after - before) / before
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

// FormatPercent formats a ratio as a signed percentage
func FormatPercent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value*100)
}
