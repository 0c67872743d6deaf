package main

import (
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/meshsimplify/internal/loader"
	"github.com/philipparndt/meshsimplify/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display mesh statistics of an STL or OpenSCAD file",
	Long:  "Show vertex, triangle and edge counts, border edges, dimensions, surface area, volume and edge statistics.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	src, err := loader.Load(cmd.Context(), args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}

	summary := analysis.Summarize(src.Mesh())

	fmt.Println("Mesh Information")
	fmt.Println("================")
	if src.Model.Name != "" {
		fmt.Printf("Name: %s\n", src.Model.Name)
	}
	fmt.Printf("File: %s\n\n", src.Path)

	printSummary(os.Stdout, summary)
}

func printSummary(w io.Writer, s analysis.Summary) {
	fmt.Fprintln(w, "Mesh Statistics:")
	fmt.Fprintf(w, "  Vertices: %d\n", s.VertexCount)
	fmt.Fprintf(w, "  Triangles: %d\n", s.TriangleCount)
	fmt.Fprintf(w, "  Edges: %d\n", s.EdgeCount)
	fmt.Fprintf(w, "  Border Edges: %d\n", s.BorderEdgeCount)
	fmt.Fprintf(w, "  Surface Area: %.6f square units\n\n", s.SurfaceArea)

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", analysis.FormatVector(s.BoundingBox.Min))
	fmt.Fprintf(w, "  Max: %s\n", analysis.FormatVector(s.BoundingBox.Max))
	fmt.Fprintf(w, "  Center: %s\n\n", analysis.FormatVector(s.BoundingBox.Center()))

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %.6f units\n", s.Dimensions.X)
	fmt.Fprintf(w, "  Depth (Y): %.6f units\n", s.Dimensions.Y)
	fmt.Fprintf(w, "  Height (Z): %.6f units\n", s.Dimensions.Z)
	fmt.Fprintf(w, "  Volume: %.6f cubic units\n\n", s.Volume)

	fmt.Fprintln(w, "Edge Lengths:")
	fmt.Fprintf(w, "  Minimum: %.6f units\n", s.MinEdgeLength)
	fmt.Fprintf(w, "  Maximum: %.6f units\n", s.MaxEdgeLength)
	fmt.Fprintf(w, "  Average: %.6f units\n", s.AvgEdgeLength)
}
