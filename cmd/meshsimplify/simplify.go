package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/philipparndt/meshsimplify/internal/config"
	"github.com/philipparndt/meshsimplify/internal/loader"
	"github.com/philipparndt/meshsimplify/pkg/analysis"
	"github.com/philipparndt/meshsimplify/pkg/mesh"
	"github.com/philipparndt/meshsimplify/pkg/preview"
	"github.com/philipparndt/meshsimplify/pkg/simplify"
	"github.com/philipparndt/meshsimplify/pkg/stl"
	"github.com/philipparndt/meshsimplify/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	outputFile     string
	configFile     string
	quality        float64
	maxIterations  int
	aggressiveness float64
	targetCount    int
	asciiOutput    bool
	watchInput     bool
	verbose        bool
	previewFile    string
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify [file]",
	Short: "Simplify an STL or OpenSCAD model and write the result as STL",
	Long: `Reduce the triangle count of a model by quadric error metric edge collapse.

The result keeps roughly --quality of the triangles (or at most --target).
Settings are read from --config, or meshsimplify.json in the working
directory if present; command line flags take priority.

Examples:
  meshsimplify simplify part.stl
  meshsimplify simplify part.stl -o part_low.stl --quality 0.2
  meshsimplify simplify bracket.scad --target 5000 --watch
  meshsimplify simplify part.stl --preview compare.png`,
	Args: cobra.ExactArgs(1),
	Run:  runSimplify,
}

func init() {
	rootCmd.AddCommand(simplifyCmd)
	simplifyCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output STL file (default: <input>_simplified.stl)")
	simplifyCmd.Flags().StringVarP(&configFile, "config", "c", "", "JSON config file")
	simplifyCmd.Flags().Float64VarP(&quality, "quality", "q", simplify.DefaultQuality, "Fraction of triangles to keep (0-1)")
	simplifyCmd.Flags().IntVar(&maxIterations, "iterations", 0, "Maximum number of collapse passes (default 100)")
	simplifyCmd.Flags().Float64Var(&aggressiveness, "aggressiveness", 0, "Error threshold growth per pass (default 7)")
	simplifyCmd.Flags().IntVarP(&targetCount, "target", "t", 0, "Target triangle count, overrides --quality")
	simplifyCmd.Flags().BoolVar(&asciiOutput, "ascii", false, "Write ASCII STL instead of binary")
	simplifyCmd.Flags().BoolVarP(&watchInput, "watch", "w", false, "Simplify again whenever the input or its dependencies change")
	simplifyCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print progress of every collapse pass")
	simplifyCmd.Flags().StringVarP(&previewFile, "preview", "p", "", "Write a before/after preview image (.png or .webp)")
}

func runSimplify(cmd *cobra.Command, args []string) {
	input := args[0]

	cfg, err := config.Discover(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Resolve(config.Flags{
		Quality:        quality,
		QualitySet:     cmd.Flags().Changed("quality"),
		MaxIterations:  maxIterations,
		Aggressiveness: aggressiveness,
		ASCII:          asciiOutput,
	})

	output := outputFile
	if output == "" {
		output = loader.OutputPath(input, cfg.OutputSuffix)
	}

	ctx := cmd.Context()
	src, err := simplifyFile(ctx, os.Stdout, input, output, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !watchInput {
			os.Exit(1)
		}
	}

	if watchInput {
		deps := []string{input}
		if src != nil {
			deps = src.Dependencies
		}
		if err := watch(ctx, input, output, cfg, deps); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// simplifyFile loads, simplifies and saves one model and prints the report
func simplifyFile(ctx context.Context, w io.Writer, input, output string, cfg config.Config) (*loader.Source, error) {
	start := time.Now()

	src, err := loader.Load(ctx, input)
	if err != nil {
		return nil, err
	}
	m := src.Mesh()

	opts := cfg.Options()
	if verbose {
		opts.Log = w
	}

	s, err := simplify.New(m.Vertices, m.Indices)
	if err != nil {
		return src, fmt.Errorf("invalid mesh: %w", err)
	}
	defer s.Release()

	var stats simplify.Stats
	if targetCount > 0 {
		stats, err = s.RunTarget(targetCount, opts)
	} else {
		stats, err = s.Run(opts)
	}
	if err != nil {
		return src, err
	}

	r, err := s.Result()
	if err != nil {
		return src, err
	}
	out := mesh.New(m.Name, r.Vertices, r.Indices)

	if err := stl.Save(output, out.ToModel(), cfg.ASCII()); err != nil {
		return src, err
	}

	if previewFile != "" {
		if err := preview.Save(previewFile, preview.Compare(m, out, preview.DefaultOptions())); err != nil {
			return src, err
		}
	}

	reduction := analysis.Compare(analysis.Summarize(m), analysis.Summarize(out))
	printReport(w, src.Path, output, reduction, stats, time.Since(start))
	return src, nil
}

func printReport(w io.Writer, input, output string, r analysis.Reduction, stats simplify.Stats, elapsed time.Duration) {
	fmt.Fprintln(w, "Simplification Report")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "Input: %s\n", input)
	fmt.Fprintf(w, "Output: %s\n\n", output)

	fmt.Fprintln(w, "Mesh:")
	fmt.Fprintf(w, "  Triangles: %d -> %d (%.2f%%)\n", r.Before.TriangleCount, r.After.TriangleCount, r.TriangleRatio*100)
	fmt.Fprintf(w, "  Vertices: %d -> %d (%.2f%%)\n", r.Before.VertexCount, r.After.VertexCount, r.VertexRatio*100)
	fmt.Fprintf(w, "  Border Edges: %d -> %d\n\n", r.Before.BorderEdgeCount, r.After.BorderEdgeCount)

	fmt.Fprintln(w, "Geometry:")
	fmt.Fprintf(w, "  Surface Area: %.6f -> %.6f square units (%s)\n", r.Before.SurfaceArea, r.After.SurfaceArea, analysis.FormatPercent(r.AreaDrift))
	fmt.Fprintf(w, "  Volume: %.6f -> %.6f cubic units (%s)\n", r.Before.Volume, r.After.Volume, analysis.FormatPercent(r.VolumeDrift))
	fmt.Fprintf(w, "  Dimensions: %s -> %s\n\n", analysis.FormatVector(r.Before.Dimensions), analysis.FormatVector(r.After.Dimensions))

	fmt.Fprintln(w, "Simplifier:")
	fmt.Fprintf(w, "  Target Triangles: %d\n", stats.TargetTriangles)
	fmt.Fprintf(w, "  Passes: %d\n", stats.Iterations)
	fmt.Fprintf(w, "  Collapses: %d\n", stats.Collapses)
	fmt.Fprintf(w, "  Final Threshold: %g\n", stats.FinalThreshold)
	fmt.Fprintf(w, "  Time: %s\n", elapsed.Round(time.Millisecond))
}

// watch re-simplifies on every change of the input or its dependencies
// until ctx is cancelled
func watch(ctx context.Context, input, output string, cfg config.Config, deps []string) error {
	fw, err := watcher.NewFileWatcher(cfg.WatchDebounce(), os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	changes := make(chan string, 1)
	callback := func(changedFile string) {
		select {
		case changes <- changedFile:
		default:
		}
	}

	if err := fw.Watch(deps, callback); err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}
	fw.Start()
	printWatched(deps)

	for {
		select {
		case <-ctx.Done():
			return nil

		case changed := <-changes:
			fmt.Printf("\nFile changed: %s\n", changed)
			src, err := simplifyFile(ctx, os.Stdout, input, output, cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}

			// Dependencies of OpenSCAD sources may change with the edit
			if err := fw.RemoveAll(); err != nil {
				return fmt.Errorf("failed to reset watcher: %w", err)
			}
			if err := fw.Watch(src.Dependencies, callback); err != nil {
				return fmt.Errorf("failed to watch files: %w", err)
			}
			printWatched(src.Dependencies)
		}
	}
}

func printWatched(files []string) {
	fmt.Printf("\nWatching %d file(s) for changes:\n", len(files))
	for _, f := range files {
		fmt.Printf("  - %s\n", f)
	}
}
