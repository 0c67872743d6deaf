package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/meshsimplify/pkg/mesh"
	"github.com/philipparndt/meshsimplify/pkg/openscad"
	"github.com/philipparndt/meshsimplify/pkg/stl"
)

// Source is a loaded input model
type Source struct {
	Path       string
	IsOpenSCAD bool
	Model      *stl.Model
	// Dependencies lists the files whose change requires a reload,
	// starting with Path itself
	Dependencies []string
}

// Mesh welds the loaded triangle soup into an indexed mesh
func (s *Source) Mesh() *mesh.Mesh {
	return mesh.FromModel(s.Model)
}

// Load loads a model from either an STL or an OpenSCAD file
func Load(ctx context.Context, path string) (*Source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".stl":
		model, err := stl.Parse(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STL file: %w", err)
		}
		if model.Name == "" {
			model.Name = baseName(absPath)
		}
		return &Source{
			Path:         absPath,
			Model:        model,
			Dependencies: []string{absPath},
		}, nil

	case ".scad":
		renderer := openscad.NewRenderer(filepath.Dir(absPath))

		deps, err := renderer.ResolveDependencies(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
		}

		model, err := renderer.RenderModel(ctx, absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
		}
		return &Source{
			Path:         absPath,
			IsOpenSCAD:   true,
			Model:        model,
			Dependencies: deps,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported file type: %s (expected .stl or .scad)", ext)
	}
}

// OutputPath derives the default output file for an input file:
// model.stl and model.scad both become model<suffix>.stl
func OutputPath(input, suffix string) string {
	dir := filepath.Dir(input)
	return filepath.Join(dir, baseName(input)+suffix+".stl")
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
