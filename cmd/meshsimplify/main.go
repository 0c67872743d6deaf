package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/philipparndt/meshsimplify/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "meshsimplify",
	Short: "Reduce the triangle count of STL and OpenSCAD models",
	Long: `meshsimplify reduces the triangle count of 3D models with quadric error
metric edge collapse. It reads ASCII and binary STL files as well as OpenSCAD
sources, and writes the simplified mesh as STL.`,
	Version: version.GetFullVersion(),
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
