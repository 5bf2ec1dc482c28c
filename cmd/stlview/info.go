package main

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/stlview/internal/engine/model"
	"github.com/Faultbox/stlview/pkg/formats"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.stl>...",
		Short: "Display STL file information",
		Long:  "Parse and normalize each file, then print its format, triangle count, bounding box and normalization divisor.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args)
		},
	}
}

type fileInfo struct {
	path  string
	mesh  *formats.Mesh
	model *model.NormalizedModel
}

// runInfo loads every file concurrently and prints them in argument order.
// The first failure cancels the report.
func runInfo(w io.Writer, paths []string) error {
	infos := make([]fileInfo, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			mesh, err := formats.LoadSTL(path)
			if err != nil {
				return err
			}
			infos[i] = fileInfo{path: path, mesh: mesh, model: model.Normalize(mesh)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printInfo(w, info)
	}
	return nil
}

func printInfo(w io.Writer, info fileInfo) {
	lo, hi := info.mesh.Bounds()
	nlo, nhi := info.model.Bounds()

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(info.path))
	fmt.Fprintf(w, "Name:       %s\n", info.mesh.Name)
	fmt.Fprintf(w, "Format:     %s\n", info.mesh.Format)
	if info.mesh.Header != "" {
		fmt.Fprintf(w, "Header:     %s\n", info.mesh.Header)
	}
	fmt.Fprintf(w, "Triangles:  %d\n", info.mesh.TriangleCount())
	fmt.Fprintf(w, "Bounds:     (%.3f, %.3f, %.3f) to (%.3f, %.3f, %.3f)\n", lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	fmt.Fprintf(w, "Extent:     %.3f\n", info.model.Extent)
	fmt.Fprintf(w, "Normalized: (%.3f, %.3f, %.3f) to (%.3f, %.3f, %.3f)\n", nlo[0], nlo[1], nlo[2], nhi[0], nhi[1], nhi[2])
}
