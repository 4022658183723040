// umbra - direct and shadowed illumination of triangle meshes.
//
// Usage:
//
//	umbra light  <scene.json|mesh.stl|mesh.glb>   write the illumination field as JSON
//	umbra refine <scene.json|mesh>                write the refined mesh as JSON
//	umbra render <scene.json|mesh> -o out.png     rasterise the field to a PNG
//	umbra view   <scene.json|mesh>                interactive terminal viewer
//	umbra probe  <scene.json|mesh> --from --to    first face hit by a segment
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "umbra",
		Short: "Direct and shadowed illumination of triangle meshes",
		Long: `umbra computes how much light each triangle of a mesh receives from a
point source, optionally with shadows cast by the mesh onto itself, and
refines meshes by midpoint subdivision so the lighting can be resolved
more finely.

Input is a JSON scene file or a single mesh file (.stl, .glb, .gltf, .json).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}

	opts.bind(root)
	root.AddCommand(
		newLightCmd(opts),
		newRefineCmd(opts),
		newRenderCmd(opts),
		newViewCmd(opts),
		newProbeCmd(opts),
	)
	return root
}
