package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taigrr/umbra/pkg/intersect"
)

func newProbeCmd(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "probe <scene.json|mesh> --from x,y,z --to x,y,z",
		Short: "Report the first face crossed by a segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p1, err := parsePoint(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			p2, err := parsePoint(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			j, err := prepare(cmd, opts, args[0])
			if err != nil {
				return err
			}
			if err := j.mesh.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			i, hit, ok := intersect.FirstHit(j.mesh, p1, p2, -1)
			if !ok {
				fmt.Fprintln(out, "no hit")
				return nil
			}
			a, b, c := j.mesh.Triangle(i)
			fmt.Fprintf(out, "face %d at (%g, %g, %g) t=%g\n", i, hit.Point.X, hit.Point.Y, hit.Point.Z, hit.T)
			fmt.Fprintf(out, "  vertices (%g, %g, %g) (%g, %g, %g) (%g, %g, %g)\n",
				a.X, a.Y, a.Z, b.X, b.Y, b.Z, c.X, c.Y, c.Z)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "segment start as x,y,z")
	cmd.Flags().StringVar(&to, "to", "", "segment end as x,y,z")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
