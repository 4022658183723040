package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/umbra/pkg/illum"
	"github.com/taigrr/umbra/pkg/models"
)

func newLightCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "light <scene.json|mesh>",
		Short: "Compute the illumination of every face",
		Long: `light computes the illumination of every face and writes the mesh and
its field as JSON. Shadows cast by the mesh onto itself are included
unless --unshadowed is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := prepare(cmd, opts, args[0])
			if err != nil {
				return err
			}
			field, err := j.field(!j.cfg.Unshadowed)
			if err != nil {
				return err
			}

			s := illum.Summarize(field)
			log.Info("field",
				"faces", s.Count,
				"min", s.Min,
				"max", s.Max,
				"mean", s.Mean,
				"lit", s.Lit,
				"shadowed", s.Shadowed,
			)
			return writeOutput(output, func(f *os.File) error {
				return models.WriteJSON(f, j.mesh, field)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// writeOutput calls write with the named file, or stdout when path is
// empty or "-".
func writeOutput(path string, write func(*os.File) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("wrote", "path", path)
	return nil
}
