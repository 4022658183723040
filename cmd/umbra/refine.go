package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/umbra/pkg/models"
)

func newRefineCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "refine <scene.json|mesh>",
		Short: "Subdivide faces larger than an area threshold",
		Long: `refine splits every face larger than the threshold into four until none
remain, and writes the result as JSON. The threshold comes from
--max-area, --area-divisor or the scene's refine section.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := prepare(cmd, opts, args[0])
			if err != nil {
				return err
			}
			if !j.refined {
				log.Warn("no refinement threshold set, writing the mesh unchanged")
			}
			return writeOutput(output, func(f *os.File) error {
				return models.WriteJSON(f, j.mesh, nil)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
