package main

import (
	"image"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/umbra/pkg/render"
)

func newRenderCmd(opts *options) *cobra.Command {
	var (
		output   string
		width    int
		height   int
		colormap string
		edges    bool
		legend   bool
	)

	cmd := &cobra.Command{
		Use:   "render <scene.json|mesh> -o out.png",
		Short: "Render the illumination field to a PNG",
		Long: `render lights the mesh and rasterises it with each face filled by its
value through a colour map (hot or gray), viewed from the scene's yaw
and pitch. The light is marked with a yellow cross.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := prepare(cmd, opts, args[0])
			if err != nil {
				return err
			}

			rc := j.cfg.Render
			flags := cmd.Flags()
			if flags.Changed("width") {
				rc.Width = width
			}
			if flags.Changed("height") {
				rc.Height = height
			}
			if flags.Changed("colormap") {
				rc.Colormap = colormap
			}
			if flags.Changed("edges") {
				rc.Edges = edges
			}

			cm, err := render.ColormapByName(rc.Colormap)
			if err != nil {
				return err
			}
			field, err := j.field(!j.cfg.Unshadowed)
			if err != nil {
				return err
			}

			f := newFrame(rc.Width, rc.Height, rc.TwoSided)
			f.frameMesh(j.mesh, deg(rc.YawDeg), deg(rc.PitchDeg))
			f.draw(j.mesh, cm.Field(field), j.source, rc.Edges)
			if legend {
				w, h := rc.Width, rc.Height
				f.fb.DrawColorbar(cm, image.Rect(w-w/20-12, h/4, w-w/20, h*3/4))
			}

			if err := f.fb.SavePNG(output); err != nil {
				return err
			}
			log.Info("wrote", "path", output, "width", rc.Width, "height", rc.Height, "colormap", cm.Name)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "umbra.png", "output PNG")
	f.IntVar(&width, "width", 0, "image width (default from scene)")
	f.IntVar(&height, "height", 0, "image height (default from scene)")
	f.StringVar(&colormap, "colormap", "", "colour map: hot or gray")
	f.BoolVar(&edges, "edges", false, "outline every face")
	f.BoolVar(&legend, "legend", true, "draw the colour map legend")
	return cmd
}
