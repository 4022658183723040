package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/umbra/pkg/render"
)

func newViewCmd(opts *options) *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "view <scene.json|mesh>",
		Short: "Explore the lit mesh in the terminal",
		Long: `view lights the mesh with and without shadows and shows it in the
terminal.

Controls:
  Mouse drag  - Orbit
  Scroll      - Zoom in/out
  W/S         - Pitch up/down
  A/D         - Yaw left/right
  Space       - Random spin
  H           - Toggle shadows
  E           - Toggle face outlines
  R           - Reset view
  ?           - Toggle HUD overlay
  +/-         - Zoom
  Esc         - Quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := prepare(cmd, opts, args[0])
			if err != nil {
				return err
			}
			cm, err := render.ColormapByName(j.cfg.Render.Colormap)
			if err != nil {
				return err
			}

			lit, err := j.field(false)
			if err != nil {
				return err
			}
			shadowed, err := j.field(true)
			if err != nil {
				return err
			}

			v := &viewer{
				job:      j,
				name:     filepath.Base(args[0]),
				colors:   [2][]render.Color{cm.Field(lit), cm.Field(shadowed)},
				state:    &viewState{Shadows: !j.cfg.Unshadowed, Edges: j.cfg.Render.Edges},
				rotation: newRotationState(fps),
				fps:      fps,
			}
			return v.run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "target frames per second")
	return cmd
}

// rotationAxis tracks an orbit angle whose velocity decays through a
// critically damped spring.
type rotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func newRotationAxis(fps int) rotationAxis {
	return rotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// update moves the angle by its velocity and eases the velocity to 0.
func (a *rotationAxis) update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

type rotationState struct {
	Yaw, Pitch rotationAxis
	fps        int
}

func newRotationState(fps int) *rotationState {
	return &rotationState{Yaw: newRotationAxis(fps), Pitch: newRotationAxis(fps), fps: fps}
}

func (r *rotationState) update() {
	r.Yaw.update()
	r.Pitch.update()
}

func (r *rotationState) impulse(yaw, pitch float64) {
	r.Yaw.Velocity += yaw
	r.Pitch.Velocity += pitch
}

func (r *rotationState) reset() {
	r.Yaw = newRotationAxis(r.fps)
	r.Pitch = newRotationAxis(r.fps)
}

// maxZoomOut bounds the orbit radius as a multiple of the framing distance.
const maxZoomOut = 4.0

type viewState struct {
	Shadows bool
	Edges   bool
	ShowHUD bool
}

type viewer struct {
	job      *job
	name     string
	colors   [2][]render.Color // unshadowed, shadowed
	state    *viewState
	rotation *rotationState
	fps      int
}

func (v *viewer) field() []render.Color {
	if v.state.Shadows {
		return v.colors[1]
	}
	return v.colors[0]
}

// hud draws the overlay rows directly to the terminal.
func (v *viewer) hud(width, height int, fps float64) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !v.state.ShowHUD {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, fps, reset)

	titleCol := max((width-len(v.name)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, v.name, reset))

	faces := fmt.Sprintf("%d faces", v.job.mesh.TriangleCount())
	fmt.Print(moveTo(1, max(width-len(faces)-2, 1)) + fmt.Sprintf("%s%s%s %s %s", bgBlack, fgCyan, bold, faces, reset))

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	fmt.Print(moveTo(height, 1) + fmt.Sprintf("%s%s %s Shadows (h)  %s Edges (e) %s",
		bgBlack, fgWhite, check(v.state.Shadows), check(v.state.Edges), reset))
}

func (v *viewer) run(ctx context.Context) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	rc := v.job.cfg.Render
	mesh := v.job.mesh

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	f := newFrame(fbWidth, fbHeight, rc.TwoSided)
	f.frameMesh(mesh, deg(rc.YawDeg), deg(rc.PitchDeg))
	distance := f.camera.Distance
	f.camera.SetClipPlanes(f.camera.Near, f.camera.Far+maxZoomOut*distance)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// frames are drawn on this goroutine; the event loop hands over
	// resizes and zoom through these channels.
	resized := make(chan [2]int, 1)
	zoom := make(chan float64, 8)
	zoomBy := func(factor float64) {
		select {
		case zoom <- factor:
		default:
		}
	}

	inputTorque := struct{ yaw, pitch float64 }{}
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case resized <- [2]int{ev.Width, ev.Height}:
				default:
				}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					v.rotation.reset()
					zoomBy(0)
				case ev.MatchString("w", "up"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("space"):
					v.rotation.impulse((rand.Float64()-0.5)*1.5, (rand.Float64()-0.5)*0.5)
				case ev.MatchString("+", "="):
					zoomBy(0.9)
				case ev.MatchString("-", "_"):
					zoomBy(1.1)
				case ev.MatchString("h"):
					v.state.Shadows = !v.state.Shadows
				case ev.MatchString("e"):
					v.state.Edges = !v.state.Edges
				case ev.MatchString("?", "shift+/"):
					v.state.ShowHUD = !v.state.ShowHUD
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w", "up", "s", "down"):
					inputTorque.pitch = 0
				case ev.MatchString("a", "left", "d", "right"):
					inputTorque.yaw = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					v.rotation.impulse(float64(dx)*0.03, float64(dy)*0.03)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					zoomBy(0.9)
				case uv.MouseWheelDown:
					zoomBy(1.1)
				}
			}
		}
	}()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	targetDuration := time.Second / time.Duration(v.fps)
	lastFrame := time.Now()
	var fps float64
	fpsFrames, fpsTime := 0, time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		case size := <-resized:
			width, height = size[0], size[1]
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			fbWidth, fbHeight = termRenderer.FramebufferSize()
			next := newFrame(fbWidth, fbHeight, rc.TwoSided)
			next.camera.SetTarget(f.camera.Target)
			next.camera.SetDistance(f.camera.Distance)
			next.camera.SetClipPlanes(f.camera.Near, f.camera.Far)
			f = next
		case factor := <-zoom:
			if factor == 0 {
				f.camera.SetDistance(distance)
			} else {
				f.camera.Zoom(factor)
				if f.camera.Distance > distance*maxZoomOut {
					f.camera.SetDistance(distance * maxZoomOut)
				}
			}
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		// key release events are unreliable, so held keys decay
		v.rotation.impulse(inputTorque.yaw*dt, inputTorque.pitch*dt)
		inputTorque.yaw *= 0.9
		inputTorque.pitch *= 0.9
		v.rotation.update()

		f.camera.SetOrbit(deg(rc.YawDeg)+v.rotation.Yaw.Position, deg(rc.PitchDeg)+v.rotation.Pitch.Position)
		f.draw(mesh, v.field(), v.job.source, v.state.Edges)

		termRenderer.Render(f.fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		fpsFrames++
		if elapsed := time.Since(fpsTime); elapsed >= time.Second {
			fps = float64(fpsFrames) / elapsed.Seconds()
			fpsFrames, fpsTime = 0, time.Now()
		}
		v.hud(width, height, fps)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
