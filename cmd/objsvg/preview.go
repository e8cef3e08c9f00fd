package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/urfave/cli"

	"github.com/taigrr/objsvg/internal/config"
	"github.com/taigrr/objsvg/pkg/math3d"
	"github.com/taigrr/objsvg/pkg/models"
	"github.com/taigrr/objsvg/pkg/render"
)

var previewFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "mtl",
		Usage: "material library to use instead of the one the model names",
	},
	cli.IntFlag{
		Name:  "fps",
		Usage: "target frames per second (default from config, 30)",
	},
	cli.BoolFlag{
		Name:  "color-by-material",
		Usage: "stroke each face with its material's diffuse colour",
	},
}

// idleSpin is the yaw speed, in radians per frame, the preview settles back to.
const idleSpin = 0.02

// RotationAxis tracks position and velocity for one orbit angle. A harmonica
// spring pulls the velocity back to Rest after each impulse.
type RotationAxis struct {
	Position float64
	Velocity float64
	Rest     float64

	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
	initial   float64
}

// NewRotationAxis creates an axis starting at position and resting at rest.
func NewRotationAxis(p config.PreviewConfig, position, rest float64) RotationAxis {
	return RotationAxis{
		Position:  position,
		Velocity:  rest,
		Rest:      rest,
		velSpring: harmonica.NewSpring(harmonica.FPS(p.FPS), p.Frequency, p.Damping),
		initial:   position,
	}
}

// Update applies velocity to position and eases velocity toward Rest.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, a.Rest)
}

// Reset returns the axis to where it started.
func (a *RotationAxis) Reset() {
	a.Position = a.initial
	a.Velocity = a.Rest
	a.velAccel = 0
}

// orbit is the preview camera state shared between the event and draw loops.
type orbit struct {
	mu    sync.Mutex
	yaw   RotationAxis
	pitch RotationAxis
	zoom  float64
}

func newOrbit(cfg *config.Config) *orbit {
	return &orbit{
		yaw:   NewRotationAxis(cfg.Preview, cfg.Camera.Yaw*math.Pi/180, idleSpin),
		pitch: NewRotationAxis(cfg.Preview, cfg.Camera.Pitch*math.Pi/180, 0),
		zoom:  1,
	}
}

func (o *orbit) impulse(yaw, pitch float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.yaw.Velocity += yaw
	o.pitch.Velocity += pitch
}

func (o *orbit) zoomBy(f float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.zoom = math.Max(0.2, math.Min(5, o.zoom*f))
}

func (o *orbit) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.yaw.Reset()
	o.pitch.Reset()
	o.zoom = 1
}

// step advances one frame and returns the camera-to-world matrix for mesh.
func (o *orbit) step(mesh *models.Mesh, canvasW, canvasH float64) math3d.Mat4 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.yaw.Update()
	o.pitch.Update()

	radius := mesh.Size().Len() * 0.5
	dist := render.FitDistance(radius, canvasW, canvasH) / o.zoom
	return render.OrbitCameraToWorld(mesh.Center(), dist, o.yaw.Position, o.pitch.Position)
}

// drawFrame clears fb and draws the mesh wireframe seen from c2w.
func drawFrame(fb *render.Framebuffer, mesh *models.Mesh, c2w math3d.Mat4, stroke, bg render.Color, byMaterial bool) error {
	// Half-block pixels are square, so the canvas follows the framebuffer.
	canvasH := 2.0
	canvasW := canvasH * float64(fb.Width) / float64(max(fb.Height, 1))
	cam, err := render.NewPinholeCamera(c2w, canvasW, canvasH, fb.Width, fb.Height)
	if err != nil {
		return err
	}
	wf := render.NewWireframe(cam)
	wf.Stroke = stroke
	wf.ColorByMaterial = byMaterial

	fb.Clear(bg)
	wf.Draw(mesh, fb)
	return nil
}

func previewCommand(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("preview needs exactly one model file, got %d", ctx.NArg())
	}
	if ctx.IsSet("fps") {
		settings.Preview.FPS = ctx.Int("fps")
	}
	if ctx.Bool("color-by-material") {
		settings.Render.ColorByMaterial = true
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	mesh, err := loadMesh(ctx.Args().First(), ctx.String("mtl"), false)
	if err != nil {
		return err
	}
	stroke, err := settings.Render.StrokeColor()
	if err != nil {
		return err
	}
	// The terminal needs a visible stroke on a dark background.
	if stroke == render.ColorBlack {
		stroke = render.RGB(0, 255, 128)
	}
	bg := render.RGB(30, 30, 40)

	return runPreview(mesh, settings, stroke, bg)
}

func runPreview(mesh *models.Mesh, cfg *config.Config, stroke, bg render.Color) error {
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

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	view := newOrbit(cfg)
	const torque = 0.05

	var sizeMu sync.Mutex
	fb := render.NewFramebuffer(width, height*2)

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				sizeMu.Lock()
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = render.NewFramebuffer(width, height*2)
				sizeMu.Unlock()

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "q", "ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					view.reset()
				case ev.MatchString("left"):
					view.impulse(-torque, 0)
				case ev.MatchString("right"):
					view.impulse(torque, 0)
				case ev.MatchString("up"):
					view.impulse(0, torque)
				case ev.MatchString("down"):
					view.impulse(0, -torque)
				case ev.MatchString("+", "="):
					view.zoomBy(1.1)
				case ev.MatchString("-", "_"):
					view.zoomBy(1 / 1.1)
				}
			}
		}
	}()

	frame := time.Second / time.Duration(cfg.Preview.FPS)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		sizeMu.Lock()
		c2w := view.step(mesh, 2*float64(fb.Width)/float64(max(fb.Height, 1)), 2)
		if err := drawFrame(fb, mesh, c2w, stroke, bg, cfg.Render.ColorByMaterial); err != nil {
			sizeMu.Unlock()
			return fmt.Errorf("draw frame: %w", err)
		}
		fb.Draw(term, uv.Rect(0, 0, width, height))
		sizeMu.Unlock()

		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}
