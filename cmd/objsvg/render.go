package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/taigrr/objsvg/internal/config"
	"github.com/taigrr/objsvg/internal/logger"
	"github.com/taigrr/objsvg/pkg/models"
	"github.com/taigrr/objsvg/pkg/render"
)

var renderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "mtl",
		Usage: "material library to use instead of the one the model names",
	},
	cli.BoolFlag{
		Name:  "require-materials",
		Usage: "fail when the material library cannot be found",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "-",
		Usage: "output file (.svg or .png), - for svg on stdout",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "image width (default from config, 512)",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "image height (default from config, 512)",
	},
	cli.BoolFlag{
		Name:  "color-by-material",
		Usage: "stroke each face with its material's diffuse colour",
	},
	cli.BoolFlag{
		Name:  "fit",
		Usage: "ignore the configured camera and frame the model",
	},
}

// applyRenderFlags copies flags that were given on the command line over the
// loaded config.
func applyRenderFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.IsSet("width") {
		cfg.Render.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Render.Height = ctx.Int("height")
	}
	if ctx.Bool("color-by-material") {
		cfg.Render.ColorByMaterial = true
	}
	if ctx.Bool("fit") {
		cfg.Camera.Fit = true
	}
}

func renderCommand(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("render needs exactly one model file, got %d", ctx.NArg())
	}
	applyRenderFlags(ctx, settings)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := ctx.String("out")
	format, err := outputFormat(out)
	if err != nil {
		return err
	}

	mesh, err := loadMesh(ctx.Args().First(), ctx.String("mtl"), ctx.Bool("require-materials"))
	if err != nil {
		return err
	}

	start := time.Now()
	var n int
	err = writeOutput(ctx.App.Writer, out, func(w io.Writer) (werr error) {
		n, werr = renderMesh(w, format, mesh, settings)
		return werr
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", out, err)
	}
	logger.Info("rendered",
		zap.String("out", out),
		zap.Int("edges", n),
		zap.Duration("took", time.Since(start)))
	return nil
}

// writeOutput runs write against stdout for "-" and against a new file
// otherwise.
func writeOutput(stdout io.Writer, out string, write func(io.Writer) error) error {
	if out == "-" {
		return write(stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadMesh loads a model, routing OBJ files through a loader that honours
// the material options.
func loadMesh(path, mtlPath string, requireMaterials bool) (*models.Mesh, error) {
	log := logger.Named("models")

	var (
		mesh *models.Mesh
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		loader := models.NewOBJLoader(log)
		loader.MaterialPath = mtlPath
		loader.RequireMaterials = requireMaterials
		mesh, err = loader.Load(path)
	} else {
		mesh, err = models.Load(path, log)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	logger.Info("loaded model",
		zap.String("path", path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("materials", len(mesh.Materials)))
	return mesh, nil
}

type imageFormat int

const (
	formatSVG imageFormat = iota
	formatPNG
)

func outputFormat(out string) (imageFormat, error) {
	if out == "-" {
		return formatSVG, nil
	}
	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".svg":
		return formatSVG, nil
	case ".png":
		return formatPNG, nil
	default:
		return 0, fmt.Errorf("unsupported output format %q (use .svg or .png)", ext)
	}
}

// newCamera builds the configured pinhole camera for mesh.
func newCamera(mesh *models.Mesh, cfg *config.Config) (*render.PinholeCamera, error) {
	r := cfg.Render
	if cfg.Camera.Fit {
		c2w := render.FitCameraToWorld(mesh, r.CanvasWidth, r.CanvasHeight,
			cfg.Camera.Yaw*math.Pi/180, cfg.Camera.Pitch*math.Pi/180)
		return render.NewPinholeCamera(c2w, r.CanvasWidth, r.CanvasHeight, r.Width, r.Height)
	}

	c2w, err := cfg.Camera.Matrix()
	if err != nil {
		return nil, err
	}
	return render.NewPinholeCamera(c2w, r.CanvasWidth, r.CanvasHeight, r.Width, r.Height)
}

func newWireframe(mesh *models.Mesh, cfg *config.Config) (*render.Wireframe, error) {
	cam, err := newCamera(mesh, cfg)
	if err != nil {
		return nil, err
	}
	stroke, err := cfg.Render.StrokeColor()
	if err != nil {
		return nil, err
	}
	wf := render.NewWireframe(cam)
	wf.Stroke = stroke
	wf.ColorByMaterial = cfg.Render.ColorByMaterial
	return wf, nil
}

// renderMesh draws mesh to w and returns the number of edges drawn.
func renderMesh(w io.Writer, format imageFormat, mesh *models.Mesh, cfg *config.Config) (int, error) {
	wf, err := newWireframe(mesh, cfg)
	if err != nil {
		return 0, err
	}
	bg, err := cfg.Render.BackgroundColor()
	if err != nil {
		return 0, err
	}

	switch format {
	case formatPNG:
		fb := render.NewFramebuffer(cfg.Render.Width, cfg.Render.Height)
		fb.Clear(bg)
		n := wf.Draw(mesh, fb)
		return n, fb.WritePNG(w)
	default:
		svg := render.NewSVGWriter(w, cfg.Render.Width, cfg.Render.Height)
		svg.StrokeWidth = cfg.Render.StrokeWidth
		svg.Background = bg
		n := wf.Draw(mesh, svg)
		return n, svg.Close()
	}
}
