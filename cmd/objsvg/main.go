// objsvg - Wavefront OBJ wireframe renderer
// Parse OBJ/MTL files and draw their triangle edges through a pinhole camera
// as SVG, PNG or a live terminal preview.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/taigrr/objsvg/internal/config"
	"github.com/taigrr/objsvg/internal/logger"
)

// settings is loaded once in before and then adjusted by command flags.
var settings = config.Default()

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// -v is the verbosity switch, so the version flag keeps only its long name.
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "objsvg"
	app.Usage = "render wavefront obj models as wireframes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "path to config file",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write logs to this file",
		},
	}
	app.Before = before
	app.After = func(*cli.Context) error {
		logger.Sync()
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a model to svg or png",
			Description: `
Parse a wavefront obj file (or a gltf/glb file) and its material library, project
every triangle through a pinhole camera and write one line per edge.

The output format follows the --out extension: .svg or .png. With "-" the SVG
document is written to stdout.`,
			ArgsUsage: "model.obj",
			Flags:     renderFlags,
			Action:    renderCommand,
		},
		{
			Name:      "check",
			Usage:     "parse obj and mtl files and report what they contain",
			ArgsUsage: "file1.obj file2.mtl ...",
			Action:    checkCommand,
		},
		{
			Name:  "preview",
			Usage: "spin a wireframe of the model in the terminal",
			Description: `
Controls:
  Left/Right  - Spin faster or slower around the model
  Up/Down     - Tilt the camera
  +/-         - Zoom
  R           - Reset view
  Q/Esc       - Quit`,
			ArgsUsage: "model.obj",
			Flags:     previewFlags,
			Action:    previewCommand,
		},
	}
	return app
}

// before loads the config file and sets up logging. Verbosity flags win
// over the configured level.
func before(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return err
	}
	settings = cfg

	switch {
	case ctx.GlobalBool("vv"):
		settings.Logging.Level = "debug"
	case ctx.GlobalBool("v"):
		settings.Logging.Level = "info"
	}
	if f := ctx.GlobalString("log-file"); f != "" {
		settings.Logging.LogFile = f
	}

	if err := logger.Init(settings.Logging.Level, settings.Logging.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Debug("config loaded")
	return nil
}
