package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/taigrr/objsvg/internal/logger"
	"github.com/taigrr/objsvg/pkg/wavefront"
)

func checkCommand(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("check needs at least one .obj or .mtl file")
	}
	for _, path := range ctx.Args() {
		if err := checkFile(ctx.App.Writer, path); err != nil {
			return err
		}
	}
	return nil
}

// checkFile parses one file and prints a one-line summary of it.
func checkFile(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	text := string(data)
	log := logger.Named("check").With(zap.String("path", path))
	start := time.Now()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		obj, libs, err := wavefront.ParseObjectLibraries(text)
		if err != nil {
			return fmt.Errorf("parse object %s: %w", path, err)
		}
		log.Debug("parsed object",
			zap.Int("triangles", len(obj.Triangles)),
			zap.Duration("took", time.Since(start)))
		fmt.Fprintf(w, "%s: %d vertices, %d texture vertices, %d normals, %d triangles",
			path, len(obj.RawVertices), len(obj.RawVerticesTexture), len(obj.RawVerticesNormals), len(obj.Triangles))
		if len(libs) > 0 {
			fmt.Fprintf(w, " (mtllib %s)", strings.Join(libs, ", "))
		}
		fmt.Fprintln(w)

	case ".mtl":
		mats, err := wavefront.ParseMaterials(text)
		if err != nil {
			return fmt.Errorf("parse materials %s: %w", path, err)
		}
		log.Debug("parsed materials",
			zap.Int("materials", len(mats)),
			zap.Duration("took", time.Since(start)))
		names := make([]string, len(mats))
		for i, m := range mats {
			names[i] = m.Name
		}
		fmt.Fprintf(w, "%s: %d materials (%s)\n", path, len(mats), strings.Join(names, ", "))

	default:
		return fmt.Errorf("check %s: unsupported file type %q", path, ext)
	}
	return nil
}
