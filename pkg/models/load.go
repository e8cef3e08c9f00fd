package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Load picks a loader by file extension.
func Load(path string, logger *zap.Logger) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return NewOBJLoader(logger).Load(path)
	case ".glb", ".gltf":
		return NewGLTFLoader(logger).Load(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", ext)
	}
}
