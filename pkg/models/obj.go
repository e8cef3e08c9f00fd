package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/objsvg/pkg/math3d"
	"github.com/taigrr/objsvg/pkg/wavefront"
)

// OBJLoader loads Wavefront object files and their material libraries.
type OBJLoader struct {
	// MaterialPath overrides the material library lookup.
	MaterialPath string
	// RequireMaterials turns a missing material library into an error.
	RequireMaterials bool

	Logger *zap.Logger
}

// NewOBJLoader creates a loader that finds materials next to the object file.
func NewOBJLoader(logger *zap.Logger) *OBJLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OBJLoader{Logger: logger}
}

// LoadOBJ loads an object file with default options.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader(nil).Load(path)
}

// Load reads, parses and flattens the object at path.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	log := l.logger().With(zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	text := string(data)

	start := time.Now()
	obj, libs, err := wavefront.ParseObjectLibraries(text)
	if err != nil {
		return nil, fmt.Errorf("parse object %s: %w", path, err)
	}
	log.Debug("parsed object",
		zap.Int("triangles", len(obj.Triangles)),
		zap.Int("vertices", len(obj.RawVertices)),
		zap.Duration("took", time.Since(start)))

	mtlPath := l.materialPath(path, libs)

	var materials []wavefront.Material
	if mtlPath != "" {
		materials, err = l.loadMaterials(mtlPath)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !l.RequireMaterials:
			log.Warn("material library not found, drawing without materials", zap.String("mtl", mtlPath))
		case err != nil:
			return nil, err
		}
	} else if l.RequireMaterials {
		return nil, fmt.Errorf("no material library for %s", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	mesh := FromWavefront(name, obj, materials)

	for _, used := range unresolvedMaterials(obj, mesh) {
		log.Warn("face references unknown material", zap.String("material", used))
	}
	return mesh, nil
}

func (l *OBJLoader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// materialPath picks the explicit path, then the first mtllib reference,
// then <base>.mtl beside the object. It returns "" when none applies.
func (l *OBJLoader) materialPath(objPath string, libs []string) string {
	if l.MaterialPath != "" {
		return l.MaterialPath
	}

	if len(libs) > 0 {
		if filepath.IsAbs(libs[0]) {
			return libs[0]
		}
		return filepath.Join(filepath.Dir(objPath), libs[0])
	}

	sibling := strings.TrimSuffix(objPath, filepath.Ext(objPath)) + ".mtl"
	if _, err := os.Stat(sibling); err == nil {
		return sibling
	}
	return ""
}

func (l *OBJLoader) loadMaterials(path string) ([]wavefront.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read materials: %w", err)
	}

	start := time.Now()
	mats, err := wavefront.ParseMaterials(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse materials %s: %w", path, err)
	}
	l.logger().Debug("parsed materials",
		zap.String("mtl", path),
		zap.Int("materials", len(mats)),
		zap.Duration("took", time.Since(start)))
	return mats, nil
}

// FromWavefront flattens a parsed object into a mesh. Every triangle gets
// its own three vertices.
func FromWavefront(name string, obj *wavefront.Object, materials []wavefront.Material) *Mesh {
	mesh := NewMesh(name)
	mesh.Materials = make([]Material, 0, len(materials))
	for _, m := range materials {
		mesh.Materials = append(mesh.Materials, convertMaterial(m))
	}

	mesh.Vertices = make([]MeshVertex, 0, len(obj.Triangles)*3)
	mesh.Faces = make([]Face, 0, len(obj.Triangles))
	for _, t := range obj.Triangles {
		base := len(mesh.Vertices)
		corners := [3]struct {
			pos    wavefront.Vertex
			tex, n *wavefront.Vertex
		}{
			{t.V1, t.VT1, t.VN1},
			{t.V2, t.VT2, t.VN2},
			{t.V3, t.VT3, t.VN3},
		}
		for _, c := range corners {
			v := MeshVertex{Position: toVec3(c.pos)}
			if c.n != nil {
				v.Normal = toVec3(*c.n)
			}
			if c.tex != nil {
				v.UV = math3d.V2(c.tex.X, c.tex.Y)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}
		mesh.Faces = append(mesh.Faces, Face{
			V:        [3]int{base, base + 1, base + 2},
			Material: mesh.MaterialIndex(t.MaterialName),
		})
	}

	mesh.CalculateBounds()
	return mesh
}

// convertMaterial keeps the diffuse colour, with d as alpha when present.
func convertMaterial(m wavefront.Material) Material {
	alpha := 1.0
	if m.Alpha != nil {
		alpha = *m.Alpha
	}
	return Material{
		Name:      m.Name,
		BaseColor: [4]float64{m.ColorDiffuse.R, m.ColorDiffuse.G, m.ColorDiffuse.B, alpha},
	}
}

func unresolvedMaterials(obj *wavefront.Object, mesh *Mesh) []string {
	seen := make(map[string]bool)
	var missing []string
	for i, t := range obj.Triangles {
		if t.MaterialName == "" || mesh.Faces[i].Material >= 0 || seen[t.MaterialName] {
			continue
		}
		seen[t.MaterialName] = true
		missing = append(missing, t.MaterialName)
	}
	return missing
}

func toVec3(v wavefront.Vertex) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}
