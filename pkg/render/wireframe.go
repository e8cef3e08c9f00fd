package render

import (
	"github.com/taigrr/objsvg/pkg/math3d"
	"github.com/taigrr/objsvg/pkg/models"
)

// Wireframe draws the edges of every mesh triangle through a pinhole camera.
type Wireframe struct {
	Camera *PinholeCamera
	Stroke Color

	// ColorByMaterial strokes each face with its material's base colour.
	// Faces without a material keep Stroke.
	ColorByMaterial bool
}

// NewWireframe creates a new wireframe renderer with black strokes.
func NewWireframe(camera *PinholeCamera) *Wireframe {
	return &Wireframe{Camera: camera, Stroke: ColorBlack}
}

// DrawLine3D projects both endpoints and sends the edge to sink. It reports
// false when an endpoint is behind the camera and nothing was drawn.
func (w *Wireframe) DrawLine3D(sink LineSink, p1, p2 math3d.Vec3, c Color) bool {
	x1, y1, vis1 := w.Camera.Project(p1)
	x2, y2, vis2 := w.Camera.Project(p2)
	if !vis1 || !vis2 {
		return false
	}
	sink.Line(x1, y1, x2, y2, c)
	return true
}

// Draw emits three edges per face, v0-v1, v1-v2 and v2-v0, in face order.
// It returns the number of edges drawn.
func (w *Wireframe) Draw(mesh *models.Mesh, sink LineSink) int {
	drawn := 0
	for i := range mesh.Faces {
		c := w.faceColor(mesh, i)
		tri := mesh.Triangle(i)
		for e := range 3 {
			if w.DrawLine3D(sink, tri[e], tri[(e+1)%3], c) {
				drawn++
			}
		}
	}
	return drawn
}

func (w *Wireframe) faceColor(mesh *models.Mesh, face int) Color {
	if !w.ColorByMaterial {
		return w.Stroke
	}
	mat := mesh.GetMaterial(mesh.GetFaceMaterial(face))
	if mat == nil {
		return w.Stroke
	}
	c := FromUnit(mat.BaseColor)
	c.A = 255
	return c
}
