package render

import (
	"errors"
	"math"

	"github.com/taigrr/objsvg/pkg/math3d"
	"github.com/taigrr/objsvg/pkg/models"
)

// ErrSingularCamera is returned when a camera-to-world matrix has no inverse.
var ErrSingularCamera = errors.New("camera-to-world matrix is not invertible")

// DefaultCameraToWorld looks at the origin from above and to the right.
var DefaultCameraToWorld = math3d.Mat4{
	0.871214, 0, -0.490904, 0,
	-0.192902, 0.919559, -0.342346, 0,
	0.451415, 0.392953, 0.801132, 0,
	14.777467, 29.361945, 27.993464, 1,
}

// PinholeCamera projects world points onto a raster image through an image
// plane one unit in front of the eye.
type PinholeCamera struct {
	WorldToCamera math3d.Mat4

	// Size of the image plane in camera units.
	CanvasWidth  float64
	CanvasHeight float64

	// Size of the raster image in pixels.
	ImageWidth  int
	ImageHeight int
}

// NewPinholeCamera inverts cameraToWorld and returns a camera for a raster of
// imageWidth x imageHeight pixels.
func NewPinholeCamera(cameraToWorld math3d.Mat4, canvasWidth, canvasHeight float64, imageWidth, imageHeight int) (*PinholeCamera, error) {
	worldToCamera, ok := cameraToWorld.Inverse()
	if !ok {
		return nil, ErrSingularCamera
	}
	return &PinholeCamera{
		WorldToCamera: worldToCamera,
		CanvasWidth:   canvasWidth,
		CanvasHeight:  canvasHeight,
		ImageWidth:    imageWidth,
		ImageHeight:   imageHeight,
	}, nil
}

// Project returns the raster position of p and whether p lies in front of
// the camera. Points behind the camera still get coordinates, but they are
// mirrored and should not be drawn.
func (c *PinholeCamera) Project(p math3d.Vec3) (x, y int, inFront bool) {
	pc := c.WorldToCamera.MulVec3(p)

	screenX := pc.X / -pc.Z
	screenY := pc.Y / -pc.Z

	ndcX := (screenX + c.CanvasWidth*0.5) / c.CanvasWidth
	ndcY := (screenY + c.CanvasHeight*0.5) / c.CanvasHeight

	x = int(ndcX * float64(c.ImageWidth))
	y = int((1 - ndcY) * float64(c.ImageHeight))
	return x, y, pc.Z < 0
}

// PixelCoordinates returns the raster position of p with the y axis
// pointing down.
func (c *PinholeCamera) PixelCoordinates(p math3d.Vec3) (x, y int) {
	x, y, _ = c.Project(p)
	return x, y
}

// maxPitch keeps the orbit away from the poles where the up vector flips.
const maxPitch = 89 * math.Pi / 180

// OrbitCameraToWorld returns the camera-to-world matrix of a camera sitting
// distance away from center and looking at it. yaw turns around the world Y
// axis starting from +Z, pitch raises the eye above the XZ plane.
func OrbitCameraToWorld(center math3d.Vec3, distance, yaw, pitch float64) math3d.Mat4 {
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))
	eye := center.Add(math3d.V3(
		math.Cos(pitch)*math.Sin(yaw),
		math.Sin(pitch),
		math.Cos(pitch)*math.Cos(yaw),
	).Scale(distance))

	f := center.Sub(eye).Normalize()
	s := f.Cross(math3d.Up()).Normalize()
	u := s.Cross(f)

	return math3d.Mat4{
		s.X, s.Y, s.Z, 0,
		u.X, u.Y, u.Z, 0,
		-f.X, -f.Y, -f.Z, 0,
		eye.X, eye.Y, eye.Z, 1,
	}
}

// FitDistance returns how far a pinhole camera with the given canvas must
// stand from a sphere of radius r to see all of it, with a small margin.
func FitDistance(radius, canvasWidth, canvasHeight float64) float64 {
	half := math.Atan(math.Min(canvasWidth, canvasHeight) * 0.5)
	if radius <= 0 || half <= 0 {
		return 1
	}
	return 1.1 * radius / math.Sin(half)
}

// FitCameraToWorld orbits the mesh's bounding box so that the whole mesh is
// in view.
func FitCameraToWorld(mesh *models.Mesh, canvasWidth, canvasHeight, yaw, pitch float64) math3d.Mat4 {
	radius := mesh.Size().Len() * 0.5
	return OrbitCameraToWorld(mesh.Center(), FitDistance(radius, canvasWidth, canvasHeight), yaw, pitch)
}
