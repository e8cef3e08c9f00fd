package render

import (
	"errors"
	"testing"

	"github.com/taigrr/objsvg/pkg/math3d"
	"github.com/taigrr/objsvg/pkg/models"
)

func identityCamera(t *testing.T) *PinholeCamera {
	t.Helper()
	cam, err := NewPinholeCamera(math3d.Identity(), 2, 2, 512, 512)
	if err != nil {
		t.Fatal(err)
	}
	return cam
}

func TestPixelCoordinates(t *testing.T) {
	cam := identityCamera(t)

	tests := []struct {
		name string
		p    math3d.Vec3
		x, y int
	}{
		{"center", math3d.V3(0, 0, -1), 256, 256},
		{"top right corner", math3d.V3(1, 1, -1), 512, 0},
		{"farther away", math3d.V3(-1, -1, -2), 128, 384},
		{"right edge", math3d.V3(1, 0, -1), 512, 256},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := cam.PixelCoordinates(tc.p)
			if x != tc.x || y != tc.y {
				t.Errorf("PixelCoordinates(%v) = (%d, %d), want (%d, %d)", tc.p, x, y, tc.x, tc.y)
			}
		})
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := identityCamera(t)

	if _, _, ok := cam.Project(math3d.V3(0, 0, -1)); !ok {
		t.Error("point in front reported behind")
	}
	if _, _, ok := cam.Project(math3d.V3(0, 0, 1)); ok {
		t.Error("point behind reported in front")
	}
	if _, _, ok := cam.Project(math3d.V3(0, 0, 0)); ok {
		t.Error("point on the eye reported in front")
	}
}

func TestTranslatedCamera(t *testing.T) {
	cam, err := NewPinholeCamera(math3d.Translate(math3d.V3(0, 0, 5)), 2, 2, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	x, y := cam.PixelCoordinates(math3d.V3(0, 0, 0))
	if x != 50 || y != 25 {
		t.Errorf("origin = (%d, %d), want (50, 25)", x, y)
	}
}

func TestDefaultCameraLooksForward(t *testing.T) {
	cam, err := NewPinholeCamera(DefaultCameraToWorld, 2, 2, 512, 512)
	if err != nil {
		t.Fatal(err)
	}

	eye := DefaultCameraToWorld.Translation()
	forward := DefaultCameraToWorld.MulVec3Dir(math3d.V3(0, 0, -1))
	x, y, ok := cam.Project(eye.Add(forward.Scale(10)))
	if !ok {
		t.Fatal("point along the view direction is behind the camera")
	}
	if abs(x-256) > 1 || abs(y-256) > 1 {
		t.Errorf("view direction = (%d, %d), want about (256, 256)", x, y)
	}
}

func TestSingularCamera(t *testing.T) {
	_, err := NewPinholeCamera(math3d.Mat4{}, 2, 2, 512, 512)
	if !errors.Is(err, ErrSingularCamera) {
		t.Errorf("err = %v, want ErrSingularCamera", err)
	}
}

func TestOrbitCameraToWorld(t *testing.T) {
	got := OrbitCameraToWorld(math3d.Vec3{}, 5, 0, 0)
	want := math3d.Translate(math3d.V3(0, 0, 5))
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("OrbitCameraToWorld = %v, want %v", got, want)
	}

	// The orbit always looks at its center, whatever the angles.
	center := math3d.V3(1, 2, 3)
	for _, angles := range [][2]float64{{0.3, 0.2}, {2, -0.5}, {-1, 1.6}} {
		c2w := OrbitCameraToWorld(center, 7, angles[0], angles[1])
		cam, err := NewPinholeCamera(c2w, 2, 2, 200, 200)
		if err != nil {
			t.Fatal(err)
		}
		x, y, ok := cam.Project(center)
		if !ok || abs(x-100) > 1 || abs(y-100) > 1 {
			t.Errorf("yaw %v pitch %v: center at (%d, %d) visible=%v", angles[0], angles[1], x, y, ok)
		}
	}
}

func TestFitCameraToWorld(t *testing.T) {
	mesh, err := models.LoadOBJ("../models/testdata/cube.obj")
	if err != nil {
		t.Fatal(err)
	}

	cam, err := NewPinholeCamera(FitCameraToWorld(mesh, 2, 2, 0.6, 0.4), 2, 2, 256, 256)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range mesh.Vertices {
		x, y, ok := cam.Project(v.Position)
		if !ok || x < 0 || x > 256 || y < 0 || y > 256 {
			t.Errorf("vertex %v projects to (%d, %d) visible=%v, outside the image", v.Position, x, y, ok)
		}
	}
}

func TestFitDistance(t *testing.T) {
	if d := FitDistance(0, 2, 2); d != 1 {
		t.Errorf("zero radius distance = %v, want 1", d)
	}
	if near, far := FitDistance(1, 2, 2), FitDistance(2, 2, 2); far <= near {
		t.Errorf("bigger sphere should sit farther away: %v <= %v", far, near)
	}
}

func BenchmarkPixelCoordinates(b *testing.B) {
	cam, _ := NewPinholeCamera(DefaultCameraToWorld, 2, 2, 512, 512)
	p := math3d.V3(1, 30, -2)
	for b.Loop() {
		cam.PixelCoordinates(p)
	}
}
