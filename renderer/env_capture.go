package renderer

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/gpu"
	"render-pipeline/scene"
)

var ErrCaptureInProgress = errors.New("environment capture already in progress")

const (
	captureNear = 0.1
	captureFar  = 200
)

// Face directions and up vectors, in cube face order +X, -X, +Y, -Y, +Z, -Z.
// The directions are in the outer camera's view space.
var (
	cubeFaceDir = [6]mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	cubeFaceUp = [6]mgl32.Vec3{
		{0, -1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
		{0, -1, 0}, {0, -1, 0},
	}

	// annotationColors tint each face in previews: red for X, green for Y,
	// blue for Z, darker on the negative side.
	annotationColors = [6]mgl32.Vec4{
		{1, 0, 0, 0.25}, {0.5, 0, 0, 0.25},
		{0, 1, 0, 0.25}, {0, 0.5, 0, 0.25},
		{0, 0, 1, 0.25}, {0, 0, 0.5, 0.25},
	}
)

const annotationSize = 4

// EnvironmentCapture renders the scene into the six faces of a cube target
// as seen from one point.
type EnvironmentCapture struct {
	backend    gpu.Backend
	target     gpu.CubeTarget
	annotation gpu.CubeTarget
	projection mgl32.Mat4
	busy       bool

	// ClearColor replaces the scene background when clearing faces.
	ClearColor *mgl32.Vec4
}

func NewEnvironmentCapture(b gpu.Backend, size int) (*EnvironmentCapture, error) {
	target, err := b.CreateCubeTarget(size)
	if err != nil {
		return nil, fmt.Errorf("create capture cube: %w", err)
	}
	annotation, err := newAnnotationCube(b)
	if err != nil {
		target.Destroy()
		return nil, err
	}
	return &EnvironmentCapture{
		backend:    b,
		target:     target,
		annotation: annotation,
		projection: mgl32.Perspective(math32.Pi/2, 1, captureNear, captureFar),
	}, nil
}

// newAnnotationCube fills a small cube with one translucent tint per face.
func newAnnotationCube(b gpu.Backend) (gpu.CubeTarget, error) {
	cube, err := b.CreateCubeTarget(annotationSize)
	if err != nil {
		return nil, fmt.Errorf("create annotation cube: %w", err)
	}
	for face, c := range annotationColors {
		err := b.Use(cube.Face(face), func() error {
			return b.Clear(gpu.ClearAll(c, 1))
		})
		if err != nil {
			cube.Destroy()
			return nil, fmt.Errorf("annotate face %d: %w", face, err)
		}
	}
	return cube, nil
}

// FaceCamera returns the camera for one face of a capture centered at
// center (world space), built on top of the outer camera's view.
func (e *EnvironmentCapture) FaceCamera(outer *scene.Camera, face int, center mgl32.Vec3) *scene.Camera {
	c := mgl32.TransformCoordinate(center, outer.View)
	view := mgl32.LookAtV(c, c.Add(cubeFaceDir[face]), cubeFaceUp[face]).Mul4(outer.View)
	return scene.NewCamera(view, e.projection)
}

// Capture renders every face with render, each face through its own
// camera whose object matrices are computed for v.Objects. render must not
// start another capture on this instance.
func (e *EnvironmentCapture) Capture(v View, center mgl32.Vec3, render func(View) error) error {
	if e.busy {
		return ErrCaptureInProgress
	}
	e.busy = true
	defer func() { e.busy = false }()

	clearColor := v.State.Background
	if e.ClearColor != nil {
		clearColor = *e.ClearColor
	}
	for face := range 6 {
		cam := e.FaceCamera(v.Camera, face, center)
		cam.ComputeObjectsTransformationMatrices(v.Objects.All())
		fv := v.WithCamera(cam)
		err := e.backend.Use(e.target.Face(face), func() error {
			if err := e.backend.Clear(gpu.ClearAll(clearColor, 1)); err != nil {
				return err
			}
			return render(fv)
		})
		if err != nil {
			return fmt.Errorf("capture face %d: %w", face, err)
		}
	}
	return nil
}

func (e *EnvironmentCapture) CubeMap() gpu.CubeTexture { return e.target.Texture() }

func (e *EnvironmentCapture) Target() gpu.CubeTarget { return e.target }

// Annotation is the companion cube telling faces apart in previews.
func (e *EnvironmentCapture) Annotation() gpu.CubeTexture { return e.annotation.Texture() }

func (e *EnvironmentCapture) Destroy() {
	e.target.Destroy()
	e.annotation.Destroy()
}
