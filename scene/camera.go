package scene

import (
	"iter"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transforms are the per-object matrices a camera hands to shaders.
type Transforms struct {
	ModelView           mgl32.Mat4
	ModelViewProjection mgl32.Mat4
	NormalsModelView    mgl32.Mat3
}

// ComputeTransforms derives an object's matrices for one view/projection.
func ComputeTransforms(view, projection, model mgl32.Mat4) Transforms {
	mv := view.Mul4(model)
	return Transforms{
		ModelView:           mv,
		ModelViewProjection: projection.Mul4(mv),
		NormalsModelView:    mv.Mat3().Inv().Transpose(),
	}
}

// Camera holds a view and projection plus the matrices of every object it
// has been asked to draw this frame. The cache is keyed by object identity
// and is rebuilt, never patched.
type Camera struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4

	objectMatrices map[*Object]Transforms
}

func NewCamera(view, projection mgl32.Mat4) *Camera {
	return &Camera{View: view, Projection: projection}
}

// ComputeObjectsTransformationMatrices replaces the transform cache with
// entries for objects. Call it after the view or projection changes and
// before any pass reads ObjectMatrices.
func (c *Camera) ComputeObjectsTransformationMatrices(objects iter.Seq[*Object]) {
	m := make(map[*Object]Transforms, len(c.objectMatrices))
	for o := range objects {
		m[o] = ComputeTransforms(c.View, c.Projection, o.ModelToWorld())
	}
	c.objectMatrices = m
}

// ObjectMatrices returns o's matrices from the last computation.
func (c *Camera) ObjectMatrices(o *Object) (Transforms, bool) {
	t, ok := c.objectMatrices[o]
	return t, ok
}

// LightToCamView returns the light position in this camera's view space.
func (c *Camera) LightToCamView(l *Light) mgl32.Vec3 {
	return mgl32.TransformCoordinate(l.Position, c.View)
}

// ── Turntable ────────────────────────────────────────────────────────────────

const (
	minDistanceFactor = 0.02
	maxDistanceFactor = 4
	zoomStep          = 1.18
	rotateSpeed       = 0.003
	moveSpeed         = 0.0005
)

// TurntableCamera orbits LookAt. The eye starts on -X at distance
// DistanceBase*DistanceFactor and is spun by AngleY about Y then AngleZ
// about Z. Z is up.
type TurntableCamera struct {
	Camera

	AngleZ         float32
	AngleY         float32
	DistanceFactor float32
	DistanceBase   float32
	LookAt         mgl32.Vec3

	FovY float32 // radians
	Near float32
	Far  float32
}

func NewTurntableCamera() *TurntableCamera {
	c := &TurntableCamera{
		AngleZ:         math32.Pi * 0.2,
		AngleY:         -math32.Pi / 6,
		DistanceFactor: 1,
		DistanceBase:   15,
		FovY:           mgl32.DegToRad(60),
		Near:           0.01,
		Far:            512,
	}
	c.UpdateFormatRatio(100, 100)
	c.UpdateCamTransform()
	return c
}

// UpdateFormatRatio rebuilds the projection for a width×height viewport.
func (c *TurntableCamera) UpdateFormatRatio(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Projection = mgl32.Perspective(c.FovY, float32(width)/float32(height), c.Near, c.Far)
}

func (c *TurntableCamera) UpdateCamTransform() {
	r := c.DistanceBase * c.DistanceFactor
	lookAt := mgl32.LookAtV(mgl32.Vec3{-r, 0, 0}, c.LookAt, mgl32.Vec3{0, 0, 1})
	c.View = lookAt.Mul4(mgl32.HomogRotate3DY(c.AngleY)).Mul4(mgl32.HomogRotate3DZ(c.AngleZ))
}

// ZoomAction zooms out for positive deltaY and in for negative.
func (c *TurntableCamera) ZoomAction(deltaY float32) {
	if deltaY > 0 {
		c.DistanceFactor *= zoomStep
	} else {
		c.DistanceFactor /= zoomStep
	}
	c.DistanceFactor = min(max(c.DistanceFactor, minDistanceFactor), maxDistanceFactor)
	c.UpdateCamTransform()
}

// RotateAction applies a mouse drag of (dx, dy) pixels.
func (c *TurntableCamera) RotateAction(dx, dy float32) {
	c.AngleZ += dx * rotateSpeed
	c.AngleY += -dy * rotateSpeed
	c.UpdateCamTransform()
}

// MoveAction pans LookAt along the camera's right and up directions.
func (c *TurntableCamera) MoveAction(dx, dy float32) {
	s := c.DistanceBase * c.DistanceFactor * moveSpeed
	sz, cz := math32.Sincos(c.AngleZ)
	sy, cy := math32.Sincos(c.AngleY)
	right := mgl32.Vec3{sz, cz, 0}
	up := mgl32.Vec3{-cz * sy, sz * sy, cy}
	c.LookAt = c.LookAt.Add(right.Mul(dx * s)).Add(up.Mul(dy * s))
	c.UpdateCamTransform()
}

// Preset is a saved camera pose.
type Preset struct {
	DistanceFactor float32
	AngleZ         float32
	AngleY         float32
	LookAt         mgl32.Vec3
}

func (c *TurntableCamera) SetPresetView(p Preset) {
	c.DistanceFactor = min(max(p.DistanceFactor, minDistanceFactor), maxDistanceFactor)
	c.AngleZ = p.AngleZ
	c.AngleY = p.AngleY
	c.LookAt = p.LookAt
	c.UpdateCamTransform()
}

func (c *TurntableCamera) Preset() Preset {
	return Preset{DistanceFactor: c.DistanceFactor, AngleZ: c.AngleZ, AngleY: c.AngleY, LookAt: c.LookAt}
}
