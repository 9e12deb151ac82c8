package scene

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movedCamera() *TurntableCamera {
	cam := NewTurntableCamera()
	cam.UpdateFormatRatio(800, 600)
	cam.RotateAction(40, -25)
	cam.MoveAction(12, 7)
	cam.ZoomAction(-1)
	return cam
}

func TestModelViewProjectionMatchesReference(t *testing.T) {
	cam := movedCamera()
	objs := []*Object{
		NewObject("a", "cube", NewDiffuse()).At(mgl32.Vec3{1, -2, 3}).Scaled(mgl32.Vec3{2, 0.5, 1}),
		NewObject("b", "sphere", NewBackground()).Scaled(mgl32.Vec3{80, 80, 80}),
	}
	cam.ComputeObjectsTransformationMatrices(slices.Values(objs))

	for _, o := range objs {
		tr, ok := cam.ObjectMatrices(o)
		require.True(t, ok, o.Name)

		model := mgl32.Translate3D(o.Translation[0], o.Translation[1], o.Translation[2]).
			Mul4(mgl32.Scale3D(o.Scale[0], o.Scale[1], o.Scale[2]))
		wantMV := cam.View.Mul4(model)
		wantMVP := cam.Projection.Mul4(cam.View).Mul4(model)

		assert.True(t, wantMV.ApproxEqualThreshold(tr.ModelView, 1e-4), "model view of %s", o.Name)
		assert.True(t, wantMVP.ApproxEqualThreshold(tr.ModelViewProjection, 1e-4), "mvp of %s", o.Name)
	}
}

func TestNormalsStayPerpendicularToSurface(t *testing.T) {
	cam := movedCamera()
	o := NewObject("a", "cube", NewDiffuse()).At(mgl32.Vec3{3, 1, 0}).Scaled(mgl32.Vec3{4, 0.25, 2})
	cam.ComputeObjectsTransformationMatrices(slices.Values([]*Object{o}))
	tr, ok := cam.ObjectMatrices(o)
	require.True(t, ok)

	cases := []struct{ n, t mgl32.Vec3 }{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 1, 0}},
		{mgl32.Vec3{1, 1, 0}.Normalize(), mgl32.Vec3{1, -1, 3}},
		{mgl32.Vec3{1, 2, 3}.Normalize(), mgl32.Vec3{3, 0, -1}},
	}
	for _, c := range cases {
		require.InDelta(t, 0, c.n.Dot(c.t), 1e-6)
		n := tr.NormalsModelView.Mul3x1(c.n).Normalize()
		tt := tr.ModelView.Mul4x1(c.t.Vec4(0)).Vec3().Normalize()
		assert.InDelta(t, 0, n.Dot(tt), 1e-4)
	}
}

func TestComputeReplacesCache(t *testing.T) {
	cam := NewTurntableCamera()
	a := NewObject("a", "cube", NewDiffuse())
	b := NewObject("b", "cube", NewDiffuse())

	cam.ComputeObjectsTransformationMatrices(slices.Values([]*Object{a, b}))
	cam.ComputeObjectsTransformationMatrices(slices.Values([]*Object{b}))

	_, ok := cam.ObjectMatrices(a)
	assert.False(t, ok, "entries from an earlier computation must not survive")
	_, ok = cam.ObjectMatrices(b)
	assert.True(t, ok)
}

func TestCacheKeyedByObjectIdentity(t *testing.T) {
	cam := NewTurntableCamera()
	a := NewObject("a", "cube", NewDiffuse())
	b := *a
	b.Translation = mgl32.Vec3{5, 0, 0}
	lit1 := &Object{Mesh: "cube", Scale: mgl32.Vec3{1, 1, 1}}
	lit2 := &Object{Mesh: "cube", Scale: mgl32.Vec3{1, 1, 1}, Translation: mgl32.Vec3{0, 7, 0}}
	require.Equal(t, a.ID, b.ID)
	require.Equal(t, lit1.ID, lit2.ID)

	objs := []*Object{a, &b, lit1, lit2}
	cam.ComputeObjectsTransformationMatrices(slices.Values(objs))

	for _, o := range objs {
		tr, ok := cam.ObjectMatrices(o)
		require.True(t, ok)
		want := cam.View.Mul4(o.ModelToWorld())
		assert.True(t, want.ApproxEqualThreshold(tr.ModelView, 1e-5), "model view of object at %v", o.Translation)
	}
	ta, _ := cam.ObjectMatrices(a)
	tb, _ := cam.ObjectMatrices(&b)
	assert.False(t, ta.ModelView.ApproxEqualThreshold(tb.ModelView, 1e-5), "a copy must keep its own matrices")
}

func TestZoomClampsDistanceFactor(t *testing.T) {
	cam := NewTurntableCamera()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		delta := (rng.Float32()*2 - 1) * 1e6
		if i%97 == 0 {
			delta = 0
		}
		cam.ZoomAction(delta)
		require.GreaterOrEqual(t, cam.DistanceFactor, float32(0.02))
		require.LessOrEqual(t, cam.DistanceFactor, float32(4))
	}
	for i := 0; i < 100; i++ {
		cam.ZoomAction(1)
	}
	assert.Equal(t, float32(4), cam.DistanceFactor)
	for i := 0; i < 100; i++ {
		cam.ZoomAction(-1)
	}
	assert.Equal(t, float32(0.02), cam.DistanceFactor)
}

func TestTurntableEyeDistance(t *testing.T) {
	cam := NewTurntableCamera()
	eye := cam.View.Inv().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.InDelta(t, 15, eye.Len(), 1e-3)

	cam.ZoomAction(1)
	eye = cam.View.Inv().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.InDelta(t, 15*1.18, eye.Len(), 1e-3)
}

func TestPresetRoundTrip(t *testing.T) {
	cam := movedCamera()
	p := cam.Preset()
	view := cam.View

	other := NewTurntableCamera()
	other.SetPresetView(p)
	assert.True(t, view.ApproxEqualThreshold(other.View, 1e-5))
}

func TestLightToCamView(t *testing.T) {
	cam := movedCamera()
	l := &Light{Position: mgl32.Vec3{-4, -5, 7}}
	want := cam.View.Mul4x1(l.Position.Vec4(1)).Vec3()
	assert.True(t, want.ApproxEqualThreshold(cam.LightToCamView(l), 1e-4))
}
