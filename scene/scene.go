// Package scene holds what gets rendered: objects, materials, lights,
// actors and the cameras that look at them.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Light struct {
	Position mgl32.Vec3 // world space
	Color    mgl32.Vec3
}

type Scene struct {
	Objects       []*Object
	Lights        []*Light
	Camera        *TurntableCamera
	AmbientFactor float32
	Actors        map[string]*Actor
}

func NewScene() *Scene {
	return &Scene{
		Camera: NewTurntableCamera(),
		Actors: make(map[string]*Actor),
	}
}

func (s *Scene) Add(objects ...*Object) {
	s.Objects = append(s.Objects, objects...)
}

func (s *Scene) AddLight(l *Light) {
	s.Lights = append(s.Lights, l)
}

// AddActor registers an animated object or light under name.
func (s *Scene) AddActor(name string, a *Actor) {
	s.Actors[name] = a
}

// View is the full, unfiltered object list.
func (s *Scene) View() ObjectView {
	return NewObjectView(s.Objects)
}

// Frame is per-tick timing and the output size.
type Frame struct {
	Time   float32 // seconds since start
	Dt     float32
	Width  int
	Height int
}

// UIParams are the toggles the application exposes to the user.
type UIParams struct {
	Paused       bool
	SoftShadows  bool
	SSAO         bool
	Bloom        bool
	ShowCapture  bool
	LightHeights []float32
}

// State is everything SceneRenderer.Render needs for one frame.
type State struct {
	Scene      *Scene
	Frame      Frame
	Background mgl32.Vec4
	UI         UIParams
}
