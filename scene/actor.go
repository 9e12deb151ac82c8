package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type BehaviorKind int

const (
	Static BehaviorKind = iota
	Grow
	FlickerColor
	TrackLight
)

func (k BehaviorKind) String() string {
	switch k {
	case Grow:
		return "grow"
	case FlickerColor:
		return "flicker_color"
	case TrackLight:
		return "track_light"
	default:
		return "static"
	}
}

// Actor animates one object or light. Only the fields of its Kind are read:
//
//	Grow          Object, Rate, Max
//	FlickerColor  Object, Base, Amplitude
//	TrackLight    Light, HeightIndex
type Actor struct {
	Kind BehaviorKind

	Object *Object
	Light  *Light

	Rate      float32
	Max       float32
	Base      mgl32.Vec3
	Amplitude float32

	HeightIndex int
}

func NewGrowActor(o *Object, rate, limit float32) *Actor {
	return &Actor{Kind: Grow, Object: o, Rate: rate, Max: limit}
}

func NewFlickerActor(o *Object, amplitude float32) *Actor {
	return &Actor{Kind: FlickerColor, Object: o, Base: o.Material.Color, Amplitude: amplitude}
}

func NewTrackLightActor(l *Light, heightIndex int) *Actor {
	return &Actor{Kind: TrackLight, Light: l, HeightIndex: heightIndex}
}

// Evolve advances every actor by dt. Nothing moves while paused.
func (s *Scene) Evolve(f Frame, ui UIParams) {
	if ui.Paused {
		return
	}
	for _, a := range s.Actors {
		a.evolve(f, ui)
	}
}

func (a *Actor) evolve(f Frame, ui UIParams) {
	switch a.Kind {
	case Grow:
		if a.Object == nil {
			return
		}
		for i := range a.Object.Scale {
			a.Object.Scale[i] = min(a.Object.Scale[i]+a.Rate*f.Dt, a.Max)
		}
	case FlickerColor:
		if a.Object == nil || a.Object.Material == nil {
			return
		}
		flicker := math32.Abs(math32.Sin(f.Time*13) * math32.Sin(f.Time*7+1))
		a.Object.Material.Color = a.Base.Mul(1 - a.Amplitude*flicker)
	case TrackLight:
		if a.Light == nil || a.HeightIndex < 0 || a.HeightIndex >= len(ui.LightHeights) {
			return
		}
		a.Light.Position[2] = ui.LightHeights[a.HeightIndex]
	case Static:
	}
}
