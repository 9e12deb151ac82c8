package gpu

type CompareFunc int

const (
	CompareLess CompareFunc = iota
	CompareLessEqual
	CompareEqual
	CompareGreater
	CompareGreaterEqual
	CompareNotEqual
	CompareAlways
	CompareNever
)

func (f CompareFunc) String() string {
	switch f {
	case CompareLess:
		return "<"
	case CompareLessEqual:
		return "<="
	case CompareEqual:
		return "=="
	case CompareGreater:
		return ">"
	case CompareGreaterEqual:
		return ">="
	case CompareNotEqual:
		return "!="
	case CompareAlways:
		return "always"
	default:
		return "never"
	}
}

// Test reports whether an incoming depth passes against the stored one.
func (f CompareFunc) Test(incoming, stored float32) bool {
	switch f {
	case CompareLess:
		return incoming < stored
	case CompareLessEqual:
		return incoming <= stored
	case CompareEqual:
		return incoming == stored
	case CompareGreater:
		return incoming > stored
	case CompareGreaterEqual:
		return incoming >= stored
	case CompareNotEqual:
		return incoming != stored
	case CompareAlways:
		return true
	default:
		return false
	}
}

type BlendFactor int

const (
	BlendOne BlendFactor = iota
	BlendZero
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

type Face int

const (
	FaceBack Face = iota
	FaceFront
)

type DepthState struct {
	Enable bool
	Mask   bool
	Func   CompareFunc
}

type BlendState struct {
	Enable bool
	Src    BlendFactor
	Dst    BlendFactor
}

type CullState struct {
	Enable bool
	Face   Face
}

// DefaultDepth tests with "<" and leaves depth writes on, the usual GL
// defaults.
func DefaultDepth() DepthState {
	return DepthState{Enable: true, Mask: true, Func: CompareLess}
}

// Additive is src + dst.
func Additive() BlendState {
	return BlendState{Enable: true, Src: BlendOne, Dst: BlendOne}
}
