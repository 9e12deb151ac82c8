package soft

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxVaryings is the number of float slots passed from vertex to fragment.
const MaxVaryings = 16

type Varyings [MaxVaryings]float32

func (v *Varyings) SetVec2(slot int, x mgl32.Vec2) { copy(v[slot:slot+2], x[:]) }
func (v *Varyings) SetVec3(slot int, x mgl32.Vec3) { copy(v[slot:slot+3], x[:]) }
func (v *Varyings) Vec2(slot int) mgl32.Vec2       { return mgl32.Vec2{v[slot], v[slot+1]} }
func (v *Varyings) Vec3(slot int) mgl32.Vec3       { return mgl32.Vec3{v[slot], v[slot+1], v[slot+2]} }

type VertexIn struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

type FragmentIn struct {
	Varyings    Varyings
	FragCoord   mgl32.Vec4
	FrontFacing bool
}

// VertexShader is a Go kernel standing in for one GLSL vertex stage.
// Varyings is how many slots it writes.
type VertexShader struct {
	Uniforms []string
	Varyings int
	Main     func(in VertexIn, u Uniforms, out *Varyings) mgl32.Vec4
}

// FragmentShader returns the output color, or false to discard.
type FragmentShader struct {
	Uniforms []string
	Main     func(in *FragmentIn, u Uniforms) (mgl32.Vec4, bool)
}

var (
	programsMu      sync.RWMutex
	vertexShaders   = map[string]VertexShader{}
	fragmentShaders = map[string]FragmentShader{}
)

// RegisterVertex makes a kernel available under a shader file name.
func RegisterVertex(name string, s VertexShader) {
	programsMu.Lock()
	defer programsMu.Unlock()
	if _, dup := vertexShaders[name]; dup {
		panic(fmt.Sprintf("soft: vertex shader %q registered twice", name))
	}
	vertexShaders[name] = s
}

func RegisterFragment(name string, s FragmentShader) {
	programsMu.Lock()
	defer programsMu.Unlock()
	if _, dup := fragmentShaders[name]; dup {
		panic(fmt.Sprintf("soft: fragment shader %q registered twice", name))
	}
	fragmentShaders[name] = s
}

func lookupPrograms(vert, frag string) (VertexShader, FragmentShader, error) {
	programsMu.RLock()
	defer programsMu.RUnlock()
	vs, ok := vertexShaders[vert]
	if !ok {
		return VertexShader{}, FragmentShader{}, fmt.Errorf("no software vertex program %q", vert)
	}
	fs, ok := fragmentShaders[frag]
	if !ok {
		return VertexShader{}, FragmentShader{}, fmt.Errorf("no software fragment program %q", frag)
	}
	return vs, fs, nil
}

// ── Uniform access ───────────────────────────────────────────────────────────

// Uniforms holds one draw record's resolved uniform values. Accessors return
// the zero value for absent or mistyped entries, as an unset GL uniform would.
type Uniforms map[string]any

func (u Uniforms) Mat4(name string) mgl32.Mat4 {
	m, _ := u[name].(mgl32.Mat4)
	return m
}

func (u Uniforms) Mat3(name string) mgl32.Mat3 {
	m, _ := u[name].(mgl32.Mat3)
	return m
}

func (u Uniforms) Vec2(name string) mgl32.Vec2 {
	switch v := u[name].(type) {
	case mgl32.Vec2:
		return v
	case [2]float32:
		return v
	}
	return mgl32.Vec2{}
}

func (u Uniforms) Vec3(name string) mgl32.Vec3 {
	switch v := u[name].(type) {
	case mgl32.Vec3:
		return v
	case [3]float32:
		return v
	}
	return mgl32.Vec3{}
}

func (u Uniforms) Vec4(name string) mgl32.Vec4 {
	switch v := u[name].(type) {
	case mgl32.Vec4:
		return v
	case [4]float32:
		return v
	case mgl32.Vec3:
		return v.Vec4(1)
	}
	return mgl32.Vec4{}
}

func (u Uniforms) Float(name string) float32 {
	switch v := u[name].(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func (u Uniforms) Int(name string) int {
	switch v := u[name].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case float32:
		return int(v)
	}
	return 0
}

func (u Uniforms) Bool(name string) bool {
	switch v := u[name].(type) {
	case bool:
		return v
	case float32:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

func (u Uniforms) Vec2s(name string) []mgl32.Vec2 {
	v, _ := u[name].([]mgl32.Vec2)
	return v
}

func (u Uniforms) Vec3s(name string) []mgl32.Vec3 {
	v, _ := u[name].([]mgl32.Vec3)
	return v
}

var blackTexture = &Texture{surf: newSurface(1, 1)}

// Sampler returns a 2D texture; unbound samplers read black.
func (u Uniforms) Sampler(name string) *Texture {
	switch v := u[name].(type) {
	case *Texture:
		return v
	case *RenderTarget:
		return v.tex
	}
	return blackTexture
}

var blackCube = &CubeTexture{size: 1, faces: [6]*surface{
	newSurface(1, 1), newSurface(1, 1), newSurface(1, 1),
	newSurface(1, 1), newSurface(1, 1), newSurface(1, 1),
}}

func (u Uniforms) Cube(name string) *CubeTexture {
	switch v := u[name].(type) {
	case *CubeTexture:
		return v
	case *CubeTarget:
		return v.tex
	}
	return blackCube
}
