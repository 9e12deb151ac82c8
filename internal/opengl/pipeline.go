package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"render-pipeline/gpu"
	"render-pipeline/internal/logger"
)

type pipeline struct {
	desc      gpu.PipelineDesc
	program   uint32
	locations map[string]int32
}

func (p *pipeline) Name() string { return p.desc.Name }

func (p *pipeline) Destroy() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

// CreatePipeline compiles and links the shader pair and resolves the
// location of every bound uniform. A bound uniform the linker optimised
// away gets location -1, which GL ignores on upload.
func (b *Backend) CreatePipeline(desc gpu.PipelineDesc) (gpu.Pipeline, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	prog, err := newProgram(desc.Vertex, desc.Fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", gpu.ErrInvalidPipeline, desc.Name, err)
	}
	p := &pipeline{desc: desc, program: prog, locations: make(map[string]int32, len(desc.Uniforms))}
	var unused []string
	for _, u := range desc.Uniforms {
		loc := gl.GetUniformLocation(prog, gl.Str(u.Name+"\x00"))
		if loc < 0 {
			unused = append(unused, u.Name)
		}
		p.locations[u.Name] = loc
	}
	if len(unused) > 0 {
		logger.Log.Warn("uniforms not active in program",
			zap.String("pipeline", desc.Name),
			zap.Strings("uniforms", unused))
	}
	logger.Log.Debug("pipeline created",
		zap.String("pipeline", desc.Name),
		zap.String("vertex", desc.Vertex.Name),
		zap.String("fragment", desc.Fragment.Name))
	return p, nil
}

func (p *pipeline) Draw(records ...gpu.Props) error {
	gl.UseProgram(p.program)
	p.applyState()
	for i, rec := range records {
		m, err := rec.Mesh()
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", p.desc.Name, i, err)
		}
		mesh, ok := m.(*Mesh)
		if !ok {
			return fmt.Errorf("%s: record %d: mesh %T does not belong to this backend", p.desc.Name, i, m)
		}
		vals, err := gpu.Resolve(p.desc.Uniforms, rec)
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", p.desc.Name, i, err)
		}
		unit := int32(0)
		for name, v := range vals {
			if err := p.upload(p.locations[name], v, &unit); err != nil {
				return fmt.Errorf("%s: uniform %s: %w", p.desc.Name, name, err)
			}
		}
		mesh.draw()
	}
	return nil
}

// ── Fixed-function state ─────────────────────────────────────────────────────

var compareFuncs = map[gpu.CompareFunc]uint32{
	gpu.CompareLess:         gl.LESS,
	gpu.CompareLessEqual:    gl.LEQUAL,
	gpu.CompareEqual:        gl.EQUAL,
	gpu.CompareGreater:      gl.GREATER,
	gpu.CompareGreaterEqual: gl.GEQUAL,
	gpu.CompareNotEqual:     gl.NOTEQUAL,
	gpu.CompareAlways:       gl.ALWAYS,
	gpu.CompareNever:        gl.NEVER,
}

var blendFactors = map[gpu.BlendFactor]uint32{
	gpu.BlendOne:              gl.ONE,
	gpu.BlendZero:             gl.ZERO,
	gpu.BlendSrcAlpha:         gl.SRC_ALPHA,
	gpu.BlendOneMinusSrcAlpha: gl.ONE_MINUS_SRC_ALPHA,
}

func (p *pipeline) applyState() {
	d := p.desc
	if d.Depth.Enable {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(compareFuncs[d.Depth.Func])
		gl.DepthMask(d.Depth.Mask)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if d.Blend.Enable {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(blendFactors[d.Blend.Src], blendFactors[d.Blend.Dst])
	} else {
		gl.Disable(gl.BLEND)
	}
	if d.Cull.Enable {
		gl.Enable(gl.CULL_FACE)
		if d.Cull.Face == gpu.FaceFront {
			gl.CullFace(gl.FRONT)
		} else {
			gl.CullFace(gl.BACK)
		}
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

// ── Uniform upload ───────────────────────────────────────────────────────────

// upload sets one uniform. Samplers take the next free texture unit.
func (p *pipeline) upload(loc int32, v any, unit *int32) error {
	switch v := v.(type) {
	case float32:
		gl.Uniform1f(loc, v)
	case float64:
		gl.Uniform1f(loc, float32(v))
	case int:
		gl.Uniform1i(loc, int32(v))
	case int32:
		gl.Uniform1i(loc, v)
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.Uniform1i(loc, i)
	case mgl32.Vec2:
		gl.Uniform2fv(loc, 1, &v[0])
	case mgl32.Vec3:
		gl.Uniform3fv(loc, 1, &v[0])
	case mgl32.Vec4:
		gl.Uniform4fv(loc, 1, &v[0])
	case mgl32.Mat3:
		gl.UniformMatrix3fv(loc, 1, false, &v[0])
	case mgl32.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	case []mgl32.Vec2:
		if len(v) > 0 {
			gl.Uniform2fv(loc, int32(len(v)), &v[0][0])
		}
	case []mgl32.Vec3:
		if len(v) > 0 {
			gl.Uniform3fv(loc, int32(len(v)), &v[0][0])
		}
	case *Texture:
		bindSampler(loc, gl.TEXTURE_2D, v.id, unit)
	case *RenderTarget:
		bindSampler(loc, gl.TEXTURE_2D, v.tex.id, unit)
	case *CubeTexture:
		bindSampler(loc, gl.TEXTURE_CUBE_MAP, v.id, unit)
	case *CubeTarget:
		bindSampler(loc, gl.TEXTURE_CUBE_MAP, v.tex.id, unit)
	default:
		return fmt.Errorf("unsupported uniform value %T", v)
	}
	return nil
}

func bindSampler(loc int32, target, id uint32, unit *int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(*unit))
	gl.BindTexture(target, id)
	gl.Uniform1i(loc, *unit)
	*unit++
}

// ── Shader helpers ───────────────────────────────────────────────────────────

func newProgram(vert, frag gpu.ShaderSource) (uint32, error) {
	vs, err := compileShader(vert.Source, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex %s: %w", vert.Name, err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(frag.Source, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment %s: %w", frag.Name, err)
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	for name, loc := range attribLocations {
		gl.BindAttribLocation(prog, loc, gl.Str(name+"\x00"))
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	if src == "" {
		return 0, fmt.Errorf("empty source")
	}
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
