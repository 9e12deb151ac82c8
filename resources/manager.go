// Package resources owns everything the renderers look up by name: shader
// sources, meshes, textures and height maps. Lookups never fall back to a
// placeholder; an unknown name is an error.
package resources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"render-pipeline/gpu"
	"render-pipeline/internal/logger"
	"render-pipeline/scene"
	"render-pipeline/shaders"
)

var ErrMissingResource = errors.New("missing resource")

// Manifest lists asset files to load. Resource names are the file base
// names without extension.
type Manifest struct {
	Dir      string
	Meshes   []string
	Textures []string
}

type Manager struct {
	backend gpu.Backend
	shaders fs.FS

	mu         sync.RWMutex
	meshData   map[string]*gpu.MeshData
	meshes     map[string]gpu.Mesh
	textures   map[string]gpu.Texture
	heightMaps map[string]*scene.HeightMap
}

// NewManager uploads the built-in meshes and generated textures to b.
// A nil shaderFS selects the embedded shader sources.
func NewManager(b gpu.Backend, shaderFS fs.FS) (*Manager, error) {
	if shaderFS == nil {
		shaderFS = shaders.FS()
	}
	m := &Manager{
		backend:    b,
		shaders:    shaderFS,
		meshData:   make(map[string]*gpu.MeshData),
		meshes:     make(map[string]gpu.Mesh),
		textures:   make(map[string]gpu.Texture),
		heightMaps: make(map[string]*scene.HeightMap),
	}
	for name, data := range builtinMeshes() {
		if err := m.AddProceduralMesh(name, data); err != nil {
			m.Destroy()
			return nil, err
		}
	}
	for _, desc := range generatedTextures() {
		if err := m.AddTexture(desc); err != nil {
			m.Destroy()
			return nil, err
		}
	}
	return m, nil
}

func (m *Manager) Backend() gpu.Backend { return m.backend }

func missing(kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, ErrMissingResource)
}

// Shader returns the named stage source.
func (m *Manager) Shader(name string) (gpu.ShaderSource, error) {
	if name == "" {
		return gpu.ShaderSource{}, missing("shader", name)
	}
	b, err := fs.ReadFile(m.shaders, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gpu.ShaderSource{}, missing("shader", name)
		}
		return gpu.ShaderSource{}, fmt.Errorf("shader %q: %w", name, err)
	}
	return gpu.ShaderSource{Name: name, Source: string(b)}, nil
}

// Mesh returns the uploaded mesh for a reference.
func (m *Manager) Mesh(name string) (gpu.Mesh, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mesh, ok := m.meshes[name]
	if !ok {
		return nil, missing("mesh", name)
	}
	return mesh, nil
}

// MeshData returns the CPU copy of a mesh.
func (m *Manager) MeshData(name string) (*gpu.MeshData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.meshData[name]
	if !ok {
		return nil, missing("mesh", name)
	}
	return data, nil
}

func (m *Manager) Texture(name string) (gpu.Texture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tex, ok := m.textures[name]
	if !ok {
		return nil, missing("texture", name)
	}
	return tex, nil
}

func (m *Manager) DefaultTexture() gpu.Texture {
	tex, _ := m.Texture(DefaultTextureName)
	return tex
}

func (m *Manager) HeightMap(name string) (*scene.HeightMap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hm, ok := m.heightMaps[name]
	if !ok {
		return nil, missing("height map", name)
	}
	return hm, nil
}

// AddProceduralMesh uploads runtime generated geometry under name,
// replacing any mesh already registered there.
func (m *Manager) AddProceduralMesh(name string, data *gpu.MeshData) error {
	if name == "" {
		return fmt.Errorf("add mesh: empty name")
	}
	if err := data.Validate(); err != nil {
		return fmt.Errorf("add mesh %q: %w", name, err)
	}
	mesh, err := m.backend.CreateMesh(data)
	if err != nil {
		return fmt.Errorf("upload mesh %q: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.meshes[name]; ok {
		old.Destroy()
	}
	m.meshes[name] = mesh
	m.meshData[name] = data
	logger.Log.Debug("mesh registered",
		zap.String("name", name),
		zap.Int("vertices", len(data.Positions)),
		zap.Int("faces", len(data.Faces)))
	return nil
}

func (m *Manager) AddTexture(desc gpu.TextureDesc) error {
	if desc.Name == "" {
		return fmt.Errorf("add texture: empty name")
	}
	tex, err := m.backend.CreateTexture(desc)
	if err != nil {
		return fmt.Errorf("upload texture %q: %w", desc.Name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.textures[desc.Name]; ok {
		old.Destroy()
	}
	m.textures[desc.Name] = tex
	return nil
}

func (m *Manager) AddHeightMap(name string, hm *scene.HeightMap) {
	m.mu.Lock()
	m.heightMaps[name] = hm
	m.mu.Unlock()
}

// Load decodes every file of the manifest concurrently, then uploads the
// results from the calling goroutine. Nothing is registered if any file
// fails.
func (m *Manager) Load(ctx context.Context, man Manifest) error {
	meshes := make([]*gpu.MeshData, len(man.Meshes))
	textures := make([]gpu.TextureDesc, len(man.Textures))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range man.Meshes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := loadMeshFile(filepath.Join(man.Dir, file))
			if err != nil {
				return err
			}
			meshes[i] = data
			return nil
		})
	}
	for i, file := range man.Textures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			desc, err := LoadImage(resourceName(file), filepath.Join(man.Dir, file))
			if err != nil {
				return err
			}
			textures[i] = desc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load assets: %w", err)
	}

	if err := m.registerAll(man.Meshes, meshes, textures); err != nil {
		return err
	}
	logger.Log.Info("assets loaded",
		zap.String("dir", man.Dir),
		zap.Int("meshes", len(man.Meshes)),
		zap.Int("textures", len(man.Textures)))
	return nil
}

// registerAll uploads every decoded asset and registers them together.
// If any upload fails the ones already created are destroyed and nothing
// is registered.
func (m *Manager) registerAll(files []string, meshes []*gpu.MeshData, textures []gpu.TextureDesc) (err error) {
	var created []interface{ Destroy() }
	defer func() {
		if err != nil {
			for _, c := range created {
				c.Destroy()
			}
		}
	}()

	meshNames := make([]string, len(files))
	uploaded := make([]gpu.Mesh, len(files))
	for i, file := range files {
		name := resourceName(file)
		if name == "" {
			return fmt.Errorf("add mesh %s: empty name", file)
		}
		if err := meshes[i].Validate(); err != nil {
			return fmt.Errorf("add mesh %q: %w", name, err)
		}
		mesh, err := m.backend.CreateMesh(meshes[i])
		if err != nil {
			return fmt.Errorf("upload mesh %q: %w", name, err)
		}
		created = append(created, mesh)
		meshNames[i], uploaded[i] = name, mesh
	}
	texs := make([]gpu.Texture, len(textures))
	for i, desc := range textures {
		if desc.Name == "" {
			return fmt.Errorf("add texture: empty name")
		}
		tex, err := m.backend.CreateTexture(desc)
		if err != nil {
			return fmt.Errorf("upload texture %q: %w", desc.Name, err)
		}
		created = append(created, tex)
		texs[i] = tex
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, name := range meshNames {
		if old, ok := m.meshes[name]; ok {
			old.Destroy()
		}
		m.meshes[name] = uploaded[i]
		m.meshData[name] = meshes[i]
	}
	for i, desc := range textures {
		if old, ok := m.textures[desc.Name]; ok {
			old.Destroy()
		}
		m.textures[desc.Name] = texs[i]
	}
	return nil
}

// Destroy releases every GPU object the manager created.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mesh := range m.meshes {
		mesh.Destroy()
	}
	for _, tex := range m.textures {
		tex.Destroy()
	}
	clear(m.meshes)
	clear(m.meshData)
	clear(m.textures)
}

func resourceName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func loadMeshFile(path string) (*gpu.MeshData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", path)
	}
}
