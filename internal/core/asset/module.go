package asset

import (
	"errors"
	"fmt"
	"image"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/jinzhu/copier"

	"github.com/hexaengine/hexa/internal/core/observability/log"
)

const (
	textureExt  = ".png"
	materialExt = ".mat"
	shaderExt   = ".sha"
	sourceExt   = ".hlsl"
)

// Locator resolves module names for asset ids that point into other modules.
type Locator interface {
	LookupModule(name string) (*Module, bool)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(name string) (*Module, bool)

func (f LocatorFunc) LookupModule(name string) (*Module, bool) { return f(name) }

// DirectoryProvider lets a module contribute resource directories. local
// directories are registered for the module only, global ones for every module.
type DirectoryProvider interface {
	OnAddResourceDirectories() (local, global []string)
}

type ModuleOption func(*Module)

func WithLogger(logger log.Log) ModuleOption {
	return func(m *Module) { m.logger = logger }
}

func WithLocator(locator Locator) ModuleOption {
	return func(m *Module) { m.locator = locator }
}

func WithResources(res *Resources) ModuleOption {
	return func(m *Module) { m.resources = res }
}

// WithLoadingStage reports whether the game is in its Loading stage. Asset
// loads outside that stage are logged as warnings.
func WithLoadingStage(fn func() bool) ModuleOption {
	return func(m *Module) { m.loading = fn }
}

// WithDirectoryProvider sets the hook queried by AddResourceDirectories.
func WithDirectoryProvider(p DirectoryProvider) ModuleOption {
	return func(m *Module) { m.provider = p }
}

// WithFallbackTexture sets the texture bound when a material unit is cleared.
func WithFallbackTexture(fn func() *Texture) ModuleOption {
	return func(m *Module) { m.fallback = fn }
}

// Module is a named provider of resource directories and cached assets.
// Mods and the game itself are modules.
type Module struct {
	name string
	dir  string

	logger    log.Log
	locator   Locator
	resources *Resources
	loading   func() bool
	provider  DirectoryProvider
	fallback  func() *Texture

	mu        sync.RWMutex
	local     map[string]struct{}
	textures  map[string]*Texture
	materials map[string]*Material
	shaders   map[string]*Shader
}

// NewModule creates a module rooted at dir.
func NewModule(name, dir string, opts ...ModuleOption) *Module {
	m := &Module{
		name:      name,
		dir:       dir,
		logger:    log.Provide(),
		local:     make(map[string]struct{}),
		textures:  make(map[string]*Texture),
		materials: make(map[string]*Material),
		shaders:   make(map[string]*Shader),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.resources == nil {
		m.resources = NewResources()
	}
	return m
}

func (m *Module) Name() string { return m.name }

func (m *Module) AssetID(name string) ID { return NewID(m.name, name) }

func (m *Module) Path(sub string) string { return filepath.Join(m.dir, sub) }

func (m *Module) ResourcesPath() string { return m.Path("resources") }

func (m *Module) TexturesPath() string { return filepath.Join(m.ResourcesPath(), "textures") }

func (m *Module) MaterialsPath() string { return filepath.Join(m.ResourcesPath(), "materials") }

func (m *Module) ShadersPath() string { return filepath.Join(m.ResourcesPath(), "shaders") }

func (m *Module) Resources() *Resources { return m.resources }

func (m *Module) warnOutsideLoading(category, action string, id ID) {
	if m.loading != nil && !m.loading() {
		m.logger.Named(category).Warn(action+" outside of loading stage is not recommended", log.Asset(id))
	}
}

func (m *Module) resolve(id ID) (*Module, error) {
	if id.Module == m.name {
		return m, nil
	}
	if m.locator != nil {
		if other, ok := m.locator.LookupModule(id.Module); ok {
			return other, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownModule, id)
}

func (m *Module) LoadTexture(name string) (*Texture, error) {
	id := m.AssetID(name)
	if !ValidName(name) {
		return nil, fmt.Errorf("texture %s: %w", id, ErrInvalidName)
	}

	m.mu.RLock()
	cached := m.textures[name]
	m.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	m.warnOutsideLoading("Texture", "Loading", id)

	path := filepath.Join(m.TexturesPath(), name+textureExt)
	tex, err := LoadTextureFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("texture %s: %w", id, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("texture %s: %w", id, err)
	}
	tex.id = id

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing := m.textures[name]; existing != nil {
		return existing, nil
	}
	m.textures[name] = tex
	return tex, nil
}

// CreateTexture registers a texture built from pixels under name.
func (m *Module) CreateTexture(pixels image.Image, name string) (*Texture, error) {
	id := m.AssetID(name)
	if !ValidName(name) {
		return nil, fmt.Errorf("texture %s: %w", id, ErrInvalidName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.textures[name]; taken {
		return nil, fmt.Errorf("texture %s: %w", id, ErrNameTaken)
	}
	m.warnOutsideLoading("Texture", "Creating", id)

	tex := NewTexture(pixels)
	tex.id = id
	m.textures[name] = tex
	return tex, nil
}

// Texture returns a cached texture without touching the disk.
func (m *Module) Texture(name string) (*Texture, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.textures[name]
	return t, ok
}

// ReloadTexture re-reads a cached texture from disk. It reports whether the
// pixels changed.
func (m *Module) ReloadTexture(name string) (bool, error) {
	tex, ok := m.Texture(name)
	if !ok {
		return false, nil
	}
	fresh, err := LoadTextureFile(filepath.Join(m.TexturesPath(), name+textureExt))
	if err != nil {
		return false, fmt.Errorf("reload texture %s: %w", tex.ID(), err)
	}
	if fresh.Checksum() == tex.Checksum() {
		return false, nil
	}
	if err := tex.PutPixels(fresh.pixels); err != nil {
		return false, fmt.Errorf("reload texture %s: %w", tex.ID(), err)
	}
	return true, nil
}

func (m *Module) LoadMaterial(name string) (*Material, error) {
	id := m.AssetID(name)
	if !ValidName(name) {
		return nil, fmt.Errorf("material %s: %w", id, ErrInvalidName)
	}

	m.mu.RLock()
	cached := m.materials[name]
	m.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	m.warnOutsideLoading("Material", "Loading", id)

	data, err := os.ReadFile(filepath.Join(m.MaterialsPath(), name+materialExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("material %s: %w", id, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("material %s: %w", id, err)
	}
	desc, err := ParseMaterialDescriptor(data)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", id, err)
	}

	vertex, err := m.loadProgramRef(desc.Vertex)
	if err != nil {
		return nil, fmt.Errorf("material %s vertex program: %w", id, err)
	}
	fragment, err := m.loadProgramRef(desc.Fragment)
	if err != nil {
		return nil, fmt.Errorf("material %s fragment program: %w", id, err)
	}

	mat := &Material{
		id:       id,
		desc:     desc,
		vertex:   vertex,
		fragment: fragment,
		textures: make([]*Texture, len(desc.Textures)),
		filters:  make([]Filter, len(desc.Textures)),
		fallback: m.fallback,
	}
	for i, unit := range desc.Textures {
		mat.filters[i] = ParseFilter(unit.Filtering)
		if unit.Default == "" {
			continue
		}
		texID := ParseID(unit.Default, m.name)
		owner, err := m.resolve(texID)
		if err != nil {
			m.logger.Named("Material").Warn("default texture module missing", log.Asset(id), log.Error(err))
			continue
		}
		tex, err := owner.LoadTexture(texID.Name)
		if err != nil {
			m.logger.Named("Material").Warn("default texture failed to load", log.Asset(id), log.Error(err))
			continue
		}
		mat.textures[i] = tex
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing := m.materials[name]; existing != nil {
		return existing, nil
	}
	m.materials[name] = mat
	return mat, nil
}

func (m *Module) loadProgramRef(ref string) (*Shader, error) {
	programID := ParseID(ref, m.name)
	if !programID.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, ref)
	}
	owner, err := m.resolve(programID)
	if err != nil {
		return nil, err
	}
	return owner.LoadShaderProgram(programID.Name)
}

// Material returns a cached material without touching the disk.
func (m *Module) Material(name string) (*Material, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mat, ok := m.materials[name]
	return mat, ok
}

// CloneMaterial copies mat into this module under newName, or
// "<name>_clone" when newName is empty. Programs and textures are shared;
// the descriptor and texture bindings are copied.
func (m *Module) CloneMaterial(mat *Material, newName string) (*Material, error) {
	if mat == nil {
		return nil, nil
	}
	if newName == "" || !ValidName(newName) {
		newName = mat.ID().Name + "_clone"
	}
	id := m.AssetID(newName)

	clone := &Material{
		id:       id,
		vertex:   mat.vertex,
		fragment: mat.fragment,
		textures: slices.Clone(mat.textures),
		filters:  slices.Clone(mat.filters),
		fallback: mat.fallback,
	}
	if err := copier.CopyWithOption(&clone.desc, &mat.desc, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone material %s: %w", mat.ID(), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.materials[newName]; taken {
		return nil, fmt.Errorf("material %s: %w", id, ErrNameTaken)
	}
	m.materials[newName] = clone
	return clone, nil
}

func (m *Module) LoadShaderProgram(name string) (*Shader, error) {
	id := m.AssetID(name)
	if !ValidName(name) {
		return nil, fmt.Errorf("shader %s: %w", id, ErrInvalidName)
	}

	m.mu.RLock()
	cached := m.shaders[name]
	m.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	data, err := os.ReadFile(filepath.Join(m.ShadersPath(), name+shaderExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("shader %s: %w", id, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("shader %s: %w", id, err)
	}
	desc, err := ParseShaderDescriptor(data)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", id, err)
	}

	sourceID := ParseID(desc.Source, m.name)
	if !sourceID.Valid() {
		return nil, fmt.Errorf("shader %s source %q: %w", id, desc.Source, ErrInvalidName)
	}
	sourceOwner, err := m.resolve(sourceID)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", id, err)
	}
	source, err := os.ReadFile(filepath.Join(sourceOwner.ShadersPath(), sourceID.Name+sourceExt))
	if err != nil {
		return nil, fmt.Errorf("shader %s source %s: %w", id, sourceID, ErrAssetNotFound)
	}

	typ, err := ParseShaderType(desc.Type)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", id, err)
	}

	shader := &Shader{id: id}
	var skipped []string
	shader.regular, skipped = buildProgram(name, typ, string(source), desc.Defines, desc.Params, false)
	m.warnSkippedParams(id, skipped)
	if desc.Instancing {
		shader.instanced, skipped = buildProgram(name, typ, string(source), desc.Defines, desc.InstancingParams, true)
		m.warnSkippedParams(id, skipped)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing := m.shaders[name]; existing != nil {
		return existing, nil
	}
	m.shaders[name] = shader
	return shader, nil
}

func (m *Module) warnSkippedParams(id ID, params []string) {
	for _, p := range params {
		m.logger.Named("Shader Program").Warn("parameter has invalid type", log.Asset(id), log.String("param", p))
	}
}

// Forget drops a cached material or shader so the next load reads the disk.
func (m *Module) Forget(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.materials, name)
	delete(m.shaders, name)
}

// AddResourceDirectories merges the provider's directories into the module's
// local set and the shared global set.
func (m *Module) AddResourceDirectories() {
	if m.provider == nil {
		return
	}
	local, global := m.provider.OnAddResourceDirectories()

	m.mu.Lock()
	for _, d := range local {
		m.local[d] = struct{}{}
	}
	m.mu.Unlock()
	m.resources.addGlobal(global)
}

// LocalDirectories lists the module only directories in sorted order.
func (m *Module) LocalDirectories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.local))
}

// RegisterResourceDirectories registers every local and global directory
// that exists under the module's resources and returns them.
func (m *Module) RegisterResourceDirectories() []string {
	dirs := make(map[string]struct{})
	for _, d := range m.LocalDirectories() {
		dirs[d] = struct{}{}
	}
	for _, d := range m.resources.GlobalDirectories() {
		dirs[d] = struct{}{}
	}

	var registered []string
	for _, d := range slices.Sorted(maps.Keys(dirs)) {
		p := filepath.Join(m.ResourcesPath(), filepath.FromSlash(d))
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
			registered = append(registered, p)
		}
	}
	m.resources.register(m.name, registered)
	return registered
}

func (m *Module) UnregisterResourceDirectories() []string {
	return m.resources.unregister(m.name)
}

// ResetGlobalResourceDirectories restores the shared global directory set.
func (m *Module) ResetGlobalResourceDirectories() {
	m.resources.ResetGlobalDirectories()
}

// Textures lists the cached texture names.
func (m *Module) Textures() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.textures))
}
