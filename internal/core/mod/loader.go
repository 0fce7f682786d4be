package mod

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/hexaengine/hexa/internal/core/asset"
	"github.com/hexaengine/hexa/internal/core/observability/log"
)

// Scan lists the mod directories under dir: sub directories holding a
// "<name>/<name>.meta" file. A missing dir yields no mods.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing mods in %s: %w", dir, err)
	}

	var mods []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if VerifySignature(path) {
			mods = append(mods, path)
		}
	}
	sort.Strings(mods)
	return mods, nil
}

// VerifySignature reports whether path looks like a mod directory.
func VerifySignature(path string) bool {
	info, err := os.Stat(metaPath(path))
	return err == nil && !info.IsDir()
}

func metaPath(dir string) string {
	name := filepath.Base(dir)
	return filepath.Join(dir, name+metaExt)
}

type LoaderOption func(*Loader)

func WithRegistry(r *Registry) LoaderOption {
	return func(l *Loader) { l.registry = r }
}

func WithLogger(logger log.Log) LoaderOption {
	return func(l *Loader) {
		l.base = logger
		l.logger = logger.Named("Mod Loader")
	}
}

// WithModuleOptions are applied to every mod's asset module.
func WithModuleOptions(opts ...asset.ModuleOption) LoaderOption {
	return func(l *Loader) { l.moduleOpts = append(l.moduleOpts, opts...) }
}

// Loader turns mod directories into Mods for one game version.
type Loader struct {
	gameVersion *semver.Version
	registry    *Registry
	base        log.Log
	logger      log.Log
	moduleOpts  []asset.ModuleOption
}

func NewLoader(gameVersion *semver.Version, opts ...LoaderOption) *Loader {
	l := &Loader{
		gameVersion: gameVersion,
		registry:    defaultRegistry,
		base:        log.Provide(),
	}
	l.logger = l.base.Named("Mod Loader")
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadDir scans dir and loads every mod in it. Mods failing to load are
// logged and skipped.
func (l *Loader) LoadDir(dir string) ([]*Mod, error) {
	l.logger.Debug("Searching for mods in mods folder", log.Path(dir))
	paths, err := Scan(dir)
	if err != nil {
		return nil, err
	}

	var mods []*Mod
	for _, path := range paths {
		m, err := l.Load(path)
		if err != nil {
			l.logger.Error("skipping mod", log.Path(path), log.Error(err))
			continue
		}
		mods = append(mods, m)
		l.logger.Info("Initialized mod", log.String("mod", m.info.FullDisplayName()))
	}
	return mods, nil
}

// Load reads the mod at path, checks its target game version and builds it
// with the factory registered under the directory name. The mod's resource
// directories are added but not registered.
func (l *Loader) Load(path string) (*Mod, error) {
	if !VerifySignature(path) {
		return nil, fmt.Errorf("%w: %s", ErrMissingSignature, path)
	}
	info, err := ReadInfo(metaPath(path))
	if err != nil {
		return nil, err
	}
	if !info.Matches(l.gameVersion) {
		return nil, fmt.Errorf("%w: %s >>> target game version %s doesn't match %s",
			ErrVersionMismatch, info.FullDisplayName(), info.TargetGameVersion, l.gameVersion)
	}

	name := filepath.Base(path)
	factory, ok := l.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFactory, name)
	}

	m := &Mod{info: info, dir: path}
	opts := append([]asset.ModuleOption{asset.WithLogger(l.base)}, l.moduleOpts...)
	opts = append(opts, asset.WithDirectoryProvider(m))
	m.Module = asset.NewModule(name, path, opts...)

	behavior, err := factory(m)
	if err != nil {
		return nil, fmt.Errorf("%s: factory failed: %w", info.FullDisplayName(), err)
	}
	m.behavior = behavior

	m.AddResourceDirectories()
	return m, nil
}
