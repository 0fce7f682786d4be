package asset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/hexaengine/hexa/internal/core/events/bus"
	"github.com/hexaengine/hexa/internal/core/observability/log"
)

type watchedDir struct {
	module *Module
	kind   string
}

// Watcher hot reloads module assets when their files change. Reloads are
// handed to post so they run on the main thread.
type Watcher struct {
	fs     *fsnotify.Watcher
	bus    bus.EventBus
	post   func(func())
	logger log.Log

	mu   sync.Mutex
	dirs map[string]watchedDir

	wg sync.WaitGroup
}

func NewWatcher(eventBus bus.EventBus, post func(func()), logger log.Log) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	return &Watcher{
		fs:     fs,
		bus:    eventBus,
		post:   post,
		logger: logger.Named("Hot Reload"),
		dirs:   make(map[string]watchedDir),
	}, nil
}

// Add watches the texture, material and shader directories of m that exist.
func (w *Watcher) Add(m *Module) error {
	for kind, root := range map[string]string{
		"texture":  m.TexturesPath(),
		"material": m.MaterialsPath(),
		"shader":   m.ShadersPath(),
	} {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if err := w.fs.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			w.mu.Lock()
			w.dirs[filepath.Clean(path)] = watchedDir{module: m, kind: kind}
			w.mu.Unlock()
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Start consumes file events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.fs.Events:
				if !ok {
					return
				}
				w.handle(event)
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", log.Error(err))
			}
		}
	}()
}

func (w *Watcher) Close() error {
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}

	dir := filepath.Dir(event.Name)
	w.mu.Lock()
	watched, ok := w.dirs[filepath.Clean(dir)]
	w.mu.Unlock()
	if !ok {
		return
	}

	m := watched.module
	var root string
	switch watched.kind {
	case "texture":
		root = m.TexturesPath()
	case "material":
		root = m.MaterialsPath()
	default:
		root = m.ShadersPath()
	}
	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		return
	}
	ext := filepath.Ext(rel)
	name := filepath.ToSlash(strings.TrimSuffix(rel, ext))
	path := event.Name

	switch {
	case watched.kind == "texture" && ext == textureExt:
		w.post(func() {
			changed, err := m.ReloadTexture(name)
			if err != nil {
				w.logger.Warn("texture reload failed", log.Asset(m.AssetID(name)), log.Error(err))
				return
			}
			if changed {
				w.publish(m.AssetID(name), path)
			}
		})
	case watched.kind == "material" && ext == materialExt,
		watched.kind == "shader" && (ext == shaderExt || ext == sourceExt):
		w.post(func() {
			m.Forget(name)
			w.publish(m.AssetID(name), path)
		})
	}
}

func (w *Watcher) publish(id ID, path string) {
	w.logger.Info("asset reloaded", log.Asset(id), log.Path(path))
	if w.bus == nil {
		return
	}
	evt := bus.NewEvent(bus.TypeAssetReloaded, "asset", bus.AssetReload{Asset: id.String(), Path: path})
	if err := w.bus.Publish(evt); err != nil {
		w.logger.Warn("asset reload listener failed", log.Asset(id), log.Error(err))
	}
}
