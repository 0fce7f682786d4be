package game

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hexaengine/hexa/internal/core/asset"
	"github.com/hexaengine/hexa/internal/core/config"
	"github.com/hexaengine/hexa/internal/core/events/bus"
	"github.com/hexaengine/hexa/internal/core/mod"
	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/internal/core/savegame"
	"github.com/hexaengine/hexa/internal/core/table"
	"github.com/hexaengine/hexa/pkg/concurrent"
	"github.com/hexaengine/hexa/pkg/vmath"
)

const (
	uvTestSize = 512
	uvTestCell = 32
)

// Launch runs the tool named by args[1] if there is one. Otherwise it runs
// every stage in order and returns once the game is unloaded. The game
// singleton is released on return.
func (g *Game) Launch(ctx context.Context) error {
	defer g.Release()

	if handled, err := g.tools.Dispatch(ctx, g.args, g.out); handled {
		return err
	}

	err := g.initializationStage(ctx)
	if err == nil {
		err = g.loadingStage(ctx)
	}
	if err == nil {
		err = g.startingStage(ctx)
	}
	if err == nil {
		err = g.renderLoop(ctx)
	}
	if err != nil {
		g.logger.Error("game stopped", log.Stringer("stage", g.Stage()), log.Error(err))
	}

	g.unloadingStage()
	g.setStage(StageUnloaded)
	if shutdownErr := g.backend.Shutdown(); shutdownErr != nil {
		g.logger.Warn("failed shutting down renderer", log.Error(shutdownErr))
	}
	return err
}

func (g *Game) initializationStage(ctx context.Context) error {
	g.setStage(StageInitialization)

	g.title.InitGameInfo(&g.info)
	if g.info.Title == "" {
		g.info.Title = defaultTitle
	}
	g.logger.Info("Launching", log.String("title", g.info.Title), log.Stringer("version", g.version))

	if p, ok := g.title.(SettingsProvider); ok {
		if s := p.NewSettings(); s != nil {
			g.settings = s
		}
	}
	path := g.settingsPath()
	if err := config.LoadSettings(path, g.settings); err != nil {
		g.logger.Error("failed reading settings, using defaults", log.Path(path), log.Error(err))
	}
	if err := config.SaveSettings(path, g.settings); err != nil {
		g.logger.Error("failed writing settings", log.Path(path), log.Error(err))
	}

	if err := g.audio.Init(); err != nil {
		g.logger.Error("failed initializing audio", log.Error(err))
	}

	if err := g.title.OnInit(g); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	loader := mod.NewLoader(g.version,
		mod.WithRegistry(g.registry),
		mod.WithLogger(g.base),
		mod.WithModuleOptions(g.moduleOptions(nil)...),
	)
	mods, err := loader.LoadDir(g.env.Resolve(g.env.ModsDir))
	if err != nil {
		g.logger.Error("failed scanning mods", log.Error(err))
	}
	g.mods = mods
	for _, m := range g.mods {
		g.publish(bus.TypeModLoaded, m.Info())
	}
	g.AddResourceDirectories()

	g.searchTableFiles(ctx)

	if g.env.HotReload {
		g.startWatcher(ctx)
	}
	return ctx.Err()
}

// searchTableFiles lists the table files of the game and every mod.
func (g *Game) searchTableFiles(ctx context.Context) {
	found, err := concurrent.MapOrdered(ctx, g.modules(), g.env.TableWorkers,
		func(_ context.Context, m *asset.Module) (moduleFiles, error) {
			files, err := table.SearchFiles(m.ResourcesPath())
			if err != nil {
				return moduleFiles{}, fmt.Errorf("module %s: %w", m.Name(), err)
			}
			return moduleFiles{module: m.Name(), files: files}, nil
		})
	if err != nil {
		g.logger.Error("failed searching table files", log.Error(err))
		return
	}
	g.tableFiles = g.tableFiles[:0]
	for _, mf := range found {
		if len(mf.files) > 0 {
			g.tableFiles = append(g.tableFiles, mf)
		}
	}
}

func (g *Game) startWatcher(ctx context.Context) {
	w, err := asset.NewWatcher(g.bus, g.CallOnMainThread, g.base)
	if err != nil {
		g.logger.Error("hot reload disabled", log.Error(err))
		return
	}
	for _, m := range g.modules() {
		if err := w.Add(m); err != nil {
			g.logger.Warn("failed watching module", log.String("module", m.Name()), log.Error(err))
		}
	}
	w.Start(ctx)
	g.watcher = w
}

// modules lists the game module followed by every mod.
func (g *Game) modules() []*asset.Module {
	modules := make([]*asset.Module, 0, len(g.mods)+1)
	modules = append(modules, g.Module)
	for _, m := range g.mods {
		modules = append(modules, m.Module)
	}
	return modules
}

func (g *Game) loadingStage(ctx context.Context) error {
	g.setStage(StageLoading)

	dirs := g.RegisterResourceDirectories()
	g.logger.Debug("registered resource directories", log.String("module", g.Name()), log.Strings("dirs", dirs))

	var err error
	if g.white, err = g.CreateTexture(solidImage(1, 1, color.White), "white"); err != nil {
		return fmt.Errorf("white texture: %w", err)
	}
	if g.uvTest, err = g.CreateTexture(uvTestImage(), "uv_test"); err != nil {
		return fmt.Errorf("uv test texture: %w", err)
	}

	for _, m := range g.mods {
		dirs := m.RegisterResourceDirectories()
		g.logger.Debug("registered resource directories", log.String("module", m.Name()), log.Strings("dirs", dirs))
	}

	g.generalChannel = g.audio.NewChannel("general")
	g.generalChannel.SetVolume(g.settings.Base().AudioGeneral)

	if err := g.title.OnLoadingStage(g); err != nil {
		return fmt.Errorf("loading: %w", err)
	}

	modLogger := g.base.Named("Mod Loader")
	for _, m := range g.mods {
		if err := m.OnLoadingStage(); err != nil {
			modLogger.Error("Failed to load mod", log.String("mod", m.Info().FullDisplayName()), log.Error(err))
		}
	}

	for _, mf := range g.tableFiles {
		if err := g.db.LoadFiles(ctx, mf.module, mf.files); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			g.logger.Error("failed loading table records", log.String("module", mf.module), log.Error(err))
		}
	}
	g.db.PostLoad()
	g.db.InitAssets()
	return ctx.Err()
}

func (g *Game) startingStage(ctx context.Context) error {
	g.setStage(StageStarting)

	save, err := savegame.Open(ctx, g.env.Resolve(g.env.SavesDir), g.profile)
	if err != nil {
		g.logger.Error("failed opening save game", log.String("profile", g.profile), log.Error(err))
	}
	g.saveGame = save

	g.audio.SetListenerUp(vmath.Up())

	modLogger := g.base.Named("Mod Loader")
	for _, m := range g.mods {
		if err := m.OnStart(g.bus); err != nil {
			modLogger.Error("Failed to start mod", log.String("mod", m.Info().FullDisplayName()), log.Error(err))
		}
	}

	if err := g.title.OnStart(g); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return ctx.Err()
}

func (g *Game) renderLoop(ctx context.Context) error {
	g.setStage(StageRenderLoop)
	defer g.CloseWorld()

	last := time.Now()
	for !g.quitting.Load() {
		if ctx.Err() != nil {
			return nil
		}
		frameStart := time.Now()
		elapsed := frameStart.Sub(last)
		last = frameStart
		dt := float32(elapsed.Seconds())
		g.time += elapsed.Seconds()

		g.drainMainThread()
		g.frame(dt)
		if g.audio.Initialized() {
			g.audio.Pump(elapsed)
		}
		g.pace(ctx, frameStart)
	}
	return nil
}

func (g *Game) frame(dt float32) {
	w := g.world
	if w == nil {
		return
	}
	if dt > 0 {
		g.title.OnTick(g, dt)
		// OnTick may have closed or replaced the world.
		if w = g.world; w != nil {
			w.Tick(dt)
		}
	}
	cam := g.camera
	if cam == nil || cam.Owner() == nil {
		return
	}
	// The render camera only exists once the owner has started.
	if vp := g.backend.Viewport(); vp.Camera() != cam.Camera() {
		vp.SetCamera(cam.Camera())
	}
	owner := cam.Owner()
	from := owner.Location()
	g.audio.SetListener(from, from.Add(owner.Rotation().Forward()), vmath.Up())
	g.input.ResetMouseDelta()
	if err := g.backend.RenderOneFrame(); err != nil {
		g.logger.Error("failed rendering frame", log.Error(err))
	}
}

// pace sleeps out the rest of the frame when an fps limit is set.
func (g *Game) pace(ctx context.Context, frameStart time.Time) {
	limit := g.settings.Base().FPSLimit
	if limit == 0 {
		return
	}
	remaining := time.Second/time.Duration(limit) - time.Since(frameStart)
	if remaining <= 0 {
		return
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (g *Game) unloadingStage() {
	g.setStage(StageUnloading)

	g.db.Clear()
	g.title.OnUnloadingStage(g)

	g.audio.StopAll()
	g.audio.Deinit()

	for _, m := range g.modules() {
		m.UnregisterResourceDirectories()
	}

	if g.saveGame != nil {
		if err := g.saveGame.Close(); err != nil {
			g.logger.Warn("failed closing save game", log.Error(err))
		}
	}
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.logger.Warn("failed stopping hot reload", log.Error(err))
		}
		g.watcher = nil
	}
	g.logger.Info("Unloaded", log.String("title", g.info.Title))
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

// uvTestImage is a grey checker board with a colored cross in every cell.
func uvTestImage() image.Image {
	light := color.RGBA{178, 178, 178, 255}
	dark := color.RGBA{76, 76, 76, 255}
	img := image.NewRGBA(image.Rect(0, 0, uvTestSize, uvTestSize))
	for y := range uvTestSize {
		for x := range uvTestSize {
			cx, cy := x/uvTestCell, y/uvTestCell
			c := dark
			if (cx+cy)%2 == 0 {
				c = light
			}
			lx, ly := x%uvTestCell, y%uvTestCell
			mid := uvTestCell / 2
			if lx == mid || ly == mid {
				c = color.RGBA{
					R: uint8(cx * 255 / (uvTestSize/uvTestCell - 1)),
					G: uint8(cy * 255 / (uvTestSize/uvTestCell - 1)),
					B: 255,
					A: 255,
				}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
