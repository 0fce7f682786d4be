package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hexaengine/hexa/internal/core/ecs"
	"github.com/hexaengine/hexa/internal/core/game"
	"github.com/hexaengine/hexa/internal/core/input"
	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/internal/core/physics"
	"github.com/hexaengine/hexa/internal/core/render"
	"github.com/hexaengine/hexa/internal/injector"
	"github.com/hexaengine/hexa/pkg/vmath"
)

const moveSpeed = 4

type sandbox struct {
	game.TitleBase
	logger log.Log
}

func (s *sandbox) InitGameInfo(info *game.Info) { info.Title = "Hexa Sandbox" }

func (s *sandbox) OnStart(g *game.Game) error {
	world := g.NewWorld("sandbox")
	if err := g.OpenWorld(world); err != nil {
		return err
	}

	cube, err := cubeMesh()
	if err != nil {
		return err
	}
	floor := &ecs.Entity{}
	floorMesh := ecs.NewMeshComponent(cube)
	floorMesh.SetBodyType(physics.BodyStatic)
	if _, err := ecs.CreateComponent(floor, floorMesh); err != nil {
		return err
	}
	floorTransform := vmath.NewTransform()
	floorTransform.Scale = vmath.Vec3(20, 0.2, 20)
	if err := world.Spawn(floor, floorTransform); err != nil {
		return err
	}

	crate := &ecs.Entity{}
	if _, err := ecs.CreateComponent(crate, ecs.NewMeshComponent(cube)); err != nil {
		return err
	}
	if err := world.Spawn(crate, vmath.At(vmath.Vec3(0, 4, 0))); err != nil {
		return err
	}

	player := newWalker(g)
	if err := world.Spawn(player, vmath.At(vmath.Vec3(0, 2, 8))); err != nil {
		return err
	}
	g.Possess(player)

	world.SetTimer(5*time.Second, true, func() {
		s.logger.Info("sandbox status",
			log.Stringer("crate", crate.Location()),
			log.Stringer("player", player.Location()),
			log.Uint64("frames", g.Backend().Frames()),
		)
	})
	return nil
}

// walker is a player moved with WASD.
type walker struct {
	*game.Player
	direction vmath.Vector3
}

func newWalker(g *game.Game) *walker {
	return &walker{Player: game.NewPlayer(g)}
}

var keyDirections = map[input.KeyCode]vmath.Vector3{
	input.KeyW: {Z: -1},
	input.KeyS: {Z: 1},
	input.KeyA: {X: -1},
	input.KeyD: {X: 1},
}

func (w *walker) KeyDown(key input.KeyCode) {
	if d, ok := keyDirections[key]; ok {
		w.direction = w.direction.Add(d)
	}
}

func (w *walker) KeyUp(key input.KeyCode) {
	if d, ok := keyDirections[key]; ok {
		w.direction = w.direction.Sub(d)
	}
}

func (w *walker) OnTick(dt float32) {
	if w.direction.IsZero() {
		return
	}
	w.Translate(w.Rotation().Rotate(w.direction.Normalize()).Scale(moveSpeed * dt))
}

func cubeMesh() (*render.Mesh, error) {
	var sm render.SubMesh
	faces := []struct{ normal, u, v vmath.Vector3 }{
		{vmath.Vec3(1, 0, 0), vmath.Vec3(0, 0, -1), vmath.Vec3(0, 1, 0)},
		{vmath.Vec3(-1, 0, 0), vmath.Vec3(0, 0, 1), vmath.Vec3(0, 1, 0)},
		{vmath.Vec3(0, 1, 0), vmath.Vec3(1, 0, 0), vmath.Vec3(0, 0, -1)},
		{vmath.Vec3(0, -1, 0), vmath.Vec3(1, 0, 0), vmath.Vec3(0, 0, 1)},
		{vmath.Vec3(0, 0, 1), vmath.Vec3(1, 0, 0), vmath.Vec3(0, 1, 0)},
		{vmath.Vec3(0, 0, -1), vmath.Vec3(-1, 0, 0), vmath.Vec3(0, 1, 0)},
	}
	for _, f := range faces {
		c := f.normal.Scale(0.5)
		u, v := f.u.Scale(0.5), f.v.Scale(0.5)
		sm.Add([]render.Vertex{
			{Position: c.Sub(u).Sub(v), UV: vmath.Vec2(0, 1), Normal: f.normal},
			{Position: c.Add(u).Sub(v), UV: vmath.Vec2(1, 1), Normal: f.normal},
			{Position: c.Add(u).Add(v), UV: vmath.Vec2(1, 0), Normal: f.normal},
			{Position: c.Sub(u).Add(v), UV: vmath.Vec2(0, 0), Normal: f.normal},
		}, []uint32{0, 1, 2, 0, 2, 3})
	}
	return render.NewMesh("cube", []render.SubMesh{sm}, render.CollisionDefault, false)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := injector.InitializeRuntime()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading environment:", err)
		os.Exit(1)
	}
	defer func() { _ = rt.Logger.Sync() }()

	if rt.Inspector != nil {
		if err := rt.Inspector.Start(ctx); err != nil {
			rt.Logger.Error("inspector disabled", log.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = rt.Inspector.Stop(shutdownCtx)
			}()
		}
	}

	g, err := game.New(&sandbox{logger: rt.Logger.Named("Sandbox")}, os.Args, rt.GameOptions()...)
	if err != nil {
		rt.Logger.Error("Error creating game", log.Error(err))
		return
	}
	if err := g.Launch(ctx); err != nil {
		rt.Logger.Error("Game exited with error", log.Error(err))
	}
}
