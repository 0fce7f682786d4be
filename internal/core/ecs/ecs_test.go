package ecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/internal/core/physics"
	"github.com/hexaengine/hexa/internal/core/render"
	"github.com/hexaengine/hexa/pkg/vmath"
)

type journal struct {
	events []string
}

func (j *journal) add(event string) { j.events = append(j.events, event) }

type probe struct {
	Entity
	name    string
	journal *journal
	ticks   int
}

func newProbe(name string, j *journal) *probe {
	return &probe{name: name, journal: j}
}

func (p *probe) OnStart()          { p.journal.add(p.name + ".start") }
func (p *probe) OnTick(dt float32) { p.ticks++ }
func (p *probe) OnDestroy()        { p.journal.add(p.name + ".destroy") }

type probeComponent struct {
	ComponentBase
	name    string
	journal *journal
	ticks   int
}

func (c *probeComponent) OnStart() {
	c.journal.add(c.name + ".start")
}

func (c *probeComponent) OnTick(float32) { c.ticks++ }

func (c *probeComponent) OnDestroy() { c.journal.add(c.name + ".destroy") }

type otherComponent struct {
	ComponentBase
}

func newWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld("arena", WithLogger(log.NewNop()), WithBackend(render.NewHeadless(800, 600, log.NewNop())))
	require.NoError(t, w.Init())
	return w
}

func headless(t *testing.T, w *World) *render.HeadlessScene {
	t.Helper()
	scene, ok := w.Scene().(*render.HeadlessScene)
	require.True(t, ok)
	return scene
}

func TestComponentsStartAfterOwner(t *testing.T) {
	j := &journal{}
	w := newWorld(t)

	p := newProbe("entity", j)
	_, err := CreateComponent(&p.Entity, &probeComponent{name: "comp", journal: j})
	require.NoError(t, err)
	require.NoError(t, w.Spawn(p, vmath.NewTransform()))
	require.Empty(t, j.events)
	require.False(t, p.Started())

	require.NoError(t, w.Start())
	require.Equal(t, []string{"entity.start", "comp.start"}, j.events)

	late, err := CreateComponent(&p.Entity, &otherComponent{})
	require.NoError(t, err)
	require.True(t, late.Started())
	require.Same(t, &p.Entity, late.Owner())
}

func TestSpawnIntoStartedWorldStartsImmediately(t *testing.T) {
	j := &journal{}
	w := newWorld(t)
	require.NoError(t, w.Start())

	p := newProbe("late", j)
	require.NoError(t, w.Spawn(p, vmath.At(vmath.Vec3(1, 2, 3))))
	require.True(t, p.Started())
	require.Equal(t, []string{"late.start"}, j.events)
	require.Same(t, w, p.World())
	require.Equal(t, vmath.Vec3(1, 2, 3), p.Node().Transform().Location)

	require.ErrorIs(t, w.Spawn(p, vmath.NewTransform()), ErrAlreadySpawned)
	require.Equal(t, []Behavior{p}, w.Entities())
	require.Equal(t, []*probe{p}, EntitiesOf[*probe](w))
}

func TestComponentHelpers(t *testing.T) {
	j := &journal{}
	e := NewEntity()

	comp, err := CreateComponent(e, &probeComponent{name: "comp", journal: j})
	require.NoError(t, err)
	_, err = CreateComponent(e, &probeComponent{name: "again", journal: j})
	require.ErrorIs(t, err, ErrComponentExists)
	_, err = CreateComponent[*otherComponent](e, nil)
	require.ErrorIs(t, err, ErrNilComponent)
	var missing Component = (*otherComponent)(nil)
	_, err = CreateComponent(e, missing)
	require.ErrorIs(t, err, ErrNilComponent)
	require.Len(t, e.Components(), 1)

	found, ok := FindComponent[*probeComponent](e)
	require.True(t, ok)
	require.Same(t, comp, found)
	_, ok = FindComponent[*otherComponent](e)
	require.False(t, ok)

	require.True(t, RemoveComponent[*probeComponent](e))
	require.False(t, RemoveComponent[*probeComponent](e))
	require.Nil(t, comp.Owner())
	require.Equal(t, []string{"comp.destroy"}, j.events)

	_, err = CreateComponent(e, &otherComponent{})
	require.NoError(t, err)
	e.RemoveAllComponents()
	require.Empty(t, e.Components())
}

func TestDestroyEntity(t *testing.T) {
	j := &journal{}
	w := newWorld(t)
	require.NoError(t, w.Start())

	p := newProbe("entity", j)
	require.NoError(t, w.Spawn(p, vmath.NewTransform()))
	_, err := CreateComponent(&p.Entity, &probeComponent{name: "comp", journal: j})
	require.NoError(t, err)

	var notified Behavior
	p.OnDestroyed(func(b Behavior) {
		notified = b
		require.Same(t, w, b.Base().World())
	})
	require.Equal(t, 1, headless(t, w).NodeCount())

	p.Destroy()
	p.Destroy()

	require.Equal(t, []string{"entity.start", "comp.start", "entity.destroy", "comp.destroy"}, j.events)
	require.Same(t, p, notified)
	require.True(t, p.Destroyed())
	require.Nil(t, p.World())
	require.Nil(t, p.Node())
	require.Empty(t, w.Entities())
	require.Zero(t, headless(t, w).NodeCount())

	require.ErrorIs(t, spawnIntoFreshWorld(t, p), ErrEntityDestroyed)
}

func spawnIntoFreshWorld(t *testing.T, b Behavior) error {
	t.Helper()
	w := newWorld(t)
	return w.Spawn(b, vmath.NewTransform())
}

func TestTickOnlyReachesTickEnabledEntities(t *testing.T) {
	j := &journal{}
	w := newWorld(t)

	ticking := newProbe("ticking", j)
	ticking.SetTickEnabled(true)
	comp, err := CreateComponent(&ticking.Entity, &probeComponent{name: "comp", journal: j})
	require.NoError(t, err)
	idle := newProbe("idle", j)

	require.NoError(t, w.Spawn(ticking, vmath.NewTransform()))
	require.NoError(t, w.Spawn(idle, vmath.NewTransform()))

	w.Tick(0.1)
	require.Zero(t, ticking.ticks)

	require.NoError(t, w.Start())
	w.Tick(0.1)
	w.Tick(0)
	w.Tick(0.1)
	require.Equal(t, 2, ticking.ticks)
	require.Equal(t, 2, comp.ticks)
	require.Zero(t, idle.ticks)
}

func TestCloseDestroysEverythingAndCannotReopen(t *testing.T) {
	j := &journal{}
	var closed bool
	w := NewWorld("arena",
		WithLogger(log.NewNop()),
		WithHooks(Hooks{OnClose: func(*World) { closed = true }}),
	)
	require.ErrorIs(t, w.Start(), ErrWorldNotInitialized)
	require.ErrorIs(t, w.Spawn(NewEntity(), vmath.NewTransform()), ErrWorldNotInitialized)
	require.NoError(t, w.Init())
	require.NoError(t, w.Start())

	a, b := newProbe("a", j), newProbe("b", j)
	require.NoError(t, w.Spawn(a, vmath.NewTransform()))
	require.NoError(t, w.Spawn(b, vmath.NewTransform()))
	w.SetTimer(time.Second, false, func() {})

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.True(t, closed)
	require.True(t, a.Destroyed())
	require.True(t, b.Destroyed())
	require.Empty(t, w.Entities())
	require.Zero(t, w.ActiveTimers())
	require.True(t, w.Scene().Closed())

	require.ErrorIs(t, w.Init(), ErrWorldClosed)
	require.ErrorIs(t, w.Start(), ErrWorldClosed)
	require.ErrorIs(t, w.Spawn(NewEntity(), vmath.NewTransform()), ErrWorldClosed)
	require.False(t, w.SetTimer(time.Second, false, func() {}).Valid())
}

func TestTimers(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.Start())

	var once, loops int
	w.SetTimer(250*time.Millisecond, false, func() { once++ })
	loop := w.SetTimer(100*time.Millisecond, true, func() { loops++ })
	cleared := w.SetTimer(50*time.Millisecond, false, func() { t.Fatal("cleared timer fired") })
	require.True(t, w.ClearTimer(cleared))
	require.False(t, w.ClearTimer(cleared))

	for range 3 {
		w.Tick(0.1)
	}
	require.Equal(t, 1, once)
	require.Equal(t, 3, loops)

	require.True(t, w.ClearTimer(loop))
	w.Tick(0.1)
	require.Equal(t, 3, loops)
	require.Zero(t, w.ActiveTimers())
	require.InDelta(t, 0.4, w.Time().Seconds(), 1e-6)
}

func TestTimerCanClearItself(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.Start())

	var fired int
	var h TimerHandle
	h = w.SetTimer(0, true, func() {
		fired++
		w.ClearTimer(h)
	})
	w.Tick(0.1)
	w.Tick(0.1)
	require.Equal(t, 1, fired)
}

func TestPhysicsBodiesFollowCollision(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.Start())

	falling := NewEntity()
	falling.SetCollision(physics.NewSphereCollision(0.5), vmath.Vector3{})
	require.Nil(t, falling.Body())
	require.NoError(t, w.Spawn(falling, vmath.NewTransform()))
	require.NotNil(t, falling.Body())
	require.Equal(t, physics.BodyDynamic, falling.Body().Type())

	ground := NewEntity()
	ground.MakeBodyStatic()
	ground.SetCollisionMask(physics.MaskDefault | 1<<3)
	require.NoError(t, w.Spawn(ground, vmath.At(vmath.Vec3(0, 0, -5))))
	ground.SetCollision(physics.NewSphereCollision(1), vmath.Vector3{})
	require.Equal(t, physics.BodyStatic, ground.Body().Type())
	require.Equal(t, physics.MaskDefault|1<<3, ground.Body().CollisionMask())

	w.Tick(0.1)
	require.Less(t, falling.Location().Y, float32(0))
	require.Equal(t, falling.Location(), falling.Node().Transform().Location)
	require.Equal(t, vmath.Vec3(0, 0, -5), ground.Location())

	hits := w.Raycast(vmath.Vec3(0, 0, 0), vmath.Vec3(0, 0, -10), 1<<3)
	require.Len(t, hits, 1)
	require.Same(t, ground, hits[0].Entity)
	require.InDelta(t, 4, hits[0].Distance, 1e-4)

	ground.RemoveCollision()
	require.Nil(t, ground.Body())
	require.Empty(t, w.Raycast(vmath.Vec3(0, 0, 0), vmath.Vec3(0, 0, -10), physics.MaskAll))
	require.Len(t, w.Physics().Bodies(), 1)
}

func TestTransformPropagates(t *testing.T) {
	w := newWorld(t)
	e := NewEntity()
	e.SetCollision(physics.NewBoxCollision(vmath.One()), vmath.Vector3{})
	e.SetGravityEnabled(false)
	require.NoError(t, w.Spawn(e, vmath.NewTransform()))
	require.False(t, e.Body().GravityEnabled())

	e.Translate(vmath.Vec3(1, 0, 0))
	e.Translate(vmath.Vec3(0, 2, 0))
	require.Equal(t, vmath.Vec3(1, 2, 0), e.Location())
	require.Equal(t, vmath.Vec3(1, 2, 0), e.Body().Transform().Location)
	require.Equal(t, vmath.Vec3(1, 2, 0), e.Node().Transform().Location)

	e.Rotate(vmath.Up(), 1.2)
	require.True(t, e.Rotation().ApproxEqual(e.Node().Transform().Rotation))
	e.SetScale(vmath.Vec3(2, 2, 2))
	require.Equal(t, vmath.Vec3(2, 2, 2), e.Node().Transform().Scale)
}

func TestZeroValueEmbeddedEntityGetsDefaults(t *testing.T) {
	p := &probe{journal: &journal{}}
	require.Equal(t, physics.MaskDefault, p.CollisionMask())
	require.Equal(t, physics.BodyDynamic, p.BodyType())
	require.True(t, p.Rotation().IsIdentity())
	require.NotEqual(t, p.ID().String(), "00000000-0000-0000-0000-000000000000")
}

func triangleMesh(t *testing.T, mode render.CollisionMode) *render.Mesh {
	t.Helper()
	vertices := []render.Vertex{
		{Position: vmath.Vec3(-1, 0, 0)},
		{Position: vmath.Vec3(1, 0, 0)},
		{Position: vmath.Vec3(1, 2, 0)},
	}
	m, err := render.NewMesh("tri", []render.SubMesh{{Name: "a", Vertices: vertices, Indices: []uint32{0, 1, 2}}}, mode, true)
	require.NoError(t, err)
	return m
}

func TestMeshComponent(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.Start())

	e := NewEntity()
	require.NoError(t, w.Spawn(e, vmath.NewTransform()))

	mc := NewMeshComponent(triangleMesh(t, render.CollisionDefault))
	mc.SetBodyType(physics.BodyKinematic)
	mc.SetVisible(false)
	_, err := CreateComponent(e, mc)
	require.NoError(t, err)

	require.NotNil(t, mc.Instance())
	require.False(t, mc.Instance().Visible())
	require.Len(t, e.Node().Meshes(), 1)

	box, ok := e.Collision().(*physics.BoxCollision)
	require.True(t, ok)
	require.True(t, box.Extent().ApproxEqual(vmath.Vec3(1, 1, 0)))
	_, offset := e.Body().Collider()
	require.True(t, offset.ApproxEqual(vmath.Vec3(0, 1, 0)))
	require.Equal(t, physics.BodyKinematic, e.Body().Type())

	require.True(t, RemoveComponent[*MeshComponent](e))
	require.Nil(t, e.Collision())
	require.Nil(t, e.Body())
	require.Empty(t, e.Node().Meshes())
}

func TestMeshComponentWithoutMesh(t *testing.T) {
	mc := NewMeshComponent(nil)
	require.False(t, mc.SetMaterial(0, nil))
	require.Nil(t, mc.Material(0))

	w := newWorld(t)
	require.NoError(t, w.Start())
	e := NewEntity()
	require.NoError(t, w.Spawn(e, vmath.NewTransform()))
	_, err := CreateComponent(e, mc)
	require.NoError(t, err)
	require.Nil(t, mc.Instance())
	require.Nil(t, e.Collision())
}

func TestMeshComponentComplexCollisionIsStatic(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.Start())
	e := NewEntity()
	require.NoError(t, w.Spawn(e, vmath.NewTransform()))

	_, err := CreateComponent(e, NewMeshComponent(triangleMesh(t, render.CollisionComplex)))
	require.NoError(t, err)
	require.Equal(t, physics.ShapeConcaveMesh, e.Collision().Shape())
	require.Equal(t, physics.BodyStatic, e.Body().Type())
}

func TestCameraComponent(t *testing.T) {
	w := newWorld(t)
	e := NewEntity()
	cc, err := CreateComponent(e, NewCameraComponent())
	require.NoError(t, err)
	cc.SetFOV(60)
	require.Nil(t, cc.Camera())

	require.NoError(t, w.Spawn(e, vmath.At(vmath.Vec3(0, 0, 10))))
	require.NoError(t, w.Start())
	require.NotNil(t, cc.Camera())
	require.Equal(t, float32(60), cc.Camera().FOV())
	require.Same(t, e.Node(), cc.Camera().Node())
	require.Equal(t, 1, headless(t, w).CameraCount())

	screen, ok := cc.WorldToViewport(vmath.Vec3(0, 0, 0), 800, 600)
	require.True(t, ok)
	require.InDelta(t, 400, screen.X, 1e-3)
	require.InDelta(t, 300, screen.Y, 1e-3)

	e.Destroy()
	require.Nil(t, cc.Camera())
	require.Zero(t, headless(t, w).CameraCount())
}

func TestPlaySoundWithoutAudio(t *testing.T) {
	w := newWorld(t)
	_, err := w.PlaySound2D(nil)
	require.ErrorIs(t, err, ErrNoAudio)
	_, err = w.PlaySound3D(nil, vmath.Vector3{})
	require.ErrorIs(t, err, ErrNoAudio)
}
