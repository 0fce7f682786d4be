package render

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"

	"github.com/hexaengine/hexa/internal/core/asset"
	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/pkg/vmath"
)

func cube(t *testing.T) *Mesh {
	t.Helper()
	vertices := []Vertex{
		{Position: vmath.Vec3(-1, -1, 0)},
		{Position: vmath.Vec3(1, -1, 0)},
		{Position: vmath.Vec3(1, 1, 2)},
	}
	m, err := NewMesh("tri", []SubMesh{{Name: "a", Vertices: vertices, Indices: []uint32{0, 1, 2}}}, CollisionDefault, true)
	require.NoError(t, err)
	return m
}

func TestMeshBoundsAndNormals(t *testing.T) {
	m := cube(t)
	require.Equal(t, 1, m.MaterialCount())
	require.True(t, m.BoundsCenter().ApproxEqual(vmath.Vec3(0, 0, 1)))
	require.True(t, m.BoundsHalfSize().ApproxEqual(vmath.Vec3(1, 1, 1)))
	require.False(t, m.IsEmpty())

	n := m.SubMeshes()[0].Vertices[0].Normal
	require.InDelta(t, 1, n.Length(), 1e-5)

	positions, indices := m.Triangles()
	require.Len(t, positions, 3)
	require.Equal(t, []uint32{0, 1, 2}, indices)

	_, err := NewMesh("bad", []SubMesh{{Vertices: []Vertex{{}}, Indices: []uint32{0, 1}}}, CollisionNone, false)
	require.ErrorIs(t, err, ErrMeshEmpty)
}

func TestSubMeshAddRebasesIndices(t *testing.T) {
	sm := SubMesh{}
	sm.Add([]Vertex{{}, {}, {}}, []uint32{0, 1, 2})
	sm.Add([]Vertex{{}, {}, {}}, []uint32{0, 2, 1})
	require.Equal(t, []uint32{0, 1, 2, 3, 5, 4}, sm.Indices)
}

func TestHeadlessSceneLifecycle(t *testing.T) {
	h := NewHeadless(800, 600, log.NewNop())
	scene, err := h.CreateScene("arena")
	require.NoError(t, err)
	_, err = h.CreateScene("arena")
	require.ErrorIs(t, err, ErrNameTaken)

	node, err := scene.CreateNode("player")
	require.NoError(t, err)
	require.Same(t, scene.Root(), node.Parent())

	inst, err := scene.AttachMesh(node, cube(t), []*asset.Material{nil})
	require.NoError(t, err)
	require.Equal(t, 1, inst.MaterialCount())
	_, err = scene.AttachMesh(node, cube(t), []*asset.Material{nil, nil})
	require.ErrorIs(t, err, ErrMaterialCount)

	cam, err := scene.CreateCamera("main")
	require.NoError(t, err)
	node.AttachCamera(cam)
	h.Viewport().SetCamera(cam)

	require.NoError(t, h.RenderOneFrame())
	require.Equal(t, FrameStats{Scene: "arena", Camera: "main", Meshes: 1, Visible: 1}, h.LastFrame())

	inst.SetVisible(false)
	require.NoError(t, h.RenderOneFrame())
	require.Equal(t, 0, h.LastFrame().Visible)
	require.Equal(t, uint64(2), h.Frames())

	require.NoError(t, scene.DestroyNode(node))
	require.Nil(t, cam.Node())
	require.Nil(t, inst.Node())
	require.ErrorIs(t, scene.DestroyNode(scene.Root()), ErrRootNode)

	require.NoError(t, scene.DestroyCamera(cam))
	require.Nil(t, h.Viewport().Camera())

	require.NoError(t, scene.Close())
	require.True(t, scene.Closed())
	_, err = scene.CreateNode("late")
	require.ErrorIs(t, err, ErrSceneClosed)
	require.Empty(t, h.Scenes())
}

func TestCameraProjection(t *testing.T) {
	h := NewHeadless(800, 600, log.NewNop())
	scene, err := h.CreateScene("s")
	require.NoError(t, err)
	node, err := scene.CreateNode("eye")
	require.NoError(t, err)
	cam, err := scene.CreateCamera("cam")
	require.NoError(t, err)
	node.AttachCamera(cam)

	center, ok := cam.WorldToViewport(vmath.Vec3(0, 0, -10), 800, 600)
	require.True(t, ok)
	require.InDelta(t, 400, center.X, 1e-3)
	require.InDelta(t, 300, center.Y, 1e-3)

	_, ok = cam.WorldToViewport(vmath.Vec3(0, 0, 10), 800, 600)
	require.False(t, ok, "behind the camera")

	up, ok := cam.WorldToViewport(vmath.Vec3(0, 1, -10), 800, 600)
	require.True(t, ok)
	require.Less(t, up.Y, float32(300))

	// turn the camera to look down +X
	node.SetRotation(vmath.FromAxisAngle(vmath.Up(), -math32.Pi/2))
	_, ok = cam.WorldToViewport(vmath.Vec3(10, 0, 0), 800, 600)
	require.True(t, ok)

	dir := cam.ViewportToWorld(vmath.Vec2(0.5, 0.5), 800, 600)
	require.True(t, dir.ApproxEqual(vmath.Vec3(1, 0, 0)), dir.String())
}
