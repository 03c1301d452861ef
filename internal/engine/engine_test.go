package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/pick"
	"github.com/annel0/tilemap-engine/internal/tile"
	"github.com/annel0/tilemap-engine/internal/tilemap"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// mockImages хранит изображения в памяти
type mockImages struct {
	images map[atlas.Handle]*atlas.ImageData
}

func (m *mockImages) Image(h atlas.Handle) (*atlas.ImageData, bool) {
	img, ok := m.images[h]
	return img, ok
}

func newEngine() *Engine {
	return New(&mockImages{images: map[atlas.Handle]*atlas.ImageData{}}, atlas.Empty())
}

func sprite(idx uint16) tile.Tile {
	return tile.Tile{Kind: tile.Sprite{Idx: idx, Transform: tile.DefaultTransform(), MaskColor: tile.White}}
}

func TestTickBuildsDrawItemsForDirtyChunks(t *testing.T) {
	e := newEngine()
	_, tm := e.SpawnTileMap(vec.Vec2{X: 4, Y: 4}, vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: 16, Y: 16})

	tm.Set(vec.Vec3{X: 0, Y: 0, Z: 0}, sprite(1))
	tm.Set(vec.Vec3{X: 3, Y: 3, Z: 0}, sprite(2))

	out := e.Tick(FrameInput{})
	assert.Len(t, out.DrawItems, 2)

	stats := e.Stats()
	assert.EqualValues(t, 2, stats.ChunksCreated)
	assert.EqualValues(t, 2, stats.ChunksActive)
	assert.EqualValues(t, 0, stats.ChunksSynced)

	// Повторный тик без записей переиспользует чанки
	out = e.Tick(FrameInput{})
	assert.Len(t, out.DrawItems, 2)
	assert.EqualValues(t, 2, e.Stats().ChunksCreated)
}

func TestTickSyncsModifiedChunks(t *testing.T) {
	e := newEngine()
	_, tm := e.SpawnTileMap(vec.Vec2{X: 4, Y: 4}, vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: 16, Y: 16})

	tm.Set(vec.Vec3{X: 0, Y: 0, Z: 0}, sprite(1))
	e.Tick(FrameInput{})

	tm.Set(vec.Vec3{X: 1, Y: 1, Z: 0}, sprite(2))
	e.Tick(FrameInput{})

	stats := e.Stats()
	assert.EqualValues(t, 1, stats.ChunksCreated)
	assert.EqualValues(t, 1, stats.ChunksSynced)
}

func TestDrawItemsSortedAcrossMaps(t *testing.T) {
	e := newEngine()
	_, lower := e.SpawnTileMap(vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: 16, Y: 16})
	_, upper := e.SpawnTileMap(vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: 16, Y: 16})

	lower.Set(vec.Vec3{X: 0, Y: 0, Z: 0}, sprite(1))
	lower.AddEmptyLayer()
	lower.Set(vec.Vec3{X: 0, Y: 0, Z: 1}, sprite(3))
	upper.Set(vec.Vec3{X: 0, Y: 0, Z: 0}, sprite(2))

	out := e.Tick(FrameInput{})
	require.Len(t, out.DrawItems, 3)
	for i := 1; i < len(out.DrawItems); i++ {
		assert.LessOrEqual(t, out.DrawItems[i-1].SortKey, out.DrawItems[i].SortKey,
			"элементы отрисовки должны идти сзади наперед")
	}
}

func TestAtlasRepackOnImageChange(t *testing.T) {
	h := atlas.NewHandle()
	images := &mockImages{images: map[atlas.Handle]*atlas.ImageData{}}
	sheet := atlas.New([]atlas.Handle{h}, vec.Vec2{X: 2, Y: 2})
	e := New(images, sheet)

	// Изображение еще не загружено: уведомление не приводит к перепаковке
	e.NotifyImageChanged(h)
	e.Tick(FrameInput{})
	assert.EqualValues(t, 0, e.Stats().AtlasRepacks)

	images.images[h] = &atlas.ImageData{
		Data:   make([]byte, 2*2*4),
		Size:   vec.Vec2{X: 2, Y: 2},
		Format: atlas.FormatRGBA8,
	}
	e.NotifyImageChanged(h)
	e.Tick(FrameInput{})
	assert.EqualValues(t, 1, e.Stats().AtlasRepacks)

	// Тик без уведомлений атлас не трогает
	e.Tick(FrameInput{})
	assert.EqualValues(t, 1, e.Stats().AtlasRepacks)
}

func TestPickEventsFlowThroughTick(t *testing.T) {
	e := newEngine()
	mapNode, tm := e.SpawnTileMap(vec.Vec2{X: 4, Y: 4}, vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: 16, Y: 16})

	tm.Set(vec.Vec3{X: 3, Y: 3, Z: 0}, tile.Tile{
		Kind:     tile.Sprite{Idx: 1, Transform: tile.DefaultTransform(), MaskColor: tile.White},
		Pickable: true,
	})
	e.Tick(FrameInput{})

	chunkNode, ok := e.ChunkNode(mapNode, tilemap.ChunkCoord{X: 1, Y: 1, Layer: 0})
	require.True(t, ok)

	out := e.Tick(FrameInput{
		Hits:    []pick.Hit{{Node: chunkNode, Point: vec.Vec2Float{X: 24, Y: 24}}},
		Clicked: true,
	})
	require.Len(t, out.Events, 2)
	assert.Equal(t, pick.EventEntered, out.Events[0].Type)
	assert.Equal(t, pick.EventClicked, out.Events[1].Type)
	assert.Equal(t, mapNode, out.Events[0].Map)
	assert.True(t, out.Events[0].Coord.Equals(vec.Vec3{X: 3, Y: 3, Z: 0}))
}

func TestSpriteFootprintFollowsMovement(t *testing.T) {
	e := newEngine()
	mapNode, tm := e.SpawnTileMap(vec.Vec2{X: 8, Y: 8}, vec.Vec2{X: 4, Y: 4}, vec.Vec2{X: 16, Y: 16})

	kind := tile.Sprite{Idx: 5, Transform: tile.DefaultTransform(), MaskColor: tile.White}
	s := Sprite{
		Map:   mapNode,
		Coord: vec.Vec3{X: 1, Y: 1, Z: 0},
		Tiles: map[vec.Vec3]tile.Kind{
			{X: 0, Y: 0, Z: 0}: kind,
			{X: 1, Y: 0, Z: 0}: kind,
		},
	}
	e.SetSprite(42, s)

	got, ok := tm.Get(vec.Vec3{X: 2, Y: 1, Z: 0})
	require.True(t, ok)
	assert.EqualValues(t, 42, got.Entity)
	assert.True(t, got.Pickable)

	// Повторная установка тех же данных не пачкает карту
	e.Tick(FrameInput{})
	e.SetSprite(42, s)
	assert.Zero(t, tm.DirtyCount())

	// Перемещение стирает старый след
	moved := s.clone()
	moved.Coord = vec.Vec3{X: 4, Y: 4, Z: 0}
	e.SetSprite(42, moved)

	got, _ = tm.Get(vec.Vec3{X: 2, Y: 1, Z: 0})
	assert.True(t, got.Empty())
	got, _ = tm.Get(vec.Vec3{X: 5, Y: 4, Z: 0})
	assert.EqualValues(t, 42, got.Entity)

	e.RemoveSprite(42)
	got, _ = tm.Get(vec.Vec3{X: 5, Y: 4, Z: 0})
	assert.True(t, got.Empty())
}

func TestSetSpriteOnUnknownMapIsIgnored(t *testing.T) {
	e := newEngine()
	e.SetSprite(1, Sprite{
		Map:   999,
		Coord: vec.Vec3{},
		Tiles: map[vec.Vec3]tile.Kind{{X: 0, Y: 0, Z: 0}: tile.ColorFill{Color: tile.White}},
	})
	assert.Empty(t, e.sprites)
}
