package tilemap

import (
	"testing"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/tile"
	"github.com/annel0/tilemap-engine/internal/vec"
)

func newTestMap(w, h, cw, ch int) *TileMap {
	return New(
		vec.Vec2{X: w, Y: h},
		vec.Vec2{X: cw, Y: ch},
		vec.Vec2{X: 16, Y: 16},
		atlas.Empty(),
	)
}

func spriteTile(idx uint16) tile.Tile {
	return tile.Tile{
		Kind:     tile.Sprite{Idx: idx, Transform: tile.DefaultTransform(), MaskColor: tile.White},
		Pickable: true,
	}
}

func TestNewPanicsOnZeroChunkSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Ожидалась паника при нулевом размере чанка")
		}
	}()
	newTestMap(4, 4, 0, 2)
}

func TestSetGetRoundTripMarksChunkDirty(t *testing.T) {
	m := newTestMap(8, 8, 4, 4)
	coord := vec.Vec3{X: 5, Y: 6, Z: 0}

	if !m.Set(coord, spriteTile(7)) {
		t.Fatal("Set вернул false для координаты в границах")
	}

	got, ok := m.Get(coord)
	if !ok {
		t.Fatal("Get вернул false для координаты в границах")
	}
	sprite, isSprite := got.Kind.(tile.Sprite)
	if !isSprite || sprite.Idx != 7 {
		t.Errorf("Ожидался спрайт 7, получено %v", got.Kind)
	}

	if !m.IsChunkDirty(ChunkCoord{X: 1, Y: 1, Layer: 0}) {
		t.Error("Чанк (1,1,0) не помечен грязным после записи в (5,6,0)")
	}
	if m.DirtyCount() != 1 {
		t.Errorf("Ожидался 1 грязный чанк, получено %d", m.DirtyCount())
	}
}

func TestGetOutOfBoundsReturnsAbsence(t *testing.T) {
	m := newTestMap(4, 4, 2, 2)

	cases := []vec.Vec3{
		{X: 4, Y: 0, Z: 0},
		{X: 0, Y: 4, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: -1, Y: 0, Z: 0},
	}
	for _, c := range cases {
		if _, ok := m.Get(c); ok {
			t.Errorf("Get(%v) вернул true вне границ", c)
		}
		if m.Set(c, spriteTile(1)) {
			t.Errorf("Set(%v) вернул true вне границ", c)
		}
	}
}

func TestMustGetPanicsOutOfBounds(t *testing.T) {
	m := newTestMap(4, 4, 2, 2)

	defer func() {
		if recover() == nil {
			t.Error("Ожидалась паника MustGet вне границ")
		}
	}()
	m.MustGet(vec.Vec3{X: 9, Y: 0, Z: 0})
}

func TestSetUncheckedDoesNotMarkDirty(t *testing.T) {
	m := newTestMap(4, 4, 2, 2)

	m.SetUnchecked(vec.Vec3{X: 1, Y: 1, Z: 0}, spriteTile(3))
	if m.DirtyCount() != 0 {
		t.Errorf("SetUnchecked пометил чанки грязными: %d", m.DirtyCount())
	}

	got, _ := m.Get(vec.Vec3{X: 1, Y: 1, Z: 0})
	if got.Empty() {
		t.Error("SetUnchecked не записал тайл")
	}

	// Массовая перезапись помечает все чанки одним вызовом
	m.MarkAllChunksDirty()
	if m.DirtyCount() != 4 {
		t.Errorf("Ожидалось 4 грязных чанка, получено %d", m.DirtyCount())
	}
}

func TestAddEmptyLayer(t *testing.T) {
	m := newTestMap(4, 4, 2, 2)

	before := m.Size().Z
	layer := m.AddEmptyLayer()

	if layer != 1 {
		t.Errorf("Ожидался номер слоя 1, получено %d", layer)
	}
	if m.Size().Z != before+1 {
		t.Errorf("Глубина должна вырасти ровно на 1: было %d, стало %d", before, m.Size().Z)
	}

	// Все чанки обоих слоев помечены грязными: 2x2 чанка * 2 слоя
	if m.DirtyCount() != 8 {
		t.Errorf("Ожидалось 8 грязных чанков, получено %d", m.DirtyCount())
	}

	// Новый слой пуст и доступен для чтения
	got, ok := m.Get(vec.Vec3{X: 0, Y: 0, Z: 1})
	if !ok || !got.Empty() {
		t.Errorf("Новый слой должен быть пустым: ok=%v, tile=%v", ok, got)
	}
}

func TestAddLayerValidatesLength(t *testing.T) {
	m := newTestMap(4, 4, 2, 2)

	if _, err := m.AddLayer(make([]tile.Tile, 3)); err == nil {
		t.Error("Ожидалась ошибка для слоя неверной длины")
	}

	cells := make([]tile.Tile, 16)
	cells[5] = spriteTile(9)
	layer, err := m.AddLayer(cells)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	got, _ := m.Get(vec.Vec3{X: 1, Y: 1, Z: layer})
	sprite, isSprite := got.Kind.(tile.Sprite)
	if !isSprite || sprite.Idx != 9 {
		t.Errorf("Содержимое слоя не сохранилось: %v", got.Kind)
	}
}

func TestChunksEnumeration(t *testing.T) {
	m := newTestMap(5, 3, 2, 2)

	counts := m.ChunkCounts()
	if counts.X != 3 || counts.Y != 2 {
		t.Errorf("Ожидалось 3x2 чанка, получено %v", counts)
	}

	chunks := m.Chunks()
	if len(chunks) != 6 {
		t.Errorf("Ожидалось 6 адресов чанков, получено %d", len(chunks))
	}

	m.AddEmptyLayer()
	if len(m.Chunks()) != 12 {
		t.Errorf("После добавления слоя ожидалось 12 адресов, получено %d", len(m.Chunks()))
	}
}

func TestDrainDirtyTakesAndClears(t *testing.T) {
	m := newTestMap(4, 4, 2, 2)
	m.Set(vec.Vec3{X: 0, Y: 0, Z: 0}, spriteTile(1))
	m.Set(vec.Vec3{X: 3, Y: 3, Z: 0}, spriteTile(2))
	m.Set(vec.Vec3{X: 3, Y: 2, Z: 0}, spriteTile(3)) // тот же чанк (1,1,0)

	drained := m.DrainDirty()
	if len(drained) != 2 {
		t.Errorf("Ожидалось 2 грязных чанка, получено %d", len(drained))
	}
	if m.DirtyCount() != 0 {
		t.Errorf("DrainDirty не очистил множество: %d", m.DirtyCount())
	}
}
