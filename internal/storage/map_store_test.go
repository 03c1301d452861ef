package storage

import (
	"errors"
	"testing"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/tile"
	"github.com/annel0/tilemap-engine/internal/tilemap"
	"github.com/annel0/tilemap-engine/internal/vec"
)

func buildTestMap() *tilemap.TileMap {
	tm := tilemap.New(vec.Vec2{X: 8, Y: 8}, vec.Vec2{X: 4, Y: 4}, vec.Vec2{X: 16, Y: 16}, atlas.Empty())
	tm.AddEmptyLayer()

	tm.Set(vec.Vec3{X: 1, Y: 2, Z: 0}, tile.Tile{
		Entity:   7,
		Kind:     tile.Sprite{Idx: 3, Transform: tile.DefaultTransform(), MaskColor: tile.White},
		Pickable: true,
	})
	tm.Set(vec.Vec3{X: 6, Y: 6, Z: 1}, tile.Tile{
		Kind: tile.ColorFill{Color: tile.RGB(1, 0, 0), Transform: tile.DefaultTransform()},
	})
	return tm
}

func assertMapsEqual(t *testing.T, want, got *tilemap.TileMap) {
	t.Helper()

	if !got.Size().Equals(want.Size()) {
		t.Fatalf("Размер карты: ожидалось %v, получено %v", want.Size(), got.Size())
	}
	if got.ChunkSize() != want.ChunkSize() {
		t.Errorf("Размер чанка: ожидалось %v, получено %v", want.ChunkSize(), got.ChunkSize())
	}
	if got.TileSize() != want.TileSize() {
		t.Errorf("Размер тайла: ожидалось %v, получено %v", want.TileSize(), got.TileSize())
	}

	size := want.Size()
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				coord := vec.Vec3{X: x, Y: y, Z: z}
				if want.MustGet(coord) != got.MustGet(coord) {
					t.Errorf("Клетка %v: ожидалось %+v, получено %+v",
						coord, want.MustGet(coord), got.MustGet(coord))
				}
			}
		}
	}
}

func TestMemoryStoreRoundtrip(t *testing.T) {
	store := NewMemoryMapStore()
	defer store.Close()

	tm := buildTestMap()
	if err := store.SaveMap("overworld", tm); err != nil {
		t.Fatalf("Ошибка сохранения карты: %v", err)
	}

	loaded, err := store.LoadMap("overworld", atlas.Empty())
	if err != nil {
		t.Fatalf("Ошибка загрузки карты: %v", err)
	}
	assertMapsEqual(t, tm, loaded)

	// Все чанки восстановленной карты грязные: 2x2 чанков на 2 слоя
	if loaded.DirtyCount() != 8 {
		t.Errorf("Ожидалось 8 грязных чанков, получено %d", loaded.DirtyCount())
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryMapStore()
	defer store.Close()

	if _, err := store.LoadMap("нет-такой", atlas.Empty()); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("Ожидалась ErrMapNotFound, получено %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryMapStore()
	defer store.Close()

	if err := store.SaveMap("m", buildTestMap()); err != nil {
		t.Fatalf("Ошибка сохранения карты: %v", err)
	}
	if err := store.DeleteMap("m"); err != nil {
		t.Fatalf("Ошибка удаления карты: %v", err)
	}
	if _, err := store.LoadMap("m", atlas.Empty()); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("Ожидалась ErrMapNotFound после удаления, получено %v", err)
	}
}

func TestBadgerStoreRoundtrip(t *testing.T) {
	dataPath := t.TempDir()

	store, err := NewBadgerMapStore(dataPath)
	if err != nil {
		t.Fatalf("Не удалось создать хранилище: %v", err)
	}

	tm := buildTestMap()
	if err := store.SaveMap("overworld", tm); err != nil {
		t.Fatalf("Ошибка сохранения карты: %v", err)
	}

	loaded, err := store.LoadMap("overworld", atlas.Empty())
	if err != nil {
		t.Fatalf("Ошибка загрузки карты: %v", err)
	}
	assertMapsEqual(t, tm, loaded)

	// Переоткрываем базу: снимок должен пережить перезапуск
	if err := store.Close(); err != nil {
		t.Fatalf("Ошибка закрытия хранилища: %v", err)
	}
	store, err = NewBadgerMapStore(dataPath)
	if err != nil {
		t.Fatalf("Не удалось переоткрыть хранилище: %v", err)
	}
	defer store.Close()

	loaded, err = store.LoadMap("overworld", atlas.Empty())
	if err != nil {
		t.Fatalf("Ошибка загрузки после переоткрытия: %v", err)
	}
	assertMapsEqual(t, tm, loaded)
}

func TestBadgerStoreNotFound(t *testing.T) {
	store, err := NewBadgerMapStore(t.TempDir())
	if err != nil {
		t.Fatalf("Не удалось создать хранилище: %v", err)
	}
	defer store.Close()

	if _, err := store.LoadMap("нет-такой", atlas.Empty()); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("Ожидалась ErrMapNotFound, получено %v", err)
	}
}
