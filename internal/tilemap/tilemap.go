package tilemap

import (
	"fmt"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/tile"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// ChunkCoord однозначно идентифицирует чанк: координаты чанка по X/Y
// и номер слоя. Используется как ключ карты чанк -> узел сцены.
type ChunkCoord struct {
	X     int
	Y     int
	Layer int
}

// TileMap — плотное послойное хранилище тайлов. Владеет всеми клетками
// и множеством грязных чанков; все мутации клеток должны идти через Set
// (или через SetUnchecked с последующей пометкой грязных чанков вручную).
type TileMap struct {
	tiles     [][]tile.Tile             // Слои клеток, каждый длиной Size.X*Size.Y
	size      vec.Vec3                  // Ширина, высота и количество слоев
	chunkSize vec.Vec2                  // Размер чанка в тайлах
	tileSize  vec.Vec2                  // Размер тайла в пикселях
	dirty     map[ChunkCoord]struct{}   // Чанки, измененные с последней синхронизации
	sheet     *atlas.TileSheet          // Атлас, из которого тайлы берут спрайты
}

// New создает карту заданного размера с одним пустым слоем.
// Паникует, если размер чанка меньше 1x1.
func New(size vec.Vec2, chunkSize vec.Vec2, tileSize vec.Vec2, sheet *atlas.TileSheet) *TileMap {
	if chunkSize.X < 1 || chunkSize.Y < 1 {
		panic(fmt.Sprintf("tilemap: недопустимый размер чанка %v", chunkSize))
	}

	return &TileMap{
		tiles:     [][]tile.Tile{make([]tile.Tile, size.Area())},
		size:      size.Extend(1),
		chunkSize: chunkSize,
		tileSize:  tileSize,
		dirty:     make(map[ChunkCoord]struct{}),
		sheet:     sheet,
	}
}

// Size возвращает размер карты: ширина, высота, количество слоев
func (m *TileMap) Size() vec.Vec3 {
	return m.size
}

// ChunkSize возвращает размер чанка в тайлах
func (m *TileMap) ChunkSize() vec.Vec2 {
	return m.chunkSize
}

// TileSize возвращает размер тайла в пикселях
func (m *TileMap) TileSize() vec.Vec2 {
	return m.tileSize
}

// Sheet возвращает атлас карты
func (m *TileMap) Sheet() *atlas.TileSheet {
	return m.sheet
}

// InBounds проверяет, что координата попадает в границы карты
func (m *TileMap) InBounds(coord vec.Vec3) bool {
	return coord.X >= 0 && coord.X < m.size.X &&
		coord.Y >= 0 && coord.Y < m.size.Y &&
		coord.Z >= 0 && coord.Z < m.size.Z
}

// Get возвращает тайл по координате. Возвращает false, если координата
// вне границ карты; координаты никогда не заворачиваются и не обрезаются.
func (m *TileMap) Get(coord vec.Vec3) (tile.Tile, bool) {
	if !m.InBounds(coord) {
		return tile.Tile{}, false
	}
	return m.tiles[coord.Z][m.tileIndex(coord.X, coord.Y)], true
}

// MustGet возвращает тайл по координате. Паникует вне границ.
func (m *TileMap) MustGet(coord vec.Vec3) tile.Tile {
	if !m.InBounds(coord) {
		panic(fmt.Sprintf("tilemap: координата %v вне границ карты %v", coord, m.size))
	}
	return m.tiles[coord.Z][m.tileIndex(coord.X, coord.Y)]
}

// Set записывает тайл по координате и помечает владеющий чанк грязным.
// Это единственный путь мутации, гарантирующий согласованность множества
// грязных чанков с содержимым клеток. Возвращает false вне границ.
func (m *TileMap) Set(coord vec.Vec3, t tile.Tile) bool {
	if !m.InBounds(coord) {
		return false
	}
	m.tiles[coord.Z][m.tileIndex(coord.X, coord.Y)] = t
	m.MarkChunkDirty(coord)
	return true
}

// MustSet записывает тайл по координате. Паникует вне границ.
func (m *TileMap) MustSet(coord vec.Vec3, t tile.Tile) {
	if !m.Set(coord, t) {
		panic(fmt.Sprintf("tilemap: координата %v вне границ карты %v", coord, m.size))
	}
}

// SetUnchecked записывает тайл без проверки границ и без пометки чанка
// грязным. Контракт на вызывающем: координата заранее проверена, а грязные
// чанки будут помечены отдельно (обычно одним MarkAllChunksDirty после
// массовой перезаписи). Предназначен только для bulk-алгоритмов, где
// пометка каждой клетки по отдельности дает лишние O(клеток) вставок.
func (m *TileMap) SetUnchecked(coord vec.Vec3, t tile.Tile) {
	m.tiles[coord.Z][m.tileIndex(coord.X, coord.Y)] = t
}

// AddEmptyLayer добавляет пустой слой поверх существующих и возвращает его
// номер. Все чанки карты (включая чанки нового слоя) помечаются грязными:
// перечисление чанков зависит от общего размера карты.
func (m *TileMap) AddEmptyLayer() int {
	m.size.Z++
	m.tiles = append(m.tiles, make([]tile.Tile, m.size.ToVec2().Area()))
	m.MarkAllChunksDirty()
	return m.size.Z - 1
}

// AddLayer добавляет слой с готовым содержимым и возвращает его номер.
// Длина cells обязана равняться ширине*высоте карты.
func (m *TileMap) AddLayer(cells []tile.Tile) (int, error) {
	if len(cells) != m.size.ToVec2().Area() {
		return 0, fmt.Errorf("tilemap: слой длиной %d не соответствует карте %dx%d",
			len(cells), m.size.X, m.size.Y)
	}

	m.size.Z++
	m.tiles = append(m.tiles, cells)
	m.MarkAllChunksDirty()
	return m.size.Z - 1, nil
}

// ChunkCounts возвращает количество чанков по X и Y (деление с округлением
// вверх, краевые чанки могут быть покрыты картой лишь частично)
func (m *TileMap) ChunkCounts() vec.Vec2 {
	return m.size.ToVec2().CeilDiv(m.chunkSize)
}

// Chunks перечисляет все возможные адреса чанков для текущего размера
// карты. Порядок обхода не несет смысла: потребители складывают адреса
// в множество.
func (m *TileMap) Chunks() []ChunkCoord {
	counts := m.ChunkCounts()
	coords := make([]ChunkCoord, 0, counts.Area()*m.size.Z)
	for x := 0; x < counts.X; x++ {
		for y := 0; y < counts.Y; y++ {
			for layer := 0; layer < m.size.Z; layer++ {
				coords = append(coords, ChunkCoord{X: x, Y: y, Layer: layer})
			}
		}
	}
	return coords
}

// CoordToChunkCoord возвращает адрес чанка, владеющего координатой
func (m *TileMap) CoordToChunkCoord(coord vec.Vec3) ChunkCoord {
	cc := coord.ToVec2().Div(m.chunkSize)
	return ChunkCoord{X: cc.X, Y: cc.Y, Layer: coord.Z}
}

// MarkChunkDirty помечает чанк, владеющий координатой, грязным.
// Повторная пометка — no-op.
func (m *TileMap) MarkChunkDirty(coord vec.Vec3) {
	m.dirty[m.CoordToChunkCoord(coord)] = struct{}{}
}

// MarkAllChunksDirty помечает все чанки карты грязными
func (m *TileMap) MarkAllChunksDirty() {
	for _, cc := range m.Chunks() {
		m.dirty[cc] = struct{}{}
	}
}

// DirtyCount возвращает количество грязных чанков
func (m *TileMap) DirtyCount() int {
	return len(m.dirty)
}

// IsChunkDirty проверяет, помечен ли чанк грязным
func (m *TileMap) IsChunkDirty(cc ChunkCoord) bool {
	_, ok := m.dirty[cc]
	return ok
}

// DrainDirty возвращает все грязные чанки и очищает множество.
// Забор владения списком исключает повторную обработку координаты,
// помеченной заново посреди итерации.
func (m *TileMap) DrainDirty() []ChunkCoord {
	drained := make([]ChunkCoord, 0, len(m.dirty))
	for cc := range m.dirty {
		drained = append(drained, cc)
	}
	m.dirty = make(map[ChunkCoord]struct{})
	return drained
}

// tileIndex возвращает индекс клетки внутри слоя (построчная укладка)
func (m *TileMap) tileIndex(x, y int) int {
	return y*m.size.X + x
}
