// Package render собирает из снимков чанков готовые к отправке на GPU
// пакеты: поток индексов атласа на чанк, инстанс-запись с мировой
// трансформацией и общий индексный буфер квадов. Сама отправка —
// забота внешнего конвейера растеризации.
package render

import (
	"sort"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/scene"
	"github.com/annel0/tilemap-engine/internal/tile"
	"github.com/annel0/tilemap-engine/internal/tilemap"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// Кодировка клетки в потоке индексов
const (
	TileEmpty     int32 = -1 // Пустая клетка, не рисуется
	TileColorFill int32 = -2 // Заливка цветом, цвет в потоке цветов
)

// ExtractedChunk — снимок одного видимого чанка, снятый на фазе Extract
type ExtractedChunk struct {
	Index       int // Порядковый номер извлечения, вторичный ключ сортировки
	Tiles       []tile.Tile
	ChunkSize   vec.Vec2
	TileSize    vec.Vec2
	Sheet       *atlas.TileSheet
	Translation vec.Vec3Float // Мировой перенос чанка

	indices []int32      // Заполняется на фазе Prepare
	colors  []tile.Color // Заполняется на фазе Prepare
}

// ChunkInstance — инстанс-запись чанка для вершинного буфера
type ChunkInstance struct {
	Transform vec.Mat4
	ChunkSize [2]uint32
	TileSize  [2]uint32
}

// DrawItem — единица отрисовки, передаваемая внешнему конвейеру.
// Элементы уже отсортированы по глубине для корректного альфа-смешивания
// сзади наперед.
type DrawItem struct {
	Instance    ChunkInstance
	TileIndices []int32      // Индекс слоя атласа на клетку, TileEmpty/TileColorFill
	TileColors  []tile.Color // Маска/заливка на клетку
	Indices     []uint32     // Общий индексный буфер квадов для этого размера чанка
	Sheet       *atlas.TileSheet
	SortKey     float64 // Мировая глубина чанка
}

// Batcher строит пакеты отрисовки из чанков сцены. Индексные буферы
// квадов кэшируются по размеру чанка: они зависят только от него.
type Batcher struct {
	indexBuffers map[vec.Vec2][]uint32
}

// NewBatcher создает батчер с пустым кэшем индексных буферов
func NewBatcher() *Batcher {
	return &Batcher{
		indexBuffers: make(map[vec.Vec2][]uint32),
	}
}

// Extract собирает все видимые непустые чанки менеджера.
// Порядок обхода фиксируется сортировкой по ID узла, чтобы вторичный
// ключ сортировки был стабилен от кадра к кадру.
func (b *Batcher) Extract(arena *scene.Arena, cm *tilemap.ChunkManager) []ExtractedChunk {
	ids := make([]scene.NodeID, 0, cm.Len())
	cm.Each(func(id scene.NodeID, _ *tilemap.ChunkData) {
		ids = append(ids, id)
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	extracted := make([]ExtractedChunk, 0, len(ids))
	for _, id := range ids {
		node, ok := arena.Node(id)
		if !ok || !node.Visible {
			continue
		}
		cd, _ := cm.Data(id)
		if cd.Empty() {
			continue
		}

		tiles := make([]tile.Tile, len(cd.Tiles()))
		copy(tiles, cd.Tiles())

		extracted = append(extracted, ExtractedChunk{
			Index:       len(extracted),
			Tiles:       tiles,
			ChunkSize:   cd.ChunkSize(),
			TileSize:    cd.TileSize(),
			Sheet:       cd.Sheet(),
			Translation: arena.WorldTranslation(id),
		})
	}
	return extracted
}

// Prepare сортирует извлеченные чанки по мировой глубине (ничьи
// разрешаются порядком извлечения) и строит по-клеточные потоки
// индексов атласа и цветов.
func (b *Batcher) Prepare(chunks []ExtractedChunk) {
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].Translation.Z != chunks[j].Translation.Z {
			return chunks[i].Translation.Z < chunks[j].Translation.Z
		}
		return chunks[i].Index < chunks[j].Index
	})

	for i := range chunks {
		chunk := &chunks[i]
		chunk.indices = make([]int32, len(chunk.Tiles))
		chunk.colors = make([]tile.Color, len(chunk.Tiles))

		for j, t := range chunk.Tiles {
			switch kind := t.Kind.(type) {
			case nil:
				chunk.indices[j] = TileEmpty
			case tile.Sprite:
				chunk.indices[j] = int32(kind.Idx)
				chunk.colors[j] = kind.MaskColor
			case tile.ColorFill:
				chunk.indices[j] = TileColorFill
				chunk.colors[j] = kind.Color
			default:
				chunk.indices[j] = TileEmpty
			}
		}
	}
}

// Queue превращает подготовленные чанки в элементы отрисовки
func (b *Batcher) Queue(chunks []ExtractedChunk) []DrawItem {
	items := make([]DrawItem, 0, len(chunks))
	for i := range chunks {
		chunk := &chunks[i]
		items = append(items, DrawItem{
			Instance: ChunkInstance{
				Transform: vec.Mat4FromTranslation(chunk.Translation),
				ChunkSize: [2]uint32{uint32(chunk.ChunkSize.X), uint32(chunk.ChunkSize.Y)},
				TileSize:  [2]uint32{uint32(chunk.TileSize.X), uint32(chunk.TileSize.Y)},
			},
			TileIndices: chunk.indices,
			TileColors:  chunk.colors,
			Indices:     b.indexBuffer(chunk.ChunkSize),
			Sheet:       chunk.Sheet,
			SortKey:     chunk.Translation.Z,
		})
	}
	return items
}

// Batch выполняет полный проход Extract -> Prepare -> Queue за один вызов
func (b *Batcher) Batch(arena *scene.Arena, cm *tilemap.ChunkManager) []DrawItem {
	chunks := b.Extract(arena, cm)
	b.Prepare(chunks)
	return b.Queue(chunks)
}

// indexBuffer возвращает индексный буфер квадов для размера чанка.
// Каждая клетка — два треугольника по шаблону [0,3,1, 0,2,3] со смещением
// 4*номер клетки. Индексы 32-битные: чанк 128x128 уже не помещается в u16.
func (b *Batcher) indexBuffer(chunkSize vec.Vec2) []uint32 {
	if buf, ok := b.indexBuffers[chunkSize]; ok {
		return buf
	}

	pattern := [6]uint32{0, 3, 1, 0, 2, 3}
	buf := make([]uint32, 0, chunkSize.Area()*6)
	for i := 0; i < chunkSize.Area(); i++ {
		for _, idx := range pattern {
			buf = append(buf, idx+uint32(4*i))
		}
	}

	b.indexBuffers[chunkSize] = buf
	return buf
}
