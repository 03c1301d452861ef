package tilemap

import (
	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/tile"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// ChunkData — плотная копия клеток одного чанка, снятая с карты.
// Это единица выгрузки на GPU и пространственного отсечения: копия
// обновляется лениво, только когда владеющий чанк помечен грязным,
// и всегда целиком — частичных обновлений нет.
type ChunkData struct {
	coord     ChunkCoord
	chunkSize vec.Vec2
	tileSize  vec.Vec2
	tiles     []tile.Tile // Ровно chunkSize.X*chunkSize.Y клеток, построчно
	sheet     *atlas.TileSheet
}

// NewChunkData создает снимок чанка и заполняет его клетками карты
func NewChunkData(coord ChunkCoord, m *TileMap) *ChunkData {
	cd := &ChunkData{
		coord:     coord,
		chunkSize: m.ChunkSize(),
		tileSize:  m.TileSize(),
		tiles:     make([]tile.Tile, m.ChunkSize().Area()),
		sheet:     m.Sheet(),
	}
	cd.copyTiles(m)
	return cd
}

// Sync заново копирует клетки из карты. Вызывается, когда уже
// существующий чанк снова помечен грязным. Размер тайла обновляется
// на случай, если он изменился у карты.
func (cd *ChunkData) Sync(m *TileMap) {
	cd.tileSize = m.TileSize()
	cd.copyTiles(m)
}

// copyTiles копирует клетки из карты построчно. Для каждой локальной
// строки внутри границ карты копируется min(ширина чанка, остаток до
// края карты) клеток одним срезом; клетки за краем карты сохраняют
// прежние значения (пустые после выделения). Так краевые чанки,
// частично покрытые картой, обходятся без поклеточных проверок границ.
func (cd *ChunkData) copyTiles(m *TileMap) {
	mapSize := m.Size()
	layer := cd.coord.Layer
	startX := cd.coord.X * cd.chunkSize.X

	if layer >= mapSize.Z || startX >= mapSize.X {
		return
	}

	width := cd.chunkSize.X
	if startX+width > mapSize.X {
		width = mapSize.X - startX
	}

	for localY := 0; localY < cd.chunkSize.Y; localY++ {
		globalY := cd.coord.Y*cd.chunkSize.Y + localY
		if globalY >= mapSize.Y {
			break
		}

		src := m.tiles[layer][globalY*mapSize.X+startX:]
		copy(cd.tiles[localY*cd.chunkSize.X:localY*cd.chunkSize.X+width], src[:width])
	}
}

// Coord возвращает адрес чанка
func (cd *ChunkData) Coord() ChunkCoord {
	return cd.coord
}

// ChunkSize возвращает размер чанка в тайлах
func (cd *ChunkData) ChunkSize() vec.Vec2 {
	return cd.chunkSize
}

// TileSize возвращает размер тайла в пикселях
func (cd *ChunkData) TileSize() vec.Vec2 {
	return cd.tileSize
}

// Tiles возвращает клетки чанка (построчно)
func (cd *ChunkData) Tiles() []tile.Tile {
	return cd.tiles
}

// Sheet возвращает атлас, связанный с чанком
func (cd *ChunkData) Sheet() *atlas.TileSheet {
	return cd.sheet
}

// Empty возвращает true, если все клетки чанка пусты.
// Пустые чанки не попадают в батчи отрисовки.
func (cd *ChunkData) Empty() bool {
	for _, t := range cd.tiles {
		if !t.Empty() {
			return false
		}
	}
	return true
}

// TileAt возвращает клетку по локальной координате внутри чанка
func (cd *ChunkData) TileAt(local vec.Vec2) tile.Tile {
	return cd.tiles[local.Y*cd.chunkSize.X+local.X]
}
