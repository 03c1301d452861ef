// Package engine связывает карты, сцену, атлас, батчинг и выбор тайлов
// в единый покадровый цикл. Вызывающая сторона владеет рендером и вводом,
// движок отдает готовые элементы отрисовки и события взаимодействия.
package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/logging"
	"github.com/annel0/tilemap-engine/internal/pick"
	"github.com/annel0/tilemap-engine/internal/render"
	"github.com/annel0/tilemap-engine/internal/scene"
	"github.com/annel0/tilemap-engine/internal/tilemap"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// FrameInput — ввод одного тика движка
type FrameInput struct {
	Hits    []pick.Hit // Пересечения лучей с чанками, от ближнего к дальнему
	Clicked bool       // Была ли нажата кнопка в этом тике
}

// FrameOutput — результат одного тика движка
type FrameOutput struct {
	DrawItems []render.DrawItem
	Events    []pick.Event
}

// Stats — накопленные счетчики движка для экспорта метрик
type Stats struct {
	ChunksCreated uint64
	ChunksSynced  uint64
	AtlasRepacks  uint64
	ChunksActive  uint64
	DrawItems     uint64
	Events        uint64
}

// mapState хранит карту вместе с ее менеджером чанков
type mapState struct {
	tm *tilemap.TileMap
	cm *tilemap.ChunkManager
}

// Engine — центральный объект движка карт тайлов.
// Не потокобезопасен: Tick и мутации вызываются из одной горутины,
// исключение — Stats, который можно читать из экспортера метрик.
type Engine struct {
	arena   *scene.Arena
	sheet   *atlas.TileSheet
	images  atlas.ImageProvider
	maps    map[scene.NodeID]*mapState
	sprites map[uint64]Sprite
	changed atlas.ChangedSet
	picker  *pick.Picker
	batcher *render.Batcher

	tick uint64

	statsMu sync.Mutex
	stats   Stats
}

// New создает движок поверх источника изображений и листа тайлов
func New(images atlas.ImageProvider, sheet *atlas.TileSheet) *Engine {
	return &Engine{
		arena:   scene.NewArena(),
		sheet:   sheet,
		images:  images,
		maps:    make(map[scene.NodeID]*mapState),
		sprites: make(map[uint64]Sprite),
		changed: atlas.NewChangedSet(),
		picker:  pick.NewPicker(),
		batcher: render.NewBatcher(),
	}
}

// Arena возвращает сцену движка
func (e *Engine) Arena() *scene.Arena {
	return e.arena
}

// SpawnTileMap создает карту с одним пустым слоем, ее корневой узел сцены
// и регистрирует их в движке. Дополнительные слои добавляются через
// TileMap.AddEmptyLayer / AddLayer.
func (e *Engine) SpawnTileMap(size, chunkSize, tileSize vec.Vec2) (scene.NodeID, *tilemap.TileMap) {
	tm := tilemap.New(size, chunkSize, tileSize, e.sheet)
	node := e.arena.Spawn(0)
	e.maps[node] = &mapState{tm: tm, cm: tilemap.NewChunkManager(e.arena)}
	return node, tm
}

// Map возвращает карту по узлу сцены
func (e *Engine) Map(node scene.NodeID) (*tilemap.TileMap, bool) {
	st, ok := e.maps[node]
	if !ok {
		return nil, false
	}
	return st.tm, true
}

// NotifyImageChanged помечает изображение измененным: лист тайлов,
// ссылающийся на него, будет перепакован на следующем тике
func (e *Engine) NotifyImageChanged(h atlas.Handle) {
	e.changed.Add(h)
}

// ChunkNode возвращает узел сцены чанка карты по координате чанка
func (e *Engine) ChunkNode(mapNode scene.NodeID, coord tilemap.ChunkCoord) (scene.NodeID, bool) {
	st, ok := e.maps[mapNode]
	if !ok {
		return 0, false
	}
	return st.cm.Record(coord)
}

// Data возвращает снимок чанка по узлу сцены, просматривая все карты
func (e *Engine) Data(node scene.NodeID) (*tilemap.ChunkData, bool) {
	for _, st := range e.maps {
		if cd, ok := st.cm.Data(node); ok {
			return cd, true
		}
	}
	return nil, false
}

// Stats возвращает снимок счетчиков движка
func (e *Engine) Stats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.stats
}

// Tick выполняет один кадр: сверка чанков, перепаковка атласа,
// события взаимодействия и построение элементов отрисовки
func (e *Engine) Tick(in FrameInput) FrameOutput {
	e.tick++

	// Сверяем грязные чанки каждой карты, в стабильном порядке узлов
	var created, synced, active int
	for _, node := range e.sortedMapNodes() {
		st := e.maps[node]
		rs := st.cm.Reconcile(node, st.tm)
		if rs.Created > 0 || rs.Synced > 0 {
			logging.LogChunkReconcile(uint64(node), rs.Created, rs.Synced)
		}
		created += rs.Created
		synced += rs.Synced
		active += st.cm.Len()
	}

	// Перепаковываем лист тайлов, если изменились исходные изображения
	repacked := e.repackSheet()

	events := e.picker.Update(in.Hits, in.Clicked, e.arena, e)

	var items []render.DrawItem
	for _, node := range e.sortedMapNodes() {
		items = append(items, e.batcher.Batch(e.arena, e.maps[node].cm)...)
	}
	// Слои разных карт упорядочиваются по глубине; стабильная сортировка
	// сохраняет порядок чанков внутри карты
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortKey < items[j].SortKey
	})

	logging.LogFrame(e.tick, len(items), len(events))

	e.statsMu.Lock()
	e.stats.ChunksCreated += uint64(created)
	e.stats.ChunksSynced += uint64(synced)
	e.stats.ChunksActive = uint64(active)
	e.stats.DrawItems = uint64(len(items))
	e.stats.Events += uint64(len(events))
	if repacked {
		e.stats.AtlasRepacks++
	}
	e.statsMu.Unlock()

	return FrameOutput{DrawItems: items, Events: events}
}

// repackSheet обновляет лист тайлов и сообщает, изменились ли его данные
func (e *Engine) repackSheet() bool {
	if len(e.changed) == 0 {
		return false
	}

	before := e.sheet.PackedHash()
	start := time.Now()
	e.sheet.UpdateImages(e.images, e.changed)
	e.changed = atlas.NewChangedSet()

	data, layers, _, err := e.sheet.Packed()
	if err != nil {
		// Исходники еще не загружены, перепаковка отложена
		return false
	}
	if e.sheet.PackedHash() == before {
		return false
	}

	logging.LogAtlasRepack(layers, len(data), time.Since(start))
	return true
}

// sortedMapNodes возвращает узлы карт в возрастающем порядке
func (e *Engine) sortedMapNodes() []scene.NodeID {
	nodes := make([]scene.NodeID, 0, len(e.maps))
	for node := range e.maps {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}
