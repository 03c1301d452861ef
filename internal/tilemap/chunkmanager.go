package tilemap

import (
	"fmt"

	"github.com/annel0/tilemap-engine/internal/scene"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// ChunkManager сверяет множество грязных чанков карты с уже созданными
// узлами-чанками сцены: создает узлы для впервые затронутых областей,
// синхронизирует снимки существующих и пересчитывает их ограничивающие
// объемы для отсечения.
type ChunkManager struct {
	arena   *scene.Arena
	records map[ChunkCoord]scene.NodeID // Чанк -> узел сцены
	data    map[scene.NodeID]*ChunkData // Узел сцены -> снимок чанка
}

// ReconcileStats — объем работы, выполненной одним проходом сверки
type ReconcileStats struct {
	Created int // Создано новых чанков
	Synced  int // Синхронизировано существующих
}

// NewChunkManager создает менеджер чанков поверх арены узлов
func NewChunkManager(arena *scene.Arena) *ChunkManager {
	return &ChunkManager{
		arena:   arena,
		records: make(map[ChunkCoord]scene.NodeID),
		data:    make(map[scene.NodeID]*ChunkData),
	}
}

// Reconcile обрабатывает все грязные чанки карты. Карта без грязных
// чанков не стоит ничего — это основной механизм экономии: большинство
// тиков не трогает ни одного чанка.
//
// mapNode — узел сцены, которому принадлежит карта; узлы чанков
// создаются его детьми со смещением chunkCoord*footprint (чанки никогда
// не вращаются и не масштабируются относительно родительской карты).
func (cm *ChunkManager) Reconcile(mapNode scene.NodeID, m *TileMap) ReconcileStats {
	var stats ReconcileStats
	if m.DirtyCount() == 0 {
		return stats
	}

	// Экранный след чанка одинаков для всех чанков карты
	footprint := m.ChunkSize().Mul(m.TileSize())
	bounds := scene.AABB{
		Max: vec.Vec3Float{X: float64(footprint.X), Y: float64(footprint.Y)},
	}

	for _, coord := range m.DrainDirty() {
		if id, ok := cm.records[coord]; ok {
			cd, ok := cm.data[id]
			if !ok {
				// Карта записей и хранилище снимков разошлись: продолжение
				// рассинхронизировало бы отрисовку с состоянием игры
				panic(fmt.Sprintf("tilemap: чанк %v ссылается на узел %d без снимка", coord, id))
			}
			cd.Sync(m)
			cm.arena.MustNode(id).Bounds = bounds
			stats.Synced++
			continue
		}

		cd := NewChunkData(coord, m)
		id := cm.arena.Spawn(mapNode)
		node := cm.arena.MustNode(id)
		node.Translation = vec.Vec3Float{
			X: float64(coord.X * footprint.X),
			Y: float64(coord.Y * footprint.Y),
			Z: float64(coord.Layer),
		}
		node.Bounds = bounds

		cm.records[coord] = id
		cm.data[id] = cd
		stats.Created++
	}

	return stats
}

// Record возвращает узел сцены для чанка
func (cm *ChunkManager) Record(coord ChunkCoord) (scene.NodeID, bool) {
	id, ok := cm.records[coord]
	return id, ok
}

// Data возвращает снимок чанка по узлу сцены
func (cm *ChunkManager) Data(id scene.NodeID) (*ChunkData, bool) {
	cd, ok := cm.data[id]
	return cd, ok
}

// Len возвращает количество созданных чанков
func (cm *ChunkManager) Len() int {
	return len(cm.records)
}

// Each вызывает fn для каждого созданного чанка
func (cm *ChunkManager) Each(fn func(id scene.NodeID, cd *ChunkData)) {
	for id, cd := range cm.data {
		fn(id, cd)
	}
}
