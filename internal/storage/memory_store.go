package storage

import (
	"sync"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/tilemap"
)

// MemoryMapStore хранит снимки карт в памяти.
// Используется в тестах и инструментах, где персистентность не нужна.
type MemoryMapStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryMapStore создает пустое хранилище в памяти
func NewMemoryMapStore() *MemoryMapStore {
	return &MemoryMapStore{
		blobs: make(map[string][]byte),
	}
}

// SaveMap сохраняет снимок карты под указанным ID
func (s *MemoryMapStore) SaveMap(id string, tm *tilemap.TileMap) error {
	data, err := encodeMap(tm)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[id] = data
	return nil
}

// LoadMap восстанавливает карту по ID
func (s *MemoryMapStore) LoadMap(id string, sheet *atlas.TileSheet) (*tilemap.TileMap, error) {
	s.mu.RLock()
	data, ok := s.blobs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrMapNotFound
	}
	return decodeMap(data, sheet)
}

// DeleteMap удаляет снимок карты
func (s *MemoryMapStore) DeleteMap(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)
	return nil
}

// Close ничего не делает
func (s *MemoryMapStore) Close() error {
	return nil
}
