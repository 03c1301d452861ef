// Package storage сохраняет и загружает снимки карт тайлов.
// Снимок сериализуется в JSON и сжимается zstd; хранилищем служит
// BadgerDB либо память (для тестов и инструментов).
package storage

import (
	"errors"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/tilemap"
)

// ErrMapNotFound возвращается, когда карта с указанным ID не сохранена
var ErrMapNotFound = errors.New("storage: карта не найдена")

// MapStore — хранилище снимков карт тайлов
type MapStore interface {
	// SaveMap сохраняет снимок карты под указанным ID
	SaveMap(id string, tm *tilemap.TileMap) error

	// LoadMap восстанавливает карту по ID. Все чанки восстановленной
	// карты помечены грязными, чтобы первый же тик создал их заново.
	LoadMap(id string, sheet *atlas.TileSheet) (*tilemap.TileMap, error)

	// DeleteMap удаляет снимок карты
	DeleteMap(id string) error

	// Close освобождает ресурсы хранилища
	Close() error
}
