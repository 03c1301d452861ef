package atlas

import (
	"github.com/google/uuid"

	"github.com/annel0/tilemap-engine/internal/vec"
)

// PixelFormat описывает формат пикселей исходного изображения
type PixelFormat uint8

const (
	FormatUnknown PixelFormat = iota // Формат еще не известен (изображение не загружено)
	FormatRGBA8                      // 8 бит на канал, 4 канала
	FormatBGRA8                      // 8 бит на канал, порядок BGRA
	FormatR8                         // Одноканальный, 8 бит
)

// PixelSize возвращает размер одного пикселя в байтах
func (f PixelFormat) PixelSize() int {
	switch f {
	case FormatRGBA8, FormatBGRA8:
		return 4
	case FormatR8:
		return 1
	default:
		return 0
	}
}

// String возвращает строковое представление формата
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	case FormatR8:
		return "R8"
	default:
		return "UNKNOWN"
	}
}

// ImageData — пиксельные данные одного исходного изображения.
// Строки идут сверху вниз, len(Data) == Size.X * Size.Y * Format.PixelSize().
type ImageData struct {
	Data   []byte
	Size   vec.Vec2
	Format PixelFormat
}

// ImageProvider — внешний провайдер ассетов. Возвращает false,
// если изображение еще не загружено; атлас в этом случае ждет
// следующего прохода упаковки.
type ImageProvider interface {
	Image(h Handle) (*ImageData, bool)
}

// ChangedSet — множество изображений, изменившихся с прошлого прохода.
// Ключ — ID изображения (см. Handle.ID).
type ChangedSet map[uuid.UUID]struct{}

// NewChangedSet создает пустое множество изменившихся изображений
func NewChangedSet() ChangedSet {
	return make(ChangedSet)
}

// Add добавляет изображение в множество изменившихся
func (s ChangedSet) Add(h Handle) {
	s[h.ID()] = struct{}{}
}

// Contains проверяет наличие изображения в множестве
func (s ChangedSet) Contains(h Handle) bool {
	_, ok := s[h.ID()]
	return ok
}
