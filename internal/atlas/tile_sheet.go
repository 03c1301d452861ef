package atlas

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/annel0/tilemap-engine/internal/vec"
)

// ErrNotReady возвращается, когда ни одно исходное изображение еще не
// загружено и формат атласа неизвестен. Это не ошибка: загрузка ассетов
// асинхронна, нужно повторить подготовку на следующем тике.
var ErrNotReady = errors.New("atlas: исходные изображения еще не загружены")

// TileSheet — упакованный атлас тайлов. Исходные изображения нарезаются
// на тайлы единого размера и складываются в один байтовый буфер так,
// что каждый тайл занимает ровно один слой будущей текстуры-массива.
type TileSheet struct {
	sources    []Handle    // Исходные изображения (без дубликатов, отсортированы)
	tileSize   vec.Vec2    // Размер одного тайла в пикселях
	data       []byte      // Упакованные пиксели всех тайлов в порядке слоев
	arrayCount int         // Количество слоев текстуры-массива
	format     PixelFormat // Формат пикселей (FormatUnknown до первой упаковки)
}

// New создает атлас из набора ссылок на изображения. Ссылки
// дедуплицируются и сортируются, чтобы порядок слоев атласа
// не зависел от порядка вставки.
func New(sources []Handle, tileSize vec.Vec2) *TileSheet {
	sorted := make([]Handle, len(sources))
	copy(sorted, sources)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	deduped := sorted[:0]
	for _, h := range sorted {
		if len(deduped) == 0 || !deduped[len(deduped)-1].Same(h) {
			deduped = append(deduped, h)
		}
	}

	return &TileSheet{
		sources:  deduped,
		tileSize: tileSize,
	}
}

// Empty создает готовый атлас 1x1 с единственным белым тайлом.
// Используется как заглушка, пока настоящие изображения не загружены.
func Empty() *TileSheet {
	return &TileSheet{
		tileSize:   vec.Vec2{X: 1, Y: 1},
		data:       []byte{0xFF, 0xFF, 0xFF, 0xFF},
		arrayCount: 1,
		format:     FormatRGBA8,
	}
}

// Sources возвращает исходные изображения атласа
func (s *TileSheet) Sources() []Handle {
	return s.sources
}

// TileSize возвращает размер тайла в пикселях
func (s *TileSheet) TileSize() vec.Vec2 {
	return s.tileSize
}

// ArrayCount возвращает количество слоев текстуры-массива
func (s *TileSheet) ArrayCount() int {
	return s.arrayCount
}

// Format возвращает формат пикселей атласа
func (s *TileSheet) Format() PixelFormat {
	return s.format
}

// Packed возвращает упакованный буфер, количество слоев и формат.
// Возвращает ErrNotReady, пока формат неизвестен (ни одно изображение
// не было загружено на момент последней упаковки).
func (s *TileSheet) Packed() ([]byte, int, PixelFormat, error) {
	if s.format == FormatUnknown {
		return nil, 0, FormatUnknown, ErrNotReady
	}
	return s.data, s.arrayCount, s.format, nil
}

// PackedHash возвращает xxhash упакованного буфера. Используется для
// дешевой проверки, что повторная упаковка ничего не изменила.
func (s *TileSheet) PackedHash() uint64 {
	return xxhash.Sum64(s.data)
}

// UpdateImages перепаковывает атлас, если хотя бы одно из его исходных
// изображений есть в множестве изменившихся. Незагруженные изображения
// пропускаются и будут подхвачены следующим вызовом с их ID в changed.
func (s *TileSheet) UpdateImages(images ImageProvider, changed ChangedSet) {
	touched := false
	for _, h := range s.sources {
		if changed.Contains(h) {
			touched = true
			break
		}
	}
	if !touched {
		return
	}

	s.data = s.data[:0]
	s.format = FormatUnknown
	s.arrayCount = 0

	for _, h := range s.sources {
		img, ok := images.Image(h)
		if !ok {
			continue
		}

		if s.format == FormatUnknown {
			s.format = img.Format
		} else if s.format != img.Format {
			// Все изображения одного атласа обязаны иметь один формат:
			// слои текстуры-массива не могут отличаться форматом
			panic(fmt.Sprintf("atlas: формат %v изображения %v не совпадает с форматом атласа %v",
				img.Format, h, s.format))
		}

		s.data = appendTiles(s.data, img, s.tileSize)
	}

	if s.format != FormatUnknown {
		s.arrayCount = len(s.data) / (s.tileSize.Area() * s.format.PixelSize())
	}
}

// appendTiles нарезает изображение на тайлы размера tileSize и дописывает
// их пиксели в dst в порядке следования тайлов слева направо, сверху вниз.
// Строки внутри каждого тайла переворачиваются по вертикали — целевая
// графическая система считает началом текстуры нижний левый угол.
// Неполные тайлы по краям изображения отбрасываются.
func appendTiles(dst []byte, img *ImageData, tileSize vec.Vec2) []byte {
	pixelSize := img.Format.PixelSize()
	rowStride := img.Size.X * pixelSize
	tileStride := tileSize.X * pixelSize

	tilesX := img.Size.X / tileSize.X
	tilesY := img.Size.Y / tileSize.Y

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			for row := 0; row < tileSize.Y; row++ {
				srcRow := ty*tileSize.Y + (tileSize.Y - 1 - row)
				start := srcRow*rowStride + tx*tileStride
				dst = append(dst, img.Data[start:start+tileStride]...)
			}
		}
	}
	return dst
}
