// Package worldgen процедурно заполняет слои карты шумом Перлина.
package worldgen

import (
	"github.com/aquilax/go-perlin"

	"github.com/annel0/tilemap-engine/internal/tile"
	"github.com/annel0/tilemap-engine/internal/tilemap"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// Band сопоставляет диапазон шума индексу тайла в атласе:
// клетка получает индекс первой полосы, чей Threshold не меньше
// значения шума в этой клетке.
type Band struct {
	Threshold float64 // Верхняя граница диапазона шума (от 0 до 1)
	Idx       uint16  // Индекс тайла в атласе
}

// Generator детерминированно заполняет слои карты по сиду
type Generator struct {
	noise *perlin.Perlin
	scale float64
	bands []Band
}

// NewGenerator создает генератор с указанным сидом.
// scale задает размер деталей ландшафта в клетках.
func NewGenerator(seed int64, scale float64, bands []Band) *Generator {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав

	return &Generator{
		noise: perlin.NewPerlin(alpha, beta, n, seed),
		scale: scale,
		bands: bands,
	}
}

// noiseAt возвращает значение шума для клетки (от 0 до 1)
func (g *Generator) noiseAt(x, y int) float64 {
	v := g.noise.Noise2D(float64(x)/g.scale, float64(y)/g.scale)
	return (v + 1.0) / 2.0
}

// FillLayer заполняет слой карты тайлами по полосам шума.
// Клетки со значением шума выше последней полосы остаются пустыми.
// Запись идет массово, все чанки помечаются грязными одним разом.
func (g *Generator) FillLayer(tm *tilemap.TileMap, layer int) {
	size := tm.Size()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			idx, ok := g.pick(g.noiseAt(x, y))
			if !ok {
				continue
			}
			tm.SetUnchecked(vec.Vec3{X: x, Y: y, Z: layer}, tile.Tile{
				Kind: tile.Sprite{Idx: idx, Transform: tile.DefaultTransform(), MaskColor: tile.White},
			})
		}
	}
	tm.MarkAllChunksDirty()
}

// pick находит полосу для значения шума
func (g *Generator) pick(v float64) (uint16, bool) {
	for _, b := range g.bands {
		if v <= b.Threshold {
			return b.Idx, true
		}
	}
	return 0, false
}
