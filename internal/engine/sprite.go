package engine

import (
	"maps"

	"github.com/annel0/tilemap-engine/internal/logging"
	"github.com/annel0/tilemap-engine/internal/scene"
	"github.com/annel0/tilemap-engine/internal/tile"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// Sprite — многоклеточный объект, проецируемый в тайлы карты.
// Tiles задает смещения клеток относительно Coord; при перемещении
// спрайта старый след стирается, новый записывается заново.
type Sprite struct {
	Map   scene.NodeID           // Узел карты, на которую проецируется спрайт
	Coord vec.Vec3               // Базовая координата спрайта на карте
	Tiles map[vec.Vec3]tile.Kind // Клетки спрайта: смещение -> вид тайла
}

// equal сравнивает спрайты поклеточно
func (s Sprite) equal(o Sprite) bool {
	return s.Map == o.Map && s.Coord.Equals(o.Coord) && maps.Equal(s.Tiles, o.Tiles)
}

// clone делает копию спрайта с собственной картой клеток
func (s Sprite) clone() Sprite {
	c := s
	c.Tiles = maps.Clone(s.Tiles)
	return c
}

// SetSprite записывает спрайт в карту под идентификатором id.
// Повторный вызов с теми же данными ничего не делает; при изменении
// координаты или состава клеток старый след стирается. Клетки спрайта
// выбираемы лучом и несут id в поле Entity тайла.
func (e *Engine) SetSprite(id uint64, s Sprite) {
	st, ok := e.maps[s.Map]
	if !ok {
		logging.LogWarn("Sprite %d ссылается на несуществующую карту %d", id, s.Map)
		return
	}

	if old, exists := e.sprites[id]; exists {
		if old.equal(s) {
			return
		}
		e.clearFootprint(old)
	}
	e.sprites[id] = s.clone()

	for off, kind := range s.Tiles {
		st.tm.Set(s.Coord.Add(off), tile.Tile{Entity: id, Kind: kind, Pickable: true})
	}
}

// RemoveSprite стирает след спрайта с карты и забывает его
func (e *Engine) RemoveSprite(id uint64) {
	old, ok := e.sprites[id]
	if !ok {
		return
	}
	e.clearFootprint(old)
	delete(e.sprites, id)
}

// clearFootprint записывает пустые тайлы на месте клеток спрайта.
// Клетки за границей карты пропускаются.
func (e *Engine) clearFootprint(s Sprite) {
	st, ok := e.maps[s.Map]
	if !ok {
		return
	}
	for off := range s.Tiles {
		st.tm.Set(s.Coord.Add(off), tile.Tile{})
	}
}
