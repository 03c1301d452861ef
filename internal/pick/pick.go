// Package pick переводит попадания внешней системы лучей по чанкам
// в координаты тайлов и порождает события взаимодействия по фронтам:
// сравнением верхнего непустого попадания этого тика с прошлым.
package pick

import (
	"github.com/annel0/tilemap-engine/internal/scene"
	"github.com/annel0/tilemap-engine/internal/tilemap"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// ChunkSource отдает снимок чанка по узлу сцены
type ChunkSource interface {
	Data(scene.NodeID) (*tilemap.ChunkData, bool)
}

// EventType определяет тип события взаимодействия
type EventType uint8

const (
	EventEntered  EventType = iota // Курсор вошел в тайл
	EventHovering                  // Курсор остается над тайлом
	EventExited                    // Курсор покинул тайл
	EventClicked                   // Клик по тайлу
)

// String возвращает строковое представление типа события
func (t EventType) String() string {
	switch t {
	case EventEntered:
		return "ENTERED"
	case EventHovering:
		return "HOVERING"
	case EventExited:
		return "EXITED"
	case EventClicked:
		return "CLICKED"
	default:
		return "UNKNOWN"
	}
}

// Event — событие взаимодействия с тайлом карты
type Event struct {
	Type  EventType
	Map   scene.NodeID // Узел карты, которой принадлежит тайл
	Coord vec.Vec3     // Глобальная координата тайла
}

// Hit — пересечение луча с чанком, в порядке от ближнего к дальнему
type Hit struct {
	Node  scene.NodeID  // Узел чанка
	Point vec.Vec2Float // Точка пересечения в локальных координатах чанка (пиксели)
}

// Picker хранит выбор прошлого тика и порождает события по фронтам
type Picker struct {
	lastMap   scene.NodeID
	lastCoord vec.Vec3
	hasLast   bool
}

// NewPicker создает пустой выборщик
func NewPicker() *Picker {
	return &Picker{}
}

// Update обрабатывает попадания текущего тика и возвращает события.
// Берется первое попадание в непустую выбираемую клетку; попадания в
// пустые и невыбираемые клетки пропускаются.
func (p *Picker) Update(hits []Hit, clicked bool, arena *scene.Arena, cs ChunkSource) []Event {
	var events []Event

	selMap, selCoord, selected := p.resolve(hits, arena, cs)

	switch {
	case selected && p.hasLast:
		if selMap == p.lastMap && selCoord.Equals(p.lastCoord) {
			events = append(events, Event{Type: EventHovering, Map: selMap, Coord: selCoord})
		} else {
			events = append(events,
				Event{Type: EventExited, Map: p.lastMap, Coord: p.lastCoord},
				Event{Type: EventEntered, Map: selMap, Coord: selCoord},
			)
		}
	case selected:
		events = append(events, Event{Type: EventEntered, Map: selMap, Coord: selCoord})
	case p.hasLast:
		events = append(events, Event{Type: EventExited, Map: p.lastMap, Coord: p.lastCoord})
	}

	p.lastMap, p.lastCoord, p.hasLast = selMap, selCoord, selected

	if p.hasLast && clicked {
		events = append(events, Event{Type: EventClicked, Map: p.lastMap, Coord: p.lastCoord})
	}
	return events
}

// resolve находит первую непустую выбираемую клетку среди попаданий
func (p *Picker) resolve(hits []Hit, arena *scene.Arena, cs ChunkSource) (scene.NodeID, vec.Vec3, bool) {
	for _, hit := range hits {
		cd, ok := cs.Data(hit.Node)
		if !ok {
			continue
		}

		local := hit.Point.DivVec(vec.FromVec2(cd.TileSize())).ToVec2().Mod(cd.ChunkSize())
		t := cd.TileAt(local)
		if t.Empty() || !t.Pickable {
			continue
		}

		chunkCoord := cd.Coord()
		global := local.Add(vec.Vec2{X: chunkCoord.X, Y: chunkCoord.Y}.Mul(cd.ChunkSize()))
		return arena.Parent(hit.Node), global.Extend(chunkCoord.Layer), true
	}
	return 0, vec.Vec3{}, false
}
