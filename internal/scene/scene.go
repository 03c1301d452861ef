package scene

import (
	"fmt"

	"github.com/annel0/tilemap-engine/internal/vec"
)

// NodeID — идентификатор узла сцены. 0 означает отсутствие узла.
type NodeID uint64

// AABB — ограничивающий объем узла в его локальных координатах.
// Используется внешней системой отсечения и выбором лучом.
type AABB struct {
	Min vec.Vec3Float
	Max vec.Vec3Float
}

// Node — узел сцены: локальный перенос, видимость и ограничивающий объем.
// Узлы образуют дерево через parent; произвольные трансформации
// (поворот/масштаб) узлам не нужны — чанки и карты только переносятся.
type Node struct {
	Translation vec.Vec3Float // Локальный перенос относительно родителя
	Visible     bool          // Флаг видимости (выставляется внешним отсечением)
	Bounds      AABB          // Ограничивающий объем в локальных координатах
}

// Arena — арена узлов сцены с целочисленной идентичностью.
// Заменяет entity-систему хост-движка: любая внешняя система сущностей
// может быть обернута этим интерфейсом.
type Arena struct {
	nodes   map[NodeID]*Node
	parents map[NodeID]NodeID
	nextID  NodeID
}

// NewArena создает пустую арену узлов
func NewArena() *Arena {
	return &Arena{
		nodes:   make(map[NodeID]*Node),
		parents: make(map[NodeID]NodeID),
		nextID:  1,
	}
}

// Spawn создает новый узел с указанным родителем (0 — корневой узел)
func (a *Arena) Spawn(parent NodeID) NodeID {
	id := a.nextID
	a.nextID++

	a.nodes[id] = &Node{Visible: true}
	if parent != 0 {
		a.parents[id] = parent
	}
	return id
}

// Despawn удаляет узел. Дочерние узлы остаются и становятся корневыми.
func (a *Arena) Despawn(id NodeID) {
	delete(a.nodes, id)
	delete(a.parents, id)
}

// Node возвращает узел по ID
func (a *Arena) Node(id NodeID) (*Node, bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// MustNode возвращает узел по ID. Паникует, если узел не существует:
// ссылка на отсутствующий узел означает расхождение внутренних структур,
// продолжать работу с которым небезопасно.
func (a *Arena) MustNode(id NodeID) *Node {
	n, ok := a.nodes[id]
	if !ok {
		panic(fmt.Sprintf("scene: узел %d не существует", id))
	}
	return n
}

// Parent возвращает родителя узла (0, если узел корневой)
func (a *Arena) Parent(id NodeID) NodeID {
	return a.parents[id]
}

// Len возвращает количество узлов на арене
func (a *Arena) Len() int {
	return len(a.nodes)
}

// WorldTranslation возвращает мировой перенос узла, суммируя переносы
// по цепочке родителей
func (a *Arena) WorldTranslation(id NodeID) vec.Vec3Float {
	var result vec.Vec3Float
	for id != 0 {
		n, ok := a.nodes[id]
		if !ok {
			break
		}
		result = result.Add(n.Translation)
		id = a.parents[id]
	}
	return result
}
