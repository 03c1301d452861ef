package tile

// Tile представляет содержимое одной клетки тайловой карты.
// Нулевое значение — пустая, невыбираемая клетка.
type Tile struct {
	Entity   uint64 // ID узла сцены, которому принадлежит тайл (0 — нет владельца)
	Kind     Kind   // Содержимое клетки (nil — клетка пуста)
	Pickable bool   // Доступна ли клетка для выбора лучом
}

// Empty возвращает true, если клетка пуста
func (t Tile) Empty() bool {
	return t.Kind == nil
}

// Kind описывает содержимое занятой клетки.
// Реализации: Sprite (спрайт из атласа) и ColorFill (заливка цветом).
type Kind interface {
	// AtlasIndex возвращает номер слоя атласа и true для спрайтовых тайлов.
	// Для заливки цветом возвращает 0, false.
	AtlasIndex() (uint16, bool)
}

// Sprite — тайл, отображающий один слой из атласа тайлов
type Sprite struct {
	Idx       uint16    // Номер слоя в атласе
	Transform Transform // Локальная трансформация внутри клетки
	MaskColor Color     // Цвет, на который умножается текстура
}

// AtlasIndex возвращает номер слоя атласа
func (s Sprite) AtlasIndex() (uint16, bool) {
	return s.Idx, true
}

// ColorFill — тайл, заливающий клетку сплошным цветом
type ColorFill struct {
	Color     Color     // Цвет заливки
	Transform Transform // Локальная трансформация внутри клетки
}

// AtlasIndex возвращает 0, false: заливка не ссылается на атлас
func (c ColorFill) AtlasIndex() (uint16, bool) {
	return 0, false
}
