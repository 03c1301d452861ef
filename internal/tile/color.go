package tile

// Color представляет цвет RGBA с компонентами от 0 до 1
type Color struct {
	R, G, B, A float32
}

// Предопределенные цвета
var (
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Black       = Color{R: 0, G: 0, B: 0, A: 1}
	Transparent = Color{R: 0, G: 0, B: 0, A: 0}
)

// RGB создает непрозрачный цвет из компонентов
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// WithAlpha возвращает цвет с заданной прозрачностью
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}
