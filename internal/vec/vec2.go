package vec

import "math"

// Vec2 представляет 2D координаты
type Vec2 struct {
	X, Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает векторы покомпонентно
func (v Vec2) Mul(other Vec2) Vec2 {
	return Vec2{X: v.X * other.X, Y: v.Y * other.Y}
}

// Div делит векторы покомпонентно (целочисленно, с округлением вниз)
func (v Vec2) Div(other Vec2) Vec2 {
	return Vec2{X: v.X / other.X, Y: v.Y / other.Y}
}

// CeilDiv делит векторы покомпонентно с округлением вверх
func (v Vec2) CeilDiv(other Vec2) Vec2 {
	return Vec2{
		X: (v.X + other.X - 1) / other.X,
		Y: (v.Y + other.Y - 1) / other.Y,
	}
}

// Mod возвращает покомпонентный остаток от деления
func (v Vec2) Mod(other Vec2) Vec2 {
	return Vec2{X: v.X % other.X, Y: v.Y % other.Y}
}

// Extend создает Vec3 из Vec2 с заданной Z координатой
func (v Vec2) Extend(z int) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: z}
}

// Area возвращает произведение компонентов (площадь прямоугольника)
func (v Vec2) Area() int {
	return v.X * v.Y
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
