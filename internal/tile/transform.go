package tile

import (
	"github.com/annel0/tilemap-engine/internal/vec"
)

// Transform — локальная аффинная трансформация тайла внутри клетки:
// перенос, поворот и неравномерное масштабирование. Хранятся "прямые"
// параметры; Mat3() строит обратное отображение (масштаб⁻¹, затем поворот,
// затем отрицательный перенос), которое конвейер рендеринга применяет для
// перевода UV клетки в пространство исходной текстуры.
type Transform struct {
	Translation vec.Vec2Float // Перенос в долях клетки
	Angle       float64       // Угол поворота в радианах
	Scale       vec.Vec2Float // Масштаб по осям
}

// DefaultTransform возвращает тождественную трансформацию
func DefaultTransform() Transform {
	return Transform{
		Translation: vec.Vec2Float{X: 0, Y: 0},
		Angle:       0,
		Scale:       vec.Vec2Float{X: 1, Y: 1},
	}
}

// Mat3 строит матрицу обратного отображения трансформации
func (t Transform) Mat3() vec.Mat3 {
	return vec.Mat3FromScaleAngleTranslation(
		vec.Vec2Float{X: 1 / t.Scale.X, Y: 1 / t.Scale.Y},
		t.Angle,
		vec.Vec2Float{X: -t.Translation.X, Y: -t.Translation.Y},
	)
}

// Mat4 расширяет Mat3 до 4x4 для инстанс-буферов
func (t Transform) Mat4() vec.Mat4 {
	return vec.Mat4FromMat3(t.Mat3())
}

// Recenter сдвигает перенос так, чтобы центр клетки (0.5, 0.5)
// остался на месте после применения трансформации.
func (t Transform) Recenter() Transform {
	center := vec.Vec2Float{X: 0.5, Y: 0.5}
	offset := t.Mat3().TransformPoint2(center)

	return Transform{
		Translation: t.Translation.Sub(center.Sub(offset)),
		Angle:       t.Angle,
		Scale:       t.Scale,
	}
}
