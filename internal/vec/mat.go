package vec

import "math"

// Mat3 представляет аффинную матрицу 3x3 (элементы по столбцам).
// Используется для локальных трансформаций тайлов.
type Mat3 [9]float64

// Mat3Identity возвращает единичную матрицу
func Mat3Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromScaleAngleTranslation строит матрицу, применяющую сначала
// масштабирование, затем поворот, затем перенос (в этом порядке).
func Mat3FromScaleAngleTranslation(scale Vec2Float, angle float64, translation Vec2Float) Mat3 {
	sin, cos := math.Sincos(angle)
	return Mat3{
		scale.X * cos, scale.X * sin, 0,
		-scale.Y * sin, scale.Y * cos, 0,
		translation.X, translation.Y, 1,
	}
}

// TransformPoint2 применяет матрицу к точке (с учетом переноса)
func (m Mat3) TransformPoint2(p Vec2Float) Vec2Float {
	return Vec2Float{
		X: m[0]*p.X + m[3]*p.Y + m[6],
		Y: m[1]*p.X + m[4]*p.Y + m[7],
	}
}

// TransformVector2 применяет матрицу к направлению (без переноса)
func (m Mat3) TransformVector2(p Vec2Float) Vec2Float {
	return Vec2Float{
		X: m[0]*p.X + m[3]*p.Y,
		Y: m[1]*p.X + m[4]*p.Y,
	}
}

// Mat4 представляет матрицу 4x4 (элементы по столбцам, float32 для GPU-буферов)
type Mat4 [16]float32

// Mat4Identity возвращает единичную матрицу
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromTranslation строит матрицу переноса
func Mat4FromTranslation(t Vec3Float) Mat4 {
	m := Mat4Identity()
	m[12] = float32(t.X)
	m[13] = float32(t.Y)
	m[14] = float32(t.Z)
	return m
}

// Mat4FromMat3 расширяет аффинную 3x3 матрицу до 4x4
func Mat4FromMat3(m3 Mat3) Mat4 {
	return Mat4{
		float32(m3[0]), float32(m3[1]), 0, 0,
		float32(m3[3]), float32(m3[4]), 0, 0,
		0, 0, 1, 0,
		float32(m3[6]), float32(m3[7]), 0, 1,
	}
}
