package atlas

import (
	"github.com/google/uuid"
)

// Handle — ссылка на исходное изображение у внешнего провайдера ассетов.
// Сильная ссылка удерживает ассет загруженным; слабая используется только
// как ключ поиска и не продлевает жизнь ассета.
type Handle struct {
	id   uuid.UUID
	weak bool
}

// NewHandle создает новую сильную ссылку с уникальным ID
func NewHandle() Handle {
	return Handle{id: uuid.New()}
}

// HandleFromID создает сильную ссылку с заданным ID
func HandleFromID(id uuid.UUID) Handle {
	return Handle{id: id}
}

// ID возвращает идентификатор изображения
func (h Handle) ID() uuid.UUID {
	return h.id
}

// Weak возвращает слабую копию ссылки
func (h Handle) Weak() Handle {
	return Handle{id: h.id, weak: true}
}

// IsWeak возвращает true для слабой ссылки
func (h Handle) IsWeak() bool {
	return h.weak
}

// Same проверяет, что две ссылки указывают на одно изображение
// (независимо от силы ссылок)
func (h Handle) Same(other Handle) bool {
	return h.id == other.id
}

// String возвращает строковое представление ссылки
func (h Handle) String() string {
	return h.id.String()
}

// Less задает детерминированный порядок ссылок (по ID)
func (h Handle) Less(other Handle) bool {
	return h.id.String() < other.id.String()
}
