package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// PhysicalCountRepository define el puerto de persistencia de conteos físicos.
// Las líneas sí son editables mientras el conteo está en counting; al
// completar, el subconjunto ajustable pasa al kardex y el conteo se cierra.
type PhysicalCountRepository interface {
	CreateHeader(count *entity.PhysicalCount) error
	UpdateHeader(count *entity.PhysicalCount) error
	GetByID(id string) (*entity.PhysicalCount, error)
	UpsertLine(line *entity.CountLine) error
	DeleteLine(countID, lineID string) error
	GetLine(countID, lineID string) (*entity.CountLine, error)
	ListLines(countID string) ([]*entity.CountLine, error)
}
