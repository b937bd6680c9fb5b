package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// WarehouseRepository define el puerto de bodegas (colaborador de validación).
type WarehouseRepository interface {
	GetByID(id string) (*entity.Warehouse, error)
	List() ([]*entity.Warehouse, error)
}
