package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// ProductRepository define el puerto de productos (colaborador de validación).
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
}
