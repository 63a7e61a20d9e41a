package repository

import (
	"context"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// WarehouseRepository define o porto de persistência para armazéns.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.Warehouse, error)
}
