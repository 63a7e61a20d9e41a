package repository

import (
	"context"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// LotRepository define o porto de persistência para lotes.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	GetByNumber(ctx context.Context, lotNumber string) (*entity.Lot, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, speciesID, status string, limit, offset int) ([]*entity.Lot, error)
}
