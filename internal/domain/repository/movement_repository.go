package repository

import (
	"context"
	"time"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// MovementRepository define o porto de persistência do histórico de
// movimentações. Append-only: não existem Update nem Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// ListByLot devolve a linha do tempo do lote em ordem cronológica.
	ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error)
	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
