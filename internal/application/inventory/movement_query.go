package inventory

import (
	"context"
	"time"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// MovementQueryUseCase leituras do histórico de movimentações.
type MovementQueryUseCase struct {
	movementRepo repository.MovementRepository
}

// NewMovementQueryUseCase constrói o caso de uso com repositório atado ao pool.
func NewMovementQueryUseCase(movementRepo repository.MovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movementRepo: movementRepo}
}

// GetByID devolve um movimento.
func (uc *MovementQueryUseCase) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	mov, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, &domain.NotFoundError{Entity: "movimento", ID: id}
	}
	return mov, nil
}

// ListByWarehouse lista os movimentos que tocam um armazém no período.
func (uc *MovementQueryUseCase) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movementRepo.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
}
