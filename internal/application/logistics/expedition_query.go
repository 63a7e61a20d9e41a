package logistics

import (
	"context"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// ExpeditionQueryUseCase leituras de expedições.
type ExpeditionQueryUseCase struct {
	expRepo repository.ExpeditionRepository
}

// NewExpeditionQueryUseCase constrói o caso de uso com repositório atado ao pool.
func NewExpeditionQueryUseCase(expRepo repository.ExpeditionRepository) *ExpeditionQueryUseCase {
	return &ExpeditionQueryUseCase{expRepo: expRepo}
}

// GetByID devolve a expedição com o manifesto.
func (uc *ExpeditionQueryUseCase) GetByID(ctx context.Context, id string) (*entity.Expedition, error) {
	exp, err := uc.expRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, &domain.NotFoundError{Entity: "expedição", ID: id}
	}
	return exp, nil
}

// List lista expedições, filtrando por status quando informado.
func (uc *ExpeditionQueryUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.Expedition, error) {
	if status != "" {
		switch status {
		case entity.ExpeditionStatusPendente, entity.ExpeditionStatusPreparando,
			entity.ExpeditionStatusTransito, entity.ExpeditionStatusEntregue,
			entity.ExpeditionStatusCancelada:
		default:
			return nil, &domain.ValidationError{Field: "status", Reason: "status de expedição desconhecido"}
		}
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.expRepo.List(ctx, status, limit, offset)
}
