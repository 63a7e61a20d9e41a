package inventory

import (
	"context"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// LotQueryUseCase leituras de lotes.
type LotQueryUseCase struct {
	lotRepo   repository.LotRepository
	stockRepo repository.StockRepository
}

// NewLotQueryUseCase constrói o caso de uso com repositórios atados ao pool.
func NewLotQueryUseCase(lotRepo repository.LotRepository, stockRepo repository.StockRepository) *LotQueryUseCase {
	return &LotQueryUseCase{lotRepo: lotRepo, stockRepo: stockRepo}
}

// GetByID devolve o lote.
func (uc *LotQueryUseCase) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	lot, err := uc.lotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, &domain.NotFoundError{Entity: "lote", ID: id}
	}
	return lot, nil
}

// List lista lotes com filtros opcionais.
func (uc *LotQueryUseCase) List(ctx context.Context, speciesID, status string, limit, offset int) ([]*entity.Lot, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.lotRepo.List(ctx, speciesID, status, limit, offset)
}

// Distribution devolve as linhas de estoque do lote por armazém.
func (uc *LotQueryUseCase) Distribution(ctx context.Context, lotID string) ([]*entity.StockEntry, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, &domain.NotFoundError{Entity: "lote", ID: lotID}
	}
	return uc.stockRepo.ListByLot(ctx, lotID)
}
