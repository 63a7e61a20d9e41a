package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// StockQueryUseCase responde leituras de estoque (snapshot, fora de
// transação). As leituras observam toda escrita já confirmada; escritas em
// andamento aparecem só depois do commit.
type StockQueryUseCase struct {
	stockRepo     repository.StockRepository
	warehouseRepo repository.WarehouseRepository
}

// NewStockQueryUseCase constrói o caso de uso com repositórios atados ao pool.
func NewStockQueryUseCase(stockRepo repository.StockRepository, warehouseRepo repository.WarehouseRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo, warehouseRepo: warehouseRepo}
}

// GetStock devolve a quantidade atual do par (armazém, lote); zero se ausente.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, warehouseID, lotID string) (decimal.Decimal, error) {
	entry, err := uc.stockRepo.Get(ctx, warehouseID, lotID)
	if err != nil {
		return decimal.Zero, err
	}
	return entry.Quantity, nil
}

// ListWarehouseStock lista as linhas de estoque de um armazém.
func (uc *StockQueryUseCase) ListWarehouseStock(ctx context.Context, warehouseID string) ([]*entity.StockEntry, error) {
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, &domain.NotFoundError{Entity: "armazém", ID: warehouseID}
	}
	return uc.stockRepo.ListByWarehouse(ctx, warehouseID)
}

// WarehouseSummary resume ocupação por armazém.
type WarehouseSummary struct {
	WarehouseID  string
	Name         string
	Code         string
	Capacity     decimal.Decimal
	CurrentStock decimal.Decimal
	Utilization  decimal.Decimal // percentual, 2 casas
}

// Summary calcula estoque total e utilização de cada armazém ativo.
func (uc *StockQueryUseCase) Summary(ctx context.Context) ([]WarehouseSummary, error) {
	warehouses, err := uc.warehouseRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	summaries := make([]WarehouseSummary, 0, len(warehouses))
	for _, wh := range warehouses {
		total, err := uc.stockRepo.TotalByWarehouse(ctx, wh.ID)
		if err != nil {
			return nil, err
		}
		s := WarehouseSummary{
			WarehouseID:  wh.ID,
			Name:         wh.Name,
			Code:         wh.Code,
			Capacity:     wh.Capacity,
			CurrentStock: total,
		}
		if wh.Capacity.GreaterThan(decimal.Zero) {
			s.Utilization = total.Div(wh.Capacity).Mul(decimal.NewFromInt(100)).Round(2)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
