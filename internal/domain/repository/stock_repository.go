package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// StockRepository define o porto do ledger: consulta/atualização de estoque
// por armazém+lote. As mutações acontecem sempre dentro de transações, com a
// linha travada via GetForUpdate.
type StockRepository interface {
	// Get devolve a linha atual; par ausente vem com Quantity zero.
	Get(ctx context.Context, warehouseID, lotID string) (*entity.StockEntry, error)
	// GetForUpdate trava a linha para escrita (SELECT ... FOR UPDATE ou
	// equivalente). Par ausente vem travado com Quantity zero.
	GetForUpdate(ctx context.Context, warehouseID, lotID string) (*entity.StockEntry, error)
	Upsert(ctx context.Context, stock *entity.StockEntry) error
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockEntry, error)
	ListByLot(ctx context.Context, lotID string) ([]*entity.StockEntry, error)
	// TotalByLot soma a quantidade do lote em todos os armazéns.
	TotalByLot(ctx context.Context, lotID string) (decimal.Decimal, error)
	// TotalByWarehouse soma todo o estoque de um armazém (ocupação).
	TotalByWarehouse(ctx context.Context, warehouseID string) (decimal.Decimal, error)
}
