package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementação de StockRepository sobre PostgreSQL (pool ou tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository constrói o adaptador do ledger. Passar pool ou tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get devolve a linha de estoque de um lote em um armazém; par ausente vale zero.
func (r *StockRepo) Get(ctx context.Context, warehouseID, lotID string) (*entity.StockEntry, error) {
	query := `
		SELECT warehouse_id, lot_id, quantity, updated_at
		FROM stock_entries WHERE warehouse_id = $1 AND lot_id = $2`
	var s entity.StockEntry
	err := r.q.QueryRow(ctx, query, warehouseID, lotID).Scan(
		&s.WarehouseID, &s.LotID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockEntry{WarehouseID: warehouseID, LotID: lotID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate devolve a linha travada para escrita (SELECT ... FOR UPDATE).
// Par ausente é materializado com quantidade zero e retravado: sem linha não
// há lock, e dois créditos concorrentes na mesma chave nova se
// sobrescreveriam em silêncio.
func (r *StockRepo) GetForUpdate(ctx context.Context, warehouseID, lotID string) (*entity.StockEntry, error) {
	query := `
		SELECT warehouse_id, lot_id, quantity, updated_at
		FROM stock_entries WHERE warehouse_id = $1 AND lot_id = $2
		FOR UPDATE`
	insert := `
		INSERT INTO stock_entries (warehouse_id, lot_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (warehouse_id, lot_id) DO NOTHING`
	// Se a inserção concorrente que nos fez esperar sofrer rollback, a linha
	// some entre o INSERT e o SELECT; por isso o laço.
	for attempt := 0; attempt < 3; attempt++ {
		var s entity.StockEntry
		err := r.q.QueryRow(ctx, query, warehouseID, lotID).Scan(
			&s.WarehouseID, &s.LotID, &s.Quantity, &s.UpdatedAt,
		)
		if err == nil {
			return &s, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get stock for update: %w", err)
		}
		if _, err := r.q.Exec(ctx, insert, warehouseID, lotID); err != nil {
			return nil, fmt.Errorf("materialize stock row: %w", err)
		}
	}
	return nil, fmt.Errorf("get stock for update: linha %s/%s não materializou", warehouseID, lotID)
}

// Upsert insere ou atualiza a quantidade (por armazém e lote).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (warehouse_id, lot_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (warehouse_id, lot_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.WarehouseID, stock.LotID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByWarehouse lista as linhas de estoque de um armazém.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockEntry, error) {
	query := `
		SELECT warehouse_id, lot_id, quantity, updated_at
		FROM stock_entries WHERE warehouse_id = $1
		ORDER BY lot_id`
	return r.list(ctx, query, warehouseID)
}

// ListByLot lista as linhas de estoque de um lote em todos os armazéns.
func (r *StockRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.StockEntry, error) {
	query := `
		SELECT warehouse_id, lot_id, quantity, updated_at
		FROM stock_entries WHERE lot_id = $1
		ORDER BY warehouse_id`
	return r.list(ctx, query, lotID)
}

func (r *StockRepo) list(ctx context.Context, query string, arg any) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.WarehouseID, &s.LotID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// TotalByLot soma a quantidade do lote em todos os armazéns.
func (r *StockRepo) TotalByLot(ctx context.Context, lotID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_entries WHERE lot_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, lotID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total by lot: %w", err)
	}
	return total, nil
}

// TotalByWarehouse soma todo o estoque de um armazém.
func (r *StockRepo) TotalByWarehouse(ctx context.Context, warehouseID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_entries WHERE warehouse_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, warehouseID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total by warehouse: %w", err)
	}
	return total, nil
}
