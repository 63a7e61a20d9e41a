package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementação de DeliveryRepository sobre PostgreSQL.
// Aditivo como o histórico de movimentos: só INSERT e leituras.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

const deliveryColumns = `id, expedition_id, lot_id, farmer_id, quantity, delivered_at, delivered_by, notes, created_at`

// Create persiste a entrega.
func (r *DeliveryRepo) Create(ctx context.Context, delivery *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (` + deliveryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		delivery.ID, delivery.ExpeditionID, delivery.LotID, delivery.FarmerID,
		delivery.Quantity, delivery.DeliveredAt, delivery.DeliveredBy,
		delivery.Notes, delivery.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

// ListByExpedition lista as entregas de uma expedição em ordem cronológica.
func (r *DeliveryRepo) ListByExpedition(ctx context.Context, expeditionID string) ([]*entity.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries WHERE expedition_id = $1
		ORDER BY delivered_at, id`
	return r.list(ctx, query, expeditionID)
}

// ListByLot lista as entregas de um lote (rastreio).
func (r *DeliveryRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries WHERE lot_id = $1
		ORDER BY delivered_at, id`
	return r.list(ctx, query, lotID)
}

func (r *DeliveryRepo) list(ctx context.Context, query string, arg any) ([]*entity.Delivery, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	return collectDeliveries(rows)
}

func collectDeliveries(rows pgx.Rows) ([]*entity.Delivery, error) {
	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		if err := rows.Scan(
			&d.ID, &d.ExpeditionID, &d.LotID, &d.FarmerID,
			&d.Quantity, &d.DeliveredAt, &d.DeliveredBy, &d.Notes, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// SumByExpeditionItem soma o já entregue de um lote em uma expedição.
func (r *DeliveryRepo) SumByExpeditionItem(ctx context.Context, expeditionID, lotID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM deliveries WHERE expedition_id = $1 AND lot_id = $2`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, expeditionID, lotID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum deliveries: %w", err)
	}
	return total, nil
}

// Stats agrega totais de entregas num período opcional.
func (r *DeliveryRepo) Stats(ctx context.Context, from, to *time.Time) (*repository.DeliveryStats, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COUNT(*), COUNT(DISTINCT farmer_id)
		FROM deliveries WHERE 1=1`
	args := []any{}
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND delivered_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND delivered_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	var stats repository.DeliveryStats
	if err := r.q.QueryRow(ctx, query, args...).Scan(
		&stats.TotalQuantity, &stats.TotalDeliveries, &stats.TotalFarmers,
	); err != nil {
		return nil, fmt.Errorf("delivery stats: %w", err)
	}
	return &stats, nil
}
