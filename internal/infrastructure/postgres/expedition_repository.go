package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

var _ repository.ExpeditionRepository = (*ExpeditionRepo)(nil)

// ExpeditionRepo implementação de ExpeditionRepository sobre PostgreSQL.
type ExpeditionRepo struct {
	q Querier
}

// NewExpeditionRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewExpeditionRepository(q Querier) *ExpeditionRepo {
	return &ExpeditionRepo{q: q}
}

const expeditionColumns = `id, expedition_number, warehouse_origin_id, destination_id, seed_request_id, status, scheduled_date, shipped_at, delivered_at, vehicle_plate, driver_name, proof_ref, notes, created_by, created_at, updated_at`

// Create persiste a expedição e os itens do manifesto.
func (r *ExpeditionRepo) Create(ctx context.Context, exp *entity.Expedition) error {
	query := `
		INSERT INTO expeditions (` + expeditionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		exp.ID, exp.ExpeditionNumber, exp.WarehouseOriginID, exp.DestinationID,
		exp.SeedRequestID, exp.Status, exp.ScheduledDate, exp.ShippedAt, exp.DeliveredAt,
		exp.VehiclePlate, exp.DriverName, exp.ProofRef, exp.Notes,
		exp.CreatedBy, exp.CreatedAt, exp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateKeyError{Entity: "expedição", Key: exp.ExpeditionNumber}
		}
		return fmt.Errorf("create expedition: %w", err)
	}
	for _, item := range exp.Items {
		itemQuery := `
			INSERT INTO expedition_items (expedition_id, lot_id, quantity)
			VALUES ($1, $2, $3)`
		if _, err := r.q.Exec(ctx, itemQuery, exp.ID, item.LotID, item.Quantity); err != nil {
			if isUniqueViolation(err) {
				return &domain.DuplicateKeyError{Entity: "item de expedição", Key: item.LotID}
			}
			return fmt.Errorf("create expedition item: %w", err)
		}
	}
	return nil
}

func scanExpedition(row pgx.Row) (*entity.Expedition, error) {
	var e entity.Expedition
	err := row.Scan(
		&e.ID, &e.ExpeditionNumber, &e.WarehouseOriginID, &e.DestinationID,
		&e.SeedRequestID, &e.Status, &e.ScheduledDate, &e.ShippedAt, &e.DeliveredAt,
		&e.VehiclePlate, &e.DriverName, &e.ProofRef, &e.Notes,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// loadItems carrega o manifesto da expedição.
func (r *ExpeditionRepo) loadItems(ctx context.Context, exp *entity.Expedition) error {
	query := `
		SELECT expedition_id, lot_id, quantity
		FROM expedition_items WHERE expedition_id = $1
		ORDER BY lot_id`
	rows, err := r.q.Query(ctx, query, exp.ID)
	if err != nil {
		return fmt.Errorf("load expedition items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.ExpeditionItem
		if err := rows.Scan(&item.ExpeditionID, &item.LotID, &item.Quantity); err != nil {
			return fmt.Errorf("scan expedition item: %w", err)
		}
		exp.Items = append(exp.Items, item)
	}
	return rows.Err()
}

// GetByID obtém a expedição com itens.
func (r *ExpeditionRepo) GetByID(ctx context.Context, id string) (*entity.Expedition, error) {
	query := `SELECT ` + expeditionColumns + ` FROM expeditions WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate trava a linha da expedição para a transição de status.
func (r *ExpeditionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Expedition, error) {
	query := `SELECT ` + expeditionColumns + ` FROM expeditions WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *ExpeditionRepo) getOne(ctx context.Context, query, id string) (*entity.Expedition, error) {
	exp, err := scanExpedition(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expedition: %w", err)
	}
	if err := r.loadItems(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// UpdateStatus grava status, timestamps de embarque/entrega e comprovante.
func (r *ExpeditionRepo) UpdateStatus(ctx context.Context, exp *entity.Expedition) error {
	query := `
		UPDATE expeditions
		SET status = $2, shipped_at = $3, delivered_at = $4, proof_ref = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		exp.ID, exp.Status, exp.ShippedAt, exp.DeliveredAt, exp.ProofRef, exp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expedition status: %w", err)
	}
	return nil
}

// List lista expedições, filtrando por status quando informado.
func (r *ExpeditionRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Expedition, error) {
	query := `SELECT ` + expeditionColumns + ` FROM expeditions`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expeditions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expedition
	for rows.Next() {
		exp, err := scanExpedition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expedition: %w", err)
		}
		list = append(list, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, exp := range list {
		if err := r.loadItems(ctx, exp); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// CountByYear conta expedições do ano (base do número EXP-AAAA-NNNNN).
func (r *ExpeditionRepo) CountByYear(ctx context.Context, year int) (int, error) {
	query := `SELECT COUNT(*) FROM expeditions WHERE expedition_number LIKE $1`
	var count int
	if err := r.q.QueryRow(ctx, query, fmt.Sprintf("EXP-%d-%%", year)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count expeditions by year: %w", err)
	}
	return count, nil
}
