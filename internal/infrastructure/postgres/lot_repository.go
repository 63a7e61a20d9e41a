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

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementação de LotRepository sobre PostgreSQL (pool ou tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository constrói o adaptador de lotes. Passar pool ou tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, lot_number, species_id, supplier_id, initial_quantity, manufacture_date, expiry_date, status, notes, created_by, created_at, updated_at`

// Create persiste o lote; número de lote repetido sai como DuplicateKeyError.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.LotNumber, lot.SpeciesID, lot.SupplierID,
		lot.InitialQuantity, lot.ManufactureDate, lot.ExpiryDate,
		lot.Status, lot.Notes, lot.CreatedBy, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateKeyError{Entity: "lote", Key: lot.LotNumber}
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.LotNumber, &l.SpeciesID, &l.SupplierID,
		&l.InitialQuantity, &l.ManufactureDate, &l.ExpiryDate,
		&l.Status, &l.Notes, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByID obtém um lote por ID.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	lot, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// GetByNumber obtém um lote pelo número humano.
func (r *LotRepo) GetByNumber(ctx context.Context, lotNumber string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE lot_number = $1`
	lot, err := scanLot(r.q.QueryRow(ctx, query, lotNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot by number: %w", err)
	}
	return lot, nil
}

// UpdateStatus grava o status derivado do lote.
func (r *LotRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE lots SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update lot status: %w", err)
	}
	return nil
}

// List lista lotes com filtros opcionais de espécie e status.
func (r *LotRepo) List(ctx context.Context, speciesID, status string, limit, offset int) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE 1=1`
	args := []any{}
	pos := 1
	if speciesID != "" {
		query += fmt.Sprintf(" AND species_id = $%d", pos)
		args = append(args, speciesID)
		pos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, lot_number LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}
