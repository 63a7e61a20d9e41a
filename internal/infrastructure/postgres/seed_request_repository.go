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

var _ repository.SeedRequestRepository = (*SeedRequestRepo)(nil)

// SeedRequestRepo implementação de SeedRequestRepository sobre PostgreSQL.
type SeedRequestRepo struct {
	q Querier
}

// NewSeedRequestRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewSeedRequestRepository(q Querier) *SeedRequestRepo {
	return &SeedRequestRepo{q: q}
}

const requestColumns = `id, request_number, requester_id, organization_id, status, justification, beneficiaries_count, priority, reviewer_id, review_notes, reviewed_at, created_at, updated_at`

// Create persiste a solicitação e os itens.
func (r *SeedRequestRepo) Create(ctx context.Context, req *entity.SeedRequest) error {
	query := `
		INSERT INTO seed_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.RequestNumber, req.RequesterID, req.OrganizationID,
		req.Status, req.Justification, req.BeneficiariesCount, req.Priority,
		req.ReviewerID, req.ReviewNotes, req.ReviewedAt, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateKeyError{Entity: "solicitação", Key: req.RequestNumber}
		}
		return fmt.Errorf("create seed request: %w", err)
	}
	for _, item := range req.Items {
		itemQuery := `
			INSERT INTO seed_request_items (request_id, species_id, quantity_requested, quantity_approved)
			VALUES ($1, $2, $3, $4)`
		if _, err := r.q.Exec(ctx, itemQuery, req.ID, item.SpeciesID, item.QuantityRequested, item.QuantityApproved); err != nil {
			if isUniqueViolation(err) {
				return &domain.DuplicateKeyError{Entity: "item de solicitação", Key: item.SpeciesID}
			}
			return fmt.Errorf("create seed request item: %w", err)
		}
	}
	return nil
}

func scanRequest(row pgx.Row) (*entity.SeedRequest, error) {
	var req entity.SeedRequest
	err := row.Scan(
		&req.ID, &req.RequestNumber, &req.RequesterID, &req.OrganizationID,
		&req.Status, &req.Justification, &req.BeneficiariesCount, &req.Priority,
		&req.ReviewerID, &req.ReviewNotes, &req.ReviewedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *SeedRequestRepo) loadItems(ctx context.Context, req *entity.SeedRequest) error {
	query := `
		SELECT request_id, species_id, quantity_requested, quantity_approved
		FROM seed_request_items WHERE request_id = $1
		ORDER BY species_id`
	rows, err := r.q.Query(ctx, query, req.ID)
	if err != nil {
		return fmt.Errorf("load request items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.SeedRequestItem
		if err := rows.Scan(&item.RequestID, &item.SpeciesID, &item.QuantityRequested, &item.QuantityApproved); err != nil {
			return fmt.Errorf("scan request item: %w", err)
		}
		req.Items = append(req.Items, item)
	}
	return rows.Err()
}

// GetByID obtém a solicitação com itens.
func (r *SeedRequestRepo) GetByID(ctx context.Context, id string) (*entity.SeedRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM seed_requests WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate trava a solicitação para análise/cancelamento.
func (r *SeedRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.SeedRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM seed_requests WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *SeedRequestRepo) getOne(ctx context.Context, query, id string) (*entity.SeedRequest, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seed request: %w", err)
	}
	if err := r.loadItems(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// UpdateReview grava status, avaliador, parecer e data da análise.
func (r *SeedRequestRepo) UpdateReview(ctx context.Context, req *entity.SeedRequest) error {
	query := `
		UPDATE seed_requests
		SET status = $2, reviewer_id = $3, review_notes = $4, reviewed_at = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.Status, req.ReviewerID, req.ReviewNotes, req.ReviewedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update seed request review: %w", err)
	}
	return nil
}

// UpdateItemApproval grava a quantidade aprovada de um item (nil limpa).
func (r *SeedRequestRepo) UpdateItemApproval(ctx context.Context, item *entity.SeedRequestItem) error {
	query := `
		UPDATE seed_request_items
		SET quantity_approved = $3
		WHERE request_id = $1 AND species_id = $2`
	_, err := r.q.Exec(ctx, query, item.RequestID, item.SpeciesID, item.QuantityApproved)
	if err != nil {
		return fmt.Errorf("update request item approval: %w", err)
	}
	return nil
}

// List lista solicitações com filtros opcionais de status e solicitante.
func (r *SeedRequestRepo) List(ctx context.Context, status, requesterID string, limit, offset int) ([]*entity.SeedRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM seed_requests WHERE 1=1`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	if requesterID != "" {
		query += fmt.Sprintf(" AND requester_id = $%d", pos)
		args = append(args, requesterID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list seed requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.SeedRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seed request: %w", err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, req := range list {
		if err := r.loadItems(ctx, req); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// CountByYear conta solicitações do ano (base do número SOL-AAAA-NNNNN).
func (r *SeedRequestRepo) CountByYear(ctx context.Context, year int) (int, error) {
	query := `SELECT COUNT(*) FROM seed_requests WHERE request_number LIKE $1`
	var count int
	if err := r.q.QueryRow(ctx, query, fmt.Sprintf("SOL-%d-%%", year)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count seed requests by year: %w", err)
	}
	return count, nil
}
