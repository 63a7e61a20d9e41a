package repository

import (
	"context"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// SeedRequestRepository define o porto de persistência para solicitações.
type SeedRequestRepository interface {
	Create(ctx context.Context, req *entity.SeedRequest) error
	GetByID(ctx context.Context, id string) (*entity.SeedRequest, error)
	// GetForUpdate trava a solicitação para análise/cancelamento.
	GetForUpdate(ctx context.Context, id string) (*entity.SeedRequest, error)
	// UpdateReview grava status, avaliador, parecer e data da análise.
	UpdateReview(ctx context.Context, req *entity.SeedRequest) error
	// UpdateItemApproval grava a quantidade aprovada de um item (nil limpa).
	UpdateItemApproval(ctx context.Context, item *entity.SeedRequestItem) error
	List(ctx context.Context, status, requesterID string, limit, offset int) ([]*entity.SeedRequest, error)
	CountByYear(ctx context.Context, year int) (int, error)
}
