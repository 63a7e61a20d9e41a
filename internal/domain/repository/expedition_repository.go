package repository

import (
	"context"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// ExpeditionRepository define o porto de persistência para expedições e seus itens.
type ExpeditionRepository interface {
	// Create persiste a expedição e os itens do manifesto.
	Create(ctx context.Context, exp *entity.Expedition) error
	GetByID(ctx context.Context, id string) (*entity.Expedition, error)
	// GetForUpdate trava a linha da expedição para a transição de status.
	GetForUpdate(ctx context.Context, id string) (*entity.Expedition, error)
	// UpdateStatus grava status, timestamps de embarque/entrega e comprovante.
	UpdateStatus(ctx context.Context, exp *entity.Expedition) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Expedition, error)
	// CountByYear apoia a geração do número EXP-AAAA-NNNNN.
	CountByYear(ctx context.Context, year int) (int, error)
}
