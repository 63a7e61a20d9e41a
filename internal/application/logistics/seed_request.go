package logistics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// SeedRequestUseCase cobre criação e cancelamento de solicitações. A análise
// (aprovação) vive no ReviewRequestUseCase.
type SeedRequestUseCase struct {
	txRunner    TxRunner
	speciesRepo repository.SpeciesRepository
	requestRepo repository.SeedRequestRepository // atado ao pool, para consultas
}

// NewSeedRequestUseCase constrói o caso de uso.
func NewSeedRequestUseCase(txRunner TxRunner, speciesRepo repository.SpeciesRepository, requestRepo repository.SeedRequestRepository) *SeedRequestUseCase {
	return &SeedRequestUseCase{txRunner: txRunner, speciesRepo: speciesRepo, requestRepo: requestRepo}
}

// RequestItemInput item solicitado por espécie.
type RequestItemInput struct {
	SpeciesID         string
	QuantityRequested decimal.Decimal
}

// CreateRequestInput entrada para a criação de solicitação.
type CreateRequestInput struct {
	RequesterID        string
	OrganizationID     *string
	Justification      string
	BeneficiariesCount int
	Priority           int
	Items              []RequestItemInput
}

// Create valida e persiste a solicitação com número SOL-AAAA-NNNNN.
func (uc *SeedRequestUseCase) Create(ctx context.Context, input CreateRequestInput) (*entity.SeedRequest, error) {
	if input.Justification == "" {
		return nil, &domain.ValidationError{Field: "justification", Reason: "obrigatória"}
	}
	if input.BeneficiariesCount < 1 {
		return nil, &domain.ValidationError{Field: "beneficiaries_count", Reason: "deve ser ao menos 1"}
	}
	if len(input.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "ao menos um item"}
	}
	seen := map[string]bool{}
	for _, item := range input.Items {
		if !item.QuantityRequested.GreaterThan(decimal.Zero) {
			return nil, &domain.ValidationError{Field: "items.quantity_requested", Reason: "deve ser positiva"}
		}
		if seen[item.SpeciesID] {
			return nil, &domain.DuplicateKeyError{Entity: "item de solicitação", Key: item.SpeciesID}
		}
		seen[item.SpeciesID] = true
		species, err := uc.speciesRepo.GetByID(ctx, item.SpeciesID)
		if err != nil {
			return nil, err
		}
		if species == nil {
			return nil, &domain.NotFoundError{Entity: "espécie", ID: item.SpeciesID}
		}
	}

	now := time.Now()
	req := &entity.SeedRequest{
		ID:                 uuid.New().String(),
		RequesterID:        input.RequesterID,
		OrganizationID:     input.OrganizationID,
		Status:             entity.RequestStatusPendente,
		Justification:      input.Justification,
		BeneficiariesCount: input.BeneficiariesCount,
		Priority:           input.Priority,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, item := range input.Items {
		req.Items = append(req.Items, entity.SeedRequestItem{
			RequestID:         req.ID,
			SpeciesID:         item.SpeciesID,
			QuantityRequested: item.QuantityRequested,
		})
	}

	run := func() error {
		return uc.txRunner.RunLogistics(ctx, func(
			_ repository.MovementRepository,
			_ repository.StockRepository,
			_ repository.LotRepository,
			_ repository.ExpeditionRepository,
			_ repository.DeliveryRepository,
			requestRepo repository.SeedRequestRepository,
		) error {
			count, err := requestRepo.CountByYear(ctx, now.Year())
			if err != nil {
				return err
			}
			req.RequestNumber = fmt.Sprintf("SOL-%d-%05d", now.Year(), count+1)
			return requestRepo.Create(ctx, req)
		})
	}
	// Mesma disputa de número da expedição: quem perde a corrida reconta.
	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		if err = run(); !numberCollision(err, req.RequestNumber) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Cancel cancela a solicitação (somente pendente/analise).
func (uc *SeedRequestUseCase) Cancel(ctx context.Context, requestID string) (*entity.SeedRequest, error) {
	var cancelled *entity.SeedRequest
	err := uc.txRunner.RunLogistics(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		_ repository.LotRepository,
		_ repository.ExpeditionRepository,
		_ repository.DeliveryRepository,
		requestRepo repository.SeedRequestRepository,
	) error {
		req, err := requestRepo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return &domain.NotFoundError{Entity: "solicitação", ID: requestID}
		}
		if err := req.Cancel(); err != nil {
			return err
		}
		req.UpdatedAt = time.Now()
		if err := requestRepo.UpdateReview(ctx, req); err != nil {
			return err
		}
		cancelled = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// List lista solicitações com filtros opcionais de status e solicitante.
func (uc *SeedRequestUseCase) List(ctx context.Context, status, requesterID string, limit, offset int) ([]*entity.SeedRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.requestRepo.List(ctx, status, requesterID, limit, offset)
}

// GetByID devolve a solicitação com itens.
func (uc *SeedRequestUseCase) GetByID(ctx context.Context, requestID string) (*entity.SeedRequest, error) {
	req, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &domain.NotFoundError{Entity: "solicitação", ID: requestID}
	}
	return req, nil
}
