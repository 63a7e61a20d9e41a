package logistics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// ReviewRequestUseCase executa a análise de solicitações. A decisão é um
// sinal de autorização puro: nunca toca o ledger nem cria expedições.
// Re-analisar uma solicitação já decidida sobrescreve decisão, avaliador e
// data (idempotência por sobrescrita).
type ReviewRequestUseCase struct {
	txRunner TxRunner
}

// NewReviewRequestUseCase constrói o caso de uso.
func NewReviewRequestUseCase(txRunner TxRunner) *ReviewRequestUseCase {
	return &ReviewRequestUseCase{txRunner: txRunner}
}

// ReviewInput entrada da análise. Approvals é exigido na decisão parcial:
// mapa espécie -> quantidade aprovada; itens omitidos ficam sem aprovação
// (zero). Em aprovada as quantidades solicitadas são copiadas; em rejeitada
// as aprovações são limpas.
type ReviewInput struct {
	RequestID   string
	Decision    string // aprovada | parcial | rejeitada
	ReviewNotes string
	Approvals   map[string]decimal.Decimal
	ReviewerID  string
}

// StartReview move a solicitação para análise (pendente -> analise).
func (uc *ReviewRequestUseCase) StartReview(ctx context.Context, requestID, reviewerID string) (*entity.SeedRequest, error) {
	var reviewed *entity.SeedRequest
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
		if req.Status != entity.RequestStatusPendente {
			return &domain.InvalidTransitionError{Entity: "solicitação", From: req.Status, To: entity.RequestStatusAnalise}
		}
		req.Status = entity.RequestStatusAnalise
		req.ReviewerID = &reviewerID
		req.UpdatedAt = time.Now()
		if err := requestRepo.UpdateReview(ctx, req); err != nil {
			return err
		}
		reviewed = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

// Review aplica a decisão sobre a solicitação e as quantidades aprovadas dos
// itens, tudo na mesma transação.
func (uc *ReviewRequestUseCase) Review(ctx context.Context, input ReviewInput) (*entity.SeedRequest, error) {
	if !entity.ValidReviewDecision(input.Decision) {
		return nil, &domain.ValidationError{Field: "decision", Reason: "decisão desconhecida"}
	}
	if input.Decision == entity.RequestStatusParcial && len(input.Approvals) == 0 {
		return nil, &domain.ValidationError{Field: "approvals", Reason: "decisão parcial exige quantidades por item"}
	}
	for speciesID, qty := range input.Approvals {
		if qty.IsNegative() {
			return nil, &domain.ValidationError{Field: "approvals." + speciesID, Reason: "não pode ser negativa"}
		}
	}

	var reviewed *entity.SeedRequest
	err := uc.txRunner.RunLogistics(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		_ repository.LotRepository,
		_ repository.ExpeditionRepository,
		_ repository.DeliveryRepository,
		requestRepo repository.SeedRequestRepository,
	) error {
		req, err := requestRepo.GetForUpdate(ctx, input.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return &domain.NotFoundError{Entity: "solicitação", ID: input.RequestID}
		}
		if !req.Reviewable() {
			return &domain.InvalidTransitionError{Entity: "solicitação", From: req.Status, To: input.Decision}
		}

		now := time.Now()
		req.Status = input.Decision
		req.ReviewerID = &input.ReviewerID
		req.ReviewNotes = input.ReviewNotes
		req.ReviewedAt = &now
		req.UpdatedAt = now

		for i := range req.Items {
			item := &req.Items[i]
			switch input.Decision {
			case entity.RequestStatusAprovada:
				approved := item.QuantityRequested
				item.QuantityApproved = &approved
			case entity.RequestStatusParcial:
				if qty, ok := input.Approvals[item.SpeciesID]; ok {
					approved := qty
					item.QuantityApproved = &approved
				} else {
					// Item omitido na decisão parcial fica sem aprovação.
					zero := decimal.Zero
					item.QuantityApproved = &zero
				}
			case entity.RequestStatusRejeitada:
				item.QuantityApproved = nil
			}
			if err := requestRepo.UpdateItemApproval(ctx, item); err != nil {
				return err
			}
		}

		if err := requestRepo.UpdateReview(ctx, req); err != nil {
			return err
		}
		reviewed = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}
