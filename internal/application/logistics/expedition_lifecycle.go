package logistics

import (
	"context"
	"time"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
	"github.com/ppmalta/AgroIPA/pkg/metrics"
)

// ExpeditionLifecycleUseCase cobre as transições que não mexem no ledger:
// preparar, concluir e cancelar. O embarque (que baixa estoque) fica no
// ShipExpeditionUseCase.
type ExpeditionLifecycleUseCase struct {
	txRunner TxRunner
}

// NewExpeditionLifecycleUseCase constrói o caso de uso.
func NewExpeditionLifecycleUseCase(txRunner TxRunner) *ExpeditionLifecycleUseCase {
	return &ExpeditionLifecycleUseCase{txRunner: txRunner}
}

// transition aplica uma transição simples de status sob lock da expedição.
func (uc *ExpeditionLifecycleUseCase) transition(ctx context.Context, expeditionID, to string, mutate func(exp *entity.Expedition, now time.Time)) (*entity.Expedition, error) {
	var result *entity.Expedition
	err := uc.txRunner.RunLogistics(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		_ repository.LotRepository,
		expRepo repository.ExpeditionRepository,
		_ repository.DeliveryRepository,
		_ repository.SeedRequestRepository,
	) error {
		exp, err := expRepo.GetForUpdate(ctx, expeditionID)
		if err != nil {
			return err
		}
		if exp == nil {
			return &domain.NotFoundError{Entity: "expedição", ID: expeditionID}
		}
		if err := exp.Transition(to); err != nil {
			return err
		}
		now := time.Now()
		if mutate != nil {
			mutate(exp, now)
		}
		exp.UpdatedAt = now
		if err := expRepo.UpdateStatus(ctx, exp); err != nil {
			return err
		}
		result = exp
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ExpeditionTransitionsTotal.WithLabelValues(to).Inc()
	return result, nil
}

// Prepare marca a expedição como em preparação (pendente -> preparando).
func (uc *ExpeditionLifecycleUseCase) Prepare(ctx context.Context, expeditionID string) (*entity.Expedition, error) {
	return uc.transition(ctx, expeditionID, entity.ExpeditionStatusPreparando, nil)
}

// Complete finaliza a expedição (transito -> entregue) e anexa o comprovante
// opcional. Não toca o ledger: o estoque já saiu no embarque.
func (uc *ExpeditionLifecycleUseCase) Complete(ctx context.Context, expeditionID, proofRef string) (*entity.Expedition, error) {
	return uc.transition(ctx, expeditionID, entity.ExpeditionStatusEntregue, func(exp *entity.Expedition, now time.Time) {
		exp.DeliveredAt = &now
		if proofRef != "" {
			exp.ProofRef = proofRef
		}
	})
}

// Cancel cancela a expedição antes de qualquer baixa de estoque
// (pendente/preparando apenas); não há compensação a fazer.
func (uc *ExpeditionLifecycleUseCase) Cancel(ctx context.Context, expeditionID string) (*entity.Expedition, error) {
	return uc.transition(ctx, expeditionID, entity.ExpeditionStatusCancelada, nil)
}
