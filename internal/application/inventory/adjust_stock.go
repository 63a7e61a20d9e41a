package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
	"github.com/ppmalta/AgroIPA/pkg/metrics"
)

// AdjustStockUseCase registra ajustes de inventário (contagem física,
// perda, avaria). O histórico nunca é editado: a correção entra como um novo
// movimento "ajuste" compensatório, positivo ou negativo.
type AdjustStockUseCase struct {
	txRunner TxRunner
	lowPct   int64
}

// NewAdjustStockUseCase constrói o caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, lowPct int64) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, lowPct: lowPct}
}

// AdjustInput entrada do ajuste. Delta positivo credita, negativo debita.
type AdjustInput struct {
	LotID       string
	WarehouseID string
	Delta       decimal.Decimal
	Reason      string
	ActorID     string
}

// Adjust aplica o delta na linha travada e registra o movimento de ajuste na
// mesma transação. Débito que zeraria abaixo de zero falha com estoque
// insuficiente, como qualquer saída.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, input AdjustInput) (*entity.Movement, error) {
	if input.Delta.IsZero() {
		return nil, &domain.ValidationError{Field: "delta", Reason: "não pode ser zero"}
	}
	if input.Reason == "" {
		return nil, &domain.ValidationError{Field: "reason", Reason: "obrigatório em ajustes"}
	}

	now := time.Now()
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		LotID:     input.LotID,
		Type:      entity.MovementTypeAjuste,
		Quantity:  input.Delta.Abs(),
		Notes:     input.Reason,
		CreatedBy: input.ActorID,
		CreatedAt: now,
	}
	// O sentido do ajuste fica no par origem/destino, a quantidade é sempre positiva.
	if input.Delta.IsNegative() {
		mov.WarehouseOriginID = strPtr(input.WarehouseID)
	} else {
		mov.WarehouseDestinationID = strPtr(input.WarehouseID)
	}
	if err := mov.Validate(); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		lotRepo repository.LotRepository,
	) error {
		lot, err := lotRepo.GetByID(ctx, input.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return &domain.NotFoundError{Entity: "lote", ID: input.LotID}
		}

		entry, err := stockRepo.GetForUpdate(ctx, input.WarehouseID, input.LotID)
		if err != nil {
			return err
		}
		if input.Delta.IsNegative() {
			if err := Debit(entry, input.Delta.Neg(), now); err != nil {
				metrics.InsufficientStockTotal.Inc()
				return err
			}
		} else {
			Credit(entry, input.Delta, now)
		}
		if err := stockRepo.Upsert(ctx, entry); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		return RefreshLotStatus(ctx, stockRepo, lotRepo, lot, now, uc.lowPct)
	})
	if err != nil {
		return nil, err
	}
	metrics.MovementsTotal.WithLabelValues(entity.MovementTypeAjuste).Inc()
	return mov, nil
}
