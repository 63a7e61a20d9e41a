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

// TransferStockUseCase move quantidade de um lote entre armazéns como uma
// unidade atômica balanceada: débito na origem, crédito no destino e um único
// movimento de transferência — ninguém observa a transferência pela metade.
type TransferStockUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	lowPct        int64
}

// NewTransferStockUseCase constrói o caso de uso.
func NewTransferStockUseCase(txRunner TxRunner, warehouseRepo repository.WarehouseRepository, lowPct int64) *TransferStockUseCase {
	return &TransferStockUseCase{txRunner: txRunner, warehouseRepo: warehouseRepo, lowPct: lowPct}
}

// TransferInput entrada para a transferência entre armazéns.
type TransferInput struct {
	LotID           string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Notes           string
	ActorID         string
}

// Transfer valida, trava as duas chaves em ordem global, debita a origem,
// credita o destino e registra o movimento. Falha de qualquer passo desfaz
// tudo (rollback da transação).
func (uc *TransferStockUseCase) Transfer(ctx context.Context, input TransferInput) (*entity.Movement, error) {
	if input.FromWarehouseID == input.ToWarehouseID {
		return nil, &domain.ValidationError{Field: "to_warehouse_id", Reason: "origem e destino devem ser diferentes"}
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "deve ser positiva"}
	}
	for _, id := range []string{input.FromWarehouseID, input.ToWarehouseID} {
		wh, err := uc.warehouseRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, &domain.NotFoundError{Entity: "armazém", ID: id}
		}
	}

	now := time.Now()
	mov := &entity.Movement{
		ID:                     uuid.New().String(),
		LotID:                  input.LotID,
		Type:                   entity.MovementTypeTransferencia,
		Quantity:               input.Quantity,
		WarehouseOriginID:      strPtr(input.FromWarehouseID),
		WarehouseDestinationID: strPtr(input.ToWarehouseID),
		Notes:                  input.Notes,
		CreatedBy:              input.ActorID,
		CreatedAt:              now,
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

		fromKey := entity.StockKey{WarehouseID: input.FromWarehouseID, LotID: input.LotID}
		toKey := entity.StockKey{WarehouseID: input.ToWarehouseID, LotID: input.LotID}
		entries, err := LockEntries(ctx, stockRepo, []entity.StockKey{fromKey, toKey})
		if err != nil {
			return err
		}

		if err := Debit(entries[fromKey], input.Quantity, now); err != nil {
			metrics.InsufficientStockTotal.Inc()
			return err
		}
		Credit(entries[toKey], input.Quantity, now)

		if err := stockRepo.Upsert(ctx, entries[fromKey]); err != nil {
			return err
		}
		if err := stockRepo.Upsert(ctx, entries[toKey]); err != nil {
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
	metrics.MovementsTotal.WithLabelValues(entity.MovementTypeTransferencia).Inc()
	return mov, nil
}
