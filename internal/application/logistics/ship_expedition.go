package logistics

import (
	"context"
	"time"

	"github.com/google/uuid"

	appinventory "github.com/ppmalta/AgroIPA/internal/application/inventory"
	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
	"github.com/ppmalta/AgroIPA/pkg/metrics"
)

// ShipExpeditionUseCase executa o embarque: baixa o estoque de TODOS os itens
// do manifesto e muda o status para transito — tudo ou nada. Se um único lote
// estiver sem saldo, nenhum débito é aplicado.
type ShipExpeditionUseCase struct {
	txRunner TxRunner
	lowPct   int64
}

// NewShipExpeditionUseCase constrói o caso de uso.
func NewShipExpeditionUseCase(txRunner TxRunner, lowPct int64) *ShipExpeditionUseCase {
	return &ShipExpeditionUseCase{txRunner: txRunner, lowPct: lowPct}
}

// Ship trava a expedição e todas as chaves de estoque dos itens (em ordem
// global), verifica a suficiência de todos ANTES de debitar, e só então
// aplica os débitos, grava um movimento de saída por item e marca transito.
func (uc *ShipExpeditionUseCase) Ship(ctx context.Context, expeditionID, actorID string) (*entity.Expedition, error) {
	var shipped *entity.Expedition
	err := uc.txRunner.RunLogistics(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		lotRepo repository.LotRepository,
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
		if err := exp.Transition(entity.ExpeditionStatusTransito); err != nil {
			return err
		}
		if len(exp.Items) == 0 {
			return &domain.ValidationError{Field: "items", Reason: "expedição sem itens"}
		}

		keys := make([]entity.StockKey, 0, len(exp.Items))
		for _, item := range exp.Items {
			keys = append(keys, entity.StockKey{WarehouseID: exp.WarehouseOriginID, LotID: item.LotID})
		}
		entries, err := appinventory.LockEntries(ctx, stockRepo, keys)
		if err != nil {
			return err
		}

		// Primeiro passe: com todas as linhas travadas, verificar suficiência
		// do manifesto inteiro antes de tocar qualquer quantidade.
		for _, item := range exp.Items {
			k := entity.StockKey{WarehouseID: exp.WarehouseOriginID, LotID: item.LotID}
			if entries[k].Quantity.LessThan(item.Quantity) {
				metrics.InsufficientStockTotal.Inc()
				return &domain.InsufficientStockError{
					WarehouseID: exp.WarehouseOriginID,
					LotID:       item.LotID,
					Available:   entries[k].Quantity,
					Requested:   item.Quantity,
				}
			}
		}

		now := time.Now()
		for _, item := range exp.Items {
			k := entity.StockKey{WarehouseID: exp.WarehouseOriginID, LotID: item.LotID}
			if err := appinventory.Debit(entries[k], item.Quantity, now); err != nil {
				return err
			}
			if err := stockRepo.Upsert(ctx, entries[k]); err != nil {
				return err
			}
			origin := exp.WarehouseOriginID
			mov := &entity.Movement{
				ID:                uuid.New().String(),
				LotID:             item.LotID,
				Type:              entity.MovementTypeSaida,
				Quantity:          item.Quantity,
				WarehouseOriginID: &origin,
				Reference:         "Expedição " + exp.ExpeditionNumber,
				CreatedBy:         actorID,
				CreatedAt:         now,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			lot, err := lotRepo.GetByID(ctx, item.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return &domain.NotFoundError{Entity: "lote", ID: item.LotID}
			}
			if err := appinventory.RefreshLotStatus(ctx, stockRepo, lotRepo, lot, now, uc.lowPct); err != nil {
				return err
			}
		}

		exp.ShippedAt = &now
		exp.UpdatedAt = now
		if err := expRepo.UpdateStatus(ctx, exp); err != nil {
			return err
		}
		shipped = exp
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.MovementsTotal.WithLabelValues(entity.MovementTypeSaida).Add(float64(len(shipped.Items)))
	metrics.ExpeditionTransitionsTotal.WithLabelValues(entity.ExpeditionStatusTransito).Inc()
	return shipped, nil
}
