package logistics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/rs/zerolog"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// RecordDeliveryUseCase registra a entrega final a um agricultor. Aditivo:
// não toca o ledger (o estoque saiu no embarque). Entregas acima do
// manifesto são permitidas — entregas parciais e repetidas existem no mundo
// real — mas vêm sinalizadas para auditoria.
type RecordDeliveryUseCase struct {
	txRunner     TxRunner
	farmerRepo   repository.FarmerRepository
	deliveryRepo repository.DeliveryRepository // atado ao pool, para consultas
	log          zerolog.Logger
}

// NewRecordDeliveryUseCase constrói o caso de uso.
func NewRecordDeliveryUseCase(txRunner TxRunner, farmerRepo repository.FarmerRepository, deliveryRepo repository.DeliveryRepository, log zerolog.Logger) *RecordDeliveryUseCase {
	return &RecordDeliveryUseCase{txRunner: txRunner, farmerRepo: farmerRepo, deliveryRepo: deliveryRepo, log: log}
}

// DeliveryInput entrada para o registro de entrega.
type DeliveryInput struct {
	ExpeditionID string
	LotID        string
	FarmerID     string
	Quantity     decimal.Decimal
	DeliveredAt  time.Time
	Notes        string
	ActorID      string
}

// DeliveryResult é a entrega gravada mais o aviso de manifesto excedido.
type DeliveryResult struct {
	Delivery     *entity.Delivery
	OverManifest bool // total entregue do item passou da quantidade embarcada
}

// Record valida o estado da expedição (transito ou entregue — entregas podem
// pingar depois da conclusão), exige que o lote esteja no manifesto e grava a
// entrega. Excesso sobre o manifesto é sinalizado, nunca rejeitado.
func (uc *RecordDeliveryUseCase) Record(ctx context.Context, input DeliveryInput) (*DeliveryResult, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "deve ser positiva"}
	}
	if input.DeliveredAt.IsZero() {
		return nil, &domain.ValidationError{Field: "delivered_at", Reason: "obrigatório"}
	}
	farmer, err := uc.farmerRepo.GetByID(ctx, input.FarmerID)
	if err != nil {
		return nil, err
	}
	if farmer == nil {
		return nil, &domain.NotFoundError{Entity: "agricultor", ID: input.FarmerID}
	}

	result := &DeliveryResult{}
	err = uc.txRunner.RunLogistics(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		_ repository.LotRepository,
		expRepo repository.ExpeditionRepository,
		deliveryRepo repository.DeliveryRepository,
		_ repository.SeedRequestRepository,
	) error {
		exp, err := expRepo.GetByID(ctx, input.ExpeditionID)
		if err != nil {
			return err
		}
		if exp == nil {
			return &domain.NotFoundError{Entity: "expedição", ID: input.ExpeditionID}
		}
		if exp.Status != entity.ExpeditionStatusTransito && exp.Status != entity.ExpeditionStatusEntregue {
			return &domain.InvalidTransitionError{Entity: "expedição", From: exp.Status, To: "entrega"}
		}

		var manifest *entity.ExpeditionItem
		for i := range exp.Items {
			if exp.Items[i].LotID == input.LotID {
				manifest = &exp.Items[i]
				break
			}
		}
		if manifest == nil {
			return &domain.NotFoundError{Entity: "item de expedição", ID: input.LotID}
		}

		delivery := &entity.Delivery{
			ID:           uuid.New().String(),
			ExpeditionID: input.ExpeditionID,
			LotID:        input.LotID,
			FarmerID:     input.FarmerID,
			Quantity:     input.Quantity,
			DeliveredAt:  input.DeliveredAt,
			DeliveredBy:  input.ActorID,
			Notes:        input.Notes,
			CreatedAt:    time.Now(),
		}
		if err := deliveryRepo.Create(ctx, delivery); err != nil {
			return err
		}

		delivered, err := deliveryRepo.SumByExpeditionItem(ctx, input.ExpeditionID, input.LotID)
		if err != nil {
			return err
		}
		if delivered.GreaterThan(manifest.Quantity) {
			result.OverManifest = true
			uc.log.Warn().
				Str("expedition_id", input.ExpeditionID).
				Str("lot_id", input.LotID).
				Str("delivered_total", delivered.String()).
				Str("manifest_quantity", manifest.Quantity.String()).
				Msg("entregas acima da quantidade embarcada")
		}
		result.Delivery = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Stats agrega totais de entrega no período.
func (uc *RecordDeliveryUseCase) Stats(ctx context.Context, from, to *time.Time) (*repository.DeliveryStats, error) {
	return uc.deliveryRepo.Stats(ctx, from, to)
}

// ListByExpedition lista as entregas de uma expedição.
func (uc *RecordDeliveryUseCase) ListByExpedition(ctx context.Context, expeditionID string) ([]*entity.Delivery, error) {
	return uc.deliveryRepo.ListByExpedition(ctx, expeditionID)
}
