package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// DeliveryStats agrega totais de entregas para relatórios.
type DeliveryStats struct {
	TotalQuantity   decimal.Decimal
	TotalDeliveries int
	TotalFarmers    int
}

// DeliveryRepository define o porto de persistência para entregas (aditivo).
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.Delivery) error
	ListByExpedition(ctx context.Context, expeditionID string) ([]*entity.Delivery, error)
	ListByLot(ctx context.Context, lotID string) ([]*entity.Delivery, error)
	// SumByExpeditionItem soma o já entregue de um lote em uma expedição
	// (base do aviso de entrega acima do manifesto).
	SumByExpeditionItem(ctx context.Context, expeditionID, lotID string) (decimal.Decimal, error)
	Stats(ctx context.Context, from, to *time.Time) (*DeliveryStats, error)
}
