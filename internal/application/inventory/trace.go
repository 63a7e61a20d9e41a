package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// LotTraceUseCase monta a linha do tempo de rastreabilidade de um lote:
// movimentações e entregas mescladas em ordem cronológica.
type LotTraceUseCase struct {
	lotRepo      repository.LotRepository
	movementRepo repository.MovementRepository
	deliveryRepo repository.DeliveryRepository
	farmerRepo   repository.FarmerRepository
}

// NewLotTraceUseCase constrói o caso de uso (repositórios atados ao pool).
func NewLotTraceUseCase(
	lotRepo repository.LotRepository,
	movementRepo repository.MovementRepository,
	deliveryRepo repository.DeliveryRepository,
	farmerRepo repository.FarmerRepository,
) *LotTraceUseCase {
	return &LotTraceUseCase{
		lotRepo:      lotRepo,
		movementRepo: movementRepo,
		deliveryRepo: deliveryRepo,
		farmerRepo:   farmerRepo,
	}
}

// TraceEvent é um evento da linha do tempo do lote.
type TraceEvent struct {
	Date          time.Time
	Type          string // tipo do movimento, ou "entrega"
	OriginID      *string
	DestinationID *string
	Quantity      decimal.Decimal
	Actor         string
	FarmerName    string // só em entregas
	Notes         string
}

// TraceEventTypeEntrega marca eventos de entrega na linha do tempo.
const TraceEventTypeEntrega = "entrega"

// Trace devolve a linha do tempo completa do lote.
func (uc *LotTraceUseCase) Trace(ctx context.Context, lotID string) ([]TraceEvent, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, &domain.NotFoundError{Entity: "lote", ID: lotID}
	}

	movements, err := uc.movementRepo.ListByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	deliveries, err := uc.deliveryRepo.ListByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	events := make([]TraceEvent, 0, len(movements)+len(deliveries))
	for _, mov := range movements {
		events = append(events, TraceEvent{
			Date:          mov.CreatedAt,
			Type:          mov.Type,
			OriginID:      mov.WarehouseOriginID,
			DestinationID: mov.WarehouseDestinationID,
			Quantity:      mov.Quantity,
			Actor:         mov.CreatedBy,
			Notes:         mov.Notes,
		})
	}

	farmerNames := map[string]string{}
	for _, d := range deliveries {
		name, ok := farmerNames[d.FarmerID]
		if !ok {
			farmer, err := uc.farmerRepo.GetByID(ctx, d.FarmerID)
			if err != nil {
				return nil, err
			}
			if farmer != nil {
				name = farmer.Name
			}
			farmerNames[d.FarmerID] = name
		}
		events = append(events, TraceEvent{
			Date:       d.DeliveredAt,
			Type:       TraceEventTypeEntrega,
			Quantity:   d.Quantity,
			Actor:      d.DeliveredBy,
			FarmerName: name,
			Notes:      d.Notes,
		})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}
