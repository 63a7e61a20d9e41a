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

// CreateExpeditionUseCase monta uma expedição com seu manifesto de lotes.
// Criar não move estoque: a baixa só acontece no embarque.
type CreateExpeditionUseCase struct {
	txRunner         TxRunner
	warehouseRepo    repository.WarehouseRepository
	municipalityRepo repository.MunicipalityRepository
}

// NewCreateExpeditionUseCase constrói o caso de uso.
func NewCreateExpeditionUseCase(
	txRunner TxRunner,
	warehouseRepo repository.WarehouseRepository,
	municipalityRepo repository.MunicipalityRepository,
) *CreateExpeditionUseCase {
	return &CreateExpeditionUseCase{
		txRunner:         txRunner,
		warehouseRepo:    warehouseRepo,
		municipalityRepo: municipalityRepo,
	}
}

// ExpeditionItemInput item do manifesto na criação.
type ExpeditionItemInput struct {
	LotID    string
	Quantity decimal.Decimal
}

// CreateExpeditionInput entrada para a criação de expedição.
type CreateExpeditionInput struct {
	WarehouseOriginID string
	DestinationID     string
	SeedRequestID     *string
	ScheduledDate     time.Time
	VehiclePlate      string
	DriverName        string
	Notes             string
	Items             []ExpeditionItemInput
	ActorID           string
}

// Create valida os referentes, confere a autorização da solicitação
// vinculada (se houver) e persiste expedição + itens com número gerado.
func (uc *CreateExpeditionUseCase) Create(ctx context.Context, input CreateExpeditionInput) (*entity.Expedition, error) {
	if len(input.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "manifesto vazio"}
	}
	seen := map[string]bool{}
	for _, item := range input.Items {
		if !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, &domain.ValidationError{Field: "items.quantity", Reason: "deve ser positiva"}
		}
		if seen[item.LotID] {
			return nil, &domain.DuplicateKeyError{Entity: "item de expedição", Key: item.LotID}
		}
		seen[item.LotID] = true
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseOriginID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, &domain.NotFoundError{Entity: "armazém", ID: input.WarehouseOriginID}
	}
	municipality, err := uc.municipalityRepo.GetByID(ctx, input.DestinationID)
	if err != nil {
		return nil, err
	}
	if municipality == nil {
		return nil, &domain.NotFoundError{Entity: "município", ID: input.DestinationID}
	}

	now := time.Now()
	exp := &entity.Expedition{
		ID:                uuid.New().String(),
		WarehouseOriginID: input.WarehouseOriginID,
		DestinationID:     input.DestinationID,
		SeedRequestID:     input.SeedRequestID,
		Status:            entity.ExpeditionStatusPendente,
		ScheduledDate:     input.ScheduledDate,
		VehiclePlate:      input.VehiclePlate,
		DriverName:        input.DriverName,
		Notes:             input.Notes,
		CreatedBy:         input.ActorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, item := range input.Items {
		exp.Items = append(exp.Items, entity.ExpeditionItem{
			ExpeditionID: exp.ID,
			LotID:        item.LotID,
			Quantity:     item.Quantity,
		})
	}

	run := func() error {
		return uc.txRunner.RunLogistics(ctx, func(
			_ repository.MovementRepository,
			_ repository.StockRepository,
			lotRepo repository.LotRepository,
			expRepo repository.ExpeditionRepository,
			_ repository.DeliveryRepository,
			requestRepo repository.SeedRequestRepository,
		) error {
			// A solicitação vinculada precisa estar aprovada (total ou
			// parcial): a análise é o portão de criação de expedições.
			if input.SeedRequestID != nil {
				req, err := requestRepo.GetByID(ctx, *input.SeedRequestID)
				if err != nil {
					return err
				}
				if req == nil {
					return &domain.NotFoundError{Entity: "solicitação", ID: *input.SeedRequestID}
				}
				if !req.Approvable() {
					return &domain.InvalidTransitionError{Entity: "solicitação", From: req.Status, To: "expedição"}
				}
			}
			for _, item := range exp.Items {
				lot, err := lotRepo.GetByID(ctx, item.LotID)
				if err != nil {
					return err
				}
				if lot == nil {
					return &domain.NotFoundError{Entity: "lote", ID: item.LotID}
				}
			}
			count, err := expRepo.CountByYear(ctx, now.Year())
			if err != nil {
				return err
			}
			exp.ExpeditionNumber = fmt.Sprintf("EXP-%d-%05d", now.Year(), count+1)
			return expRepo.Create(ctx, exp)
		})
	}
	// Duas criações concorrentes podem contar o mesmo ano e disputar o mesmo
	// número; o perdedor recomeça com a contagem já incluindo o vencedor.
	for attempt := 0; attempt < numberAttempts; attempt++ {
		if err = run(); !numberCollision(err, exp.ExpeditionNumber) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return exp, nil
}
