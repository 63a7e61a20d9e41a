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

// CreateLotUseCase cria um lote com seu estoque inicial. Lote, linha de
// estoque no armazém de origem e movimento de entrada nascem na MESMA
// transação: ou os três efeitos acontecem, ou nenhum.
type CreateLotUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	speciesRepo   repository.SpeciesRepository
	supplierRepo  repository.SupplierRepository
	lowPct        int64
}

// NewCreateLotUseCase constrói o caso de uso.
func NewCreateLotUseCase(
	txRunner TxRunner,
	warehouseRepo repository.WarehouseRepository,
	speciesRepo repository.SpeciesRepository,
	supplierRepo repository.SupplierRepository,
	lowPct int64,
) *CreateLotUseCase {
	return &CreateLotUseCase{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		speciesRepo:   speciesRepo,
		supplierRepo:  supplierRepo,
		lowPct:        lowPct,
	}
}

// CreateLotInput entrada para a criação de lote.
type CreateLotInput struct {
	LotNumber       string
	SpeciesID       string
	SupplierID      string
	InitialQuantity decimal.Decimal
	ManufactureDate time.Time
	ExpiryDate      time.Time
	WarehouseID     string // armazém de origem do estoque inicial
	Notes           string
	ActorID         string
}

// CreateLot valida a entrada, confere os referentes e materializa lote +
// estoque + movimento de entrada atomicamente.
func (uc *CreateLotUseCase) CreateLot(ctx context.Context, input CreateLotInput) (*entity.Lot, error) {
	if input.LotNumber == "" {
		return nil, &domain.ValidationError{Field: "lot_number", Reason: "obrigatório"}
	}
	if !input.InitialQuantity.GreaterThan(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "initial_quantity", Reason: "deve ser positiva"}
	}
	if !input.ExpiryDate.After(input.ManufactureDate) {
		return nil, &domain.ValidationError{Field: "expiry_date", Reason: "deve ser posterior à fabricação"}
	}

	if species, err := uc.speciesRepo.GetByID(ctx, input.SpeciesID); err != nil {
		return nil, err
	} else if species == nil {
		return nil, &domain.NotFoundError{Entity: "espécie", ID: input.SpeciesID}
	}
	if supplier, err := uc.supplierRepo.GetByID(ctx, input.SupplierID); err != nil {
		return nil, err
	} else if supplier == nil {
		return nil, &domain.NotFoundError{Entity: "fornecedor", ID: input.SupplierID}
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, &domain.NotFoundError{Entity: "armazém", ID: input.WarehouseID}
	}

	now := time.Now()
	lot := &entity.Lot{
		ID:              uuid.New().String(),
		LotNumber:       input.LotNumber,
		SpeciesID:       input.SpeciesID,
		SupplierID:      input.SupplierID,
		InitialQuantity: input.InitialQuantity,
		ManufactureDate: input.ManufactureDate,
		ExpiryDate:      input.ExpiryDate,
		Status:          entity.LotStatusAtivo,
		Notes:           input.Notes,
		CreatedBy:       input.ActorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		lotRepo repository.LotRepository,
	) error {
		if err := lotRepo.Create(ctx, lot); err != nil {
			return err
		}
		// A linha recém-travada vem zerada; o crédito inicial a materializa.
		entry, err := stockRepo.GetForUpdate(ctx, input.WarehouseID, lot.ID)
		if err != nil {
			return err
		}
		Credit(entry, input.InitialQuantity, now)
		if err := stockRepo.Upsert(ctx, entry); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:                     uuid.New().String(),
			LotID:                  lot.ID,
			Type:                   entity.MovementTypeEntrada,
			Quantity:               input.InitialQuantity,
			WarehouseDestinationID: strPtr(input.WarehouseID),
			Reference:              "Entrada inicial - " + lot.LotNumber,
			CreatedBy:              input.ActorID,
			CreatedAt:              now,
		}
		if err := mov.Validate(); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		// Lote cadastrado com a validade já no passado nasce vencido.
		return RefreshLotStatus(ctx, stockRepo, lotRepo, lot, now, uc.lowPct)
	})
	if err != nil {
		return nil, err
	}
	metrics.MovementsTotal.WithLabelValues(entity.MovementTypeEntrada).Inc()
	return lot, nil
}

// RefreshStatus recalcula o status derivado sob demanda. A expiração por
// tempo não tem mutação de ledger que a dispare: um lote parado venceria sem
// nunca trocar de status.
func (uc *CreateLotUseCase) RefreshStatus(ctx context.Context, lotID string) (*entity.Lot, error) {
	var refreshed *entity.Lot
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		stockRepo repository.StockRepository,
		lotRepo repository.LotRepository,
	) error {
		lot, err := lotRepo.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return &domain.NotFoundError{Entity: "lote", ID: lotID}
		}
		if err := RefreshLotStatus(ctx, stockRepo, lotRepo, lot, time.Now(), uc.lowPct); err != nil {
			return err
		}
		refreshed = lot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refreshed, nil
}

// AdjustLotStatus muda o status manualmente (bloqueio/desbloqueio de lote).
// Só aceita valores conhecidos do enum.
func (uc *CreateLotUseCase) AdjustLotStatus(ctx context.Context, lotID, status string) error {
	if !entity.ValidLotStatus(status) {
		return &domain.ValidationError{Field: "status", Reason: "status de lote desconhecido"}
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		lotRepo repository.LotRepository,
	) error {
		lot, err := lotRepo.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return &domain.NotFoundError{Entity: "lote", ID: lotID}
		}
		return lotRepo.UpdateStatus(ctx, lotID, status)
	})
}
