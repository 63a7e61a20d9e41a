// Package catalog cobre os cadastros de apoio do programa: armazéns,
// espécies, fornecedores, municípios e agricultores. Sem transação: cada
// cadastro é uma escrita simples com validação.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// UseCase agrega os repositórios dos cadastros.
type UseCase struct {
	warehouseRepo    repository.WarehouseRepository
	speciesRepo      repository.SpeciesRepository
	supplierRepo     repository.SupplierRepository
	municipalityRepo repository.MunicipalityRepository
	farmerRepo       repository.FarmerRepository
}

// New constrói o caso de uso dos cadastros.
func New(
	warehouseRepo repository.WarehouseRepository,
	speciesRepo repository.SpeciesRepository,
	supplierRepo repository.SupplierRepository,
	municipalityRepo repository.MunicipalityRepository,
	farmerRepo repository.FarmerRepository,
) *UseCase {
	return &UseCase{
		warehouseRepo:    warehouseRepo,
		speciesRepo:      speciesRepo,
		supplierRepo:     supplierRepo,
		municipalityRepo: municipalityRepo,
		farmerRepo:       farmerRepo,
	}
}

// CreateWarehouseInput entrada do cadastro de armazém.
type CreateWarehouseInput struct {
	Name           string
	Code           string
	Address        string
	MunicipalityID string
	Capacity       decimal.Decimal
	ManagerID      *string
}

// CreateWarehouse valida e persiste o armazém.
func (uc *UseCase) CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*entity.Warehouse, error) {
	if input.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "obrigatório"}
	}
	if input.Code == "" {
		return nil, &domain.ValidationError{Field: "code", Reason: "obrigatório"}
	}
	if input.Capacity.IsNegative() {
		return nil, &domain.ValidationError{Field: "capacity", Reason: "não pode ser negativa"}
	}
	if input.MunicipalityID != "" {
		m, err := uc.municipalityRepo.GetByID(ctx, input.MunicipalityID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, &domain.NotFoundError{Entity: "município", ID: input.MunicipalityID}
		}
	}
	now := time.Now()
	wh := &entity.Warehouse{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Code:           input.Code,
		Address:        input.Address,
		MunicipalityID: input.MunicipalityID,
		Capacity:       input.Capacity,
		ManagerID:      input.ManagerID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.warehouseRepo.Create(ctx, wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// GetWarehouse devolve o armazém por ID.
func (uc *UseCase) GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	wh, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, &domain.NotFoundError{Entity: "armazém", ID: id}
	}
	return wh, nil
}

// ListWarehouses lista armazéns.
func (uc *UseCase) ListWarehouses(ctx context.Context, onlyActive bool) ([]*entity.Warehouse, error) {
	return uc.warehouseRepo.List(ctx, onlyActive)
}

// CreateSpecies valida e persiste a espécie (unidade padrão kg).
func (uc *UseCase) CreateSpecies(ctx context.Context, species *entity.Species) (*entity.Species, error) {
	if species.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "obrigatório"}
	}
	if species.Unit == "" {
		species.Unit = "kg"
	}
	species.ID = uuid.New().String()
	species.IsActive = true
	species.CreatedAt = time.Now()
	if err := uc.speciesRepo.Create(ctx, species); err != nil {
		return nil, err
	}
	return species, nil
}

// ListSpecies lista espécies.
func (uc *UseCase) ListSpecies(ctx context.Context, onlyActive bool) ([]*entity.Species, error) {
	return uc.speciesRepo.List(ctx, onlyActive)
}

// CreateSupplier valida e persiste o fornecedor.
func (uc *UseCase) CreateSupplier(ctx context.Context, supplier *entity.Supplier) (*entity.Supplier, error) {
	if supplier.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "obrigatório"}
	}
	now := time.Now()
	supplier.ID = uuid.New().String()
	supplier.IsActive = true
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	if err := uc.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// ListSuppliers lista fornecedores.
func (uc *UseCase) ListSuppliers(ctx context.Context, onlyActive bool) ([]*entity.Supplier, error) {
	return uc.supplierRepo.List(ctx, onlyActive)
}

// CreateMunicipality valida e persiste o município.
func (uc *UseCase) CreateMunicipality(ctx context.Context, municipality *entity.Municipality) (*entity.Municipality, error) {
	if municipality.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "obrigatório"}
	}
	if municipality.CodeIBGE == "" {
		return nil, &domain.ValidationError{Field: "code_ibge", Reason: "obrigatório"}
	}
	municipality.ID = uuid.New().String()
	municipality.IsActive = true
	if err := uc.municipalityRepo.Create(ctx, municipality); err != nil {
		return nil, err
	}
	return municipality, nil
}

// ListMunicipalities lista municípios.
func (uc *UseCase) ListMunicipalities(ctx context.Context, onlyActive bool) ([]*entity.Municipality, error) {
	return uc.municipalityRepo.List(ctx, onlyActive)
}

// CreateFarmer valida o município do agricultor e persiste o cadastro.
func (uc *UseCase) CreateFarmer(ctx context.Context, farmer *entity.Farmer) (*entity.Farmer, error) {
	if farmer.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "obrigatório"}
	}
	if farmer.MunicipalityID != "" {
		m, err := uc.municipalityRepo.GetByID(ctx, farmer.MunicipalityID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, &domain.NotFoundError{Entity: "município", ID: farmer.MunicipalityID}
		}
	}
	now := time.Now()
	farmer.ID = uuid.New().String()
	farmer.IsActive = true
	farmer.CreatedAt = now
	farmer.UpdatedAt = now
	if err := uc.farmerRepo.Create(ctx, farmer); err != nil {
		return nil, err
	}
	return farmer, nil
}

// ListFarmers lista agricultores, com filtro opcional de município.
func (uc *UseCase) ListFarmers(ctx context.Context, municipalityID string, onlyActive bool) ([]*entity.Farmer, error) {
	return uc.farmerRepo.List(ctx, municipalityID, onlyActive)
}
