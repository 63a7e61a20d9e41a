package repository

import (
	"context"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// Portos dos cadastros de apoio (referentes do núcleo).

type SpeciesRepository interface {
	Create(ctx context.Context, species *entity.Species) error
	GetByID(ctx context.Context, id string) (*entity.Species, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.Species, error)
}

type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.Supplier, error)
}

type MunicipalityRepository interface {
	Create(ctx context.Context, municipality *entity.Municipality) error
	GetByID(ctx context.Context, id string) (*entity.Municipality, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.Municipality, error)
}

type FarmerRepository interface {
	Create(ctx context.Context, farmer *entity.Farmer) error
	GetByID(ctx context.Context, id string) (*entity.Farmer, error)
	List(ctx context.Context, municipalityID string, onlyActive bool) ([]*entity.Farmer, error)
}
