package memory

import (
	"context"
	"sort"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// Repositórios dos cadastros de apoio. Cadastros não participam das
// transações do ledger: escrevem direto no estado confirmado, sob s.mu.

// WarehouseRepo implementa repository.WarehouseRepository.
type WarehouseRepo struct {
	store *Store
}

func NewWarehouseRepo(store *Store) *WarehouseRepo {
	return &WarehouseRepo{store: store}
}

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, w := range r.store.warehouses {
		if w.Code == warehouse.Code {
			return &domain.DuplicateKeyError{Entity: "armazém", Key: warehouse.Code}
		}
	}
	r.store.warehouses[warehouse.ID] = cloneWarehouse(*warehouse)
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	out := cloneWarehouse(w)
	return &out, nil
}

func (r *WarehouseRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Warehouse
	for _, w := range r.store.warehouses {
		if onlyActive && !w.IsActive {
			continue
		}
		wc := cloneWarehouse(w)
		out = append(out, &wc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SpeciesRepo implementa repository.SpeciesRepository.
type SpeciesRepo struct {
	store *Store
}

func NewSpeciesRepo(store *Store) *SpeciesRepo {
	return &SpeciesRepo{store: store}
}

var _ repository.SpeciesRepository = (*SpeciesRepo)(nil)

func (r *SpeciesRepo) Create(ctx context.Context, species *entity.Species) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.species {
		if s.Name == species.Name {
			return &domain.DuplicateKeyError{Entity: "espécie", Key: species.Name}
		}
	}
	r.store.species[species.ID] = *species
	return nil
}

func (r *SpeciesRepo) GetByID(ctx context.Context, id string) (*entity.Species, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.species[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SpeciesRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Species, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Species
	for _, s := range r.store.species {
		if onlyActive && !s.IsActive {
			continue
		}
		sc := s
		out = append(out, &sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct {
	store *Store
}

func NewSupplierRepo(store *Store) *SupplierRepo {
	return &SupplierRepo{store: store}
}

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.suppliers {
		if supplier.CNPJ != "" && s.CNPJ == supplier.CNPJ {
			return &domain.DuplicateKeyError{Entity: "fornecedor", Key: supplier.CNPJ}
		}
	}
	r.store.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SupplierRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Supplier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Supplier
	for _, s := range r.store.suppliers {
		if onlyActive && !s.IsActive {
			continue
		}
		sc := s
		out = append(out, &sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MunicipalityRepo implementa repository.MunicipalityRepository.
type MunicipalityRepo struct {
	store *Store
}

func NewMunicipalityRepo(store *Store) *MunicipalityRepo {
	return &MunicipalityRepo{store: store}
}

var _ repository.MunicipalityRepository = (*MunicipalityRepo)(nil)

func (r *MunicipalityRepo) Create(ctx context.Context, municipality *entity.Municipality) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.municipalities {
		if m.CodeIBGE == municipality.CodeIBGE {
			return &domain.DuplicateKeyError{Entity: "município", Key: municipality.CodeIBGE}
		}
	}
	r.store.municipalities[municipality.ID] = *municipality
	return nil
}

func (r *MunicipalityRepo) GetByID(ctx context.Context, id string) (*entity.Municipality, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.municipalities[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MunicipalityRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Municipality, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Municipality
	for _, m := range r.store.municipalities {
		if onlyActive && !m.IsActive {
			continue
		}
		mc := m
		out = append(out, &mc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FarmerRepo implementa repository.FarmerRepository.
type FarmerRepo struct {
	store *Store
}

func NewFarmerRepo(store *Store) *FarmerRepo {
	return &FarmerRepo{store: store}
}

var _ repository.FarmerRepository = (*FarmerRepo)(nil)

func (r *FarmerRepo) Create(ctx context.Context, farmer *entity.Farmer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, f := range r.store.farmers {
		if farmer.CPF != "" && f.CPF == farmer.CPF {
			return &domain.DuplicateKeyError{Entity: "agricultor", Key: farmer.CPF}
		}
	}
	r.store.farmers[farmer.ID] = cloneFarmer(*farmer)
	return nil
}

func (r *FarmerRepo) GetByID(ctx context.Context, id string) (*entity.Farmer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.farmers[id]
	if !ok {
		return nil, nil
	}
	out := cloneFarmer(f)
	return &out, nil
}

func (r *FarmerRepo) List(ctx context.Context, municipalityID string, onlyActive bool) ([]*entity.Farmer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Farmer
	for _, f := range r.store.farmers {
		if municipalityID != "" && f.MunicipalityID != municipalityID {
			continue
		}
		if onlyActive && !f.IsActive {
			continue
		}
		fc := cloneFarmer(f)
		out = append(out, &fc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
