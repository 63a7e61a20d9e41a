package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// Adaptadores dos cadastros de apoio (espécies, fornecedores, municípios,
// agricultores).

var _ repository.SpeciesRepository = (*SpeciesRepo)(nil)

// SpeciesRepo implementação de SpeciesRepository sobre PostgreSQL.
type SpeciesRepo struct {
	q Querier
}

func NewSpeciesRepository(q Querier) *SpeciesRepo {
	return &SpeciesRepo{q: q}
}

func (r *SpeciesRepo) Create(ctx context.Context, species *entity.Species) error {
	query := `
		INSERT INTO species (id, name, scientific_name, description, unit, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		species.ID, species.Name, species.ScientificName, species.Description,
		species.Unit, species.IsActive, species.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateKeyError{Entity: "espécie", Key: species.Name}
		}
		return fmt.Errorf("create species: %w", err)
	}
	return nil
}

func (r *SpeciesRepo) GetByID(ctx context.Context, id string) (*entity.Species, error) {
	query := `
		SELECT id, name, scientific_name, description, unit, is_active, created_at
		FROM species WHERE id = $1`
	var s entity.Species
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.ScientificName, &s.Description, &s.Unit, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get species: %w", err)
	}
	return &s, nil
}

func (r *SpeciesRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Species, error) {
	query := `
		SELECT id, name, scientific_name, description, unit, is_active, created_at
		FROM species`
	if onlyActive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	defer rows.Close()
	var list []*entity.Species
	for rows.Next() {
		var s entity.Species
		if err := rows.Scan(&s.ID, &s.Name, &s.ScientificName, &s.Description, &s.Unit, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan species: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementação de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, name, cnpj, address, phone, email, contact_name, is_active, created_at, updated_at`

func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		supplier.ID, supplier.Name, supplier.CNPJ, supplier.Address, supplier.Phone,
		supplier.Email, supplier.ContactName, supplier.IsActive, supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateKeyError{Entity: "fornecedor", Key: supplier.CNPJ}
		}
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.CNPJ, &s.Address, &s.Phone,
		&s.Email, &s.ContactName, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	if onlyActive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(
			&s.ID, &s.Name, &s.CNPJ, &s.Address, &s.Phone,
			&s.Email, &s.ContactName, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

var _ repository.MunicipalityRepository = (*MunicipalityRepo)(nil)

// MunicipalityRepo implementação de MunicipalityRepository sobre PostgreSQL.
type MunicipalityRepo struct {
	q Querier
}

func NewMunicipalityRepository(q Querier) *MunicipalityRepo {
	return &MunicipalityRepo{q: q}
}

func (r *MunicipalityRepo) Create(ctx context.Context, municipality *entity.Municipality) error {
	query := `
		INSERT INTO municipalities (id, name, code_ibge, state, is_active)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		municipality.ID, municipality.Name, municipality.CodeIBGE,
		municipality.State, municipality.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateKeyError{Entity: "município", Key: municipality.CodeIBGE}
		}
		return fmt.Errorf("create municipality: %w", err)
	}
	return nil
}

func (r *MunicipalityRepo) GetByID(ctx context.Context, id string) (*entity.Municipality, error) {
	query := `SELECT id, name, code_ibge, state, is_active FROM municipalities WHERE id = $1`
	var m entity.Municipality
	err := r.q.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.CodeIBGE, &m.State, &m.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get municipality: %w", err)
	}
	return &m, nil
}

func (r *MunicipalityRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Municipality, error) {
	query := `SELECT id, name, code_ibge, state, is_active FROM municipalities`
	if onlyActive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list municipalities: %w", err)
	}
	defer rows.Close()
	var list []*entity.Municipality
	for rows.Next() {
		var m entity.Municipality
		if err := rows.Scan(&m.ID, &m.Name, &m.CodeIBGE, &m.State, &m.IsActive); err != nil {
			return nil, fmt.Errorf("scan municipality: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

var _ repository.FarmerRepository = (*FarmerRepo)(nil)

// FarmerRepo implementação de FarmerRepository sobre PostgreSQL.
type FarmerRepo struct {
	q Querier
}

func NewFarmerRepository(q Querier) *FarmerRepo {
	return &FarmerRepo{q: q}
}

const farmerColumns = `id, name, cpf, phone, address, municipality_id, dap_number, organization_id, is_active, created_at, updated_at`

func (r *FarmerRepo) Create(ctx context.Context, farmer *entity.Farmer) error {
	query := `
		INSERT INTO farmers (` + farmerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		farmer.ID, farmer.Name, farmer.CPF, farmer.Phone, farmer.Address,
		farmer.MunicipalityID, farmer.DAPNumber, farmer.OrganizationID,
		farmer.IsActive, farmer.CreatedAt, farmer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateKeyError{Entity: "agricultor", Key: farmer.CPF}
		}
		return fmt.Errorf("create farmer: %w", err)
	}
	return nil
}

func (r *FarmerRepo) GetByID(ctx context.Context, id string) (*entity.Farmer, error) {
	query := `SELECT ` + farmerColumns + ` FROM farmers WHERE id = $1`
	var f entity.Farmer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.CPF, &f.Phone, &f.Address,
		&f.MunicipalityID, &f.DAPNumber, &f.OrganizationID,
		&f.IsActive, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get farmer: %w", err)
	}
	return &f, nil
}

func (r *FarmerRepo) List(ctx context.Context, municipalityID string, onlyActive bool) ([]*entity.Farmer, error) {
	query := `SELECT ` + farmerColumns + ` FROM farmers WHERE 1=1`
	args := []any{}
	pos := 1
	if municipalityID != "" {
		query += fmt.Sprintf(" AND municipality_id = $%d", pos)
		args = append(args, municipalityID)
		pos++
	}
	if onlyActive {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY name`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Farmer
	for rows.Next() {
		var f entity.Farmer
		if err := rows.Scan(
			&f.ID, &f.Name, &f.CPF, &f.Phone, &f.Address,
			&f.MunicipalityID, &f.DAPNumber, &f.OrganizationID,
			&f.IsActive, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan farmer: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
