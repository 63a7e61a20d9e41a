package entity

import "time"

// Species é uma espécie de semente (milho, feijão, etc.).
type Species struct {
	ID             string
	Name           string // único
	ScientificName string
	Description    string
	Unit           string // unidade de massa, padrão "kg"
	IsActive       bool
	CreatedAt      time.Time
}

// Supplier é um fornecedor de sementes.
type Supplier struct {
	ID          string
	Name        string
	CNPJ        string // único quando informado
	Address     string
	Phone       string
	Email       string
	ContactName string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Municipality é um município atendido pelo programa.
type Municipality struct {
	ID       string
	Name     string
	CodeIBGE string // único
	State    string
	IsActive bool
}

// Farmer é um agricultor beneficiário do programa.
type Farmer struct {
	ID             string
	Name           string
	CPF            string // único
	Phone          string
	Address        string
	MunicipalityID string
	DAPNumber      string // Nº DAP/CAF
	OrganizationID *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
