package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse é um armazém físico de estoque.
type Warehouse struct {
	ID             string
	Name           string
	Code           string // código curto, único
	Address        string
	MunicipalityID string
	Capacity       decimal.Decimal // capacidade em kg
	ManagerID      *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
