package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
)

// Tipos de movimentação de estoque.
const (
	MovementTypeEntrada       = "entrada"
	MovementTypeSaida         = "saida"
	MovementTypeTransferencia = "transferencia"
	MovementTypeAjuste        = "ajuste"
)

// Movement é o registro imutável de auditoria de toda mudança de quantidade.
// Nunca é editado nem apagado; correções entram como novo movimento "ajuste".
// Quantity é sempre positiva; o sentido vem dos armazéns origem/destino.
// Pelo menos um dos dois armazéns é não nulo; transferência exige ambos.
type Movement struct {
	ID                     string
	LotID                  string
	Type                   string
	Quantity               decimal.Decimal
	WarehouseOriginID      *string
	WarehouseDestinationID *string
	Reference              string
	Notes                  string
	CreatedBy              string
	CreatedAt              time.Time
}

// Validate verifica as invariantes estruturais do movimento.
func (m *Movement) Validate() error {
	if !m.Quantity.GreaterThan(decimal.Zero) {
		return &domain.ValidationError{Field: "quantity", Reason: "deve ser positiva"}
	}
	switch m.Type {
	case MovementTypeEntrada, MovementTypeSaida, MovementTypeTransferencia, MovementTypeAjuste:
	default:
		return &domain.ValidationError{Field: "type", Reason: "tipo de movimento desconhecido"}
	}
	if m.WarehouseOriginID == nil && m.WarehouseDestinationID == nil {
		return &domain.ValidationError{Field: "warehouse", Reason: "origem ou destino deve ser informado"}
	}
	if m.Type == MovementTypeTransferencia && (m.WarehouseOriginID == nil || m.WarehouseDestinationID == nil) {
		return &domain.ValidationError{Field: "warehouse", Reason: "transferência exige origem e destino"}
	}
	return nil
}
