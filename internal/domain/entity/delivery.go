package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery registra a entrega final de um lote a um agricultor, contra uma
// expedição. Puramente aditivo: o estoque já saiu no embarque, então a
// entrega não toca o ledger. A soma das entregas de uma expedição é
// informativa e pode ultrapassar o manifesto (entregas parciais/repetidas).
type Delivery struct {
	ID           string
	ExpeditionID string
	LotID        string
	FarmerID     string
	Quantity     decimal.Decimal
	DeliveredAt  time.Time
	DeliveredBy  string
	Notes        string
	CreatedAt    time.Time
}
