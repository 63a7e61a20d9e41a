package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry é a quantidade autoritativa de um lote em um armazém.
// Chave composta (WarehouseID, LotID); no máximo uma linha por par.
// Linha ausente significa quantidade zero. Quantity nunca fica negativa.
type StockEntry struct {
	WarehouseID string
	LotID       string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}

// StockKey identifica a unidade de exclusão mútua do ledger.
type StockKey struct {
	WarehouseID string
	LotID       string
}

// Less define a ordem global de aquisição de locks: armazém e depois lote.
// Toda operação multi-chave trava as linhas nesta ordem para evitar deadlock
// entre transferências cruzadas.
func (k StockKey) Less(other StockKey) bool {
	if k.WarehouseID != other.WarehouseID {
		return k.WarehouseID < other.WarehouseID
	}
	return k.LotID < other.LotID
}
