package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status possíveis de um lote de sementes.
const (
	LotStatusAtivo     = "ativo"
	LotStatusBaixo     = "baixo"     // estoque abaixo do limiar
	LotStatusEsgotado  = "esgotado"  // quantidade total zerada
	LotStatusVencido   = "vencido"   // passou da data de validade
	LotStatusBloqueado = "bloqueado" // bloqueio manual (qualidade, recall)
)

// Lot representa um lote rastreável de sementes. A quantidade atual NÃO mora
// aqui: ela é derivada das linhas de estoque por armazém (StockEntry).
// InitialQuantity é imutável após a criação.
type Lot struct {
	ID              string // uuid compartilhável externamente (rastreio)
	LotNumber       string // número humano, único
	SpeciesID       string
	SupplierID      string
	InitialQuantity decimal.Decimal
	ManufactureDate time.Time
	ExpiryDate      time.Time
	Status          string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidLotStatus informa se s é um status de lote conhecido.
func ValidLotStatus(s string) bool {
	switch s {
	case LotStatusAtivo, LotStatusBaixo, LotStatusEsgotado, LotStatusVencido, LotStatusBloqueado:
		return true
	}
	return false
}

// ComputeLotStatus deriva o status do lote a partir do estoque total e da data.
// Precedência: bloqueado (manual, não sai sozinho) > vencido > esgotado > baixo > ativo.
// lowPct é o limiar percentual (ex.: 10 => baixo quando total <= 10% da quantidade inicial).
func ComputeLotStatus(lot *Lot, total decimal.Decimal, now time.Time, lowPct int64) string {
	if lot.Status == LotStatusBloqueado {
		return LotStatusBloqueado
	}
	if !lot.ExpiryDate.IsZero() && now.After(lot.ExpiryDate) {
		return LotStatusVencido
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return LotStatusEsgotado
	}
	if lot.InitialQuantity.GreaterThan(decimal.Zero) {
		threshold := lot.InitialQuantity.Mul(decimal.NewFromInt(lowPct)).Div(decimal.NewFromInt(100))
		if total.LessThanOrEqual(threshold) {
			return LotStatusBaixo
		}
	}
	return LotStatusAtivo
}
