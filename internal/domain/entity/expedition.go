package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
)

// Status possíveis de uma expedição.
const (
	ExpeditionStatusPendente   = "pendente"
	ExpeditionStatusPreparando = "preparando"
	ExpeditionStatusTransito   = "transito"
	ExpeditionStatusEntregue   = "entregue"
	ExpeditionStatusCancelada  = "cancelada"
)

// Expedition é uma remessa de um ou mais lotes de um armazém para um município.
// O ciclo de vida é monotônico: pendente -> preparando -> transito -> entregue,
// com cancelada alcançável apenas antes de qualquer baixa de estoque.
type Expedition struct {
	ID                string
	ExpeditionNumber  string // EXP-AAAA-NNNNN
	WarehouseOriginID string
	DestinationID     string // município destino
	SeedRequestID     *string
	Status            string
	ScheduledDate     time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	VehiclePlate      string
	DriverName        string
	ProofRef          string // referência do comprovante de entrega
	Notes             string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items []ExpeditionItem
}

// ExpeditionItem é a quantidade de um lote no manifesto da expedição.
// Par (ExpeditionID, LotID) único; imutável depois do embarque.
type ExpeditionItem struct {
	ExpeditionID string
	LotID        string
	Quantity     decimal.Decimal
}

// expeditionTransitions enumera as transições permitidas.
var expeditionTransitions = map[string][]string{
	ExpeditionStatusPendente:   {ExpeditionStatusPreparando, ExpeditionStatusTransito, ExpeditionStatusCancelada},
	ExpeditionStatusPreparando: {ExpeditionStatusTransito, ExpeditionStatusCancelada},
	ExpeditionStatusTransito:   {ExpeditionStatusEntregue},
}

// CanTransition informa se a expedição pode ir de seu status atual para o alvo.
func (e *Expedition) CanTransition(to string) bool {
	for _, allowed := range expeditionTransitions[e.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition muda o status validando a máquina de estados; devolve
// InvalidTransitionError com os estados atual e solicitado quando não permitido.
func (e *Expedition) Transition(to string) error {
	if !e.CanTransition(to) {
		return &domain.InvalidTransitionError{Entity: "expedição", From: e.Status, To: to}
	}
	e.Status = to
	return nil
}

// TotalQuantity soma as quantidades do manifesto.
func (e *Expedition) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.Items {
		total = total.Add(item.Quantity)
	}
	return total
}
