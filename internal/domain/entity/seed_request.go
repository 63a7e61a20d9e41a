package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
)

// Status possíveis de uma solicitação de sementes.
const (
	RequestStatusPendente  = "pendente"
	RequestStatusAnalise   = "analise"
	RequestStatusAprovada  = "aprovada"
	RequestStatusParcial   = "parcial"
	RequestStatusRejeitada = "rejeitada"
	RequestStatusAtendida  = "atendida"
	RequestStatusCancelada = "cancelada"
)

// SeedRequest é uma solicitação de sementes por organização/agricultores.
// Independente do ledger: aprovação autoriza, nunca aloca estoque.
type SeedRequest struct {
	ID                 string
	RequestNumber      string // SOL-AAAA-NNNNN
	RequesterID        string
	OrganizationID     *string
	Status             string
	Justification      string
	BeneficiariesCount int
	Priority           int
	ReviewerID         *string
	ReviewNotes        string
	ReviewedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Items []SeedRequestItem
}

// SeedRequestItem é a quantidade solicitada/aprovada por espécie.
// Par (RequestID, SpeciesID) único. QuantityApproved nula = sem decisão.
type SeedRequestItem struct {
	RequestID         string
	SpeciesID         string
	QuantityRequested decimal.Decimal
	QuantityApproved  *decimal.Decimal
}

// ReviewDecision são as decisões aceitas pelo fluxo de análise.
func ValidReviewDecision(s string) bool {
	switch s {
	case RequestStatusAprovada, RequestStatusParcial, RequestStatusRejeitada:
		return true
	}
	return false
}

// Reviewable informa se a solicitação ainda aceita (re)análise.
// Re-análise sobrescreve a decisão anterior; solicitações canceladas ou já
// atendidas ficam fechadas.
func (r *SeedRequest) Reviewable() bool {
	switch r.Status {
	case RequestStatusPendente, RequestStatusAnalise,
		RequestStatusAprovada, RequestStatusParcial, RequestStatusRejeitada:
		return true
	}
	return false
}

// Cancel valida e aplica o cancelamento (somente pendente/analise).
func (r *SeedRequest) Cancel() error {
	if r.Status != RequestStatusPendente && r.Status != RequestStatusAnalise {
		return &domain.InvalidTransitionError{Entity: "solicitação", From: r.Status, To: RequestStatusCancelada}
	}
	r.Status = RequestStatusCancelada
	return nil
}

// Approvable informa se a solicitação autoriza a criação de expedição.
func (r *SeedRequest) Approvable() bool {
	return r.Status == RequestStatusAprovada || r.Status == RequestStatusParcial
}
