// Package dto define os contratos JSON da API. Quantidades viajam como
// decimal (serializado em string) para nunca perder precisão.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse resposta padrão de erro da API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Lotes e estoque ---

// CreateLotRequest corpo do cadastro de lote.
type CreateLotRequest struct {
	LotNumber       string          `json:"lot_number"`
	SpeciesID       string          `json:"species_id"`
	SupplierID      string          `json:"supplier_id"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	ManufactureDate time.Time       `json:"manufacture_date"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	WarehouseID     string          `json:"warehouse_id"`
	Notes           string          `json:"notes"`
}

// UpdateLotStatusRequest corpo do bloqueio/desbloqueio manual de lote.
type UpdateLotStatusRequest struct {
	Status string `json:"status"`
}

// LotResponse representação de lote na API.
type LotResponse struct {
	ID              string          `json:"id"`
	LotNumber       string          `json:"lot_number"`
	SpeciesID       string          `json:"species_id"`
	SupplierID      string          `json:"supplier_id"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	ManufactureDate time.Time       `json:"manufacture_date"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	Status          string          `json:"status"`
	StatusLabel     string          `json:"status_label"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransferRequest corpo da transferência entre armazéns.
type TransferRequest struct {
	LotID           string          `json:"lot_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Notes           string          `json:"notes"`
}

// AdjustStockRequest corpo do ajuste manual de estoque.
type AdjustStockRequest struct {
	LotID       string          `json:"lot_id"`
	WarehouseID string          `json:"warehouse_id"`
	Delta       decimal.Decimal `json:"delta"`
	Reason      string          `json:"reason"`
}

// StockEntryResponse linha de estoque por armazém e lote.
type StockEntryResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	LotID       string          `json:"lot_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementResponse movimento do histórico.
type MovementResponse struct {
	ID                     string          `json:"id"`
	LotID                  string          `json:"lot_id"`
	Type                   string          `json:"type"`
	Quantity               decimal.Decimal `json:"quantity"`
	WarehouseOriginID      *string         `json:"warehouse_origin_id,omitempty"`
	WarehouseDestinationID *string         `json:"warehouse_destination_id,omitempty"`
	Reference              string          `json:"reference,omitempty"`
	Notes                  string          `json:"notes,omitempty"`
	CreatedBy              string          `json:"created_by,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// WarehouseSummaryResponse ocupação de um armazém.
type WarehouseSummaryResponse struct {
	WarehouseID  string          `json:"warehouse_id"`
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	Capacity     decimal.Decimal `json:"capacity"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Utilization  decimal.Decimal `json:"utilization_pct"`
}

// TraceEventResponse evento da linha do tempo de um lote.
type TraceEventResponse struct {
	Date          time.Time       `json:"date"`
	Type          string          `json:"type"`
	OriginID      *string         `json:"origin_id,omitempty"`
	DestinationID *string         `json:"destination_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Actor         string          `json:"actor,omitempty"`
	FarmerName    string          `json:"farmer_name,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// --- Expedições e entregas ---

// ExpeditionItemRequest item do manifesto na criação.
type ExpeditionItemRequest struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateExpeditionRequest corpo da criação de expedição.
type CreateExpeditionRequest struct {
	WarehouseOriginID string                  `json:"warehouse_origin_id"`
	DestinationID     string                  `json:"destination_id"`
	SeedRequestID     *string                 `json:"seed_request_id,omitempty"`
	ScheduledDate     time.Time               `json:"scheduled_date"`
	VehiclePlate      string                  `json:"vehicle_plate"`
	DriverName        string                  `json:"driver_name"`
	Notes             string                  `json:"notes"`
	Items             []ExpeditionItemRequest `json:"items"`
}

// CompleteExpeditionRequest corpo da conclusão (comprovante opcional).
type CompleteExpeditionRequest struct {
	ProofRef string `json:"proof_ref"`
}

// ExpeditionItemResponse item do manifesto.
type ExpeditionItemResponse struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ExpeditionResponse representação de expedição na API.
type ExpeditionResponse struct {
	ID                string                   `json:"id"`
	ExpeditionNumber  string                   `json:"expedition_number"`
	WarehouseOriginID string                   `json:"warehouse_origin_id"`
	DestinationID     string                   `json:"destination_id"`
	SeedRequestID     *string                  `json:"seed_request_id,omitempty"`
	Status            string                   `json:"status"`
	StatusLabel       string                   `json:"status_label"`
	ScheduledDate     time.Time                `json:"scheduled_date"`
	ShippedAt         *time.Time               `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time               `json:"delivered_at,omitempty"`
	VehiclePlate      string                   `json:"vehicle_plate,omitempty"`
	DriverName        string                   `json:"driver_name,omitempty"`
	ProofRef          string                   `json:"proof_ref,omitempty"`
	Notes             string                   `json:"notes,omitempty"`
	TotalQuantity     decimal.Decimal          `json:"total_quantity"`
	Items             []ExpeditionItemResponse `json:"items"`
	CreatedAt         time.Time                `json:"created_at"`
}

// RecordDeliveryRequest corpo do registro de entrega.
type RecordDeliveryRequest struct {
	LotID       string          `json:"lot_id"`
	FarmerID    string          `json:"farmer_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	DeliveredAt time.Time       `json:"delivered_at"`
	Notes       string          `json:"notes"`
}

// DeliveryResponse entrega registrada; over_manifest avisa que o total do
// item passou do embarcado.
type DeliveryResponse struct {
	ID           string          `json:"id"`
	ExpeditionID string          `json:"expedition_id"`
	LotID        string          `json:"lot_id"`
	FarmerID     string          `json:"farmer_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	DeliveredAt  time.Time       `json:"delivered_at"`
	DeliveredBy  string          `json:"delivered_by,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	OverManifest bool            `json:"over_manifest,omitempty"`
}

// DeliveryStatsResponse totais de entrega do período.
type DeliveryStatsResponse struct {
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	TotalDeliveries int             `json:"total_deliveries"`
	TotalFarmers    int             `json:"total_farmers"`
}

// --- Solicitações ---

// RequestItemRequest item solicitado por espécie.
type RequestItemRequest struct {
	SpeciesID         string          `json:"species_id"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
}

// CreateSeedRequestRequest corpo da criação de solicitação.
type CreateSeedRequestRequest struct {
	OrganizationID     *string              `json:"organization_id,omitempty"`
	Justification      string               `json:"justification"`
	BeneficiariesCount int                  `json:"beneficiaries_count"`
	Priority           int                  `json:"priority"`
	Items              []RequestItemRequest `json:"items"`
}

// ReviewRequestRequest corpo da análise. approvals obrigatório na decisão
// parcial: mapa espécie -> quantidade aprovada.
type ReviewRequestRequest struct {
	Decision    string                     `json:"decision"`
	ReviewNotes string                     `json:"review_notes"`
	Approvals   map[string]decimal.Decimal `json:"approvals,omitempty"`
}

// RequestItemResponse item com quantidades solicitada/aprovada.
type RequestItemResponse struct {
	SpeciesID         string           `json:"species_id"`
	QuantityRequested decimal.Decimal  `json:"quantity_requested"`
	QuantityApproved  *decimal.Decimal `json:"quantity_approved,omitempty"`
}

// SeedRequestResponse representação de solicitação na API.
type SeedRequestResponse struct {
	ID                 string                `json:"id"`
	RequestNumber      string                `json:"request_number"`
	RequesterID        string                `json:"requester_id"`
	OrganizationID     *string               `json:"organization_id,omitempty"`
	Status             string                `json:"status"`
	StatusLabel        string                `json:"status_label"`
	Justification      string                `json:"justification"`
	BeneficiariesCount int                   `json:"beneficiaries_count"`
	Priority           int                   `json:"priority"`
	ReviewerID         *string               `json:"reviewer_id,omitempty"`
	ReviewNotes        string                `json:"review_notes,omitempty"`
	ReviewedAt         *time.Time            `json:"reviewed_at,omitempty"`
	Items              []RequestItemResponse `json:"items"`
	CreatedAt          time.Time             `json:"created_at"`
}

// --- Cadastros ---

// CreateWarehouseRequest corpo do cadastro de armazém.
type CreateWarehouseRequest struct {
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Address        string          `json:"address"`
	MunicipalityID string          `json:"municipality_id"`
	Capacity       decimal.Decimal `json:"capacity"`
	ManagerID      *string         `json:"manager_id,omitempty"`
}

// CreateSpeciesRequest corpo do cadastro de espécie.
type CreateSpeciesRequest struct {
	Name           string `json:"name"`
	ScientificName string `json:"scientific_name"`
	Description    string `json:"description"`
	Unit           string `json:"unit"`
}

// CreateSupplierRequest corpo do cadastro de fornecedor.
type CreateSupplierRequest struct {
	Name        string `json:"name"`
	CNPJ        string `json:"cnpj"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ContactName string `json:"contact_name"`
}

// CreateMunicipalityRequest corpo do cadastro de município.
type CreateMunicipalityRequest struct {
	Name     string `json:"name"`
	CodeIBGE string `json:"code_ibge"`
	State    string `json:"state"`
}

// CreateFarmerRequest corpo do cadastro de agricultor.
type CreateFarmerRequest struct {
	Name           string  `json:"name"`
	CPF            string  `json:"cpf"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	MunicipalityID string  `json:"municipality_id"`
	DAPNumber      string  `json:"dap_number"`
	OrganizationID *string `json:"organization_id,omitempty"`
}
