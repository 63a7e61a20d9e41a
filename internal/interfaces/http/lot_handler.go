package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ppmalta/AgroIPA/internal/application/dto"
	"github.com/ppmalta/AgroIPA/internal/application/inventory"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// LotHandler atende as rotas de lotes: cadastro, consulta, bloqueio manual e
// rastreio completo.
type LotHandler struct {
	createLot *inventory.CreateLotUseCase
	lotQuery  *inventory.LotQueryUseCase
	trace     *inventory.LotTraceUseCase
}

// NewLotHandler constrói o handler.
func NewLotHandler(createLot *inventory.CreateLotUseCase, lotQuery *inventory.LotQueryUseCase, trace *inventory.LotTraceUseCase) *LotHandler {
	return &LotHandler{createLot: createLot, lotQuery: lotQuery, trace: trace}
}

func lotToResponse(lot *entity.Lot) dto.LotResponse {
	return dto.LotResponse{
		ID:              lot.ID,
		LotNumber:       lot.LotNumber,
		SpeciesID:       lot.SpeciesID,
		SupplierID:      lot.SupplierID,
		InitialQuantity: lot.InitialQuantity,
		ManufactureDate: lot.ManufactureDate,
		ExpiryDate:      lot.ExpiryDate,
		Status:          lot.Status,
		StatusLabel:     labelFor(lotStatusLabels, lot.Status),
		Notes:           lot.Notes,
		CreatedAt:       lot.CreatedAt,
	}
}

// Create cadastra o lote com o estoque inicial no armazém informado.
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	lot, err := h.createLot.CreateLot(c.Context(), inventory.CreateLotInput{
		LotNumber:       in.LotNumber,
		SpeciesID:       in.SpeciesID,
		SupplierID:      in.SupplierID,
		InitialQuantity: in.InitialQuantity,
		ManufactureDate: in.ManufactureDate,
		ExpiryDate:      in.ExpiryDate,
		WarehouseID:     in.WarehouseID,
		Notes:           in.Notes,
		ActorID:         GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lotToResponse(lot))
}

// GetByID devolve o lote.
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	lot, err := h.lotQuery.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(lotToResponse(lot))
}

// List lista lotes com filtros opcionais de espécie e status.
func (h *LotHandler) List(c *fiber.Ctx) error {
	lots, err := h.lotQuery.List(c.Context(),
		c.Query("species_id"), c.Query("status"),
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, lotToResponse(lot))
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// Distribution devolve o estoque do lote por armazém.
func (h *LotHandler) Distribution(c *fiber.Ctx) error {
	entries, err := h.lotQuery.Distribution(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.StockEntryResponse{
			WarehouseID: e.WarehouseID,
			LotID:       e.LotID,
			Quantity:    e.Quantity,
			UpdatedAt:   e.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"lot_id": c.Params("id"), "distribution": out})
}

// UpdateStatus bloqueia/desbloqueia o lote manualmente.
func (h *LotHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateLotStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := h.createLot.AdjustLotStatus(c.Context(), c.Params("id"), in.Status); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "status atualizado"})
}

// RefreshStatus recalcula o status derivado do lote (expiração por tempo).
func (h *LotHandler) RefreshStatus(c *fiber.Ctx) error {
	lot, err := h.createLot.RefreshStatus(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(lotToResponse(lot))
}

// Trace devolve a linha do tempo completa do lote (movimentos + entregas).
func (h *LotHandler) Trace(c *fiber.Ctx) error {
	events, err := h.trace.Trace(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.TraceEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.TraceEventResponse{
			Date:          ev.Date,
			Type:          ev.Type,
			OriginID:      ev.OriginID,
			DestinationID: ev.DestinationID,
			Quantity:      ev.Quantity,
			Actor:         ev.Actor,
			FarmerName:    ev.FarmerName,
			Notes:         ev.Notes,
		})
	}
	return c.JSON(fiber.Map{"lot_id": c.Params("id"), "events": out})
}
