package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ppmalta/AgroIPA/internal/application/dto"
	"github.com/ppmalta/AgroIPA/internal/application/logistics"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// ExpeditionHandler atende as rotas de expedição: criação, consulta e a
// máquina de estados (preparar, embarcar, concluir, cancelar).
type ExpeditionHandler struct {
	create    *logistics.CreateExpeditionUseCase
	ship      *logistics.ShipExpeditionUseCase
	lifecycle *logistics.ExpeditionLifecycleUseCase
	query     *logistics.ExpeditionQueryUseCase
}

// NewExpeditionHandler constrói o handler.
func NewExpeditionHandler(
	create *logistics.CreateExpeditionUseCase,
	ship *logistics.ShipExpeditionUseCase,
	lifecycle *logistics.ExpeditionLifecycleUseCase,
	query *logistics.ExpeditionQueryUseCase,
) *ExpeditionHandler {
	return &ExpeditionHandler{create: create, ship: ship, lifecycle: lifecycle, query: query}
}

func expeditionToResponse(exp *entity.Expedition) dto.ExpeditionResponse {
	items := make([]dto.ExpeditionItemResponse, 0, len(exp.Items))
	for _, item := range exp.Items {
		items = append(items, dto.ExpeditionItemResponse{LotID: item.LotID, Quantity: item.Quantity})
	}
	return dto.ExpeditionResponse{
		ID:                exp.ID,
		ExpeditionNumber:  exp.ExpeditionNumber,
		WarehouseOriginID: exp.WarehouseOriginID,
		DestinationID:     exp.DestinationID,
		SeedRequestID:     exp.SeedRequestID,
		Status:            exp.Status,
		StatusLabel:       labelFor(expeditionStatusLabels, exp.Status),
		ScheduledDate:     exp.ScheduledDate,
		ShippedAt:         exp.ShippedAt,
		DeliveredAt:       exp.DeliveredAt,
		VehiclePlate:      exp.VehiclePlate,
		DriverName:        exp.DriverName,
		ProofRef:          exp.ProofRef,
		Notes:             exp.Notes,
		TotalQuantity:     exp.TotalQuantity(),
		Items:             items,
		CreatedAt:         exp.CreatedAt,
	}
}

// Create cria a expedição com o manifesto (sem tocar o estoque).
func (h *ExpeditionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExpeditionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	items := make([]logistics.ExpeditionItemInput, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, logistics.ExpeditionItemInput{LotID: item.LotID, Quantity: item.Quantity})
	}
	exp, err := h.create.Create(c.Context(), logistics.CreateExpeditionInput{
		WarehouseOriginID: in.WarehouseOriginID,
		DestinationID:     in.DestinationID,
		SeedRequestID:     in.SeedRequestID,
		ScheduledDate:     in.ScheduledDate,
		VehiclePlate:      in.VehiclePlate,
		DriverName:        in.DriverName,
		Notes:             in.Notes,
		Items:             items,
		ActorID:           GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(expeditionToResponse(exp))
}

// GetByID devolve a expedição com o manifesto.
func (h *ExpeditionHandler) GetByID(c *fiber.Ctx) error {
	exp, err := h.query.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(expeditionToResponse(exp))
}

// List lista expedições (filtro opcional por status).
func (h *ExpeditionHandler) List(c *fiber.Ctx) error {
	expeditions, err := h.query.List(c.Context(), c.Query("status"),
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.ExpeditionResponse, 0, len(expeditions))
	for _, exp := range expeditions {
		out = append(out, expeditionToResponse(exp))
	}
	return c.JSON(fiber.Map{"total": len(out), "expeditions": out})
}

// Prepare move a expedição para preparação.
func (h *ExpeditionHandler) Prepare(c *fiber.Ctx) error {
	exp, err := h.lifecycle.Prepare(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(expeditionToResponse(exp))
}

// Ship embarca a expedição: baixa todo o manifesto do ledger atomicamente.
func (h *ExpeditionHandler) Ship(c *fiber.Ctx) error {
	exp, err := h.ship.Ship(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(expeditionToResponse(exp))
}

// Complete conclui a expedição com comprovante opcional.
func (h *ExpeditionHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteExpeditionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
		}
	}
	exp, err := h.lifecycle.Complete(c.Context(), c.Params("id"), in.ProofRef)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(expeditionToResponse(exp))
}

// Cancel cancela a expedição antes do embarque.
func (h *ExpeditionHandler) Cancel(c *fiber.Ctx) error {
	exp, err := h.lifecycle.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(expeditionToResponse(exp))
}
