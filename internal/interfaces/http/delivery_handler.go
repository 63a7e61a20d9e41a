package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ppmalta/AgroIPA/internal/application/dto"
	"github.com/ppmalta/AgroIPA/internal/application/logistics"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// DeliveryHandler atende o registro de entregas a agricultores e os
// relatórios de entrega.
type DeliveryHandler struct {
	record *logistics.RecordDeliveryUseCase
}

// NewDeliveryHandler constrói o handler.
func NewDeliveryHandler(record *logistics.RecordDeliveryUseCase) *DeliveryHandler {
	return &DeliveryHandler{record: record}
}

func deliveryToResponse(d *entity.Delivery, overManifest bool) dto.DeliveryResponse {
	return dto.DeliveryResponse{
		ID:           d.ID,
		ExpeditionID: d.ExpeditionID,
		LotID:        d.LotID,
		FarmerID:     d.FarmerID,
		Quantity:     d.Quantity,
		DeliveredAt:  d.DeliveredAt,
		DeliveredBy:  d.DeliveredBy,
		Notes:        d.Notes,
		OverManifest: overManifest,
	}
}

// Record registra a entrega de um lote da expedição a um agricultor.
func (h *DeliveryHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	result, err := h.record.Record(c.Context(), logistics.DeliveryInput{
		ExpeditionID: c.Params("id"),
		LotID:        in.LotID,
		FarmerID:     in.FarmerID,
		Quantity:     in.Quantity,
		DeliveredAt:  in.DeliveredAt,
		Notes:        in.Notes,
		ActorID:      GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(deliveryToResponse(result.Delivery, result.OverManifest))
}

// ListByExpedition lista as entregas de uma expedição.
func (h *DeliveryHandler) ListByExpedition(c *fiber.Ctx) error {
	deliveries, err := h.record.ListByExpedition(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, deliveryToResponse(d, false))
	}
	return c.JSON(fiber.Map{"total": len(out), "deliveries": out})
}

// Stats agrega os totais de entrega num período opcional.
func (h *DeliveryHandler) Stats(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		to = &t
	}
	stats, err := h.record.Stats(c.Context(), from, to)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.DeliveryStatsResponse{
		TotalQuantity:   stats.TotalQuantity,
		TotalDeliveries: stats.TotalDeliveries,
		TotalFarmers:    stats.TotalFarmers,
	})
}
