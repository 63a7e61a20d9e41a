package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ppmalta/AgroIPA/internal/application/dto"
	"github.com/ppmalta/AgroIPA/internal/application/inventory"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// StockHandler atende as rotas do ledger: consulta, transferência, ajuste e
// histórico de movimentos.
type StockHandler struct {
	query         *inventory.StockQueryUseCase
	transfer      *inventory.TransferStockUseCase
	adjust        *inventory.AdjustStockUseCase
	movementQuery *inventory.MovementQueryUseCase
}

// NewStockHandler constrói o handler.
func NewStockHandler(
	query *inventory.StockQueryUseCase,
	transfer *inventory.TransferStockUseCase,
	adjust *inventory.AdjustStockUseCase,
	movementQuery *inventory.MovementQueryUseCase,
) *StockHandler {
	return &StockHandler{query: query, transfer: transfer, adjust: adjust, movementQuery: movementQuery}
}

func movementToResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                     m.ID,
		LotID:                  m.LotID,
		Type:                   m.Type,
		Quantity:               m.Quantity,
		WarehouseOriginID:      m.WarehouseOriginID,
		WarehouseDestinationID: m.WarehouseDestinationID,
		Reference:              m.Reference,
		Notes:                  m.Notes,
		CreatedBy:              m.CreatedBy,
		CreatedAt:              m.CreatedAt,
	}
}

// Get devolve a quantidade atual do par (armazém, lote).
func (h *StockHandler) Get(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouseId")
	lotID := c.Params("lotId")
	qty, err := h.query.GetStock(c.Context(), warehouseID, lotID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"warehouse_id": warehouseID, "lot_id": lotID, "quantity": qty})
}

// ListByWarehouse lista as linhas de estoque de um armazém.
func (h *StockHandler) ListByWarehouse(c *fiber.Ctx) error {
	entries, err := h.query.ListWarehouseStock(c.Context(), c.Params("warehouseId"))
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
	return c.JSON(fiber.Map{"total": len(out), "stock": out})
}

// Summary devolve ocupação e estoque total por armazém ativo.
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	summaries, err := h.query.Summary(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.WarehouseSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.WarehouseSummaryResponse{
			WarehouseID:  s.WarehouseID,
			Name:         s.Name,
			Code:         s.Code,
			Capacity:     s.Capacity,
			CurrentStock: s.CurrentStock,
			Utilization:  s.Utilization,
		})
	}
	return c.JSON(fiber.Map{"warehouses": out})
}

// Transfer move quantidade de um lote entre armazéns.
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	mov, err := h.transfer.Transfer(c.Context(), inventory.TransferInput{
		LotID:           in.LotID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Notes:           in.Notes,
		ActorID:         GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementToResponse(mov))
}

// Adjust aplica um delta manual (positivo credita, negativo debita).
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	mov, err := h.adjust.Adjust(c.Context(), inventory.AdjustInput{
		LotID:       in.LotID,
		WarehouseID: in.WarehouseID,
		Delta:       in.Delta,
		Reason:      in.Reason,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementToResponse(mov))
}

// ListMovements lista os movimentos de um armazém num período opcional.
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
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
	movements, err := h.movementQuery.ListByWarehouse(c.Context(),
		c.Params("warehouseId"), from, to,
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementToResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}
