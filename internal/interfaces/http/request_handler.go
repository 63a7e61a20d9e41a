package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ppmalta/AgroIPA/internal/application/dto"
	"github.com/ppmalta/AgroIPA/internal/application/logistics"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// RequestHandler atende o fluxo de solicitações de sementes: criação,
// consulta, cancelamento e análise.
type RequestHandler struct {
	requests *logistics.SeedRequestUseCase
	review   *logistics.ReviewRequestUseCase
}

// NewRequestHandler constrói o handler.
func NewRequestHandler(requests *logistics.SeedRequestUseCase, review *logistics.ReviewRequestUseCase) *RequestHandler {
	return &RequestHandler{requests: requests, review: review}
}

func requestToResponse(req *entity.SeedRequest) dto.SeedRequestResponse {
	items := make([]dto.RequestItemResponse, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, dto.RequestItemResponse{
			SpeciesID:         item.SpeciesID,
			QuantityRequested: item.QuantityRequested,
			QuantityApproved:  item.QuantityApproved,
		})
	}
	return dto.SeedRequestResponse{
		ID:                 req.ID,
		RequestNumber:      req.RequestNumber,
		RequesterID:        req.RequesterID,
		OrganizationID:     req.OrganizationID,
		Status:             req.Status,
		StatusLabel:        labelFor(requestStatusLabels, req.Status),
		Justification:      req.Justification,
		BeneficiariesCount: req.BeneficiariesCount,
		Priority:           req.Priority,
		ReviewerID:         req.ReviewerID,
		ReviewNotes:        req.ReviewNotes,
		ReviewedAt:         req.ReviewedAt,
		Items:              items,
		CreatedAt:          req.CreatedAt,
	}
}

// Create cria a solicitação em nome do usuário autenticado.
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSeedRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	items := make([]logistics.RequestItemInput, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, logistics.RequestItemInput{
			SpeciesID:         item.SpeciesID,
			QuantityRequested: item.QuantityRequested,
		})
	}
	req, err := h.requests.Create(c.Context(), logistics.CreateRequestInput{
		RequesterID:        GetUserID(c),
		OrganizationID:     in.OrganizationID,
		Justification:      in.Justification,
		BeneficiariesCount: in.BeneficiariesCount,
		Priority:           in.Priority,
		Items:              items,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(requestToResponse(req))
}

// GetByID devolve a solicitação com itens.
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.requests.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(requestToResponse(req))
}

// List lista solicitações (filtros opcionais de status e solicitante).
func (h *RequestHandler) List(c *fiber.Ctx) error {
	requests, err := h.requests.List(c.Context(),
		c.Query("status"), c.Query("requester_id"),
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.SeedRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, requestToResponse(req))
	}
	return c.JSON(fiber.Map{"total": len(out), "requests": out})
}

// Cancel cancela a solicitação (somente pendente/analise).
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	req, err := h.requests.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(requestToResponse(req))
}

// StartReview move a solicitação para análise.
func (h *RequestHandler) StartReview(c *fiber.Ctx) error {
	req, err := h.review.StartReview(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(requestToResponse(req))
}

// Review aplica a decisão da análise (aprovada, parcial ou rejeitada).
func (h *RequestHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	req, err := h.review.Review(c.Context(), logistics.ReviewInput{
		RequestID:   c.Params("id"),
		Decision:    in.Decision,
		ReviewNotes: in.ReviewNotes,
		Approvals:   in.Approvals,
		ReviewerID:  GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(requestToResponse(req))
}
