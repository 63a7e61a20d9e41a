package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ppmalta/AgroIPA/internal/application/catalog"
	"github.com/ppmalta/AgroIPA/internal/application/dto"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// CatalogHandler atende os cadastros de apoio: armazéns, espécies,
// fornecedores, municípios e agricultores.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler constrói o handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateWarehouse cadastra um armazém.
func (h *CatalogHandler) CreateWarehouse(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	wh, err := h.uc.CreateWarehouse(c.Context(), catalog.CreateWarehouseInput{
		Name:           in.Name,
		Code:           in.Code,
		Address:        in.Address,
		MunicipalityID: in.MunicipalityID,
		Capacity:       in.Capacity,
		ManagerID:      in.ManagerID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(wh)
}

// GetWarehouse devolve um armazém.
func (h *CatalogHandler) GetWarehouse(c *fiber.Ctx) error {
	wh, err := h.uc.GetWarehouse(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(wh)
}

// ListWarehouses lista armazéns.
func (h *CatalogHandler) ListWarehouses(c *fiber.Ctx) error {
	list, err := h.uc.ListWarehouses(c.Context(), c.QueryBool("only_active", true))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "warehouses": list})
}

// CreateSpecies cadastra uma espécie.
func (h *CatalogHandler) CreateSpecies(c *fiber.Ctx) error {
	var in dto.CreateSpeciesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	species, err := h.uc.CreateSpecies(c.Context(), &entity.Species{
		Name:           in.Name,
		ScientificName: in.ScientificName,
		Description:    in.Description,
		Unit:           in.Unit,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(species)
}

// ListSpecies lista espécies.
func (h *CatalogHandler) ListSpecies(c *fiber.Ctx) error {
	list, err := h.uc.ListSpecies(c.Context(), c.QueryBool("only_active", true))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "species": list})
}

// CreateSupplier cadastra um fornecedor.
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	supplier, err := h.uc.CreateSupplier(c.Context(), &entity.Supplier{
		Name:        in.Name,
		CNPJ:        in.CNPJ,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		ContactName: in.ContactName,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

// ListSuppliers lista fornecedores.
func (h *CatalogHandler) ListSuppliers(c *fiber.Ctx) error {
	list, err := h.uc.ListSuppliers(c.Context(), c.QueryBool("only_active", true))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "suppliers": list})
}

// CreateMunicipality cadastra um município.
func (h *CatalogHandler) CreateMunicipality(c *fiber.Ctx) error {
	var in dto.CreateMunicipalityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	municipality, err := h.uc.CreateMunicipality(c.Context(), &entity.Municipality{
		Name:     in.Name,
		CodeIBGE: in.CodeIBGE,
		State:    in.State,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(municipality)
}

// ListMunicipalities lista municípios.
func (h *CatalogHandler) ListMunicipalities(c *fiber.Ctx) error {
	list, err := h.uc.ListMunicipalities(c.Context(), c.QueryBool("only_active", true))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "municipalities": list})
}

// CreateFarmer cadastra um agricultor.
func (h *CatalogHandler) CreateFarmer(c *fiber.Ctx) error {
	var in dto.CreateFarmerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	farmer, err := h.uc.CreateFarmer(c.Context(), &entity.Farmer{
		Name:           in.Name,
		CPF:            in.CPF,
		Phone:          in.Phone,
		Address:        in.Address,
		MunicipalityID: in.MunicipalityID,
		DAPNumber:      in.DAPNumber,
		OrganizationID: in.OrganizationID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(farmer)
}

// ListFarmers lista agricultores (filtro opcional por município).
func (h *CatalogHandler) ListFarmers(c *fiber.Ctx) error {
	list, err := h.uc.ListFarmers(c.Context(), c.Query("municipality_id"), c.QueryBool("only_active", true))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "farmers": list})
}
