package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ppmalta/AgroIPA/internal/application/catalog"
	"github.com/ppmalta/AgroIPA/internal/application/inventory"
	"github.com/ppmalta/AgroIPA/internal/application/logistics"
	"github.com/ppmalta/AgroIPA/pkg/jwt"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	CatalogUC       *catalog.UseCase
	CreateLot       *inventory.CreateLotUseCase
	LotQuery        *inventory.LotQueryUseCase
	LotTrace        *inventory.LotTraceUseCase
	StockQuery      *inventory.StockQueryUseCase
	Transfer        *inventory.TransferStockUseCase
	Adjust          *inventory.AdjustStockUseCase
	MovementQuery   *inventory.MovementQueryUseCase
	CreateExp       *logistics.CreateExpeditionUseCase
	ShipExp         *logistics.ShipExpeditionUseCase
	ExpLifecycle    *logistics.ExpeditionLifecycleUseCase
	ExpQuery        *logistics.ExpeditionQueryUseCase
	RecordDelivery  *logistics.RecordDeliveryUseCase
	SeedRequests    *logistics.SeedRequestUseCase
	ReviewRequests  *logistics.ReviewRequestUseCase
	JWTSecret       string
}

// Router registra as rotas da API. Toda a API exige Bearer Token; as
// mutações são limitadas por papel.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	manageStock := RequireRoles(jwt.RoleGestor, jwt.RoleOperador)
	manageLogistics := RequireRoles(jwt.RoleGestor, jwt.RoleAgente)
	manageCatalog := RequireRoles(jwt.RoleGestor)
	reviewRole := RequireRoles(jwt.RoleGestor)
	requestRole := RequireRoles(jwt.RoleGestor, jwt.RoleSolicitante)

	// Cadastros
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	warehouses := api.Group("/warehouses")
	warehouses.Post("/", manageCatalog, catalogHandler.CreateWarehouse)
	warehouses.Get("/", catalogHandler.ListWarehouses)
	warehouses.Get("/:id", catalogHandler.GetWarehouse)

	species := api.Group("/species")
	species.Post("/", manageCatalog, catalogHandler.CreateSpecies)
	species.Get("/", catalogHandler.ListSpecies)

	suppliers := api.Group("/suppliers")
	suppliers.Post("/", manageCatalog, catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)

	municipalities := api.Group("/municipalities")
	municipalities.Post("/", manageCatalog, catalogHandler.CreateMunicipality)
	municipalities.Get("/", catalogHandler.ListMunicipalities)

	farmers := api.Group("/farmers")
	farmers.Post("/", manageCatalog, catalogHandler.CreateFarmer)
	farmers.Get("/", catalogHandler.ListFarmers)

	// Lotes
	lotHandler := NewLotHandler(deps.CreateLot, deps.LotQuery, deps.LotTrace)
	lots := api.Group("/lots")
	lots.Post("/", manageStock, lotHandler.Create)
	lots.Get("/", lotHandler.List)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Get("/:id/distribution", lotHandler.Distribution)
	lots.Get("/:id/trace", lotHandler.Trace)
	lots.Patch("/:id/status", manageStock, lotHandler.UpdateStatus)
	lots.Post("/:id/refresh-status", manageStock, lotHandler.RefreshStatus)

	// Ledger de estoque
	stockHandler := NewStockHandler(deps.StockQuery, deps.Transfer, deps.Adjust, deps.MovementQuery)
	stock := api.Group("/stock")
	stock.Get("/summary", stockHandler.Summary)
	stock.Get("/:warehouseId", stockHandler.ListByWarehouse)
	stock.Get("/:warehouseId/movements", stockHandler.ListMovements)
	stock.Get("/:warehouseId/:lotId", stockHandler.Get)
	stock.Post("/transfer", manageStock, stockHandler.Transfer)
	stock.Post("/adjust", manageStock, stockHandler.Adjust)

	// Expedições e entregas
	expHandler := NewExpeditionHandler(deps.CreateExp, deps.ShipExp, deps.ExpLifecycle, deps.ExpQuery)
	deliveryHandler := NewDeliveryHandler(deps.RecordDelivery)
	expeditions := api.Group("/expeditions")
	expeditions.Post("/", manageLogistics, expHandler.Create)
	expeditions.Get("/", expHandler.List)
	expeditions.Get("/:id", expHandler.GetByID)
	expeditions.Post("/:id/prepare", manageLogistics, expHandler.Prepare)
	expeditions.Post("/:id/ship", manageLogistics, expHandler.Ship)
	expeditions.Post("/:id/complete", manageLogistics, expHandler.Complete)
	expeditions.Post("/:id/cancel", manageLogistics, expHandler.Cancel)
	expeditions.Post("/:id/deliveries", manageLogistics, deliveryHandler.Record)
	expeditions.Get("/:id/deliveries", deliveryHandler.ListByExpedition)

	deliveries := api.Group("/deliveries")
	deliveries.Get("/stats", deliveryHandler.Stats)

	// Solicitações de sementes
	requestHandler := NewRequestHandler(deps.SeedRequests, deps.ReviewRequests)
	requests := api.Group("/requests")
	requests.Post("/", requestRole, requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Post("/:id/cancel", requestRole, requestHandler.Cancel)
	requests.Post("/:id/start-review", reviewRole, requestHandler.StartReview)
	requests.Post("/:id/review", reviewRole, requestHandler.Review)
}
