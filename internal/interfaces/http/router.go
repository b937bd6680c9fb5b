package http

import (
	"github.com/gofiber/fiber/v2"

	appcount "github.com/jhoicas/Kardex-api/internal/application/count"
	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	appreceipt "github.com/jhoicas/Kardex-api/internal/application/receipt"
	appreceiving "github.com/jhoicas/Kardex-api/internal/application/receiving"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Recorder    *appledger.Recorder
	Transfer    *appledger.TransferCoordinator
	CountUC     *appcount.Session
	ReceiptUC   *appreceipt.Allocator
	ReceivingUC *appreceiving.Allocator

	MovementRepo  repository.MovementTransactionRepository
	CountRepo     repository.PhysicalCountRepository
	ReceiptRepo   repository.ReceiptRepository
	PORepo        repository.PurchaseOrderRepository
	WarehouseRepo repository.WarehouseRepository
}

// Router registra las rutas de la API. La autenticación vive fuera del
// servicio; los documentos llevan el created_by del encabezado X-User-ID.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Kardex: registro, traslados, reversas y consultas
	ledgerHandler := NewLedgerHandler(deps.Recorder, deps.Transfer, deps.MovementRepo)
	movements := api.Group("/movements")
	movements.Post("/", ledgerHandler.Record)
	movements.Post("/transfer", ledgerHandler.Transfer)
	movements.Post("/:id/reverse", ledgerHandler.Reverse)
	movements.Get("/number/:number", ledgerHandler.GetByNumber)
	movements.Get("/reference/:reference", ledgerHandler.ListByReference)
	movements.Get("/warehouse/:warehouseId", ledgerHandler.ListByWarehouse)
	movements.Get("/:id", ledgerHandler.GetByID)

	// Conteo físico
	countHandler := NewCountHandler(deps.CountUC, deps.CountRepo)
	counts := api.Group("/counts")
	counts.Post("/", countHandler.Start)
	counts.Get("/:id", countHandler.GetByID)
	counts.Post("/:id/lines", countHandler.UpsertLine)
	counts.Put("/:id/lines/:lineId/decision", countHandler.OverrideDecision)
	counts.Delete("/:id/lines/:lineId", countHandler.RemoveLine)
	counts.Post("/:id/complete", countHandler.Complete)

	// Recibos de caja
	receiptHandler := NewReceiptHandler(deps.ReceiptUC, deps.ReceiptRepo)
	receipts := api.Group("/receipts")
	receipts.Post("/", receiptHandler.Allocate)
	receipts.Get("/:id", receiptHandler.GetByID)

	// Recepción de mercancía
	receivingHandler := NewReceivingHandler(deps.ReceivingUC, deps.PORepo)
	receiving := api.Group("/receiving")
	receiving.Post("/", receivingHandler.Receive)
	receiving.Get("/po/:poId/lines", receivingHandler.ListPOLines)

	// Bodegas
	warehouseHandler := NewWarehouseHandler(deps.WarehouseRepo)
	warehouses := api.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
}
