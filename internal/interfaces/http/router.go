package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/asset-registry/internal/application/assets"
	"github.com/tu-usuario/asset-registry/internal/application/stocktake"
	"github.com/tu-usuario/asset-registry/internal/jobs"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AssetUC     *assets.UseCase
	StocktakeUC *stocktake.UseCase
	ReportUC    *stocktake.ReportUseCase
	ImportJob   *jobs.ImportJob
	JWTSecret   string
}

// Router registra las rutas de la API. Toda la API es protegida: los tokens
// los emite el servicio de identidad corporativo, aquí solo se validan.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Registro de activos (lectura + fotos)
	assetHandler := NewAssetHandler(deps.AssetUC)
	assetGroup := api.Group("/assets")
	assetGroup.Get("/", assetHandler.List)
	assetGroup.Get("/no-image", assetHandler.ListWithoutImage)
	assetGroup.Get("/sap-mismatch", assetHandler.Mismatches)
	assetGroup.Get("/:id", assetHandler.Detail)
	assetGroup.Post("/:id/images", assetHandler.UploadImage)

	// Inventario físico anual
	stocktakeHandler := NewStocktakeHandler(deps.StocktakeUC, deps.ReportUC)
	st := api.Group("/stocktakes")
	st.Post("/", stocktakeHandler.Open)
	st.Get("/config", stocktakeHandler.Config)
	st.Post("/close", RequireRole("admin", "contador"), stocktakeHandler.CloseYear)
	st.Post("/carry-forward", RequireRole("admin", "contador"), stocktakeHandler.CarryForward)
	st.Get("/report/summary", stocktakeHandler.Summary)
	st.Get("/report/detail", stocktakeHandler.Detail)
	st.Get("/report/export.xlsx", stocktakeHandler.ExportExcel)
	st.Get("/report/summary.pdf", stocktakeHandler.ExportSummaryPDF)
	st.Post("/:id/scan", stocktakeHandler.Scan)
	st.Post("/:id/import", RequireRole("admin", "contador"), stocktakeHandler.ImportCounts)

	// Corrida manual del import SAP
	importHandler := NewImportHandler(deps.ImportJob)
	api.Post("/sap-import/run", RequireRole("admin"), importHandler.Run)
}
