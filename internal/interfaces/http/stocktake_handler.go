package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/asset-registry/internal/application/attachment"
	"github.com/tu-usuario/asset-registry/internal/application/dto"
	"github.com/tu-usuario/asset-registry/internal/application/stocktake"
	"github.com/tu-usuario/asset-registry/internal/domain"
)

// maxUploadBytes límite por archivo subido (fotos y archivos de conteo).
const maxUploadBytes = 20 << 20 // 20 MiB

// StocktakeHandler maneja las peticiones del inventario físico anual (protegido).
type StocktakeHandler struct {
	uc      *stocktake.UseCase
	reports *stocktake.ReportUseCase
}

// NewStocktakeHandler construye el handler.
func NewStocktakeHandler(uc *stocktake.UseCase, reports *stocktake.ReportUseCase) *StocktakeHandler {
	return &StocktakeHandler{uc: uc, reports: reports}
}

// readUpload abre el archivo multipart y lo convierte en un attachment.Upload.
func readUpload(fh *multipart.FileHeader) (*attachment.Upload, error) {
	if fh.Size > maxUploadBytes {
		return nil, fmt.Errorf("archivo de %d bytes supera el máximo permitido", fh.Size)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > maxUploadBytes {
		return nil, fmt.Errorf("archivo supera el máximo permitido")
	}
	return &attachment.Upload{
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get("Content-Type"),
		Content:      content,
	}, nil
}

// mapDomainError traduce los sentinelas de dominio a respuestas HTTP.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyFile):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnsupportedExt):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_FILE", Message: "formato de archivo no soportado (.xlsx, .xls, .csv, .txt)"})
	case errors.Is(err, domain.ErrYearNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrYearNotOpen):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "YEAR_NOT_OPEN", Message: "el año de inventario no está abierto"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// openRequest cuerpo de apertura/consulta de un stocktake.
type openRequest struct {
	Year int `json:"year"`
}

// Open godoc
// @Summary      Abrir (o recuperar) el stocktake del año
// @Tags         stocktakes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  openRequest  true  "Año del inventario"
// @Success      200   {object}  dto.StocktakeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stocktakes [post]
func (h *StocktakeHandler) Open(c *fiber.Ctx) error {
	plantID := GetPlantID(c)
	userID := GetUserID(c)
	var in openRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.GetOrCreate(c.Context(), plantID, in.Year, userID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.StocktakeResponse{StocktakeID: id, PlantID: plantID, Year: in.Year})
}

// Config godoc
// @Summary      Estado del año de inventario (NOT_STARTED / OPEN / CLOSED)
// @Tags         stocktakes
// @Security     Bearer
// @Produce      json
// @Param        year  query  int  false  "Año (default: año actual)"
// @Success      200   {object}  dto.YearConfigResponse
// @Router       /api/stocktakes/config [get]
func (h *StocktakeHandler) Config(c *fiber.Ctx) error {
	plantID := GetPlantID(c)
	year := c.QueryInt("year", 0)
	cfg, err := h.uc.GetConfig(c.Context(), plantID, year)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromYearConfig(plantID, year, cfg))
}

// Scan godoc
// @Summary      Registrar el conteo de un activo con evidencia fotográfica
// @Description  Multipart: campo "image" (obligatorio) + assetId, statusCode, countMethod, noteText.
// @Tags         stocktakes
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id  path  string  true  "ID del stocktake"
// @Success      201  {object}  dto.ScanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stocktakes/{id}/scan [post]
func (h *StocktakeHandler) Scan(c *fiber.Ctx) error {
	stocktakeID := c.Params("id")
	userID := GetUserID(c)

	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_IMAGE", Message: "la foto de evidencia es obligatoria"})
	}
	up, err := readUpload(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_IMAGE", Message: err.Error()})
	}

	itemID, fileURL, err := h.uc.Scan(c.Context(), userID, stocktake.ScanInput{
		StocktakeID: stocktakeID,
		AssetID:     c.FormValue("assetId"),
		StatusCode:  c.FormValue("statusCode"),
		CountMethod: c.FormValue("countMethod"),
		NoteText:    c.FormValue("noteText"),
		Image:       up,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ScanResponse{ItemID: itemID, FileURL: fileURL})
}

// ImportCounts godoc
// @Summary      Importar conteos masivos desde csv/xlsx
// @Tags         stocktakes
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id  path  string  true  "ID del stocktake"
// @Success      200  {object}  dto.ImportCountsResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stocktakes/{id}/import [post]
func (h *StocktakeHandler) ImportCounts(c *fiber.Ctx) error {
	stocktakeID := c.Params("id")
	userID := GetUserID(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el archivo de conteos es obligatorio"})
	}
	up, err := readUpload(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}

	submitted, imported, err := h.uc.ImportCounts(c.Context(), stocktakeID, userID, up.OriginalName, up.Content)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ImportCountsResponse{Submitted: submitted, Imported: imported})
}

// closeRequest cuerpo del cierre de año.
type closeRequest struct {
	Year int `json:"year"`
}

// CloseYear godoc
// @Summary      Cerrar el año de inventario de la planta
// @Tags         stocktakes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  closeRequest  true  "Año a cerrar"
// @Success      200   {object}  dto.YearConfigResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocktakes/close [post]
func (h *StocktakeHandler) CloseYear(c *fiber.Ctx) error {
	plantID := GetPlantID(c)
	userID := GetUserID(c)
	var in closeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.CloseYear(c.Context(), plantID, in.Year, userID); err != nil {
		return mapDomainError(c, err)
	}
	cfg, err := h.uc.GetConfig(c.Context(), plantID, in.Year)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromYearConfig(plantID, in.Year, cfg))
}

// carryForwardRequest cuerpo de la apertura del año siguiente.
type carryForwardRequest struct {
	FromYear int `json:"fromYear"`
	ToYear   int `json:"toYear,omitempty"`
}

// CarryForward godoc
// @Summary      Abrir el año siguiente precargando los activos pendientes
// @Tags         stocktakes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  carryForwardRequest  true  "Año origen y destino"
// @Success      201   {object}  stocktake.CarryForwardResult
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocktakes/carry-forward [post]
func (h *StocktakeHandler) CarryForward(c *fiber.Ctx) error {
	plantID := GetPlantID(c)
	userID := GetUserID(c)
	var in carryForwardRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.OpenNextYear(c.Context(), plantID, in.FromYear, in.ToYear, userID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Summary godoc
// @Summary      Totales por estado de conteo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        year  query  int  false  "Año (default: año actual)"
// @Success      200   {array}  dto.SummaryRowResponse
// @Router       /api/stocktakes/report/summary [get]
func (h *StocktakeHandler) Summary(c *fiber.Ctx) error {
	plantID := GetPlantID(c)
	summary, err := h.reports.Summary(c.Context(), plantID, c.QueryInt("year", 0))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromSummary(summary))
}

// Detail godoc
// @Summary      Filas del reporte, filtrables por estado y búsqueda libre
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        year    query  int     false  "Año"
// @Param        status  query  string  false  "Estado canónico (COUNTED, NOT_COUNTED, ...)"
// @Param        search  query  string  false  "Búsqueda libre (assetNo / descripción)"
// @Success      200     {array}  dto.ReportRowResponse
// @Router       /api/stocktakes/report/detail [get]
func (h *StocktakeHandler) Detail(c *fiber.Ctx) error {
	plantID := GetPlantID(c)
	rows, err := h.reports.Detail(c.Context(), plantID,
		c.QueryInt("year", 0), c.Query("status"), c.Query("search"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromReportRows(rows))
}

// ExportExcel godoc
// @Summary      Exportar el stocktake a xlsx (tres pestañas por sección)
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        year    query  int     false  "Año"
// @Param        search  query  string  false  "Búsqueda libre"
// @Success      200  {file}  binary
// @Router       /api/stocktakes/report/export.xlsx [get]
func (h *StocktakeHandler) ExportExcel(c *fiber.Ctx) error {
	plantID := GetPlantID(c)
	year := c.QueryInt("year", 0)
	data, err := h.reports.ExportExcel(c.Context(), plantID, year, c.Query("search"))
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stocktake-%d.xlsx"`, year))
	return c.Send(data)
}

// ExportSummaryPDF godoc
// @Summary      Exportar el resumen del stocktake a PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        year  query  int  false  "Año"
// @Success      200  {file}  binary
// @Router       /api/stocktakes/report/summary.pdf [get]
func (h *StocktakeHandler) ExportSummaryPDF(c *fiber.Ctx) error {
	plantID := GetPlantID(c)
	year := c.QueryInt("year", 0)
	data, err := h.reports.ExportSummaryPDF(c.Context(), plantID, year)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stocktake-%d-resumen.pdf"`, year))
	return c.Send(data)
}
