package stocktake

import (
	"context"

	"github.com/tu-usuario/asset-registry/internal/domain"
	"github.com/tu-usuario/asset-registry/internal/domain/entity"
	"github.com/tu-usuario/asset-registry/internal/domain/repository"
)

// WorkbookBuilder puerto del export xlsx de tres secciones
// (contados / no contados / pendientes).
type WorkbookBuilder interface {
	Build(plantID string, year int, counted, notCounted, pending []entity.StocktakeReportRow) ([]byte, error)
}

// SummaryPDFBuilder puerto del PDF de resumen por estado.
type SummaryPDFBuilder interface {
	Build(plantID string, year int, summary []entity.StocktakeSummary) ([]byte, error)
}

// ReportUseCase lecturas de reporte del stocktake: consultas puras sobre el
// estado confirmado al momento de la llamada, sin caché.
type ReportUseCase struct {
	repo  repository.StocktakeRepository
	excel WorkbookBuilder
	pdf   SummaryPDFBuilder
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(repo repository.StocktakeRepository, excel WorkbookBuilder, pdf SummaryPDFBuilder) *ReportUseCase {
	return &ReportUseCase{repo: repo, excel: excel, pdf: pdf}
}

// Summary totales por estado del stocktake de (planta, año).
func (uc *ReportUseCase) Summary(ctx context.Context, plantID string, year int) ([]entity.StocktakeSummary, error) {
	if !isGUID(plantID) {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.ReportSummary(ctx, plantID, toYear(year))
}

// Detail filas del stocktake filtradas por estado canónico y/o búsqueda libre.
func (uc *ReportUseCase) Detail(ctx context.Context, plantID string, year int, statusCode, search string) ([]entity.StocktakeReportRow, error) {
	if !isGUID(plantID) {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.ReportDetail(ctx, plantID, toYear(year), toText(statusCode, 50), toText(search, 200))
}

// ExportExcel arma el workbook de tres pestañas con el corte actual.
func (uc *ReportUseCase) ExportExcel(ctx context.Context, plantID string, year int, search string) ([]byte, error) {
	if !isGUID(plantID) {
		return nil, domain.ErrInvalidInput
	}
	y := toYear(year)
	counted, notCounted, pending, err := uc.repo.ReportSections(ctx, plantID, y, toText(search, 200))
	if err != nil {
		return nil, err
	}
	return uc.excel.Build(plantID, y, counted, notCounted, pending)
}

// ExportSummaryPDF arma el PDF con los totales por estado.
func (uc *ReportUseCase) ExportSummaryPDF(ctx context.Context, plantID string, year int) ([]byte, error) {
	if !isGUID(plantID) {
		return nil, domain.ErrInvalidInput
	}
	y := toYear(year)
	summary, err := uc.repo.ReportSummary(ctx, plantID, y)
	if err != nil {
		return nil, err
	}
	return uc.pdf.Build(plantID, y, summary)
}
