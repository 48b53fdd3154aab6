package repository

import (
	"context"

	"github.com/tu-usuario/asset-registry/internal/domain/entity"
)

// StocktakeRepository puerto de las operaciones opacas del ciclo de
// inventario físico. Atomicidad por llamada garantizada por el store.
type StocktakeRepository interface {
	// GetOrCreate devuelve el stocktake de (planta, año), creándolo junto a su
	// StocktakeYearConfig abierto si es la primera llamada. Idempotente:
	// llamadas repetidas devuelven el mismo identificador sin duplicar.
	GetOrCreate(ctx context.Context, plantID string, year int, userID string) (stocktakeID string, err error)

	// GetConfig lee la configuración del año; nil (sin error) si no existe.
	GetConfig(ctx context.Context, plantID string, year int) (*entity.StocktakeYearConfig, error)

	// RecordScan registra el conteo de un activo. Upsert con clave
	// (stocktake, asset): reescanear actualiza la fila existente.
	// Pre: statusCode y countMethod ya vienen normalizados.
	RecordScan(ctx context.Context, stocktakeID, assetID, statusCode, userID, countMethod, noteText string) (itemID string, err error)

	// AttachImage referencia una foto de evidencia de un ítem ya existente.
	// Pre: fileURL apunta a un archivo ya escrito en el file store.
	AttachImage(ctx context.Context, stocktakeItemID, fileURL string) (imageID string, err error)

	// BulkImport inserta un lote de conteos en una transacción. Devuelve
	// cuántas filas aceptó el store; las rechazadas (ej. AssetNo desconocido)
	// se descartan en silencio y solo se observa el conteo.
	BulkImport(ctx context.Context, stocktakeID, importedByUserID string, items []entity.StocktakeCountRow) (imported int, err error)

	// CloseYear cierra el año (IsOpen=false, sella ClosedAt/ClosedBy).
	// Error si el año no existe o ya está cerrado; nunca crea configuración.
	CloseYear(ctx context.Context, plantID string, year int, closedByUserID string) error

	// OpenNextYear crea el stocktake de toYear precargando los ítems cuyo
	// estado quedó PENDING en fromYear. No exige que fromYear esté cerrado.
	OpenNextYear(ctx context.Context, plantID string, fromYear, toYear int, createdByUserID string) (newStocktakeID string, err error)

	// Lecturas de reporte: consultas puras sobre el estado confirmado al
	// momento de la llamada (sin caché).
	ReportSummary(ctx context.Context, plantID string, year int) ([]entity.StocktakeSummary, error)
	ReportDetail(ctx context.Context, plantID string, year int, statusCode, search string) ([]entity.StocktakeReportRow, error)
	// ReportSections devuelve las tres secciones del export: contados,
	// no contados y pendientes, en ese orden.
	ReportSections(ctx context.Context, plantID string, year int, search string) (counted, notCounted, pending []entity.StocktakeReportRow, err error)
}
