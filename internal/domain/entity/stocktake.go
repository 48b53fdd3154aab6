package entity

import "time"

// Stocktake cabecera del inventario físico de una (planta, año), 1:1 con su
// StocktakeYearConfig. La creación es idempotente: repetir get-or-create para
// la misma (planta, año) devuelve el mismo identificador.
type Stocktake struct {
	ID        string
	PlantID   string
	Year      int
	CreatedAt time.Time
	CreatedBy string
}

// StocktakeYearConfig estado abierto/cerrado del inventario de una (planta, año).
// Se crea implícitamente al abrir el año; solo la transición de cierre lo muta
// y nunca se borra.
type StocktakeYearConfig struct {
	ID                string
	PlantID           string
	Year              int
	IsOpen            bool
	ReportGeneratedAt *time.Time
	ClosedAt          *time.Time
	ClosedByUserID    string
	StocktakeID       string // Stocktake asociado (join), vacío si aún no existe
}

// StocktakeItem resultado de conteo de un activo dentro de un stocktake.
// Clave lógica (StocktakeID, AssetID): un segundo escaneo del mismo activo
// actualiza la fila existente (upsert), nunca duplica.
type StocktakeItem struct {
	ID          string
	StocktakeID string
	AssetID     string
	StatusCode  string // código canónico (COUNTED, NOT_COUNTED, OTHER, PENDING, ...)
	CountMethod string // QR, MANUAL, EXCEL, BARCODE, ...
	NoteText    string
	CountedBy   string
	CountedAt   time.Time
}

// StocktakeItemImage foto de evidencia de un conteo. Solo existe con su ítem
// padre ya creado; el archivo físico puede existir transitoriamente antes que
// el ítem, nunca al revés desde la perspectiva del llamador.
type StocktakeItemImage struct {
	ID              string
	StocktakeItemID string
	FileURL         string
	CreatedAt       time.Time
}

// StocktakeCountRow una fila normalizada de un archivo de conteo masivo.
type StocktakeCountRow struct {
	AssetNo     string
	StatusCode  string
	NoteText    string
	CountMethod string
}

// StocktakeReportRow fila de los reportes de stocktake (join ítems + registro).
type StocktakeReportRow struct {
	AssetNo     string
	Description string
	Location    string
	StatusCode  string
	CountMethod string
	NoteText    string
	CountedBy   string
	CountedAt   *time.Time
}

// StocktakeSummary totales por estado de un stocktake.
type StocktakeSummary struct {
	StatusCode string
	Total      int
}
