// Package dto define los contratos JSON de la API y sus mapeos desde las
// entidades de dominio. Las entidades no llevan tags: todo lo que sale por
// HTTP pasa por aquí.
package dto

import (
	"time"

	"github.com/tu-usuario/asset-registry/internal/domain/entity"
)

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ─── Activos ──────────────────────────────────────────────────────────────────

// AssetResponse un activo del registro canónico.
type AssetResponse struct {
	ID              string     `json:"id"`
	AssetNo         string     `json:"assetNo"`
	Description     string     `json:"description"`
	PlantID         string     `json:"plantId"`
	CostCenter      string     `json:"costCenter,omitempty"`
	Location        string     `json:"location,omitempty"`
	AcquisitionDate *time.Time `json:"acquisitionDate,omitempty"`
	AcquisitionCost string     `json:"acquisitionCost"`
	BookValue       string     `json:"bookValue"`
	IsActive        bool       `json:"isActive"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// FromAsset mapea la entidad al contrato JSON.
func FromAsset(a entity.Asset) AssetResponse {
	return AssetResponse{
		ID:              a.ID,
		AssetNo:         a.AssetNo,
		Description:     a.Description,
		PlantID:         a.PlantID,
		CostCenter:      a.CostCenter,
		Location:        a.Location,
		AcquisitionDate: a.AcquisitionDate,
		AcquisitionCost: a.AcquisitionCost.StringFixed(2),
		BookValue:       a.BookValue.StringFixed(2),
		IsActive:        a.IsActive,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromAssets mapea una lista de activos.
func FromAssets(in []entity.Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(in))
	for _, a := range in {
		out = append(out, FromAsset(a))
	}
	return out
}

// AssetImageResponse una foto asociada a un activo.
type AssetImageResponse struct {
	ID        string    `json:"id"`
	FileURL   string    `json:"fileUrl"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
}

// AssetDetailResponse activo + sus fotos.
type AssetDetailResponse struct {
	Asset  AssetResponse        `json:"asset"`
	Images []AssetImageResponse `json:"images"`
}

// FromAssetDetail mapea el detalle completo.
func FromAssetDetail(a *entity.Asset, images []entity.AssetImage) AssetDetailResponse {
	imgs := make([]AssetImageResponse, 0, len(images))
	for _, img := range images {
		imgs = append(imgs, AssetImageResponse{
			ID: img.ID, FileURL: img.FileURL, IsPrimary: img.IsPrimary, CreatedAt: img.CreatedAt,
		})
	}
	return AssetDetailResponse{Asset: FromAsset(*a), Images: imgs}
}

// MismatchResponse una discrepancia feed SAP vs registro.
type MismatchResponse struct {
	AssetNo      string `json:"assetNo"`
	Description  string `json:"description,omitempty"`
	MismatchKind string `json:"mismatchKind"`
	Detail       string `json:"detail,omitempty"`
}

// FromMismatches mapea la lista de discrepancias.
func FromMismatches(in []entity.AssetMismatch) []MismatchResponse {
	out := make([]MismatchResponse, 0, len(in))
	for _, m := range in {
		out = append(out, MismatchResponse{
			AssetNo: m.AssetNo, Description: m.Description,
			MismatchKind: m.MismatchKind, Detail: m.Detail,
		})
	}
	return out
}

// UploadImageResponse resultado de subir una foto.
type UploadImageResponse struct {
	ImageID string `json:"imageId"`
	FileURL string `json:"fileUrl"`
}

// ─── Stocktake ────────────────────────────────────────────────────────────────

// StocktakeResponse cabecera creada/recuperada de un stocktake.
type StocktakeResponse struct {
	StocktakeID string `json:"stocktakeId"`
	PlantID     string `json:"plantId"`
	Year        int    `json:"year"`
}

// YearConfigResponse estado del año de inventario. Status es NOT_STARTED
// cuando la configuración aún no existe.
type YearConfigResponse struct {
	PlantID     string     `json:"plantId"`
	Year        int        `json:"year"`
	Status      string     `json:"status"` // NOT_STARTED | OPEN | CLOSED
	StocktakeID string     `json:"stocktakeId,omitempty"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	ClosedBy    string     `json:"closedBy,omitempty"`
}

// FromYearConfig mapea la configuración; cfg nil significa año no iniciado.
func FromYearConfig(plantID string, year int, cfg *entity.StocktakeYearConfig) YearConfigResponse {
	if cfg == nil {
		return YearConfigResponse{PlantID: plantID, Year: year, Status: "NOT_STARTED"}
	}
	status := "CLOSED"
	if cfg.IsOpen {
		status = "OPEN"
	}
	return YearConfigResponse{
		PlantID:     cfg.PlantID,
		Year:        cfg.Year,
		Status:      status,
		StocktakeID: cfg.StocktakeID,
		ClosedAt:    cfg.ClosedAt,
		ClosedBy:    cfg.ClosedByUserID,
	}
}

// ScanResponse resultado del escaneo de un activo.
type ScanResponse struct {
	ItemID  string `json:"itemId"`
	FileURL string `json:"fileUrl"`
}

// ImportCountsResponse resultado del import masivo de conteos.
type ImportCountsResponse struct {
	Submitted int `json:"submitted"`
	Imported  int `json:"imported"`
}

// SummaryRowResponse totales de un estado de conteo.
type SummaryRowResponse struct {
	StatusCode string `json:"statusCode"`
	Total      int    `json:"total"`
}

// FromSummary mapea los totales por estado.
func FromSummary(in []entity.StocktakeSummary) []SummaryRowResponse {
	out := make([]SummaryRowResponse, 0, len(in))
	for _, s := range in {
		out = append(out, SummaryRowResponse{StatusCode: s.StatusCode, Total: s.Total})
	}
	return out
}

// ReportRowResponse una fila del reporte detallado.
type ReportRowResponse struct {
	AssetNo     string     `json:"assetNo"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StatusCode  string     `json:"statusCode"`
	CountMethod string     `json:"countMethod,omitempty"`
	NoteText    string     `json:"noteText,omitempty"`
	CountedBy   string     `json:"countedBy,omitempty"`
	CountedAt   *time.Time `json:"countedAt,omitempty"`
}

// FromReportRows mapea las filas del reporte.
func FromReportRows(in []entity.StocktakeReportRow) []ReportRowResponse {
	out := make([]ReportRowResponse, 0, len(in))
	for _, r := range in {
		out = append(out, ReportRowResponse{
			AssetNo: r.AssetNo, Description: r.Description, Location: r.Location,
			StatusCode: r.StatusCode, CountMethod: r.CountMethod, NoteText: r.NoteText,
			CountedBy: r.CountedBy, CountedAt: r.CountedAt,
		})
	}
	return out
}
