package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/asset-registry/internal/domain"
	"github.com/tu-usuario/asset-registry/internal/domain/entity"
	"github.com/tu-usuario/asset-registry/internal/domain/repository"
)

var _ repository.StocktakeRepository = (*StocktakeRepo)(nil)

// StocktakeRepo adaptador pgx del ciclo de inventario físico sobre las
// funciones nombradas del store (stocktake_*).
type StocktakeRepo struct {
	q Querier
}

// NewStocktakeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStocktakeRepository(q Querier) *StocktakeRepo {
	return &StocktakeRepo{q: q}
}

// GetOrCreate idempotente: la función del store crea Stocktake + YearConfig
// abierto la primera vez y devuelve siempre el mismo identificador.
func (r *StocktakeRepo) GetOrCreate(ctx context.Context, plantID string, year int, userID string) (string, error) {
	var id string
	err := r.q.QueryRow(ctx,
		`SELECT stocktake_id FROM stocktake_get_or_create($1, $2, $3)`,
		plantID, year, userID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("get-or-create stocktake %d: %w", year, err)
	}
	return id, nil
}

// GetConfig lectura directa (join con la cabecera), nil si el año no existe.
func (r *StocktakeRepo) GetConfig(ctx context.Context, plantID string, year int) (*entity.StocktakeYearConfig, error) {
	var cfg entity.StocktakeYearConfig
	var stocktakeID, closedBy *string
	err := r.q.QueryRow(ctx, `
		SELECT yc.stocktake_year_config_id,
		       yc.plant_id,
		       yc.stocktake_year,
		       yc.is_open,
		       yc.report_generated_at,
		       yc.closed_at,
		       yc.closed_by_user_id,
		       s.stocktake_id
		  FROM stocktake_year_configs yc
		  LEFT JOIN stocktakes s ON s.stocktake_year_config_id = yc.stocktake_year_config_id
		 WHERE yc.plant_id = $1
		   AND yc.stocktake_year = $2`,
		plantID, year,
	).Scan(
		&cfg.ID, &cfg.PlantID, &cfg.Year, &cfg.IsOpen,
		&cfg.ReportGeneratedAt, &cfg.ClosedAt, &closedBy, &stocktakeID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer config de stocktake %d: %w", year, err)
	}
	if closedBy != nil {
		cfg.ClosedByUserID = *closedBy
	}
	if stocktakeID != nil {
		cfg.StocktakeID = *stocktakeID
	}
	return &cfg, nil
}

// RecordScan upsert con clave (stocktake, activo) dentro de la función.
func (r *StocktakeRepo) RecordScan(ctx context.Context, stocktakeID, assetID, statusCode, userID, countMethod, noteText string) (string, error) {
	var itemID string
	err := r.q.QueryRow(ctx,
		`SELECT stocktake_item_id FROM stocktake_scan($1, $2, $3, $4, $5, $6)`,
		stocktakeID, assetID, statusCode, userID, countMethod, nullIfEmpty(noteText),
	).Scan(&itemID)
	if err != nil {
		if isRaisedNotFound(err) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("registrar escaneo: %w", err)
	}
	return itemID, nil
}

func (r *StocktakeRepo) AttachImage(ctx context.Context, stocktakeItemID, fileURL string) (string, error) {
	var imageID string
	err := r.q.QueryRow(ctx,
		`SELECT stocktake_item_image_id FROM stocktake_add_image($1, $2)`,
		stocktakeItemID, fileURL,
	).Scan(&imageID)
	if err != nil {
		return "", fmt.Errorf("adjuntar imagen de conteo: %w", err)
	}
	return imageID, nil
}

// BulkImport lote completo en una llamada; el store descarta filas con
// AssetNo desconocido y devuelve solo cuántas aceptó.
func (r *StocktakeRepo) BulkImport(ctx context.Context, stocktakeID, importedByUserID string, items []entity.StocktakeCountRow) (int, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("serializar conteos: %w", err)
	}

	var imported int
	err = r.q.QueryRow(ctx,
		`SELECT imported_rows FROM stocktake_import_counts($1, $2, $3::jsonb)`,
		stocktakeID, importedByUserID, payload,
	).Scan(&imported)
	if err != nil {
		return 0, fmt.Errorf("importación masiva de conteos: %w", err)
	}
	return imported, nil
}

// CloseYear cerrar un año inexistente o ya cerrado es error del store y se
// traduce a los sentinelas de dominio.
func (r *StocktakeRepo) CloseYear(ctx context.Context, plantID string, year int, closedByUserID string) error {
	_, err := r.q.Exec(ctx,
		`SELECT stocktake_close_year($1, $2, $3)`,
		plantID, year, closedByUserID,
	)
	if err != nil {
		if isRaisedNotFound(err) {
			return domain.ErrYearNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("cerrar año %d: %w", year, err)
	}
	return nil
}

func (r *StocktakeRepo) OpenNextYear(ctx context.Context, plantID string, fromYear, toYear int, createdByUserID string) (string, error) {
	var newID string
	err := r.q.QueryRow(ctx,
		`SELECT new_stocktake_id FROM stocktake_open_next_year($1, $2, $3, $4)`,
		plantID, fromYear, toYear, createdByUserID,
	).Scan(&newID)
	if err != nil {
		if isRaisedNotFound(err) {
			return "", domain.ErrYearNotFound
		}
		return "", fmt.Errorf("abrir año %d con arrastre: %w", toYear, err)
	}
	return newID, nil
}

// ── Lecturas de reporte ───────────────────────────────────────────────────────

func (r *StocktakeRepo) ReportSummary(ctx context.Context, plantID string, year int) ([]entity.StocktakeSummary, error) {
	rows, err := r.q.Query(ctx,
		`SELECT status_code, total FROM stocktake_report_summary($1, $2)`,
		plantID, year,
	)
	if err != nil {
		return nil, fmt.Errorf("resumen de stocktake: %w", err)
	}
	defer rows.Close()

	var out []entity.StocktakeSummary
	for rows.Next() {
		var s entity.StocktakeSummary
		if err := rows.Scan(&s.StatusCode, &s.Total); err != nil {
			return nil, fmt.Errorf("resumen de stocktake: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StocktakeRepo) ReportDetail(ctx context.Context, plantID string, year int, statusCode, search string) ([]entity.StocktakeReportRow, error) {
	rows, err := r.q.Query(ctx,
		`SELECT asset_no, description, location, status_code, count_method, note_text, counted_by, counted_at
		   FROM stocktake_report_detail($1, $2, $3, $4)`,
		plantID, year, nullIfEmpty(statusCode), nullIfEmpty(search),
	)
	if err != nil {
		return nil, fmt.Errorf("detalle de stocktake: %w", err)
	}
	defer rows.Close()
	return scanReportRows(rows)
}

// ReportSections las tres secciones del export en una sola función con
// columna de sección, para que el corte sea consistente.
func (r *StocktakeRepo) ReportSections(ctx context.Context, plantID string, year int, search string) (counted, notCounted, pending []entity.StocktakeReportRow, err error) {
	rows, err := r.q.Query(ctx,
		`SELECT section, asset_no, description, location, status_code, count_method, note_text, counted_by, counted_at
		   FROM stocktake_report_sections($1, $2, $3)`,
		plantID, year, nullIfEmpty(search),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("secciones de stocktake: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var section string
		var row entity.StocktakeReportRow
		var note, countedBy *string
		if err := rows.Scan(&section, &row.AssetNo, &row.Description, &row.Location,
			&row.StatusCode, &row.CountMethod, &note, &countedBy, &row.CountedAt); err != nil {
			return nil, nil, nil, fmt.Errorf("secciones de stocktake: %w", err)
		}
		if note != nil {
			row.NoteText = *note
		}
		if countedBy != nil {
			row.CountedBy = *countedBy
		}
		switch section {
		case "COUNTED":
			counted = append(counted, row)
		case "NOT_COUNTED":
			notCounted = append(notCounted, row)
		default:
			pending = append(pending, row)
		}
	}
	return counted, notCounted, pending, rows.Err()
}

func scanReportRows(rows pgx.Rows) ([]entity.StocktakeReportRow, error) {
	var out []entity.StocktakeReportRow
	for rows.Next() {
		var row entity.StocktakeReportRow
		var note, countedBy *string
		if err := rows.Scan(&row.AssetNo, &row.Description, &row.Location,
			&row.StatusCode, &row.CountMethod, &note, &countedBy, &row.CountedAt); err != nil {
			return nil, fmt.Errorf("fila de reporte: %w", err)
		}
		if note != nil {
			row.NoteText = *note
		}
		if countedBy != nil {
			row.CountedBy = *countedBy
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
