package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/asset-registry/internal/domain"
	"github.com/tu-usuario/asset-registry/internal/domain/entity"
	"github.com/tu-usuario/asset-registry/internal/domain/repository"
)

var _ repository.AssetRepository = (*AssetRepo)(nil)

// AssetRepo adaptador pgx de lecturas del registro canónico + fotos de activo.
type AssetRepo struct {
	q Querier
}

// NewAssetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssetRepository(q Querier) *AssetRepo {
	return &AssetRepo{q: q}
}

const assetColumns = `asset_id, asset_no, description, plant_id, cost_center, location,
	acquisition_date, acquisition_cost, book_value, is_active, created_at, updated_at`

func scanAsset(row pgx.Row) (*entity.Asset, error) {
	var a entity.Asset
	err := row.Scan(
		&a.ID, &a.AssetNo, &a.Description, &a.PlantID, &a.CostCenter, &a.Location,
		&a.AcquisitionDate, &a.AcquisitionCost, &a.BookValue, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAssets(rows pgx.Rows) ([]entity.Asset, error) {
	defer rows.Close()
	var out []entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("fila de activo: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// List activos activos del registro, con búsqueda opcional por número o
// descripción.
func (r *AssetRepo) List(ctx context.Context, limit int, search string) ([]entity.Asset, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+assetColumns+` FROM assets_list($1, $2)`,
		limit, nullIfEmpty(search),
	)
	if err != nil {
		return nil, fmt.Errorf("listar activos: %w", err)
	}
	return collectAssets(rows)
}

func (r *AssetRepo) ListWithoutImage(ctx context.Context) ([]entity.Asset, error) {
	rows, err := r.q.Query(ctx, `SELECT `+assetColumns+` FROM assets_no_image()`)
	if err != nil {
		return nil, fmt.Errorf("listar activos sin foto: %w", err)
	}
	return collectAssets(rows)
}

// Detail el activo y sus imágenes; ErrNotFound si no existe.
func (r *AssetRepo) Detail(ctx context.Context, assetID string) (*entity.Asset, []entity.AssetImage, error) {
	asset, err := scanAsset(r.q.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM asset_detail($1)`, assetID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("detalle de activo: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT asset_image_id, asset_id, file_url, is_primary, created_at
		   FROM asset_images WHERE asset_id = $1 ORDER BY is_primary DESC, created_at`,
		assetID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("imágenes de activo: %w", err)
	}
	defer rows.Close()

	var images []entity.AssetImage
	for rows.Next() {
		var img entity.AssetImage
		if err := rows.Scan(&img.ID, &img.AssetID, &img.FileURL, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("imágenes de activo: %w", err)
		}
		images = append(images, img)
	}
	return asset, images, rows.Err()
}

func (r *AssetRepo) SapMismatches(ctx context.Context, limit int, search string) ([]entity.AssetMismatch, error) {
	rows, err := r.q.Query(ctx,
		`SELECT asset_no, description, mismatch_kind, detail
		   FROM assets_sap_mismatch($1, $2)`,
		limit, nullIfEmpty(search),
	)
	if err != nil {
		return nil, fmt.Errorf("discrepancias SAP: %w", err)
	}
	defer rows.Close()

	var out []entity.AssetMismatch
	for rows.Next() {
		var m entity.AssetMismatch
		if err := rows.Scan(&m.AssetNo, &m.Description, &m.MismatchKind, &m.Detail); err != nil {
			return nil, fmt.Errorf("discrepancias SAP: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddImage referencia una foto ya escrita en el file store (orden
// guardar-luego-referenciar garantizado por la saga).
func (r *AssetRepo) AddImage(ctx context.Context, assetID, fileURL string, isPrimary bool) (string, error) {
	var imageID string
	err := r.q.QueryRow(ctx,
		`SELECT asset_image_id FROM asset_add_image($1, $2, $3)`,
		assetID, fileURL, isPrimary,
	).Scan(&imageID)
	if err != nil {
		if isRaisedNotFound(err) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("registrar foto de activo: %w", err)
	}
	return imageID, nil
}
