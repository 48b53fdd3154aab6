package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tu-usuario/asset-registry/internal/domain/repository"
)

var _ repository.StagingRepository = (*StagingRepo)(nil)

// StagingRepo adaptador pgx del pipeline de ingesta. Las operaciones son
// funciones nombradas del store (sap_asset_*): su cuerpo es responsabilidad
// del colaborador externo y cada llamada es atómica allí adentro.
type StagingRepo struct {
	q Querier
}

// NewStagingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStagingRepository(q Querier) *StagingRepo {
	return &StagingRepo{q: q}
}

// LoadBatch serializa las filas crudas a JSON y las entrega a la función de
// carga, que crea el batch y el staging en una transacción.
func (r *StagingRepo) LoadBatch(ctx context.Context, sourceFileName string, rows []map[string]string) (string, error) {
	payload, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("serializar filas de %s: %w", sourceFileName, err)
	}

	var batchID string
	err = r.q.QueryRow(ctx,
		`SELECT import_batch_id FROM sap_asset_import_json($1, $2::jsonb)`,
		sourceFileName, payload,
	).Scan(&batchID)
	if err != nil {
		return "", fmt.Errorf("cargar %s a staging: %w", sourceFileName, err)
	}
	return batchID, nil
}

// Purge una ronda acotada de borrado de staging envejecido.
func (r *StagingRepo) Purge(ctx context.Context, retainDays, batchSize int) (int, error) {
	var deleted int
	err := r.q.QueryRow(ctx,
		`SELECT deleted_rows FROM sap_asset_staging_purge($1, $2)`,
		retainDays, batchSize,
	).Scan(&deleted)
	if err != nil {
		return 0, fmt.Errorf("purgar staging: %w", err)
	}
	return deleted, nil
}

// SyncToAssets merge del staging más reciente por archivo hacia el registro
// canónico; devuelve los contadores de la corrida.
func (r *StagingRepo) SyncToAssets(ctx context.Context, deactivateMissing bool) (*repository.SyncResult, error) {
	var out repository.SyncResult
	err := r.q.QueryRow(ctx,
		`SELECT source_active_rows, inserted_assets, updated_assets, deactivated_assets, active_assets_total
		   FROM sap_asset_sync_to_assets($1)`,
		deactivateMissing,
	).Scan(
		&out.SourceActiveRows,
		&out.InsertedAssets,
		&out.UpdatedAssets,
		&out.DeactivatedAssets,
		&out.ActiveAssetsTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("sincronizar staging a registro: %w", err)
	}
	return &out, nil
}
