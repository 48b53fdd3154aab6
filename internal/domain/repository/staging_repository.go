package repository

import (
	"context"

	"github.com/tu-usuario/asset-registry/internal/domain/entity"
)

// SyncResult contadores que devuelve la operación de merge staging -> registro.
type SyncResult struct {
	SourceActiveRows  int
	InsertedAssets    int
	UpdatedAssets     int
	DeactivatedAssets int
	ActiveAssetsTotal int
}

// StagingRepository puerto de las operaciones transaccionales opacas del
// pipeline de ingesta. Cada llamada es atómica dentro del store; esta capa
// solo secuencia entre llamadas.
type StagingRepository interface {
	// LoadBatch carga las filas crudas de un archivo en staging y devuelve el
	// identificador del batch creado.
	// Pre: rows proviene de un único archivo parseado con éxito.
	// Post: todas las filas quedan en staging etiquetadas con el batch, o
	// ninguna (atómico por llamada).
	LoadBatch(ctx context.Context, sourceFileName string, rows []map[string]string) (batchID string, err error)

	// Purge borra una ronda acotada de filas de staging más viejas que
	// retainDays. Devuelve cuántas filas borró esta ronda (si borra menos de
	// batchSize, no quedan filas envejecidas).
	Purge(ctx context.Context, retainDays, batchSize int) (deleted int, err error)

	// SyncToAssets reconcilia el staging más reciente por archivo contra el
	// registro canónico: claves existentes se actualizan, nuevas se insertan
	// y, si deactivateMissing, las ausentes del origen se desactivan.
	// Post: sigue habiendo exactamente un Asset activo por AssetNo.
	SyncToAssets(ctx context.Context, deactivateMissing bool) (*SyncResult, error)
}

// AssetRepository puerto de lectura del registro canónico más el alta de
// fotos de activo.
type AssetRepository interface {
	List(ctx context.Context, limit int, search string) ([]entity.Asset, error)
	ListWithoutImage(ctx context.Context) ([]entity.Asset, error)
	// Detail devuelve el activo y sus imágenes; ErrNotFound si no existe.
	Detail(ctx context.Context, assetID string) (*entity.Asset, []entity.AssetImage, error)
	// SapMismatches discrepancias feed SAP vs registro, limitadas a limit filas.
	SapMismatches(ctx context.Context, limit int, search string) ([]entity.AssetMismatch, error)
	// AddImage registra la referencia de una foto ya escrita en el file store.
	// Pre: fileURL apunta a un archivo existente (orden guardar-luego-referenciar).
	AddImage(ctx context.Context, assetID, fileURL string, isPrimary bool) (imageID string, err error)
}
