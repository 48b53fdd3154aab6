// Package stocktake implementa el ciclo de vida del inventario físico por
// (planta, año): apertura idempotente, registro de conteos (escaneo e
// importación masiva), cierre y arrastre de pendientes al año siguiente.
package stocktake

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tu-usuario/asset-registry/internal/application/attachment"
	"github.com/tu-usuario/asset-registry/internal/domain"
	"github.com/tu-usuario/asset-registry/internal/domain/entity"
	"github.com/tu-usuario/asset-registry/internal/domain/repository"
	domstocktake "github.com/tu-usuario/asset-registry/internal/domain/stocktake"
	"github.com/tu-usuario/asset-registry/pkg/logger"
)

// UseCase orquesta las operaciones de stocktake sobre el puerto del store.
type UseCase struct {
	repo repository.StocktakeRepository
	saga *attachment.Saga
	log  *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.StocktakeRepository, saga *attachment.Saga, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, saga: saga, log: log}
}

// isGUID valida un identificador UUID; el resto de validaciones de entrada
// viven aquí para que nada malformado llegue al store.
func isGUID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

// toYear normaliza un año de inventario; fuera de rango usa el año UTC actual.
func toYear(v int) int {
	if v < 2000 || v > 2600 {
		return time.Now().UTC().Year()
	}
	return v
}

// toText recorta texto libre a max bytes sin partir ningún carácter
// multibyte (vacío queda vacío).
func toText(v string, max int) string {
	s := strings.TrimSpace(v)
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// GetOrCreate abre (o devuelve) el stocktake de (planta, año). Idempotente:
// el primer llamador crea Stocktake + YearConfig abierto; los siguientes
// reciben el mismo identificador.
func (uc *UseCase) GetOrCreate(ctx context.Context, plantID string, year int, userID string) (string, error) {
	if !isGUID(plantID) || !isGUID(userID) {
		return "", domain.ErrInvalidInput
	}
	return uc.repo.GetOrCreate(ctx, plantID, toYear(year), userID)
}

// GetConfig lee la configuración del año; nil si aún no existe (NOT_STARTED).
func (uc *UseCase) GetConfig(ctx context.Context, plantID string, year int) (*entity.StocktakeYearConfig, error) {
	if !isGUID(plantID) {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.GetConfig(ctx, plantID, toYear(year))
}

// ScanInput entrada del escaneo de un activo.
type ScanInput struct {
	StocktakeID string
	AssetID     string
	StatusCode  string // texto libre; se normaliza aquí
	CountMethod string
	NoteText    string
	Image       *attachment.Upload // obligatoria en el escaneo
}

// Scan registra el conteo de un activo con su evidencia fotográfica.
// El estado y el método se normalizan al vocabulario canónico; la imagen es
// obligatoria y se adjunta vía la saga guardar-luego-referenciar: si la
// escritura relacional falla, el archivo se limpia y sube el error original.
// Reescanear el mismo activo actualiza el ítem existente (upsert del store).
func (uc *UseCase) Scan(ctx context.Context, userID string, in ScanInput) (itemID string, fileURL string, err error) {
	if !isGUID(in.StocktakeID) || !isGUID(in.AssetID) || !isGUID(userID) {
		return "", "", domain.ErrInvalidInput
	}
	if in.Image == nil || len(in.Image.Content) == 0 {
		return "", "", domain.ErrInvalidInput
	}

	statusCode := domstocktake.ToStatusCode(in.StatusCode)
	countMethod := domstocktake.ToCountMethod(in.CountMethod)
	noteText := toText(in.NoteText, 1000)

	up := *in.Image
	if up.OwnerID == "" {
		up.OwnerID = in.AssetID
	}

	fileURL, err = uc.saga.Attach(ctx, up, func(ctx context.Context, fileURL string) error {
		id, err := uc.repo.RecordScan(ctx, in.StocktakeID, in.AssetID, statusCode, userID, countMethod, noteText)
		if err != nil {
			return err
		}
		itemID = id
		_, err = uc.repo.AttachImage(ctx, id, fileURL)
		return err
	})
	if err != nil {
		return "", "", err
	}

	uc.log.Info().Str("stocktake_id", in.StocktakeID).Str("asset_id", in.AssetID).
		Str("status", statusCode).Str("method", countMethod).Msg("stocktake: activo escaneado")
	return itemID, fileURL, nil
}

// ImportCounts parsea un archivo de conteos (.csv/.xlsx), normaliza cada fila
// de forma independiente y envía el lote en una sola llamada transaccional.
// Devuelve filas enviadas y aceptadas: el store descarta en silencio las que
// rechaza (ej. AssetNo desconocido) y solo el conteo es observable.
func (uc *UseCase) ImportCounts(ctx context.Context, stocktakeID, userID, originalName string, content []byte) (submitted, imported int, err error) {
	if !isGUID(stocktakeID) || !isGUID(userID) {
		return 0, 0, domain.ErrInvalidInput
	}

	rows, err := ParseCountFile(originalName, content)
	if err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}

	imported, err = uc.repo.BulkImport(ctx, stocktakeID, userID, rows)
	if err != nil {
		return len(rows), 0, err
	}

	uc.log.Info().Str("stocktake_id", stocktakeID).Int("submitted", len(rows)).
		Int("imported", imported).Msg("stocktake: importación masiva")
	return len(rows), imported, nil
}

// CloseYear cierra el año de (planta, año). Cerrar un año inexistente o ya
// cerrado es un error y se propaga tal cual; jamás crea configuración.
func (uc *UseCase) CloseYear(ctx context.Context, plantID string, year int, closedByUserID string) error {
	if !isGUID(plantID) || !isGUID(closedByUserID) {
		return domain.ErrInvalidInput
	}
	return uc.repo.CloseYear(ctx, plantID, toYear(year), closedByUserID)
}

// CarryForwardResult resultado de abrir el año siguiente.
type CarryForwardResult struct {
	FromYear       int    `json:"fromYear"`
	ToYear         int    `json:"toYear"`
	NewStocktakeID string `json:"newStocktakeId"`
}

// OpenNextYear crea el stocktake de toYear (por defecto fromYear+1)
// precargando los ítems que quedaron PENDING en fromYear. No exige que
// fromYear esté cerrado: el cierre es una transición independiente.
func (uc *UseCase) OpenNextYear(ctx context.Context, plantID string, fromYear, toYearInput int, createdByUserID string) (*CarryForwardResult, error) {
	if !isGUID(plantID) || !isGUID(createdByUserID) {
		return nil, domain.ErrInvalidInput
	}

	from := toYear(fromYear)
	to := from + 1
	if toYearInput > 0 {
		to = toYear(toYearInput)
	}

	newID, err := uc.repo.OpenNextYear(ctx, plantID, from, to, createdByUserID)
	if err != nil {
		return nil, err
	}
	return &CarryForwardResult{FromYear: from, ToYear: to, NewStocktakeID: newID}, nil
}
