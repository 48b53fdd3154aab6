package stocktake_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/asset-registry/internal/application/attachment"
	appstocktake "github.com/tu-usuario/asset-registry/internal/application/stocktake"
	"github.com/tu-usuario/asset-registry/internal/domain"
	"github.com/tu-usuario/asset-registry/internal/domain/entity"
	domstocktake "github.com/tu-usuario/asset-registry/internal/domain/stocktake"
	"github.com/tu-usuario/asset-registry/pkg/logger"
)

const (
	testPlantID = "11111111-1111-1111-1111-111111111111"
	testUserID  = "22222222-2222-2222-2222-222222222222"
	testAssetID = "33333333-3333-3333-3333-333333333333"
	testStkID   = "44444444-4444-4444-4444-444444444444"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type scanCall struct {
	stocktakeID, assetID, statusCode, userID, countMethod, noteText string
}

type fakeRepo struct {
	// get-or-create idempotente por (planta, año)
	created map[string]string
	seq     int

	// upsert de escaneos por (stocktake, activo)
	items     map[string]string
	lastScan  scanCall
	scanErr   error
	attachErr error
	images    int

	closeErr      error
	configs       map[string]*entity.StocktakeYearConfig
	bulkSubmitted []entity.StocktakeCountRow
	bulkImported  int
	bulkErr       error

	carried struct{ from, to int }
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		created: map[string]string{},
		items:   map[string]string{},
		configs: map[string]*entity.StocktakeYearConfig{},
	}
}

func (f *fakeRepo) GetOrCreate(_ context.Context, plantID string, year int, _ string) (string, error) {
	key := fmt.Sprintf("%s/%d", plantID, year)
	if id, ok := f.created[key]; ok {
		return id, nil
	}
	f.seq++
	id := fmt.Sprintf("stocktake-%d", f.seq)
	f.created[key] = id
	f.configs[key] = &entity.StocktakeYearConfig{PlantID: plantID, Year: year, IsOpen: true, StocktakeID: id}
	return id, nil
}

func (f *fakeRepo) GetConfig(_ context.Context, plantID string, year int) (*entity.StocktakeYearConfig, error) {
	return f.configs[fmt.Sprintf("%s/%d", plantID, year)], nil
}

func (f *fakeRepo) RecordScan(_ context.Context, stocktakeID, assetID, statusCode, userID, countMethod, noteText string) (string, error) {
	if f.scanErr != nil {
		return "", f.scanErr
	}
	f.lastScan = scanCall{stocktakeID, assetID, statusCode, userID, countMethod, noteText}
	key := stocktakeID + "/" + assetID
	if id, ok := f.items[key]; ok {
		return id, nil // upsert: reescanear actualiza, no duplica
	}
	id := fmt.Sprintf("item-%d", len(f.items)+1)
	f.items[key] = id
	return id, nil
}

func (f *fakeRepo) AttachImage(_ context.Context, _, _ string) (string, error) {
	if f.attachErr != nil {
		return "", f.attachErr
	}
	f.images++
	return fmt.Sprintf("img-%d", f.images), nil
}

func (f *fakeRepo) BulkImport(_ context.Context, _, _ string, items []entity.StocktakeCountRow) (int, error) {
	if f.bulkErr != nil {
		return 0, f.bulkErr
	}
	f.bulkSubmitted = items
	if f.bulkImported > 0 {
		return f.bulkImported, nil
	}
	return len(items), nil
}

func (f *fakeRepo) CloseYear(_ context.Context, plantID string, year int, _ string) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	key := fmt.Sprintf("%s/%d", plantID, year)
	cfg, ok := f.configs[key]
	if !ok {
		return domain.ErrYearNotFound
	}
	if !cfg.IsOpen {
		return domain.ErrConflict
	}
	cfg.IsOpen = false
	return nil
}

func (f *fakeRepo) OpenNextYear(_ context.Context, _ string, fromYear, toYear int, _ string) (string, error) {
	f.carried.from, f.carried.to = fromYear, toYear
	return "stocktake-nuevo", nil
}

func (f *fakeRepo) ReportSummary(context.Context, string, int) ([]entity.StocktakeSummary, error) {
	return nil, nil
}
func (f *fakeRepo) ReportDetail(context.Context, string, int, string, string) ([]entity.StocktakeReportRow, error) {
	return nil, nil
}
func (f *fakeRepo) ReportSections(context.Context, string, int, string) (a, b, c []entity.StocktakeReportRow, err error) {
	return nil, nil, nil, nil
}

// fakeFiles file store en memoria para la saga.
type fakeFiles struct {
	cleanedUp bool
	saves     int
}

func (f *fakeFiles) Save(_ context.Context, up attachment.Upload) (*attachment.SavedFile, error) {
	f.saves++
	return &attachment.SavedFile{
		FileURL: "/files/assets/" + up.OwnerID + ".jpg",
		Cleanup: func(context.Context) error { f.cleanedUp = true; return nil },
	}, nil
}

func newUseCase(repo *fakeRepo, files *fakeFiles) *appstocktake.UseCase {
	return appstocktake.NewUseCase(repo, attachment.NewSaga(files, logger.Nop()), logger.Nop())
}

func scanInput() appstocktake.ScanInput {
	return appstocktake.ScanInput{
		StocktakeID: testStkID,
		AssetID:     testAssetID,
		StatusCode:  "missing",
		CountMethod: "qrcode",
		NoteText:    "sin placa visible",
		Image:       &attachment.Upload{OriginalName: "evidencia.jpg", MimeType: "image/jpeg", Content: []byte{1, 2, 3}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// GetOrCreate
// ──────────────────────────────────────────────────────────────────────────────

// Idempotencia: dos llamadas para la misma (planta, año) devuelven el mismo
// identificador y no duplican.
func TestGetOrCreate_Idempotente(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})

	id1, err := uc.GetOrCreate(context.Background(), testPlantID, 2026, testUserID)
	require.NoError(t, err)
	id2, err := uc.GetOrCreate(context.Background(), testPlantID, 2026, testUserID)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, repo.created, 1)
}

func TestGetOrCreate_PlantaInvalida(t *testing.T) {
	uc := newUseCase(newFakeRepo(), &fakeFiles{})
	_, err := uc.GetOrCreate(context.Background(), "no-es-guid", 2026, testUserID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un año fuera de rango cae al año actual en vez de rechazarse.
func TestGetOrCreate_AnioFueraDeRango(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})
	_, err := uc.GetOrCreate(context.Background(), testPlantID, 99, testUserID)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	for key := range repo.created {
		assert.NotContains(t, key, "/99")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Scan
// ──────────────────────────────────────────────────────────────────────────────

// El alias "missing" se guarda como el código canónico NOT_COUNTED y
// "qrcode" como QR.
func TestScan_NormalizaEstadoYMetodo(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})

	itemID, fileURL, err := uc.Scan(context.Background(), testUserID, scanInput())
	require.NoError(t, err)
	assert.NotEmpty(t, itemID)
	assert.NotEmpty(t, fileURL)

	assert.Equal(t, domstocktake.StatusNotCounted, repo.lastScan.statusCode)
	assert.Equal(t, domstocktake.MethodQR, repo.lastScan.countMethod)
	assert.Equal(t, "sin placa visible", repo.lastScan.noteText)
	assert.Equal(t, 1, repo.images)
}

// Una nota que excede el máximo se recorta en un límite de carácter: nunca
// queda un multibyte partido que el JSON serialice como U+FFFD.
func TestScan_NotaLargaSeRecortaSinPartirCaracteres(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})

	in := scanInput()
	// 1201 bytes: el corte a 1000 caería en medio de una "ñ" (2 bytes).
	in.NoteText = "a" + strings.Repeat("ñ", 600)

	_, _, err := uc.Scan(context.Background(), testUserID, in)
	require.NoError(t, err)

	got := repo.lastScan.noteText
	assert.LessOrEqual(t, len(got), 1000)
	assert.True(t, utf8.ValidString(got), "la nota recortada debe seguir siendo UTF-8 válido")
	assert.Equal(t, 999, len(got), "el corte retrocede al límite del carácter anterior")
}

func TestScan_SinImagenEsInvalido(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})

	in := scanInput()
	in.Image = nil
	_, _, err := uc.Scan(context.Background(), testUserID, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.items, "nada debe llegar al store sin imagen")
}

// Reescanear el mismo activo dentro del mismo stocktake actualiza el ítem
// existente: mismo identificador, una sola fila.
func TestScan_RepetirActivoActualiza(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})

	id1, _, err := uc.Scan(context.Background(), testUserID, scanInput())
	require.NoError(t, err)

	in := scanInput()
	in.StatusCode = "ok"
	id2, _, err := uc.Scan(context.Background(), testUserID, in)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, repo.items, 1)
	assert.Equal(t, domstocktake.StatusCounted, repo.lastScan.statusCode)
}

// Si la escritura relacional falla tras guardar el archivo, la compensación
// borra el archivo y el error original es el que surge.
func TestScan_FalloRelacionalCompensa(t *testing.T) {
	repo := newFakeRepo()
	repo.scanErr = errors.New("stocktake cerrado")
	files := &fakeFiles{}
	uc := newUseCase(repo, files)

	_, _, err := uc.Scan(context.Background(), testUserID, scanInput())
	require.ErrorIs(t, err, repo.scanErr)
	assert.True(t, files.cleanedUp, "el archivo huérfano debe limpiarse")
}

// También compensa si falla el alta de la imagen (el ítem ya existe pero la
// referencia no pudo escribirse).
func TestScan_FalloAlAdjuntarImagenCompensa(t *testing.T) {
	repo := newFakeRepo()
	repo.attachErr = errors.New("fk imagen")
	files := &fakeFiles{}
	uc := newUseCase(repo, files)

	_, _, err := uc.Scan(context.Background(), testUserID, scanInput())
	require.ErrorIs(t, err, repo.attachErr)
	assert.True(t, files.cleanedUp)
}

// ──────────────────────────────────────────────────────────────────────────────
// CloseYear y carry-forward
// ──────────────────────────────────────────────────────────────────────────────

// Cerrar un año sin configuración es un error y no crea nada.
func TestCloseYear_SinConfiguracion(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})

	err := uc.CloseYear(context.Background(), testPlantID, 2026, testUserID)
	require.ErrorIs(t, err, domain.ErrYearNotFound)
	assert.Empty(t, repo.configs, "el cierre jamás crea configuración")
}

func TestCloseYear_DobleCierreEsConflicto(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})

	_, err := uc.GetOrCreate(context.Background(), testPlantID, 2026, testUserID)
	require.NoError(t, err)
	require.NoError(t, uc.CloseYear(context.Background(), testPlantID, 2026, testUserID))

	err = uc.CloseYear(context.Background(), testPlantID, 2026, testUserID)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestOpenNextYear_DefaultEsAnioSiguiente(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})

	res, err := uc.OpenNextYear(context.Background(), testPlantID, 2026, 0, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 2026, res.FromYear)
	assert.Equal(t, 2027, res.ToYear)
	assert.Equal(t, 2026, repo.carried.from)
	assert.Equal(t, 2027, repo.carried.to)
	assert.Equal(t, "stocktake-nuevo", res.NewStocktakeID)
}

func TestOpenNextYear_ToYearExplicito(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, &fakeFiles{})

	res, err := uc.OpenNextYear(context.Background(), testPlantID, 2026, 2030, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 2030, res.ToYear)
}

// ──────────────────────────────────────────────────────────────────────────────
// ImportCounts
// ──────────────────────────────────────────────────────────────────────────────

func TestImportCounts_ExtensionNoSoportada(t *testing.T) {
	uc := newUseCase(newFakeRepo(), &fakeFiles{})
	_, _, err := uc.ImportCounts(context.Background(), testStkID, testUserID, "conteo.pdf", []byte("x"))
	require.ErrorIs(t, err, domain.ErrUnsupportedExt)
}

// El store puede aceptar menos filas de las enviadas; solo el conteo es
// observable.
func TestImportCounts_AceptadasPuedeSerMenor(t *testing.T) {
	repo := newFakeRepo()
	repo.bulkImported = 1
	uc := newUseCase(repo, &fakeFiles{})

	csv := "AssetNo,Status\n4000001,ok\n4000002,missing\n"
	submitted, imported, err := uc.ImportCounts(context.Background(), testStkID, testUserID, "conteo.csv", []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, submitted)
	assert.Equal(t, 1, imported)

	// Cada fila llegó normalizada al store.
	require.Len(t, repo.bulkSubmitted, 2)
	assert.Equal(t, domstocktake.StatusCounted, repo.bulkSubmitted[0].StatusCode)
	assert.Equal(t, domstocktake.StatusNotCounted, repo.bulkSubmitted[1].StatusCode)
	assert.Equal(t, domstocktake.MethodExcel, repo.bulkSubmitted[0].CountMethod)
}
