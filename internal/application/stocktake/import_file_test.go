package stocktake_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appstocktake "github.com/tu-usuario/asset-registry/internal/application/stocktake"
	"github.com/tu-usuario/asset-registry/internal/domain"
	domstocktake "github.com/tu-usuario/asset-registry/internal/domain/stocktake"
)

// ──────────────────────────────────────────────────────────────────────────────
// CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestParseCountFile_CSVConAlias(t *testing.T) {
	csv := "Asset Number,Result,Remark,Source\n" +
		"4000001,ok,,qr\n" +
		"4000002,missing,sin placa,\n"

	rows, err := appstocktake.ParseCountFile("conteo.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "4000001", rows[0].AssetNo)
	assert.Equal(t, domstocktake.StatusCounted, rows[0].StatusCode)
	assert.Equal(t, domstocktake.MethodQR, rows[0].CountMethod)

	assert.Equal(t, domstocktake.StatusNotCounted, rows[1].StatusCode)
	assert.Equal(t, "sin placa", rows[1].NoteText)
	// Sin método explícito, la importación masiva asume EXCEL.
	assert.Equal(t, domstocktake.MethodExcel, rows[1].CountMethod)
}

// Encabezados en español con tildes casan con los mismos alias.
func TestParseCountFile_EncabezadosConTildes(t *testing.T) {
	csv := "Número Activo,Estado,Nota,Método\n" +
		"4000010,dañado,golpe lateral,manual\n"

	rows, err := appstocktake.ParseCountFile("conteo.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "4000010", rows[0].AssetNo)
	assert.Equal(t, "golpe lateral", rows[0].NoteText)
	assert.Equal(t, domstocktake.MethodManual, rows[0].CountMethod)
}

// Las filas sin AssetNo se saltan en silencio.
func TestParseCountFile_FilasSinActivoSeSaltan(t *testing.T) {
	csv := "AssetNo,Status\n" +
		",ok\n" +
		"4000001,ok\n"

	rows, err := appstocktake.ParseCountFile("conteo.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "4000001", rows[0].AssetNo)
}

// Sin extensión se asume texto delimitado.
func TestParseCountFile_SinExtension(t *testing.T) {
	rows, err := appstocktake.ParseCountFile("conteo", []byte("AssetNo\n4000001\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// XLSX
// ──────────────────────────────────────────────────────────────────────────────

func buildXlsx(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, val))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseCountFile_XLSX(t *testing.T) {
	content := buildXlsx(t, [][]interface{}{
		{"AssetNo", "StatusCode", "NoteText", "CountMethod"},
		{"4000001", "lost", "", ""},
		{"4000002", "", "ok en bodega", "barcode"},
	})

	rows, err := appstocktake.ParseCountFile("conteo.xlsx", content)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domstocktake.StatusNotCounted, rows[0].StatusCode)
	// Estado vacío cae al default COUNTED.
	assert.Equal(t, domstocktake.StatusCounted, rows[1].StatusCode)
	assert.Equal(t, domstocktake.MethodBarcode, rows[1].CountMethod)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestParseCountFile_ExtensionNoSoportada(t *testing.T) {
	_, err := appstocktake.ParseCountFile("conteo.pdf", []byte("x"))
	require.ErrorIs(t, err, domain.ErrUnsupportedExt)
}

func TestParseCountFile_Vacio(t *testing.T) {
	_, err := appstocktake.ParseCountFile("conteo.csv", nil)
	require.ErrorIs(t, err, domain.ErrEmptyFile)
}
