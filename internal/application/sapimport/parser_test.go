package sapimport_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/asset-registry/internal/application/sapimport"
)

func writeFeed(t *testing.T, name, content string) string {
	t.Helper()
	full := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestParseFeedFile_PipeConEncabezados(t *testing.T) {
	full := writeFeed(t, "ZFI001.txt",
		"AssetNo|Description|CostCenter\n"+
			"4000001|Bomba centrífuga|CC10\n"+
			"4000002|Motor 5HP|CC11\n"+
			"4000003|Tablero eléctrico|CC10\n")

	rows, err := sapimport.ParseFeedFile(full)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "4000001", rows[0]["AssetNo"])
	assert.Equal(t, "Motor 5HP", rows[1]["Description"])
	assert.Equal(t, "CC10", rows[2]["CostCenter"])
}

// Las comillas del feed son texto literal (medidas tipo 10" 8"), jamás
// agrupan campos: el quoting está deshabilitado por completo.
func TestParseFeedFile_ComillasLiterales(t *testing.T) {
	full := writeFeed(t, "ZFI001.txt",
		"AssetNo|Description\n"+
			`4000010|Tubería 10" 8"`+"\n"+
			`4000011|"Caldera" auxiliar|extra`+"\n")

	rows, err := sapimport.ParseFeedFile(full)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, `Tubería 10" 8"`, rows[0]["Description"])
	// Campos sobrantes respecto al encabezado se descartan.
	assert.Equal(t, `"Caldera" auxiliar`, rows[1]["Description"])
}

func TestParseFeedFile_BOMFilasVaciasYTrim(t *testing.T) {
	full := writeFeed(t, "ZFI001.txt",
		"\uFEFFAssetNo|Description\n"+
			"\n"+
			"  4000020  |  Compresor  \n"+
			"   \n")

	rows, err := sapimport.ParseFeedFile(full)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "4000020", rows[0]["AssetNo"])
	assert.Equal(t, "Compresor", rows[0]["Description"])
}

func TestParseFeedFile_FilaCortaSinClavesFaltantes(t *testing.T) {
	full := writeFeed(t, "ZFI001.txt",
		"AssetNo|Description|CostCenter\n"+
			"4000030|Solo dos campos\n")

	rows, err := sapimport.ParseFeedFile(full)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	_, ok := rows[0]["CostCenter"]
	assert.False(t, ok, "la columna sin valor no debe aparecer en el mapa")
}

func TestParseFeedFile_ArchivoInexistente(t *testing.T) {
	_, err := sapimport.ParseFeedFile(filepath.Join(t.TempDir(), "no-existe.txt"))
	require.Error(t, err)
}

func TestParseFeedFile_ArchivoVacio(t *testing.T) {
	full := writeFeed(t, "ZFI001.txt", "")
	_, err := sapimport.ParseFeedFile(full)
	require.Error(t, err)
}
