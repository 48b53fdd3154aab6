package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/asset-registry/internal/application/attachment"
	"github.com/tu-usuario/asset-registry/internal/domain"
	"github.com/tu-usuario/asset-registry/internal/infrastructure/storage"
)

func newStore(t *testing.T) (*storage.LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/files/assets")
	require.NoError(t, err)
	return store, dir
}

// findSaved localiza el único archivo escrito bajo la raíz.
func findSaved(t *testing.T, root string) string {
	t.Helper()
	var found string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			found = p
		}
		return err
	})
	require.NoError(t, err)
	require.NotEmpty(t, found, "debe existir un archivo guardado")
	return found
}

func TestSave_EscribeYDevuelveReferencia(t *testing.T) {
	store, dir := newStore(t)

	saved, err := store.Save(context.Background(), attachment.Upload{
		OwnerID:      "A1B2",
		OriginalName: "Foto Activo.JPG",
		MimeType:     "image/jpeg",
		Content:      []byte{0xFF, 0xD8, 0xFF},
	})
	require.NoError(t, err)

	full := findSaved(t, dir)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data, "los bytes deben estar en disco")

	// Referencia pública con estructura <base>/<yyyy>/<mm>/<archivo>.
	yyyy := time.Now().Format("2006")
	assert.True(t, strings.HasPrefix(saved.FileURL, "/files/assets/"+yyyy+"/"), saved.FileURL)
	assert.True(t, strings.HasSuffix(saved.FileURL, ".jpg"), "extensión en minúsculas: %s", saved.FileURL)
}

func TestSave_CleanupBorraElArchivo(t *testing.T) {
	store, dir := newStore(t)

	saved, err := store.Save(context.Background(), attachment.Upload{
		OwnerID: "a1",
		Content: []byte("x"),
	})
	require.NoError(t, err)

	full := findSaved(t, dir)
	require.NoError(t, saved.Cleanup(context.Background()))

	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err), "tras la compensación la referencia no debe resolver")
}

func TestSave_BufferVacio(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.Save(context.Background(), attachment.Upload{OwnerID: "a1"})
	require.ErrorIs(t, err, domain.ErrEmptyFile)
}

func TestSave_ExtensionPorMimeCuandoNoHayNombre(t *testing.T) {
	store, _ := newStore(t)
	saved, err := store.Save(context.Background(), attachment.Upload{
		OwnerID:  "a1",
		MimeType: "image/png",
		Content:  []byte("png"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(saved.FileURL, ".png"), saved.FileURL)
}

func TestNewLocalStore_SinRaizEsError(t *testing.T) {
	_, err := storage.NewLocalStore("  ", "/files/assets")
	require.Error(t, err)
}
