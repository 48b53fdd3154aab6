package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/asset-registry/internal/application/attachment"
	"github.com/tu-usuario/asset-registry/internal/domain"
)

// LocalStore guarda las imágenes en el filesystem local bajo
// <rootDir>/<yyyy>/<mm>/ y las expone bajo publicBase con la misma
// estructura. Save solo devuelve la referencia cuando los bytes ya
// quedaron en disco; la capacidad de limpieza borra el archivo exacto.
type LocalStore struct {
	rootDir    string
	publicBase string
}

// NewLocalStore valida la configuración y construye el proveedor local.
func NewLocalStore(rootDir, publicBase string) (*LocalStore, error) {
	rootDir = strings.TrimSpace(rootDir)
	if rootDir == "" {
		return nil, fmt.Errorf("storage local: falta ASSET_IMAGE_DIR")
	}
	base := strings.TrimSpace(publicBase)
	base = "/" + strings.Trim(base, "/")
	return &LocalStore{rootDir: rootDir, publicBase: base}, nil
}

var unsafeNameRe = regexp.MustCompile(`[^a-z0-9._-]+`)

// safeNamePart sanea un fragmento para usarlo en el nombre de archivo.
func safeNamePart(v, fallback string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	s = unsafeNameRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallback
	}
	return s
}

var mimeExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
}

// detectExt extensión por nombre original si es razonable, si no por MIME.
func detectExt(originalName, mimeType string) string {
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(originalName)))
	if ext != "" && len(ext) <= 10 {
		return ext
	}
	if e, ok := mimeExt[strings.ToLower(strings.TrimSpace(mimeType))]; ok {
		return e
	}
	return ".bin"
}

// Save escribe el binario y devuelve la referencia pública más la
// compensación que borra el archivo.
func (s *LocalStore) Save(_ context.Context, up attachment.Upload) (*attachment.SavedFile, error) {
	if len(up.Content) == 0 {
		return nil, domain.ErrEmptyFile
	}

	now := time.Now()
	yyyy := now.Format("2006")
	mm := now.Format("01")

	fileName := fmt.Sprintf("%s-%d-%s%s",
		safeNamePart(up.OwnerID, "asset"),
		now.UnixMilli(),
		uuid.NewString()[:8],
		detectExt(up.OriginalName, up.MimeType),
	)

	fullDir := filepath.Join(s.rootDir, yyyy, mm)
	fullPath := filepath.Join(fullDir, fileName)

	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de imágenes: %w", err)
	}
	if err := os.WriteFile(fullPath, up.Content, 0o644); err != nil {
		return nil, fmt.Errorf("escribir imagen: %w", err)
	}

	return &attachment.SavedFile{
		FileURL: path.Join(s.publicBase, yyyy, mm, fileName),
		Cleanup: func(context.Context) error {
			return os.Remove(fullPath)
		},
	}, nil
}
