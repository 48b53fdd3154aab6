// Package storage implementa los proveedores de almacenamiento de imágenes
// de evidencia. El proveedor se elige por configuración; hoy el único
// soportado es el filesystem local ("local").
package storage

import (
	"fmt"

	"github.com/tu-usuario/asset-registry/internal/application/attachment"
	"github.com/tu-usuario/asset-registry/pkg/config"
)

// StaticMount ruta pública + directorio físico para montar el servido
// estático de imágenes en el servidor HTTP.
type StaticMount struct {
	RoutePath string
	DirPath   string
}

// NewFileStore resuelve el proveedor configurado.
func NewFileStore(cfg config.StorageConfig) (attachment.FileStore, *StaticMount, error) {
	switch cfg.Provider {
	case "", "local":
		store, err := NewLocalStore(cfg.ImageDir, cfg.PublicBase)
		if err != nil {
			return nil, nil, err
		}
		return store, &StaticMount{RoutePath: store.publicBase, DirPath: store.rootDir}, nil
	default:
		return nil, nil, fmt.Errorf("proveedor de almacenamiento no soportado: %q", cfg.Provider)
	}
}
