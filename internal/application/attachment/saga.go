// Package attachment implementa el protocolo guardar-luego-referenciar que
// comparten todas las subidas de evidencia fotográfica.
//
// El file store y la base relacional no participan de una transacción común,
// así que el orden es fijo: (1) escribir el binario y obtener una referencia
// estable; (2) escribir la fila que la referencia; (3) si (2) falla,
// compensar borrando el archivo y propagar el error original. Un archivo
// huérfano es un residuo barato y recolectable; una fila apuntando a un
// archivo inexistente no lo es.
package attachment

import (
	"context"

	"github.com/tu-usuario/asset-registry/internal/domain"
	"github.com/tu-usuario/asset-registry/pkg/logger"
)

// Upload un binario recibido por multipart listo para guardar.
type Upload struct {
	OwnerID      string // id lógico del dueño (asset o ítem) usado para nombrar
	OriginalName string
	MimeType     string
	Content      []byte
}

// SavedFile acción completada con su compensación: la referencia estable más
// la capacidad de liberar el archivo si el paso relacional falla.
type SavedFile struct {
	FileURL string
	Cleanup func(ctx context.Context) error
}

// FileStore colaborador de almacenamiento binario (filesystem local u otro).
type FileStore interface {
	// Save persiste el contenido y devuelve la referencia + compensación.
	// Debe fallar si el buffer está vacío o los bytes no quedaron en disco.
	Save(ctx context.Context, up Upload) (*SavedFile, error)
}

// Saga coordina una subida con su escritura relacional.
type Saga struct {
	files FileStore
	log   *logger.Logger
}

// NewSaga construye la saga sobre un file store.
func NewSaga(files FileStore, log *logger.Logger) *Saga {
	return &Saga{files: files, log: log}
}

// Attach ejecuta el protocolo: guarda el archivo y luego invoca link con la
// referencia para que el llamador haga su escritura relacional. Si link
// falla, borra el archivo (mejor esfuerzo: un fallo de limpieza se traga y
// solo se loguea) y devuelve el error original de link sin envolver.
func (s *Saga) Attach(ctx context.Context, up Upload, link func(ctx context.Context, fileURL string) error) (string, error) {
	if len(up.Content) == 0 {
		return "", domain.ErrEmptyFile
	}

	saved, err := s.files.Save(ctx, up)
	if err != nil {
		return "", err
	}

	if err := link(ctx, saved.FileURL); err != nil {
		if saved.Cleanup != nil {
			if cerr := saved.Cleanup(ctx); cerr != nil {
				s.log.Warn().Err(cerr).Str("file_url", saved.FileURL).
					Msg("compensación: no se pudo borrar el archivo huérfano")
			}
		}
		return "", err
	}

	return saved.FileURL, nil
}
