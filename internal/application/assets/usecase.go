// Package assets expone las lecturas del registro canónico de activos y la
// subida manual de fotos de activo.
package assets

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tu-usuario/asset-registry/internal/application/attachment"
	"github.com/tu-usuario/asset-registry/internal/domain"
	"github.com/tu-usuario/asset-registry/internal/domain/entity"
	"github.com/tu-usuario/asset-registry/internal/domain/repository"
)

// Tope de filas para listados/reportes ad hoc.
const maxListRows = 20000

// UseCase lecturas del registro + alta de fotos.
type UseCase struct {
	repo repository.AssetRepository
	saga *attachment.Saga
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.AssetRepository, saga *attachment.Saga) *UseCase {
	return &UseCase{repo: repo, saga: saga}
}

func isGUID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

func clampLimit(v, def int) int {
	if v <= 0 {
		return def
	}
	if v > maxListRows {
		return maxListRows
	}
	return v
}

// List activos del registro (filtro de búsqueda opcional).
func (uc *UseCase) List(ctx context.Context, limit int, search string) ([]entity.Asset, error) {
	return uc.repo.List(ctx, clampLimit(limit, 1000), strings.TrimSpace(search))
}

// ListWithoutImage activos sin foto registrada.
func (uc *UseCase) ListWithoutImage(ctx context.Context) ([]entity.Asset, error) {
	return uc.repo.ListWithoutImage(ctx)
}

// Detail un activo con sus imágenes.
func (uc *UseCase) Detail(ctx context.Context, assetID string) (*entity.Asset, []entity.AssetImage, error) {
	if !isGUID(assetID) {
		return nil, nil, domain.ErrInvalidInput
	}
	return uc.repo.Detail(ctx, assetID)
}

// SapMismatches discrepancias entre el feed SAP y el registro.
func (uc *UseCase) SapMismatches(ctx context.Context, limit int, search string) ([]entity.AssetMismatch, error) {
	return uc.repo.SapMismatches(ctx, clampLimit(limit, 1000), strings.TrimSpace(search))
}

// UploadImage guarda la foto de un activo con el mismo protocolo
// guardar-luego-referenciar del escaneo: si el alta de la fila falla, el
// archivo se limpia y sube el error original.
func (uc *UseCase) UploadImage(ctx context.Context, assetID string, isPrimary bool, up attachment.Upload) (imageID, fileURL string, err error) {
	if !isGUID(assetID) {
		return "", "", domain.ErrInvalidInput
	}
	if up.OwnerID == "" {
		up.OwnerID = assetID
	}

	fileURL, err = uc.saga.Attach(ctx, up, func(ctx context.Context, fileURL string) error {
		id, err := uc.repo.AddImage(ctx, assetID, fileURL, isPrimary)
		if err != nil {
			return err
		}
		imageID = id
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return imageID, fileURL, nil
}
