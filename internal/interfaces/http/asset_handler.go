package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/asset-registry/internal/application/assets"
	"github.com/tu-usuario/asset-registry/internal/application/dto"
)

// AssetHandler maneja las consultas del registro canónico de activos (protegido).
type AssetHandler struct {
	uc *assets.UseCase
}

// NewAssetHandler construye el handler.
func NewAssetHandler(uc *assets.UseCase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

// List godoc
// @Summary      Listar activos activos del registro
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int     false  "Límite de filas"  default(500)
// @Param        search  query  string  false  "Búsqueda libre (assetNo / descripción)"
// @Success      200     {array}  dto.AssetResponse
// @Router       /api/assets [get]
func (h *AssetHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.QueryInt("limit", 0), c.Query("search"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromAssets(out))
}

// ListWithoutImage godoc
// @Summary      Activos sin foto registrada
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AssetResponse
// @Router       /api/assets/no-image [get]
func (h *AssetHandler) ListWithoutImage(c *fiber.Ctx) error {
	out, err := h.uc.ListWithoutImage(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromAssets(out))
}

// Detail godoc
// @Summary      Detalle de un activo con sus fotos
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [get]
func (h *AssetHandler) Detail(c *fiber.Ctx) error {
	asset, images, err := h.uc.Detail(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromAssetDetail(asset, images))
}

// Mismatches godoc
// @Summary      Discrepancias entre el feed de SAP y el registro canónico
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int     false  "Límite de filas"
// @Param        search  query  string  false  "Búsqueda libre"
// @Success      200     {array}  dto.MismatchResponse
// @Router       /api/assets/sap-mismatch [get]
func (h *AssetHandler) Mismatches(c *fiber.Ctx) error {
	out, err := h.uc.SapMismatches(c.Context(), c.QueryInt("limit", 0), c.Query("search"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromMismatches(out))
}

// UploadImage godoc
// @Summary      Subir una foto del activo
// @Description  Multipart: campo "image" + isPrimary (opcional).
// @Tags         assets
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      201  {object}  dto.UploadImageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/images [post]
func (h *AssetHandler) UploadImage(c *fiber.Ctx) error {
	assetID := c.Params("id")

	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_IMAGE", Message: "el campo image es obligatorio"})
	}
	up, err := readUpload(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_IMAGE", Message: err.Error()})
	}
	isPrimary := c.FormValue("isPrimary") == "true"

	imageID, fileURL, err := h.uc.UploadImage(c.Context(), assetID, isPrimary, *up)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadImageResponse{ImageID: imageID, FileURL: fileURL})
}
