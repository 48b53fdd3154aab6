package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/asset-registry/internal/application/dto"
	"github.com/tu-usuario/asset-registry/internal/application/sapimport"
	"github.com/tu-usuario/asset-registry/internal/jobs"
)

// ImportHandler dispara manualmente la corrida del import SAP (solo admin).
type ImportHandler struct {
	job *jobs.ImportJob
}

// NewImportHandler construye el handler.
func NewImportHandler(job *jobs.ImportJob) *ImportHandler {
	return &ImportHandler{job: job}
}

// Run godoc
// @Summary      Ejecutar una corrida completa del import SAP
// @Description  Ingesta de archivos + sincronización + purga de staging. Si ya
// @Description  hay una corrida en curso responde 409 sin encolar nada.
// @Tags         sap-import
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  sapimport.RunResult
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sap-import/run [post]
func (h *ImportHandler) Run(c *fiber.Ctx) error {
	res, err := h.job.TryRun(c.Context())
	if err != nil {
		if errors.Is(err, jobs.ErrRunInProgress) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RUN_IN_PROGRESS", Message: "ya hay una corrida del import en curso"})
		}
		if errors.Is(err, sapimport.ErrMissingDropDir) || errors.Is(err, sapimport.ErrMissingFiles) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISCONFIGURED", Message: err.Error()})
		}
		// La sincronización falló; la corrida igual deja resultados parciales
		// (ingesta y purga ya ocurrieron) que el operador necesita ver.
		if res != nil {
			return c.Status(fiber.StatusBadGateway).JSON(res)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	// Cero archivos ingeridos es un fallo de la corrida aunque ninguna
	// subllamada haya devuelto error; el resumen igual se entrega.
	if !res.OK() {
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}
	return c.JSON(res)
}
