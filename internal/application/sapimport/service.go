// Package sapimport orquesta la corrida de importación del feed de activos
// fijos de SAP: ingesta de archivos a staging, sincronización al registro
// canónico y purga de retención del staging.
package sapimport

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tu-usuario/asset-registry/internal/domain/repository"
	"github.com/tu-usuario/asset-registry/pkg/logger"
)

// Cota dura de rondas de purga: válvula de seguridad contra un loop sin fin
// si el predicado de borrado llegara a portarse mal.
const maxPurgeRounds = 100

// Tope de filas por ronda de purga aunque la config pida más.
const maxPurgeBatchSize = 100000

var (
	// ErrMissingDropDir la corrida no puede empezar sin directorio de origen.
	ErrMissingDropDir = errors.New("sapimport: falta SAP_DROP_DIR")
	// ErrMissingFiles la corrida no puede empezar sin lista de archivos.
	ErrMissingFiles = errors.New("sapimport: falta SAP_FILES")
)

// FileResult resultado de un archivo de la corrida.
type FileResult struct {
	OK            bool   `json:"ok"`
	File          string `json:"file"`
	Rows          int    `json:"rows,omitempty"`
	ImportBatchID string `json:"importBatchId,omitempty"`
	Message       string `json:"message,omitempty"`
}

// SyncOutcome resultado de la fase de sincronización.
type SyncOutcome struct {
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Message string `json:"message,omitempty"`

	SourceActiveRows  int `json:"sourceActiveRows,omitempty"`
	InsertedAssets    int `json:"insertedAssets,omitempty"`
	UpdatedAssets     int `json:"updatedAssets,omitempty"`
	DeactivatedAssets int `json:"deactivatedAssets,omitempty"`
	ActiveAssetsTotal int `json:"activeAssetsTotal,omitempty"`
}

// PurgeResult resultado (siempre advisory) de la purga de staging.
type PurgeResult struct {
	OK          bool   `json:"ok"`
	RetainDays  int    `json:"retainDays"`
	BatchSize   int    `json:"batchSize"`
	Rounds      int    `json:"rounds,omitempty"`
	DeletedRows int    `json:"deletedRows"`
	Message     string `json:"message,omitempty"`
}

// Summary totales de la corrida.
type Summary struct {
	TotalFiles   int `json:"totalFiles"`
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
}

// RunResult resumen estructurado de una corrida completa.
type RunResult struct {
	Results      []FileResult `json:"results"`
	Summary      Summary      `json:"summary"`
	AssetsSync   SyncOutcome  `json:"assetsSync"`
	StagingPurge PurgeResult  `json:"stagingPurge"`
}

// OK una corrida es exitosa solo si al menos un archivo entró: los llamadores
// deben tratar cero éxitos como fallo aunque ninguna subllamada haya lanzado.
func (r *RunResult) OK() bool {
	return r.Summary.SuccessCount > 0
}

// Options parámetros de la corrida.
type Options struct {
	DropDir           string
	Files             []string
	RetentionDays     int
	PurgeBatchSize    int
	DeactivateMissing bool // default false: claves ausentes del feed no se desactivan
}

// Service secuencia ingesta -> sync -> purga sobre el puerto de staging.
type Service struct {
	staging repository.StagingRepository
	opts    Options
	log     *logger.Logger
}

// NewService construye el servicio.
func NewService(staging repository.StagingRepository, opts Options, log *logger.Logger) *Service {
	return &Service{staging: staging, opts: opts, log: log}
}

// Run ejecuta una corrida completa:
//  1. ingesta todos los archivos configurados, aislando fallos por archivo;
//  2. si al menos uno entró, sincroniza al registro (fallo aquí es fatal y
//     se devuelve al llamador junto con el resumen);
//  3. siempre purga staging, pase lo que pase con el sync (fallo advisory).
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	if s.opts.DropDir == "" {
		return nil, ErrMissingDropDir
	}
	if len(s.opts.Files) == 0 {
		return nil, ErrMissingFiles
	}

	res := &RunResult{Results: make([]FileResult, 0, len(s.opts.Files))}

	for _, fileName := range s.opts.Files {
		res.Results = append(res.Results, s.ingestFile(ctx, fileName))
	}

	for _, fr := range res.Results {
		if fr.OK {
			res.Summary.SuccessCount++
		}
	}
	res.Summary.TotalFiles = len(res.Results)
	res.Summary.FailureCount = res.Summary.TotalFiles - res.Summary.SuccessCount

	var syncErr error
	if res.Summary.SuccessCount > 0 {
		res.AssetsSync, syncErr = s.sync(ctx)
	} else {
		res.AssetsSync = SyncOutcome{
			Skipped: true,
			Message: "ningún archivo del feed entró en esta corrida",
		}
	}

	// La purga corre siempre; su fallo nunca tumba una corrida exitosa.
	res.StagingPurge = s.purge(ctx)

	if syncErr != nil {
		return res, syncErr
	}
	return res, nil
}

// ingestFile parsea un archivo y lo carga en staging. Cualquier fallo
// (archivo ausente, parseo, carga) queda aislado en el resultado del archivo
// y no aborta el resto de la corrida.
func (s *Service) ingestFile(ctx context.Context, fileName string) FileResult {
	fullPath := filepath.Join(s.opts.DropDir, fileName)

	rows, err := ParseFeedFile(fullPath)
	if err != nil {
		s.log.Warn().Err(err).Str("file", fileName).Msg("sap import: archivo falló")
		return FileResult{File: fileName, Message: err.Error()}
	}

	batchID, err := s.staging.LoadBatch(ctx, fileName, rows)
	if err != nil {
		s.log.Warn().Err(err).Str("file", fileName).Msg("sap import: carga a staging falló")
		return FileResult{File: fileName, Message: err.Error()}
	}

	s.log.Info().Str("file", fileName).Int("rows", len(rows)).Str("batch_id", batchID).
		Msg("sap import: archivo cargado")
	return FileResult{OK: true, File: fileName, Rows: len(rows), ImportBatchID: batchID}
}

func (s *Service) sync(ctx context.Context) (SyncOutcome, error) {
	r, err := s.staging.SyncToAssets(ctx, s.opts.DeactivateMissing)
	if err != nil {
		return SyncOutcome{Message: err.Error()}, fmt.Errorf("sincronizar registro de activos: %w", err)
	}
	return SyncOutcome{
		OK:                true,
		SourceActiveRows:  r.SourceActiveRows,
		InsertedAssets:    r.InsertedAssets,
		UpdatedAssets:     r.UpdatedAssets,
		DeactivatedAssets: r.DeactivatedAssets,
		ActiveAssetsTotal: r.ActiveAssetsTotal,
	}, nil
}

// purge borra staging envejecido en rondas acotadas para no retener locks
// sobre toda la tabla. Termina cuando una ronda borra menos que el batch o al
// llegar a la cota de rondas. Un error del store se reporta como fallo
// advisory: el crecimiento de staging es un tema operativo, no de corrección.
func (s *Service) purge(ctx context.Context) PurgeResult {
	retainDays := positiveOr(s.opts.RetentionDays, 3)
	batchSize := positiveOr(s.opts.PurgeBatchSize, 50000)
	if batchSize > maxPurgeBatchSize {
		batchSize = maxPurgeBatchSize
	}

	out := PurgeResult{RetainDays: retainDays, BatchSize: batchSize}

	for i := 0; i < maxPurgeRounds; i++ {
		out.Rounds++
		deleted, err := s.staging.Purge(ctx, retainDays, batchSize)
		if err != nil {
			// Ej.: la función de purga todavía no está desplegada.
			s.log.Warn().Err(err).Msg("sap import: purga de staging falló (advisory)")
			out.Message = err.Error()
			return out
		}
		out.DeletedRows += deleted
		if deleted < batchSize {
			break
		}
	}

	out.OK = true
	return out
}

func positiveOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
