// Package jobs contiene los procesos programados de la aplicación. Hoy solo
// existe la corrida nocturna del import SAP; el cron corre en la zona horaria
// configurada y cada job protege su propia exclusión.
package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tu-usuario/asset-registry/internal/application/sapimport"
	"github.com/tu-usuario/asset-registry/pkg/config"
	"github.com/tu-usuario/asset-registry/pkg/logger"
)

// ErrRunInProgress ya hay una corrida del import en curso.
var ErrRunInProgress = fmt.Errorf("import SAP: ya hay una corrida en curso")

// runTimeout tope duro de una corrida completa (ingesta + sync + purga).
const runTimeout = 30 * time.Minute

// ImportJob corrida programada del import SAP con exclusión single-flight:
// si el disparo llega con una corrida aún en curso, se descarta y se registra,
// nunca se encola ni se solapa.
type ImportJob struct {
	svc     *sapimport.Service
	log     *logger.Logger
	running atomic.Bool
}

// NewImportJob construye el job.
func NewImportJob(svc *sapimport.Service, log *logger.Logger) *ImportJob {
	return &ImportJob{svc: svc, log: log}
}

// TryRun ejecuta una corrida si no hay otra en curso; si la hay devuelve
// ErrRunInProgress sin tocar el servicio. Es la única puerta de entrada a
// Service.Run, compartida por el cron y el disparo manual por HTTP.
func (j *ImportJob) TryRun(ctx context.Context) (*sapimport.RunResult, error) {
	if !j.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer j.running.Store(false)
	return j.svc.Run(ctx)
}

// runScheduled envoltura del disparo por cron: registra resultado o descarte.
func (j *ImportJob) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	started := time.Now()
	res, err := j.TryRun(ctx)
	if err == ErrRunInProgress {
		j.log.Warn().Msg("import SAP: disparo programado descartado, corrida anterior aún en curso")
		return
	}
	if err != nil {
		j.log.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("import SAP: corrida programada terminó con error")
		return
	}
	if !res.OK() {
		// Terminó sin excepción pero ningún archivo entró: fallo igual.
		j.log.Error().
			Int("files", res.Summary.TotalFiles).
			Int("failures", res.Summary.FailureCount).
			Dur("elapsed", time.Since(started)).
			Msg("import SAP: corrida programada sin ningún archivo ingerido")
		return
	}
	j.log.Info().
		Int("files", res.Summary.TotalFiles).
		Int("success", res.Summary.SuccessCount).
		Int("failures", res.Summary.FailureCount).
		Int("purged", res.StagingPurge.DeletedRows).
		Bool("ok", res.OK()).
		Dur("elapsed", time.Since(started)).
		Msg("import SAP: corrida programada completada")
}

// Schedule registra el job en un cron nuevo según la configuración y lo
// arranca. Devuelve el cron para que main pueda detenerlo en el shutdown.
// Si el import está deshabilitado no programa nada y devuelve nil.
func Schedule(cfg config.SAPConfig, job *ImportJob, log *logger.Logger) (*cron.Cron, error) {
	if !cfg.ImportEnabled {
		log.Info().Msg("import SAP: deshabilitado por configuración, no se programa")
		return nil, nil
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("import SAP: zona horaria %q inválida: %w", cfg.Timezone, err)
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.Cron, job.runScheduled); err != nil {
		return nil, fmt.Errorf("import SAP: expresión cron %q inválida: %w", cfg.Cron, err)
	}
	c.Start()
	log.Info().Str("cron", cfg.Cron).Str("tz", cfg.Timezone).Msg("import SAP: corrida nocturna programada")
	return c, nil
}
