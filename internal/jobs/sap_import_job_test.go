package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/asset-registry/internal/application/sapimport"
	"github.com/tu-usuario/asset-registry/internal/domain/repository"
	"github.com/tu-usuario/asset-registry/internal/jobs"
	"github.com/tu-usuario/asset-registry/pkg/logger"
)

// blockingStaging repositorio fake cuya purga se queda bloqueada hasta que el
// test la libere, para mantener una corrida "en curso".
type blockingStaging struct {
	enter   chan struct{} // señala que la corrida llegó a la purga
	release chan struct{} // el test libera la corrida
}

func (b *blockingStaging) LoadBatch(context.Context, string, []map[string]string) (string, error) {
	return "", context.Canceled
}

func (b *blockingStaging) Purge(ctx context.Context, retainDays, batchSize int) (int, error) {
	b.enter <- struct{}{}
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return 0, nil
}

func (b *blockingStaging) SyncToAssets(context.Context, bool) (*repository.SyncResult, error) {
	return &repository.SyncResult{}, nil
}

func newBlockedJob(t *testing.T) (*jobs.ImportJob, *blockingStaging) {
	t.Helper()
	staging := &blockingStaging{enter: make(chan struct{}), release: make(chan struct{})}
	svc := sapimport.NewService(staging, sapimport.Options{
		DropDir: t.TempDir(),
		Files:   []string{"activos.txt"},
	}, logger.Nop())
	return jobs.NewImportJob(svc, logger.Nop()), staging
}

func TestTryRun_SegundoDisparoSeDescarta(t *testing.T) {
	job, staging := newBlockedJob(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = job.TryRun(context.Background())
	}()

	// Esperar a que la primera corrida esté realmente en curso.
	select {
	case <-staging.enter:
	case <-time.After(2 * time.Second):
		t.Fatal("la primera corrida nunca arrancó")
	}

	// Con la primera aún viva, el segundo disparo debe descartarse sin correr.
	_, err := job.TryRun(context.Background())
	require.ErrorIs(t, err, jobs.ErrRunInProgress)

	close(staging.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("la primera corrida nunca terminó")
	}
}

func TestTryRun_TrasTerminarSePuedeVolverACorrer(t *testing.T) {
	job, staging := newBlockedJob(t)

	go func() { <-staging.enter; close(staging.release) }()
	_, err := job.TryRun(context.Background())
	// Sin archivos en el drop dir la corrida termina (cero éxitos), pero el
	// candado debe quedar liberado para el siguiente disparo.
	require.NoError(t, err)

	staging.enter = make(chan struct{}, 1)
	staging.release = make(chan struct{})
	close(staging.release)
	res, err := job.TryRun(context.Background())
	require.NoError(t, err)
	assert.False(t, res.OK(), "sin archivos ingeridos la corrida no es exitosa")
}
