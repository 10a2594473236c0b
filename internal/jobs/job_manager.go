package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultReconcileSchedule = "0 */5 * * * *"
	DefaultReconcileBatch    = 50
	defaultReconcileTimeout  = 2 * time.Minute
)

// Config controls the scheduled jobs. An empty ReconcileSchedule disables
// payment reconciliation.
type Config struct {
	ReconcileSchedule  string
	ReconcileBatchSize int
}

// job is the lifecycle shared by every scheduled job.
type job interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  job
}

// JobManager starts and stops all background jobs together.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
	logger  *slog.Logger
}

func NewJobManager(reconcile ReconcilePaymentsHandler, cfg Config, logger *slog.Logger) *JobManager {
	jm := &JobManager{logger: logger.With("component", "job_manager")}

	if cfg.ReconcileSchedule != "" {
		batch := cfg.ReconcileBatchSize
		if batch <= 0 {
			batch = DefaultReconcileBatch
		}
		jm.jobs = append(jm.jobs, namedJob{
			name: "payment reconciliation",
			job:  NewPaymentReconciliationJob(reconcile, cfg.ReconcileSchedule, batch, defaultReconcileTimeout, logger),
		})
	}
	return jm
}

// StartAll starts every configured job. If one fails, the ones already
// started are stopped again.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
		jm.started = append(jm.started, j)
	}
	if len(jm.jobs) == 0 {
		jm.logger.Info("No scheduled jobs configured")
	}
	return nil
}

// StopAll stops the started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
