package jobs

import (
	"context"
	"log/slog"
	"time"

	"laundry/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReconcilePaymentsHandler is the use case run on every tick.
type ReconcilePaymentsHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcilePaymentsCommand) (commands.ReconcilePaymentsResult, error)
}

// PaymentReconciliationJob periodically asks the payment processor about
// unpaid orders that already hold a payment intent.
type PaymentReconciliationJob struct {
	handler   ReconcilePaymentsHandler
	schedule  string
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewPaymentReconciliationJob(
	handler ReconcilePaymentsHandler,
	schedule string,
	batchSize int,
	timeout time.Duration,
	logger *slog.Logger,
) *PaymentReconciliationJob {
	return &PaymentReconciliationJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		timeout:   timeout,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "payment_reconciliation_job"),
	}
}

// Start registers the job under its schedule and starts the scheduler.
func (j *PaymentReconciliationJob) Start() error {
	if _, err := commands.NewReconcilePaymentsCommand(j.batchSize); err != nil {
		return err
	}
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Payment reconciliation job started", "schedule", j.schedule, "batch_size", j.batchSize)
	return nil
}

// Stop halts the scheduler and waits for a running reconciliation to end.
func (j *PaymentReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Payment reconciliation job stopped")
}

func (j *PaymentReconciliationJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cmd, err := commands.NewReconcilePaymentsCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Payment reconciliation misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Payment reconciliation failed", "error", err)
		return
	}
	if result.Checked > 0 {
		j.logger.InfoContext(ctx, "Payment reconciliation finished",
			"checked", result.Checked,
			"settled", result.Settled,
			"failed", result.Failed,
		)
	}
}
