package jobs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CartReconciler finishes payments whose cart rows were never deleted.
// *service.PaymentService satisfies it.
type CartReconciler interface {
	ReconcileCarts(ctx context.Context, grace time.Duration) (int, error)
}

// Reconciler runs CartReconciler on a cron schedule.
type Reconciler struct {
	target  CartReconciler
	grace   time.Duration
	timeout time.Duration
	logger  *logrus.Logger
	cron    *cron.Cron
}

func NewReconciler(target CartReconciler, grace, timeout time.Duration, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		target:  target,
		grace:   grace,
		timeout: timeout,
		logger:  logger,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(logger)),
			cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
		)),
	}
}

// Start schedules the job, e.g. "@every 5m", and starts the scheduler.
func (r *Reconciler) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() { r.RunOnce(context.Background()) }); err != nil {
		return errors.Wrapf(err, "scheduling reconciler %q", schedule)
	}
	r.cron.Start()
	r.logger.WithField("schedule", schedule).Info("cart reconciler started")
	return nil
}

// Stop waits for a running pass to finish or ctx to expire.
func (r *Reconciler) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (r *Reconciler) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cleared, err := r.target.ReconcileCarts(ctx, r.grace)
	entry := r.logger.WithField("cleared", cleared)
	if err != nil {
		entry.WithError(err).Warn("cart reconcile pass incomplete")
		return cleared
	}
	if cleared > 0 {
		entry.Info("cart reconcile pass cleared leftover rows")
	}
	return cleared
}
