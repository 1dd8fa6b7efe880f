package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

var ordersPromoted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "order_processing",
	Subsystem: "scheduler",
	Name:      "orders_promoted_total",
	Help:      "Total number of PENDING orders promoted to PROCESSING by the scheduler.",
})

type PendingOrderProcessor interface {
	ProcessPendingOrders(ctx context.Context) (int, error)
}

// PendingOrderJob периодически переводит PENDING-заказы в PROCESSING.
type PendingOrderJob struct {
	logger   *slog.Logger
	svc      PendingOrderProcessor
	cron     *cron.Cron
	interval time.Duration
}

func NewPendingOrderJob(logger *slog.Logger, svc PendingOrderProcessor, interval time.Duration) *PendingOrderJob {
	return &PendingOrderJob{
		logger: logger.With(slog.String("job", "pending_order_promoter")),
		svc:    svc,
		// пропускаем запуск, если предыдущий ещё не завершился
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		interval: interval,
	}
}

func (j *PendingOrderJob) Start() error {
	if _, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), j.run); err != nil {
		return fmt.Errorf("failed to schedule pending order job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("pending order job started", slog.String("interval", j.interval.String()))
	return nil
}

func (j *PendingOrderJob) run() {
	ctx := context.Background()

	promoted, err := j.svc.ProcessPendingOrders(ctx)
	if err != nil {
		j.logger.Error("failed to process pending orders", slog.Any("error", err))
		return
	}

	if promoted > 0 {
		ordersPromoted.Add(float64(promoted))
		j.logger.Info("pending orders promoted", slog.Int("count", promoted))
	}
}

func (j *PendingOrderJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("pending order job stopped")
}
