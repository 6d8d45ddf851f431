package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"

	ordersdomain "github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
)

// DefaultStatusReportSchedule runs the report once a minute.
const DefaultStatusReportSchedule = "@every 1m"

const reportTimeout = 30 * time.Second

// StatusSummarizer is the slice of the order service the report needs.
type StatusSummarizer interface {
	StatusSummary(ctx context.Context) (map[ordersdomain.Status]int, error)
}

// StatusReportJob counts orders per status on a cron schedule.
type StatusReportJob struct {
	summarizer StatusSummarizer
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger
	meter      metric.Meter

	mu   sync.RWMutex
	last map[ordersdomain.Status]int

	registration metric.Registration
}

// Option customises a StatusReportJob.
type Option func(*StatusReportJob)

// WithLogger sets the job logger.
func WithLogger(logger *slog.Logger) Option {
	return func(j *StatusReportJob) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// WithMeter sets the meter used for the orders.by_status gauge.
func WithMeter(meter metric.Meter) Option {
	return func(j *StatusReportJob) {
		if meter != nil {
			j.meter = meter
		}
	}
}

// NewStatusReportJob validates the schedule and builds a stopped job.
func NewStatusReportJob(summarizer StatusSummarizer, schedule string, opts ...Option) (*StatusReportJob, error) {
	if summarizer == nil {
		return nil, fmt.Errorf("status report job requires a summarizer")
	}
	if schedule == "" {
		schedule = DefaultStatusReportSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid status report schedule %q: %w", schedule, err)
	}
	j := &StatusReportJob{
		summarizer: summarizer,
		schedule:   schedule,
		cron:       cron.New(),
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		meter:      metricnoop.NewMeterProvider().Meter("internal.jobs"),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.logger = j.logger.With("component", "status_report_job")
	return j, nil
}

// Start registers the gauge callback and begins scheduling.
func (j *StatusReportJob) Start() error {
	gauge, err := j.meter.Int64ObservableGauge(
		"orders.by_status",
		metric.WithDescription("Number of orders per lifecycle status at the last report"),
	)
	if err != nil {
		return err
	}
	registration, err := j.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for status, count := range j.Snapshot() {
			o.ObserveInt64(gauge, int64(count), metric.WithAttributes(attribute.String("order.status", status.String())))
		}
		return nil
	}, gauge)
	if err != nil {
		return err
	}
	j.registration = registration

	if _, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		_ = j.RunOnce(ctx)
	}); err != nil {
		_ = registration.Unregister()
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Status report job started", slog.String("schedule", j.schedule))
	return nil
}

// Stop halts scheduling and waits for a running report to finish.
func (j *StatusReportJob) Stop() {
	<-j.cron.Stop().Done()
	if j.registration != nil {
		_ = j.registration.Unregister()
	}
	j.logger.InfoContext(context.Background(), "Status report job stopped")
}

// RunOnce takes one snapshot. A failed run keeps the previous snapshot.
func (j *StatusReportJob) RunOnce(ctx context.Context) error {
	summary, err := j.summarizer.StatusSummary(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Status report job failed", slog.String("error", err.Error()))
		return err
	}

	attrs := make([]slog.Attr, 0, len(summary))
	total := 0
	for _, status := range ordersdomain.Statuses() {
		attrs = append(attrs, slog.Int(status.String(), summary[status]))
		total += summary[status]
	}

	j.mu.Lock()
	j.last = summary
	j.mu.Unlock()

	j.logger.LogAttrs(ctx, slog.LevelInfo, "order status report",
		slog.Int("total", total),
		slog.Attr{Key: "by_status", Value: slog.GroupValue(attrs...)},
	)
	return nil
}

// Snapshot returns a copy of the most recent counts.
func (j *StatusReportJob) Snapshot() map[ordersdomain.Status]int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make(map[ordersdomain.Status]int, len(j.last))
	for status, count := range j.last {
		out[status] = count
	}
	return out
}
