package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"housing-notifier/internal/availability"
	"housing-notifier/internal/components/telemetry"
	"housing-notifier/internal/housing"
	"housing-notifier/internal/notify"
	"housing-notifier/internal/report"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("housing-notifier/watch")
var meter = otel.Meter("housing-notifier/watch")

var unitsReturnedCounter, _ = meter.Int64Counter(
	"housing.units_returned",
	metric.WithDescription("The number of rental units returned by a search."),
)

const (
	report_watcher_fetch    = "watcher.fetch"
	report_watcher_evaluate = "watcher.evaluate"
	report_watcher_print    = "watcher.print"
	report_watcher_notify   = "watcher.notify"
	report_units_returned   = "units-returned"
	report_total_count      = "total-count"
)

// Fetcher performs the housing search, implemented by housing.Client.
type Fetcher interface {
	FetchHousings(ctx context.Context, criteria housing.SearchCriteria) (json.RawMessage, error)
}

type Outcome int

const (
	// Completed means the response was evaluated and printed, the notification
	// (if any) may still have failed.
	Completed Outcome = iota
	TransportFailed
	MalformedResponse
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case TransportFailed:
		return "transport_failed"
	case MalformedResponse:
		return "malformed_response"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Summary describes how a run ended.
type Summary struct {
	Outcome Outcome
	Result  availability.Result
	// Notified is true when a notification was attempted.
	Notified bool
	// NotifyErr is the delivery failure of the attempted notification.
	NotifyErr error
}

type Options struct {
	Criteria housing.SearchCriteria
	// Message is the notification text, empty means notify.DefaultMessage.
	Message string
	Output  io.Writer
	Report  report.Options
	RunId   string
}

type Watcher struct {
	fetcher  Fetcher
	notifier notify.Notifier
	opts     Options
	tel      telemetry.API
}

func NewWatcher(fetcher Fetcher, notifier notify.Notifier, opts Options, tel telemetry.API) Watcher {
	if opts.Message == "" {
		opts.Message = notify.DefaultMessage
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	return Watcher{
		fetcher:  fetcher,
		notifier: notifier,
		opts:     opts,
		tel:      telemetry.NewScopedAPI("watch", tel),
	}
}

// NewRunId returns a short random id to tell the log lines of separate runs apart.
func NewRunId() string {
	id, err := random.String(8)
	if err != nil {
		return "unknown"
	}
	return id
}

// Run performs one search and reacts to its result. Failures are reported
// and reflected in the returned summary rather than returned as errors.
func (w Watcher) Run(ctx context.Context) Summary {
	ctx, span := tracer.Start(ctx, "watch:Run")
	defer span.End()
	span.SetAttributes(attribute.String("run.id", w.opts.RunId))

	raw, err := w.fetcher.FetchHousings(ctx, w.opts.Criteria)
	if err != nil {
		w.tel.ReportBroken(report_watcher_fetch, err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("outcome", TransportFailed.String()))
		return Summary{Outcome: TransportFailed}
	}

	result, err := availability.Evaluate(raw)
	if err != nil {
		w.tel.ReportBroken(report_watcher_evaluate, err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("outcome", MalformedResponse.String()))
		return Summary{Outcome: MalformedResponse}
	}

	w.tel.ReportCount(report_units_returned, int64(len(result.Units)))
	unitsReturnedCounter.Add(ctx, int64(len(result.Units)))
	if result.TotalCount != nil {
		w.tel.ReportCount(report_total_count, int64(*result.TotalCount))
	}
	span.SetAttributes(
		attribute.String("status", result.Status.String()),
		attribute.Int("units", len(result.Units)),
	)

	err = report.Print(w.opts.Output, result, w.opts.Report)
	if err != nil {
		w.tel.ReportWarning(report_watcher_print, err)
	}

	span.SetAttributes(attribute.String("outcome", Completed.String()))
	summary := Summary{Outcome: Completed, Result: result}
	if result.Status != availability.Available {
		return summary
	}

	summary.Notified = true
	err = w.notifier.Notify(ctx, w.opts.Message)
	if err != nil {
		summary.NotifyErr = err
		w.tel.ReportBroken(report_watcher_notify, err)

		var delivery *notify.NotificationDeliveryError
		if errors.As(err, &delivery) {
			span.SetAttributes(attribute.String("notify.failed_channel", delivery.Channel))
		}
	}

	return summary
}
