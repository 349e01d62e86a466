package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

var statusKey = attribute.Key("status")

// Counters are the blog's instruments.
type Counters struct {
	Visits          metric.Int64Counter
	ArticlesCreated metric.Int64Counter
	Signups         metric.Int64Counter
	Completed       metric.Int64Counter
}

// NewExporter installs a Prometheus exporter as the global meter provider.
// The exporter is an http.Handler serving /metrics.
func NewExporter() (*prometheus.Exporter, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, err
	}
	global.SetMeterProvider(exporter.MeterProvider())

	return exporter, nil
}

// New creates the counters on the global meter. Without an exporter the
// global provider is a no-op, which is what tests get.
func New(serviceName string) *Counters {
	meter := metric.Must(global.Meter(serviceName))

	return &Counters{
		Visits: meter.NewInt64Counter("blog/visits",
			metric.WithDescription("Count of blog listing views")),
		ArticlesCreated: meter.NewInt64Counter("blog/articles_created",
			metric.WithDescription("Count of persisted articles")),
		Signups: meter.NewInt64Counter("blog/signups",
			metric.WithDescription("Count of created users")),
		Completed: meter.NewInt64Counter("http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP response status")),
	}
}

// Middleware counts completed requests by status.
func (c *Counters) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.Completed.Add(r.Context(), 1, statusKey.String(strconv.Itoa(status)))
	})
}
