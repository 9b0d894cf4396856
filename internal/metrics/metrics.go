package metrics

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "linecheck"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomePass    = "pass"
	OutcomeFail    = "fail"
)

var (
	// Registry is a dedicated Prometheus registry for all linecheck metrics.
	Registry = prometheus.NewRegistry()

	// FileOpDuration measures time spent reading or writing text files.
	FileOpDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_op_duration_ms",
			Help:      "Duration of text file operations in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"op"}, // read | scan | write
	)

	// FileOpTotal counts file operations by op and outcome.
	FileOpTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_op_total",
			Help:      "Total number of text file operations",
		},
		[]string{"op", "outcome"},
	)

	// LinesReadTotal accumulates lines read across all files.
	LinesReadTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_read_total",
			Help:      "Cumulative number of lines read from text files",
		},
	)

	// BytesWrittenTotal accumulates uncompressed bytes written to output files.
	BytesWrittenTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Cumulative bytes written to output files before encoding",
		},
	)

	// ComparisonsTotal counts comparator runs by outcome.
	ComparisonsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Total number of first-line comparisons",
		},
		[]string{"outcome"}, // pass | fail | error
	)

	// ScenariosTotal counts scenario runs by outcome.
	ScenariosTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Total number of transform-and-verify scenarios",
		},
		[]string{"outcome"}, // pass | fail | error
	)

	// StreamRecordsTotal counts records passing through each pipeline stage.
	StreamRecordsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_records_total",
			Help:      "Records observed by each stream pipeline stage",
		},
		[]string{"stage"},
	)

	// GreetingsTotal counts greeter invocations.
	GreetingsTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "greetings_total",
			Help:      "Number of greetings written",
		},
	)

	// BuildInfo exposes static information about the running binary.
	BuildInfo = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Static information about the binary",
		},
		[]string{"os", "arch", "version"},
	)

	// Up is a liveness gauge.
	Up = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "up",
			Help:      "1 if the process is running",
		},
	)
)

func init() {
	Registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	Registry.MustRegister(prometheus.NewGoCollector())
	Up.Set(1)
}

// SetBuildInfo publishes a single info metric for the running binary.
func SetBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	BuildInfo.WithLabelValues(runtime.GOOS, runtime.GOARCH, version).Set(1)
}

// ObserveFileOp records timing and counters for a file operation.
func ObserveFileOp(start time.Time, op string, err error) {
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)
	FileOpDuration.WithLabelValues(op).Observe(elapsed)
	FileOpTotal.WithLabelValues(op, outcomeOf(err)).Inc()
}

// AddLinesRead increments the lines-read counter.
func AddLinesRead(n int) {
	if n <= 0 {
		return
	}
	LinesReadTotal.Add(float64(n))
}

// AddBytesWritten increments the bytes-written counter.
func AddBytesWritten(n int) {
	if n <= 0 {
		return
	}
	BytesWrittenTotal.Add(float64(n))
}

// ObserveComparison counts a comparator run. err takes precedence over pass.
func ObserveComparison(pass bool, err error) {
	ComparisonsTotal.WithLabelValues(verdict(pass, err)).Inc()
}

// ObserveScenario counts a scenario run. err takes precedence over pass.
func ObserveScenario(pass bool, err error) {
	ScenariosTotal.WithLabelValues(verdict(pass, err)).Inc()
}

// ObserveStreamRecord counts one record seen by a pipeline stage.
func ObserveStreamRecord(stage string) {
	StreamRecordsTotal.WithLabelValues(stage).Inc()
}

// ObserveGreeting counts one greeting.
func ObserveGreeting() {
	GreetingsTotal.Inc()
}

func outcomeOf(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

func verdict(pass bool, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case pass:
		return OutcomePass
	default:
		return OutcomeFail
	}
}

// Handler returns the /metrics HTTP handler for Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve starts the /metrics HTTP endpoint on addr and blocks until ctx is done.
func Serve(ctx context.Context, addr string, logger *zap.SugaredLogger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	idleClosed := make(chan struct{})
	go func() {
		defer close(idleClosed)
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Infof("Prometheus endpoint listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-idleClosed
		return nil
	}

	return err
}
