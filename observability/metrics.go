package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"qbank/events"
	"qbank/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Metrics exports ledger activity to Prometheus
type Metrics struct {
	registry *prometheus.Registry

	operationsTotal      *prometheus.CounterVec
	operationDuration    *prometheus.HistogramVec
	balanceChanges       *prometheus.CounterVec
	interestRunsTotal    prometheus.Counter
	interestCredited     prometheus.Gauge
	interestPaidScrap    prometheus.Counter
	interestPaidDiamonds prometheus.Counter
	lastInterestRun      prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qbank_operations_total",
				Help: "Ledger operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qbank_operation_duration_seconds",
				Help:    "Ledger operation latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		balanceChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qbank_balance_changes_total",
				Help: "Committed balance writes by transaction type.",
			},
			[]string{"type"},
		),
		interestRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qbank_interest_runs_total",
			Help: "Completed interest accrual runs.",
		}),
		interestCredited: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qbank_interest_accounts_credited",
			Help: "Accounts credited by the most recent interest run.",
		}),
		interestPaidScrap: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qbank_interest_paid_netherite_scrap_total",
			Help: "Netherite interest paid, in scrap.",
		}),
		interestPaidDiamonds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qbank_interest_paid_diamonds_total",
			Help: "Diamond interest paid, in diamonds.",
		}),
		lastInterestRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qbank_interest_last_run_timestamp_seconds",
			Help: "Unix time of the most recent interest run.",
		}),
	}

	m.registry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.balanceChanges,
		m.interestRunsTotal,
		m.interestCredited,
		m.interestPaidScrap,
		m.interestPaidDiamonds,
		m.lastInterestRun,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for scraping and tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOperation records one ledger operation
func (m *Metrics) ObserveOperation(operation, outcome string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveInterestRun records a completed accrual
func (m *Metrics) ObserveInterestRun(accountsCredited int, total models.Amount) {
	m.interestRunsTotal.Inc()
	m.interestCredited.Set(float64(accountsCredited))
	m.interestPaidScrap.Add(float64(total.ScrapValue()))
	m.interestPaidDiamonds.Add(float64(total.DiamondValue()))
	m.lastInterestRun.SetToCurrentTime()
}

// SubscribeTo counts committed balance changes published on the bus
func (m *Metrics) SubscribeTo(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		change, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		m.balanceChanges.WithLabelValues(string(change.TransactionType)).Inc()
	})
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Metrics server shutdown failed")
		}
	}()

	log.WithField("addr", addr).Info("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
