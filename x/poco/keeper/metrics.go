package keeper

import (
	"math/big"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PocoMetrics holds all Prometheus metrics for the poco module
type PocoMetrics struct {
	// Market metrics
	DealsMatched  prometheus.Counter
	VolumeMatched prometheus.Counter
	OrdersManaged *prometheus.CounterVec

	// Task metrics
	TaskTransitions *prometheus.CounterVec
	Contributions   prometheus.Counter
	Reveals         prometheus.Counter
	TasksExpired    prometheus.Counter

	// Settlement metrics
	StakeSeized       prometheus.Counter
	RewardsPaid       prometheus.Counter
	KittyBalance      prometheus.Gauge
	CallbackFailures  prometheus.Counter
	CallbackDelivered prometheus.Counter

	// Security metrics
	PanicRecoveries prometheus.Counter
}

var (
	pocoMetricsOnce sync.Once
	pocoMetrics     *PocoMetrics
)

// NewPocoMetrics creates and registers poco metrics (singleton pattern)
func NewPocoMetrics() *PocoMetrics {
	pocoMetricsOnce.Do(func() {
		pocoMetrics = &PocoMetrics{
			DealsMatched: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "deals_matched_total",
				Help:      "Total deals created by order matching",
			}),
			VolumeMatched: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "volume_matched_total",
				Help:      "Total task volume allocated to deals",
			}),
			OrdersManaged: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "poco",
					Name:      "orders_managed_total",
					Help:      "Orders presigned or closed on-ledger",
				},
				[]string{"kind", "operation"},
			),
			TaskTransitions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "poco",
					Name:      "task_transitions_total",
					Help:      "Task state transitions by target status",
				},
				[]string{"status"},
			),
			Contributions: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "contributions_total",
				Help:      "Total worker contributions",
			}),
			Reveals: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "reveals_total",
				Help:      "Total worker reveals",
			}),
			TasksExpired: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "tasks_expired_total",
				Help:      "Tasks claimed automatically after their final deadline",
			}),
			StakeSeized: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "stake_seized_total",
				Help:      "Total stake seized from losers and failed schedulers",
			}),
			RewardsPaid: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "rewards_paid_total",
				Help:      "Total rewards credited by settlement",
			}),
			KittyBalance: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "kitty_balance",
				Help:      "Frozen balance of the kitty",
			}),
			CallbackFailures: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "callback_failures_total",
				Help:      "Finalize callbacks that failed to deliver",
			}),
			CallbackDelivered: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "callback_delivered_total",
				Help:      "Finalize callbacks delivered",
			}),
			PanicRecoveries: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "paw",
				Subsystem: "poco",
				Name:      "panic_recoveries_total",
				Help:      "Panics recovered in message handlers",
			}),
		}
	})
	return pocoMetrics
}

// amountFloat converts a ledger amount for use as a metric value.
func amountFloat(amount math.Int) float64 {
	f, _ := new(big.Float).SetInt(amount.BigInt()).Float64()
	return f
}
