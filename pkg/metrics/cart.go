package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Cart mutations by operation (add, set_quantity, remove) and result
	CartMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and result",
	}, []string{"op", "result"})

	// Latency of one full cart summary computation
	CartAggregateLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_aggregate_latency_seconds",
		Help:    "Latency of computing a cart summary from the store",
		Buckets: prometheus.DefBuckets,
	})

	// Checkout runs by the state they ended in
	CheckoutOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout runs by terminal state",
	}, []string{"state"})

	// Cart count recomputations by trigger (initial, local, feed)
	CartSyncRecomputes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_sync_recomputes_total",
		Help: "Cart count recomputations by trigger",
	}, []string{"trigger"})

	CartSyncSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_sync_sessions",
		Help: "Active cart sync sessions",
	})
)

func Init() {
	prometheus.MustRegister(
		CartMutations,
		CartAggregateLatency,
		CheckoutOutcomes,
		CartSyncRecomputes,
		CartSyncSessions,
	)
}
