package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsRecorded prometheus.Counter
	TransactionsDeleted  prometheus.Counter
	SplitsCreated        prometheus.Counter
	TransactionDuration  prometheus.Histogram
	TransactionAmount    prometheus.Histogram
	TransactionErrors    *prometheus.CounterVec

	// Frame metrics
	FramesCreated prometheus.Counter
	IncomeUpdates prometheus.Counter

	// Category metrics
	CategoriesCreated prometheus.Counter
	CategoriesDeleted prometheus.Counter
	BudgetUpdates     prometheus.Counter
	CoversApplied     prometheus.Counter

	// Debt metrics
	DebtPayments prometheus.Counter
	DebtCharges  prometheus.Counter

	// Insight cache metrics
	InsightCacheHits   prometheus.Counter
	InsightCacheMisses prometheus.Counter

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Transaction metrics
		TransactionsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_transactions_recorded_total",
			Help: "Total number of transactions recorded",
		}),
		TransactionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),
		SplitsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_splits_created_total",
			Help: "Total number of split transactions created",
		}),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobudget_transaction_duration_seconds",
			Help:    "Duration of transaction operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobudget_transaction_amount",
			Help:    "Transaction amounts",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 10000},
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_transaction_errors_total",
				Help: "Total number of transaction errors by type",
			},
			[]string{"error_type"},
		),

		// Frame metrics
		FramesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_frames_created_total",
			Help: "Total number of frames created",
		}),
		IncomeUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_income_updates_total",
			Help: "Total number of frame income updates",
		}),

		// Category metrics
		CategoriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_categories_created_total",
			Help: "Total number of categories created",
		}),
		CategoriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_categories_deleted_total",
			Help: "Total number of categories deleted",
		}),
		BudgetUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_budget_updates_total",
			Help: "Total number of category budget updates",
		}),
		CoversApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_covers_applied_total",
			Help: "Total number of cover operations applied",
		}),

		// Debt metrics
		DebtPayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_debt_payments_total",
			Help: "Total number of debt payments recorded",
		}),
		DebtCharges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_debt_charges_total",
			Help: "Total number of debt charges recorded",
		}),

		// Insight cache metrics
		InsightCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_insight_cache_hits_total",
			Help: "Total number of insight cache hits",
		}),
		InsightCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_insight_cache_misses_total",
			Help: "Total number of insight cache misses",
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobudget_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gobudget_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
