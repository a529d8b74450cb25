package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// InsightsCacheTTL bounds how stale a cached insight set may get before
	// it is recomputed.
	InsightsCacheTTL = 30 * time.Second
)
