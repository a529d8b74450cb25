package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount = errors.New("amount must be a valid non-negative decimal")
	ErrInvalidShare  = errors.New("share must be a positive decimal weight")
	ErrInvalidPayer  = errors.New("payer must be one of the two split participants")
	ErrInvalidMonth  = errors.New("month must be between 0 and 11")

	// Not-found errors
	ErrCategoryNotFound    = errors.New("category not found")
	ErrFrameNotFound       = errors.New("frame not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDebtNotFound        = errors.New("debt record not found")

	// ErrFrameExists reports a lost create race: another writer inserted the
	// same (group, frame) row first. Callers re-read instead of failing.
	ErrFrameExists = errors.New("frame already exists")

	// ErrSelfDebt rejects debt operations where both sides are the same user.
	ErrSelfDebt = errors.New("debt requires two distinct users")

	// Authorization errors. Always distinct from not-found: an entity that
	// exists but belongs to another group is never reported as missing.
	ErrNotGroupMember = errors.New("entity belongs to a different group")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	// Contract errors
	ErrNotOverspent          = errors.New("category balance is not negative")
	ErrFutureFrame           = errors.New("transaction is dated after the frame being viewed")
	ErrDateOutsideFrame      = errors.New("date must stay within the transaction's frame")
	ErrCategoryFrameMismatch = errors.New("category belongs to a different frame")
	ErrCategoryDead          = errors.New("category has been deleted")
	ErrSplitAmountImmutable  = errors.New("amount of a split transaction must be edited through the split")
	ErrNotSplit              = errors.New("transaction is not part of a split")
	ErrNotInViewedFrame      = errors.New("transaction does not belong to the frame being edited")
	ErrTransactionDead       = errors.New("transaction has been deleted")

	// Invariant violations: indicate caller misuse of the core's contracts,
	// not user error.
	ErrSplitCorrupted    = errors.New("split mirror transaction is missing or inconsistent")
	ErrDebtRecordMissing = errors.New("debt record missing for a pair with history")
)
