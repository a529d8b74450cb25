package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidCategoryName = errors.New("invalid category name")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxCategoryNameLength = 255
	MinCategoryNameLength = 1
	MaxDescriptionLength  = 1024
	MaxTransactionAmount  = "1000000000" // 1 billion
)

// ValidateCategoryName validates a category name.
func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinCategoryNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCategoryName)
	}

	if len(name) > MaxCategoryNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidCategoryName, MaxCategoryNameLength)
	}

	// Check for SQL injection attempts
	dangerous := []string{"--", "/*", "*/", ";", "DROP", "DELETE", "INSERT", "UPDATE"}
	nameUpper := strings.ToUpper(name)
	for _, pattern := range dangerous {
		if strings.Contains(nameUpper, pattern) {
			return fmt.Errorf("%w: contains forbidden characters", ErrInvalidCategoryName)
		}
	}

	return nil
}

// ValidateAmount validates a monetary amount for budgets, transactions,
// payments and charges. Negative values pass only when allowNegative is set.
func ValidateAmount(amount Money, allowNegative bool) error {
	if !amount.IsValid(allowNegative) {
		return ErrInvalidAmount
	}

	max := MustParseMoney(MaxTransactionAmount)
	if amount.Cmp(max) > 0 {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidateDescription validates a transaction description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: maximum is %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
