package usecase

import "time"

const (
	// TransactionPageSize is the number of transactions returned per List page.
	TransactionPageSize = 50

	// SuggestionLimit bounds popularity-ranked account suggestions.
	SuggestionLimit = 10

	// ActiveAccountWindow is how far back transactions count towards active accounts.
	ActiveAccountWindow = 365 * 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
