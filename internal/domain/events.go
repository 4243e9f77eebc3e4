package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent is a change to an owner's ledger recorded alongside the change
// itself and relayed to subscribers later. PublishedAt is nil while pending.
type OutboxEvent struct {
	ID            string
	Owner         string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time

	// Attempts counts failed deliveries; LastError is the latest failure.
	Attempts  int
	LastError string
}

// Pending reports whether the event still has to be delivered.
func (e *OutboxEvent) Pending() bool {
	return e.PublishedAt == nil
}

// TransactionEntryPayload is one entry inside a transaction event payload.
type TransactionEntryPayload struct {
	Account  string `json:"account"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

// TransactionEventPayload builds the payload stored with transaction events.
func TransactionEventPayload(t *Transaction) map[string]any {
	entries := make([]TransactionEntryPayload, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, TransactionEntryPayload{
			Account:  e.AccountName,
			Currency: e.Currency.Code,
			Amount:   e.Amount,
		})
	}

	return map[string]any{
		"transaction_id": t.ID,
		"owner":          t.Owner,
		"date":           t.Date.Format(time.DateOnly),
		"payee":          t.Payee,
		"entries":        entries,
	}
}

// DeletedTransactionPayload builds the payload of a transaction.deleted event.
func DeletedTransactionPayload(owner, id string) map[string]any {
	return map[string]any{
		"transaction_id": id,
		"owner":          owner,
	}
}
