package domain

// Entry is one signed, single-currency line of a transaction.
type Entry struct {
	ID            string
	TransactionID string
	Order         int
	AccountID     string
	AccountName   string
	Currency      Currency
	Amount        int64
}
