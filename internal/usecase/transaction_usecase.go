package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zeroedbooks/ledger/internal/domain"
)

// TransactionUseCase is the ledger store: it writes and reads whole transactions.
type TransactionUseCase struct {
	txManager       TxManager
	transactionRepo TransactionRepository
	currencyRepo    CurrencyRepository
	outboxRepo      OutboxRepository
	accounts        *AccountUseCase
	idGen           IDGenerator
	metrics         Metrics
	now             Clock
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TxManager,
	transactionRepo TransactionRepository,
	currencyRepo CurrencyRepository,
	outboxRepo OutboxRepository,
	accounts *AccountUseCase,
	idGen IDGenerator,
	metrics Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		currencyRepo:    currencyRepo,
		outboxRepo:      outboxRepo,
		accounts:        accounts,
		idGen:           idGen,
		metrics:         metrics,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (uc *TransactionUseCase) WithClock(now Clock) *TransactionUseCase {
	uc.now = now
	return uc
}

// EntryInput is one requested entry. A nil Amount asks for auto-balancing.
type EntryInput struct {
	AccountName string
	Currency    string
	Amount      *int64
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	Owner   string
	Date    time.Time
	Payee   string
	Notes   string
	Entries []EntryInput
}

// UpdateTransactionInput replaces a transaction. Nil header fields are kept; nil
// Entries keeps the existing entries.
type UpdateTransactionInput struct {
	Owner   string
	ID      string
	Date    *time.Time
	Payee   *string
	Notes   *string
	Entries []EntryInput
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	Owner   string
	Account string
	After   string
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Transactions []*domain.Transaction
	// Next is empty on the last page.
	Next string
}

// preparedEntries are entries that passed validation, with their currencies resolved.
type preparedEntries struct {
	specs      []domain.EntrySpec
	currencies map[string]domain.Currency
}

// Create validates and stores a new transaction with its entries.
func (uc *TransactionUseCase) Create(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	// 0. Validate inputs before starting transaction
	if err := domain.ValidatePayee(input.Payee); err != nil {
		return nil, err
	}

	prepared, err := uc.prepareEntries(ctx, input.Entries)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	transaction := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		Owner:     input.Owner,
		Date:      domain.DateOnly(input.Date),
		Payee:     strings.TrimSpace(input.Payee),
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 1. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 2. Write header, then entries (accounts are provisioned on the way)
	if err := uc.transactionRepo.CreateHeader(ctx, tx, transaction); err != nil {
		return nil, err
	}

	entries, err := uc.writeEntries(ctx, tx, transaction, prepared)
	if err != nil {
		return nil, err
	}

	transaction.Entries = entries

	if err := uc.emit(ctx, tx, transaction.Owner, domain.EventTypeTransactionCreated, transaction.ID, domain.TransactionEventPayload(transaction)); err != nil {
		return nil, err
	}

	// 3. Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.record("create")

	return transaction, nil
}

// Update patches the header and, when entries are given, replaces all of them.
func (uc *TransactionUseCase) Update(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.Payee != nil {
		if err := domain.ValidatePayee(*input.Payee); err != nil {
			return nil, err
		}

		payee := strings.TrimSpace(*input.Payee)
		input.Payee = &payee
	}

	if input.Date != nil {
		date := domain.DateOnly(*input.Date)
		input.Date = &date
	}

	var prepared *preparedEntries
	if input.Entries != nil {
		p, err := uc.prepareEntries(ctx, input.Entries)
		if err != nil {
			return nil, err
		}

		prepared = p
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	transaction, err := uc.transactionRepo.UpdateHeader(ctx, tx, input.Owner, input.ID, TransactionHeaderPatch{
		Date:  input.Date,
		Payee: input.Payee,
		Notes: input.Notes,
	}, uc.now())
	if err != nil {
		return nil, err
	}

	if prepared != nil {
		if err := uc.transactionRepo.DeleteEntries(ctx, tx, transaction.ID); err != nil {
			return nil, err
		}

		transaction.Entries, err = uc.writeEntries(ctx, tx, transaction, prepared)
	} else {
		transaction.Entries, err = uc.transactionRepo.GetEntries(ctx, tx, transaction.ID)
	}

	if err != nil {
		return nil, err
	}

	if err := uc.emit(ctx, tx, transaction.Owner, domain.EventTypeTransactionUpdated, transaction.ID, domain.TransactionEventPayload(transaction)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.record("update")

	return transaction, nil
}

// Delete removes a transaction; its entries go with it.
func (uc *TransactionUseCase) Delete(ctx context.Context, owner, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.transactionRepo.Delete(ctx, tx, owner, id); err != nil {
		return err
	}

	if err := uc.emit(ctx, tx, owner, domain.EventTypeTransactionDeleted, id, domain.DeletedTransactionPayload(owner, id)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.record("delete")

	return nil
}

// Get returns one transaction with its entries in order.
func (uc *TransactionUseCase) Get(ctx context.Context, owner, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.Get(ctx, owner, id)
}

// GetMany returns the owner's transactions among ids. Unknown ids are skipped.
func (uc *TransactionUseCase) GetMany(ctx context.Context, owner string, ids []string) ([]*domain.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return uc.transactionRepo.GetMany(ctx, owner, ids)
}

// List returns one page of the owner's transactions, newest first.
func (uc *TransactionUseCase) List(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error) {
	filter := TransactionListFilter{Limit: TransactionPageSize + 1}

	if input.Account != "" {
		name, err := domain.NormalizeAccountName(input.Account)
		if err != nil {
			return nil, err
		}

		subtree := domain.SubtreeOf(name)
		filter.Subtree = &subtree
	}

	if input.After != "" {
		cursor, err := domain.DecodeTransactionCursor(input.After)
		if err != nil {
			return nil, err
		}

		filter.After = &cursor
	}

	transactions, err := uc.transactionRepo.List(ctx, input.Owner, filter)
	if err != nil {
		return nil, err
	}

	page := &TransactionPage{Transactions: transactions}
	if len(transactions) > TransactionPageSize {
		page.Transactions = transactions[:TransactionPageSize]
		page.Next = domain.CursorAfter(page.Transactions[TransactionPageSize-1]).Encode()
	}

	return page, nil
}

// prepareEntries validates entry inputs, auto-balances them and resolves currencies.
func (uc *TransactionUseCase) prepareEntries(ctx context.Context, inputs []EntryInput) (*preparedEntries, error) {
	specs := make([]domain.EntrySpec, 0, len(inputs))
	for _, in := range inputs {
		name, err := domain.NormalizeAccountName(in.AccountName)
		if err != nil {
			return nil, err
		}

		code := domain.NormalizeCurrencyCode(in.Currency)
		if code != "" {
			if err := domain.ValidateCurrencyCode(code); err != nil {
				return nil, err
			}
		}

		specs = append(specs, domain.EntrySpec{AccountName: name, Currency: code, Amount: in.Amount})
	}

	balanced, err := domain.Balance(specs)
	if err != nil {
		return nil, err
	}

	codes := domain.CurrencyCodes(balanced)

	currencies, err := uc.currencyRepo.GetMany(ctx, codes)
	if err != nil {
		return nil, err
	}

	for _, code := range codes {
		if _, ok := currencies[code]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
		}
	}

	return &preparedEntries{specs: balanced, currencies: currencies}, nil
}

// writeEntries provisions the referenced accounts in sorted name order, then inserts
// the entries with orders 0..n-1.
func (uc *TransactionUseCase) writeEntries(
	ctx context.Context,
	tx Tx,
	transaction *domain.Transaction,
	prepared *preparedEntries,
) ([]*domain.Entry, error) {
	// Sorted provisioning keeps lock order stable across concurrent writers.
	names := make([]string, 0, len(prepared.specs))
	seen := make(map[string]bool)

	for _, spec := range prepared.specs {
		if !seen[spec.AccountName] {
			seen[spec.AccountName] = true
			names = append(names, spec.AccountName)
		}
	}

	sort.Strings(names)

	accounts := make(map[string]*domain.Account, len(names))
	for _, name := range names {
		account, err := uc.accounts.GetOrCreateTx(ctx, tx, transaction.Owner, name)
		if err != nil {
			return nil, err
		}

		accounts[name] = account
	}

	entries := make([]*domain.Entry, 0, len(prepared.specs))
	for i, spec := range prepared.specs {
		account := accounts[spec.AccountName]

		entries = append(entries, &domain.Entry{
			ID:            uc.idGen.Generate(),
			TransactionID: transaction.ID,
			Order:         i,
			AccountID:     account.ID,
			AccountName:   account.Name,
			Currency:      prepared.currencies[spec.Currency],
			Amount:        *spec.Amount,
		})
	}

	if err := uc.transactionRepo.InsertEntries(ctx, tx, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (uc *TransactionUseCase) emit(ctx context.Context, tx Tx, owner, eventType, aggregateID string, payload map[string]any) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		Owner:         owner,
		AggregateID:   aggregateID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     uc.now(),
	})
}

func (uc *TransactionUseCase) record(operation string) {
	if uc.metrics != nil {
		uc.metrics.TransactionWritten(operation)
	}
}
