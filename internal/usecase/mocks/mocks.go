package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// MockTx is an in-memory usecase.Tx that records how it was finished.
type MockTx struct {
	mu         sync.Mutex
	committed  bool
	rolledBack bool
	savepoints int

	CommitFunc    func(ctx context.Context) error
	SavepointFunc func(ctx context.Context) (usecase.Tx, error)
}

func (t *MockTx) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		if err := t.CommitFunc(ctx); err != nil {
			return err
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.committed = true
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *MockTx) Savepoint(ctx context.Context) (usecase.Tx, error) {
	if t.SavepointFunc != nil {
		return t.SavepointFunc(ctx)
	}
	t.mu.Lock()
	t.savepoints++
	t.mu.Unlock()
	return &MockTx{}, nil
}

// Committed reports whether Commit succeeded.
func (t *MockTx) Committed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}

// RolledBack reports whether the tx was rolled back without a commit.
func (t *MockTx) RolledBack() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rolledBack
}

// Savepoints returns how many savepoints were opened.
func (t *MockTx) Savepoints() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.savepoints
}

// MockTxManager hands out MockTx values and keeps them for inspection.
type MockTxManager struct {
	mu  sync.Mutex
	txs []*MockTx

	BeginFunc func(ctx context.Context) (usecase.Tx, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTx{}
	m.mu.Lock()
	m.txs = append(m.txs, tx)
	m.mu.Unlock()
	return tx, nil
}

// Txs returns every transaction begun so far.
func (m *MockTxManager) Txs() []*MockTx {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTx(nil), m.txs...)
}

// MockAccountRepository is an in-memory AccountRepository enforcing (owner, name) uniqueness.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	GetByNameFunc          func(ctx context.Context, tx usecase.Tx, owner, name string) (*domain.Account, error)
	CreateFunc             func(ctx context.Context, tx usecase.Tx, account *domain.Account) error
	ListActiveNamesFunc    func(ctx context.Context, owner string, since time.Time) ([]string, error)
	SearchByPopularityFunc func(ctx context.Context, owner, search string, limit int) ([]string, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func accountKey(owner, name string) string {
	return owner + "\x00" + name
}

func (m *MockAccountRepository) GetByName(ctx context.Context, tx usecase.Tx, owner, name string) (*domain.Account, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, tx, owner, name)
	}
	return m.FindByName(owner, name)
}

// FindByName reads the store directly, bypassing GetByNameFunc.
func (m *MockAccountRepository) FindByName(owner, name string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[accountKey(owner, name)]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Tx, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := accountKey(account.Owner, account.Name)
	if _, ok := m.accounts[key]; ok {
		return fmt.Errorf("account %q: %w", account.Name, domain.ErrConflict)
	}
	m.accounts[key] = account
	return nil
}

func (m *MockAccountRepository) ListActiveNames(ctx context.Context, owner string, since time.Time) ([]string, error) {
	if m.ListActiveNamesFunc != nil {
		return m.ListActiveNamesFunc(ctx, owner, since)
	}
	return nil, nil
}

func (m *MockAccountRepository) SearchByPopularity(ctx context.Context, owner, search string, limit int) ([]string, error) {
	if m.SearchByPopularityFunc != nil {
		return m.SearchByPopularityFunc(ctx, owner, search, limit)
	}
	return nil, nil
}

// Count returns the number of stored accounts.
func (m *MockAccountRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}

// MockTransactionRepository is an in-memory TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	entries      map[string][]*domain.Entry

	InsertEntriesFunc func(ctx context.Context, tx usecase.Tx, entries []*domain.Entry) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
		entries:      make(map[string][]*domain.Entry),
	}
}

func (m *MockTransactionRepository) CreateHeader(ctx context.Context, tx usecase.Tx, transaction *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	header := *transaction
	header.Entries = nil
	m.transactions[transaction.ID] = &header
	return nil
}

func (m *MockTransactionRepository) UpdateHeader(
	ctx context.Context,
	tx usecase.Tx,
	owner, id string,
	patch usecase.TransactionHeaderPatch,
	now time.Time,
) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok || t.Owner != owner {
		return nil, domain.ErrTransactionNotFound
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Payee != nil {
		t.Payee = *patch.Payee
	}
	if patch.Notes != nil {
		t.Notes = *patch.Notes
	}
	next := t.UpdatedAt.Add(time.Microsecond)
	if now.After(next) {
		next = now
	}
	t.UpdatedAt = next
	out := *t
	return &out, nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Tx, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok || t.Owner != owner {
		return domain.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	delete(m.entries, id)
	return nil
}

func (m *MockTransactionRepository) InsertEntries(ctx context.Context, tx usecase.Tx, entries []*domain.Entry) error {
	if m.InsertEntriesFunc != nil {
		return m.InsertEntriesFunc(ctx, tx, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[e.TransactionID] = append(m.entries[e.TransactionID], e)
	}
	return nil
}

func (m *MockTransactionRepository) DeleteEntries(ctx context.Context, tx usecase.Tx, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, transactionID)
	return nil
}

func (m *MockTransactionRepository) GetEntries(ctx context.Context, tx usecase.Tx, transactionID string) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Entry(nil), m.entries[transactionID]...), nil
}

func (m *MockTransactionRepository) Get(ctx context.Context, owner, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.transactions[id]
	if !ok || t.Owner != owner {
		return nil, domain.ErrTransactionNotFound
	}
	out := *t
	out.Entries = append([]*domain.Entry(nil), m.entries[id]...)
	return &out, nil
}

func (m *MockTransactionRepository) GetMany(ctx context.Context, owner string, ids []string) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, id := range ids {
		t, err := m.Get(ctx, owner, id)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *MockTransactionRepository) List(ctx context.Context, owner string, filter usecase.TransactionListFilter) ([]*domain.Transaction, error) {
	m.mu.RLock()
	var out []*domain.Transaction
	for id, t := range m.transactions {
		if t.Owner != owner {
			continue
		}
		if filter.Subtree != nil && !m.touches(id, *filter.Subtree) {
			continue
		}
		if filter.After != nil && !before(t, *filter.After) {
			continue
		}
		cp := *t
		cp.Entries = append([]*domain.Entry(nil), m.entries[id]...)
		out = append(out, &cp)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MockTransactionRepository) touches(id string, subtree domain.Subtree) bool {
	for _, e := range m.entries[id] {
		if subtree.Contains(e.AccountName) {
			return true
		}
	}
	return false
}

func before(t *domain.Transaction, c domain.TransactionCursor) bool {
	if !t.Date.Equal(c.AfterDate) {
		return t.Date.Before(c.AfterDate)
	}
	if !t.CreatedAt.Equal(c.AfterCreatedAt) {
		return t.CreatedAt.Before(c.AfterCreatedAt)
	}
	return t.ID < c.AfterID
}

// EntryCount returns the number of stored entries across all transactions.
func (m *MockTransactionRepository) EntryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, es := range m.entries {
		n += len(es)
	}
	return n
}

// MockOutboxRepository keeps outbox events in memory.
type MockOutboxRepository struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Tx, event *domain.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.Pending() && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id && e.Pending() {
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Attempts++
			e.LastError = cause.Error()
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	var purged int64
	for _, e := range m.events {
		if !e.Pending() && e.PublishedAt.Before(before) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return purged, nil
}

// EventTypes returns the types of recorded events in order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// Events returns the recorded events in order.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockIDGenerator returns sequential IDs unless GenerateFunc is set.
type MockIDGenerator struct {
	counter      atomic.Int64
	Prefix       string
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{Prefix: "id-"}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return fmt.Sprintf("%s%04d", m.Prefix, m.counter.Add(1))
}

// MockMetrics counts ledger metric calls.
type MockMetrics struct {
	mu         sync.Mutex
	Created    int
	Conflicts  int
	Operations []string
}

func (m *MockMetrics) AccountCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created++
}

func (m *MockMetrics) AccountConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Conflicts++
}

func (m *MockMetrics) TransactionWritten(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Operations = append(m.Operations, operation)
}

// Snapshot returns the counters under lock.
func (m *MockMetrics) Snapshot() (created, conflicts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Created, m.Conflicts
}
