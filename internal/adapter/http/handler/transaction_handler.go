package handler

import (
	"context"
	"net/http"

	"github.com/zeroedbooks/ledger/internal/adapter/http/dto"
	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// maxBatchIDs bounds the ids accepted by a batch read.
const maxBatchIDs = 100

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Create(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	Update(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, owner, id string) error
	Get(ctx context.Context, owner, id string) (*domain.Transaction, error)
	GetMany(ctx context.Context, owner string, ids []string) ([]*domain.Transaction, error)
	List(ctx context.Context, input usecase.ListTransactionsInput) (*usecase.TransactionPage, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactions TransactionService
	retrier      Retrier
}

// NewTransactionHandler creates a new TransactionHandler. retrier may be nil.
func NewTransactionHandler(transactions TransactionService, retrier Retrier) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		retrier:      retrierOrOnce(retrier),
	}
}

// Create stores a new transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(owner)
	if err != nil {
		writeDomainError(w, r, "invalid transaction", err)
		return
	}

	transaction, err := h.transactions.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create transaction", err)
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+transaction.ID)
	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// Get returns one transaction.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := pathParam(r, "id")

	var transaction *domain.Transaction
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		transaction, err = h.transactions.Get(r.Context(), owner, id)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// List returns a page of transactions, optionally limited to an account subtree.
// With ?ids=a,b it returns those transactions instead.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	if ids := splitList(query.Get("ids")); len(ids) > 0 {
		h.getMany(w, r, owner, ids)
		return
	}

	var page *usecase.TransactionPage
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		page, err = h.transactions.List(r.Context(), usecase.ListTransactionsInput{
			Owner:   owner,
			Account: query.Get("account"),
			After:   query.Get("after"),
		})
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(page.Transactions),
		Next:         page.Next,
	})
}

func (h *TransactionHandler) getMany(w http.ResponseWriter, r *http.Request, owner string, ids []string) {
	if len(ids) > maxBatchIDs {
		writeError(w, http.StatusBadRequest, "too many ids", "")
		return
	}

	var transactions []*domain.Transaction
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		transactions, err = h.transactions.GetMany(r.Context(), owner, ids)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to get transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(transactions),
	})
}

// Update replaces a transaction's header fields and, when given, its entries.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(owner, pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "invalid transaction", err)
		return
	}

	transaction, err := h.transactions.Update(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to update transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// Delete removes a transaction.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.transactions.Delete(r.Context(), owner, pathParam(r, "id")); err != nil {
		writeDomainError(w, r, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
