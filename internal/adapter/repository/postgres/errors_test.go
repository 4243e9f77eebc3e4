package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/zeroedbooks/ledger/internal/domain"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "account_owner_name_key"}, domain.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, domain.ErrReferentialIntegrity},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrStorageUnavailable},
		{"serialization", &pgconn.PgError{Code: "40001"}, domain.ErrStorageUnavailable},
		{"connection failure", &pgconn.PgError{Code: "08006"}, domain.ErrStorageUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, domain.ErrStorageUnavailable},
		{"deadline", context.DeadlineExceeded, domain.ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			assert.ErrorIs(t, got, tt.target)
		})
	}
}

func TestTranslateErrorPassesThrough(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.Equal(t, pgx.ErrNoRows, translateError(pgx.ErrNoRows))

	syntax := &pgconn.PgError{Code: "42601"}
	assert.True(t, errors.Is(translateError(syntax), syntax))
	assert.False(t, errors.Is(translateError(syntax), domain.ErrStorageUnavailable))
}
