package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zeroedbooks/ledger/internal/domain"
)

// PostgreSQL error codes the adapter translates.
const (
	pgErrUniqueViolation      = "23505"
	pgErrForeignKeyViolation  = "23503"
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrAdminShutdown        = "57P01"
	pgErrCannotConnectNow     = "57P03"
	pgErrConnectionClass      = "08"
)

// translateError maps driver errors onto domain error kinds, keeping the original
// error in the chain. Errors it does not recognise are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgErrUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		case pgErr.Code == pgErrForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrReferentialIntegrity, pgErr.ConstraintName)
		case isTransientCode(pgErr.Code):
			return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}

		return err
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	return err
}

func isTransientCode(code string) bool {
	switch code {
	case pgErrDeadlock, pgErrSerializationFailure, pgErrAdminShutdown, pgErrCannotConnectNow:
		return true
	}

	return strings.HasPrefix(code, pgErrConnectionClass)
}
