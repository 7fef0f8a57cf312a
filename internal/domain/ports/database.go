package ports

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX represents a database executor that can be either a pool or a
// transaction. The in-memory store passes nil and ignores it.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...interface{}) pgx.Row
}

// TransactionManager manages database transactions. A payout transition and
// its ledger delta always run inside one WithTransaction call so that either
// both apply or neither does.
type TransactionManager interface {
	// WithTransaction executes fn within a write transaction.
	// The transaction is explicitly passed to the callback function.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error

	// WithReadOnlyTransaction executes fn within a read-only transaction.
	// Ensures consistent reads across multiple queries.
	WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// DBPort provides access to the datastore and transaction management
type DBPort interface {
	TransactionManager
	Ping(ctx context.Context) error
}
