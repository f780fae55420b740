/*
store.go - Transaction boundary contract shared by domain stores

PURPOSE:
  Domain packages define their own store interfaces (timeoff.Store,
  payroll.Store). TxStore adds the unit-of-work boundary on top: the
  callback receives a store bound to one database transaction, and
  everything it does commits together or not at all.

ATOMICITY:
  Approving a request debits a balance and flips the request status.
  Both writes go through the store handed to the WithTx callback:

    err := s.WithTx(ctx, func(tx timeoff.Store) error {
        ... lock balance, validate, debit, update request ...
    })

  If the callback returns an error the transaction is rolled back.

IMPLEMENTATIONS:
  - store/sqlstore: SQLite and PostgreSQL via sqlx
  - store/memory:   In-memory with snapshot rollback, for tests

SEE ALSO:
  - timeoff/store.go: Time-off persistence interface
  - payroll/service.go: Salary persistence interface
*/
package generic

import "context"

// TxStore wraps a store S with transaction support.
type TxStore[S any] interface {
	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	WithTx(ctx context.Context, fn func(S) error) error
}
