// Package store names the full persistence surface a running service needs.
// Implementations live in store/memory and store/sqlstore.
package store

import (
	"context"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/payroll"
	"github.com/dayflow/hr-engine/timeoff"
)

// Backend is satisfied by *memory.Store and *sqlstore.Store.
type Backend interface {
	generic.EmployeeDirectory

	// TimeOff and Payroll return views whose WithTx hands the callback a
	// store bound to one transaction.
	TimeOff() timeoff.TxStore
	Payroll() payroll.TxStore

	// Reset deletes every row. Demo scenarios only.
	Reset(ctx context.Context) error
}
