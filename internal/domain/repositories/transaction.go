package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a function inside a single database transaction.
// Multi-step tree mutations (move, rename, cascading delete) go through it
// so either every path rewrite commits or none does.
type TransactionManager interface {
	// ExecTx executes fn within a transaction, committing on nil and
	// rolling back on error.
	ExecTx(ctx context.Context, fn TxFn) error
}
