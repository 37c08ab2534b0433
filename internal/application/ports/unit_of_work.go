// Package ports - UnitOfWork brackets the atomic unit of a proposal commit.
//
// Pattern: Unit of Work
// - One UnitOfWork call = one storage transaction
// - fn returning an error rolls the whole unit back
// - The transaction travels in the context; repositories pick it up there
package ports

import "context"

// UnitOfWork runs a function inside a storage-level transaction with at
// least read-committed isolation.
//
// All repository calls inside fn must use the context fn receives, not the
// outer one, or they escape the transaction. Nested Execute calls join the
// already-open transaction.
type UnitOfWork interface {
	// Execute begins a transaction, runs fn with the transactional
	// context, and commits on nil / rolls back on error or panic.
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
