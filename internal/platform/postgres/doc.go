// Package postgres provides PostgreSQL implementations of the store
// interfaces, plus the embedded goose migrations that create the schema.
// Stores run raw SQL through store.DBTX so that each one can be bound to a
// transaction with WithTx, and translate constraint violations into the
// store package's sentinel errors by constraint name.
package postgres
