// Package models defines the core domain models for the expense sharing service.
//
// # Models
//
//   - User: a registered account, identified by email
//   - Expense: a shared expense fronted by one payer and split evenly among
//     its participants
//   - Settlement: a record of a payment redirect requested to clear a debt
//
// Expenses are immutable once created; there is no update or delete path.
// Who-owes-whom is never stored: it is derived per request by the balance
// engine in internal/ledger from the raw expense records.
//
// # Design principles
//
//  1. Models are plain structs with no behavior beyond trivial constructors
//  2. Relationships use ID strings, never struct pointers, to avoid cycles
//  3. Monetary amounts are decimal.Decimal end to end, persisted as strings
package models
