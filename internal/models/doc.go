// Package models defines the core domain models for the group fund ledger.
//
// The fund is a single kindergarten group's money pool:
//   - Participant: a parent with exactly one personal account
//   - Account: a personal balance, plus the fixed group account
//   - Transaction: a contribution or an expense, active until cancelled
//   - ExpenseDistribution: one participant's share of an expense
//   - TransactionFile: attachment metadata owned by a transaction
//
// All money amounts are integer minor units (kopecks). Balances are derived
// state: a personal balance equals the signed sum of the active transactions
// that reference the account, and the group balance equals active
// contributions minus active expenses.
package models
