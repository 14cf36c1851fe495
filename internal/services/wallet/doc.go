/*
Package wallet owns the platform's virtual economy: per-account
balances in coins, crystals and karma, plus the append-only ledger
behind them.

All balance mutations go through single conditional SQL updates
executed in the same database transaction as their ledger insert, so a
debit can never drive a balance negative and a failed operation leaves
no partial state. A transfer is one transaction containing a debit, a
credit and two ledger entries that share a UUID reference.

Balances are cached in Redis and invalidated after every mutation.
*/
package wallet
