package mempool

import "errors"

var (
	// ErrTxnExistInMempool is returned when a transaction's hash id is
	// already present in the pool.
	ErrTxnExistInMempool = errors.New("transaction already in mempool")
	// ErrTxnLowFee is returned when the pool is at capacity and the
	// incoming transaction's fee_per_byte does not strictly exceed the
	// lowest-priority entry currently held.
	ErrTxnLowFee = errors.New("transaction fee too low to enter full mempool")
)
