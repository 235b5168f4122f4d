// Package mempool holds unconfirmed transactions awaiting block inclusion,
// admitted and evicted by fee_per_byte priority under a bounded entry count.
package mempool

import (
	"container/heap"
	"fmt"
	"sync"

	"github.com/vectra-chain/vectra-core/pkg/clock"
	"github.com/vectra-chain/vectra-core/pkg/tx"
	"github.com/vectra-chain/vectra-core/pkg/types"
)

// Pool is a single-writer structure: every exported method takes mu for its
// entire duration, per the core's concurrency model.
type Pool struct {
	mu      sync.Mutex
	byHash  map[types.Hash]*entry
	maxH    maxHeap
	minH    minHeap
	maxSize int
	clock   clock.Clock
}

// defaultMaxSize is used in place of a non-positive maxSize passed to New.
const defaultMaxSize = 5000

// New returns an empty pool admitting at most maxSize transactions. A
// non-positive maxSize is replaced with defaultMaxSize, since it would
// otherwise make the pool unable to admit anything.
func New(maxSize int, clk clock.Clock) *Pool {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	return &Pool{
		byHash:  make(map[types.Hash]*entry),
		maxSize: maxSize,
		clock:   clk,
	}
}

// Len reports the number of transactions currently held.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byHash)
}

// Contains reports whether hash is currently admitted.
func (p *Pool) Contains(hash types.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.byHash[hash]
	return ok
}

// AddTransaction admits txn at the given fee (computed by the caller via
// Transaction.Verify), rejecting a duplicate hash id outright and, when the
// pool is already at capacity, evicting the current lowest-priority entry
// only if txn's fee_per_byte strictly exceeds it.
func (p *Pool) AddTransaction(txn *tx.Transaction, fee uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	hash := txn.HashID
	if _, exists := p.byHash[hash]; exists {
		return ErrTxnExistInMempool
	}

	data, err := txn.MarshalBinary()
	if err != nil {
		return fmt.Errorf("serialize transaction: %w", err)
	}
	size := uint64(len(data))

	e := &entry{
		txn:        txn,
		hash:       hash,
		size:       size,
		feePerByte: fee / size,
		timestamp:  p.clock.NowMillis(),
	}

	if len(p.byHash) >= p.maxSize {
		victim := p.minH[0]
		if e.feePerByte > victim.feePerByte {
			p.removeEntryLocked(victim)
		} else {
			return ErrTxnLowFee
		}
	}

	p.byHash[hash] = e
	heap.Push(&p.maxH, e)
	heap.Push(&p.minH, e)
	return nil
}

// RemoveTransaction deletes hash from the pool, reporting whether it was
// present.
func (p *Pool) RemoveTransaction(hash types.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.byHash[hash]
	if !ok {
		return false
	}
	p.removeEntryLocked(e)
	return true
}

// removeEntryLocked deletes e from by_hash and both heaps in O(log n) using
// its tracked indices. Callers must hold mu.
func (p *Pool) removeEntryLocked(e *entry) {
	delete(p.byHash, e.hash)
	heap.Remove(&p.maxH, e.maxIndex)
	heap.Remove(&p.minH, e.minIndex)
}

// GetTransactionsForBlock greedily draws the highest-priority entries whose
// cumulative serialized size stays under maxBlockSize, first-fit: it stops
// at the first entry that would overflow rather than trying smaller later
// ones. Stale entries (already removed from by_hash) are skipped without
// stopping the scan. Selected transactions are removed from the pool before
// returning.
func (p *Pool) GetTransactionsForBlock(maxBlockSize uint64) []*tx.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()

	scan := make(priorityScan, len(p.maxH))
	copy(scan, p.maxH)

	var selected []*entry
	var runningSize uint64
	for scan.Len() > 0 {
		e := heap.Pop(&scan).(*entry)
		if _, live := p.byHash[e.hash]; !live {
			continue
		}
		if runningSize+e.size > maxBlockSize {
			break
		}
		selected = append(selected, e)
		runningSize += e.size
	}

	txns := make([]*tx.Transaction, len(selected))
	for i, e := range selected {
		txns[i] = e.txn
		p.removeEntryLocked(e)
	}
	return txns
}
