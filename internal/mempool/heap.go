package mempool

import (
	"container/heap"

	"github.com/vectra-chain/vectra-core/pkg/tx"
	"github.com/vectra-chain/vectra-core/pkg/types"
)

// entry is a mempool record wrapping a transaction with the fields its
// priority ordering is computed from. It tracks its own index in both the
// max-heap and the min-heap so either side can remove it in O(log n)
// without a linear scan.
type entry struct {
	txn        *tx.Transaction
	hash       types.Hash
	size       uint64
	feePerByte uint64
	timestamp  uint64

	maxIndex int
	minIndex int
}

// higherPriority reports whether a ranks strictly above b in the mempool's
// total order: higher fee_per_byte first, ties broken by older timestamp.
func higherPriority(a, b *entry) bool {
	if a.feePerByte != b.feePerByte {
		return a.feePerByte > b.feePerByte
	}
	return a.timestamp < b.timestamp
}

// maxHeap surfaces the highest-priority entry at its root, for block
// selection.
type maxHeap []*entry

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return higherPriority(h[i], h[j]) }
func (h maxHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].maxIndex = i
	h[j].maxIndex = j
}

func (h *maxHeap) Push(x any) {
	e := x.(*entry)
	e.maxIndex = len(*h)
	*h = append(*h, e)
}

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.maxIndex = -1
	*h = old[:n-1]
	return e
}

// minHeap surfaces the lowest-priority entry at its root, for eviction. It
// mirrors maxHeap over the same total order, inverted, so the two
// structures never disagree about which entry is "worst".
type minHeap []*entry

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return higherPriority(h[j], h[i]) }
func (h minHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].minIndex = i
	h[j].minIndex = j
}

func (h *minHeap) Push(x any) {
	e := x.(*entry)
	e.minIndex = len(*h)
	*h = append(*h, e)
}

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.minIndex = -1
	*h = old[:n-1]
	return e
}

var (
	_ heap.Interface = (*maxHeap)(nil)
	_ heap.Interface = (*minHeap)(nil)
)

// priorityScan is a disposable heap used to walk entries in priority order
// without disturbing the live maxHeap/minHeap index bookkeeping. Its Swap
// never touches entry.maxIndex/minIndex, so it is safe to build from a
// shallow copy of maxHeap's backing slice and pop until empty.
type priorityScan []*entry

func (h priorityScan) Len() int           { return len(h) }
func (h priorityScan) Less(i, j int) bool { return higherPriority(h[i], h[j]) }
func (h priorityScan) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *priorityScan) Push(x any) { *h = append(*h, x.(*entry)) }

func (h *priorityScan) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

var _ heap.Interface = (*priorityScan)(nil)
