// Package consensus defines the proof-of-work engine interface used to
// seal and verify blocks, decoupling the block-assembly layer from the
// concrete mining implementation.
package consensus

import (
	"context"

	"github.com/vectra-chain/vectra-core/pkg/block"
	"github.com/vectra-chain/vectra-core/pkg/clock"
	"github.com/vectra-chain/vectra-core/pkg/tx"
	"github.com/vectra-chain/vectra-core/pkg/types"
)

// Engine seals a transaction set into a mined block and verifies that an
// existing block's hash satisfies its own stated difficulty.
type Engine interface {
	Seal(ctx context.Context, index uint64, transactions []*tx.Transaction, previousHash types.Hash, difficulty uint32) (*block.Block, error)
	VerifyWork(blk *block.Block) error
}

// PoW is the Engine implementation backing this node: a single-threaded
// nonce search against the difficulty target defined in pkg/block.
type PoW struct {
	Clock clock.Clock
}

// NewPoW returns a PoW engine using the system wall clock.
func NewPoW() *PoW {
	return &PoW{Clock: clock.System{}}
}

// Seal mines a block over transactions, honoring ctx for cancellation.
func (p *PoW) Seal(ctx context.Context, index uint64, transactions []*tx.Transaction, previousHash types.Hash, difficulty uint32) (*block.Block, error) {
	clk := p.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return block.NewWithContext(ctx, index, transactions, previousHash, difficulty, clk)
}

// VerifyWork reports whether blk's stored hash meets its own difficulty
// target. It does not re-validate transactions or the Merkle root; callers
// that need the full check should use blk.IsValid.
func (p *PoW) VerifyWork(blk *block.Block) error {
	if !block.MeetsDifficulty(blk.Hash, blk.Difficulty) {
		return block.ErrInsufficientWork
	}
	return nil
}
