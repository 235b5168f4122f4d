// Package blockassembly turns a mempool draw into a mined block, prepending
// the coinbase transaction that rewards block production. Coinbase
// transactions have no inputs at all, so they fall outside the core's
// Transaction.Verify contract and are validated structurally here instead.
package blockassembly

import (
	"context"
	"errors"
	"fmt"

	"github.com/vectra-chain/vectra-core/internal/consensus"
	"github.com/vectra-chain/vectra-core/internal/mempool"
	"github.com/vectra-chain/vectra-core/pkg/block"
	"github.com/vectra-chain/vectra-core/pkg/clock"
	"github.com/vectra-chain/vectra-core/pkg/crypto"
	"github.com/vectra-chain/vectra-core/pkg/tx"
	"github.com/vectra-chain/vectra-core/pkg/types"
	"github.com/vectra-chain/vectra-core/pkg/utxo"
)

// ErrInvalidCoinbase covers structural coinbase failures the assembler
// rejects before a block is ever sealed or accepted.
var ErrInvalidCoinbase = errors.New("invalid coinbase transaction")

// Assembler draws transactions from a mempool and seals them, together with
// a freshly built coinbase, into a mined block.
type Assembler struct {
	Engine         consensus.Engine
	Pool           *mempool.Pool
	CoinbaseKey    *crypto.PrivateKey
	CoinbaseReward uint64
	MaxBlockSize   uint64
	Clock          clock.Clock
}

// New returns an Assembler wired to engine and pool, rewarding the holder of
// coinbaseKey a fixed amount per block.
func New(engine consensus.Engine, pool *mempool.Pool, coinbaseKey *crypto.PrivateKey, coinbaseReward, maxBlockSize uint64, clk clock.Clock) *Assembler {
	return &Assembler{
		Engine:         engine,
		Pool:           pool,
		CoinbaseKey:    coinbaseKey,
		CoinbaseReward: coinbaseReward,
		MaxBlockSize:   maxBlockSize,
		Clock:          clk,
	}
}

// buildCoinbase assembles the reward transaction: no inputs, a single
// Pending output carrying the fixed block reward. The sender and receiver
// are both the coinbase key's own public key, since the payee is recorded
// on the output itself once confirmed, not on the transaction.
func (a *Assembler) buildCoinbase() (*tx.Transaction, error) {
	var self types.PublicKey
	copy(self[:], a.CoinbaseKey.PublicKey())

	coinbase, err := tx.New(a.CoinbaseKey, self, a.Clock)
	if err != nil {
		return nil, fmt.Errorf("build coinbase: %w", err)
	}

	out, err := utxo.New(a.CoinbaseReward, 0)
	if err != nil {
		return nil, fmt.Errorf("build coinbase: %w", err)
	}
	if err := coinbase.AddOutputs([]*utxo.UTXO{out}, a.CoinbaseKey); err != nil {
		return nil, fmt.Errorf("build coinbase: %w", err)
	}
	return coinbase, nil
}

// AssembleBlock draws transactions for index from the mempool, prepends a
// freshly built coinbase, and seals the result via the proof-of-work
// engine, honoring ctx for cancellation.
func (a *Assembler) AssembleBlock(ctx context.Context, index uint64, previousHash types.Hash, difficulty uint32) (*block.Block, error) {
	coinbase, err := a.buildCoinbase()
	if err != nil {
		return nil, err
	}

	selected := a.Pool.GetTransactionsForBlock(a.MaxBlockSize)
	txs := make([]*tx.Transaction, 0, 1+len(selected))
	txs = append(txs, coinbase)
	txs = append(txs, selected...)

	return a.Engine.Seal(ctx, index, txs, previousHash, difficulty)
}

// ValidateCoinbase performs the structural check that stands in for
// Transaction.Verify on a block's first transaction: no inputs, exactly one
// Pending output, nonzero value.
func ValidateCoinbase(t *tx.Transaction) error {
	if len(t.Inputs) != 0 {
		return fmt.Errorf("%w: coinbase must have no inputs", ErrInvalidCoinbase)
	}
	if len(t.Outputs) != 1 {
		return fmt.Errorf("%w: coinbase must have exactly one output", ErrInvalidCoinbase)
	}
	if t.Outputs[0].State() != utxo.Pending {
		return fmt.Errorf("%w: coinbase output must be pending", ErrInvalidCoinbase)
	}
	if t.Outputs[0].Value() == 0 {
		return fmt.Errorf("%w: coinbase output value must be nonzero", ErrInvalidCoinbase)
	}
	return nil
}

// ConfirmCoinbaseOutput validates and confirms the coinbase output of a
// sealed block's first transaction, marking it a spendable, coinbase-flagged
// UTXO owned by owner at the block's height.
func ConfirmCoinbaseOutput(blk *block.Block, owner types.PublicKey, clk clock.Clock) error {
	if len(blk.Transactions) == 0 {
		return fmt.Errorf("%w: block has no coinbase transaction", ErrInvalidCoinbase)
	}
	coinbase := blk.Transactions[0]
	if err := ValidateCoinbase(coinbase); err != nil {
		return err
	}
	return coinbase.Outputs[0].Confirm(owner, coinbase.HashID, uint32(blk.Index), true, clk)
}
