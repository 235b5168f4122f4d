// Package block implements proof-of-work blocks: a transaction set
// committed to by a Merkle tree, sealed by a nonce search against a
// difficulty target.
package block

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/vectra-chain/vectra-core/pkg/clock"
	"github.com/vectra-chain/vectra-core/pkg/crypto"
	"github.com/vectra-chain/vectra-core/pkg/merkle"
	"github.com/vectra-chain/vectra-core/pkg/tx"
	"github.com/vectra-chain/vectra-core/pkg/types"
)

// ErrInvalidBlock covers structural problems: no transactions, a
// difficulty outside [1, 127], a stored hash or Merkle root that does not
// match the block's contents, or an unlocking-script count that differs
// from the transaction count.
var ErrInvalidBlock = errors.New("invalid block")

// ErrInsufficientWork is returned when a block's hash does not meet its
// stated difficulty target.
var ErrInsufficientWork = errors.New("hash does not meet difficulty target")

// ErrNonceSpaceExhausted is returned if mining exhausts the 64-bit nonce
// space without finding a satisfying hash (astronomically unlikely at any
// difficulty this core supports).
var ErrNonceSpaceExhausted = errors.New("nonce space exhausted")

const (
	// MinDifficulty is the smallest number of leading-zero bits a block
	// hash prefix may be required to have.
	MinDifficulty = 1
	// MaxDifficulty is the largest; a 128-bit prefix has no more bits to
	// spare than this.
	MaxDifficulty = 127
)

// Block is a mined collection of transactions, chained to its predecessor
// by hash and committed to by a Merkle tree over transaction ids.
type Block struct {
	Index        uint64
	Timestamp    uint64 // ms since epoch
	Transactions []*tx.Transaction
	Nonce        uint64
	PreviousHash types.Hash
	Hash         types.Hash
	Difficulty   uint32
	MerkleRoot   *merkle.Tree
}

// New builds and mines a block over transactions, blocking until a nonce
// satisfying difficulty is found. Equivalent to NewWithContext with a
// background context.
func New(index uint64, transactions []*tx.Transaction, previousHash types.Hash, difficulty uint32, clk clock.Clock) (*Block, error) {
	return NewWithContext(context.Background(), index, transactions, previousHash, difficulty, clk)
}

// NewWithContext builds and mines a block, honoring ctx for cancellation.
// Transactions must be non-empty; difficulty must be in [MinDifficulty,
// MaxDifficulty].
func NewWithContext(ctx context.Context, index uint64, transactions []*tx.Transaction, previousHash types.Hash, difficulty uint32, clk clock.Clock) (*Block, error) {
	if len(transactions) == 0 {
		return nil, fmt.Errorf("%w: block has no transactions", ErrInvalidBlock)
	}
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return nil, fmt.Errorf("%w: difficulty %d out of range [%d, %d]", ErrInvalidBlock, difficulty, MinDifficulty, MaxDifficulty)
	}

	txIDs := make([]types.Hash, len(transactions))
	for i, t := range transactions {
		txIDs[i] = t.HashID
	}

	b := &Block{
		Index:        index,
		Timestamp:    clk.NowMillis(),
		Transactions: transactions,
		PreviousHash: previousHash,
		Difficulty:   difficulty,
		MerkleRoot:   merkle.WithHashes(txIDs),
	}

	if err := b.mine(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// signingBody returns the hash-domain bytes that do not depend on the
// nonce: index_le || timestamp_le(16) || Σ txn.hash_id.
func (b *Block) signingBody() []byte {
	buf := make([]byte, 0, 8+16+32*len(b.Transactions))
	buf = binary.LittleEndian.AppendUint64(buf, b.Index)
	buf = appendUint128LE(buf, b.Timestamp)
	for _, t := range b.Transactions {
		buf = append(buf, t.HashID[:]...)
	}
	return buf
}

// signingTail returns the hash-domain bytes that follow the nonce:
// previous_hash || merkle_root_hash.
func (b *Block) signingTail() []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, b.PreviousHash[:]...)
	root := b.MerkleRoot.RootHash()
	buf = append(buf, root[:]...)
	return buf
}

// CalculateHash recomputes the block hash from its current fields:
// BLAKE3(index_le ‖ timestamp_le(16) ‖ Σ txn.hash_id ‖ nonce_le ‖
// previous_hash ‖ merkle_root_hash).
func (b *Block) CalculateHash() types.Hash {
	buf := b.signingBody()
	buf = binary.LittleEndian.AppendUint64(buf, b.Nonce)
	buf = append(buf, b.signingTail()...)
	return crypto.Hash(buf)
}

// appendUint128LE appends v as a little-endian 16-byte field, zero-extended
// in the high 8 bytes. Timestamps are represented as 64-bit milliseconds in
// this implementation (see package clock), but the hash domain reserves the
// full 128-bit field width of the original layout.
func appendUint128LE(buf []byte, v uint64) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, v)
	var hi [8]byte
	return append(buf, hi[:]...)
}

// maxU128 is 2^128 - 1.
var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// MeetsDifficulty reports whether hash's leading 16 bytes, read as a
// big-endian u128, are at most maxU128 >> difficulty.
func MeetsDifficulty(hash types.Hash, difficulty uint32) bool {
	target := new(big.Int).Rsh(maxU128, uint(difficulty))
	prefix := new(big.Int).SetBytes(hash[:16])
	return prefix.Cmp(target) <= 0
}

// mine searches the nonce space until CalculateHash meets b.Difficulty,
// polling ctx for cancellation every 65536 attempts. The body and tail are
// each assembled once; only the nonce field between them changes per
// attempt.
func (b *Block) mine(ctx context.Context) error {
	body := b.signingBody()
	tail := b.signingTail()
	buf := make([]byte, len(body)+8+len(tail))
	copy(buf, body)
	copy(buf[len(body)+8:], tail)

	for nonce := uint64(0); ; nonce++ {
		if nonce&0xFFFF == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		binary.LittleEndian.PutUint64(buf[len(body):], nonce)
		hash := crypto.Hash(buf)
		if MeetsDifficulty(hash, b.Difficulty) {
			b.Nonce = nonce
			b.Hash = hash
			return nil
		}
		if nonce == ^uint64(0) {
			return ErrNonceSpaceExhausted
		}
	}
}

// IsValid recomputes the block hash, checks it against the difficulty
// target, confirms the Merkle root matches the transaction set, and
// verifies every transaction against its corresponding unlocking script
// (supplied out-of-band, in transaction order; the core does not store
// unlocking scripts on the transaction itself).
func (b *Block) IsValid(unlockingScripts []string) error {
	if len(unlockingScripts) != len(b.Transactions) {
		return fmt.Errorf("%w: %d unlocking scripts for %d transactions", ErrInvalidBlock, len(unlockingScripts), len(b.Transactions))
	}

	computed := b.CalculateHash()
	if computed != b.Hash {
		return fmt.Errorf("%w: hash mismatch", ErrInvalidBlock)
	}
	if !MeetsDifficulty(b.Hash, b.Difficulty) {
		return ErrInsufficientWork
	}

	txIDs := make([]types.Hash, len(b.Transactions))
	for i, t := range b.Transactions {
		txIDs[i] = t.HashID
	}
	expectedRoot := merkle.WithHashes(txIDs).RootHash()
	if expectedRoot != b.MerkleRoot.RootHash() {
		return fmt.Errorf("%w: merkle root mismatch", ErrInvalidBlock)
	}

	for i, t := range b.Transactions {
		if _, _, _, err := t.Verify(unlockingScripts[i]); err != nil {
			return fmt.Errorf("tx %d: %w", i, err)
		}
	}
	return nil
}
