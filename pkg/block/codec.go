package block

import (
	"fmt"

	"github.com/vectra-chain/vectra-core/pkg/codec"
	"github.com/vectra-chain/vectra-core/pkg/merkle"
	"github.com/vectra-chain/vectra-core/pkg/tx"
	"github.com/vectra-chain/vectra-core/pkg/types"
)

// MarshalBinary encodes the block using the canonical wire codec. The
// Merkle tree is not serialized; it is rebuilt from the decoded
// transactions' hash ids on unmarshal.
func (b *Block) MarshalBinary() ([]byte, error) {
	w := codec.NewWriter()
	w.Uint64(b.Index)
	w.Uint64(b.Timestamp)
	w.Uint64(b.Nonce)
	w.Fixed(b.PreviousHash[:])
	w.Fixed(b.Hash[:])
	w.Uint32(b.Difficulty)

	w.Uint32(uint32(len(b.Transactions)))
	for _, t := range b.Transactions {
		data, err := t.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encode transaction: %w", err)
		}
		w.Bytes(data)
	}

	return w.Finish(), nil
}

// UnmarshalBinary decodes a block from its canonical wire representation
// and rebuilds its Merkle tree from the decoded transactions.
func (b *Block) UnmarshalBinary(data []byte) error {
	r := codec.NewReader(data)

	index, err := r.Uint64()
	if err != nil {
		return fmt.Errorf("decode index: %w", err)
	}
	timestamp, err := r.Uint64()
	if err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	nonce, err := r.Uint64()
	if err != nil {
		return fmt.Errorf("decode nonce: %w", err)
	}
	previousHash, err := r.Fixed(types.HashSize)
	if err != nil {
		return fmt.Errorf("decode previous_hash: %w", err)
	}
	hash, err := r.Fixed(types.HashSize)
	if err != nil {
		return fmt.Errorf("decode hash: %w", err)
	}
	difficulty, err := r.Uint32()
	if err != nil {
		return fmt.Errorf("decode difficulty: %w", err)
	}

	count, err := r.Uint32()
	if err != nil {
		return fmt.Errorf("decode transaction count: %w", err)
	}
	transactions := make([]*tx.Transaction, 0, count)
	txIDs := make([]types.Hash, 0, count)
	for i := uint32(0); i < count; i++ {
		data, err := r.Bytes()
		if err != nil {
			return fmt.Errorf("decode transaction %d: %w", i, err)
		}
		t := &tx.Transaction{}
		if err := t.UnmarshalBinary(data); err != nil {
			return fmt.Errorf("decode transaction %d: %w", i, err)
		}
		transactions = append(transactions, t)
		txIDs = append(txIDs, t.HashID)
	}

	b.Index = index
	b.Timestamp = timestamp
	b.Nonce = nonce
	copy(b.PreviousHash[:], previousHash)
	copy(b.Hash[:], hash)
	b.Difficulty = difficulty
	b.Transactions = transactions
	b.MerkleRoot = merkle.WithHashes(txIDs)
	return nil
}
