package consensus

import (
	"context"
	"errors"
	"testing"

	"github.com/vectra-chain/vectra-core/pkg/block"
	"github.com/vectra-chain/vectra-core/pkg/clock"
	"github.com/vectra-chain/vectra-core/pkg/crypto"
	"github.com/vectra-chain/vectra-core/pkg/tx"
	"github.com/vectra-chain/vectra-core/pkg/types"
	"github.com/vectra-chain/vectra-core/pkg/utxo"
)

func sampleTransaction(t *testing.T) *tx.Transaction {
	t.Helper()
	signer, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	receiverKey, _ := crypto.GenerateKey()
	var receiver types.PublicKey
	copy(receiver[:], receiverKey.PublicKey())
	var sender types.PublicKey
	copy(sender[:], signer.PublicKey())

	txn, err := tx.New(signer, receiver, clock.System{})
	if err != nil {
		t.Fatalf("tx.New() error: %v", err)
	}

	in, err := utxo.New(1000, 0)
	if err != nil {
		t.Fatalf("utxo.New() error: %v", err)
	}
	if err := in.Confirm(sender, types.Hash{1}, 1, false, clock.System{}); err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if err := txn.AddInputs([]*utxo.UTXO{in}, signer); err != nil {
		t.Fatalf("AddInputs() error: %v", err)
	}

	out, err := utxo.New(990, 0)
	if err != nil {
		t.Fatalf("utxo.New() error: %v", err)
	}
	if err := txn.AddOutputs([]*utxo.UTXO{out}, signer); err != nil {
		t.Fatalf("AddOutputs() error: %v", err)
	}

	return txn
}

func TestPoW_Seal_MeetsDifficulty(t *testing.T) {
	engine := NewPoW()
	txn := sampleTransaction(t)

	blk, err := engine.Seal(context.Background(), 1, []*tx.Transaction{txn}, types.Hash{}, 1)
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	if err := engine.VerifyWork(blk); err != nil {
		t.Errorf("VerifyWork() error: %v", err)
	}
}

func TestPoW_VerifyWork_RejectsUnmetTarget(t *testing.T) {
	engine := NewPoW()
	txn := sampleTransaction(t)

	blk, err := engine.Seal(context.Background(), 1, []*tx.Transaction{txn}, types.Hash{}, 1)
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	// Raise the stated difficulty past what the mined hash actually meets.
	blk.Difficulty = block.MaxDifficulty
	if err := engine.VerifyWork(blk); !errors.Is(err, block.ErrInsufficientWork) {
		t.Fatalf("VerifyWork() error = %v, want ErrInsufficientWork", err)
	}
}

func TestPoW_Seal_RespectsCancellation(t *testing.T) {
	engine := NewPoW()
	txn := sampleTransaction(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Seal(ctx, 1, []*tx.Transaction{txn}, types.Hash{}, block.MaxDifficulty)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Seal() error = %v, want context.Canceled", err)
	}
}
