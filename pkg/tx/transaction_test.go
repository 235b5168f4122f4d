package tx

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/vectra-chain/vectra-core/pkg/clock"
	"github.com/vectra-chain/vectra-core/pkg/crypto"
	"github.com/vectra-chain/vectra-core/pkg/types"
	"github.com/vectra-chain/vectra-core/pkg/utxo"
)

func pubKeyOf(t *testing.T, key *crypto.PrivateKey) types.PublicKey {
	t.Helper()
	var pk types.PublicKey
	copy(pk[:], key.PublicKey())
	return pk
}

func confirmedUTXO(t *testing.T, value uint64, index uint32, owner types.PublicKey) *utxo.UTXO {
	t.Helper()
	u, err := utxo.New(value, index)
	if err != nil {
		t.Fatalf("utxo.New() error: %v", err)
	}
	if err := u.Confirm(owner, types.Hash{1}, 100, false, clock.System{}); err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	return u
}

func pendingUTXO(t *testing.T, value uint64, index uint32) *utxo.UTXO {
	t.Helper()
	u, err := utxo.New(value, index)
	if err != nil {
		t.Fatalf("utxo.New() error: %v", err)
	}
	return u
}

func unlockingScriptFor(t *testing.T, key *crypto.PrivateKey) string {
	t.Helper()
	pubKeyBytes := key.PublicKey()
	ownerHash := crypto.Hash(pubKeyBytes)
	sig, err := key.Sign(ownerHash[:])
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	return hex.EncodeToString(sig) + " " + hex.EncodeToString(pubKeyBytes)
}

func TestTransaction_ValidSpend(t *testing.T) {
	signer, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	receiverKey, _ := crypto.GenerateKey()
	receiver := pubKeyOf(t, receiverKey)
	sender := pubKeyOf(t, signer)

	txn, err := New(signer, receiver, clock.System{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	input := confirmedUTXO(t, 1_000_000_000, 1, sender)
	if err := txn.AddInputs([]*utxo.UTXO{input}, signer); err != nil {
		t.Fatalf("AddInputs() error: %v", err)
	}

	output := pendingUTXO(t, 999_999_990, 1)
	if err := txn.AddOutputs([]*utxo.UTXO{output}, signer); err != nil {
		t.Fatalf("AddOutputs() error: %v", err)
	}

	script := unlockingScriptFor(t, signer)
	inTotal, outTotal, fee, err := txn.Verify(script)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if inTotal != 1_000_000_000 || outTotal != 999_999_990 || fee != 10 {
		t.Errorf("Verify() = (%d, %d, %d), want (1000000000, 999999990, 10)", inTotal, outTotal, fee)
	}
}

func TestTransaction_InsufficientFunds(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	receiverKey, _ := crypto.GenerateKey()
	receiver := pubKeyOf(t, receiverKey)
	sender := pubKeyOf(t, signer)

	txn, err := New(signer, receiver, clock.System{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	input := confirmedUTXO(t, 1_000_000_000, 1, sender)
	if err := txn.AddInputs([]*utxo.UTXO{input}, signer); err != nil {
		t.Fatalf("AddInputs() error: %v", err)
	}
	output := pendingUTXO(t, 1_000_000_010, 1)
	if err := txn.AddOutputs([]*utxo.UTXO{output}, signer); err != nil {
		t.Fatalf("AddOutputs() error: %v", err)
	}

	script := unlockingScriptFor(t, signer)
	_, _, _, err = txn.Verify(script)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Verify() error = %v, want ErrInsufficientFunds", err)
	}
}

func TestTransaction_WrongSigner(t *testing.T) {
	s1, _ := crypto.GenerateKey()
	s2, _ := crypto.GenerateKey()
	receiverKey, _ := crypto.GenerateKey()
	receiver := pubKeyOf(t, receiverKey)
	sender := pubKeyOf(t, s1)

	txn, err := New(s1, receiver, clock.System{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	input := confirmedUTXO(t, 1_000_000_000, 1, sender)
	if err := txn.AddInputs([]*utxo.UTXO{input}, s1); err != nil {
		t.Fatalf("AddInputs() error: %v", err)
	}
	output := pendingUTXO(t, 999_999_990, 1)
	if err := txn.AddOutputs([]*utxo.UTXO{output}, s1); err != nil {
		t.Fatalf("AddOutputs() error: %v", err)
	}

	// Re-sign with a different key, as if a third party tampered with the
	// transaction after the sender field was fixed.
	if err := txn.calculateHash(s2); err != nil {
		t.Fatalf("calculateHash() error: %v", err)
	}

	script := unlockingScriptFor(t, s1)
	_, _, _, err = txn.Verify(script)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Verify() error = %v, want ErrUnauthorized", err)
	}
}

func TestTransaction_HashIDConsistentWithSignature(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	receiverKey, _ := crypto.GenerateKey()
	receiver := pubKeyOf(t, receiverKey)

	txn, err := New(signer, receiver, clock.Fixed{Millis: 1000})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	want := crypto.Hash(txn.SigningBytes())
	if txn.HashID != want {
		t.Errorf("HashID = %x, want %x", txn.HashID, want)
	}
	if !crypto.VerifySignature(txn.HashID[:], txn.Signature[:], txn.Sender[:]) {
		t.Error("signature should verify against hash_id and sender")
	}
}

func TestTransaction_AddInputs_RejectsPending(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	receiverKey, _ := crypto.GenerateKey()
	receiver := pubKeyOf(t, receiverKey)

	txn, _ := New(signer, receiver, clock.System{})
	pending := pendingUTXO(t, 100, 0)

	err := txn.AddInputs([]*utxo.UTXO{pending}, signer)
	if !errors.Is(err, utxo.ErrPendingUTXO) {
		t.Fatalf("AddInputs() error = %v, want ErrPendingUTXO", err)
	}
}

func TestTransaction_AddOutputs_RejectsConfirmed(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	receiverKey, _ := crypto.GenerateKey()
	receiver := pubKeyOf(t, receiverKey)
	sender := pubKeyOf(t, signer)

	txn, _ := New(signer, receiver, clock.System{})
	confirmed := confirmedUTXO(t, 100, 0, sender)

	err := txn.AddOutputs([]*utxo.UTXO{confirmed}, signer)
	if !errors.Is(err, utxo.ErrConfirmedUTXO) {
		t.Fatalf("AddOutputs() error = %v, want ErrConfirmedUTXO", err)
	}
}

func TestTransaction_AddInputs_EmptyIsIdempotent(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	receiverKey, _ := crypto.GenerateKey()
	receiver := pubKeyOf(t, receiverKey)

	txn, _ := New(signer, receiver, clock.Fixed{Millis: 42})
	before := txn.HashID

	err := txn.AddInputs(nil, signer)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("AddInputs(nil) error = %v, want ErrInsufficientFunds", err)
	}
	if txn.HashID != before || len(txn.Inputs) != 0 {
		t.Error("AddInputs(nil) should leave the transaction unchanged")
	}
}

func TestTransaction_AddOutputs_EmptyIsIdempotent(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	receiverKey, _ := crypto.GenerateKey()
	receiver := pubKeyOf(t, receiverKey)

	txn, _ := New(signer, receiver, clock.Fixed{Millis: 42})
	before := txn.HashID

	err := txn.AddOutputs(nil, signer)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("AddOutputs(nil) error = %v, want ErrInsufficientFunds", err)
	}
	if txn.HashID != before || len(txn.Outputs) != 0 {
		t.Error("AddOutputs(nil) should leave the transaction unchanged")
	}
}

func TestTransaction_MarshalBinary_Roundtrip(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	receiverKey, _ := crypto.GenerateKey()
	receiver := pubKeyOf(t, receiverKey)
	sender := pubKeyOf(t, signer)

	txn, _ := New(signer, receiver, clock.Fixed{Millis: 999})
	input := confirmedUTXO(t, 500, 0, sender)
	if err := txn.AddInputs([]*utxo.UTXO{input}, signer); err != nil {
		t.Fatalf("AddInputs() error: %v", err)
	}
	output := pendingUTXO(t, 490, 0)
	if err := txn.AddOutputs([]*utxo.UTXO{output}, signer); err != nil {
		t.Fatalf("AddOutputs() error: %v", err)
	}

	data, err := txn.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error: %v", err)
	}

	var decoded Transaction
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error: %v", err)
	}

	if decoded.HashID != txn.HashID {
		t.Errorf("HashID mismatch after roundtrip")
	}
	if decoded.Sender != txn.Sender || decoded.Receiver != txn.Receiver {
		t.Error("Sender/Receiver mismatch after roundtrip")
	}
	if decoded.Timestamp != txn.Timestamp {
		t.Error("Timestamp mismatch after roundtrip")
	}
	if len(decoded.Inputs) != 1 || len(decoded.Outputs) != 1 {
		t.Fatalf("input/output count mismatch: %d/%d", len(decoded.Inputs), len(decoded.Outputs))
	}
	if decoded.Inputs[0].Value() != 500 || decoded.Outputs[0].Value() != 490 {
		t.Error("input/output value mismatch after roundtrip")
	}
}
