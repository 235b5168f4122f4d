// Package tx implements signed transactions over UTXO inputs and outputs.
package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/vectra-chain/vectra-core/pkg/clock"
	"github.com/vectra-chain/vectra-core/pkg/crypto"
	"github.com/vectra-chain/vectra-core/pkg/types"
	"github.com/vectra-chain/vectra-core/pkg/utxo"
)

// Transaction is a signed collection of input UTXOs and output UTXOs whose
// identifier is the digest of its canonical serialization.
type Transaction struct {
	HashID    types.Hash
	Sender    types.PublicKey
	Receiver  types.PublicKey
	Timestamp uint64 // ms since epoch
	Signature types.Signature
	Inputs    []*utxo.UTXO
	Outputs   []*utxo.UTXO
}

// New initializes a transaction with empty inputs/outputs, the current
// wall-clock millisecond timestamp, and sender set to the signing key's
// public key, then hashes and signs it.
func New(signingKey *crypto.PrivateKey, receiver types.PublicKey, clk clock.Clock) (*Transaction, error) {
	var sender types.PublicKey
	copy(sender[:], signingKey.PublicKey())

	t := &Transaction{
		Sender:    sender,
		Receiver:  receiver,
		Timestamp: clk.NowMillis(),
	}
	if err := t.calculateHash(signingKey); err != nil {
		return nil, err
	}
	return t, nil
}

// SigningBytes returns the canonical hash-domain serialization covering the
// transaction body: sender || receiver || timestamp_le || Σ input.ToBytes()
// || Σ output.ToBytes().
func (t *Transaction) SigningBytes() []byte {
	var buf []byte
	buf = append(buf, t.Sender[:]...)
	buf = append(buf, t.Receiver[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, t.Timestamp)
	for _, in := range t.Inputs {
		buf = append(buf, in.ToBytes()...)
	}
	for _, out := range t.Outputs {
		buf = append(buf, out.ToBytes()...)
	}
	return buf
}

// calculateHash re-derives HashID and Signature from the current body.
func (t *Transaction) calculateHash(signingKey *crypto.PrivateKey) error {
	t.HashID = crypto.Hash(t.SigningBytes())
	sig, err := signingKey.Sign(t.HashID[:])
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	copy(t.Signature[:], sig)
	return nil
}

// AddInputs appends newInputs, rejecting any Pending UTXO or an empty slice,
// then re-derives HashID and Signature.
func (t *Transaction) AddInputs(newInputs []*utxo.UTXO, signingKey *crypto.PrivateKey) error {
	for _, in := range newInputs {
		if in.State() != utxo.Confirmed {
			return utxo.ErrPendingUTXO
		}
	}
	if len(newInputs) == 0 {
		return ErrInsufficientFunds
	}
	t.Inputs = append(t.Inputs, newInputs...)
	return t.calculateHash(signingKey)
}

// AddOutputs appends newOutputs, rejecting any Confirmed UTXO or an empty
// slice, then re-derives HashID and Signature.
func (t *Transaction) AddOutputs(newOutputs []*utxo.UTXO, signingKey *crypto.PrivateKey) error {
	for _, out := range newOutputs {
		if out.State() != utxo.Pending {
			return utxo.ErrConfirmedUTXO
		}
	}
	if len(newOutputs) == 0 {
		return ErrInsufficientFunds
	}
	t.Outputs = append(t.Outputs, newOutputs...)
	return t.calculateHash(signingKey)
}

// Verify checks that the sender holds sufficient funds, that every input
// unlocks under unlockingScript, and that the transaction signature is
// valid. It returns (input_total, output_total, fee).
func (t *Transaction) Verify(unlockingScript string) (inputTotal, outputTotal, fee uint64, err error) {
	if len(t.Inputs) == 0 || len(t.Outputs) == 0 {
		return 0, 0, 0, ErrInsufficientFunds
	}

	for _, in := range t.Inputs {
		if in.State() != utxo.Confirmed {
			return 0, 0, 0, utxo.ErrPendingUTXO
		}
		inputTotal += in.Value()
	}

	for _, out := range t.Outputs {
		if out.State() != utxo.Pending {
			return 0, 0, 0, utxo.ErrConfirmedUTXO
		}
		outputTotal += out.Value()
	}

	if outputTotal > inputTotal {
		return 0, 0, 0, ErrInsufficientFunds
	}
	fee = inputTotal - outputTotal

	for _, in := range t.Inputs {
		if err := in.Unlock(unlockingScript); err != nil {
			return 0, 0, 0, err
		}
	}

	if !crypto.VerifySignature(t.HashID[:], t.Signature[:], t.Sender[:]) {
		return 0, 0, 0, ErrUnauthorized
	}

	return inputTotal, outputTotal, fee, nil
}
