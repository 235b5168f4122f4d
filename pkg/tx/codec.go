package tx

import (
	"fmt"

	"github.com/vectra-chain/vectra-core/pkg/codec"
	"github.com/vectra-chain/vectra-core/pkg/types"
	"github.com/vectra-chain/vectra-core/pkg/utxo"
)

// MarshalBinary encodes the transaction using the canonical wire codec.
func (t *Transaction) MarshalBinary() ([]byte, error) {
	w := codec.NewWriter()
	w.Fixed(t.HashID[:])
	w.Fixed(t.Sender[:])
	w.Fixed(t.Receiver[:])
	w.Uint64(t.Timestamp)
	w.Fixed(t.Signature[:])

	w.Uint32(uint32(len(t.Inputs)))
	for _, in := range t.Inputs {
		b, err := in.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encode input: %w", err)
		}
		w.Bytes(b)
	}

	w.Uint32(uint32(len(t.Outputs)))
	for _, out := range t.Outputs {
		b, err := out.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encode output: %w", err)
		}
		w.Bytes(b)
	}

	return w.Finish(), nil
}

// UnmarshalBinary decodes a transaction from its canonical wire representation.
func (t *Transaction) UnmarshalBinary(data []byte) error {
	r := codec.NewReader(data)

	hashID, err := r.Fixed(types.HashSize)
	if err != nil {
		return fmt.Errorf("decode hash_id: %w", err)
	}
	sender, err := r.Fixed(types.PublicKeySize)
	if err != nil {
		return fmt.Errorf("decode sender: %w", err)
	}
	receiver, err := r.Fixed(types.PublicKeySize)
	if err != nil {
		return fmt.Errorf("decode receiver: %w", err)
	}
	timestamp, err := r.Uint64()
	if err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	signature, err := r.Fixed(types.SignatureSize)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	inCount, err := r.Uint32()
	if err != nil {
		return fmt.Errorf("decode input count: %w", err)
	}
	inputs := make([]*utxo.UTXO, 0, inCount)
	for i := uint32(0); i < inCount; i++ {
		b, err := r.Bytes()
		if err != nil {
			return fmt.Errorf("decode input %d: %w", i, err)
		}
		u := &utxo.UTXO{}
		if err := u.UnmarshalBinary(b); err != nil {
			return fmt.Errorf("decode input %d: %w", i, err)
		}
		inputs = append(inputs, u)
	}

	outCount, err := r.Uint32()
	if err != nil {
		return fmt.Errorf("decode output count: %w", err)
	}
	outputs := make([]*utxo.UTXO, 0, outCount)
	for i := uint32(0); i < outCount; i++ {
		b, err := r.Bytes()
		if err != nil {
			return fmt.Errorf("decode output %d: %w", i, err)
		}
		u := &utxo.UTXO{}
		if err := u.UnmarshalBinary(b); err != nil {
			return fmt.Errorf("decode output %d: %w", i, err)
		}
		outputs = append(outputs, u)
	}

	copy(t.HashID[:], hashID)
	copy(t.Sender[:], sender)
	copy(t.Receiver[:], receiver)
	t.Timestamp = timestamp
	copy(t.Signature[:], signature)
	t.Inputs = inputs
	t.Outputs = outputs
	return nil
}
