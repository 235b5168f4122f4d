// Package utxo implements the two-state value-bearing UTXO record and its
// minimal pay-to-pubkey-hash-checksig locking script VM.
package utxo

import (
	"encoding/binary"
	"fmt"

	"github.com/vectra-chain/vectra-core/pkg/clock"
	"github.com/vectra-chain/vectra-core/pkg/codec"
	"github.com/vectra-chain/vectra-core/pkg/crypto"
	"github.com/vectra-chain/vectra-core/pkg/types"
)

// State distinguishes the two UTXO variants.
type State uint8

const (
	// Pending is a not-yet-confirmed output slot inside a transaction being assembled.
	Pending State = iota
	// Confirmed is an immutable, chain-committed output.
	Confirmed
)

// UTXO is a sum type over Pending and Confirmed variants. Which fields are
// meaningful depends on State: a Pending UTXO carries only Value and Index;
// a Confirmed UTXO carries the rest.
type UTXO struct {
	state State

	// Pending fields.
	value uint64
	index uint32

	// Confirmed-only fields.
	id           types.Hash
	scriptPubKey string
	txnHash      types.Hash
	createdAt    uint32
	blockHeight  uint32
	isCoinbase   bool
}

// New returns a Pending UTXO. Fails with ErrInvalidUTXOValue when value is 0.
func New(value uint64, index uint32) (*UTXO, error) {
	if value == 0 {
		return nil, ErrInvalidUTXOValue
	}
	return &UTXO{state: Pending, value: value, index: index}, nil
}

// State reports whether the UTXO is Pending or Confirmed.
func (u *UTXO) State() State { return u.state }

// Value returns the UTXO's value, meaningful in both states.
func (u *UTXO) Value() uint64 { return u.value }

// Index returns the output index, meaningful in both states.
func (u *UTXO) Index() uint32 { return u.index }

// ID returns the Confirmed UTXO's identity digest. Zero for a Pending UTXO.
func (u *UTXO) ID() types.Hash { return u.id }

// ScriptPubKey returns the Confirmed UTXO's locking script. Empty for a Pending UTXO.
func (u *UTXO) ScriptPubKey() string { return u.scriptPubKey }

// TxnHash returns the hash of the transaction that created this UTXO.
func (u *UTXO) TxnHash() types.Hash { return u.txnHash }

// CreatedAt returns the confirmation timestamp, ms-truncated to uint32.
func (u *UTXO) CreatedAt() uint32 { return u.createdAt }

// BlockHeight returns the height at which this UTXO was confirmed.
func (u *UTXO) BlockHeight() uint32 { return u.blockHeight }

// IsCoinbase reports whether this UTXO was produced by a coinbase transaction.
func (u *UTXO) IsCoinbase() bool { return u.isCoinbase }

// Confirm consumes a Pending UTXO and produces a Confirmed one in place.
// Fails with ErrConfirmedUTXO if called on an already-Confirmed UTXO.
func (u *UTXO) Confirm(owner types.PublicKey, txnHash types.Hash, blockHeight uint32, isCoinbase bool, clk clock.Clock) error {
	if u.state == Confirmed {
		return ErrConfirmedUTXO
	}

	ownerHash := crypto.Hash(owner[:])

	var idxBuf [4]byte
	binary.LittleEndian.PutUint32(idxBuf[:], u.index)
	u.id = crypto.Hash(append(append([]byte{}, txnHash[:]...), idxBuf[:]...))

	u.scriptPubKey = fmt.Sprintf("%s OP_CHECKSIG", ownerHash.String())
	u.txnHash = txnHash
	u.createdAt = uint32(clk.NowMillis())
	u.blockHeight = blockHeight
	u.isCoinbase = isCoinbase
	u.state = Confirmed
	return nil
}

// ToBytes returns the canonical hash-domain serialization used inside
// transaction hashing. This is intentionally distinct from the
// length-prefixed wire codec in MarshalBinary/UnmarshalBinary: it must
// match byte-for-byte across implementations that compute hash_id, but
// has no need to be self-describing or reversible.
func (u *UTXO) ToBytes() []byte {
	var buf []byte
	if u.state == Confirmed {
		buf = append(buf, u.id[:]...)
		buf = append(buf, []byte(u.scriptPubKey)...)
		buf = binary.LittleEndian.AppendUint64(buf, u.value)
		buf = binary.LittleEndian.AppendUint32(buf, u.index)
		buf = binary.LittleEndian.AppendUint32(buf, u.createdAt)
		buf = binary.LittleEndian.AppendUint32(buf, u.blockHeight)
		return buf
	}
	buf = binary.LittleEndian.AppendUint64(buf, u.value)
	buf = binary.LittleEndian.AppendUint32(buf, u.index)
	return buf
}

// MarshalBinary encodes the UTXO using the canonical wire codec: a one-byte
// discriminant followed by the variant body.
func (u *UTXO) MarshalBinary() ([]byte, error) {
	w := codec.NewWriter()
	w.Byte(byte(u.state))
	w.Uint64(u.value)
	w.Uint32(u.index)
	if u.state == Confirmed {
		w.Fixed(u.id[:])
		w.String(u.scriptPubKey)
		w.Fixed(u.txnHash[:])
		w.Uint32(u.createdAt)
		w.Uint32(u.blockHeight)
		w.Bool(u.isCoinbase)
	}
	return w.Finish(), nil
}

// UnmarshalBinary decodes a UTXO from its canonical wire representation.
func (u *UTXO) UnmarshalBinary(data []byte) error {
	r := codec.NewReader(data)
	st, err := r.Byte()
	if err != nil {
		return fmt.Errorf("decode utxo state: %w", err)
	}
	value, err := r.Uint64()
	if err != nil {
		return fmt.Errorf("decode utxo value: %w", err)
	}
	index, err := r.Uint32()
	if err != nil {
		return fmt.Errorf("decode utxo index: %w", err)
	}
	*u = UTXO{state: State(st), value: value, index: index}
	if u.state != Confirmed {
		return nil
	}
	idBytes, err := r.Fixed(types.HashSize)
	if err != nil {
		return fmt.Errorf("decode utxo id: %w", err)
	}
	id, err := codec.To32(idBytes)
	if err != nil {
		return fmt.Errorf("decode utxo id: %w", err)
	}
	u.id = types.Hash(id)
	script, err := r.String()
	if err != nil {
		return fmt.Errorf("decode utxo script: %w", err)
	}
	u.scriptPubKey = script
	txnHashBytes, err := r.Fixed(types.HashSize)
	if err != nil {
		return fmt.Errorf("decode utxo txn hash: %w", err)
	}
	txnHash, err := codec.To32(txnHashBytes)
	if err != nil {
		return fmt.Errorf("decode utxo txn hash: %w", err)
	}
	u.txnHash = types.Hash(txnHash)
	createdAt, err := r.Uint32()
	if err != nil {
		return fmt.Errorf("decode utxo created_at: %w", err)
	}
	u.createdAt = createdAt
	blockHeight, err := r.Uint32()
	if err != nil {
		return fmt.Errorf("decode utxo block_height: %w", err)
	}
	u.blockHeight = blockHeight
	isCoinbase, err := r.Bool()
	if err != nil {
		return fmt.Errorf("decode utxo is_coinbase: %w", err)
	}
	u.isCoinbase = isCoinbase
	return nil
}
