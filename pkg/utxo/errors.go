package utxo

import "errors"

// Error kinds for the UTXO lifecycle and its script VM.
var (
	// ErrInvalidUTXOValue is returned when a Pending UTXO is created with a zero value.
	ErrInvalidUTXOValue = errors.New("invalid utxo value")
	// ErrPendingUTXO is returned when an operation required a Confirmed UTXO.
	ErrPendingUTXO = errors.New("utxo is pending")
	// ErrConfirmedUTXO is returned when an operation required a Pending UTXO.
	ErrConfirmedUTXO = errors.New("utxo is confirmed")
	// ErrInvalidUnlockingScript is returned when the script VM rejects the witness.
	ErrInvalidUnlockingScript = errors.New("invalid unlocking script")
	// ErrEmptyStack is returned on script VM stack underflow.
	ErrEmptyStack = errors.New("empty stack")
	// ErrHexcode is returned when the script VM encounters invalid hex input.
	ErrHexcode = errors.New("invalid hex encoding")
)
