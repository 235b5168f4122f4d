package tx

import "errors"

var (
	// ErrInsufficientFunds is returned when outputs exceed inputs, or an
	// add_inputs/add_outputs call was given an empty slice.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnauthorized is returned when the transaction signature does not
	// verify against the sender's public key, including a zero or otherwise
	// malformed sender.
	ErrUnauthorized = errors.New("unauthorized signer")
)
