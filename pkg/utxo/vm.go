package utxo

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vectra-chain/vectra-core/pkg/crypto"
)

// opCheckSig is the only opcode the VM understands: a pay-to-pubkey-hash
// signature check.
const opCheckSig = "OP_CHECKSIG"

// Unlock evaluates the tiny stack machine that spends a Confirmed UTXO.
// The unlocking script's tokens are pushed onto the stack in order, then
// the locking script (ScriptPubKey) is scanned left to right. Evaluation
// succeeds iff the stack holds exactly one element equal to "true" once
// scanning ends.
func (u *UTXO) Unlock(unlockingScript string) error {
	if u.state != Confirmed {
		return ErrPendingUTXO
	}

	stack := strings.Fields(unlockingScript)

	for _, tok := range strings.Fields(u.scriptPubKey) {
		if tok != opCheckSig {
			stack = append(stack, tok)
			continue
		}

		if len(stack) < 3 {
			return ErrEmptyStack
		}
		publicKeyHash := stack[len(stack)-1]
		publicKeyHex := stack[len(stack)-2]
		signatureHex := stack[len(stack)-3]
		stack = stack[:len(stack)-3]

		pubKeyBytes, err := hex.DecodeString(publicKeyHex)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrHexcode, err)
		}
		sigBytes, err := hex.DecodeString(signatureHex)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrHexcode, err)
		}

		pubKeyHash := crypto.Hash(pubKeyBytes)
		if pubKeyHash.String() != publicKeyHash {
			return ErrInvalidUnlockingScript
		}
		if !crypto.VerifySignature(pubKeyHash[:], sigBytes, pubKeyBytes) {
			return ErrInvalidUnlockingScript
		}

		stack = append(stack, "true")
	}

	if len(stack) != 1 || stack[0] != "true" {
		return ErrInvalidUnlockingScript
	}
	return nil
}
