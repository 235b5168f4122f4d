// Command mine wires a mempool, block assembler, and storage together to
// mine a short demo chain against a handful of injected self-spend
// transactions. It stands in for the full node daemon, which is out of
// scope for this core.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/vectra-chain/vectra-core/config"
	"github.com/vectra-chain/vectra-core/internal/blockassembly"
	"github.com/vectra-chain/vectra-core/internal/consensus"
	"github.com/vectra-chain/vectra-core/internal/log"
	"github.com/vectra-chain/vectra-core/internal/mempool"
	"github.com/vectra-chain/vectra-core/internal/storage"
	"github.com/vectra-chain/vectra-core/internal/wallet"
	"github.com/vectra-chain/vectra-core/pkg/clock"
	"github.com/vectra-chain/vectra-core/pkg/crypto"
	"github.com/vectra-chain/vectra-core/pkg/tx"
	"github.com/vectra-chain/vectra-core/pkg/types"
	"github.com/vectra-chain/vectra-core/pkg/utxo"
)

// blockKeyPrefix namespaces mined blocks in the key-value store, per the
// "<type-prefix><hash>" entity keying convention.
var blockKeyPrefix = []byte("b/")

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	blocks := flag.Int("blocks", 3, "number of demo blocks to mine")
	keystorePath := flag.String("keystore", "", "path to an existing encrypted keystore (a fresh one is generated if empty)")
	flag.Parse()

	if err := log.Init("info", false, ""); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.WithComponent("mine-demo")

	if !cfg.Mine {
		logger.Info().Msg("mining disabled by -mine=false; nothing to do")
		return
	}

	coinbaseKey, err := loadOrGenerateKey(*keystorePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load signing key")
	}

	db, err := storage.NewBadger(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DataDir).Msg("open storage")
	}
	defer db.Close()

	clk := clock.System{}
	pool := mempool.New(cfg.MempoolMaxSize, clk)
	assembler := blockassembly.New(consensus.NewPoW(), pool, coinbaseKey, 50, cfg.BlockMaxSize, clk)

	var previousHash types.Hash
	for i := uint64(1); i <= uint64(*blocks); i++ {
		txn, err := seedSelfSpend(coinbaseKey, clk)
		if err != nil {
			logger.Fatal().Err(err).Msg("build demo transaction")
		}
		_, _, fee, err := txn.Verify(unlockScriptFor(coinbaseKey))
		if err != nil {
			logger.Fatal().Err(err).Msg("verify demo transaction")
		}
		if err := pool.AddTransaction(txn, fee); err != nil {
			logger.Fatal().Err(err).Msg("admit demo transaction")
		}

		blk, err := assembler.AssembleBlock(context.Background(), i, previousHash, cfg.MiningDifficulty)
		if err != nil {
			logger.Fatal().Err(err).Uint64("index", i).Msg("assemble block")
		}

		var owner types.PublicKey
		copy(owner[:], coinbaseKey.PublicKey())
		if err := blockassembly.ConfirmCoinbaseOutput(blk, owner, clk); err != nil {
			logger.Fatal().Err(err).Msg("confirm coinbase output")
		}

		data, err := blk.MarshalBinary()
		if err != nil {
			logger.Fatal().Err(err).Msg("marshal block")
		}
		if err := db.Put(append(append([]byte{}, blockKeyPrefix...), blk.Hash[:]...), data); err != nil {
			logger.Fatal().Err(err).Msg("persist block")
		}

		logger.Info().
			Uint64("index", blk.Index).
			Str("hash", hexString(blk.Hash)).
			Uint64("nonce", blk.Nonce).
			Int("transactions", len(blk.Transactions)).
			Msg("mined block")

		previousHash = blk.Hash
	}
}

func loadOrGenerateKey(keystorePath string) (*crypto.PrivateKey, error) {
	if keystorePath == "" {
		return crypto.GenerateKey()
	}
	ks, err := wallet.Load(keystorePath, []byte(os.Getenv("KEYSTORE_PASSPHRASE")))
	if err != nil {
		return nil, fmt.Errorf("load keystore: %w", err)
	}
	return crypto.PrivateKeyFromBytes(ks.SigningKey())
}

// seedSelfSpend builds a one-input, one-output transaction that spends a
// synthetic confirmed UTXO back to the same key, minus a fee of 1, purely
// to give each demo block something to mine beyond its coinbase.
func seedSelfSpend(signer *crypto.PrivateKey, clk clock.Clock) (*tx.Transaction, error) {
	var owner types.PublicKey
	copy(owner[:], signer.PublicKey())

	txn, err := tx.New(signer, owner, clk)
	if err != nil {
		return nil, err
	}

	in, err := utxo.New(1000, 0)
	if err != nil {
		return nil, err
	}
	if err := in.Confirm(owner, types.Hash{1}, 1, false, clk); err != nil {
		return nil, err
	}
	if err := txn.AddInputs([]*utxo.UTXO{in}, signer); err != nil {
		return nil, err
	}

	out, err := utxo.New(999, 0)
	if err != nil {
		return nil, err
	}
	if err := txn.AddOutputs([]*utxo.UTXO{out}, signer); err != nil {
		return nil, err
	}
	return txn, nil
}

func unlockScriptFor(key *crypto.PrivateKey) string {
	pubKeyBytes := key.PublicKey()
	ownerHash := crypto.Hash(pubKeyBytes)
	sig, _ := key.Sign(ownerHash[:])
	return hex.EncodeToString(sig) + " " + hex.EncodeToString(pubKeyBytes)
}

func hexString(h types.Hash) string { return hex.EncodeToString(h[:]) }
