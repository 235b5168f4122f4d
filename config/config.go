// Package config defines the minimal runtime configuration shared by the
// node's demo CLI entry points.
package config

import (
	"flag"
	"fmt"
	"strconv"
)

// Config holds the settings the demo commands need: where to persist state,
// how big the mempool and mined blocks may grow, and whether this process
// mines.
type Config struct {
	DataDir          string
	MempoolMaxSize   int
	BlockMaxSize     uint64
	MiningDifficulty uint32
	Mine             bool
}

// Default returns the out-of-the-box configuration.
func Default() Config {
	return Config{
		DataDir:          "./data",
		MempoolMaxSize:   5000,
		BlockMaxSize:     1 << 20, // 1 MiB
		MiningDifficulty: 16,
		Mine:             true,
	}
}

// RegisterFlags binds cfg's fields to fs, using cfg's current values as
// defaults. Call flag.Parse (or fs.Parse) after this to populate cfg from
// the command line.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "directory for chain data")
	fs.IntVar(&cfg.MempoolMaxSize, "mempool-max-size", cfg.MempoolMaxSize, "maximum number of transactions held in the mempool")
	fs.Uint64Var(&cfg.BlockMaxSize, "block-max-size", cfg.BlockMaxSize, "maximum serialized size in bytes of transactions drawn into a block")
	fs.Func("difficulty", fmt.Sprintf("proof-of-work difficulty, 1-127 (default %d)", cfg.MiningDifficulty), func(s string) error {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("parse difficulty: %w", err)
		}
		cfg.MiningDifficulty = uint32(v)
		return nil
	})
	fs.BoolVar(&cfg.Mine, "mine", cfg.Mine, "mine blocks against the demo mempool")
}
