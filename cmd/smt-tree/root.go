// Command smt-tree is a small CLI wrapping the merkle tree engine: point it
// at a root file and a backend, and insert/get/remove/prove/verify keys one
// invocation at a time.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dapperwick/bitsmt/config"
	"github.com/dapperwick/bitsmt/module/metrics"
	"github.com/dapperwick/bitsmt/resilience"
	"github.com/dapperwick/bitsmt/storage/badgerstore"
	"github.com/dapperwick/bitsmt/storage/merkle"
)

var (
	cfg      *config.SMTConfig
	rootFile string
	logLevel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var err error
	cfg, err = config.DefaultConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build default config:", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "smt-tree",
		Short:         "insert, look up, remove, and prove keys against a bitwise-radix sparse Merkle tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.BindPFlags(cfg, cmd.Flags()); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	config.InitializePFlagSet(flags, cfg)
	flags.StringVar(&rootFile, "root-file", "./smt-root", "file the current tree root is persisted to between invocations")
	flags.StringVar(&logLevel, "log-level", "info", "zerolog level: trace, debug, info, warn, error")

	root.AddCommand(
		newInsertCmd(),
		newGetCmd(),
		newRemoveCmd(),
		newProofCmd(),
		newVerifyCmd(),
		newBatchInsertCmd(),
	)
	return root
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("component", "smt-tree").Logger()
}

// buildTree wires a Tree per cfg: the chosen backend, wrapped with
// resilience middleware if enabled, the chosen hasher, and a logger/metrics
// collector set up for CLI use.
func buildTree(extraOpts ...merkle.Option) (*merkle.Tree, func() error, error) {
	var backend merkle.Backend
	closeFn := func() error { return nil }

	switch cfg.Backend.Kind {
	case config.BackendMemory:
		backend = merkle.NewMemoryBackend()
	case config.BackendBadger:
		store, err := badgerstore.Open(cfg.Backend.BadgerDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open badger backend at %s: %w", cfg.Backend.BadgerDir, err)
		}
		backend = store
		closeFn = store.Close
	default:
		return nil, nil, fmt.Errorf("unknown backend kind %q", cfg.Backend.Kind)
	}

	var collector metrics.Collector = metrics.NoopCollector{}
	if cfg.MetricsEnabled {
		collector = metrics.NewLoggingCollector(newLogger())
	}

	backend = resilience.NewCircuitBreakerBackend(backend, resilience.CircuitBreakerConfig{
		Enabled:        cfg.CircuitBreaker.Enabled,
		RestoreTimeout: cfg.CircuitBreaker.RestoreTimeout,
		MaxFailures:    cfg.CircuitBreaker.MaxFailures,
		MaxRequests:    cfg.CircuitBreaker.MaxRequests,
	}, collector)
	backend = resilience.NewRetryBackend(backend, resilience.RetryConfig{
		Enabled:    cfg.Retry.Enabled,
		BaseDelay:  cfg.Retry.BaseDelay,
		MaxDelay:   cfg.Retry.MaxDelay,
		MaxRetries: cfg.Retry.MaxRetries,
	}, collector)

	var hasher merkle.Hasher
	switch cfg.Hasher {
	case config.HasherBlake2b:
		hasher = merkle.NewBlake2bHasher()
	case config.HasherSHA3:
		hasher = merkle.NewSHA3Hasher()
	default:
		return nil, nil, fmt.Errorf("unknown hasher %q", cfg.Hasher)
	}

	opts := append([]merkle.Option{merkle.WithLogger(newLogger()), merkle.WithMetrics(collector)}, extraOpts...)
	tree := merkle.NewTree(backend, hasher, opts...)
	return tree, closeFn, nil
}

// readRoot loads the persisted root hash from rootFile. A missing or empty
// file means an empty tree (nil root), not an error.
func readRoot() (*merkle.Hash, error) {
	raw, err := os.ReadFile(rootFile)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read root file %s: %w", rootFile, err)
	}
	trimmed := trimNewline(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	decoded, err := hex.DecodeString(string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("root file %s does not contain valid hex: %w", rootFile, err)
	}
	h := merkle.SliceToHash(decoded)
	return &h, nil
}

// writeRoot persists root to rootFile, or empties the file if root is nil.
func writeRoot(root *merkle.Hash) error {
	if root == nil {
		return os.WriteFile(rootFile, []byte{}, 0o644)
	}
	return os.WriteFile(rootFile, []byte(hex.EncodeToString(root[:])+"\n"), 0o644)
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

// parseHashArg decodes a hex-encoded, HashLen-byte command-line argument.
func parseHashArg(flagName, arg string) (merkle.Hash, error) {
	decoded, err := hex.DecodeString(arg)
	if err != nil {
		return merkle.Hash{}, fmt.Errorf("%s must be hex-encoded: %w", flagName, err)
	}
	if len(decoded) != merkle.HashLen {
		return merkle.Hash{}, fmt.Errorf("%s must decode to %d bytes, got %d", flagName, merkle.HashLen, len(decoded))
	}
	return merkle.SliceToHash(decoded), nil
}
