// Command qsieve factors a composite integer N into two non-trivial
// factors using the quadratic sieve.
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tordable/mapreduce-integer-factorization/internal/orchestrator"
)

var (
	shardLength     int
	maxMaskAttempts int
	verbose         bool
	selfTestBits    int
)

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// zap construction only fails on a malformed config; ours is
		// static, so fall back to a no-op logger rather than panic.
		logger = zap.NewNop()
	}
	return logger.Sugar()
}

func runFactor(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	N, ok := new(big.Int).SetString(args[0], 10)
	if !ok {
		return fmt.Errorf("%q is not a valid decimal integer", args[0])
	}

	result, err := orchestrator.Run(context.Background(), N, orchestrator.Options{
		ShardLength:     shardLength,
		MaxMaskAttempts: maxMaskAttempts,
	}, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Factor1\t%s\n", result.Factor1.String())
	fmt.Printf("Factor2\t%s\n", result.Factor2.String())
	return nil
}

// randomPrime returns a random probable prime with the given bit length.
func randomPrime(bits int) (*big.Int, error) {
	return rand.Prime(rand.Reader, bits)
}

func runSelfTest(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	half := selfTestBits / 2
	if half < 2 {
		half = 2
	}
	p, err := randomPrime(half)
	if err != nil {
		return fmt.Errorf("generating first prime: %w", err)
	}
	q, err := randomPrime(half)
	if err != nil {
		return fmt.Errorf("generating second prime: %w", err)
	}
	N := new(big.Int).Mul(p, q)
	logger.Infow("self-test composite generated", "N", N.String(), "p", p.String(), "q", q.String())

	result, err := orchestrator.Run(context.Background(), N, orchestrator.Options{
		ShardLength:     shardLength,
		MaxMaskAttempts: maxMaskAttempts,
	}, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Factor1\t%s\n", result.Factor1.String())
	fmt.Printf("Factor2\t%s\n", result.Factor2.String())
	return nil
}

func main() {
	root := &cobra.Command{
		Use:   "qsieve",
		Short: "Factor a composite integer with the quadratic sieve",
	}
	root.PersistentFlags().IntVar(&shardLength, "shard-length", 10, "sieve shard length")
	root.PersistentFlags().IntVar(&maxMaskAttempts, "max-mask-attempts", 1_000_000, "maximum kernel-mask attempts in the combine phase")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	factorCmd := &cobra.Command{
		Use:   "factor <N>",
		Short: "Factor the given decimal integer",
		Args:  cobra.ExactArgs(1),
		RunE:  runFactor,
	}

	selfTestCmd := &cobra.Command{
		Use:   "self-test",
		Short: "Generate a random composite and factor it, to smoke-test the pipeline",
		Args:  cobra.NoArgs,
		RunE:  runSelfTest,
	}
	selfTestCmd.Flags().IntVar(&selfTestBits, "bits", 24, "bit length of the random composite; each of its two prime factors gets half")

	root.AddCommand(factorCmd, selfTestCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
