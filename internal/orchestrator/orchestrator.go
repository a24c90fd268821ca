// Package orchestrator sequences the two-phase pipeline: build the factor
// base, build shards, fan the sieve out across shards with a barrier
// before the combine phase, then run the combiner and return the factor
// pair. This is an in-process stand-in for a distributed batch executor:
// the phase separation, broadcast-then-read-only parameters, and per-shard
// error isolation are exactly the contract a real executor would have to
// honor too.
package orchestrator

import (
	"context"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tordable/mapreduce-integer-factorization/internal/combiner"
	"github.com/tordable/mapreduce-integer-factorization/internal/factorbase"
	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
	"github.com/tordable/mapreduce-integer-factorization/internal/shard"
	"github.com/tordable/mapreduce-integer-factorization/internal/sieve"
	"github.com/tordable/mapreduce-integer-factorization/internal/sievearray"
	"github.com/tordable/mapreduce-integer-factorization/internal/telemetry"
)

// Options configures a run. Zero values fall back to the defaults named in
// SPEC_FULL.md.
type Options struct {
	ShardLength     int
	MaxMaskAttempts int
}

func (o Options) withDefaults() Options {
	if o.ShardLength <= 0 {
		o.ShardLength = 10
	}
	if o.MaxMaskAttempts <= 0 {
		o.MaxMaskAttempts = combiner.DefaultMaxMaskAttempts
	}
	return o
}

// Result is the outcome of a successful run: a pair of non-trivial factors
// and the counters accumulated along the way.
type Result struct {
	Factor1, Factor2 *big.Int
	Counters         *telemetry.Counters
}

// Run factors N end to end: builds the factor base, computes the sieve
// interval, sieves every shard in parallel, barriers, then combines.
func Run(ctx context.Context, N *big.Int, opts Options, logger *zap.SugaredLogger) (*Result, error) {
	opts = opts.withDefaults()
	counters := telemetry.New()

	if N.Sign() <= 0 {
		return nil, qerrors.New(qerrors.InvalidArgument, "orchestrator: N must be positive")
	}

	fb, err := factorbase.Build(N)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.InvalidArgument, err, "orchestrator: failed to build factor base")
	}
	logger.Infow("factor base built", "size", fb.Len())

	shards, err := shard.WriteShards(N, fb.Len(), opts.ShardLength)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.InvalidArgument, err, "orchestrator: failed to build sieve shards")
	}
	logger.Infow("sieve interval partitioned", "shards", len(shards))

	// Phase 1: embarrassingly parallel sieve, one goroutine per shard. The
	// shards are built in memory and sieve.Sieve returns no error, so no
	// per-shard error is counted here; only cancellation of ctx fails the
	// group.
	g, gctx := errgroup.WithContext(ctx)
	smoothByShard := make([]*sievearray.SieveArray, len(shards))
	for i, s := range shards {
		i, s := i, s
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			smoothByShard[i] = sieve.Sieve(s, fb)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, qerrors.Wrap(qerrors.IOFailure, err, "orchestrator: sieve phase aborted")
	}

	// Barrier: phase 2 only starts once every shard's output is
	// materialized.
	all := sievearray.New()
	for _, s := range smoothByShard {
		if s != nil {
			all.AppendArray(s)
		}
	}
	logger.Infow("sieve phase complete", "smooth_relations", all.Len())

	f1, f2, err := combiner.Combine(N, all, fb, opts.MaxMaskAttempts, counters, logger)
	if err != nil {
		return nil, err
	}

	counters.LogSummary(logger)
	return &Result{Factor1: f1, Factor2: f2, Counters: counters}, nil
}
