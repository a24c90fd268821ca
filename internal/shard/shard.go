// Package shard computes the sieve interval for N and partitions it into
// fixed-length shards, and implements the on-disk shard-file format that
// an external distributed executor would use to hand shards to workers.
package shard

import (
	"bufio"
	"io"
	"math/big"

	"github.com/tordable/mapreduce-integer-factorization/internal/bigmath"
	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
	"github.com/tordable/mapreduce-integer-factorization/internal/sievearray"
)

// FullSize returns the full sieve interval length M = B^3 for a factor
// base of size B.
func FullSize(factorBaseSize int) *big.Int {
	b := big.NewInt(int64(factorBaseSize))
	return new(big.Int).Exp(b, big.NewInt(3), nil)
}

// WriteShards computes the sieve interval centered on floor(sqrt(N)),
// partitions it into shards of length shardLength (the final shard may be
// shorter), and returns them in input order.
func WriteShards(N *big.Int, factorBaseSize, shardLength int) ([]*sievearray.SieveArray, error) {
	if shardLength < 1 {
		return nil, qerrors.New(qerrors.InvalidArgument, "shard: shardLength must be >= 1")
	}

	size := FullSize(factorBaseSize)
	root, err := bigmath.Sqrt(N)
	if err != nil {
		return nil, err
	}
	half := new(big.Int).Div(size, big.NewInt(2))
	start := new(big.Int).Sub(root, half)

	var shards []*sievearray.SieveArray
	current := sievearray.New()

	one := big.NewInt(1)
	k := big.NewInt(0)
	for k.Cmp(size) < 0 {
		x := new(big.Int).Add(start, k)
		eval := new(big.Int).Mul(x, x)
		eval.Sub(eval, N)
		current.Append(x, eval)

		k.Add(k, one)

		if current.Len() == shardLength {
			shards = append(shards, current)
			current = sievearray.New()
		} else if k.Cmp(size) == 0 {
			shards = append(shards, current)
		}
	}

	return shards, nil
}

// WriteShardFile writes one shard per line, each line the SieveArray
// serialization of the sievearray package. Lines are independent and may
// be reordered by a downstream distributor without changing correctness.
func WriteShardFile(w io.Writer, shards []*sievearray.SieveArray) error {
	bw := bufio.NewWriter(w)
	for _, s := range shards {
		if _, err := bw.WriteString(s.Serialize()); err != nil {
			return qerrors.Wrap(qerrors.IOFailure, err, "shard: write line")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return qerrors.Wrap(qerrors.IOFailure, err, "shard: write newline")
		}
	}
	return qerrors.Wrap(qerrors.IOFailure, bw.Flush(), "shard: flush")
}

// LineError reports a shard-file line that ReadShardFile could not parse and
// skipped: Line is its 1-based line number and Err the parse error.
type LineError struct {
	Line int
	Err  error
}

// ReadShardFile parses every line as a SieveArray. It returns the shards
// that parsed successfully along with a LineError for every line that
// didn't.
func ReadShardFile(r io.Reader) ([]*sievearray.SieveArray, []LineError) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)

	var shards []*sievearray.SieveArray
	var lineErrors []LineError
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		s, err := sievearray.Deserialize(line)
		if err != nil {
			lineErrors = append(lineErrors, LineError{Line: lineNum, Err: err})
			continue
		}
		shards = append(shards, s)
	}
	return shards, lineErrors
}
