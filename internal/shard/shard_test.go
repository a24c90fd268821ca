package shard

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordable/mapreduce-integer-factorization/internal/bigmath"
)

func TestWriteShards_PartitionsByLength(t *testing.T) {
	N := big.NewInt(5959)
	shards, err := WriteShards(N, 4, 10)
	require.NoError(t, err)
	require.Greater(t, len(shards), 0)

	total := 0
	for i, s := range shards {
		if i < len(shards)-1 {
			assert.Equal(t, 10, s.Len())
		} else {
			assert.LessOrEqual(t, s.Len(), 10)
		}
		total += s.Len()
	}

	full := FullSize(4)
	assert.Equal(t, full.Int64(), int64(total))
}

func TestWriteShards_CenteredOnSqrtN(t *testing.T) {
	N := big.NewInt(5959)
	shards, err := WriteShards(N, 4, 10)
	require.NoError(t, err)

	root, err := bigmath.Sqrt(N)
	require.NoError(t, err)

	size := FullSize(4)
	half := new(big.Int).Div(size, big.NewInt(2))
	wantStart := new(big.Int).Sub(root, half)

	assert.Equal(t, wantStart, shards[0].Ints[0])
}

func TestWriteShards_EvalInvariant(t *testing.T) {
	N := big.NewInt(5959)
	shards, err := WriteShards(N, 4, 10)
	require.NoError(t, err)

	for _, s := range shards {
		for i := 0; i < s.Len(); i++ {
			want := new(big.Int).Mul(s.Ints[i], s.Ints[i])
			want.Sub(want, N)
			assert.Equal(t, want, s.Evals[i])
		}
	}
}

func TestShardFile_RoundTrip(t *testing.T) {
	N := big.NewInt(5959)
	shards, err := WriteShards(N, 4, 10)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteShardFile(&buf, shards))

	parsed, lineErrors := ReadShardFile(&buf)
	assert.Empty(t, lineErrors)
	require.Equal(t, len(shards), len(parsed))
	for i := range shards {
		assert.Equal(t, shards[i].Serialize(), parsed[i].Serialize())
	}
}

func TestReadShardFile_SkipsMalformedLines(t *testing.T) {
	input := "[[1,5],[2,6]]\nnot a sieve array\n[[3,7]]\n"
	parsed, lineErrors := ReadShardFile(bytes.NewBufferString(input))
	require.Len(t, lineErrors, 1)
	assert.Equal(t, 2, lineErrors[0].Line)
	require.Len(t, parsed, 2)
}
