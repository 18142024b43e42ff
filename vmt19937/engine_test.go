// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vmt19937

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vrandgen/vrandgen/mt19937"
)

var canonicalSeed = []uint32{0x123, 0x234, 0x345, 0x456}

// TestScalarW32MatchesReference is spec scenario S1: MT19937 scalar, W=32,
// no jumps, the engine's output must equal the canonical reference stream.
func TestScalarW32MatchesReference(t *testing.T) {
	e, err := New(Config{Width: 32, Mode: Scalar}, canonicalSeed, 0, nil, nil)
	require.NoError(t, err)

	ref := mt19937.NewReference(canonicalSeed)
	for i := 0; i < 8; i++ {
		got, err := e.NextUint32()
		require.NoError(t, err)
		require.Equal(t, ref.Uint32(), got)
	}
}

// TestScalarW128SequenceJumpF1 is spec scenario S2: MT19937, W=128,
// Q=Scalar, J=F^1 (default unit step), 4 interleaved sub-streams. Output
// element 4k+j must equal reference[k+j] (each sub-stream is the previous
// one advanced by one word).
func TestScalarW128SequenceJumpF1(t *testing.T) {
	e, err := New(Config{Width: 128, Mode: Scalar}, canonicalSeed, 0, nil, nil)
	require.NoError(t, err)

	ref := mt19937.NewReference(canonicalSeed)
	const nStreams = 4
	const rounds = 20
	reference := make([]uint32, rounds+nStreams)
	for i := range reference {
		reference[i] = ref.Uint32()
	}

	for k := 0; k < rounds; k++ {
		for j := 0; j < nStreams; j++ {
			got, err := e.NextUint32()
			require.NoError(t, err)
			require.Equalf(t, reference[k+j], got, "k=%d j=%d", k, j)
		}
	}
}

// TestDeterminism is spec property 6: two engines built from identical
// arguments must emit identical sequences.
func TestDeterminism(t *testing.T) {
	a, err := New(Config{Width: 256, Mode: Scalar}, canonicalSeed, 0, nil, nil)
	require.NoError(t, err)
	b, err := New(Config{Width: 256, Mode: Scalar}, canonicalSeed, 0, nil, nil)
	require.NoError(t, err)

	for i := 0; i < 10000; i++ {
		av, err := a.NextUint32()
		require.NoError(t, err)
		bv, err := b.NextUint32()
		require.NoError(t, err)
		require.Equal(t, av, bv)
	}
}

func TestNewRejectsMismatchedCommonJumpArgs(t *testing.T) {
	_, err := New(Config{Width: 32, Mode: Scalar}, canonicalSeed, 1, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArguments)
}

func TestNewRejectsEmptySeed(t *testing.T) {
	_, err := New(Config{Width: 32, Mode: Scalar}, nil, 0, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArguments)
}

func TestNewRejectsInvalidWidth(t *testing.T) {
	_, err := New(Config{Width: 100, Mode: Scalar}, canonicalSeed, 0, nil, nil)
	require.Error(t, err)
}

func TestModeGating(t *testing.T) {
	e, err := New(Config{Width: 32, Mode: Block16}, canonicalSeed, 0, nil, nil)
	require.NoError(t, err)

	_, err = e.NextUint32()
	require.ErrorIs(t, err, ErrUnsupported)

	var blk [16]uint32
	require.NoError(t, e.NextBlock16(&blk))

	err = e.NextStateBlock(make([]uint32, 624))
	require.ErrorIs(t, err, ErrUnsupported)
}

// TestBlock16MatchesScalar checks Block16 mode produces the same
// interleaved sequence as 16 Scalar calls would.
func TestBlock16MatchesScalar(t *testing.T) {
	scalar, err := New(Config{Width: 64, Mode: Scalar}, canonicalSeed, 0, nil, nil)
	require.NoError(t, err)
	block, err := New(Config{Width: 64, Mode: Block16}, canonicalSeed, 0, nil, nil)
	require.NoError(t, err)

	for round := 0; round < 5; round++ {
		var want [16]uint32
		for i := range want {
			v, err := scalar.NextUint32()
			require.NoError(t, err)
			want[i] = v
		}
		var got [16]uint32
		require.NoError(t, block.NextBlock16(&got))
		require.Equal(t, want, got)
	}
}

// TestStateBlockMatchesScalar checks StateSize mode, deinterleaved,
// matches the Scalar-mode output of an identically-seeded engine.
func TestStateBlockMatchesScalar(t *testing.T) {
	scalar, err := New(Config{Width: 128, Mode: Scalar}, canonicalSeed, 0, nil, nil)
	require.NoError(t, err)
	state, err := New(Config{Width: 128, Mode: StateSize}, canonicalSeed, 0, nil, nil)
	require.NoError(t, err)

	const nStreams = 4
	out := make([]uint32, 624*nStreams)
	require.NoError(t, state.NextStateBlock(out))

	for i := 0; i < len(out); i++ {
		v, err := scalar.NextUint32()
		require.NoError(t, err)
		require.Equalf(t, v, out[i], "index %d", i)
	}
}
