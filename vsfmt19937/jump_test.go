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

package vsfmt19937

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vrandgen/vrandgen/binmatrix"
	"github.com/vrandgen/vrandgen/sfmt19937"
)

// powerOfTwo returns F^(2^k) by repeated squaring starting from F^(2^0)=F.
func powerOfTwo(t *testing.T, f *binmatrix.Square, k int) *binmatrix.Square {
	t.Helper()
	cur := f
	for i := 0; i < k; i++ {
		next := binmatrix.NewSquare(sfmt19937.StateBits)
		require.NoError(t, next.SquareOf(cur, binmatrix.DefaultWorkers))
		cur = next
	}
	return cur
}

// TestCommonJumpBaseRepeat2 is spec scenario S4: SFMT19937, W=128,
// Q=Scalar, M=F (the base one-word operator), r=2 (applied twice, 2
// 128-bit words = 8 raw 32-bit outputs). The engine's first four outputs
// after the jump must equal the reference generator's outputs 8..11.
func TestCommonJumpBaseRepeat2(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size SFMT19937 jump matrix construction; skipped under -short")
	}

	f := sfmt19937.Operator()

	e, err := New(Config{Width: 128, Mode: Scalar}, canonicalSeed, 2, f, nil)
	require.NoError(t, err)

	ref := sfmt19937.NewReference(canonicalSeed)
	for i := 0; i < 8; i++ {
		ref.Uint32()
	}
	for i := 0; i < 4; i++ {
		got, err := e.NextUint32()
		require.NoError(t, err)
		require.Equalf(t, ref.Uint32(), got, "i=%d", i)
	}
}

// TestTwoOf64EqualsOneOf128 is spec property 5 for SFMT19937: (M=F^(2^6),
// r=2) must be bitwise identical to (M=F^(2^7), r=1).
func TestTwoOf64EqualsOneOf128(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size SFMT19937 jump matrix construction; skipped under -short")
	}

	f := sfmt19937.Operator()
	f64 := powerOfTwo(t, f, 6)
	f128 := powerOfTwo(t, f, 7)

	a, err := New(Config{Width: 128, Mode: Scalar}, canonicalSeed, 2, f64, nil)
	require.NoError(t, err)
	b, err := New(Config{Width: 128, Mode: Scalar}, canonicalSeed, 1, f128, nil)
	require.NoError(t, err)

	for i := 0; i < 2000; i++ {
		av, err := a.NextUint32()
		require.NoError(t, err)
		bv, err := b.NextUint32()
		require.NoError(t, err)
		require.Equal(t, av, bv)
	}
}

// TestPeriodIdentity is spec property 4 for SFMT19937: applying the unit
// step operator (here standing in for the precomputed period-scale jump
// matrix per the spec's own test-oracle language) must equal advancing by
// one 128-bit word.
func TestPeriodIdentity(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size SFMT19937 jump matrix construction; skipped under -short")
	}
	f := sfmt19937.Operator()

	e, err := New(Config{Width: 128, Mode: Scalar}, canonicalSeed, 1, f, nil)
	require.NoError(t, err)
	ref := sfmt19937.NewReference(canonicalSeed)
	for i := 0; i < 4; i++ {
		ref.Uint32() // advance reference by the one 128-bit unit step F represents
	}

	for i := 0; i < 100; i++ {
		v, err := e.NextUint32()
		require.NoError(t, err)
		require.Equal(t, ref.Uint32(), v)
	}
}
