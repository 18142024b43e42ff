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

package sfmt19937

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vrandgen/vrandgen/binmatrix"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	r := NewReference([]uint32{0x123, 0x234, 0x345, 0x456})
	state, _ := r.RawState()
	var words [N]word128
	for i := 0; i < N; i++ {
		copy(words[i].u[:], state[i*4:i*4+4])
	}

	packed := packState(words)
	got := unpackState(packed)
	require.Equal(t, words, got)
}

// TestStepStateMatchesGenRandAll cross-validates the sliding-window
// elementary step (used to build Operator) against genRandAll: applying
// stepState N times in sequence from a fresh seed's raw state must
// reproduce exactly the state genRandAll computes internally.
func TestStepStateMatchesGenRandAll(t *testing.T) {
	r := NewReference([]uint32{0x123, 0x234, 0x345, 0x456})

	window := r.state
	for i := 0; i < N; i++ {
		window = stepState(window)
	}

	r.genRandAll()

	require.Equal(t, r.state, window)
}

func TestOperatorMatchesStepState(t *testing.T) {
	if testing.Short() {
		t.Skip("Operator() construction is O(StateBits^2); skipped under -short")
	}
	f := Operator()

	r := NewReference([]uint32{9, 8, 7})
	want := packState(stepState(r.state))
	got := f.Apply(packState(r.state))
	require.Equal(t, want, got)
}

func TestLoadOperatorRejectsWrongShape(t *testing.T) {
	m := binmatrix.NewMatrix(8, 8)
	m.SetBit(1, 1)

	var buf bytes.Buffer
	require.NoError(t, m.WriteHex(&buf))

	_, err := LoadOperator(&buf, false)
	require.Error(t, err)
}
