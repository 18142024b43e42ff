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
	"fmt"
	"io"
	"math/bits"

	"github.com/vrandgen/vrandgen/binmatrix"
)

// StateBits is the dimension of the GF(2) vector space the SFMT19937 step
// operator acts on: the full 156*128 = 19968-bit physical state. Unlike
// MT19937's operator, no bits are dropped here: do_recursion reads every
// bit of each of its four taps (a, b, c, d) before any of them is
// overwritten, so there is no single word with a provably-dead sub-range
// the way MT19937's word 0 has. The true reachable state space is the
// 2^19937-1 order subgroup certified by periodCertification, a strictly
// smaller subspace of this 19968-bit ambient space; operating on the full
// ambient space is simply a larger-than-minimal but fully faithful linear
// representation; F and its powers remain correct GF(2) operators on it.
const StateBits = N32 * 32

func wordsForState() int { return StateBits / 64 }

// packState flattens a raw N-word (156x128-bit) state into a packed
// column vector of StateBits bits, pairing consecutive 32-bit sub-words
// into 64-bit matrix words (StateBits is a multiple of 64, so this is an
// exact reshape with no partial words).
func packState(state [N]word128) []uint64 {
	var flat [N32]uint32
	for i := 0; i < N; i++ {
		copy(flat[i*4:i*4+4], state[i].u[:])
	}
	out := make([]uint64, wordsForState())
	for p := range out {
		out[p] = uint64(flat[2*p]) | uint64(flat[2*p+1])<<32
	}
	return out
}

// unpackState is the inverse of packState.
func unpackState(v []uint64) [N]word128 {
	var flat [N32]uint32
	for p, w := range v {
		flat[2*p] = uint32(w)
		flat[2*p+1] = uint32(w >> 32)
	}
	var state [N]word128
	for i := 0; i < N; i++ {
		copy(state[i].u[:], flat[i*4:i*4+4])
	}
	return state
}

// stepState advances a raw 156-word sliding-window state by exactly one
// 128-bit word (four 32-bit outputs): the single-i body of genRandAll,
// generalized to an explicit window shift. Applying it N times in sequence
// reproduces exactly one call to genRandAll.
func stepState(state [N]word128) [N]word128 {
	newWord := doRecursion(state[0], state[pos1], state[N-2], state[N-1])
	var next [N]word128
	copy(next[:N-1], state[1:])
	next[N-1] = newWord
	return next
}

// StepOnce advances a raw flat N32-word state by one 128-bit word (four
// 32-bit outputs) without constructing a jump matrix, for use as the cheap
// default sequence-jump. Flat uint32 is used at this exported boundary,
// matching RawState/SetRawState, since word128 is an internal detail.
func StepOnce(flat [N32]uint32) [N32]uint32 {
	return flatten(stepState(unflatten(flat)))
}

func flatten(state [N]word128) [N32]uint32 {
	var flat [N32]uint32
	for i := 0; i < N; i++ {
		copy(flat[i*4:i*4+4], state[i].u[:])
	}
	return flat
}

func unflatten(flat [N32]uint32) [N]word128 {
	var state [N]word128
	for i := 0; i < N; i++ {
		copy(state[i].u[:], flat[i*4:i*4+4])
	}
	return state
}

func setBitInState(flat *[N32]uint32, i int) {
	flat[i/32] = 1 << uint(i%32)
}

// Operator builds the StateBits x StateBits GF(2) matrix F such that, for
// any raw state packed via packState, F applied to that state yields the
// state exactly one 128-bit word (four outputs) later. Construction costs
// O(StateBits^2); production jump matrices are precomputed offline and
// consumed through LoadOperator instead.
func Operator() *binmatrix.Square {
	sq := binmatrix.NewSquare(StateBits)
	for i := 0; i < StateBits; i++ {
		var flat [N32]uint32
		setBitInState(&flat, i)
		var unit [N]word128
		for w := 0; w < N; w++ {
			copy(unit[w].u[:], flat[w*4:w*4+4])
		}
		next := stepState(unit)
		col := packState(next)
		for wi, w := range col {
			for w != 0 {
				b := bits.TrailingZeros64(w)
				r := wi*64 + b
				sq.SetBit(r, i)
				w &= w - 1
			}
		}
	}
	return sq
}

// LoadOperator reads a precomputed StateBits x StateBits jump matrix from r
// using the binmatrix hex codec (or Base64 if base64 is true).
func LoadOperator(r io.Reader, base64 bool) (*binmatrix.Square, error) {
	var mat *binmatrix.Matrix
	var err error
	if base64 {
		mat, err = binmatrix.ReadBase64From(r)
	} else {
		mat, err = binmatrix.ReadHexFrom(r)
	}
	if err != nil {
		return nil, err
	}
	if mat.Rows != StateBits || mat.Cols != StateBits {
		return nil, fmt.Errorf("sfmt19937: LoadOperator: expected %dx%d matrix, got %dx%d", StateBits, StateBits, mat.Rows, mat.Cols)
	}
	return &binmatrix.Square{Matrix: *mat}, nil
}

// ApplyToState applies a jump matrix to a raw flat N32-word generator
// state (as returned by Reference.RawState), returning the resulting flat
// state after the jump.
func ApplyToState(jump *binmatrix.Square, flat [N32]uint32) [N32]uint32 {
	col := packState(unflatten(flat))
	out := jump.Apply(col)
	return flatten(unpackState(out))
}
