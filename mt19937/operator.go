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

package mt19937

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/vrandgen/vrandgen/binmatrix"
)

// StateBits is the dimension of the GF(2) vector space the MT19937 step
// operator acts on: 624 32-bit words minus the 31 low bits of word 0, which
// the recurrence never reads back once word 0 itself has been overwritten
// by the same refill pass that consumes them (see packState and
// unpackState).
const StateBits = n*32 - 31

// packState packs a raw 624-word generator state into a StateBits-wide
// column vector: bit 0 is the top bit of mt[0] (the only bit of word 0 the
// recurrence ever reads across a refill boundary); bits [1, StateBits) are
// the 32 bits of mt[1..623], low bit first, in word order.
func packState(mt [n]uint32) []uint64 {
	out := make([]uint64, wordsFor(StateBits))
	setVecBit(out, 0, (mt[0]>>31)&1)
	for w := 1; w < n; w++ {
		base := 1 + (w-1)*32
		word := mt[w]
		for b := 0; b < 32; b++ {
			if (word>>uint(b))&1 == 1 {
				setVecBit(out, base+b, 1)
			}
		}
	}
	return out
}

// unpackState is the inverse of packState. Word 0's low 31 bits are always
// zero in the result; the recurrence never reads them before overwriting
// word 0 on the next refill, so this loses no information a caller needs.
func unpackState(v []uint64) [n]uint32 {
	var mt [n]uint32
	if getVecBit(v, 0) == 1 {
		mt[0] = 1 << 31
	}
	for w := 1; w < n; w++ {
		base := 1 + (w-1)*32
		var word uint32
		for b := 0; b < 32; b++ {
			if getVecBit(v, base+b) == 1 {
				word |= 1 << uint(b)
			}
		}
		mt[w] = word
	}
	return mt
}

func wordsFor(bitsN int) int { return (bitsN + 63) / 64 }

func setVecBit(v []uint64, i int, bit uint32) {
	if bit != 0 {
		v[i/64] |= uint64(1) << uint(i%64)
	}
}

func getVecBit(v []uint64, i int) uint32 {
	return uint32((v[i/64] >> uint(i%64)) & 1)
}

// stepState advances a raw 624-word sliding-window state by exactly one raw
// (untempered) recurrence word: it is the single-kk body of the classical
// batch refill, generalized to an explicit window shift instead of the
// circular in-place update mt19937ar.c uses. Applying it n=624 times in
// sequence reproduces exactly one call to refill.
func stepState(mt [n]uint32) [n]uint32 {
	y := (mt[0] & upperMask) | (mt[1] & lowerMask)
	var newWord uint32
	if y&1 == 1 {
		newWord = mt[m] ^ (y >> 1) ^ matrixA
	} else {
		newWord = mt[m] ^ (y >> 1)
	}
	var next [n]uint32
	copy(next[:n-1], mt[1:])
	next[n-1] = newWord
	return next
}

// Operator builds the 19937x19937 GF(2) matrix F such that, for any raw
// 624-word generator state packed via packState, F applied to that state
// yields the state exactly one generated word later. Constructing F is
// expensive (O(StateBits^2)) and is normally done once and cached via the
// hex/Base64 codec; production jump matrices are precomputed offline and
// consumed through LoadOperator instead.
func Operator() *binmatrix.Square {
	sq := binmatrix.NewSquare(StateBits)
	var unit [n]uint32
	for i := 0; i < StateBits; i++ {
		unit = [n]uint32{}
		setBitInState(&unit, i)
		next := stepState(unit)
		col := packState(next)
		for wi, w := range col {
			for w != 0 {
				b := bits.TrailingZeros64(w)
				r := wi*64 + b
				if r < StateBits {
					sq.SetBit(r, i)
				}
				w &= w - 1
			}
		}
	}
	return sq
}

// setBitInState sets bit i (in the StateBits packing convention) of a raw
// 624-word state to 1, all else held at zero.
func setBitInState(mt *[n]uint32, i int) {
	if i == 0 {
		mt[0] = 1 << 31
		return
	}
	i--
	w := 1 + i/32
	b := i % 32
	mt[w] = 1 << uint(b)
}

// LoadOperator reads a precomputed StateBits x StateBits jump matrix from r
// using the binmatrix hex codec (or Base64 if base64 is true), validating
// that it has the shape a MT19937 jump operator must have.
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
		return nil, fmt.Errorf("mt19937: LoadOperator: expected %dx%d matrix, got %dx%d", StateBits, StateBits, mat.Rows, mat.Cols)
	}
	return &binmatrix.Square{Matrix: *mat}, nil
}

// StepOnce advances a raw 624-word generator state by exactly one scalar
// output word, without constructing or applying the operator matrix. It is
// the cheap default for the sequence-jump step described in the seeding
// layer ("J defaults to F, the unit step... implementations MAY apply this
// default more cheaply than constructing F").
func StepOnce(state [n]uint32) [n]uint32 { return stepState(state) }

// ApplyToState applies a jump matrix to a raw 624-word generator state,
// returning the resulting raw state after the jump.
func ApplyToState(jump *binmatrix.Square, mt [n]uint32) [n]uint32 {
	col := packState(mt)
	out := jump.Apply(col)
	return unpackState(out)
}
