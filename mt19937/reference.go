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

// Package mt19937 provides the canonical scalar MT19937 generator (the
// test oracle, spec component C7, whose key-array seeding also initializes
// the vectorized engine's sub-state 0) and the construction of its GF(2)
// step operator matrix (spec component C2).
package mt19937

// StateWords is the number of 32-bit words in a raw MT19937 state.
const StateWords = n

// Exported recurrence constants, for the vectorized engine's lane-wise
// reimplementation of the same twist and tempering.
const (
	M         = m
	MatrixA   = matrixA
	UpperMask = upperMask
	LowerMask = lowerMask
	TempB     = tempB
	TempC     = tempC
)

const (
	n          = 624
	m          = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	tempB      = 0x9d2c5680
	tempC      = 0xefc60000
	initSeed   = 19650218
	initMul1   = 1664525
	initMul2   = 1566083941
	genrandMul = 1812433253
)

// Temper applies the canonical MT19937 output tempering to a raw word.
func Temper(y uint32) uint32 { return temper(y) }

// Reference is a bit-exact scalar MT19937 generator, matching the
// original reference C source (mt19937ar.c) word for word. It is the
// oracle the vectorized engine's output is checked against. Outside of
// tests, vmt19937.New uses it only to seed sub-state 0 and read back the
// raw state via RawState; its output is not used there.
type Reference struct {
	mt  [n]uint32
	mti int
}

// NewReference seeds a Reference with the canonical key-array algorithm.
// key must have length >= 1; the algorithm accepts any length.
func NewReference(key []uint32) *Reference {
	r := &Reference{}
	r.initByArray(key)
	return r
}

// RawState returns the current 624-word raw (untempered) generator state
// and exposes whether a refill is pending (mti>=624). It is used by the
// jump-apply layer to convert between the Reference's internal state and
// the packed 19937-bit vector Operator() acts upon.
func (r *Reference) RawState() (state [n]uint32, mti int) {
	return r.mt, r.mti
}

// SetRawState installs a raw 624-word state, as produced by RawState or by
// applying a jump matrix via Operator().
func (r *Reference) SetRawState(state [n]uint32, mti int) {
	r.mt = state
	r.mti = mti
}

func (r *Reference) initGenrand(s uint32) {
	r.mt[0] = s
	for i := 1; i < n; i++ {
		r.mt[i] = genrandMul*(r.mt[i-1]^(r.mt[i-1]>>30)) + uint32(i)
	}
	r.mti = n
}

func (r *Reference) initByArray(key []uint32) {
	r.initGenrand(initSeed)
	i, j := 1, 0
	k := n
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		r.mt[i] = (r.mt[i] ^ ((r.mt[i-1] ^ (r.mt[i-1] >> 30)) * initMul1)) + key[j] + uint32(j)
		i++
		j++
		if i >= n {
			r.mt[0] = r.mt[n-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = n - 1; k > 0; k-- {
		r.mt[i] = (r.mt[i] ^ ((r.mt[i-1] ^ (r.mt[i-1] >> 30)) * initMul2)) - uint32(i)
		i++
		if i >= n {
			r.mt[0] = r.mt[n-1]
			i = 1
		}
	}
	r.mt[0] = 0x80000000
}

func temper(y uint32) uint32 {
	y ^= y >> 11
	y ^= (y << 7) & tempB
	y ^= (y << 15) & tempC
	y ^= y >> 18
	return y
}

func (r *Reference) refill() {
	var mag01 = [2]uint32{0, matrixA}
	var kk int
	for kk = 0; kk < n-m; kk++ {
		y := (r.mt[kk] & upperMask) | (r.mt[kk+1] & lowerMask)
		r.mt[kk] = r.mt[kk+m] ^ (y >> 1) ^ mag01[y&1]
	}
	for ; kk < n-1; kk++ {
		y := (r.mt[kk] & upperMask) | (r.mt[kk+1] & lowerMask)
		r.mt[kk] = r.mt[kk+(m-n)] ^ (y >> 1) ^ mag01[y&1]
	}
	y := (r.mt[n-1] & upperMask) | (r.mt[0] & lowerMask)
	r.mt[n-1] = r.mt[m-1] ^ (y >> 1) ^ mag01[y&1]
	r.mti = 0
}

// Uint32 returns the next tempered 32-bit output, refilling the 624-word
// state every 624 calls.
func (r *Reference) Uint32() uint32 {
	if r.mti >= n {
		r.refill()
	}
	y := r.mt[r.mti]
	r.mti++
	return temper(y)
}
