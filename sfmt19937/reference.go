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

// Package sfmt19937 provides the canonical scalar SFMT19937 generator
// (spec component C7) and the construction of its GF(2) step operator
// matrix (spec component C3).
package sfmt19937

const (
	// N is the number of 128-bit state words.
	N = 156
	// N32 is the number of 32-bit sub-words in the state.
	N32 = N * 4

	pos1 = 122
	sl1  = 18
	sl2  = 1
	sr1  = 11
	sr2  = 1

	msk1 = 0xdfffffef
	msk2 = 0xddfecb7f
	msk3 = 0xbffaffff
	msk4 = 0xbffffff6

	parity1 = 0x00000001
	parity2 = 0x00000000
	parity3 = 0x00000000
	parity4 = 0x13c9e684
)

// Exported recurrence constants, for the vectorized engine's lane-wise
// reimplementation of the same recursion.
const (
	Pos1 = pos1
	Sl1  = sl1
	Sr1  = sr1
	Msk1 = msk1
	Msk2 = msk2
	Msk3 = msk3
	Msk4 = msk4
)

// word128 is one 128-bit SFMT state element, stored as 4 little-endian
// 32-bit lanes matching the reference SFMT.c w128_t layout.
type word128 struct {
	u [4]uint32
}

// Reference is a bit-exact scalar SFMT19937 generator.
type Reference struct {
	state [N]word128
	idx   int
}

// NewReference seeds a Reference with the canonical SFMT init_by_array
// algorithm, followed by period certification.
func NewReference(key []uint32) *Reference {
	r := &Reference{}
	r.initByArray(key)
	return r
}

// RawState returns the raw 624-word (N*4) flat state and the cursor index.
func (r *Reference) RawState() (state [N32]uint32, idx int) {
	for i := 0; i < N; i++ {
		for k := 0; k < 4; k++ {
			state[i*4+k] = r.state[i].u[k]
		}
	}
	return state, r.idx
}

// SetRawState installs a raw flat state and cursor, as produced by RawState
// or by applying a jump matrix.
func (r *Reference) SetRawState(state [N32]uint32, idx int) {
	for i := 0; i < N; i++ {
		for k := 0; k < 4; k++ {
			r.state[i].u[k] = state[i*4+k]
		}
	}
	r.idx = idx
}

func rshift128(in word128, shiftBytes int) word128 {
	th := uint64(in.u[3])<<32 | uint64(in.u[2])
	tl := uint64(in.u[1])<<32 | uint64(in.u[0])
	s := uint(shiftBytes * 8)
	var oh, ol uint64
	if s < 64 {
		oh = th >> s
		ol = (tl >> s) | (th << (64 - s))
	}
	var out word128
	out.u[0] = uint32(ol)
	out.u[1] = uint32(ol >> 32)
	out.u[2] = uint32(oh)
	out.u[3] = uint32(oh >> 32)
	return out
}

func lshift128(in word128, shiftBytes int) word128 {
	th := uint64(in.u[3])<<32 | uint64(in.u[2])
	tl := uint64(in.u[1])<<32 | uint64(in.u[0])
	s := uint(shiftBytes * 8)
	var oh, ol uint64
	if s < 64 {
		ol = tl << s
		oh = (th << s) | (tl >> (64 - s))
	}
	var out word128
	out.u[0] = uint32(ol)
	out.u[1] = uint32(ol >> 32)
	out.u[2] = uint32(oh)
	out.u[3] = uint32(oh >> 32)
	return out
}

// doRecursion is the canonical SFMT recurrence: the new value of state
// element a, given taps a (itself), b = state[i+POS1], c = state[i+N-2],
// d = state[i+N-1].
func doRecursion(a, b, c, d word128) word128 {
	x := lshift128(a, sl2)
	y := rshift128(c, sr2)
	var r word128
	r.u[0] = a.u[0] ^ x.u[0] ^ ((b.u[0] >> sr1) & msk1) ^ y.u[0] ^ (d.u[0] << sl1)
	r.u[1] = a.u[1] ^ x.u[1] ^ ((b.u[1] >> sr1) & msk2) ^ y.u[1] ^ (d.u[1] << sl1)
	r.u[2] = a.u[2] ^ x.u[2] ^ ((b.u[2] >> sr1) & msk3) ^ y.u[2] ^ (d.u[2] << sl1)
	r.u[3] = a.u[3] ^ x.u[3] ^ ((b.u[3] >> sr1) & msk4) ^ y.u[3] ^ (d.u[3] << sl1)
	return r
}

func (r *Reference) genRandAll() {
	r1 := r.state[N-2]
	r2 := r.state[N-1]
	i := 0
	for ; i < N-pos1; i++ {
		nv := doRecursion(r.state[i], r.state[i+pos1], r1, r2)
		r.state[i] = nv
		r1 = r2
		r2 = nv
	}
	for ; i < N; i++ {
		nv := doRecursion(r.state[i], r.state[i+pos1-N], r1, r2)
		r.state[i] = nv
		r1 = r2
		r2 = nv
	}
}

func func1(x uint32) uint32 { return (x ^ (x >> 27)) * 1664525 }
func func2(x uint32) uint32 { return (x ^ (x >> 27)) * 1566083941 }

func (r *Reference) flat() []uint32 {
	out := make([]uint32, N32)
	for i := 0; i < N; i++ {
		copy(out[i*4:i*4+4], r.state[i].u[:])
	}
	return out
}

func (r *Reference) setFlat(v []uint32) {
	for i := 0; i < N; i++ {
		copy(r.state[i].u[:], v[i*4:i*4+4])
	}
}

func (r *Reference) initByArray(key []uint32) {
	const size = N32
	var lag int
	switch {
	case size >= 623:
		lag = 11
	case size >= 68:
		lag = 7
	case size >= 39:
		lag = 5
	default:
		lag = 3
	}
	mid := (size - lag) / 2

	psfmt32 := make([]uint32, size)
	for i := range psfmt32 {
		psfmt32[i] = 0x8b8b8b8b
	}

	keyLength := len(key)
	count := size
	if keyLength+1 > size {
		count = keyLength + 1
	}

	rr := func1(psfmt32[0] ^ psfmt32[mid] ^ psfmt32[size-1])
	psfmt32[mid] += rr
	rr += uint32(keyLength)
	psfmt32[(mid+lag)%size] += rr
	psfmt32[0] = rr

	count--
	i, j := 1, 0
	for ; j < count && j < keyLength; j++ {
		rr = func1(psfmt32[i] ^ psfmt32[(i+mid)%size] ^ psfmt32[(i+size-1)%size])
		psfmt32[(i+mid)%size] += rr
		rr += key[j] + uint32(i)
		psfmt32[(i+mid+lag)%size] += rr
		psfmt32[i] = rr
		i = (i + 1) % size
	}
	for ; j < count; j++ {
		rr = func1(psfmt32[i] ^ psfmt32[(i+mid)%size] ^ psfmt32[(i+size-1)%size])
		psfmt32[(i+mid)%size] += rr
		rr += uint32(i)
		psfmt32[(i+mid+lag)%size] += rr
		psfmt32[i] = rr
		i = (i + 1) % size
	}
	for j = 0; j < size; j++ {
		rr = func2(psfmt32[i] + psfmt32[(i+mid)%size] + psfmt32[(i+size-1)%size])
		psfmt32[(i+mid)%size] ^= rr
		rr -= uint32(i)
		psfmt32[(i+mid+lag)%size] ^= rr
		psfmt32[i] = rr
		i = (i + 1) % size
	}

	r.setFlat(psfmt32)
	r.idx = N32
	r.periodCertification()
}

func (r *Reference) periodCertification() {
	flat := r.flat()
	parity := [4]uint32{parity1, parity2, parity3, parity4}
	var inner uint32
	for i := 0; i < 4; i++ {
		inner ^= flat[i] & parity[i]
	}
	for i := 16; i > 0; i >>= 1 {
		inner ^= inner >> uint(i)
	}
	inner &= 1
	if inner == 1 {
		return
	}
	for i := 0; i < 4; i++ {
		var work uint32 = 1
		for j := 0; j < 32; j++ {
			if work&parity[i] != 0 {
				flat[i] ^= work
				r.setFlat(flat)
				return
			}
			work <<= 1
		}
	}
}

// Uint32 returns the next raw 32-bit output. Unlike MT19937, SFMT19937
// applies no tempering: the recurrence output words are emitted directly.
func (r *Reference) Uint32() uint32 {
	if r.idx >= N32 {
		r.genRandAll()
		r.idx = 0
	}
	w := r.state[r.idx/4].u[r.idx%4]
	r.idx++
	return w
}
