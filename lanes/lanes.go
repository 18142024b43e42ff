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

// Package lanes is a width-parametric SIMD shim: a generic Vec[T] that
// holds n lanes of bitwise-lane-wise data and lifts XOR/AND/OR/shift to
// operate across all of them at once.
//
// There is exactly one implementation, the scalar/"emulated" one — unlike
// the SIMD abstraction this package is grounded on, there is no real-SIMD
// build-tag variant, because runtime CPU-feature dispatch and platform
// SIMD intrinsics are out of scope for this generator (see spec Non-goals).
// A register of logical width W bits holding n = W/32 (or W/128 for SFMT)
// parallel 32-bit lanes is always represented as a plain Go slice of
// length n; that slice *is* the "vectorized recurrence engine" register.
package lanes

// Lane is the set of element types a Vec may hold. Only uint32 is used by
// the MT19937/SFMT19937 recurrences, but the constraint is kept open the
// way the teacher's Lanes constraint is, rather than hard-coding uint32
// throughout the package.
type Lane interface {
	~uint32
}

// Vec is a SIMD register of n lanes of type T.
type Vec[T Lane] struct {
	data []T
}

// NewVec returns a zeroed vector of n lanes.
func NewVec[T Lane](n int) Vec[T] {
	return Vec[T]{data: make([]T, n)}
}

// FromSlice copies src into a new vector. The returned vector's lane count
// equals len(src).
func FromSlice[T Lane](src []T) Vec[T] {
	data := make([]T, len(src))
	copy(data, src)
	return Vec[T]{data: data}
}

// Set returns a vector of n lanes all holding value.
func Set[T Lane](value T, n int) Vec[T] {
	data := make([]T, n)
	for i := range data {
		data[i] = value
	}
	return Vec[T]{data: data}
}

// Len returns the number of lanes.
func (v Vec[T]) Len() int { return len(v.data) }

// Lane returns the value of lane i.
func (v Vec[T]) Lane(i int) T { return v.data[i] }

// SetLane sets lane i to value.
func (v Vec[T]) SetLane(i int, value T) { v.data[i] = value }

// Store copies the vector's lanes into dst.
func (v Vec[T]) Store(dst []T) { copy(dst, v.data) }

// Xor returns the lane-wise XOR of a and b.
func Xor[T Lane](a, b Vec[T]) Vec[T] {
	out := make([]T, len(a.data))
	for i := range out {
		out[i] = a.data[i] ^ b.data[i]
	}
	return Vec[T]{data: out}
}

// And returns the lane-wise AND of a and b.
func And[T Lane](a, b Vec[T]) Vec[T] {
	out := make([]T, len(a.data))
	for i := range out {
		out[i] = a.data[i] & b.data[i]
	}
	return Vec[T]{data: out}
}

// Or returns the lane-wise OR of a and b.
func Or[T Lane](a, b Vec[T]) Vec[T] {
	out := make([]T, len(a.data))
	for i := range out {
		out[i] = a.data[i] | b.data[i]
	}
	return Vec[T]{data: out}
}

// AndNot returns, lane-wise, a &^ b.
func AndNot[T Lane](a, b Vec[T]) Vec[T] {
	out := make([]T, len(a.data))
	for i := range out {
		out[i] = a.data[i] &^ b.data[i]
	}
	return Vec[T]{data: out}
}

// Not returns the lane-wise bitwise complement of v.
func Not[T Lane](v Vec[T]) Vec[T] {
	out := make([]T, len(v.data))
	for i := range out {
		out[i] = ^v.data[i]
	}
	return Vec[T]{data: out}
}

// Shl returns v left-shifted by amt bits, lane-wise.
func Shl[T Lane](v Vec[T], amt uint) Vec[T] {
	out := make([]T, len(v.data))
	for i := range out {
		out[i] = v.data[i] << amt
	}
	return Vec[T]{data: out}
}

// Shr returns v right-shifted by amt bits, lane-wise.
func Shr[T Lane](v Vec[T], amt uint) Vec[T] {
	out := make([]T, len(v.data))
	for i := range out {
		out[i] = v.data[i] >> amt
	}
	return Vec[T]{data: out}
}

// Blend returns, lane-wise, b where mask lane is nonzero and a otherwise —
// the "blend-like masking" the SIMD abstraction requires for the MT
// twist's conditional XOR of MATRIX_A.
func Blend[T Lane](mask, a, b Vec[T]) Vec[T] {
	out := make([]T, len(a.data))
	for i := range out {
		if mask.data[i] != 0 {
			out[i] = b.data[i]
		} else {
			out[i] = a.data[i]
		}
	}
	return Vec[T]{data: out}
}

// NStreamsMT returns the number of parallel MT19937 sub-streams a register
// of the given width in bits holds: width/32.
func NStreamsMT(width int) int { return width / 32 }

// NStreamsSFMT returns the number of parallel SFMT19937 sub-streams a
// register of the given width in bits holds: width/128.
func NStreamsSFMT(width int) int { return width / 128 }
