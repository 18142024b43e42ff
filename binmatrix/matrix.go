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

// Package binmatrix implements dense matrices over GF(2), packed as
// little-endian 64-bit words, with the multiply/square/apply/codec
// operations the MT19937/SFMT19937 jump-ahead machinery is built on.
package binmatrix

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrMalformedInput is returned by the hex/Base64 decoders when a header
// disagrees with the payload or the payload is truncated.
var ErrMalformedInput = errors.New("binmatrix: malformed input")

// Matrix is a dense R×C matrix over GF(2), row-major, each row packed into
// 64-bit words little-endian. Bits beyond column C in the trailing word of
// each row are always zero.
type Matrix struct {
	Rows, Cols int
	stride     int // words per row
	data       []uint64
}

func wordsForCols(cols int) int {
	return (cols + 63) / 64
}

// NewMatrix returns a zeroed R×C matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic("binmatrix: rows and cols must be positive")
	}
	stride := wordsForCols(cols)
	return &Matrix{
		Rows:   rows,
		Cols:   cols,
		stride: stride,
		data:   make([]uint64, rows*stride),
	}
}

// row returns the packed words backing row r.
func (m *Matrix) row(r int) []uint64 {
	return m.data[r*m.stride : (r+1)*m.stride]
}

// GetBit returns the bit at (r,c), 0 or 1.
func (m *Matrix) GetBit(r, c int) int {
	w := m.row(r)[c/64]
	return int((w >> uint(c%64)) & 1)
}

// SetBit sets the bit at (r,c) to 1.
func (m *Matrix) SetBit(r, c int) {
	row := m.row(r)
	row[c/64] |= uint64(1) << uint(c%64)
}

// ClearBit sets the bit at (r,c) to 0.
func (m *Matrix) ClearBit(r, c int) {
	row := m.row(r)
	row[c/64] &^= uint64(1) << uint(c%64)
}

// ResetZero zeroes every bit of the matrix.
func (m *Matrix) ResetZero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// Equal reports whether m and other hold the same dimensions and bits.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.Rows != other.Rows || m.Cols != other.Cols {
		return false
	}
	for i := range m.data {
		if m.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Apply treats v as a packed column bit-vector of length Cols (ceil(Cols/64)
// words) and returns F·v over GF(2), packed as ceil(Rows/64) words.
// Row r of the result is the XOR-parity of v AND row r.
func (m *Matrix) Apply(v []uint64) []uint64 {
	if len(v) < m.stride {
		panic("binmatrix: Apply: vector shorter than matrix column width")
	}
	out := make([]uint64, wordsForCols(m.Rows))
	for r := 0; r < m.Rows; r++ {
		row := m.row(r)
		var parity int
		for i, w := range row {
			parity ^= bits.OnesCount64(w&v[i]) & 1
		}
		if parity != 0 {
			out[r/64] |= uint64(1) << uint(r%64)
		}
	}
	return out
}

// nnz returns the number of set bits, used only for diagnostics/tests.
func (m *Matrix) nnz() int {
	n := 0
	for _, w := range m.data {
		n += bits.OnesCount64(w)
	}
	return n
}

func (m *Matrix) String() string {
	return fmt.Sprintf("binmatrix.Matrix(%dx%d, nnz=%d)", m.Rows, m.Cols, m.nnz())
}
