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

package binmatrix

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"unicode"
)

// rowBytes returns the packed little-endian bytes of row r, exactly
// ceil(Cols/8) bytes (the trailing byte may hold unused padding bits,
// always zero per the Matrix invariant).
func (m *Matrix) rowBytes(r int) []byte {
	nBytes := (m.Cols + 7) / 8
	out := make([]byte, nBytes)
	row := m.row(r)
	for i := 0; i < nBytes; i++ {
		out[i] = byte(row[i/8] >> uint((i%8)*8))
	}
	return out
}

// setRowBytes writes the packed little-endian bytes b into row r.
func (m *Matrix) setRowBytes(r int, b []byte) {
	row := m.row(r)
	for i, v := range b {
		row[i/8] |= uint64(v) << uint((i%8)*8)
	}
}

func (m *Matrix) payloadBytes() []byte {
	nBytesPerRow := (m.Cols + 7) / 8
	buf := make([]byte, 0, m.Rows*nBytesPerRow)
	for r := 0; r < m.Rows; r++ {
		buf = append(buf, m.rowBytes(r)...)
	}
	return buf
}

// WriteHex writes the matrix as "R C" followed by lowercase hex of the
// packed row-major payload bytes, no separators, trailing newline.
func (m *Matrix) WriteHex(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d %d ", m.Rows, m.Cols); err != nil {
		return err
	}
	if _, err := io.WriteString(w, hex.EncodeToString(m.payloadBytes())); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteBase64 writes the matrix as "R C" followed by the packed row-major
// payload bytes encoded with standard RFC 4648 Base64 (no line breaks).
func (m *Matrix) WriteBase64(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d %d ", m.Rows, m.Cols); err != nil {
		return err
	}
	if _, err := io.WriteString(w, base64.StdEncoding.EncodeToString(m.payloadBytes())); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func readHeader(r io.Reader) (rows, cols int, rest []byte, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, 0, nil, err
	}
	n, scanErr := fmt.Sscanf(string(data), "%d %d", &rows, &cols)
	if scanErr != nil || n != 2 {
		return 0, 0, nil, fmt.Errorf("%w: missing or malformed \"R C\" header", ErrMalformedInput)
	}
	if rows <= 0 || cols <= 0 {
		return 0, 0, nil, fmt.Errorf("%w: non-positive dimensions %d x %d", ErrMalformedInput, rows, cols)
	}

	// Skip past the two decimal fields and the single separating whitespace
	// run that follows them, to find where the payload begins.
	i := 0
	for fields := 0; fields < 2; fields++ {
		for i < len(data) && unicode.IsSpace(rune(data[i])) {
			i++
		}
		for i < len(data) && !unicode.IsSpace(rune(data[i])) {
			i++
		}
	}
	for i < len(data) && unicode.IsSpace(rune(data[i])) {
		i++
	}
	return rows, cols, data[i:], nil
}

func stripWhitespace(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if !unicode.IsSpace(rune(c)) {
			out = append(out, c)
		}
	}
	return out
}

func matrixFromPayload(rows, cols int, payload []byte) (*Matrix, error) {
	nBytesPerRow := (cols + 7) / 8
	want := rows * nBytesPerRow
	if len(payload) != want {
		return nil, fmt.Errorf("%w: payload has %d bytes, want %d for %dx%d", ErrMalformedInput, len(payload), want, rows, cols)
	}
	m := NewMatrix(rows, cols)
	for r := 0; r < rows; r++ {
		m.setRowBytes(r, payload[r*nBytesPerRow:(r+1)*nBytesPerRow])
	}
	return m, nil
}

// ReadHexFrom decodes a matrix previously written by WriteHex. On a
// dimension or payload-length mismatch it returns ErrMalformedInput and
// leaves no partially-constructed matrix behind.
func ReadHexFrom(r io.Reader) (*Matrix, error) {
	rows, cols, rest, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	hexDigits := stripWhitespace(rest)
	payload := make([]byte, hex.DecodedLen(len(hexDigits)))
	n, err := hex.Decode(payload, hexDigits)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex payload: %v", ErrMalformedInput, err)
	}
	return matrixFromPayload(rows, cols, payload[:n])
}

// ReadBase64From decodes a matrix previously written by WriteBase64.
func ReadBase64From(r io.Reader) (*Matrix, error) {
	rows, cols, rest, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	b64 := stripWhitespace(rest)
	payload, err := base64.StdEncoding.DecodeString(string(b64))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrMalformedInput, err)
	}
	return matrixFromPayload(rows, cols, payload)
}
