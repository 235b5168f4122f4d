// Package codec implements the canonical binary encoding shared by every
// core entity: length-prefixed variable fields, little-endian scalars, and
// sum types encoded as a one-byte discriminant followed by the variant body.
// Encoding is deterministic and always reversible via Reader.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidLength signals a fixed-length byte conversion mismatch, the Go
// equivalent of the source's InvalidU8Length(n) error kind.
var ErrInvalidLength = errors.New("invalid fixed-length byte conversion")

// ErrShortBuffer signals that a Reader ran out of bytes mid-field.
var ErrShortBuffer = errors.New("short buffer")

// To32 copies b into a fixed 32-byte array, failing if the length differs.
func To32(b []byte) ([32]byte, error) {
	var out [32]byte
	if len(b) != 32 {
		return out, fmt.Errorf("%w: want 32 bytes, got %d", ErrInvalidLength, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// To64 copies b into a fixed 64-byte array, failing if the length differs.
func To64(b []byte) ([64]byte, error) {
	var out [64]byte
	if len(b) != 64 {
		return out, fmt.Errorf("%w: want 64 bytes, got %d", ErrInvalidLength, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Writer accumulates a canonical byte stream.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Byte appends a single byte, typically a sum-type discriminant or opcode.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// Uint32 appends a little-endian uint32.
func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// Uint64 appends a little-endian uint64.
func (w *Writer) Uint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// Fixed appends raw bytes with no length prefix. Use only for fields whose
// length is implied by the schema (hashes, public keys, signatures).
func (w *Writer) Fixed(b []byte) {
	w.buf.Write(b)
}

// Bytes appends a uint32 length prefix followed by the bytes themselves.
func (w *Writer) Bytes(b []byte) {
	w.Uint32(uint32(len(b)))
	w.buf.Write(b)
}

// String appends a length-prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.Bytes([]byte(s))
}

// Bool appends a single boolean byte (0 or 1).
func (w *Writer) Bool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// Finish returns the accumulated buffer.
func (w *Writer) Finish() []byte {
	return w.buf.Bytes()
}

// Reader consumes a canonical byte stream produced by Writer.
type Reader struct {
	r *bytes.Reader
}

// NewReader wraps b for sequential decoding.
func NewReader(b []byte) *Reader {
	return &Reader{r: bytes.NewReader(b)}
}

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrShortBuffer, err)
	}
	return b, nil
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrShortBuffer, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrShortBuffer, err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Fixed reads exactly n raw bytes.
func (r *Reader) Fixed(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortBuffer, err)
	}
	return b, nil
}

// Bytes reads a uint32 length prefix followed by that many bytes.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	return r.Fixed(int(n))
}

// String reads a length-prefixed UTF-8 string.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Bool reads a single boolean byte.
func (r *Reader) Bool() (bool, error) {
	b, err := r.Byte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// Len reports how many bytes remain unread.
func (r *Reader) Len() int {
	return r.r.Len()
}
