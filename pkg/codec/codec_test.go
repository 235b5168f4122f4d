package codec

import (
	"bytes"
	"testing"
)

func TestWriterReader_Roundtrip(t *testing.T) {
	w := NewWriter()
	w.Byte(0x02)
	w.Uint32(123456)
	w.Uint64(9876543210)
	w.Fixed(bytes.Repeat([]byte{0xab}, 32))
	w.Bytes([]byte("hello"))
	w.String("world")
	w.Bool(true)
	w.Bool(false)

	r := NewReader(w.Finish())

	b, err := r.Byte()
	if err != nil || b != 0x02 {
		t.Fatalf("Byte() = %v, %v", b, err)
	}
	u32, err := r.Uint32()
	if err != nil || u32 != 123456 {
		t.Fatalf("Uint32() = %v, %v", u32, err)
	}
	u64, err := r.Uint64()
	if err != nil || u64 != 9876543210 {
		t.Fatalf("Uint64() = %v, %v", u64, err)
	}
	fixed, err := r.Fixed(32)
	if err != nil || !bytes.Equal(fixed, bytes.Repeat([]byte{0xab}, 32)) {
		t.Fatalf("Fixed() = %x, %v", fixed, err)
	}
	bs, err := r.Bytes()
	if err != nil || string(bs) != "hello" {
		t.Fatalf("Bytes() = %q, %v", bs, err)
	}
	s, err := r.String()
	if err != nil || s != "world" {
		t.Fatalf("String() = %q, %v", s, err)
	}
	bt, err := r.Bool()
	if err != nil || bt != true {
		t.Fatalf("Bool() = %v, %v", bt, err)
	}
	bf, err := r.Bool()
	if err != nil || bf != false {
		t.Fatalf("Bool() = %v, %v", bf, err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestReader_ShortBuffer(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := r.Uint64(); err == nil {
		t.Error("Uint64() on short buffer should fail")
	}
}

func TestTo32(t *testing.T) {
	b := bytes.Repeat([]byte{0x1}, 32)
	arr, err := To32(b)
	if err != nil {
		t.Fatalf("To32() error: %v", err)
	}
	if !bytes.Equal(arr[:], b) {
		t.Error("To32() content mismatch")
	}

	if _, err := To32(make([]byte, 31)); err == nil {
		t.Error("To32() should reject wrong length")
	}
}

func TestTo64(t *testing.T) {
	b := bytes.Repeat([]byte{0x2}, 64)
	arr, err := To64(b)
	if err != nil {
		t.Fatalf("To64() error: %v", err)
	}
	if !bytes.Equal(arr[:], b) {
		t.Error("To64() content mismatch")
	}

	if _, err := To64(make([]byte, 10)); err == nil {
		t.Error("To64() should reject wrong length")
	}
}

func TestBytes_EmptyRoundtrip(t *testing.T) {
	w := NewWriter()
	w.Bytes(nil)
	r := NewReader(w.Finish())
	b, err := r.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if len(b) != 0 {
		t.Errorf("Bytes() = %v, want empty", b)
	}
}
