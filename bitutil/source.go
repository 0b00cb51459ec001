package bitutil

import "errors"

// ErrShortRead is returned when more bits are requested than remain.
var ErrShortRead = errors.New("bitutil: not enough bits")

// BitSource reads bits from a byte sequence, first byte first and most
// significant bit first.
type BitSource struct {
	bytes []byte
	pos   int
}

// NewBitSource creates a reader over bytes.
func NewBitSource(bytes []byte) *BitSource {
	return &BitSource{bytes: bytes}
}

// ReadBits reads n bits, 1 <= n <= 32, into the low bits of the result.
func (s *BitSource) ReadBits(n int) (int, error) {
	if n < 1 || n > 32 || n > s.Available() {
		return 0, ErrShortRead
	}
	result := 0
	for i := 0; i < n; i++ {
		bit := s.bytes[s.pos/8] >> uint(7-s.pos%8) & 1
		result = result<<1 | int(bit)
		s.pos++
	}
	return result, nil
}

// Available returns the number of unread bits.
func (s *BitSource) Available() int {
	return 8*len(s.bytes) - s.pos
}
