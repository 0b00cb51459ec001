// Package bitutil provides the bit containers used while building and
// reading symbols.
package bitutil

// Buffer is an append-only sequence of bits, most significant bit first
// within each byte.
type Buffer struct {
	data []byte
	size int
}

// Len returns the number of bits.
func (b *Buffer) Len() int { return b.size }

// LenBytes returns the number of bytes needed to hold the bits.
func (b *Buffer) LenBytes() int { return (b.size + 7) / 8 }

// Bit returns bit i.
func (b *Buffer) Bit(i int) bool {
	return b.data[i/8]&(0x80>>uint(i%8)) != 0
}

// AppendBit appends a single bit.
func (b *Buffer) AppendBit(bit bool) {
	if b.size%8 == 0 {
		b.data = append(b.data, 0)
	}
	if bit {
		b.data[b.size/8] |= 0x80 >> uint(b.size%8)
	}
	b.size++
}

// AppendBits appends the low n bits of value, high bit first.
func (b *Buffer) AppendBits(value uint32, n int) {
	if n < 0 || n > 32 {
		panic("bitutil: n must be between 0 and 32")
	}
	for i := n - 1; i >= 0; i-- {
		b.AppendBit(value&(1<<uint(i)) != 0)
	}
}

// Append appends every bit of other.
func (b *Buffer) Append(other *Buffer) {
	for i := 0; i < other.size; i++ {
		b.AppendBit(other.Bit(i))
	}
}

// Bytes returns a copy of the bits packed into bytes. A trailing partial byte
// is zero padded.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}
