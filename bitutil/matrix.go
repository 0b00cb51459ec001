package bitutil

import (
	"math/bits"
	"strings"
)

// BitMatrix is a 2D matrix of bits. x is the column, y the row, with the
// origin at the top-left.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint32
}

// NewBitMatrix creates a square matrix.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

// NewBitMatrixWithSize creates a matrix with the given width and height.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitutil: dimensions must be greater than 0")
	}
	rowSize := (width + 31) / 32
	return &BitMatrix{width: width, height: height, rowSize: rowSize, data: make([]uint32, rowSize*height)}
}

func (m *BitMatrix) offset(x, y int) (int, uint32) {
	return y*m.rowSize + x/32, 1 << uint(x&0x1f)
}

// Get returns true if the bit at (x, y) is set.
func (m *BitMatrix) Get(x, y int) bool {
	i, mask := m.offset(x, y)
	return m.data[i]&mask != 0
}

// Set sets the bit at (x, y).
func (m *BitMatrix) Set(x, y int) {
	i, mask := m.offset(x, y)
	m.data[i] |= mask
}

// Unset clears the bit at (x, y).
func (m *BitMatrix) Unset(x, y int) {
	i, mask := m.offset(x, y)
	m.data[i] &^= mask
}

// Flip flips the bit at (x, y).
func (m *BitMatrix) Flip(x, y int) {
	i, mask := m.offset(x, y)
	m.data[i] ^= mask
}

// SetRegion sets a rectangular region of bits.
func (m *BitMatrix) SetRegion(left, top, width, height int) {
	if left < 0 || top < 0 || width < 1 || height < 1 || left+width > m.width || top+height > m.height {
		panic("bitutil: region must fit inside the matrix")
	}
	for y := top; y < top+height; y++ {
		for x := left; x < left+width; x++ {
			m.Set(x, y)
		}
	}
}

// TopLeftOnBit returns the [x, y] of the first set bit in row order, or nil.
func (m *BitMatrix) TopLeftOnBit() []int {
	for i, word := range m.data {
		if word != 0 {
			return []int{(i%m.rowSize)*32 + bits.TrailingZeros32(word), i / m.rowSize}
		}
	}
	return nil
}

// BottomRightOnBit returns the [x, y] of the last set bit in row order, or nil.
func (m *BitMatrix) BottomRightOnBit() []int {
	for i := len(m.data) - 1; i >= 0; i-- {
		if word := m.data[i]; word != 0 {
			return []int{(i%m.rowSize)*32 + 31 - bits.LeadingZeros32(word), i / m.rowSize}
		}
	}
	return nil
}

// Width returns the width.
func (m *BitMatrix) Width() int { return m.width }

// Height returns the height.
func (m *BitMatrix) Height() int { return m.height }

// Clone returns a deep copy.
func (m *BitMatrix) Clone() *BitMatrix {
	c := *m
	c.data = make([]uint32, len(m.data))
	copy(c.data, m.data)
	return &c
}

// String draws set bits as "X " and unset bits as "  ".
func (m *BitMatrix) String() string {
	var sb strings.Builder
	sb.Grow(m.height * (2*m.width + 1))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				sb.WriteString("X ")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
