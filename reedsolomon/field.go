// Package reedsolomon implements Reed-Solomon coding over the QR code field
// GF(256) with primitive polynomial x^8 + x^4 + x^3 + x^2 + 1 (0x11D) and
// generator base 0.
package reedsolomon

const (
	primitive = 0x011D
	fieldSize = 256
)

var (
	expTable [fieldSize]int
	logTable [fieldSize]int
)

func init() {
	x := 1
	for i := 0; i < fieldSize; i++ {
		expTable[i] = x
		x <<= 1
		if x >= fieldSize {
			x ^= primitive
			x &= fieldSize - 1
		}
	}
	for i := 0; i < fieldSize-1; i++ {
		logTable[expTable[i]] = i
	}
}

func exp(a int) int { return expTable[a] }

func log(a int) int {
	if a == 0 {
		panic("reedsolomon: log(0)")
	}
	return logTable[a]
}

func inverse(a int) int {
	if a == 0 {
		panic("reedsolomon: inverse(0)")
	}
	return expTable[fieldSize-logTable[a]-1]
}

func mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[(logTable[a]+logTable[b])%(fieldSize-1)]
}
