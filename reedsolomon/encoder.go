package reedsolomon

import "sync"

// Encoder computes error correction codewords. It caches generator
// polynomials and is safe for concurrent use.
type Encoder struct {
	mu         sync.Mutex
	generators []poly
}

// NewEncoder returns an Encoder.
func NewEncoder() *Encoder {
	return &Encoder{generators: []poly{onePoly}}
}

func (e *Encoder) generator(degree int) poly {
	e.mu.Lock()
	defer e.mu.Unlock()
	for d := len(e.generators); d <= degree; d++ {
		last := e.generators[d-1]
		e.generators = append(e.generators, last.mulPoly(poly{1, exp(d - 1)}))
	}
	return e.generators[degree]
}

// Encode returns numEC error correction codewords for data.
func (e *Encoder) Encode(data []byte, numEC int) []byte {
	if numEC <= 0 {
		panic("reedsolomon: no error correction codewords")
	}
	if len(data) == 0 {
		panic("reedsolomon: no data codewords")
	}
	info := make([]int, len(data))
	for i, b := range data {
		info[i] = int(b)
	}
	rem := newPoly(info).mulMonomial(numEC, 1).remainder(e.generator(numEC))
	ec := make([]byte, numEC)
	// the remainder may be shorter than numEC; it is right aligned
	offset := numEC - len(rem)
	for i, c := range rem {
		ec[offset+i] = byte(c)
	}
	return ec
}
