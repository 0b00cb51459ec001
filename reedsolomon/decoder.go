package reedsolomon

import "errors"

// ErrUncorrectable is returned when a block has more errors than its error
// correction codewords can repair.
var ErrUncorrectable = errors.New("reedsolomon: too many errors")

// Decode corrects block in place. The last numEC bytes of block are error
// correction codewords. It returns the number of corrected codewords.
func Decode(block []byte, numEC int) (int, error) {
	received := make([]int, len(block))
	for i, b := range block {
		received[i] = int(b)
	}
	p := newPoly(received)
	syndrome := make([]int, numEC)
	clean := true
	for i := 0; i < numEC; i++ {
		v := p.evaluate(exp(i))
		syndrome[numEC-1-i] = v
		if v != 0 {
			clean = false
		}
	}
	if clean {
		return 0, nil
	}

	sigma, omega, err := euclidean(monomial(numEC, 1), newPoly(syndrome), numEC)
	if err != nil {
		return 0, err
	}
	locations, err := errorLocations(sigma)
	if err != nil {
		return 0, err
	}
	magnitudes := errorMagnitudes(omega, locations)
	for i, loc := range locations {
		pos := len(block) - 1 - log(loc)
		if pos < 0 {
			return 0, ErrUncorrectable
		}
		block[pos] ^= byte(magnitudes[i])
	}
	return len(locations), nil
}

func euclidean(a, b poly, r int) (sigma, omega poly, err error) {
	if a.degree() < b.degree() {
		a, b = b, a
	}
	rLast, rCur := a, b
	tLast, tCur := zeroPoly, onePoly

	for 2*rCur.degree() >= r {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = rCur, tCur
		if rLast.isZero() {
			return nil, nil, ErrUncorrectable
		}
		rCur = rLastLast
		q := zeroPoly
		inv := inverse(rLast.coefficient(rLast.degree()))
		for rCur.degree() >= rLast.degree() && !rCur.isZero() {
			d := rCur.degree() - rLast.degree()
			s := mul(rCur.coefficient(rCur.degree()), inv)
			q = q.add(monomial(d, s))
			rCur = rCur.add(rLast.mulMonomial(d, s))
		}
		tCur = q.mulPoly(tLast).add(tLastLast)
		if rCur.degree() >= rLast.degree() {
			return nil, nil, ErrUncorrectable
		}
	}

	atZero := tCur.coefficient(0)
	if atZero == 0 {
		return nil, nil, ErrUncorrectable
	}
	inv := inverse(atZero)
	return tCur.scale(inv), rCur.scale(inv), nil
}

func errorLocations(locator poly) ([]int, error) {
	n := locator.degree()
	if n == 1 {
		return []int{locator.coefficient(1)}, nil
	}
	result := make([]int, 0, n)
	for i := 1; i < fieldSize && len(result) < n; i++ {
		if locator.evaluate(i) == 0 {
			result = append(result, inverse(i))
		}
	}
	if len(result) != n {
		return nil, ErrUncorrectable
	}
	return result, nil
}

func errorMagnitudes(evaluator poly, locations []int) []int {
	result := make([]int, len(locations))
	for i, loc := range locations {
		xiInverse := inverse(loc)
		denominator := 1
		for j, other := range locations {
			if i == j {
				continue
			}
			term := mul(other, xiInverse)
			denominator = mul(denominator, term^1)
		}
		result[i] = mul(evaluator.evaluate(xiInverse), inverse(denominator))
	}
	return result
}
