package reedsolomon

// poly is an immutable polynomial over GF(256). Coefficients run from the
// highest degree to the constant term; leading zeros are trimmed.
type poly []int

var (
	zeroPoly = poly{0}
	onePoly  = poly{1}
)

func newPoly(coefficients []int) poly {
	i := 0
	for i < len(coefficients)-1 && coefficients[i] == 0 {
		i++
	}
	return poly(coefficients[i:])
}

func monomial(degree, coefficient int) poly {
	if coefficient == 0 {
		return zeroPoly
	}
	p := make(poly, degree+1)
	p[0] = coefficient
	return p
}

func (p poly) degree() int { return len(p) - 1 }

func (p poly) isZero() bool { return p[0] == 0 }

func (p poly) coefficient(degree int) int { return p[len(p)-1-degree] }

func (p poly) evaluate(a int) int {
	if a == 0 {
		return p.coefficient(0)
	}
	result := p[0]
	for _, c := range p[1:] {
		result = mul(a, result) ^ c
	}
	return result
}

func (p poly) add(q poly) poly {
	if p.isZero() {
		return q
	}
	if q.isZero() {
		return p
	}
	if len(p) > len(q) {
		p, q = q, p
	}
	sum := make([]int, len(q))
	diff := len(q) - len(p)
	copy(sum, q[:diff])
	for i := diff; i < len(q); i++ {
		sum[i] = p[i-diff] ^ q[i]
	}
	return newPoly(sum)
}

func (p poly) mulPoly(q poly) poly {
	if p.isZero() || q.isZero() {
		return zeroPoly
	}
	product := make([]int, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			product[i+j] ^= mul(a, b)
		}
	}
	return newPoly(product)
}

func (p poly) scale(s int) poly {
	return p.mulMonomial(0, s)
}

func (p poly) mulMonomial(degree, coefficient int) poly {
	if coefficient == 0 {
		return zeroPoly
	}
	product := make([]int, len(p)+degree)
	for i, c := range p {
		product[i] = mul(c, coefficient)
	}
	return newPoly(product)
}

// remainder returns p mod q.
func (p poly) remainder(q poly) poly {
	if q.isZero() {
		panic("reedsolomon: divide by zero")
	}
	inv := inverse(q.coefficient(q.degree()))
	r := p
	for r.degree() >= q.degree() && !r.isZero() {
		d := r.degree() - q.degree()
		s := mul(r.coefficient(r.degree()), inv)
		r = r.add(q.mulMonomial(d, s))
	}
	return r
}
