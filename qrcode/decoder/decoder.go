package decoder

import (
	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
	"github.com/ericlevine/qrstyle/reedsolomon"
)

// Result is the decoded content of a symbol.
type Result struct {
	Text            string
	Version         int
	ECLevel         ErrorCorrectionLevel
	Mask            int
	Modes           []Mode
	ErrorsCorrected int
}

// Decode reads a module matrix without quiet zone. bits is unmasked in
// place, so callers pass a copy they no longer need.
func Decode(bits *bitutil.BitMatrix) (*Result, error) {
	p, err := newMatrixParser(bits)
	if err != nil {
		return nil, err
	}
	v, err := p.version()
	if err != nil {
		return nil, err
	}
	fi, err := p.formatInformation()
	if err != nil {
		return nil, err
	}
	raw, err := p.codewords(v, fi.Mask)
	if err != nil {
		return nil, err
	}

	res := &Result{Version: v.Number, ECLevel: fi.ECLevel, Mask: fi.Mask}
	data := make([]byte, 0, v.DataCodewords(fi.ECLevel))
	for _, blk := range deinterleave(raw, v, fi.ECLevel) {
		n, err := reedsolomon.Decode(blk.codewords, len(blk.codewords)-blk.numData)
		if err != nil {
			return nil, qrstyle.ErrChecksum
		}
		res.ErrorsCorrected += n
		data = append(data, blk.codewords[:blk.numData]...)
	}

	res.Text, res.Modes, err = decodeBitStream(data, v)
	if err != nil {
		return nil, err
	}
	return res, nil
}
