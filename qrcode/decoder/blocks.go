package decoder

// dataBlock is one Reed-Solomon block: data codewords followed by error
// correction codewords.
type dataBlock struct {
	numData   int
	codewords []byte
}

// deinterleave splits raw codewords in placement order back into blocks.
func deinterleave(raw []byte, v *Version, level ErrorCorrectionLevel) []dataBlock {
	ecb := v.ECBlocksForLevel(level)
	var blocks []dataBlock
	for _, group := range ecb.Blocks {
		for i := 0; i < group.Count; i++ {
			blocks = append(blocks, dataBlock{
				numData:   group.DataCodewords,
				codewords: make([]byte, group.DataCodewords+ecb.ECCodewordsPerBlock),
			})
		}
	}

	// longer blocks come last and carry one extra data codeword
	shortData := blocks[0].numData
	pos := 0
	for i := 0; i < shortData; i++ {
		for j := range blocks {
			blocks[j].codewords[i] = raw[pos]
			pos++
		}
	}
	for j := range blocks {
		if blocks[j].numData > shortData {
			blocks[j].codewords[shortData] = raw[pos]
			pos++
		}
	}
	for i := 0; i < ecb.ECCodewordsPerBlock; i++ {
		for j := range blocks {
			blocks[j].codewords[blocks[j].numData+i] = raw[pos]
			pos++
		}
	}
	return blocks
}
