package seed

// alphabet is the ordered base-94 digit table: '!' through '~' without the
// double quote, followed by the double quote as digit 93. Digit 93 only
// appears in seeds whose blocks need it; seeds made of the first 93 digits
// decode the same as before it was added.
const alphabet = "!#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~\""

const (
	radix          = 94
	bytesPerBlock  = 4
	digitsPerBlock = bytesPerBlock + 1
)

// digitIndex maps an alphabet character to its digit value, or -1.
var digitIndex = func() [128]int8 {
	var idx [128]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		idx[alphabet[i]] = int8(i)
	}
	return idx
}()

// encodeBase94 packs data in blocks of up to four bytes. A block of k bytes
// is read as a big-endian integer and written as k+1 digits, most
// significant first.
func encodeBase94(data []byte) string {
	out := make([]byte, 0, (len(data)+bytesPerBlock-1)/bytesPerBlock*digitsPerBlock)

	for i := 0; i < len(data); i += bytesPerBlock {
		chunk := data[i:min(i+bytesPerBlock, len(data))]

		var value uint64
		for _, b := range chunk {
			value = value<<8 | uint64(b)
		}

		digits := make([]byte, len(chunk)+1)
		for j := len(digits) - 1; j >= 0; j-- {
			digits[j] = alphabet[value%radix]
			value /= radix
		}
		out = append(out, digits...)
	}

	return string(out)
}

// decodeBase94 reverses encodeBase94. Blocks are five digits; a shorter
// final block yields one byte fewer than its digit count. It reports false
// for characters outside the alphabet and for one-digit blocks.
func decodeBase94(digits []rune) ([]byte, bool) {
	out := make([]byte, 0, len(digits)/digitsPerBlock*bytesPerBlock+bytesPerBlock)

	for i := 0; i < len(digits); i += digitsPerBlock {
		block := digits[i:min(i+digitsPerBlock, len(digits))]
		if len(block) < 2 {
			return nil, false
		}

		var value uint64
		for _, r := range block {
			if r < 0 || r >= 128 || digitIndex[r] < 0 {
				return nil, false
			}
			value = value*radix + uint64(digitIndex[r])
		}

		// Only the low 32 bits are significant; an oversized block from a
		// hand-edited seed is truncated, never rejected.
		for j := len(block) - 2; j >= 0; j-- {
			out = append(out, byte(value>>(8*j)))
		}
	}

	return out, true
}
