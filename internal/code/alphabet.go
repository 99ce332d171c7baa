package code

// Letters are taken from the Italian spelling alphabet, leaving out the ones
// easily confused with each other or with digits (G, I, J, O, Q).
const Letters = "ABCDEFHKLMNPRSTUVWXYZ"

// Digits is the symbol set of numeric fields.
const Digits = "0123456789"

const (
	// Radix is the base of a letter field.
	Radix = len(Letters)
	// Zero pads letter fields on the left.
	Zero = Letters[0]
)

var (
	letterIndex = indexTable(Letters)
	digitIndex  = indexTable(Digits)
)

func indexTable(symbols string) [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(symbols); i++ {
		t[symbols[i]] = int8(i)
	}
	return t
}

// LetterIndex returns the ordinal of b in Letters.
func LetterIndex(b byte) (int, bool) {
	i := letterIndex[b]
	return int(i), i >= 0
}

// DigitIndex returns the value of the decimal digit b.
func DigitIndex(b byte) (int, bool) {
	i := digitIndex[b]
	return int(i), i >= 0
}
