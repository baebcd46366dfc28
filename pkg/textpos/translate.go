package textpos

import "fmt"

// ToByteOffset returns the number of encoded bytes before pos in text.
// pos may equal the rune count (the end of the document).
func ToByteOffset(text string, pos TextPosition) (ByteOffset, error) {
	if pos < 0 {
		return 0, fmt.Errorf("%w: %s is negative", ErrOutOfRange, pos)
	}

	count := 0
	for idx := range text {
		if count == int(pos) {
			return ByteOffset(idx), nil
		}
		count++
	}
	if count == int(pos) {
		return ByteOffset(len(text)), nil
	}

	return 0, fmt.Errorf("%w: %s beyond %d characters", ErrOutOfRange, pos, count)
}

// ToTextPosition returns the rune index whose preceding byte count equals off.
// With Exact, an offset inside a multi-byte sequence fails with ErrMisaligned.
// With Approximate, it snaps to the nearer boundary, preferring the earlier one
// on a tie.
func ToTextPosition(text string, off ByteOffset, mode Exactness) (TextPosition, error) {
	if off < 0 || int(off) > len(text) {
		return 0, fmt.Errorf("%w: %s outside [0, %d]", ErrOutOfRange, off, len(text))
	}

	count := 0
	prevStart := 0
	for idx := range text {
		if idx == int(off) {
			return TextPosition(count), nil
		}
		if idx > int(off) {
			return snap(off, prevStart, idx, count, mode)
		}
		prevStart = idx
		count++
	}

	if int(off) == len(text) {
		return TextPosition(count), nil
	}

	// Inside the final rune.
	return snap(off, prevStart, len(text), count, mode)
}

// snap resolves an offset lying strictly between the rune starting at
// prevStart and the boundary at next, which is rune index nextIndex.
func snap(off ByteOffset, prevStart, next, nextIndex int, mode Exactness) (TextPosition, error) {
	if mode == Exact {
		return 0, fmt.Errorf("%w: %s", ErrMisaligned, off)
	}
	if int(off)-prevStart <= next-int(off) {
		return TextPosition(nextIndex - 1), nil
	}
	return TextPosition(nextIndex), nil
}

// ByteLen returns the encoded length of text as a ByteOffset.
func ByteLen(text string) ByteOffset {
	return ByteOffset(len(text))
}
