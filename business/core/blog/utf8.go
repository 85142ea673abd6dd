package blog

import "unicode/utf8"

// invalidOffset returns the byte offset of the first invalid utf-8 sequence
// in b, or -1 when b is valid.
func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
