package ahocorasick

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
)

// decodeCodePoint reads one UTF-8 code point from the front of buf using
// the lead-byte length-class rule spec.md §4.3 specifies (cu < 0xC0 is
// 1 byte, < 0xE0 is 2, < 0xF0 is 3, otherwise 4), rather than
// unicode/utf8's validating decoder: an orphan continuation byte or a
// truncated sequence at the end of buf is still handled without reading
// past len(buf), at the cost of producing a meaningless code point for
// malformed input (acceptable per spec.md §7: well-formedness of input is
// the caller's responsibility).
func decodeCodePoint(buf []byte) (rune, int) {
	lead := buf[0]
	var want int
	var r rune
	switch {
	case lead < 0xC0:
		return rune(lead), 1
	case lead < 0xE0:
		want, r = 2, rune(lead&0x1F)
	case lead < 0xF0:
		want, r = 3, rune(lead&0x0F)
	default:
		want, r = 4, rune(lead&0x07)
	}

	avail := want
	if avail > len(buf) {
		avail = len(buf)
	}
	for i := 1; i < avail; i++ {
		r = r<<6 | rune(buf[i]&0x3F)
	}
	for i := avail; i < want; i++ {
		r <<= 6 // truncated sequence: missing continuation bits read as zero
	}
	return r, avail
}

// asciiLower is the branchless fold spec.md §4.3 describes for the ASCII
// fast path.
func asciiLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c | 0x20
	}
	return c
}

// foldRune is the default to_lower: ASCII bytes via asciiLower, anything
// else via the standard library's simple Unicode case mapping. This is
// the "platform character database" to_lower spec.md §1 assumes exists,
// and it carries the same known limitation spec.md §9 documents: a
// length-changing case mapping (e.g. 'İ' losing its combining dot) folds
// to a single code point, same as the source this spec distills from.
func foldRune(r rune) rune {
	if r < 0x80 {
		return rune(asciiLower(byte(r)))
	}
	return unicode.ToLower(r)
}

// RunLower scans text[offset : offset+length), folding each UTF-8 code
// point to lowercase on the fly via foldRune and feeding the folded
// encoding into a, byte by byte, without materializing a second buffer.
// a must have been built from already-lowercased needles (caller
// responsibility, per spec.md §4.3); needles containing uppercase bytes
// will never match.
//
// EndIndex in reported matches is always the original (pre-fold) offset
// immediately after the code point whose bytes caused the match,
// regardless of which of that code point's folded bytes triggered it —
// reports happen only between code points, never mid-code-point.
func RunLower[V, A any](a *PackedAutomaton[V], text []byte, offset, length int, seed A, reduce Reducer[V, A]) A {
	acc := seed
	state := rootState
	end := offset + length
	i := offset
	pos := 0
	var buf [utf8.UTFMax]byte

	for i < end {
		r, size := decodeCodePoint(text[i:end])
		i += size
		pos += size

		n := utf8.EncodeRune(buf[:], foldRune(r))
		for k := 0; k < n; k++ {
			state = a.step(state, buf[k])
			for _, v := range a.values[state] {
				next := reduce(acc, Match[V]{EndIndex: pos, Value: v})
				acc = next.Acc
				if next.Stop {
					return acc
				}
			}
		}
	}
	return acc
}

// RunLowerFull is RunLower's refinement for callers who need full Unicode
// case folding instead of simple case mapping — spec.md §9's open
// question explicitly allows this ("implementations ... are free to
// refine by using full Unicode case folding if desired"). It folds each
// code point through golang.org/x/text/cases.Fold(), so length-changing
// folds (German 'ß' -> "ss") are matched correctly, at the cost of
// allocating per code point; RunLower's allocation-free guarantee does
// not extend to this variant.
func RunLowerFull[V, A any](a *PackedAutomaton[V], text []byte, offset, length int, seed A, reduce Reducer[V, A]) A {
	acc := seed
	state := rootState
	end := offset + length
	i := offset
	pos := 0
	folder := cases.Fold()

	for i < end {
		r, size := decodeCodePoint(text[i:end])
		i += size
		pos += size

		for _, b := range foldCodePointFull(folder, r) {
			state = a.step(state, b)
			for _, v := range a.values[state] {
				next := reduce(acc, Match[V]{EndIndex: pos, Value: v})
				acc = next.Acc
				if next.Stop {
					return acc
				}
			}
		}
	}
	return acc
}

func foldCodePointFull(c cases.Caser, r rune) []byte {
	var in [utf8.UTFMax]byte
	n := utf8.EncodeRune(in[:], r)

	dst := make([]byte, 8)
	for {
		c.Reset()
		nDst, _, err := c.Transform(dst, in[:n], true)
		if err == transform.ErrShortDst {
			dst = make([]byte, len(dst)*2)
			continue
		}
		return dst[:nDst]
	}
}
