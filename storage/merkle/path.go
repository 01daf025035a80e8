package merkle

import "fmt"

// BitsLen is the integer type wide enough to index every bit of a Hash.
// HASH_LEN * 8 bits must fit comfortably inside it.
type BitsLen = uint16

// HashLen is the width, in bytes, of every hash, key and leaf value handled
// by this package.
const HashLen = 32

// pathLenBytes is the number of bytes used to serialize each endpoint
// (start, end) of a Path.
const pathLenBytes = 2

// Path is a zero-copy view of a contiguous, half-open bit range [start, end)
// over an immutable byte buffer. Bits are numbered MSB-first within each
// byte. A Path owns no bytes: its validity is bounded by the lifetime of the
// buffer it was built from.
type Path struct {
	buf        []byte
	start, end BitsLen
}

// NewPath returns a Path covering the full bit range of buf.
func NewPath(buf []byte) Path {
	return Path{
		buf:   buf,
		start: 0,
		end:   BitsLen(len(buf)) * 8,
	}
}

// First returns the bit at the path's start position.
func (p Path) First() bool {
	return bitAt(p.buf, p.start)
}

// Len returns the number of bits covered by the path.
func (p Path) Len() BitsLen {
	return p.end - p.start
}

// IsEmpty reports whether the path covers no bits, or has no backing bytes.
func (p Path) IsEmpty() bool {
	return p.Len() == 0 || len(p.buf) == 0
}

// Shift returns a sub-view of p. When tail is false, the first n bits are
// consumed from the head, yielding range [start+n, end): whole bytes are
// dropped from the front of the buffer so the new start is (start+n) mod 8.
// When tail is true, the range is truncated to its first n bits, yielding
// [start, start+n), and the buffer is truncated accordingly. Both forms
// preserve the invariant that the backing buffer spans exactly the bytes
// covering the returned range.
func (p Path) Shift(n BitsLen, tail bool) Path {
	if tail {
		newEnd := p.start + n
		return Path{
			buf:   p.buf[:byteSpan(p.start, newEnd)],
			start: p.start,
			end:   newEnd,
		}
	}
	abs := p.start + n
	drop := abs / 8
	return Path{
		buf:   p.buf[drop:],
		start: abs % 8,
		end:   p.end - drop*8,
	}
}

// byteSpan returns the number of whole bytes spanned by bit range [s, e).
func byteSpan(s, e BitsLen) int {
	return int((e+7)/8) - int(s/8)
}

// bitAt returns the bit of buf at absolute bit index i, MSB-first within
// each byte.
func bitAt(buf []byte, i BitsLen) bool {
	byteIdx := i / 8
	bitIdx := 7 - (i % 8)
	return (buf[byteIdx]>>bitIdx)&1 == 1
}

// LenCommonBits returns the longest common prefix length, in bits, of a and
// b, bounded by min(a.Len(), b.Len()).
func LenCommonBits(a, b Path) BitsLen {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	var i BitsLen
	for i = 0; i < n; i++ {
		if bitAt(a.buf, a.start+i) != bitAt(b.buf, b.start+i) {
			break
		}
	}
	return i
}

// ConcatPaths returns a fresh Path whose bits are a's bits followed by b's
// bits, materialized into a new backing buffer starting at bit 0. Unlike
// Shift, this does not alias either input: a and b may come from unrelated
// buffers (e.g. one still live on the insertion/deletion stack, the other
// just decoded from stored node bytes), which is exactly the situation the
// tree's Soft-node collapse needs — rejoining two edges of the same key's
// path after the node that used to separate them is removed.
func ConcatPaths(a, b Path) Path {
	total := a.Len() + b.Len()
	out := make([]byte, (total+7)/8)
	copyBits(out, 0, a)
	copyBits(out, a.Len(), b)
	return Path{buf: out, start: 0, end: total}
}

// copyBits writes src's bits into dst starting at bit offset destStart,
// MSB-first, OR-ing into whatever is already in dst.
func copyBits(dst []byte, destStart BitsLen, src Path) {
	for i := BitsLen(0); i < src.Len(); i++ {
		if bitAt(src.buf, src.start+i) {
			pos := destStart + i
			dst[pos/8] |= 1 << (7 - (pos % 8))
		}
	}
}

// Bytes serializes the path as start(BE uint16) || end(BE uint16) ||
// path-bytes, where path-bytes is the whole-byte span covering [start, end).
func (p Path) Bytes() []byte {
	n := byteSpan(p.start, p.end)
	out := make([]byte, 2*pathLenBytes+n)
	out[0] = byte(p.start >> 8)
	out[1] = byte(p.start)
	out[2] = byte(p.end >> 8)
	out[3] = byte(p.end)
	copy(out[4:], p.buf[:n])
	return out
}

// PathFromBytes parses a Path previously produced by Bytes, aliasing buf.
func PathFromBytes(buf []byte) (Path, int, error) {
	if len(buf) < 2*pathLenBytes {
		return Path{}, 0, fmt.Errorf("%w: truncated path header", ErrDecode)
	}
	start := BitsLen(buf[0])<<8 | BitsLen(buf[1])
	end := BitsLen(buf[2])<<8 | BitsLen(buf[3])
	n := byteSpan(start, end)
	if len(buf) < 2*pathLenBytes+n {
		return Path{}, 0, fmt.Errorf("%w: truncated path bytes", ErrDecode)
	}
	return Path{
		buf:   buf[2*pathLenBytes : 2*pathLenBytes+n],
		start: start,
		end:   end,
	}, 2*pathLenBytes + n, nil
}
