package merkle

// A node in the sparse Merkle trie always has one of two shapes:
//   - Soft: exactly one child present; the other side is empty. Per
//     invariant (2) in the data model, a Soft node is never the child of
//     another Soft node along a key descent — such a configuration is
//     collapsed by Remove.
//   - Hard: both children present, ordered canonically by the first bit of
//     their path: the 0-side unit always serializes first.
//
// A Unit is one child edge: a compressed path label (Bits) paired with the
// hash of whatever it points at. For a terminal edge, that hash is the leaf
// value itself, not a further node to dereference.

// Unit is one child edge of a node: the compressed path to the subtree
// (or leaf) and the content hash of whatever lies at the far end of it.
type Unit struct {
	Hash Hash
	Bits Path
}

// Cell is an optional child slot: either empty, or a single Unit.
type Cell struct {
	Unit    Unit
	Present bool
}

func someCell(u Unit) Cell { return Cell{Unit: u, Present: true} }

var noCell = Cell{}

// nodeTag discriminates the two wire-encoded node shapes. It is the final
// byte of every serialized node.
type nodeTag byte

const (
	tagSoft nodeTag = 0x00
	tagHard nodeTag = 0x01
)

// Node is a tagged union of the two node shapes described above.
type Node struct {
	left, right Cell // right is unset (Present == false) for Soft nodes
}

// NewNode builds a node from two cells, choosing Soft or Hard depending on
// how many of them are present. Both-absent is an invariant violation:
// every mutation writes at least one child.
func NewNode(lc, rc Cell) Node {
	switch {
	case lc.Present && rc.Present:
		return Node{left: lc, right: rc}
	case lc.Present && !rc.Present:
		return Node{left: lc}
	case !lc.Present && rc.Present:
		return Node{left: rc}
	default:
		panicInvariant("NewNode: both cells absent")
	}
	panic("unreachable")
}

// IsSoft reports whether n is a one-child node.
func (n Node) IsSoft() bool {
	return !n.right.Present
}

// Cells returns the node's two cells in canonical storage order: for a Hard
// node, (left, right); for a Soft node, (its single present cell, an absent
// Cell).
func (n Node) Cells() (Cell, Cell) {
	return n.left, n.right
}

// ToBytes encodes n per the wire format in the node codec:
//
//	Soft: hash || start(BE) || end(BE) || path-bytes || 0x00
//	Hard: hash_L || start_L(BE) || end_L(BE) || path-bytes_L ||
//	      start_R(BE) || end_R(BE) || path-bytes_R || hash_R || 0x01
//
// For Hard nodes, the two units are reordered if necessary so the unit
// whose path starts with bit 0 always serializes first: two semantically
// equal nodes must always produce byte-identical output, since the content
// address (and hence every ancestor's hash) is derived from it.
func (n Node) ToBytes() []byte {
	if n.IsSoft() {
		u := n.left.Unit
		out := make([]byte, 0, HashLen+len(u.Bits.Bytes())+1)
		out = append(out, u.Hash[:]...)
		out = append(out, u.Bits.Bytes()...)
		out = append(out, byte(tagSoft))
		return out
	}
	lu, ru := n.left.Unit, n.right.Unit
	if !ru.Bits.First() && lu.Bits.First() {
		lu, ru = ru, lu
	}
	out := make([]byte, 0, 2*HashLen+len(lu.Bits.Bytes())+len(ru.Bits.Bytes())+1)
	out = append(out, lu.Hash[:]...)
	out = append(out, lu.Bits.Bytes()...)
	out = append(out, ru.Bits.Bytes()...)
	out = append(out, ru.Hash[:]...)
	out = append(out, byte(tagHard))
	return out
}

// NodeFromBytes decodes a serialized node, returning its two cells in
// canonical (left, right) storage order.
func NodeFromBytes(buf []byte) (Node, error) {
	if len(buf) == 0 {
		return Node{}, newDecodeError("empty buffer")
	}
	tag := nodeTag(buf[len(buf)-1])
	switch tag {
	case tagSoft:
		body := buf[:len(buf)-1]
		if len(body) < HashLen {
			return Node{}, newDecodeError("soft node shorter than one hash")
		}
		var h Hash
		copy(h[:], body[:HashLen])
		p, _, err := PathFromBytes(body[HashLen:])
		if err != nil {
			return Node{}, err
		}
		return Node{left: someCell(Unit{Hash: h, Bits: p})}, nil
	case tagHard:
		body := buf[:len(buf)-1]
		if len(body) < 2*HashLen {
			return Node{}, newDecodeError("hard node shorter than two hashes")
		}
		var lh Hash
		copy(lh[:], body[:HashLen])
		lp, n, err := PathFromBytes(body[HashLen:])
		if err != nil {
			return Node{}, err
		}
		rest := body[HashLen+n:]
		if len(rest) < HashLen {
			return Node{}, newDecodeError("hard node missing right hash")
		}
		rp, m, err := PathFromBytes(rest)
		if err != nil {
			return Node{}, err
		}
		if m+HashLen != len(rest) {
			return Node{}, newDecodeError("hard node has trailing garbage")
		}
		var rh Hash
		copy(rh[:], rest[m:])
		return Node{
			left:  someCell(Unit{Hash: lh, Bits: lp}),
			right: someCell(Unit{Hash: rh, Bits: rp}),
		}, nil
	default:
		return Node{}, newDecodeError("unknown node tag")
	}
}

// CellsFromBytes decodes buf and, for a Hard node, returns (matched, other)
// where matched is the child whose Bits.First() equals right. For a Soft
// node it returns (the single cell, an absent Cell).
func CellsFromBytes(buf []byte, right bool) (Cell, Cell, error) {
	n, err := NodeFromBytes(buf)
	if err != nil {
		return Cell{}, Cell{}, err
	}
	if n.IsSoft() {
		return n.left, noCell, nil
	}
	if n.right.Unit.Bits.First() == right {
		return n.right, n.left, nil
	}
	return n.left, n.right, nil
}
