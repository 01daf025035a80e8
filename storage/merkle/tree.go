package merkle

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dapperwick/bitsmt/module/metrics"
)

// Tree is the bitwise-radix sparse Merkle tree engine: a recursive
// insert/get/remove/batch/proof API driven against a pluggable Backend and
// Hasher. Tree itself holds no tree state beyond those two collaborators —
// every root is just a Hash the caller threads between calls.
type Tree struct {
	backend Backend
	hasher  Hasher
	log     zerolog.Logger
	metrics metrics.Collector
	batchErrorMode BatchErrorMode
}

// BatchErrorMode controls how Inserts/Removes react to a failure partway
// through a batch.
type BatchErrorMode int

const (
	// AbortOnFirst stops applying the batch at the first error and returns
	// it immediately, along with the root as of the last successful
	// operation. This is the default.
	AbortOnFirst BatchErrorMode = iota
	// CollectAll keeps applying every remaining key in the batch even
	// after an error, aggregating every failure into one
	// *multierror.Error via hashicorp/go-multierror. Useful when the
	// caller wants to know about every bad key in one pass rather than
	// fixing and resubmitting one at a time.
	CollectAll
)

// Option configures a Tree at construction time.
type Option func(*Tree)

// WithLogger attaches a logger. The zero value (zerolog.Nop()) is used if
// this option is omitted.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tree) { t.log = log }
}

// WithMetrics attaches a metrics.Collector. metrics.NoopCollector{} is used
// if this option is omitted.
func WithMetrics(m metrics.Collector) Option {
	return func(t *Tree) { t.metrics = m }
}

// WithBatchErrorMode selects how Inserts/Removes handle a mid-batch error.
func WithBatchErrorMode(mode BatchErrorMode) Option {
	return func(t *Tree) { t.batchErrorMode = mode }
}

// NewTree builds a Tree against the given backend and hasher.
func NewTree(backend Backend, hasher Hasher, opts ...Option) *Tree {
	t := &Tree{
		backend: backend,
		hasher:  hasher,
		log:     zerolog.Nop(),
		metrics: metrics.NoopCollector{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewDefaultTree builds a Tree with the package defaults: an in-memory
// backend and a BLAKE2b hasher.
func NewDefaultTree(opts ...Option) *Tree {
	return NewTree(NewMemoryBackend(), NewBlake2bHasher(), opts...)
}

func (t *Tree) writeNode(n Node) (Hash, error) {
	bytes := n.ToBytes()
	h := t.hasher.Digest(bytes)
	if err := t.backend.Put(h, bytes); err != nil {
		return Hash{}, wrapBackendErr("put", err)
	}
	return h, nil
}

// loadCells reads the node stored at hash and splits it into (matched,
// other) per CellsFromBytes, where matched is the child whose first bit
// equals right. A missing hash indicates a dangling reference — storage
// corruption the reference implementation treats as an unconditional
// invariant violation (it is never a valid outcome of a correctly-written
// tree), so we panic with InvariantViolation rather than propagate it as a
// recoverable error.
func (t *Tree) loadCells(hash Hash, right bool) (matched, other Cell, err error) {
	raw, ok, err := t.backend.Get(hash)
	if err != nil {
		return Cell{}, Cell{}, wrapBackendErr("get", err)
	}
	if !ok {
		panicInvariant("dangling node reference: " + hashHex(hash))
	}
	return CellsFromBytes(raw, right)
}

func hashHex(h Hash) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(h)*2)
	for i, b := range h {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return string(out)
}

// Insert writes key -> leaf into the tree rooted at root (nil meaning
// empty), returning the new root.
func (t *Tree) Insert(root *Hash, key, leaf Hash) (*Hash, error) {
	start := time.Now()
	defer func() { t.metrics.InsertDuration(time.Since(start)) }()

	if root == nil {
		unit := Unit{Hash: leaf, Bits: NewPath(key[:])}
		h, err := t.writeNode(NewNode(someCell(unit), noCell))
		if err != nil {
			return nil, err
		}
		return &h, nil
	}
	h, err := t.put(*root, NewPath(key[:]), leaf)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// put implements the four structural cases from the component design:
// set-aside, replacement, pass-over, split.
func (t *Tree) put(root Hash, bits Path, leaf Hash) (Hash, error) {
	same, other, err := t.loadCells(root, bits.First())
	if err != nil {
		return Hash{}, err
	}
	if !same.Present {
		panicInvariant("put(): matching cell absent")
	}
	unit := same.Unit
	n := LenCommonBits(unit.Bits, bits)

	switch {
	case n == 0:
		// set-aside: the existing unit and the new leaf share no prefix at
		// this depth; combine them into a fresh Hard node.
		newUnit := Unit{Hash: leaf, Bits: bits}
		return t.writeNode(NewNode(same, someCell(newUnit)))

	case n == bits.Len():
		// replacement: bits is fully consumed by the common prefix, i.e.
		// this unit's edge is exactly the key's remaining path.
		newUnit := Unit{Hash: leaf, Bits: bits}
		return t.writeNode(NewNode(someCell(newUnit), other))

	case n == unit.Bits.Len():
		// pass-over: the unit's whole edge is a prefix of bits; consume it
		// and recurse into the child it points at.
		childHash, err := t.put(unit.Hash, bits.Shift(n, false), leaf)
		if err != nil {
			return Hash{}, err
		}
		newUnit := Unit{Hash: childHash, Bits: unit.Bits}
		return t.writeNode(NewNode(someCell(newUnit), other))

	default:
		// split: neither edge is a prefix of the other; fork at the
		// longest common prefix n, then wrap the fork under that prefix.
		lu := Unit{Hash: unit.Hash, Bits: unit.Bits.Shift(n, false)}
		ru := Unit{Hash: leaf, Bits: bits.Shift(n, false)}
		innerHash, err := t.writeNode(NewNode(someCell(lu), someCell(ru)))
		if err != nil {
			return Hash{}, err
		}
		outerUnit := Unit{Hash: innerHash, Bits: unit.Bits.Shift(n, true)}
		return t.writeNode(NewNode(someCell(outerUnit), other))
	}
}

// Get looks up key against the tree rooted at root, returning the stored
// leaf, or ok == false if the key is absent (non-inclusion), which is not
// an error condition.
func (t *Tree) Get(root *Hash, key Hash) (leaf Hash, ok bool, err error) {
	if root == nil {
		return Hash{}, false, nil
	}
	return t.find(*root, NewPath(key[:]))
}

func (t *Tree) find(root Hash, bits Path) (Hash, bool, error) {
	cell, _, err := t.loadCells(root, bits.First())
	if err != nil {
		return Hash{}, false, err
	}
	if !cell.Present {
		panicInvariant("find(): matching cell absent")
	}
	unit := cell.Unit
	n := LenCommonBits(unit.Bits, bits)
	switch {
	case n == bits.Len():
		return unit.Hash, true, nil
	case n == unit.Bits.Len():
		return t.find(unit.Hash, bits.Shift(n, false))
	default:
		return Hash{}, false, nil
	}
}

// writeSoftUnit writes a Soft node whose only child is u, collapsing first
// if u's target is itself a Soft node. Paths are maximally compressed: a
// Soft node's child is never itself Soft, so whenever deletion would produce
// that shape, the two edges are merged into one spanning both, pointing
// straight at the grandchild. u.Hash may instead be a terminal leaf value
// (never written to the backend as a node), in which case the lookup simply
// misses and u is wrapped as given.
func (t *Tree) writeSoftUnit(u Unit) (Hash, error) {
	for {
		raw, ok, err := t.backend.Get(u.Hash)
		if err != nil {
			return Hash{}, wrapBackendErr("get", err)
		}
		if !ok {
			break
		}
		n, err := NodeFromBytes(raw)
		if err != nil {
			return Hash{}, err
		}
		if !n.IsSoft() {
			break
		}
		inner := n.left.Unit
		u = Unit{Hash: inner.Hash, Bits: ConcatPaths(u.Bits, inner.Bits)}
	}
	return t.writeNode(NewNode(someCell(u), noCell))
}

// Remove deletes key from the tree rooted at root, returning the new root.
// If key was never in the tree, the returned root is the unchanged input
// root (nil stays nil) — this package adopts the disambiguated semantics
// from the design notes rather than conflating "key not found" with
// "tree became empty".
func (t *Tree) Remove(root *Hash, key Hash) (*Hash, error) {
	start := time.Now()
	defer func() { t.metrics.RemoveDuration(time.Since(start)) }()

	if root == nil {
		return nil, nil
	}
	newRoot, found, err := t.delete(*root, NewPath(key[:]))
	if err != nil {
		return nil, err
	}
	if !found {
		return root, nil
	}
	return newRoot, nil
}

// delete returns (newRoot, found, err). newRoot is nil either when the key
// was not found (found == false, in which case it is meaningless and the
// caller must keep its old root) or when removing the key emptied this
// subtree entirely (found == true, newRoot == nil).
func (t *Tree) delete(root Hash, bits Path) (*Hash, bool, error) {
	same, other, err := t.loadCells(root, bits.First())
	if err != nil {
		return nil, false, err
	}
	if !same.Present {
		panicInvariant("delete(): matching cell absent")
	}
	unit := same.Unit
	n := LenCommonBits(unit.Bits, bits)

	switch {
	case n == bits.Len():
		// exact hit at this edge.
		if !other.Present {
			return nil, true, nil
		}
		h, err := t.writeSoftUnit(other.Unit)
		if err != nil {
			return nil, false, err
		}
		return &h, true, nil

	case n == unit.Bits.Len():
		// descend.
		childRoot, found, err := t.delete(unit.Hash, bits.Shift(n, false))
		if err != nil {
			return nil, false, err
		}
		if !found {
			return nil, false, nil
		}
		if childRoot == nil {
			if !other.Present {
				return nil, true, nil
			}
			h, err := t.writeSoftUnit(other.Unit)
			if err != nil {
				return nil, false, err
			}
			return &h, true, nil
		}
		newUnit := Unit{Hash: *childRoot, Bits: unit.Bits}
		if !other.Present {
			h, err := t.writeSoftUnit(newUnit)
			if err != nil {
				return nil, false, err
			}
			return &h, true, nil
		}
		h, err := t.writeNode(NewNode(someCell(newUnit), other))
		if err != nil {
			return nil, false, err
		}
		return &h, true, nil

	default:
		// key not present in this subtree.
		return nil, false, nil
	}
}
