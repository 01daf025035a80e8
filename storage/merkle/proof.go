package merkle

import "time"

// ProofStep is one entry of an inclusion Proof: the direction the key
// descended at this node (Right), and the partial serialization of that
// node with the running-hash position excised (Cut). The verifier
// reconstructs the exact original node bytes by reinserting the running
// hash at the position Cut implies.
type ProofStep struct {
	Right bool
	Cut   []byte
}

// Proof is an ordered, root-to-leaf list of ProofSteps. Reconstructing the
// root from a leaf means replaying Proof in reverse: leaf-most entry first.
type Proof []ProofStep

// GetMerkleProof generates an inclusion proof for key against the tree
// rooted at root. It returns (nil, nil) if the key is not present — the
// same non-inclusion signal Get gives, since walking off the tree without
// a terminal match is no different here than there.
func (t *Tree) GetMerkleProof(root *Hash, key Hash) (*Proof, error) {
	start := time.Now()
	defer func() { t.metrics.ProofDuration(time.Since(start)) }()

	if root == nil {
		return nil, nil
	}
	proof := make(Proof, 0, HashLen*8)
	found, err := t.genProof(*root, NewPath(key[:]), &proof)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &proof, nil
}

func (t *Tree) genProof(root Hash, bits Path, proof *Proof) (bool, error) {
	raw, ok, err := t.backend.Get(root)
	if err != nil {
		return false, wrapBackendErr("get", err)
	}
	if !ok {
		panicInvariant("genProof(): dangling node reference")
	}
	cell, _, err := CellsFromBytes(raw, bits.First())
	if err != nil {
		return false, err
	}
	if !cell.Present {
		panicInvariant("genProof(): matching cell absent")
	}
	unit := cell.Unit
	n := LenCommonBits(unit.Bits, bits)
	switch {
	case n == bits.Len():
		step, err := encodeProofStep(raw, bits.First())
		if err != nil {
			return false, err
		}
		*proof = append(*proof, step)
		return true, nil
	case n == unit.Bits.Len():
		step, err := encodeProofStep(raw, bits.First())
		if err != nil {
			return false, err
		}
		*proof = append(*proof, step)
		return t.genProof(unit.Hash, bits.Shift(n, false), proof)
	default:
		return false, nil
	}
}

// encodeProofStep excises the running-hash position from a serialized
// node, per the node's shape and which side the key descended through:
//   - Soft (either direction), or Hard descending left: drop the leading
//     hash; the verifier re-prepends the running hash.
//   - Hard descending right: drop the trailing hash and re-append the tag
//     byte; the verifier reinserts the running hash immediately before
//     that tag byte.
func encodeProofStep(raw []byte, right bool) (ProofStep, error) {
	n, err := NodeFromBytes(raw)
	if err != nil {
		return ProofStep{}, err
	}
	if n.IsSoft() {
		cut := make([]byte, len(raw)-HashLen)
		copy(cut, raw[HashLen:])
		return ProofStep{Right: false, Cut: cut}, nil
	}
	if !right {
		cut := make([]byte, len(raw)-HashLen)
		copy(cut, raw[HashLen:])
		return ProofStep{Right: false, Cut: cut}, nil
	}
	cut := make([]byte, 0, len(raw)-HashLen)
	cut = append(cut, raw[:len(raw)-HashLen-1]...)
	cut = append(cut, byte(tagHard))
	return ProofStep{Right: true, Cut: cut}, nil
}

// VerifyProof independently verifies that proof reconstructs root from
// leaf, using hasher (which must match the Hasher the tree was built
// with). It is a free function, not a Tree method: verification needs no
// backend access at all.
func VerifyProof(hasher Hasher, root *Hash, leaf Hash, proof *Proof) bool {
	if proof == nil {
		return false
	}
	hash := leaf
	for i := len(*proof) - 1; i >= 0; i-- {
		step := (*proof)[i]
		var buf []byte
		if step.Right {
			l := len(step.Cut)
			buf = make([]byte, 0, l+HashLen)
			buf = append(buf, step.Cut[:l-1]...)
			buf = append(buf, hash[:]...)
			buf = append(buf, step.Cut[l-1:]...)
		} else {
			buf = make([]byte, 0, len(step.Cut)+HashLen)
			buf = append(buf, hash[:]...)
			buf = append(buf, step.Cut...)
		}
		hash = hasher.Digest(buf)
	}
	if root == nil {
		return false
	}
	return hash == *root
}
