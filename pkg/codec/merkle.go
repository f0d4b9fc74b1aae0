package codec

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// Merkle tree construction and proof verification for the Gateway's two
// trees (verifier-set tree, payload tree): a binary keccak256 tree with
// duplicate-last-leaf padding, per spec.md §4.1. Structured after the
// teacher's pkg/merkle.Tree (level-by-level build, sibling-walk proof
// generation) but hashed with Keccak256 and domain-separated internal
// nodes instead of a bare SHA256(left||right).

// Direction records which side a proof sibling sits on when walking from
// leaf to root.
type Direction uint8

const (
	Left Direction = iota
	Right
)

// ProofStep is one sibling hash plus its side, in leaf-to-root order.
type ProofStep struct {
	Sibling [32]byte
	Side    Direction
}

// internalNode hashes two children with a domain-separating prefix byte
// of 1 (0 is reserved for leaves), matching spec.md §4.1.
func internalNode(left, right [32]byte) [32]byte {
	buf := make([]byte, 0, 65)
	buf = append(buf, 1)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return crypto.Keccak256Hash(buf)
}

// Tree is a binary keccak256 Merkle tree over pre-hashed leaves.
type Tree struct {
	levels [][][32]byte
}

// BuildTree constructs a tree from leaf hashes (already domain-separated
// via LeafHashMessage/LeafHashVerifierSet). Odd levels duplicate their
// last node, per spec.md §4.1's "duplicate-last-leaf padding".
func BuildTree(leaves [][32]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyLeafSet
	}

	level := make([][32]byte, len(leaves))
	copy(level, leaves)

	levels := [][][32]byte{level}
	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, internalNode(level[i], level[i+1]))
			} else {
				next = append(next, internalNode(level[i], level[i]))
			}
		}
		levels = append(levels, next)
		level = next
	}

	return &Tree{levels: levels}, nil
}

// Root returns the tree's root hash.
func (t *Tree) Root() [32]byte {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// Proof builds an inclusion proof for the leaf at the given index.
func (t *Tree) Proof(index int) ([]ProofStep, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, ErrLeafIndexOutOfRange
	}

	var steps []ProofStep
	idx := index
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		var siblingIdx int
		var side Direction
		if idx%2 == 0 {
			siblingIdx = idx + 1
			side = Right
		} else {
			siblingIdx = idx - 1
			side = Left
		}

		var sibling [32]byte
		if siblingIdx < len(nodes) {
			sibling = nodes[siblingIdx]
		} else {
			sibling = nodes[idx]
			side = Right
		}

		steps = append(steps, ProofStep{Sibling: sibling, Side: side})
		idx /= 2
	}
	return steps, nil
}

// MerkleRoot is a convenience wrapper that builds a tree and returns only
// the root, matching the codec surface named in spec.md §4.1.
func MerkleRoot(leaves [][32]byte) ([32]byte, error) {
	t, err := BuildTree(leaves)
	if err != nil {
		return [32]byte{}, err
	}
	return t.Root(), nil
}

// MerkleProof is a convenience wrapper returning the proof for one index.
func MerkleProof(leaves [][32]byte, index int) ([]ProofStep, error) {
	t, err := BuildTree(leaves)
	if err != nil {
		return nil, err
	}
	return t.Proof(index)
}

// VerifyProof walks a leaf hash up through proof steps and compares the
// reconstructed root against the expected one. setSize is accepted for
// symmetry with the codec surface named in spec.md §4.1 even though the
// walk itself only needs the proof steps; callers should additionally
// check that the proof length is consistent with setSize before trusting
// the result (see ErrInconsistentLeaf).
func VerifyProof(leaf [32]byte, steps []ProofStep, root [32]byte, setSize uint16) bool {
	current := leaf
	for _, step := range steps {
		if step.Side == Right {
			current = internalNode(current, step.Sibling)
		} else {
			current = internalNode(step.Sibling, current)
		}
	}
	return current == root
}
