// Package merkle builds the balanced binary commitment tree over a
// transaction-id sequence and proves membership in it.
package merkle

import (
	"errors"

	"github.com/vectra-chain/vectra-core/pkg/crypto"
	"github.com/vectra-chain/vectra-core/pkg/types"
)

// ErrEmptyProofTarget is returned when a proof is requested for an index
// outside the leaf range.
var ErrEmptyProofTarget = errors.New("leaf index out of range")

// Node is an internal or leaf node of the tree. Leaves have nil children.
type Node struct {
	Hash  types.Hash
	Left  *Node
	Right *Node
}

func leaf(h types.Hash) *Node {
	return &Node{Hash: h}
}

func fromChildren(left, right *Node) *Node {
	return &Node{
		Hash:  crypto.HashConcat(left.Hash, right.Hash),
		Left:  left,
		Right: right,
	}
}

// Tree is a balanced binary commitment over a sequence of leaf digests.
// An empty tree has no root.
type Tree struct {
	root   *Node
	leaves []types.Hash
}

// WithHashes builds a tree over the given leaf digests.
func WithHashes(hashes []types.Hash) *Tree {
	t := &Tree{leaves: append([]types.Hash(nil), hashes...)}
	nodes := make([]*Node, len(hashes))
	for i, h := range hashes {
		nodes[i] = leaf(h)
	}
	t.root = build(nodes)
	return t
}

// build splits nodes at n/2 and recurses, per the construction rule:
// empty -> nil, 1 -> that node, 2 -> H(l||r), n>2 -> split and combine.
func build(nodes []*Node) *Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	case 2:
		return fromChildren(nodes[0], nodes[1])
	default:
		mid := len(nodes) / 2
		left := build(nodes[:mid])
		right := build(nodes[mid:])
		return fromChildren(left, right)
	}
}

// RootHash returns the tree's root digest, or the zero hash if empty.
func (t *Tree) RootHash() types.Hash {
	if t.root == nil {
		return types.Hash{}
	}
	return t.root.Hash
}

// IsEmpty reports whether the tree has no leaves.
func (t *Tree) IsEmpty() bool {
	return t.root == nil
}

// Step is one link in a Merkle proof: the sibling subtree's root hash, and
// whether that sibling sits to the left of the node being folded.
type Step struct {
	SiblingHash types.Hash
	SiblingLeft bool
}

// GenerateProof returns the ordered sibling chain needed to recompute the
// root from leaves[leafNumber], walking the same split_at(n/2) recursion
// used by construction.
func (t *Tree) GenerateProof(leafNumber uint32) ([]Step, error) {
	if int(leafNumber) >= len(t.leaves) {
		return nil, ErrEmptyProofTarget
	}
	return generateProof(t.leaves, leafNumber), nil
}

func generateProof(hashes []types.Hash, leafIndex uint32) []Step {
	if len(hashes) <= 1 {
		return nil
	}
	if len(hashes) == 2 {
		if leafIndex == 0 {
			return []Step{{SiblingHash: hashes[1], SiblingLeft: false}}
		}
		return []Step{{SiblingHash: hashes[0], SiblingLeft: true}}
	}

	mid := uint32(len(hashes) / 2)
	if leafIndex < mid {
		rightRoot := computeRoot(hashes[mid:])
		proof := generateProof(hashes[:mid], leafIndex)
		return append(proof, Step{SiblingHash: rightRoot, SiblingLeft: false})
	}
	leftRoot := computeRoot(hashes[:mid])
	proof := generateProof(hashes[mid:], leafIndex-mid)
	return append(proof, Step{SiblingHash: leftRoot, SiblingLeft: true})
}

func computeRoot(hashes []types.Hash) types.Hash {
	switch len(hashes) {
	case 0:
		return types.Hash{}
	case 1:
		return hashes[0]
	case 2:
		return crypto.HashConcat(hashes[0], hashes[1])
	default:
		mid := len(hashes) / 2
		left := computeRoot(hashes[:mid])
		right := computeRoot(hashes[mid:])
		return crypto.HashConcat(left, right)
	}
}

// VerifyProof folds proof bottom-up from leafHash using HashConcat in the
// recorded left/right order and compares the result to rootHash.
func VerifyProof(leafHash types.Hash, proof []Step, rootHash types.Hash) bool {
	current := leafHash
	for _, step := range proof {
		if step.SiblingLeft {
			current = crypto.HashConcat(step.SiblingHash, current)
		} else {
			current = crypto.HashConcat(current, step.SiblingHash)
		}
	}
	return current == rootHash
}
