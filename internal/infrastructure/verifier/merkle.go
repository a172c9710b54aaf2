package verifier

import (
	"bytes"

	"golang.org/x/crypto/sha3"
)

// Leaf returns the merkle leaf of the given data.
func Leaf(data []byte) [32]byte {
	return keccak(data)
}

// VerifyProof tells whether the proof leads from leaf to root. Pairs are
// hashed in sorted order so that proofs don't need position bits.
func VerifyProof(proof [][32]byte, root, leaf [32]byte) bool {
	computed := leaf
	for _, node := range proof {
		computed = hashPair(computed, node)
	}
	return computed == root
}

// MerkleTree builds the sorted-pair keccak tree of the given leaves and
// returns its root and the proof of every leaf.
func MerkleTree(leaves [][32]byte) ([32]byte, [][][32]byte) {
	if len(leaves) == 0 {
		return [32]byte{}, nil
	}

	proofs := make([][][32]byte, len(leaves))
	// positions[i] is the index of the node of leaf i at the current level.
	positions := make([]int, len(leaves))
	for i := range positions {
		positions[i] = i
	}

	level := leaves
	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, hashPair(level[i], level[i+1]))
		}

		for leaf, pos := range positions {
			sibling := pos ^ 1
			if sibling < len(level) {
				proofs[leaf] = append(proofs[leaf], level[sibling])
			}
			positions[leaf] = pos / 2
		}
		level = next
	}
	return level[0], proofs
}

func hashPair(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return keccak(a[:], b[:])
	}
	return keccak(b[:], a[:])
}

func keccak(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
