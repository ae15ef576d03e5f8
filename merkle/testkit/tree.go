// Package testkit builds reference accumulator trees.
//
// This is the producer side of the commitment: the verification core never
// constructs trees, it only checks inclusion against a root it is handed.
// Tests use this builder to generate (leaf, path, root) triples covering
// every leaf position; producers can use it to publish commitments.
package testkit

import (
	"errors"

	"github.com/Omerhrr/pyth-crosschain/merkle"
)

// Tree is a fully built accumulator over an ordered set of leaves.
type Tree struct {
	root   merkle.Digest
	paths  []merkle.Path
	leaves [][]byte
}

// Build constructs the accumulator over leaves.
//
// Levels are built pairwise with the same domain separation and canonical
// child ordering the verifier uses. An odd node at the end of a level is
// promoted unchanged to the next level (no duplication), so its path simply
// skips that level.
func Build(leaves [][]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, errors.New("testkit: at least one leaf is required")
	}

	t := &Tree{
		paths:  make([]merkle.Path, len(leaves)),
		leaves: make([][]byte, len(leaves)),
	}
	for i, l := range leaves {
		t.leaves[i] = append([]byte(nil), l...)
	}

	level := make([]merkle.Digest, len(leaves))
	// members[i] tracks which original leaves sit under node i of the
	// current level, so sibling digests land on the right paths.
	members := make([][]int, len(leaves))
	for i, l := range leaves {
		level[i] = merkle.HashLeaf(l)
		members[i] = []int{i}
	}

	for len(level) > 1 {
		next := make([]merkle.Digest, 0, (len(level)+1)/2)
		nextMembers := make([][]int, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				nextMembers = append(nextMembers, members[i])
				continue
			}
			for _, leafIdx := range members[i] {
				t.paths[leafIdx] = append(t.paths[leafIdx], level[i+1])
			}
			for _, leafIdx := range members[i+1] {
				t.paths[leafIdx] = append(t.paths[leafIdx], level[i])
			}
			next = append(next, merkle.HashNode(level[i], level[i+1]))
			merged := make([]int, 0, len(members[i])+len(members[i+1]))
			merged = append(merged, members[i]...)
			merged = append(merged, members[i+1]...)
			nextMembers = append(nextMembers, merged)
		}
		level = next
		members = nextMembers
	}

	t.root = level[0]
	return t, nil
}

// Root returns the committed root digest.
func (t *Tree) Root() merkle.Digest { return t.root }

// Len returns the number of leaves.
func (t *Tree) Len() int { return len(t.leaves) }

// Path returns the inclusion proof for leaf i.
func (t *Tree) Path(i int) merkle.Path {
	return append(merkle.Path(nil), t.paths[i]...)
}

// Leaf returns a copy of leaf i's raw bytes.
func (t *Tree) Leaf(i int) []byte {
	return append([]byte(nil), t.leaves[i]...)
}
