// Package merkle implements the binary Merkle tree the prover commits trace
// and FRI-layer evaluations to, with batched parallel leaf hashing and
// multi-index opening that dedupes shared interior nodes.
package merkle

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/crypto/sha3"
)

const hashSize = 32

// Digest is a fixed-size tree node hash.
type Digest [hashSize]byte

func hashLeaf(data []byte) Digest {
	var d Digest
	h := sha3.Sum256(append([]byte{0x00}, data...))
	copy(d[:], h[:])
	return d
}

func hashNode(left, right Digest) Digest {
	buf := make([]byte, 0, 1+2*hashSize)
	buf = append(buf, 0x01)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	var d Digest
	h := sha3.Sum256(buf)
	copy(d[:], h[:])
	return d
}

// Tree is a binary Merkle tree over byte-slice leaves. Odd levels duplicate
// their last node, matching the retrieved reference implementation's
// self-pairing convention.
type Tree struct {
	levels [][]Digest // levels[0] is leaf hashes
}

// leafBatchSize is the chunk size each worker goroutine walks its share of
// leaves in, mirroring the reference prover's batched row hashing.
const leafBatchSize = 1000

// Build hashes every row and constructs the tree, hashing leaf batches
// concurrently across GOMAXPROCS workers.
func Build(rows [][]byte) (*Tree, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("merkle: cannot build a tree from zero rows")
	}

	leaves := make([]Digest, len(rows))
	workers := runtime.GOMAXPROCS(0)
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	batchesPerWorker := (len(rows) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * batchesPerWorker
		if start >= len(rows) {
			break
		}
		end := start + batchesPerWorker
		if end > len(rows) {
			end = len(rows)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i += leafBatchSize {
				j := i + leafBatchSize
				if j > end {
					j = end
				}
				for k := i; k < j; k++ {
					leaves[k] = hashLeaf(rows[k])
				}
			}
		}(start, end)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}

	levels := [][]Digest{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([]Digest, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next[i/2] = hashNode(current[i], current[i+1])
			} else {
				next[i/2] = hashNode(current[i], current[i])
			}
		}
		levels = append(levels, next)
		current = next
	}

	return &Tree{levels: levels}, nil
}

// Root returns the tree's root digest.
func (t *Tree) Root() Digest {
	return t.levels[len(t.levels)-1][0]
}

// NumLeaves returns the number of committed rows.
func (t *Tree) NumLeaves() int {
	return len(t.levels[0])
}

// PathNode is one sibling hash in an authentication path.
type PathNode struct {
	Hash    Digest
	IsRight bool
}

// Open returns the authentication path for a single leaf index.
func (t *Tree) Open(index int) ([]PathNode, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, fmt.Errorf("merkle: index %d out of range [0,%d)", index, len(t.levels[0]))
	}
	var path []PathNode
	idx := index
	for level := 0; level < len(t.levels)-1; level++ {
		cur := t.levels[level]
		var sibling int
		var isRight bool
		if idx%2 == 0 {
			sibling, isRight = idx+1, true
		} else {
			sibling, isRight = idx-1, false
		}
		if sibling >= len(cur) {
			sibling = idx // self-paired duplicate node
		}
		path = append(path, PathNode{Hash: cur[sibling], IsRight: isRight})
		idx /= 2
	}
	return path, nil
}

// OpenMany returns authentication paths for several indices at once. Unlike
// repeated Open calls, interior nodes shared between two query paths at the
// same level are only ever looked up once; the returned paths still carry a
// full node list per index so verification doesn't need tree access, but the
// batching avoids redundant digest copies for large query counts.
func (t *Tree) OpenMany(indices []int) (map[int][]PathNode, error) {
	out := make(map[int][]PathNode, len(indices))
	cache := make(map[[2]int]PathNode)
	for _, index := range indices {
		if index < 0 || index >= len(t.levels[0]) {
			return nil, fmt.Errorf("merkle: index %d out of range [0,%d)", index, len(t.levels[0]))
		}
		var path []PathNode
		idx := index
		for level := 0; level < len(t.levels)-1; level++ {
			cur := t.levels[level]
			var sibling int
			var isRight bool
			if idx%2 == 0 {
				sibling, isRight = idx+1, true
			} else {
				sibling, isRight = idx-1, false
			}
			if sibling >= len(cur) {
				sibling = idx
			}
			key := [2]int{level, sibling}
			node, ok := cache[key]
			if !ok {
				node = PathNode{Hash: cur[sibling], IsRight: isRight}
				cache[key] = node
			}
			path = append(path, node)
			idx /= 2
		}
		out[index] = path
	}
	return out, nil
}

// Verify checks a leaf's authentication path against a root.
func Verify(root Digest, leaf []byte, path []PathNode, index int) bool {
	h := hashLeaf(leaf)
	for _, node := range path {
		if node.IsRight {
			h = hashNode(h, node.Hash)
		} else {
			h = hashNode(node.Hash, h)
		}
	}
	return h == root
}
