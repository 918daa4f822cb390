// Package merkle builds institutional balance trees and inclusion proofs.
//
// Leaves are SHA-256 digests of the 8-byte little-endian balance. Interior
// nodes use the RFC 6962 shape: unbalanced trees split at the largest power
// of two strictly less than the node count, and interior hashes are
// domain-separated from leaves with a 0x01 prefix.
package merkle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/hashutil"
)

const HashSize = 32

var (
	ErrEmptyTree      = errors.New("empty merkle tree")
	ErrInvalidHashLen = errors.New("invalid hash length")
	ErrInvalidIndex   = errors.New("invalid leaf index")
	ErrInvalidSize    = errors.New("invalid tree size")
)

// BalanceLeaf hashes a single balance into its leaf digest.
func BalanceLeaf(balance uint64) [32]byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], balance)
	return hashutil.Sha256(buf[:])
}

// NodeHash combines two child digests into their parent digest.
func NodeHash(left, right []byte) []byte {
	sum := hashutil.Sha256(bytes.Join([][]byte{{0x01}, left, right}, nil))
	return sum[:]
}

// Tree is an immutable balance tree. Build it once with NewTree; proofs
// and the root are derived on demand from the retained leaf level.
type Tree struct {
	leaves [][]byte
}

// NewTree hashes each balance into a leaf and returns the assembled tree.
func NewTree(balances []uint64) (*Tree, error) {
	if len(balances) == 0 {
		return nil, ErrEmptyTree
	}
	leaves := make([][]byte, len(balances))
	for i, b := range balances {
		leaf := BalanceLeaf(b)
		leaves[i] = leaf[:]
	}
	return &Tree{leaves: leaves}, nil
}

// NewTreeFromLeaves assembles a tree from precomputed leaf digests.
func NewTreeFromLeaves(leaves [][]byte) (*Tree, error) {
	cloned, err := cloneAndValidateLeaves(leaves)
	if err != nil {
		return nil, err
	}
	return &Tree{leaves: cloned}, nil
}

func (t *Tree) Size() int {
	return len(t.leaves)
}

func (t *Tree) Root() ([32]byte, error) {
	root, err := merkleTreeHash(t.leaves)
	if err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[:], root)
	return out, nil
}

// InclusionProof returns the sibling path for the leaf at the given index,
// ordered from the leaf level upward.
func (t *Tree) InclusionProof(leafIndex int) ([][32]byte, error) {
	if leafIndex < 0 || leafIndex >= len(t.leaves) {
		return nil, ErrInvalidIndex
	}
	path := make([][]byte, 0)
	if err := inclusionProof(t.leaves, leafIndex, &path); err != nil {
		return nil, err
	}
	out := make([][32]byte, len(path))
	for i, p := range path {
		copy(out[i][:], p)
	}
	return out, nil
}

// VerifyInclusion recomputes the root from a leaf digest and its sibling
// path and compares it against the expected root. The tree size must be
// supplied by the caller; it cannot be recovered from the path length for
// non-power-of-two trees.
func VerifyInclusion(leafHash [32]byte, leafIndex, treeSize int, path [][32]byte, expectedRoot [32]byte) (bool, error) {
	if treeSize <= 0 {
		return false, ErrInvalidSize
	}
	if leafIndex < 0 || leafIndex >= treeSize {
		return false, ErrInvalidIndex
	}
	rawPath := make([][]byte, len(path))
	for i := range path {
		rawPath[i] = path[i][:]
	}
	hash, used, err := inclusionRootFromPath(leafHash[:], leafIndex, treeSize, rawPath)
	if err != nil {
		return false, err
	}
	if used != len(path) {
		return false, ErrInvalidSize
	}
	return bytes.Equal(hash, expectedRoot[:]), nil
}

// VerifyBalanceInclusion is VerifyInclusion with the leaf derived from a
// raw balance.
func VerifyBalanceInclusion(balance uint64, leafIndex, treeSize int, path [][32]byte, expectedRoot [32]byte) (bool, error) {
	return VerifyInclusion(BalanceLeaf(balance), leafIndex, treeSize, path, expectedRoot)
}

func merkleTreeHash(leaves [][]byte) ([]byte, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	if len(leaves) == 1 {
		return cloneHash(leaves[0]), nil
	}
	k := largestPowerOfTwoLessThan(len(leaves))
	left, err := merkleTreeHash(leaves[:k])
	if err != nil {
		return nil, err
	}
	right, err := merkleTreeHash(leaves[k:])
	if err != nil {
		return nil, err
	}
	return NodeHash(left, right), nil
}

func inclusionProof(leaves [][]byte, leafIndex int, path *[][]byte) error {
	if len(leaves) == 1 {
		return nil
	}
	k := largestPowerOfTwoLessThan(len(leaves))
	if leafIndex < k {
		if err := inclusionProof(leaves[:k], leafIndex, path); err != nil {
			return err
		}
		rightRoot, err := merkleTreeHash(leaves[k:])
		if err != nil {
			return err
		}
		*path = append(*path, rightRoot)
		return nil
	}
	if err := inclusionProof(leaves[k:], leafIndex-k, path); err != nil {
		return err
	}
	leftRoot, err := merkleTreeHash(leaves[:k])
	if err != nil {
		return err
	}
	*path = append(*path, leftRoot)
	return nil
}

func inclusionRootFromPath(leafHash []byte, leafIndex int, treeSize int, path [][]byte) ([]byte, int, error) {
	if treeSize <= 0 {
		return nil, 0, ErrInvalidSize
	}
	if treeSize == 1 {
		if leafIndex != 0 {
			return nil, 0, ErrInvalidIndex
		}
		return cloneHash(leafHash), 0, nil
	}
	k := largestPowerOfTwoLessThan(treeSize)
	if leafIndex < k {
		leftRoot, used, err := inclusionRootFromPath(leafHash, leafIndex, k, path)
		if err != nil {
			return nil, 0, err
		}
		if used >= len(path) {
			return nil, 0, ErrInvalidSize
		}
		return NodeHash(leftRoot, path[used]), used + 1, nil
	}
	rightRoot, used, err := inclusionRootFromPath(leafHash, leafIndex-k, treeSize-k, path)
	if err != nil {
		return nil, 0, err
	}
	if used >= len(path) {
		return nil, 0, ErrInvalidSize
	}
	return NodeHash(path[used], rightRoot), used + 1, nil
}

func cloneAndValidateLeaves(leaves [][]byte) ([][]byte, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	out := make([][]byte, len(leaves))
	for i, leaf := range leaves {
		if len(leaf) != HashSize {
			return nil, fmt.Errorf("leaf %d: %w", i, ErrInvalidHashLen)
		}
		out[i] = cloneHash(leaf)
	}
	return out, nil
}

func cloneHash(hash []byte) []byte {
	out := make([]byte, len(hash))
	copy(out, hash)
	return out
}

func largestPowerOfTwoLessThan(value int) int {
	power := 1
	for power<<1 < value {
		power <<= 1
	}
	return power
}
