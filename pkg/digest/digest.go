// Package digest fingerprints line sequences: a multihash content id over the
// joined text and a Merkle root over the individual lines.
package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cbergoon/merkletree"
	"github.com/multiformats/go-multihash"
)

// Supported hash algorithms for content ids.
const (
	AlgoSHA256 = "sha256"
	AlgoBlake3 = "blake3"
)

// ContentID computes a base58 multihash over lines joined with "\n".
func ContentID(lines []string, algo string) (string, error) {
	var hashType uint64

	switch algo {
	case AlgoSHA256, "":
		hashType = multihash.SHA2_256
	case AlgoBlake3:
		hashType = multihash.BLAKE3
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}

	mh, err := multihash.Sum([]byte(strings.Join(lines, "\n")), hashType, -1)
	if err != nil {
		return "", fmt.Errorf("failed to compute multihash: %w", err)
	}

	return mh.B58String(), nil
}

// Line is a merkletree.Content holding one line and its position, so equal
// lines at different positions hash differently.
type Line struct {
	Index int
	Text  string
}

// CalculateHash implements merkletree.Content.
func (l Line) CalculateHash() ([]byte, error) {
	h := sha256.New()
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], uint64(l.Index))
	if _, err := h.Write(idx[:]); err != nil {
		return nil, err
	}
	if _, err := h.Write([]byte(l.Text)); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// Equals implements merkletree.Content.
func (l Line) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(Line)
	if !ok {
		return false, fmt.Errorf("type mismatch")
	}
	return l.Index == o.Index && l.Text == o.Text, nil
}

// BuildTree builds a Merkle tree over lines.
func BuildTree(lines []string) (*merkletree.MerkleTree, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("cannot build tree from empty line list")
	}

	contents := make([]merkletree.Content, 0, len(lines))
	for i, text := range lines {
		contents = append(contents, Line{Index: i, Text: text})
	}

	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to build Merkle tree: %w", err)
	}

	return tree, nil
}

// Root returns the Merkle root over lines. An empty sequence has a nil root.
func Root(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	tree, err := BuildTree(lines)
	if err != nil {
		return nil, err
	}
	return tree.MerkleRoot(), nil
}

// SameLines reports whether two line sequences have equal Merkle roots.
func SameLines(a, b []string) (bool, error) {
	ra, err := Root(a)
	if err != nil {
		return false, err
	}
	rb, err := Root(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ra, rb), nil
}

// VerifyLine checks that line sits at index in tree.
func VerifyLine(tree *merkletree.MerkleTree, index int, line string) (bool, error) {
	if tree == nil {
		return false, fmt.Errorf("cannot verify content in nil tree")
	}

	verified, err := tree.VerifyContent(Line{Index: index, Text: line})
	if err != nil {
		return false, fmt.Errorf("failed to verify content: %w", err)
	}

	return verified, nil
}
