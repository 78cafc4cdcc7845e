// Package checksum produces xxhash fingerprints used to detect documents
// and trade rows that have already been ingested.
package checksum

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// OfFile hashes the full content of the document at path.
func OfFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to hash content of file %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// OfParts hashes an ordered sequence of row fields. A separator byte is
// written between parts so that ("ab","c") and ("a","bc") differ.
func OfParts(parts ...string) string {
	hasher := xxhash.New()
	for _, part := range parts {
		hasher.Write([]byte(part))
		hasher.Write([]byte{0x1f})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
