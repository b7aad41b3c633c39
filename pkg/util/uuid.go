// Package util holds small helpers shared by the CLI and core packages.
package util

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/google/uuid"
)

// Md5ThenHex hashes value with MD5 and returns the lowercase hex digest.
// Used to derive a stable, short cache key from a file's raw header bytes.
func Md5ThenHex(value []byte) string {
	hasher := md5.New()
	hasher.Write(value)
	return hex.EncodeToString(hasher.Sum(nil))
}

// NewCorrelationID mints a random UUID. The ctlio commands tag their log
// lines with HashCorrelationID instead.
func NewCorrelationID() string {
	return uuid.NewString()
}

// HashCorrelationID derives a deterministic UUID from arbitrary header
// bytes, so the same input file always logs under the same correlation ID
// across repeated runs (useful when diffing two invocations of the CLI
// against the same fixture).
func HashCorrelationID(headerBytes []byte) string {
	hasher := md5.New()
	hasher.Write(headerBytes)
	sum := hasher.Sum(nil)
	id, err := uuid.FromBytes(sum[:16])
	if err != nil {
		return ""
	}
	return id.String()
}
