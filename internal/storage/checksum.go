package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ChecksumPrefix is the prefix for SHA-256 checksums.
const ChecksumPrefix = "sha256:"

// Checksum represents a hex-encoded SHA-256 hash with the "sha256:" prefix.
type Checksum string

var (
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrInvalidChecksum  = errors.New("invalid checksum format")
)

// ComputeChecksum computes SHA-256 over a byte slice.
func ComputeChecksum(data []byte) Checksum {
	sum := sha256.Sum256(data)
	return Checksum(ChecksumPrefix + hex.EncodeToString(sum[:]))
}

// Validate reports whether c is well formed: the prefix followed by 64 hex
// characters.
func (c Checksum) Validate() error {
	s := string(c)
	if !strings.HasPrefix(s, ChecksumPrefix) {
		return fmt.Errorf("%w: missing prefix %q", ErrInvalidChecksum, ChecksumPrefix)
	}
	hexStr := s[len(ChecksumPrefix):]
	if len(hexStr) != 2*sha256.Size {
		return fmt.Errorf("%w: expected %d hex chars, got %d", ErrInvalidChecksum, 2*sha256.Size, len(hexStr))
	}
	if _, err := hex.DecodeString(hexStr); err != nil {
		return fmt.Errorf("%w: invalid hex: %v", ErrInvalidChecksum, err)
	}
	return nil
}

// VerifyChecksum checks data against expected.
func VerifyChecksum(data []byte, expected Checksum) error {
	if err := expected.Validate(); err != nil {
		return err
	}
	if actual := ComputeChecksum(data); actual != expected {
		return fmt.Errorf("%w: expected %s got %s", ErrChecksumMismatch, expected, actual)
	}
	return nil
}
