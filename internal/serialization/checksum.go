package serialization

import (
	"crypto/sha256"
	"encoding/hex"
)

// Checksum returns the hex SHA-256 checksum of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ValidateChecksum compares the checksum of data against stored.
// An empty stored checksum is accepted.
func ValidateChecksum(data []byte, stored string) error {
	if stored != "" && Checksum(data) != stored {
		return ErrChecksumMismatch
	}
	return nil
}
