package utils

import (
	"crypto/rand"
	"encoding/base32"
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// base32 without padding, the alphabet authenticator apps expect.
var b32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)

// Base32Encode encodes bytes to unpadded base32.
func Base32Encode(data []byte) string {
	return b32NoPad.EncodeToString(data)
}

// Base32Decode decodes unpadded base32 to bytes.
func Base32Decode(encoded string) ([]byte, error) {
	return b32NoPad.DecodeString(encoded)
}
