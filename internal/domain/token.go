package domain

import (
	"crypto/rand"
	"encoding/hex"
)

// NewPickupToken mints a single-use pickup credential. 16 bytes of
// crypto randomness makes system-wide collisions negligible; tokens
// are never reused across orders and never regenerated after issue.
func NewPickupToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("pickup token entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
