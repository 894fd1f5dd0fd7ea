package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/gin-gonic/gin"
)

// Anonymizer turns client IPs into salted hashes so logs and rate limits
// never hold a raw address. The hash is stable for the life of the
// process only.
type Anonymizer struct {
	salt string
}

// NewAnonymizer uses salt, or a random one when salt is empty.
func NewAnonymizer(salt string) (*Anonymizer, error) {
	if salt == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate hashing salt: %w", err)
		}
		salt = hex.EncodeToString(b)
	}
	return &Anonymizer{salt: salt}, nil
}

// Hash returns a short, consistent hash of ip.
func (a *Anonymizer) Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// doNotTrack reports whether the visitor asked not to be tracked.
func doNotTrack(c *gin.Context) bool {
	return c.GetHeader("DNT") == "1"
}
