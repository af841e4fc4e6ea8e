package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	guestNamespace = "guests"
	userNamespace  = "users"
)

// StorageNamespace returns the object-key prefix for a user's uploads:
// "guests/<sha256>" for guest identities and "users/<sha256>" otherwise.
// Guest uploads share a prefix so a storage lifecycle rule can expire them.
func StorageNamespace(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	ns := userNamespace
	if strings.HasPrefix(userID, "guest:") {
		ns = guestNamespace
	}
	return ns + "/" + hex.EncodeToString(sum[:])
}
