package util

import (
	"strings"
	"testing"
)

func TestStorageNamespaceSeparatesGuests(t *testing.T) {
	user := StorageNamespace("google:12345")
	if user != StorageNamespace("google:12345") {
		t.Fatalf("expected stable namespace, got %s", user)
	}
	if !strings.HasPrefix(user, "users/") {
		t.Fatalf("expected users/ prefix, got %s", user)
	}
	hash := strings.TrimPrefix(user, "users/")
	if len(hash) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(hash))
	}
	for _, ch := range hash {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}

	guest := StorageNamespace("guest:11111111-1111-1111-1111-111111111111")
	if !strings.HasPrefix(guest, "guests/") {
		t.Fatalf("expected guests/ prefix, got %s", guest)
	}
}
