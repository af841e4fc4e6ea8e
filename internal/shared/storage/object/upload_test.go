package object

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestPrepareUploadReplaysSniffedBytes(t *testing.T) {
	body := "%PDF-1.4\n" + strings.Repeat("Mietvertrag ", 100)
	up, err := PrepareUpload("user-1", "Vertrag.pdf", strings.NewReader(body))
	if err != nil {
		t.Fatalf("PrepareUpload: %v", err)
	}
	if up.MimeType != "application/pdf" {
		t.Fatalf("mime = %q", up.MimeType)
	}
	if !strings.HasPrefix(up.Key, "users/") || !strings.HasSuffix(up.Key, "_Vertrag.pdf") {
		t.Fatalf("key = %q", up.Key)
	}
	got, err := io.ReadAll(up)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != body || up.Size() != int64(len(body)) {
		t.Fatalf("body mismatch: size=%d", up.Size())
	}
}

func TestPrepareUploadRecognisesDocx(t *testing.T) {
	zipHeader := []byte("PK\x03\x04\x14\x00\x06\x00")
	up, err := PrepareUpload("guest:abc", "mietvertrag.DOCX", bytes.NewReader(zipHeader))
	if err != nil {
		t.Fatalf("PrepareUpload: %v", err)
	}
	if up.MimeType != mimeDOCX {
		t.Fatalf("mime = %q", up.MimeType)
	}
	if !strings.HasPrefix(up.Key, "guests/") {
		t.Fatalf("key = %q", up.Key)
	}
}

func TestPrepareUploadRejectsBadNames(t *testing.T) {
	if _, err := PrepareUpload("user-1", "../x.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error")
	}
}
