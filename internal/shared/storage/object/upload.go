package object

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"mietrecht-backend/internal/shared/util"
)

const (
	sniffLen = 512
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Upload is a user file ready to be written by a store: the key is fixed,
// the content type sniffed, and Body replays the sniffed prefix.
type Upload struct {
	Key      string
	MimeType string
	Body     io.Reader
	size     int64
}

// Size reports the bytes read from Body so far; after a full copy it is
// the object size.
func (u *Upload) Size() int64 { return u.size }

func (u *Upload) Read(p []byte) (int, error) {
	n, err := u.Body.Read(p)
	u.size += int64(n)
	return n, err
}

// PrepareUpload names the object under the owner's namespace and sniffs
// its content type. Unsafe file names are rejected.
func PrepareUpload(ownerID, fileName string, r io.Reader) (*Upload, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return nil, fmt.Errorf("sanitize file name: %w", err)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	return &Upload{
		Key:      path.Join(util.StorageNamespace(ownerID), uuid.NewString()+"_"+name),
		MimeType: detectMime(head, name),
		Body:     io.MultiReader(bytes.NewReader(head), r),
	}, nil
}

// detectMime refines net/http sniffing for Word files, which sniff as zip.
func detectMime(head []byte, name string) string {
	mime := http.DetectContentType(head)
	if mime == "application/zip" && strings.HasSuffix(strings.ToLower(name), ".docx") {
		return mimeDOCX
	}
	return mime
}
