// ABOUTME: Pending image uploads held by drafts until the next save
// ABOUTME: Provides data-URL previews without touching the remote URL

package content

import (
	"encoding/base64"
	"net/http"
)

// Upload is a file the operator selected that has not been sent yet.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewUpload builds an Upload, sniffing the content type when none is given.
func NewUpload(filename, contentType string, data []byte) *Upload {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &Upload{Filename: filename, ContentType: contentType, Data: data}
}

// Clone returns a deep copy. A nil upload clones to nil.
func (u *Upload) Clone() *Upload {
	if u == nil {
		return nil
	}
	data := make([]byte, len(u.Data))
	copy(data, u.Data)
	return &Upload{Filename: u.Filename, ContentType: u.ContentType, Data: data}
}

// DataURL encodes the upload for inline preview.
func (u *Upload) DataURL() string {
	if u == nil {
		return ""
	}
	return "data:" + u.ContentType + ";base64," + base64.StdEncoding.EncodeToString(u.Data)
}

// Preview picks what an image slot should display: the pending upload if
// one is waiting, otherwise the remote URL.
func Preview(remoteURL string, pending *Upload) string {
	if pending != nil {
		return pending.DataURL()
	}
	return remoteURL
}
