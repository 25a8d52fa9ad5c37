// ABOUTME: Multipart form builder for uploads to the backend
// ABOUTME: Fields and files are written in insertion order

package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/2389/confadmin/internal/content"
)

type formFile struct {
	field  string
	upload *content.Upload
}

type formPart struct {
	name  string
	value string
	file  *formFile
}

// Form is a multipart/form-data body.
type Form struct {
	parts []formPart
	err   error
}

// NewForm creates an empty form.
func NewForm() *Form {
	return &Form{}
}

// Field adds a text field.
func (f *Form) Field(name, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// FieldIf adds a text field only when value is non-empty.
func (f *Form) FieldIf(name, value string) *Form {
	if value == "" {
		return f
	}
	return f.Field(name, value)
}

// Int adds an integer field.
func (f *Form) Int(name string, v int) *Form {
	return f.Field(name, strconv.Itoa(v))
}

// Bool adds a boolean field as "true"/"false".
func (f *Form) Bool(name string, v bool) *Form {
	return f.Field(name, strconv.FormatBool(v))
}

// JSON adds a field holding v encoded as JSON.
func (f *Form) JSON(name string, v any) *Form {
	data, err := json.Marshal(v)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("encoding field %s: %w", name, err)
		return f
	}
	return f.Field(name, string(data))
}

// File adds a file part. A nil upload is skipped.
func (f *Form) File(field string, u *content.Upload) *Form {
	if u == nil {
		return f
	}
	f.parts = append(f.parts, formPart{file: &formFile{field: field, upload: u}})
	return f
}

// HasFiles reports whether any file part was added.
func (f *Form) HasFiles() bool {
	for _, p := range f.parts {
		if p.file != nil {
			return true
		}
	}
	return false
}

func (f *Form) encode() (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		if p.file == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", err
			}
			continue
		}

		u := p.file.upload
		filename := u.Filename
		if filename == "" {
			filename = p.file.field
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.file.field, filename))
		ct := u.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(u.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
