package api

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Form is a multipart/form-data payload for resources that accept file
// uploads. Passing a *Form to a mutating verb makes the client use the
// writer's boundary content type instead of application/json.
type Form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	closed bool
	err    error
}

func NewForm() *Form {
	f := &Form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *Form) Field(name, value string) *Form {
	if f.err == nil {
		f.err = f.writer.WriteField(name, value)
	}
	return f
}

func (f *Form) File(name, filename string, r io.Reader) *Form {
	if f.err != nil {
		return f
	}
	part, err := f.writer.CreateFormFile(name, filename)
	if err != nil {
		f.err = err
		return f
	}
	_, f.err = io.Copy(part, r)
	return f
}

func (f *Form) encode() (contentType string, body []byte, err error) {
	if f.err != nil {
		return "", nil, f.err
	}
	if !f.closed {
		if err := f.writer.Close(); err != nil {
			return "", nil, err
		}
		f.closed = true
	}
	return f.writer.FormDataContentType(), f.buf.Bytes(), nil
}
