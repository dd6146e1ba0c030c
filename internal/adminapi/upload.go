package adminapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/gabriel-vasile/mimetype"
)

// File is one part of a multipart upload.
type File struct {
	Field    string
	Filename string
	Content  []byte
}

// ContentType sniffs the file content.
func (f File) ContentType() string {
	return mimetype.Detect(f.Content).String()
}

// Upload posts fields and files as multipart/form-data. Responses follow the
// admin success convention.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, files []File) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to build upload")
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		h.Set("Content-Type", f.ContentType())
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to build upload")
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to build upload")
		}
	}
	if err := w.Close(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to build upload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), &buf)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to create request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.do(req, path, ConventionSuccess)
}

// IsImage reports whether content sniffs as an image.
func IsImage(content []byte) bool {
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("image/jpeg") || m.Is("image/png") || m.Is("image/webp") || m.Is("image/gif") || m.Is("image/heic") {
			return true
		}
	}
	return false
}

// IsGPX reports whether content sniffs as a GPX or generic XML document.
func IsGPX(content []byte) bool {
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("application/gpx+xml") || m.Is("text/xml") {
			return true
		}
	}
	return false
}
