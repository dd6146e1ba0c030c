package adminapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
)

// Response is a validated backend answer.
type Response struct {
	StatusCode int
	body       []byte
	fields     map[string]json.RawMessage
}

func newResponse(status int, body []byte) *Response {
	r := &Response{StatusCode: status, body: body}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err == nil {
			r.fields = fields
		}
	}
	return r
}

// Body returns the raw response bytes.
func (r *Response) Body() []byte {
	return r.body
}

// Has reports whether the top-level object carries field.
func (r *Response) Has(field string) bool {
	_, ok := r.fields[field]
	return ok
}

// Decode unmarshals one top-level field into dst.
func (r *Response) Decode(field string, dst interface{}) error {
	raw, ok := r.fields[field]
	if !ok {
		return apperrors.New(apperrors.ServerError, "unexpected backend response", fmt.Sprintf("missing field %q", field))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.Wrap(err, apperrors.ServerError, fmt.Sprintf("failed to decode %q", field))
	}
	return nil
}

// DecodeAll unmarshals the whole body into dst.
func (r *Response) DecodeAll(dst interface{}) error {
	if err := json.Unmarshal(r.body, dst); err != nil {
		return apperrors.Wrap(err, apperrors.ServerError, "failed to decode response")
	}
	return nil
}

// String returns a top-level string field, or "" when absent or not a string.
func (r *Response) String(field string) string {
	raw, ok := r.fields[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (r *Response) check(convention Convention) error {
	failedHTTP := r.StatusCode >= http.StatusBadRequest

	switch convention {
	case ConventionSuccess:
		if raw, ok := r.fields["success"]; ok {
			var success bool
			if err := json.Unmarshal(raw, &success); err == nil && !success {
				return apperrors.Upstream(r.message("error", "message"), r.StatusCode)
			}
		}
		if failedHTTP {
			return apperrors.Upstream(r.message("error", "message"), r.StatusCode)
		}
	case ConventionStatus:
		if r.String("status") == "error" || failedHTTP {
			return apperrors.Upstream(r.message("message", "error"), r.StatusCode)
		}
	default:
		if failedHTTP {
			return apperrors.Upstream(r.message("error", "message"), r.StatusCode)
		}
		return nil
	}

	if r.fields == nil {
		return apperrors.New(apperrors.ServerError, "unexpected backend response", "body is not a JSON object")
	}
	return nil
}

// message returns the first non-empty string among the candidate fields.
func (r *Response) message(candidates ...string) string {
	for _, field := range candidates {
		if s := r.String(field); s != "" {
			return s
		}
	}
	return ""
}
