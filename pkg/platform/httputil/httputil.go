// Package httputil writes the JSON envelope every endpoint shares:
//
//	{"success": true, "data": ...}
//	{"success": false, "message": "...", "errors": {"field": ["..."]}}
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "eventreg/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies read by DecodeJSON and ReadBody.
const maxBodyBytes = 1 << 20

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  dErrors.FieldErrors `json:"errors,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a success envelope around data.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, successEnvelope{Success: true, Data: data})
}

// WriteText writes a raw body, used for file exports.
func WriteText(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteError translates err into its status and error envelope. Internal and
// dependency failures never expose their cause.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		de = &dErrors.Error{Code: dErrors.CodeInternal}
	}
	status := dErrors.HTTPStatus(de.Code)

	message := de.Message
	if de.Code == dErrors.CodeInternal || message == "" {
		message = http.StatusText(status)
	}

	env := errorEnvelope{Success: false, Message: message}
	if de.Code == dErrors.CodeValidation {
		env.Errors = de.Fields
	}
	WriteJSON(w, status, env)
}

// DecodeJSON decodes the request body into dst. Unknown fields are accepted and
// dropped; callers whitelist by shaping dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "request body is not valid JSON")
	}
	return nil
}

// ReadBody returns the raw request body, bounded like DecodeJSON. Callers
// that must check access before judging the payload parse it themselves.
func ReadBody(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read request body")
	}
	return raw, nil
}
