package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "eventreg/pkg/domain-errors"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("internal error omits cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(errors.New("pq: relation missing"), dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		body := decodeBody(t, w)
		if body["success"] != false {
			t.Fatalf("expected success=false, got %v", body["success"])
		}
		if body["message"] != "Internal Server Error" {
			t.Fatalf("expected generic message, got %q", body["message"])
		}
		if _, ok := body["data"]; ok {
			t.Fatalf("expected data to be omitted on errors")
		}
	})

	t.Run("foreign error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})

	t.Run("forbidden carries message only", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeForbidden, "you are not allowed to see this"))

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
		}
		body := decodeBody(t, w)
		if body["message"] != "you are not allowed to see this" {
			t.Fatalf("unexpected message %q", body["message"])
		}
		if _, ok := body["errors"]; ok {
			t.Fatalf("expected errors to be omitted for forbidden")
		}
	})

	t.Run("validation error includes fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		fields := dErrors.FieldErrors{}
		fields.Add("attended", "attended must be a boolean")
		WriteError(w, dErrors.Validation("invalid attendance", fields))

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
		}
		body := decodeBody(t, w)
		errs, ok := body["errors"].(map[string]any)
		if !ok {
			t.Fatalf("expected errors object, got %v", body["errors"])
		}
		if _, ok := errs["attended"]; !ok {
			t.Fatalf("expected errors.attended")
		}
	})
}

func TestWriteData(t *testing.T) {
	w := httptest.NewRecorder()
	WriteData(w, http.StatusOK, map[string]int{"id": 7})

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("expected success=true")
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["id"] != float64(7) {
		t.Fatalf("unexpected data %v", body["data"])
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("drops unknown fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"name":"x","status":"published"}`))
		var dst struct {
			Name string `json:"name"`
		}
		if err := DecodeJSON(r, &dst); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dst.Name != "x" {
			t.Fatalf("expected name to decode")
		}
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"name":`))
		var dst map[string]any
		err := DecodeJSON(r, &dst)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad request, got %v", err)
		}
	})

	t.Run("empty body is a bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(""))
		var dst map[string]any
		if err := DecodeJSON(r, &dst); !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad request, got %v", err)
		}
	})
}

func TestReadBody(t *testing.T) {
	t.Run("returns the payload untouched", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"attended":`))
		raw, err := ReadBody(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(raw) != `{"attended":` {
			t.Fatalf("unexpected body %q", raw)
		}
	})

	t.Run("bounded like DecodeJSON", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(strings.Repeat("a", maxBodyBytes+10)))
		raw, err := ReadBody(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(raw) != maxBodyBytes {
			t.Fatalf("expected %d bytes, got %d", maxBodyBytes, len(raw))
		}
	})
}
