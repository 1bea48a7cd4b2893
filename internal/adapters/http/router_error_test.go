package httpadapter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

func submitWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	handler := newTestRouter(nil, &submitterFake{err: err}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/files/f-1/process", nil)
	req.Header.Set(ownerHeader, "owner-1")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "missing file",
			err:  domain.WrapError(domain.ErrNotFound, "get file", errBoom),
			want: http.StatusNotFound,
		},
		{
			name: "unsupported type",
			err:  domain.WrapError(domain.ErrUnsupportedType, "route", errBoom),
			want: http.StatusBadRequest,
		},
		{
			name: "too large",
			err:  domain.WrapError(domain.ErrFileTooLarge, "route", errBoom),
			want: http.StatusBadRequest,
		},
		{
			name: "already processing",
			err:  domain.WrapError(domain.ErrAlreadyProcessing, "submit", errBoom),
			want: http.StatusBadRequest,
		},
		{
			name: "unreadable content",
			err:  domain.WrapError(domain.ErrDocxUnreadable, "extract docx", errBoom),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "unexpected failure",
			err:  errBoom,
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := submitWithError(t, tt.err)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.want, rec.Body.String())
			}

			var payload map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if payload["status"] != "error" {
				t.Fatalf("expected error envelope, got %v", payload)
			}
		})
	}
}

func TestInternalErrorMessageIsOpaque(t *testing.T) {
	rec := submitWithError(t, errBoom)

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload["message"] != "internal server error" {
		t.Fatalf("internal details must not leak, got %q", payload["message"])
	}
}

func TestUploadRateLimit(t *testing.T) {
	ingest := &ingestorFake{file: &domain.StoredFile{ID: "f-1"}}
	handler := NewRouter(ingest, &submitterFake{}, &readerFake{}, &inspectorFake{}, 10*1024*1024, 1).Handler()

	send := func() int {
		body, contentType := multipartBody(t, "notes.txt", "hello")
		req := httptest.NewRequest(http.MethodPost, "/v1/files", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(ownerHeader, "owner-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(); code != http.StatusCreated {
		t.Fatalf("first upload status = %d, want 201", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second upload status = %d, want 429", code)
	}
}
