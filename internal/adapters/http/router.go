package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/core/ports"
)

const ownerHeader = "X-Owner-Id"

type Router struct {
	ingestUC         ports.FileIngestor
	submitUC         ports.FileSubmitter
	readUC           ports.FileReader
	inspectUC        ports.InlineInspector
	maxBodySize      int64
	uploadsPerMinute int
}

func NewRouter(
	ingestUC ports.FileIngestor,
	submitUC ports.FileSubmitter,
	readUC ports.FileReader,
	inspectUC ports.InlineInspector,
	maxBodySize int64,
	uploadsPerMinute int,
) *Router {
	return &Router{
		ingestUC:         ingestUC,
		submitUC:         submitUC,
		readUC:           readUC,
		inspectUC:        inspectUC,
		maxBodySize:      maxBodySize,
		uploadsPerMinute: uploadsPerMinute,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/files", rateLimitMiddleware(rt.uploadsPerMinute, rt.uploadFile))
	mux.HandleFunc("/v1/files/", rt.fileSubresource)
	mux.HandleFunc("/v1/inspect", rateLimitMiddleware(rt.uploadsPerMinute, rt.inspect))
	return requestIDMiddleware(accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "doc-insight"})
}

func (rt *Router) uploadFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ownerID := strings.TrimSpace(r.Header.Get(ownerHeader))
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "header "+ownerHeader+" is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxBodySize)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	stored, err := rt.ingestUC.Upload(r.Context(), ownerID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// fileSubresource dispatches /v1/files/{id}, /v1/files/{id}/process,
// /v1/files/{id}/status and /v1/files/{id}/result.
func (rt *Router) fileSubresource(w http.ResponseWriter, r *http.Request) {
	ownerID := strings.TrimSpace(r.Header.Get(ownerHeader))
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "header "+ownerHeader+" is required")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/files/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "file id is required")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		file, err := rt.readUC.GetOwned(r.Context(), id, ownerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, file)

	case action == "process" && r.Method == http.MethodPost:
		handle, err := rt.submitUC.Submit(r.Context(), id, ownerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"status":  "processing",
			"task_id": handle.TaskID,
			"queue":   handle.Queue,
		})

	case action == "status" && r.Method == http.MethodGet:
		state, err := rt.readUC.State(r.Context(), id, ownerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)

	case action == "result" && r.Method == http.MethodGet:
		result, err := rt.readUC.LatestResult(r.Context(), id, ownerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// inspect is the synchronous variant: the whole pipeline runs in-request
// and nothing is persisted.
func (rt *Router) inspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxBodySize)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	report, err := rt.inspectUC.Inspect(r.Context(), fileHeader.Filename, content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": message})
}

// writeDomainError maps the error taxonomy to HTTP codes: bad input is 400
// (404 when the file is missing), unusable content is 422, everything else
// is an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsKind(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case domain.IsInputError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case domain.IsContentError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
