package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/testgest/internal/matrix"
	"github.com/dgallion1/testgest/internal/model"
	"github.com/dgallion1/testgest/internal/parser"
	"github.com/dgallion1/testgest/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// uploadError carries the HTTP status for a rejected upload.
type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

// readUpload reads one multipart file field. A missing field yields a nil
// slice and no error.
func (s *Server) readUpload(r *http.Request, field string, supported func(string) bool) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, &uploadError{http.StatusBadRequest, fmt.Sprintf("%s: %v", field, err)}
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !supported(filename) {
		return "", nil, &uploadError{http.StatusBadRequest, fmt.Sprintf("%s: unsupported file type: %s", field, filepath.Ext(filename))}
	}
	data, err := readLimited(file, s.cfg.MaxUploadBytes)
	if err != nil {
		return "", nil, err
	}
	return filename, data, nil
}

func readLimited(file multipart.File, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, &uploadError{http.StatusInternalServerError, "failed to read file"}
	}
	if int64(len(data)) > limit {
		return nil, &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds max size (%d bytes)", limit)}
	}
	return data, nil
}

// parseForm limits the body to two uploads plus form overhead.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeUploadError(w http.ResponseWriter, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		jsonError(w, ue.msg, ue.status)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	specName, spec, err := s.readUpload(r, "spec", parser.IsSupportedExtension)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	matrixName, mat, err := s.readUpload(r, "matrix", matrix.IsSupportedExtension)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	if spec == nil {
		jsonError(w, (&model.MissingInputError{Kind: "document"}).Error(), http.StatusBadRequest)
		return
	}
	if mat == nil {
		jsonError(w, (&model.MissingInputError{Kind: "matrix"}).Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(pipeline.Input{
		SpecName:   specName,
		Spec:       spec,
		MatrixName: matrixName,
		Matrix:     mat,
	})
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("job submitted", "job_id", job.ID, "spec", specName, "matrix", matrixName)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":     job.ID,
		"status":     pipeline.StatusQueued,
		"poll_url":   fmt.Sprintf("/api/jobs/%s/status", job.ID),
		"result_url": fmt.Sprintf("/api/jobs/%s/result", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	name, data, ok := job.Result()
	if !ok {
		jsonError(w, fmt.Sprintf("job is %s, no result available", job.Snapshot().Status), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// parseResponse is the synchronous extraction report.
type parseResponse struct {
	*pipeline.Extraction
	SkippedPages []int `json:"skipped_pages"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	specName, spec, err := s.readUpload(r, "spec", parser.IsSupportedExtension)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	matrixName, mat, err := s.readUpload(r, "matrix", matrix.IsSupportedExtension)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	if spec == nil {
		jsonError(w, (&model.MissingInputError{Kind: "document"}).Error(), http.StatusBadRequest)
		return
	}

	e, err := pipeline.ParseSpec(specName, spec, s.parserOptions())
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if mat != nil {
		if err := pipeline.LoadMatrix(e, matrixName, mat); err != nil {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	writeJSON(w, http.StatusOK, parseResponse{Extraction: e, SkippedPages: e.SkippedPages()})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
