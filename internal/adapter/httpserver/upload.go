package httpserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	"github.com/fairyhunter13/ai-resume-screener/internal/usecase"
)

const multipartMemory = 32 << 20

// ScreeningHandler accepts a multipart batch: job_desc (file), resumes
// (files), workspace and retain_job_desc. Files that fail the upload checks
// are reported per file and the rest of the batch still runs.
func (s *Server) ScreeningHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		perFile := s.Cfg.MaxUploadBytes()
		r.Body = http.MaxBytesReader(w, r.Body, perFile*int64(s.Cfg.MaxResumesPerBatch+1))
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "payload too large", Details: map[string]any{"max_mb_per_file": s.Cfg.MaxUploadMB}}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		workspace := strings.TrimSpace(r.FormValue("workspace"))
		if !validWorkspace(workspace) {
			writeError(w, r, fmt.Errorf("%w: invalid workspace", domain.ErrInvalidArgument), map[string]string{"field": "workspace"})
			return
		}
		retain := false
		if raw := strings.TrimSpace(r.FormValue("retain_job_desc")); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: retain_job_desc must be a boolean", domain.ErrInvalidArgument), map[string]string{"field": "retain_job_desc"})
				return
			}
			retain = b
		}
		resumeFiles := r.MultipartForm.File["resumes"]
		if len(resumeFiles) == 0 {
			writeError(w, r, fmt.Errorf("%w: at least one resume is required", domain.ErrInvalidArgument), map[string]string{"field": "resumes"})
			return
		}
		if len(resumeFiles) > s.Cfg.MaxResumesPerBatch {
			writeError(w, r, fmt.Errorf("%w: at most %d resumes per batch", domain.ErrInvalidArgument, s.Cfg.MaxResumesPerBatch), map[string]any{"field": "resumes", "count": len(resumeFiles)})
			return
		}

		dir, err := os.MkdirTemp("", "screening-*")
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.screening: %w", err), nil)
			return
		}
		defer func() { _ = os.RemoveAll(dir) }()

		batch := usecase.Batch{Workspace: workspace, RetainJobDescription: retain}
		if jd := r.MultipartForm.File["job_desc"]; len(jd) > 0 {
			doc, err := stageUpload(dir, "job", jd[0], perFile)
			if err != nil {
				writeError(w, r, fmt.Errorf("job_desc: %w", err), map[string]string{"field": "job_desc", "filename": jd[0].Filename})
				return
			}
			batch.Job = &doc
		}
		for i, fh := range resumeFiles {
			doc, err := stageUpload(dir, fmt.Sprintf("resume-%03d", i), fh, perFile)
			if err != nil {
				batch.Rejected = append(batch.Rejected, domain.FileError{Filename: filepath.Base(fh.Filename), Stage: "upload", Message: err.Error()})
				continue
			}
			batch.Resumes = append(batch.Resumes, doc)
		}
		if len(batch.Resumes) == 0 {
			writeError(w, r, fmt.Errorf("%w: no acceptable resumes", domain.ErrUnsupportedFormat), batch.Rejected)
			return
		}

		if !s.allowQuota(w, r, workspace, len(batch.Resumes)) {
			return
		}

		rep, err := s.Screening.Run(r.Context(), batch)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// allowQuota charges n resumes to the workspace bucket. Limiter errors fail open.
func (s *Server) allowQuota(w http.ResponseWriter, r *http.Request, workspace string, n int) bool {
	if s.Quota == nil {
		return true
	}
	if workspace == "" {
		workspace = "default"
	}
	ok, retryAfter, err := s.Quota.Allow(r.Context(), "workspace:"+strings.ToLower(workspace), int64(n))
	if err != nil {
		LoggerFrom(r).Warn("quota check failed; allowing batch", slog.Any("error", err))
	}
	if ok {
		return true
	}
	if secs := int(retryAfter.Seconds() + 0.999); secs > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	writeError(w, r, fmt.Errorf("%w: resume quota exceeded for workspace %q", domain.ErrRateLimited, workspace), map[string]any{"retry_after_seconds": retryAfter.Seconds()})
	return false
}

// stageUpload checks one uploaded file and copies it into dir.
func stageUpload(dir, stem string, fh *multipart.FileHeader, maxBytes int64) (usecase.Document, error) {
	name := filepath.Base(fh.Filename)
	if fh.Size > maxBytes {
		return usecase.Document{}, fmt.Errorf("%w: %s exceeds %d MB", domain.ErrInvalidArgument, name, maxBytes>>20)
	}
	if !allowedExt(name) {
		return usecase.Document{}, fmt.Errorf("%w: %s: only .pdf, .docx and .txt are accepted", domain.ErrUnsupportedFormat, name)
	}
	src, err := fh.Open()
	if err != nil {
		return usecase.Document{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArgument, name, err)
	}
	defer func() { _ = src.Close() }()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return usecase.Document{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArgument, name, err)
	}
	if !allowedMIMEFor(mt.String(), name) {
		return usecase.Document{}, fmt.Errorf("%w: %s content is %s", domain.ErrUnsupportedFormat, name, mt.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return usecase.Document{}, fmt.Errorf("op=httpserver.stage_upload: %w", err)
	}

	path := filepath.Join(dir, stem+strings.ToLower(filepath.Ext(name)))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return usecase.Document{}, fmt.Errorf("op=httpserver.stage_upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return usecase.Document{}, fmt.Errorf("op=httpserver.stage_upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return usecase.Document{}, fmt.Errorf("op=httpserver.stage_upload: %w", err)
	}
	return usecase.Document{Filename: name, Path: path}, nil
}
