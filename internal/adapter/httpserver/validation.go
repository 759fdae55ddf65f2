package httpserver

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New(validator.WithRequiredStructEnabled()) })
	return vld
}

// validationDetails flattens validator errors into field -> tag.
func validationDetails(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			out[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return out
}

type listQuery struct {
	Limit  int `validate:"min=0,max=500"`
	Offset int `validate:"min=0"`
}

// parseListQuery reads limit and offset; absent values are zero.
func parseListQuery(q url.Values) (listQuery, map[string]string, error) {
	var lq listQuery
	for _, f := range []struct {
		name string
		dst  *int
	}{{"limit", &lq.Limit}, {"offset", &lq.Offset}} {
		raw := strings.TrimSpace(q.Get(f.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return lq, map[string]string{f.name: "numeric"}, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidArgument, f.name)
		}
		*f.dst = n
	}
	if err := getValidator().Struct(lq); err != nil {
		return lq, validationDetails(err), fmt.Errorf("%w: invalid pagination", domain.ErrInvalidArgument)
	}
	return lq, nil, nil
}

type jobDescriptionRequest struct {
	Workspace string `json:"workspace" validate:"omitempty,max=64,printascii"`
	Text      string `json:"text" validate:"required,max=100000"`
}

// workspace names are free-form but bounded.
func validWorkspace(ws string) bool {
	return getValidator().Var(ws, "omitempty,max=64,printascii") == nil
}

var allowedExts = map[string]bool{".txt": true, ".pdf": true, ".docx": true}

// allowedExt enforces the upload allowlist: .txt, .pdf, .docx.
func allowedExt(name string) bool {
	return allowedExts[strings.ToLower(filepath.Ext(name))]
}

// allowedMIMEFor checks a sniffed content type against the file extension.
// DOCX sniffs as a zip container for some producers.
func allowedMIMEFor(m, filename string) bool {
	m = strings.ToLower(m)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return strings.HasPrefix(m, "text/")
	case ".pdf":
		return m == "application/pdf"
	case ".docx":
		return m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" || m == "application/zip"
	}
	return false
}
