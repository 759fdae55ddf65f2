// Package export renders stored evaluations as JSON, CSV or XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// CSVColumns is the CSV header, in order.
var CSVColumns = []string{"candidate_name", "overall_score", "tag", "explanation", "feedback"}

// ParseFormat accepts json, csv or xlsx in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("op=export.ParseFormat: %w: unknown format %q", domain.ErrInvalidArgument, s)
}

// ContentType returns the HTTP media type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// FileName returns a download name stamped with at.
func (f Format) FileName(at time.Time) string {
	return "evaluations-" + at.UTC().Format("20060102-150405") + "." + string(f)
}

// Row is one exported evaluation.
type Row struct {
	Rank             int       `json:"rank"`
	CandidateName    string    `json:"candidate_name"`
	ResumeFilename   string    `json:"resume_filename,omitempty"`
	OverallScore     int       `json:"overall_score"`
	QualificationTag string    `json:"tag"`
	Explanation      string    `json:"explanation"`
	Feedback         string    `json:"feedback"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
}

// Rows projects evals in their given (ranked) order.
func Rows(evals []domain.StoredEvaluation) []Row {
	out := make([]Row, 0, len(evals))
	for i, e := range evals {
		out = append(out, Row{
			Rank:             i + 1,
			CandidateName:    e.CandidateName,
			ResumeFilename:   e.ResumeFilename,
			OverallScore:     e.OverallScore,
			QualificationTag: e.QualificationTag,
			Explanation:      e.Explanation,
			Feedback:         e.Feedback,
			EvaluatedAt:      e.EvaluatedAt,
		})
	}
	return out
}

// Write encodes evals to w in format f.
func Write(w io.Writer, f Format, evals []domain.StoredEvaluation, stats domain.Stats) error {
	var err error
	switch f {
	case FormatJSON:
		err = writeJSON(w, evals, stats)
	case FormatCSV:
		err = writeCSV(w, evals)
	case FormatXLSX:
		err = writeXLSX(w, evals, stats)
	default:
		return fmt.Errorf("op=export.Write: %w: unknown format %q", domain.ErrInvalidArgument, f)
	}
	if err != nil {
		return fmt.Errorf("op=export.Write: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, evals []domain.StoredEvaluation, stats domain.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Stats       domain.Stats `json:"stats"`
		Evaluations []Row        `json:"evaluations"`
	}{stats, Rows(evals)})
}

func writeCSV(w io.Writer, evals []domain.StoredEvaluation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return err
	}
	for _, e := range evals {
		if err := cw.Write([]string{e.CandidateName, strconv.Itoa(e.OverallScore), e.QualificationTag, e.Explanation, e.Feedback}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
