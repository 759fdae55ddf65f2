package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

const (
	rankedSheet  = "Ranked Candidates"
	summarySheet = "Summary"
)

var tagFill = map[string]string{
	domain.TagQualified:     "C6EFCE",
	domain.TagOverqualified: "FFEB9C",
	domain.TagNotQualified:  "FFC7CE",
}

func border() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func writeXLSX(w io.Writer, evals []domain.StoredEvaluation, stats domain.Stats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rankedSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	if err := rankedCandidates(f, evals); err != nil {
		return fmt.Errorf("ranked sheet: %w", err)
	}
	if err := summary(f, stats); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	_, err := f.WriteTo(w)
	return err
}

func rankedCandidates(f *excelize.File, evals []domain.StoredEvaluation) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
	if err != nil {
		return err
	}
	rowStyles := map[string]int{}
	for tag, color := range tagFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
			Border:    border(),
		})
		if err != nil {
			return err
		}
		rowStyles[tag] = id
	}

	widths := map[string]float64{"A": 8, "B": 25, "C": 25, "D": 14, "E": 18, "F": 60, "G": 40}
	for col, width := range widths {
		if err := f.SetColWidth(rankedSheet, col, col, width); err != nil {
			return err
		}
	}
	headers := []any{"Rank", "Candidate", "Resume", "Score", "Tag", "Explanation", "Feedback"}
	if err := f.SetSheetRow(rankedSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(rankedSheet, "A1", "G1", headerStyle); err != nil {
		return err
	}

	for i, r := range Rows(evals) {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{r.Rank, r.CandidateName, r.ResumeFilename, r.OverallScore, r.QualificationTag, r.Explanation, r.Feedback}
		if err := f.SetSheetRow(rankedSheet, cell, &values); err != nil {
			return err
		}
		if style, ok := rowStyles[r.QualificationTag]; ok {
			if err := f.SetCellStyle(rankedSheet, cell, fmt.Sprintf("G%d", row), style); err != nil {
				return err
			}
		}
	}

	if len(evals) > 0 {
		if err := f.AutoFilter(rankedSheet, fmt.Sprintf("A1:G%d", len(evals)+1), nil); err != nil {
			return err
		}
	}
	return f.SetPanes(rankedSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func summary(f *excelize.File, stats domain.Stats) error {
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 25); err != nil {
		return err
	}
	lines := [][2]any{
		{"Total Candidates", stats.Total},
		{"Qualified", stats.Qualified},
		{"Not Qualified", stats.NotQualified},
		{"Overqualified", stats.Overqualified},
		{"Average Score", stats.AverageScore},
		{"Highest Score", stats.HighestScore},
		{"Lowest Score", stats.LowestScore},
	}
	for i, l := range lines {
		row := i + 1
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), l[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), l[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle); err != nil {
			return err
		}
	}
	return nil
}
