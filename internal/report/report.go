// Package report exports batch score results as Excel or CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go-ats-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Supported formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

const (
	scoresSheet   = "Scores"
	findingsSheet = "Findings"
)

// Entry is the outcome of scoring one resume file. Err is set when the file
// could not be scored.
type Entry struct {
	File  string
	Score *domain.ATSScore
	Err   error
}

var summaryHeaders = []string{
	"FILE", "TARGET ROLE", "OVERALL",
	"STRUCTURE", "KEYWORDS", "IMPACT", "FORMATTING",
	"CRITICAL", "WARNING", "INFO",
	"MISSING KEYWORDS", "ERROR",
}

var findingHeaders = []string{"FILE", "SEVERITY", "CODE", "SECTION", "ITEM", "FIELD", "MESSAGE"}

// FormatFromPath picks the format from a file extension, defaulting to xlsx
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case FormatXLSX, "":
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", ext)
	}
}

// Write renders entries in the given format
func Write(w io.Writer, format string, entries []Entry) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, entries)
	case FormatXLSX, "":
		return WriteExcel(w, entries)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteCSV writes one summary row per entry
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range entries {
		row := summaryRow(e)
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExcel writes a Scores sheet with one row per entry and a Findings
// sheet with one row per finding
func WriteExcel(w io.Writer, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scoresSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(findingsSheet); err != nil {
		return fmt.Errorf("failed to add findings sheet: %w", err)
	}

	// Dark blue header with white text
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSheet(f, scoresSheet, summaryHeaders, headerStyle, summaryRows(entries)); err != nil {
		return err
	}
	if err := writeSheet(f, findingsSheet, findingHeaders, headerStyle, findingRows(entries)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, style int, rows [][]interface{}) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
	}
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", endCell, style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s row: %w", sheet, err)
			}
		}
	}

	// Approximate auto-fit
	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, 20)
	}
	return nil
}

func summaryRows(entries []Entry) [][]interface{} {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, summaryRow(e))
	}
	return rows
}

func summaryRow(e Entry) []interface{} {
	if e.Err != nil || e.Score == nil {
		msg := "not scored"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return []interface{}{e.File, "", "", "", "", "", "", "", "", "", "", msg}
	}

	s := e.Score
	var critical, warning, info int
	for _, f := range s.Findings {
		switch f.Severity {
		case domain.SeverityCritical:
			critical++
		case domain.SeverityWarning:
			warning++
		default:
			info++
		}
	}

	return []interface{}{
		e.File,
		s.TargetRole,
		s.Overall,
		subScoreCell(s, domain.SubScoreStructure),
		subScoreCell(s, domain.SubScoreKeywords),
		subScoreCell(s, domain.SubScoreImpact),
		subScoreCell(s, domain.SubScoreFormatting),
		critical,
		warning,
		info,
		strings.Join(s.MissingKeywords, ", "),
		"",
	}
}

// subScoreCell renders "score/max", or "n/a" when the sub-score was skipped
func subScoreCell(s *domain.ATSScore, name string) string {
	sub, ok := s.SubScore(name)
	if !ok || !sub.Applied {
		return "n/a"
	}
	return strconv.FormatFloat(sub.Score, 'f', -1, 64) + "/" + strconv.FormatFloat(sub.MaxScore, 'f', -1, 64)
}

func findingRows(entries []Entry) [][]interface{} {
	var rows [][]interface{}
	for _, e := range entries {
		if e.Score == nil {
			continue
		}
		for _, f := range e.Score.Findings {
			var section, item, field string
			if f.Pointer != nil {
				section, item, field = f.Pointer.Section, f.Pointer.ItemID, f.Pointer.Field
			}
			rows = append(rows, []interface{}{e.File, string(f.Severity), f.Code, section, item, field, f.Message})
		}
	}
	return rows
}
