package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"evalportal/internal/repository"
)

const (
	// ExportFilename is the attachment name of the CSV export.
	ExportFilename = "project_evaluations.csv"

	utf8BOM = "\uFEFF"
	// ExportHeader columns: evaluator name, student id, year, project, score, comment, evaluated at.
	ExportHeader = "ชื่อผู้ประเมิน,รหัสนักศึกษา,ชั้นปี,โครงงานที่ประเมิน,คะแนน,ความเห็น,วันที่ประเมิน"

	buddhistEraOffset = 543
)

// ExportService renders the evaluation log as CSV.
type ExportService interface {
	ExportCSV(ctx context.Context) ([]byte, error)
}

type exportService struct {
	evaluationRepo repository.EvaluationRepository
	loc            *time.Location
}

// NewExportService creates a new export service. Timestamps are rendered in loc.
func NewExportService(evaluationRepo repository.EvaluationRepository, loc *time.Location) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{
		evaluationRepo: evaluationRepo,
		loc:            loc,
	}
}

// ExportCSV returns a BOM-prefixed UTF-8 document: the header line, then one row per
// evaluation, newest first. The comment column is always quoted.
func (s *exportService) ExportCSV(ctx context.Context) ([]byte, error) {
	evaluations, err := s.evaluationRepo.ListWithDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	buf.WriteString(ExportHeader)
	buf.WriteByte('\n')

	for _, ev := range evaluations {
		var evaluatorName, studentID, year, projectName string
		if ev.Evaluator != nil {
			evaluatorName = ev.Evaluator.Name
			studentID = ev.Evaluator.StudentID
			year = strconv.Itoa(ev.Evaluator.Year)
		}
		if ev.Project != nil {
			projectName = ev.Project.Name
		}

		row := []string{
			csvField(evaluatorName),
			csvField(studentID),
			year,
			csvField(projectName),
			strconv.Itoa(ev.Score),
			quoteField(ev.Comment),
			FormatThaiTimestamp(ev.CreatedAt, s.loc),
		}
		buf.WriteString(strings.Join(row, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// FormatThaiTimestamp renders t like the th-TH locale: d/m/yyyy H:MM:SS with a Buddhist-era year.
func FormatThaiTimestamp(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return fmt.Sprintf("%d/%d/%d %d:%02d:%02d",
		t.Day(), int(t.Month()), t.Year()+buddhistEraOffset,
		t.Hour(), t.Minute(), t.Second())
}

// csvField quotes only when the value would otherwise break the row.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quoteField(s)
	}
	return s
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
