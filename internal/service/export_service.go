package service

import (
	"fmt"
	"time"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportFile is a rendered schedule document.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a teacher's weekly availability as a downloadable
// document.
type ExportService struct {
	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewExportService builds the export service.
func NewExportService() *ExportService {
	return &ExportService{csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

// RenderSchedule produces the schedule table in the requested format.
func (s *ExportService) RenderSchedule(slots []models.AvailableSlot, format string) (*ExportFile, error) {
	dataset := export.Dataset{
		Headers: []string{"Weekday", "Start", "End", "Active"},
		Rows:    make([]map[string]string, 0, len(slots)),
	}
	for _, slot := range slots {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Weekday": time.Weekday(slot.Weekday).String(),
			"Start":   slot.StartTime,
			"End":     slot.EndTime,
			"Active":  fmt.Sprintf("%t", slot.IsActive),
		})
	}

	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Content: content, ContentType: "text/csv", Filename: "schedule.csv"}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Weekly Availability")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Content: content, ContentType: "application/pdf", Filename: "schedule.pdf"}, nil
	default:
		return nil, appErrors.Validation("invalid export format", map[string]string{
			"format": "format must be csv or pdf",
		})
	}
}
