package service

import (
	"go.uber.org/zap"

	"github.com/rosterhub/rosterhub-api/internal/models"
	"github.com/rosterhub/rosterhub-api/pkg/export"
	appErrors "github.com/rosterhub/rosterhub-api/pkg/errors"
)

type rosterSnapshotter interface {
	Snapshot() ([]models.Student, error)
}

// ExportService renders the current roster into downloadable documents.
type ExportService struct {
	roster rosterSnapshotter
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	title  string
	logger *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(roster rosterSnapshotter, title string, logger *zap.Logger) *ExportService {
	if title == "" {
		title = "Student Roster"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		roster: roster,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		title:  title,
		logger: logger,
	}
}

// CSV renders the full roster as CSV bytes.
func (s *ExportService) CSV() ([]byte, error) {
	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return payload, nil
}

// PDF renders the full roster as a tabular PDF.
func (s *ExportService) PDF() ([]byte, error) {
	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(dataset, s.title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return payload, nil
}

func (s *ExportService) dataset() (export.Dataset, error) {
	students, err := s.roster.Snapshot()
	if err != nil {
		return export.Dataset{}, err
	}
	dataset := export.Dataset{
		Headers: []string{"ID", "Name", "Email", "Course", "Enrollment Date", "Status"},
		Rows:    make([][]string, 0, len(students)),
	}
	for _, student := range students {
		dataset.Rows = append(dataset.Rows, []string{
			student.ID,
			student.Name,
			student.Email,
			student.Course,
			student.EnrollmentDate,
			student.Status,
		})
	}
	return dataset, nil
}
