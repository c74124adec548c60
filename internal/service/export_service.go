package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
	"github.com/noah-isme/pulse-api/pkg/export"
)

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type leaderboardLister interface {
	All(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type evaluationLister interface {
	ListByType(ctx context.Context, evalType models.EvaluationType) ([]models.Evaluation, error)
}

type csvRenderer interface {
	Render(data *export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data *export.Dataset) ([]byte, error)
}

// ExportService renders leaderboard and evaluation exports for organizers.
type ExportService struct {
	leaderboard leaderboardLister
	evaluations evaluationLister
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers default to the export package implementations.
func NewExportService(leaderboard leaderboardLister, evaluations evaluationLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{leaderboard: leaderboard, evaluations: evaluations, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Leaderboard renders the full ranking.
func (s *ExportService) Leaderboard(ctx context.Context, rawFormat string) (*ExportFile, error) {
	format, err := parseExportFormat(rawFormat)
	if err != nil {
		return nil, err
	}
	entries, err := s.leaderboard.All(ctx)
	if err != nil {
		return nil, err
	}

	data := export.NewDataset("Leaderboard", "rank", "code", "name", "points", "badges")
	for _, entry := range entries {
		data.AddRow(strconv.Itoa(entry.Rank), entry.Code, entry.Name, strconv.Itoa(entry.Points), strings.Join(entry.Badges, " "))
	}
	return s.render(data, "leaderboard", format)
}

// Evaluations renders every response of an evaluation type. Answer columns are the union of question ids.
func (s *ExportService) Evaluations(ctx context.Context, rawType, rawFormat string) (*ExportFile, error) {
	evalType, err := parseEvaluationType(rawType)
	if err != nil {
		return nil, err
	}
	format, err := parseExportFormat(rawFormat)
	if err != nil {
		return nil, err
	}
	evaluations, err := s.evaluations.ListByType(ctx, evalType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}

	questions := responseKeys(evaluations)
	headers := append([]string{"code", "completed_at", "points"}, questions...)
	data := export.NewDataset(fmt.Sprintf("Evaluation %s", evalType), headers...)
	for _, eval := range evaluations {
		row := []string{eval.ParticipantCode, eval.CompletedAt.UTC().Format(time.RFC3339), strconv.Itoa(eval.PointsEarned)}
		for _, q := range questions {
			row = append(row, formatAnswer(eval.Responses[q]))
		}
		data.AddRow(row...)
	}
	return s.render(data, "evaluations-"+string(evalType), format)
}

func (s *ExportService) render(data *export.Dataset, name string, format ExportFormat) (*ExportFile, error) {
	var (
		body        []byte
		err         error
		contentType string
	)
	switch format {
	case ExportFormatPDF:
		body, err = s.pdf.Render(data)
		contentType = "application/pdf"
	default:
		body, err = s.csv.Render(data)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := fmt.Sprintf("%s-%s.%s", name, s.now().UTC().Format("20060102-150405"), format)
	s.logger.Info("export rendered", zap.String("file", filename), zap.Int("rows", len(data.Rows)))
	return &ExportFile{Filename: filename, ContentType: contentType, Body: body}, nil
}

func parseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func responseKeys(evaluations []models.Evaluation) []string {
	seen := map[string]struct{}{}
	keys := []string{}
	for _, eval := range evaluations {
		for k := range eval.Responses {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func formatAnswer(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatAnswer(item))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(v)
	}
}
