// -----------------------------------------------------------------------
// Report Writer Service - persist the compliance report as an atomic JSON
// artifact, optionally rendered to PDF as well
// -----------------------------------------------------------------------

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conform/internal/interfaces"
	"github.com/ternarybob/conform/internal/models"
)

// Format selects the persisted representation(s)
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatBoth = "both"
)

// Service implements interfaces.ReportWriter
type Service struct {
	outputPath string
	format     string
	pretty     bool
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.ReportWriter = (*Service)(nil)

// NewService creates a report writer
func NewService(outputPath, format string, pretty bool, logger arbor.ILogger) *Service {
	if format == "" {
		format = FormatJSON
	}
	return &Service{
		outputPath: outputPath,
		format:     strings.ToLower(format),
		pretty:     pretty,
		logger:     logger,
	}
}

// Write persists the report and returns the written paths. Writing is
// atomic from the caller's perspective: either the full document lands at
// the target path or an error is returned and no partial file remains.
func (s *Service) Write(report *models.ComplianceReport) ([]string, error) {
	var written []string

	if s.format == FormatJSON || s.format == FormatBoth {
		path := s.pathFor(FormatJSON)
		if err := s.writeJSON(report, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if s.format == FormatPDF || s.format == FormatBoth {
		path := s.pathFor(FormatPDF)
		if err := s.writePDF(report, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if len(written) == 0 {
		return nil, fmt.Errorf("unsupported report format: %s", s.format)
	}

	s.logger.Info().
		Strs("paths", written).
		Str("run_id", report.RunID).
		Msg("Compliance report written")

	return written, nil
}

// pathFor resolves the target path for one representation, swapping the
// extension when both formats are written
func (s *Service) pathFor(format string) string {
	if s.format != FormatBoth {
		return s.outputPath
	}
	base := strings.TrimSuffix(s.outputPath, filepath.Ext(s.outputPath))
	return base + "." + format
}

// writeJSON marshals the report and writes it via a temp file in the
// target directory followed by a rename
func (s *Service) writeJSON(report *models.ComplianceReport, path string) error {
	var data []byte
	var err error
	if s.pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".conform-report-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close report file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize report file: %w", err)
	}

	return nil
}
