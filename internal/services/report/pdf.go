// -----------------------------------------------------------------------
// PDF report rendering - human-readable summary of the compliance report
// -----------------------------------------------------------------------

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/ternarybob/conform/internal/models"
)

// writePDF renders the report summary to a PDF. Like the JSON writer it
// goes through a temp file and a rename so failures leave no partial file.
func (s *Service) writePDF(report *models.ComplianceReport, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Compliance Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Run %s - generated %s", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Codebase: %s (%d files)", report.Root, report.Summary.TotalFiles))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Metrics")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	metricRows := []struct {
		label string
		value float64
	}{
		{"Overall compliance", report.Metrics.OverallCompliance},
		{"Compliance score (clamped)", report.Metrics.ComplianceScore},
		{"Rule coverage", report.Metrics.RuleCoverage},
		{"Data quality score", report.Metrics.DataQualityScore},
		{"Performance score", report.Metrics.PerformanceScore},
	}
	for _, row := range metricRows {
		pdf.Cell(60, 6, row.label)
		pdf.Cell(0, 6, fmt.Sprintf("%.2f", row.value))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	sections := []struct {
		title    string
		findings []models.Finding
	}{
		{"Violations", report.Violations},
		{"Warnings", report.Warnings},
		{"Suggestions", report.Suggestions},
	}
	for _, section := range sections {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("%s (%d)", section.title, len(section.findings)))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		for _, finding := range section.findings {
			pdf.MultiCell(0, 5, fmt.Sprintf("[%s/%s] %s", finding.Type, finding.Severity, finding.Message), "", "L", false)
		}
		pdf.Ln(4)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".conform-report-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := pdf.Output(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to render report PDF: %w", err)
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
