package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conform/internal/common"
	"github.com/ternarybob/conform/internal/models"
)

// createTestLogger creates a logger for testing
func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

const goodPipeline = `"""Order ingestion pipeline."""
import logging

logger = logging.getLogger(__name__)

def run(spark):
    try:
        df = spark.read_csv("orders.csv")
        df = df.repartition(4)
        clean = df.dropna()
        clean.cache()
        clean.save("out/orders")
        logger.info("done")
    except Exception:
        logger.error("failed")
        raise
`

const barePipeline = `x = 1
`

const blueprint = `# Pipeline standards

- Validate datasets and drop null values before writing
- Wrap flaky operations in try/except blocks
- Every module starts with a docstring
- Cache or repartition expensive dataframes
`

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	base := t.TempDir()

	codebase := filepath.Join(base, "codebase")
	writeTestFile(t, filepath.Join(codebase, "good.py"), goodPipeline)
	writeTestFile(t, filepath.Join(codebase, "bare.py"), barePipeline)

	rules := filepath.Join(base, "blueprints")
	writeTestFile(t, filepath.Join(rules, "standards.md"), blueprint)

	config := common.NewDefaultConfig()
	config.Analysis.Path = codebase
	config.Rules.Dir = rules
	config.Report.OutputPath = filepath.Join(base, "out", "report.json")
	return config
}

func TestRun_EndToEnd(t *testing.T) {
	config := testConfig(t)

	application, err := New(config, createTestLogger())
	require.NoError(t, err)

	report, err := application.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, config.Analysis.Path, report.Root)
	assert.Equal(t, 2, report.Summary.TotalFiles)

	// bare.py fails data quality and error handling; good.py is compliant
	require.Len(t, report.Violations, 2)
	assert.Contains(t, report.Violations[0].Message, "bare.py")
	assert.Contains(t, report.Violations[1].Message, "bare.py")

	// bare.py warns on performance, documentation and data operations
	assert.Len(t, report.Warnings, 3)

	// one remediation per flagged finding type
	assert.Len(t, report.Suggestions, 5)

	// four rules, two violations, three warnings
	assert.InDelta(t, 0.5, report.Metrics.OverallCompliance, 1e-9)
	assert.InDelta(t, 0.5, report.Metrics.ComplianceScore, 1e-9)
	assert.InDelta(t, 1.25, report.Metrics.RuleCoverage, 1e-9)
	assert.InDelta(t, 0.5, report.Metrics.DataQualityScore, 1e-9)
	assert.InDelta(t, 0.5, report.Metrics.PerformanceScore, 1e-9)
}

func TestRun_WritesReportFile(t *testing.T) {
	config := testConfig(t)

	application, err := New(config, createTestLogger())
	require.NoError(t, err)

	report, err := application.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(config.Report.OutputPath)
	require.NoError(t, err)

	var persisted models.ComplianceReport
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, report.RunID, persisted.RunID)
	assert.Equal(t, report.Metrics, persisted.Metrics)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Report.Format = "xml"

	_, err := New(config, createTestLogger())
	require.Error(t, err)
}

func TestRun_FailsWhenRulesDirMissing(t *testing.T) {
	config := testConfig(t)
	config.Rules.Dir = filepath.Join(t.TempDir(), "missing")

	application, err := New(config, createTestLogger())
	require.NoError(t, err)

	_, err = application.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule catalog construction failed")
}
