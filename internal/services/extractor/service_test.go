package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conform/internal/models"
)

// createTestLogger creates a logger for testing
func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

const sampleETL = `"""Daily orders ETL job."""
import logging
import pandas as pd
from pyspark.sql import SparkSession

logger = logging.getLogger(__name__)

def main():
    spark = SparkSession.builder.getOrCreate()
    try:
        raw = pd.read_csv("orders.csv")
        df = spark.createDataFrame(raw)
        df = df.repartition(8)
        clean = df.dropna()
        clean.cache()
        grouped = clean.groupBy("region")
        totals = grouped.agg({"amount": "sum"})
        totals.write.save("out/totals")
        totals.createOrReplaceTempView("order_totals")
        logger.info("run complete")
    except Exception:
        logger.error("run failed")
        raise
`

func TestExtract_SampleETL(t *testing.T) {
	service := NewService(createTestLogger())

	record, err := service.Extract(context.Background(), []byte(sampleETL))
	require.NoError(t, err)
	require.NotNil(t, record)

	// Data operations classified by trailing member name
	assert.Len(t, record.DataOperations[models.DataOpRead], 1)
	assert.Len(t, record.DataOperations[models.DataOpWrite], 1)
	assert.Len(t, record.DataOperations[models.DataOpCache], 1)
	assert.Len(t, record.DataOperations[models.DataOpMaterializeView], 1)
	assert.Empty(t, record.DataOperations[models.DataOpPersist])
	assert.Equal(t, 4, record.TotalDataOperations())

	// Quality checks
	require.Len(t, record.DataQualityChecks, 1)
	assert.Equal(t, models.QualityDropNull, record.DataQualityChecks[0].Kind)

	// Performance hints
	require.Len(t, record.Performance.Hints, 1)
	assert.Equal(t, models.HintRepartition, record.Performance.Hints[0].Kind)
	assert.True(t, record.Performance.PartitioningUsed)
	assert.True(t, record.Performance.CachingUsed)

	// Transformations: assignments whose RHS is a transformation call
	require.Len(t, record.Transformations, 2)
	assert.Equal(t, models.TransformGroupBy, record.Transformations[0].Kind)
	assert.Equal(t, "grouped", record.Transformations[0].Target)
	assert.Equal(t, models.TransformAggregate, record.Transformations[1].Kind)
	assert.Equal(t, "totals", record.Transformations[1].Target)

	// Imports normalized to module or module.symbol
	assert.Equal(t, []string{"logging", "pandas", "pyspark.sql.SparkSession"}, record.Dependencies)

	// Pattern flags
	assert.True(t, record.Patterns.HasDataValidation)
	assert.True(t, record.Patterns.HasErrorHandling)
	assert.True(t, record.Patterns.HasLogging)
	assert.True(t, record.Patterns.HasPerformanceOptimizations)
	assert.True(t, record.Patterns.HasDocumentation)
}

func TestExtract_PatternInvariants(t *testing.T) {
	service := NewService(createTestLogger())

	sources := []string{
		sampleETL,
		`x = 1`,
		`df = table.filter(col("id") > 0)`,
		`frame = data.repartition(4)`,
	}

	for _, source := range sources {
		record, err := service.Extract(context.Background(), []byte(source))
		require.NoError(t, err)
		assert.Equal(t, len(record.DataQualityChecks) > 0, record.Patterns.HasDataValidation)
		assert.Equal(t, len(record.Performance.Hints) > 0, record.Patterns.HasPerformanceOptimizations)
	}
}

func TestExtract_EmptyAfterPreprocessing(t *testing.T) {
	service := NewService(createTestLogger())

	source := "# COMMAND ----------\n# MAGIC %md\n# MAGIC ## Notes only\n"
	record, err := service.Extract(context.Background(), []byte(source))
	require.NoError(t, err)

	assert.Empty(t, record.DataOperations)
	assert.Empty(t, record.Transformations)
	assert.Empty(t, record.Dependencies)
	assert.Empty(t, record.DataQualityChecks)
	assert.Empty(t, record.Performance.Hints)
	assert.Equal(t, models.PatternFlags{}, record.Patterns)
}

func TestExtract_InvalidSyntaxDegradesToEmptyRecord(t *testing.T) {
	service := NewService(createTestLogger())

	record, err := service.Extract(context.Background(), []byte("def broken(:\n    pass\n"))
	require.NoError(t, err)

	assert.Empty(t, record.DataOperations)
	assert.Equal(t, models.PatternFlags{}, record.Patterns)
}

func TestExtract_InvalidUTF8IsAnExtractionError(t *testing.T) {
	service := NewService(createTestLogger())

	_, err := service.Extract(context.Background(), []byte{0xff, 0xfe, 0x00, 0x41})
	require.Error(t, err)

	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestExtract_DocstringDetection(t *testing.T) {
	service := NewService(createTestLogger())

	tests := []struct {
		name     string
		source   string
		expected bool
	}{
		{"triple quoted docstring", `"""Moves data."""` + "\nx = 1", true},
		{"single quoted docstring", `'pipeline entry'` + "\nx = 1", true},
		{"blank docstring", `"""   """` + "\nx = 1", false},
		{"no docstring", "x = 1", false},
		{"string not leading", "x = 1\n\"not a docstring\"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := service.Extract(context.Background(), []byte(tt.source))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, record.Patterns.HasDocumentation)
		})
	}
}

func TestExtract_NestedImportsAndWildcard(t *testing.T) {
	service := NewService(createTestLogger())

	source := `import os.path

def load():
    import json
    from collections import OrderedDict, defaultdict
    from pyspark.sql.functions import *
    return None
`
	record, err := service.Extract(context.Background(), []byte(source))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"collections.OrderedDict",
		"collections.defaultdict",
		"json",
		"os.path",
		"pyspark.sql.functions",
	}, record.Dependencies)
}

func TestExtract_TryAnywhereSetsErrorHandling(t *testing.T) {
	service := NewService(createTestLogger())

	source := `def run():
    def inner():
        try:
            return 1
        except ValueError:
            return 0
    return inner()
`
	record, err := service.Extract(context.Background(), []byte(source))
	require.NoError(t, err)
	assert.True(t, record.Patterns.HasErrorHandling)
}
