package catalog

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
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

func writeBlueprint(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const standardsMarkdown = `# Engineering standards

These guidelines apply to every data pipeline in the platform.

## Rules

- Never store passwords in plain text
- All functions must have unit tests
- short
`

const operationsText = `# comment lines are ignored
Use structured logging for all services
tiny
Repartition large tables before wide joins
`

func TestBuild_FromBlueprintDirectory(t *testing.T) {
	dir := t.TempDir()
	writeBlueprint(t, dir, "standards.md", standardsMarkdown)
	writeBlueprint(t, dir, "operations.txt", operationsText)

	service := NewService(dir, "", createTestLogger())

	catalog, err := service.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, catalog.TotalRules())
	assert.Equal(t, []string{"Never store passwords in plain text"}, catalog.Rules[models.CategorySecurity])
	assert.Equal(t, []string{"All functions must have unit tests"}, catalog.Rules[models.CategoryTesting])
	assert.Equal(t, []string{"Use structured logging for all services"}, catalog.Rules[models.CategoryLogging])
	assert.Equal(t, []string{"Repartition large tables before wide joins"}, catalog.Rules[models.CategoryPerformance])

	// The intro paragraph is a statement too, classified by keyword
	assert.Equal(t,
		[]string{"These guidelines apply to every data pipeline in the platform."},
		catalog.Rules[models.CategoryDataHandling])
}

func TestBuild_SingleBlueprintFile(t *testing.T) {
	dir := t.TempDir()
	path := writeBlueprint(t, dir, "operations.txt", operationsText)

	service := NewService(path, "", createTestLogger())

	catalog, err := service.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.TotalRules())
}

func TestBuild_UnsupportedBlueprintIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeBlueprint(t, dir, "operations.txt", operationsText)
	writeBlueprint(t, dir, "legacy.xlsx", "binary-ish content")

	service := NewService(dir, "", createTestLogger())

	catalog, err := service.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.TotalRules())
}

// writeDOCXBlueprint assembles a minimal Word archive with one w:p element
// per paragraph
func writeDOCXBlueprint(t *testing.T, dir, name string, paragraphs []string) string {
	t.Helper()

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	builder.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, paragraph := range paragraphs {
		builder.WriteString("<w:p><w:r><w:t>")
		require.NoError(t, xml.EscapeText(&builder, []byte(paragraph)))
		builder.WriteString("</w:t></w:r></w:p>")
	}
	builder.WriteString(`</w:body></w:document>`)

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	require.NoError(t, err)

	archive := zip.NewWriter(out)
	body, err := archive.Create("word/document.xml")
	require.NoError(t, err)
	_, err = body.Write([]byte(builder.String()))
	require.NoError(t, err)
	require.NoError(t, archive.Close())
	require.NoError(t, out.Close())
	return path
}

func TestBuild_DOCXBlueprint(t *testing.T) {
	dir := t.TempDir()
	writeDOCXBlueprint(t, dir, "standards.docx", []string{
		"Never store passwords in plain text",
		"tiny",
		"Use structured logging for all services",
	})

	service := NewService(dir, "", createTestLogger())

	catalog, err := service.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.TotalRules())
	assert.Equal(t, []string{"Never store passwords in plain text"}, catalog.Rules[models.CategorySecurity])
	assert.Equal(t, []string{"Use structured logging for all services"}, catalog.Rules[models.CategoryLogging])
}

func TestBuild_MalformedDOCXIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeBlueprint(t, dir, "broken.docx", "not a zip archive")
	writeBlueprint(t, dir, "operations.txt", operationsText)

	service := NewService(dir, "", createTestLogger())

	catalog, err := service.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.TotalRules())
}

func TestBuild_YAMLBlueprintIsADirectCatalog(t *testing.T) {
	dir := t.TempDir()
	writeBlueprint(t, dir, "catalog.yaml", `testing_requirements:
  - All functions must have unit tests
`)

	service := NewService(dir, "", createTestLogger())

	catalog, err := service.Build(context.Background())
	require.NoError(t, err)

	// Rules land under the declared category without keyword classification
	assert.Equal(t, []string{"All functions must have unit tests"}, catalog.Rules[models.CategoryTesting])
	assert.Equal(t, 1, catalog.TotalRules())
}

func TestBuild_CatalogFileMergesAfterBlueprints(t *testing.T) {
	dir := t.TempDir()
	writeBlueprint(t, dir, "operations.txt", operationsText)

	catalogYAML := `error_handling:
  - Wrap external calls in try/except blocks
process:
  - Record rollback steps for each deployment
`
	catalogPath := writeBlueprint(t, dir, "catalog.yaml", catalogYAML)

	blueprints := filepath.Join(dir, "blueprints")
	require.NoError(t, os.Mkdir(blueprints, 0755))
	writeBlueprint(t, blueprints, "operations.txt", operationsText)

	service := NewService(blueprints, catalogPath, createTestLogger())

	catalog, err := service.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, catalog.TotalRules())
	assert.Equal(t, []string{"Wrap external calls in try/except blocks"}, catalog.Rules[models.CategoryErrorHandling])

	// Unknown category names fall back to keyword classification
	assert.Equal(t, []string{"Record rollback steps for each deployment"}, catalog.Rules[models.CategoryGeneralGuidelines])
}

func TestBuild_CatalogFileOnly(t *testing.T) {
	dir := t.TempDir()
	catalogYAML := `data_handling:
  - Validate the schema before writing output
performance_guidelines:
  - Cache datasets reused across stages
`
	catalogPath := writeBlueprint(t, dir, "catalog.yaml", catalogYAML)

	service := NewService("", catalogPath, createTestLogger())

	catalog, err := service.Build(context.Background())
	require.NoError(t, err)

	assert.True(t, catalog.HasCategory(models.CategoryDataHandling))
	assert.True(t, catalog.HasCategory(models.CategoryPerformance))
	assert.False(t, catalog.HasCategory(models.CategorySecurity))
}

func TestBuild_EmptyInputsGiveEmptyCatalog(t *testing.T) {
	service := NewService("", "", createTestLogger())

	catalog, err := service.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, catalog.TotalRules())
}

func TestBuild_MissingBlueprintDirIsAnError(t *testing.T) {
	service := NewService(filepath.Join(t.TempDir(), "missing"), "", createTestLogger())

	_, err := service.Build(context.Background())
	require.Error(t, err)
}

func TestBuild_MalformedCatalogFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeBlueprint(t, dir, "catalog.yaml", "not: [valid: yaml")

	service := NewService("", catalogPath, createTestLogger())

	_, err := service.Build(context.Background())
	require.Error(t, err)
}

func TestRulesFromMarkdown_HeadingsAreNotRules(t *testing.T) {
	rules := rulesFromMarkdown([]byte("# A heading long enough to pass the filter\n\n- Validate all inputs thoroughly\n"))
	assert.Equal(t, []string{"Validate all inputs thoroughly"}, rules)
}
