// -----------------------------------------------------------------------
// Rule Catalog Service - build a categorized rule catalog from blueprint
// documents (.md/.txt/.html/.pdf/.docx) and optional direct YAML catalogs
// -----------------------------------------------------------------------

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/conform/internal/interfaces"
	"github.com/ternarybob/conform/internal/models"
)

// Service implements interfaces.CatalogBuilder
type Service struct {
	blueprintDir string
	catalogFile  string
	logger       arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.CatalogBuilder = (*Service)(nil)

// NewService creates a rule catalog builder. blueprintDir holds documents
// whose statements are keyword-classified; catalogFile is an optional YAML
// document mapping categories to rules directly, merged last.
func NewService(blueprintDir, catalogFile string, logger arbor.ILogger) *Service {
	return &Service{
		blueprintDir: blueprintDir,
		catalogFile:  catalogFile,
		logger:       logger,
	}
}

// Build constructs the catalog once per run. The result is a plain value
// passed into the validation engine; the builder keeps no state.
func (s *Service) Build(ctx context.Context) (*models.RuleCatalog, error) {
	catalog := models.NewRuleCatalog()

	if s.blueprintDir != "" {
		if err := s.loadBlueprints(ctx, catalog); err != nil {
			return nil, err
		}
	}

	if s.catalogFile != "" {
		if err := s.loadCatalogFile(catalog); err != nil {
			return nil, err
		}
	}

	if catalog.TotalRules() == 0 {
		s.logger.Warn().
			Str("blueprint_dir", s.blueprintDir).
			Msg("Rule catalog is empty - no checks will be enforced")
	} else {
		for _, category := range models.AllRuleCategories {
			if count := len(catalog.Rules[category]); count > 0 {
				s.logger.Debug().
					Str("category", string(category)).
					Int("rules", count).
					Msg("Catalog category loaded")
			}
		}
		s.logger.Info().
			Int("total_rules", catalog.TotalRules()).
			Msg("Rule catalog built")
	}

	return catalog, nil
}

// loadBlueprints walks the blueprint directory in deterministic order and
// classifies every extracted statement
func (s *Service) loadBlueprints(ctx context.Context, catalog *models.RuleCatalog) error {
	info, err := os.Stat(s.blueprintDir)
	if err != nil {
		return fmt.Errorf("failed to stat blueprint directory %s: %w", s.blueprintDir, err)
	}

	var paths []string
	if info.IsDir() {
		entries, err := os.ReadDir(s.blueprintDir)
		if err != nil {
			return fmt.Errorf("failed to read blueprint directory %s: %w", s.blueprintDir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				paths = append(paths, filepath.Join(s.blueprintDir, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{s.blueprintDir}
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		// YAML blueprints are direct catalogs, not classified statements
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			data, err := os.ReadFile(path)
			if err != nil {
				s.logger.Warn().Err(err).Str("blueprint", path).Msg("Skipping unreadable blueprint")
				continue
			}
			if err := s.mergeYAMLCatalog(data, path, catalog); err != nil {
				s.logger.Warn().Err(err).Str("blueprint", path).Msg("Skipping malformed catalog blueprint")
			}
			continue
		}

		rules, err := s.extractRules(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("blueprint", path).Msg("Skipping unreadable blueprint")
			continue
		}

		for _, rule := range rules {
			catalog.Add(Classify(rule), rule)
		}

		s.logger.Debug().
			Str("blueprint", path).
			Int("rules", len(rules)).
			Msg("Blueprint parsed")
	}

	return nil
}

// extractRules dispatches on file extension
func (s *Service) extractRules(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return rulesFromMarkdown(data), nil

	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return rulesFromHTML(data)

	case ".pdf":
		return rulesFromPDF(path)

	case ".docx":
		return rulesFromDOCX(path)

	case ".txt", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return rulesFromText(data), nil

	default:
		return nil, fmt.Errorf("unsupported blueprint format: %s", filepath.Ext(path))
	}
}

// rulesFromText treats each sufficiently long non-comment line as one rule
// statement
func rulesFromText(source []byte) []string {
	var rules []string
	for _, line := range strings.Split(string(source), "\n") {
		statement := strings.Join(strings.Fields(line), " ")
		if len(statement) < minRuleLength || strings.HasPrefix(statement, "#") {
			continue
		}
		rules = append(rules, statement)
	}
	return rules
}

// loadCatalogFile merges the configured direct YAML catalog
func (s *Service) loadCatalogFile(catalog *models.RuleCatalog) error {
	data, err := os.ReadFile(s.catalogFile)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", s.catalogFile, err)
	}
	return s.mergeYAMLCatalog(data, s.catalogFile, catalog)
}

// mergeYAMLCatalog merges a direct YAML catalog (category -> rule list).
// Statements under unknown category names fall back to keyword
// classification rather than being dropped.
func (s *Service) mergeYAMLCatalog(data []byte, source string, catalog *models.RuleCatalog) error {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse catalog %s: %w", source, err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if models.ValidCategory(name) {
			for _, rule := range raw[name] {
				catalog.Add(models.RuleCategory(name), rule)
			}
			continue
		}

		s.logger.Warn().
			Str("category", name).
			Str("catalog", source).
			Msg("Unknown rule category, classifying its rules by keyword")
		for _, rule := range raw[name] {
			catalog.Add(Classify(rule), rule)
		}
	}

	return nil
}
