// -----------------------------------------------------------------------
// Codebase Aggregator Service - walk a codebase, extract per-file feature
// records in parallel and merge them into an immutable analysis snapshot
// -----------------------------------------------------------------------

package aggregator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conform/internal/interfaces"
	"github.com/ternarybob/conform/internal/models"
	"github.com/ternarybob/conform/internal/services/workers"
)

// Service implements interfaces.CodebaseAggregator
type Service struct {
	extractor   interfaces.FeatureExtractor
	extensions  map[string]bool
	excludeDirs map[string]bool
	maxWorkers  int
	logger      arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.CodebaseAggregator = (*Service)(nil)

// NewService creates a codebase aggregator. extensions and excludeDirs
// replace the defaults only when non-empty.
func NewService(extractor interfaces.FeatureExtractor, extensions, excludeDirs []string, maxWorkers int, logger arbor.ILogger) *Service {
	if len(extensions) == 0 {
		extensions = []string{".py"}
	}

	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}

	dirSet := make(map[string]bool, len(excludeDirs))
	for _, dir := range excludeDirs {
		dirSet[dir] = true
	}

	return &Service{
		extractor:   extractor,
		extensions:  extSet,
		excludeDirs: dirSet,
		maxWorkers:  maxWorkers,
		logger:      logger,
	}
}

// Aggregate enumerates source files under root (a directory or a single
// file), extracts each in parallel and merges the records at the join
// point. Unreadable or unextractable files are logged and omitted; their
// absence from the files map is the only trace they leave.
func (s *Service) Aggregate(ctx context.Context, root string) (*models.CodebaseAnalysis, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat codebase root %s: %w", root, err)
	}

	var files []string
	if info.IsDir() {
		files, err = s.enumerate(root)
		if err != nil {
			return nil, err
		}
	} else {
		files = []string{root}
	}

	s.logger.Info().
		Str("root", root).
		Int("files", len(files)).
		Msg("Aggregating codebase features")

	analysis := &models.CodebaseAnalysis{
		Root:  root,
		Files: make(map[string]*models.FeatureRecord, len(files)),
	}

	// Fan-out: each task owns its file exclusively and returns an immutable
	// record; the shared map is written under a lock only at the join side.
	var mu sync.Mutex

	pool := workers.NewPool(ctx, s.maxWorkers, s.logger)
	pool.Start()

	for _, path := range files {
		path := path
		task := workers.Task{
			Label: path,
			Run: func(taskCtx context.Context) error {
				record, err := s.extractFile(taskCtx, path)
				if err != nil {
					return err
				}

				relPath := s.relativePath(root, path, info.IsDir())

				mu.Lock()
				analysis.Files[relPath] = record
				mu.Unlock()
				return nil
			},
		}
		if err := pool.Submit(task); err != nil {
			break
		}
	}

	pool.Wait()

	// A canceled run must not surface as a complete analysis
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation interrupted: %w", err)
	}

	for _, failure := range pool.Failures() {
		s.logger.Warn().
			Err(failure.Err).
			Str("file", failure.Label).
			Msg("Skipped file during aggregation")
	}

	analysis.ComputeSummary()

	s.logger.Info().
		Int("analyzed", analysis.Summary.TotalFiles).
		Int("skipped", len(pool.Failures())).
		Int("transformations", analysis.Summary.TotalTransformations).
		Int("data_operations", analysis.Summary.TotalDataOperations).
		Msg("Codebase aggregation complete")

	return analysis, nil
}

// enumerate collects source files under root, skipping excluded directory
// names at every depth
func (s *Service) enumerate(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && s.excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if s.extensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk codebase root %s: %w", root, err)
	}

	return files, nil
}

// extractFile reads one file and invokes the extractor
func (s *Service) extractFile(ctx context.Context, path string) (*models.FeatureRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	record, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract features: %w", err)
	}
	return record, nil
}

// relativePath keys the files map by root-relative slash paths
func (s *Service) relativePath(root, path string, rootIsDir bool) string {
	if !rootIsDir {
		return filepath.ToSlash(filepath.Base(path))
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
