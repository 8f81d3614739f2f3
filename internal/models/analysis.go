// -----------------------------------------------------------------------
// Analysis models - codebase-level aggregation of feature records
// -----------------------------------------------------------------------

package models

import "sort"

// Summary holds codebase-level counters derived from the files map
type Summary struct {
	TotalFiles           int `json:"total_files"`
	TotalTransformations int `json:"total_transformations"`
	TotalDataOperations  int `json:"total_data_operations"`

	// Per-pattern file counts: number of files with the flag set
	FilesWithDataValidation  int `json:"files_with_data_validation"`
	FilesWithErrorHandling   int `json:"files_with_error_handling"`
	FilesWithLogging         int `json:"files_with_logging"`
	FilesWithPerformanceOpts int `json:"files_with_performance_optimizations"`
	FilesWithDocumentation   int `json:"files_with_documentation"`
}

// CodebaseAnalysis maps relative file paths to their feature records.
// Built once per run from an immutable file list and never mutated after
// construction.
type CodebaseAnalysis struct {
	Root    string                    `json:"root"`
	Files   map[string]*FeatureRecord `json:"files"`
	Summary Summary                   `json:"summary"`
}

// SortedPaths returns the file paths in deterministic order for emission
func (a *CodebaseAnalysis) SortedPaths() []string {
	paths := make([]string, 0, len(a.Files))
	for path := range a.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ComputeSummary derives the summary counters from the files map. The
// result is independent of the order files were processed in.
func (a *CodebaseAnalysis) ComputeSummary() {
	summary := Summary{TotalFiles: len(a.Files)}

	for _, record := range a.Files {
		summary.TotalTransformations += len(record.Transformations)
		summary.TotalDataOperations += record.TotalDataOperations()

		if record.Patterns.HasDataValidation {
			summary.FilesWithDataValidation++
		}
		if record.Patterns.HasErrorHandling {
			summary.FilesWithErrorHandling++
		}
		if record.Patterns.HasLogging {
			summary.FilesWithLogging++
		}
		if record.Patterns.HasPerformanceOptimizations {
			summary.FilesWithPerformanceOpts++
		}
		if record.Patterns.HasDocumentation {
			summary.FilesWithDocumentation++
		}
	}

	a.Summary = summary
}
