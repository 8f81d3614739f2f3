// -----------------------------------------------------------------------
// Feature models - normalized per-file extraction of code-structure facts
// -----------------------------------------------------------------------

package models

// DataOperationKind identifies a recorded data operation
type DataOperationKind string

const (
	DataOpRead            DataOperationKind = "read"
	DataOpWrite           DataOperationKind = "write"
	DataOpMaterializeView DataOperationKind = "materialize_view"
	DataOpCache           DataOperationKind = "cache"
	DataOpPersist         DataOperationKind = "persist"
)

// TransformationKind identifies a recorded transformation
type TransformationKind string

const (
	TransformSelect    TransformationKind = "select"
	TransformAddColumn TransformationKind = "add_column"
	TransformGroupBy   TransformationKind = "group_by"
	TransformAggregate TransformationKind = "aggregate"
	TransformJoin      TransformationKind = "join"
)

// QualityCheckKind identifies a recorded data quality check
type QualityCheckKind string

const (
	QualityFilter       QualityCheckKind = "filter"
	QualityDropNull     QualityCheckKind = "drop_null"
	QualityFillNull     QualityCheckKind = "fill_null"
	QualityNotNullCheck QualityCheckKind = "not_null_check"
)

// PerformanceHintKind identifies a recorded performance hint
type PerformanceHintKind string

const (
	HintRepartition PerformanceHintKind = "repartition"
	HintCoalesce    PerformanceHintKind = "coalesce"
	HintBroadcast   PerformanceHintKind = "broadcast"
	HintPartitionBy PerformanceHintKind = "partition_by"
	HintBucketBy    PerformanceHintKind = "bucket_by"
	HintQueryHint   PerformanceHintKind = "hint"
)

// CallSite records one classified call occurrence
type CallSite struct {
	Line      int      `json:"line"`
	Arguments []string `json:"arguments"`
}

// Transformation records one assignment whose right-hand side is a
// transformation call (target = df.select(...), etc.)
type Transformation struct {
	Kind      TransformationKind `json:"kind"`
	Line      int                `json:"line"`
	Target    string             `json:"target"`
	Arguments []string           `json:"arguments"`
}

// QualityCheck records one data quality check call
type QualityCheck struct {
	Kind      QualityCheckKind `json:"kind"`
	Line      int              `json:"line"`
	Arguments []string         `json:"arguments"`
}

// PerformanceHint records one performance-related call
type PerformanceHint struct {
	Kind      PerformanceHintKind `json:"kind"`
	Line      int                 `json:"line"`
	Arguments []string            `json:"arguments"`
}

// PerformanceProfile summarizes performance-related usage in a file
type PerformanceProfile struct {
	PartitioningUsed bool              `json:"partitioning_used"`
	CachingUsed      bool              `json:"caching_used"`
	Hints            []PerformanceHint `json:"hints"`
}

// PatternFlags are boolean code-pattern indicators derived from the
// extracted features
type PatternFlags struct {
	HasDataValidation           bool `json:"has_data_validation"`
	HasErrorHandling            bool `json:"has_error_handling"`
	HasLogging                  bool `json:"has_logging"`
	HasPerformanceOptimizations bool `json:"has_performance_optimizations"`
	HasDocumentation            bool `json:"has_documentation"`
}

// FeatureRecord is the normalized extraction of one source file.
// Invariants: Patterns.HasDataValidation == (len(DataQualityChecks) > 0)
// and Patterns.HasPerformanceOptimizations == (len(Performance.Hints) > 0).
type FeatureRecord struct {
	DataOperations    map[DataOperationKind][]CallSite `json:"data_operations"`
	Transformations   []Transformation                 `json:"transformations"`
	Dependencies      []string                         `json:"dependencies"`
	DataQualityChecks []QualityCheck                   `json:"data_quality_checks"`
	Performance       PerformanceProfile               `json:"performance"`
	Patterns          PatternFlags                     `json:"patterns"`
}

// NewFeatureRecord returns an empty record with initialized collections.
// An empty record is the degraded result for sources that are blank after
// preprocessing or not syntactically valid.
func NewFeatureRecord() *FeatureRecord {
	return &FeatureRecord{
		DataOperations:    make(map[DataOperationKind][]CallSite),
		Transformations:   []Transformation{},
		Dependencies:      []string{},
		DataQualityChecks: []QualityCheck{},
		Performance: PerformanceProfile{
			Hints: []PerformanceHint{},
		},
	}
}

// TotalDataOperations returns the number of recorded data operation call sites
func (r *FeatureRecord) TotalDataOperations() int {
	total := 0
	for _, sites := range r.DataOperations {
		total += len(sites)
	}
	return total
}

// Finalize derives the pattern flags that are functions of the collected
// features, preserving flags set directly during the walk
func (r *FeatureRecord) Finalize() {
	r.Patterns.HasDataValidation = len(r.DataQualityChecks) > 0
	r.Patterns.HasPerformanceOptimizations = len(r.Performance.Hints) > 0
}
