// -----------------------------------------------------------------------
// Call classification tables - static lookup from trailing member name to
// feature category, built once and queried per call node
// -----------------------------------------------------------------------

package extractor

import "github.com/ternarybob/conform/internal/models"

// callCategory is the feature bucket a classified call lands in. A call
// matches at most one category per occurrence; the merged table below keeps
// the name sets disjoint so exact-name lookup is unambiguous.
type callCategory int

const (
	categoryDataOperation callCategory = iota
	categoryQualityCheck
	categoryPerformanceHint
)

type callClassification struct {
	category callCategory
	dataOp   models.DataOperationKind
	quality  models.QualityCheckKind
	hint     models.PerformanceHintKind
}

// callTable maps trailing member-access names to their classification.
// Exact match only; no fuzzy or partial matching.
var callTable = map[string]callClassification{
	// Data operations
	"read":         {category: categoryDataOperation, dataOp: models.DataOpRead},
	"read_csv":     {category: categoryDataOperation, dataOp: models.DataOpRead},
	"read_json":    {category: categoryDataOperation, dataOp: models.DataOpRead},
	"read_parquet": {category: categoryDataOperation, dataOp: models.DataOpRead},
	"read_table":   {category: categoryDataOperation, dataOp: models.DataOpRead},
	"load":         {category: categoryDataOperation, dataOp: models.DataOpRead},
	"table":        {category: categoryDataOperation, dataOp: models.DataOpRead},

	"write":       {category: categoryDataOperation, dataOp: models.DataOpWrite},
	"save":        {category: categoryDataOperation, dataOp: models.DataOpWrite},
	"saveAsTable": {category: categoryDataOperation, dataOp: models.DataOpWrite},
	"to_csv":      {category: categoryDataOperation, dataOp: models.DataOpWrite},
	"to_parquet":  {category: categoryDataOperation, dataOp: models.DataOpWrite},
	"insertInto":  {category: categoryDataOperation, dataOp: models.DataOpWrite},

	"createOrReplaceTempView":       {category: categoryDataOperation, dataOp: models.DataOpMaterializeView},
	"createTempView":                {category: categoryDataOperation, dataOp: models.DataOpMaterializeView},
	"createGlobalTempView":          {category: categoryDataOperation, dataOp: models.DataOpMaterializeView},
	"createOrReplaceGlobalTempView": {category: categoryDataOperation, dataOp: models.DataOpMaterializeView},

	"cache": {category: categoryDataOperation, dataOp: models.DataOpCache},

	"persist":    {category: categoryDataOperation, dataOp: models.DataOpPersist},
	"checkpoint": {category: categoryDataOperation, dataOp: models.DataOpPersist},

	// Data quality checks
	"filter":         {category: categoryQualityCheck, quality: models.QualityFilter},
	"where":          {category: categoryQualityCheck, quality: models.QualityFilter},
	"dropna":         {category: categoryQualityCheck, quality: models.QualityDropNull},
	"dropDuplicates": {category: categoryQualityCheck, quality: models.QualityDropNull},
	"fillna":         {category: categoryQualityCheck, quality: models.QualityFillNull},
	"fill":           {category: categoryQualityCheck, quality: models.QualityFillNull},
	"isNotNull":      {category: categoryQualityCheck, quality: models.QualityNotNullCheck},
	"notnull":        {category: categoryQualityCheck, quality: models.QualityNotNullCheck},
	"notna":          {category: categoryQualityCheck, quality: models.QualityNotNullCheck},

	// Performance hints
	"repartition":        {category: categoryPerformanceHint, hint: models.HintRepartition},
	"repartitionByRange": {category: categoryPerformanceHint, hint: models.HintRepartition},
	"coalesce":           {category: categoryPerformanceHint, hint: models.HintCoalesce},
	"broadcast":          {category: categoryPerformanceHint, hint: models.HintBroadcast},
	"partitionBy":        {category: categoryPerformanceHint, hint: models.HintPartitionBy},
	"bucketBy":           {category: categoryPerformanceHint, hint: models.HintBucketBy},
	"hint":               {category: categoryPerformanceHint, hint: models.HintQueryHint},
}

// transformationTable maps trailing member names of assignment right-hand
// sides to transformation kinds. Disjoint from callTable by construction.
var transformationTable = map[string]models.TransformationKind{
	"select":     models.TransformSelect,
	"selectExpr": models.TransformSelect,
	"withColumn": models.TransformAddColumn,
	"assign":     models.TransformAddColumn,
	"groupBy":    models.TransformGroupBy,
	"groupby":    models.TransformGroupBy,
	"agg":        models.TransformAggregate,
	"aggregate":  models.TransformAggregate,
	"join":       models.TransformJoin,
	"merge":      models.TransformJoin,
}

// logCallNames is the fixed log-level set: any call whose trailing member
// name appears here sets the logging pattern flag.
var logCallNames = map[string]bool{
	"debug":     true,
	"info":      true,
	"warning":   true,
	"error":     true,
	"critical":  true,
	"exception": true,
	"log":       true,
}

// partitioningHints are the hint kinds that flip PartitioningUsed
var partitioningHints = map[models.PerformanceHintKind]bool{
	models.HintRepartition: true,
	models.HintPartitionBy: true,
	models.HintBucketBy:    true,
}
