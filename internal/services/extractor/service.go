// -----------------------------------------------------------------------
// Feature Extractor Service - parse one Python source unit into a
// normalized feature record using tree-sitter
// -----------------------------------------------------------------------

package extractor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conform/internal/interfaces"
	"github.com/ternarybob/conform/internal/models"
)

// ExtractionError indicates source text that could not be processed at all
// (as opposed to sources that degrade to an empty record)
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

// Service implements interfaces.FeatureExtractor for Python sources,
// including notebook exports
type Service struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.FeatureExtractor = (*Service)(nil)

// NewService creates a new feature extractor service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Extract parses source text into a feature record. Text that is empty
// after preprocessing, or that fails to parse as valid Python, returns an
// empty record so a single bad file never blocks aggregation.
func (s *Service) Extract(ctx context.Context, source []byte) (*models.FeatureRecord, error) {
	record := models.NewFeatureRecord()

	if !isValidUTF8(source) {
		return nil, &ExtractionError{Reason: "source is not valid UTF-8 text"}
	}

	reduced := Preprocess(string(source))
	if reduced == "" {
		record.Finalize()
		return record, nil
	}

	// tree-sitter parsers hold internal state, so each extraction owns one
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	src := []byte(reduced)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &ExtractionError{Reason: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		// Not valid syntax: degrade to an empty record rather than poison
		// the aggregate
		s.logger.Debug().Msg("Source has syntax errors, returning empty feature record")
		record.Finalize()
		return record, nil
	}

	walker := &featureWalker{src: src, record: record}
	walker.checkModuleDocstring(root)
	walker.walk(root)
	walker.finish()

	return record, nil
}

// featureWalker accumulates features during a single pass over the tree
type featureWalker struct {
	src     []byte
	record  *models.FeatureRecord
	imports map[string]bool
}

func (w *featureWalker) text(n *sitter.Node) string {
	return string(w.src[n.StartByte():n.EndByte()])
}

func (w *featureWalker) line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func (w *featureWalker) walk(node *sitter.Node) {
	switch node.Type() {
	case "call":
		w.classifyCall(node)
	case "assignment":
		w.classifyAssignment(node)
	case "import_statement":
		w.collectImport(node)
	case "import_from_statement":
		w.collectImportFrom(node)
	case "try_statement":
		w.record.Patterns.HasErrorHandling = true
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.walk(node.NamedChild(i))
	}
}

// trailingName returns the trailing member-access name of a call's function
// expression: "df.na.drop" -> "drop", bare "broadcast" -> "broadcast".
func (w *featureWalker) trailingName(call *sitter.Node) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "attribute":
		if attr := fn.ChildByFieldName("attribute"); attr != nil {
			return w.text(attr)
		}
	case "identifier":
		return w.text(fn)
	}
	return ""
}

// arguments returns the source text of each argument of a call
func (w *featureWalker) arguments(call *sitter.Node) []string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return []string{}
	}
	out := make([]string, 0, int(args.NamedChildCount()))
	for i := 0; i < int(args.NamedChildCount()); i++ {
		out = append(out, w.text(args.NamedChild(i)))
	}
	return out
}

// classifyCall buckets a call by its trailing member name via the static
// lookup table. At most one category matches per occurrence.
func (w *featureWalker) classifyCall(call *sitter.Node) {
	name := w.trailingName(call)
	if name == "" {
		return
	}

	if logCallNames[name] {
		w.record.Patterns.HasLogging = true
	}

	classification, ok := callTable[name]
	if !ok {
		return
	}

	line := w.line(call)
	args := w.arguments(call)

	switch classification.category {
	case categoryDataOperation:
		kind := classification.dataOp
		w.record.DataOperations[kind] = append(w.record.DataOperations[kind], models.CallSite{
			Line:      line,
			Arguments: args,
		})
	case categoryQualityCheck:
		w.record.DataQualityChecks = append(w.record.DataQualityChecks, models.QualityCheck{
			Kind:      classification.quality,
			Line:      line,
			Arguments: args,
		})
	case categoryPerformanceHint:
		w.record.Performance.Hints = append(w.record.Performance.Hints, models.PerformanceHint{
			Kind:      classification.hint,
			Line:      line,
			Arguments: args,
		})
	}
}

// classifyAssignment records assignments whose right-hand side is a call
// with a trailing member name in the transformation set
func (w *featureWalker) classifyAssignment(node *sitter.Node) {
	right := node.ChildByFieldName("right")
	if right == nil || right.Type() != "call" {
		return
	}

	kind, ok := transformationTable[w.trailingName(right)]
	if !ok {
		return
	}

	target := ""
	if left := node.ChildByFieldName("left"); left != nil {
		target = w.text(left)
	}

	w.record.Transformations = append(w.record.Transformations, models.Transformation{
		Kind:      kind,
		Line:      w.line(node),
		Target:    target,
		Arguments: w.arguments(right),
	})
}

// collectImport handles "import a.b" and "import a.b as c"
func (w *featureWalker) collectImport(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			w.addImport(w.text(child))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				w.addImport(w.text(name))
			}
		}
	}
}

// collectImportFrom handles "from m import a, b as c" normalized to
// "m.a", "m.b"
func (w *featureWalker) collectImportFrom(node *sitter.Node) {
	module := ""
	if moduleNode := node.ChildByFieldName("module_name"); moduleNode != nil {
		module = w.text(moduleNode)
	}

	imported := false
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		symbol := ""
		switch child.Type() {
		case "dotted_name":
			symbol = w.text(child)
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				symbol = w.text(name)
			}
		default:
			continue
		}
		if symbol == "" || symbol == module {
			continue
		}
		if module != "" {
			w.addImport(module + "." + symbol)
		} else {
			w.addImport(symbol)
		}
		imported = true
	}

	// "from m import *" records the module itself
	if !imported && module != "" {
		w.addImport(module)
	}
}

func (w *featureWalker) addImport(name string) {
	if w.imports == nil {
		w.imports = make(map[string]bool)
	}
	if name != "" {
		w.imports[name] = true
	}
}

// checkModuleDocstring sets the documentation flag when the unit opens with
// a non-empty descriptive string literal
func (w *featureWalker) checkModuleDocstring(root *sitter.Node) {
	if root.NamedChildCount() == 0 {
		return
	}
	first := root.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return
	}
	w.record.Patterns.HasDocumentation = strings.TrimSpace(stripStringDelimiters(w.text(str))) != ""
}

// stripStringDelimiters removes string prefixes (r, b, u, f) and the
// surrounding quote delimiters from a string literal's source text
func stripStringDelimiters(literal string) string {
	s := strings.TrimLeft(literal, "rRbBuUfF")
	for _, delim := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, delim) && strings.HasSuffix(s, delim) && len(s) >= 2*len(delim) {
			return s[len(delim) : len(s)-len(delim)]
		}
	}
	return s
}

// finish derives the dependent fields once the walk completes
func (w *featureWalker) finish() {
	deps := make([]string, 0, len(w.imports))
	for name := range w.imports {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	w.record.Dependencies = deps

	for _, hint := range w.record.Performance.Hints {
		if partitioningHints[hint.Kind] {
			w.record.Performance.PartitioningUsed = true
			break
		}
	}
	w.record.Performance.CachingUsed = len(w.record.DataOperations[models.DataOpCache]) > 0 ||
		len(w.record.DataOperations[models.DataOpPersist]) > 0

	w.record.Finalize()
}

// isValidUTF8 reports whether the source decodes as UTF-8 text
func isValidUTF8(data []byte) bool {
	return utf8.Valid(data)
}
