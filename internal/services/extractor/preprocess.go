// -----------------------------------------------------------------------
// Source preprocessing - reduce notebook exports to one executable stream
// -----------------------------------------------------------------------

package extractor

import "strings"

// Notebook artifacts stripped before parsing. Exported notebooks carry cell
// markers and interpreter magics that are not Python syntax.
const (
	databricksCellMarker = "# COMMAND ----------"
	databricksMagic      = "# MAGIC"
	databricksTitle      = "# DBTITLE"
	jupyterCellMarker    = "# %%"
	jupyterInPrefix      = "# In["
)

// Preprocess reduces raw source text to a single executable-code stream:
// cell markers, markdown cells and magic directives are dropped; a magic
// directive carrying one inline line of code keeps the code part.
func Preprocess(source string) string {
	lines := strings.Split(source, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			kept = append(kept, line)

		case strings.HasPrefix(trimmed, databricksCellMarker),
			strings.HasPrefix(trimmed, databricksMagic),
			strings.HasPrefix(trimmed, databricksTitle),
			strings.HasPrefix(trimmed, jupyterCellMarker),
			strings.HasPrefix(trimmed, jupyterInPrefix):
			// Notebook structure, not code

		case strings.HasPrefix(trimmed, "%") || strings.HasPrefix(trimmed, "!"):
			// Interpreter magic or shell escape. Line magics may inline one
			// line of code after the directive word: keep that code.
			if code := inlineCode(trimmed); code != "" {
				kept = append(kept, code)
			}

		default:
			kept = append(kept, line)
		}
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// inlineCode returns the code portion following a line magic, if any.
// "%time run()" -> "run()"; "%%capture" and bare "%matplotlib inline"
// style directives yield nothing.
func inlineCode(line string) string {
	if strings.HasPrefix(line, "%%") || strings.HasPrefix(line, "!") {
		return ""
	}

	rest := strings.TrimPrefix(line, "%")
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) < 2 {
		return ""
	}

	code := strings.TrimSpace(fields[1])
	// Only keep remainders that look like code rather than directive
	// arguments ("%matplotlib inline", "%load_ext autoreload")
	if !strings.ContainsAny(code, "=(") {
		return ""
	}
	return code
}
