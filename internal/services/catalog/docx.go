// -----------------------------------------------------------------------
// DOCX blueprint parsing - unzip the document body and collect paragraph
// text for the plain-text rule path
// -----------------------------------------------------------------------

package catalog

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// rulesFromDOCX extracts rule statements from a Word blueprint. A .docx file
// is a zip archive whose word/document.xml body holds one w:p element per
// paragraph; each paragraph is one candidate rule statement.
func rulesFromDOCX(path string) ([]string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer archive.Close()

	var document io.ReadCloser
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			document, err = file.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open docx body: %w", err)
			}
			break
		}
	}
	if document == nil {
		return nil, fmt.Errorf("docx archive has no word/document.xml")
	}
	defer document.Close()

	paragraphs, err := docxParagraphs(document)
	if err != nil {
		return nil, err
	}
	return rulesFromText([]byte(strings.Join(paragraphs, "\n"))), nil
}

// docxParagraphs streams the document XML, flattening the text runs of each
// w:p element into one line
func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse docx body: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab", "br":
				if inParagraph {
					current.WriteByte(' ')
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, current.String())
				}
				inParagraph = false
			}
		}
	}

	return paragraphs, nil
}
