package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"
)

// extractDOCX reads text straight out of the document's structure: body
// paragraphs first, then table rows with cells tab-joined. Deterministic fast
// path, no remote calls.
func (e *Extractor) extractDOCX(path string) (string, error) {
	const op = "extractDOCX"

	r, err := zip.OpenReader(path)
	if err != nil {
		return "", WrapExtractionError(op, ErrInvalidDocument, err.Error())
	}
	defer r.Close()

	var doc io.ReadCloser
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return "", WrapExtractionError(op, ErrInvalidDocument, err.Error())
			}
			break
		}
	}
	if doc == nil {
		return "", WrapExtractionError(op, ErrInvalidDocument, "missing word/document.xml")
	}
	defer doc.Close()

	text, err := parseDocumentXML(doc)
	if err != nil {
		return "", WrapExtractionError(op, ErrInvalidDocument, err.Error())
	}
	return text, nil
}

// parseDocumentXML walks WordprocessingML, collecting body paragraphs and
// table rows. Element names are matched on their local part; the w: namespace
// prefix is irrelevant to the structure.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		tableRows  []string

		tableDepth int
		para       strings.Builder
		inPara     bool
		cell       strings.Builder
		row        []string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				row = row[:0]
			case "tc":
				cell.Reset()
			case "p":
				if tableDepth == 0 {
					para.Reset()
					inPara = true
				}
			case "t":
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return "", err
				}
				if tableDepth > 0 {
					cell.WriteString(s)
				} else if inPara {
					para.WriteString(s)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "tr":
				if tableDepth > 0 {
					tableRows = append(tableRows, strings.Join(row, "\t"))
				}
			case "tc":
				row = append(row, cell.String())
			case "p":
				if tableDepth == 0 && inPara {
					if s := para.String(); strings.TrimSpace(s) != "" {
						paragraphs = append(paragraphs, s)
					}
					inPara = false
				}
			}
		}
	}

	return strings.Join(append(paragraphs, tableRows...), "\n"), nil
}
